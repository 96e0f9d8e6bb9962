package ndbc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tidewire/tidewire/internal/ndbc"
)

func TestStationCodeCanonicalization(t *testing.T) {
	tests := []struct {
		in        string
		archive   string
		canonical string
	}{
		{in: "41001", archive: "41001", canonical: "41001"},
		{in: "TPLM2", archive: "tplm2", canonical: "TPLM2"},
		{in: "tplm2", archive: "tplm2", canonical: "TPLM2"},
		{in: "TpLm2", archive: "tplm2", canonical: "TPLM2"},
		{in: "  ktnf1\t", archive: "ktnf1", canonical: "KTNF1"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.archive, ndbc.ArchiveStation(tt.in))
			assert.Equal(t, tt.canonical, ndbc.CanonicalStation(tt.in))

			// Round trips through the archive form are lossless.
			assert.Equal(t, tt.canonical, ndbc.CanonicalStation(ndbc.ArchiveStation(tt.canonical)))
			assert.Equal(t, tt.canonical, ndbc.CanonicalStation(tt.canonical))
		})
	}
}
