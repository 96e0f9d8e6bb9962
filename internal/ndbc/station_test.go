package ndbc_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidewire/tidewire/internal/ndbc"
)

const rosterXML = `<?xml version="1.0" encoding="UTF-8"?>
<stations created="2024-03-12T14:50:01UTC" count="3">
  <station id="41001" lat="34.724" lon="-72.317" elev="0" name="EAST HATTERAS" owner="NDBC" pgm="NDBC Meteorological/Ocean" type="buoy" met="y" currents="n" waterquality="n" dart="n"/>
  <station id="tplm2" lat="38.899" lon="-76.436" name="Thomas Point, MD" owner="NDBC" pgm="NDBC Meteorological/Ocean" type="fixed" met="y" currents="n" waterquality="n" dart="n"/>
  <station id="21413" lat="30.515" lon="152.127" name="SOUTHEAST TOKYO" owner="NDBC" pgm="Tsunami" type="dart" met="n" currents="n" waterquality="n" dart="y"/>
</stations>`

const metadataXML = `<?xml version="1.0" encoding="UTF-8"?>
<stations created="2024-03-12T14:50:01UTC">
  <station id="41001" name="EAST HATTERAS" owner="NDBC" pgm="NDBC Meteorological/Ocean" type="buoy">
    <history start="2019-06-01" stop="2020-05-31" lat="34.724" lng="-72.317" elev="0" met="y" hull="6N" anemom_height="4.1"/>
    <history start="2020-06-01" lat="34.720" lng="-72.320" elev="0" met="y" hull="3D" anemom_height="4.1"/>
  </station>
</stations>`

func TestParseRoster(t *testing.T) {
	roster, err := ndbc.ParseRoster(strings.NewReader(rosterXML))
	require.NoError(t, err)

	assert.Equal(t, 3, roster.Count)
	require.Len(t, roster.Stations, 3)

	created, err := roster.CreatedAt()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 12, 14, 50, 1, 0, time.UTC), created)

	s := roster.Stations[0]
	assert.Equal(t, "41001", s.ID)
	require.NotNil(t, s.Lat)
	assert.InDelta(t, 34.724, *s.Lat, 1e-9)
	assert.Equal(t, "NDBC Meteorological/Ocean", s.Program)
	assert.Equal(t, ndbc.FlagYes, s.Met)
	assert.Equal(t, ndbc.FlagNo, s.DART)

	assert.Equal(t, "TPLM2", roster.Stations[1].ID)
	assert.Nil(t, roster.Stations[1].Elev)
	assert.Equal(t, ndbc.FlagYes, roster.Stations[2].DART)
}

func TestParseRoster_Malformed(t *testing.T) {
	_, err := ndbc.ParseRoster(strings.NewReader(`<stations><station id="41001"`))
	assert.Error(t, err)
}

func TestStation_JSONOmitsEmptySlots(t *testing.T) {
	data, err := json.Marshal(ndbc.Station{ID: "41001", Met: ndbc.FlagYes})
	require.NoError(t, err)

	assert.Contains(t, string(data), `"met":"yes"`)
	assert.Contains(t, string(data), `"dart":"unknown"`)
	assert.NotContains(t, string(data), "stdmetHistory")
}

func TestParseStationMetadata(t *testing.T) {
	catalog, err := ndbc.ParseStationMetadata(strings.NewReader(metadataXML))
	require.NoError(t, err)

	meta, ok := catalog.Find("41001")
	require.True(t, ok)
	require.Len(t, meta.History, 2)
	assert.Equal(t, "6N", meta.History[0].Hull)
	assert.Equal(t, "4.1", meta.History[0].AnemometerHeight)
	assert.Empty(t, meta.History[1].Stop)

	_, ok = catalog.Find("99999")
	assert.False(t, ok)
}
