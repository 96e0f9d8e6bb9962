package ndbc_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidewire/tidewire/internal/ndbc"
)

func TestHistoricalFileURL(t *testing.T) {
	u, err := ndbc.HistoricalFileURL("", "41001", ndbc.StandardMeteorological, 2019)
	require.NoError(t, err)
	assert.Equal(t, "https://www.ndbc.noaa.gov/view_text_file.php?filename=41001h2019.txt.gz&dir=data/historical/stdmet/", u)

	u, err = ndbc.HistoricalFileURL("http://localhost:8080/", "TPLM2", ndbc.ContinuousWinds, 2020)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/view_text_file.php?filename=tplm2c2020.txt.gz&dir=data/historical/cwind/", u)

	_, err = ndbc.HistoricalFileURL("", "41001", ndbc.SpectralWaveDensity, 2019)
	assert.ErrorIs(t, err, ndbc.ErrUnsupportedDataType)
}

func TestMonthlyFileURL(t *testing.T) {
	mar, _ := ndbc.LookupMonth(time.March)
	assert.Equal(t,
		"https://www.ndbc.noaa.gov/view_text_file.php?filename=4100132024.txt.gz&dir=data/stdmet/Mar/",
		ndbc.MonthlyFileURL("", "41001", ndbc.StandardMeteorological, mar, 2024))

	nov, _ := ndbc.LookupMonth(time.November)
	assert.Equal(t,
		"https://www.ndbc.noaa.gov/view_text_file.php?filename=41001b2024.txt.gz&dir=data/cwind/Nov/",
		ndbc.MonthlyFileURL("", "41001", ndbc.ContinuousWinds, nov, 2024))
}

func TestFeedAndListingURLs(t *testing.T) {
	assert.Equal(t, "https://www.ndbc.noaa.gov/data/realtime2/TPLM2.txt", ndbc.RealtimeFileURL("", "tplm2", ndbc.FeedStdMet))
	assert.Equal(t, "https://www.ndbc.noaa.gov/data/realtime2/41001.spec", ndbc.RealtimeFileURL("", "41001", ndbc.FeedSpectralSummary))
	assert.Equal(t, "https://www.ndbc.noaa.gov/station_history.php?station=tplm2", ndbc.StationHistoryURL("", "TPLM2"))
	assert.Equal(t, "https://www.ndbc.noaa.gov/data/historical/cwind/", ndbc.HistoricalListingURL("", ndbc.ContinuousWinds))
	apr, _ := ndbc.LookupMonth(time.April)
	assert.Equal(t, "https://www.ndbc.noaa.gov/data/stdmet/Apr/", ndbc.MonthlyListingURL("", ndbc.StandardMeteorological, apr))
	assert.Equal(t, "https://www.ndbc.noaa.gov/data/realtime2/", ndbc.RealtimeListingURL(""))
	assert.Equal(t, "https://www.ndbc.noaa.gov/activestations.xml", ndbc.ActiveStationsURL(""))
	assert.Equal(t, "https://www.ndbc.noaa.gov/metadata/stationmetadata.xml", ndbc.StationMetadataURL(""))
}

func TestDataType(t *testing.T) {
	assert.Equal(t, ndbc.StandardMeteorological, ndbc.ParseDataType("StdMet"))
	assert.Equal(t, ndbc.Unsupported, ndbc.ParseDataType("ocean"))
	assert.True(t, ndbc.SolarRadiation.Supported())
	assert.False(t, ndbc.Unsupported.Supported())

	feed, ok := ndbc.FeedFor(ndbc.ContinuousWinds)
	require.True(t, ok)
	assert.Equal(t, ndbc.FeedContinuousWinds, feed)
	_, ok = ndbc.FeedFor(ndbc.OceanCurrent)
	assert.False(t, ok)

	assert.Equal(t, ndbc.StandardMeteorological, ndbc.FeedDrift.DataType())
}
