package ndbc

import (
	"fmt"
	"net/url"
	"strings"
)

// DefaultBaseURL is the agency's public web root.
const DefaultBaseURL = "https://www.ndbc.noaa.gov"

func trimBase(base string) string {
	if base == "" {
		base = DefaultBaseURL
	}
	return strings.TrimSuffix(base, "/")
}

// HistoricalFileURL returns the text view of a compiled annual archive,
// e.g. .../view_text_file.php?filename=41001h2019.txt.gz&dir=data/historical/stdmet/.
func HistoricalFileURL(base, station string, dt DataType, year int) (string, error) {
	suffix, ok := dt.HistoricSuffix()
	if !ok {
		return "", fmt.Errorf("%w: no historical archive for %s", ErrUnsupportedDataType, dt)
	}
	return fmt.Sprintf("%s/view_text_file.php?filename=%s%c%d.txt.gz&dir=data/historical/%s/",
		trimBase(base), ArchiveStation(station), suffix, year, dt.Code()), nil
}

// MonthlyFileURL returns the text view of a current-year monthly archive,
// e.g. .../view_text_file.php?filename=4100132024.txt.gz&dir=data/stdmet/Mar/.
func MonthlyFileURL(base, station string, dt DataType, month MonthInfo, year int) string {
	return fmt.Sprintf("%s/view_text_file.php?filename=%s%s%d.txt.gz&dir=data/%s/%s/",
		trimBase(base), ArchiveStation(station), month.FileCode, year, dt.Code(), month.Abbrev)
}

// RealtimeFileURL returns the realtime2 feed for a station.
func RealtimeFileURL(base, station string, feed Feed) string {
	return fmt.Sprintf("%s/data/realtime2/%s.%s", trimBase(base), CanonicalStation(station), feed)
}

// StationHistoryURL returns the per-station history page.
func StationHistoryURL(base, station string) string {
	return trimBase(base) + "/station_history.php?station=" + url.QueryEscape(ArchiveStation(station))
}

// HistoricalListingURL returns the directory listing of a data type's annual archives.
func HistoricalListingURL(base string, dt DataType) string {
	return fmt.Sprintf("%s/data/historical/%s/", trimBase(base), dt.Code())
}

// MonthlyListingURL returns the directory listing of one current-year month.
func MonthlyListingURL(base string, dt DataType, month MonthInfo) string {
	return fmt.Sprintf("%s/data/%s/%s/", trimBase(base), dt.Code(), month.Abbrev)
}

// RealtimeListingURL returns the realtime2 directory listing.
func RealtimeListingURL(base string) string {
	return trimBase(base) + "/data/realtime2/"
}

// ActiveStationsURL returns the active station roster feed.
func ActiveStationsURL(base string) string {
	return trimBase(base) + "/activestations.xml"
}

// StationMetadataURL returns the station metadata history feed.
func StationMetadataURL(base string) string {
	return trimBase(base) + "/metadata/stationmetadata.xml"
}
