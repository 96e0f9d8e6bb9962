package ndbc

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Row of an Apache directory listing for a compressed download.
var compressedRowPattern = regexp.MustCompile(
	`<tr><td valign="top"><img src="/icons/compressed\.gif" alt="\[   \]"></td>` +
		`<td><a href="([^"]{5,50})">([^<]{5,50})</a></td>` +
		`<td align="right">([^<]{5,50})</td>` +
		`<td align="right">([^<]{1,50})</td>` +
		`<td>([^<]{1,50})</td></tr>`)

// Row of the realtime2 listing; any icon, the modified column is captured.
var realtimeRowPattern = regexp.MustCompile(
	`<tr><td valign="top"><img src="/icons/[^"]+" alt="\[[^\]]*\]"></td>` +
		`<td><a href="([^"]{3,50})">[^<]{3,50}</a></td>` +
		`<td align="right">([^<]{5,50})</td>`)

const listingTimeLayout = "2006-01-02 15:04"

var (
	stationDownloadPatterns = map[DataType]*regexp.Regexp{}
	stationMonthlyPatterns  = map[DataType]*regexp.Regexp{}
)

func init() {
	for _, dt := range DataTypes {
		code := regexp.QuoteMeta(dt.Code())
		stationDownloadPatterns[dt] = regexp.MustCompile(
			`<a href="/download_data\.php\?filename=([^"&]{5,25})&amp;dir=data/historical/` + code + `/">([^<]{1,6})</a>`)
		stationMonthlyPatterns[dt] = regexp.MustCompile(
			`<a href="/download_data\.php\?filename=([^"&]{5,25})&amp;dir=data/` + code + `/([A-Z][a-z]{2})/">[^<]{1,6}</a>`)
	}
}

func stationFromFilename(filename string) (string, bool) {
	if len(filename) < 5 {
		return "", false
	}
	return CanonicalStation(filename[:5]), true
}

// ExtractStationDownloads returns the yearly archives linked from a station
// history page for dt.
func ExtractStationDownloads(body string, dt DataType) []HistoricFile {
	re, ok := stationDownloadPatterns[dt]
	if !ok {
		return []HistoricFile{}
	}
	files := []HistoricFile{}
	for _, m := range re.FindAllStringSubmatch(body, -1) {
		station, ok := stationFromFilename(m[1])
		if !ok {
			continue
		}
		period, err := ParsePeriod(m[2])
		if err != nil || !period.IsYear() {
			continue
		}
		files = append(files, HistoricFile{Filename: m[1], Station: station, DataType: dt, Period: period})
	}
	return files
}

// ExtractStationMonthlyDownloads returns the current-year monthly archives
// linked from a station history page for dt, labelled by month.
func ExtractStationMonthlyDownloads(body string, dt DataType) []HistoricFile {
	re, ok := stationMonthlyPatterns[dt]
	if !ok {
		return []HistoricFile{}
	}
	files := []HistoricFile{}
	for _, m := range re.FindAllStringSubmatch(body, -1) {
		station, ok := stationFromFilename(m[1])
		if !ok {
			continue
		}
		mi, ok := LookupMonthAbbrev(m[2])
		if !ok {
			continue
		}
		files = append(files, HistoricFile{Filename: m[1], Station: station, DataType: dt, Period: MonthPeriod(mi.Month)})
	}
	return files
}

// ExtractHistoricalListing returns every compressed archive row of a
// data/historical/<type>/ listing. The year is read from filename[6:10].
func ExtractHistoricalListing(body string, dt DataType) []HistoricFile {
	files := []HistoricFile{}
	for _, m := range compressedRowPattern.FindAllStringSubmatch(body, -1) {
		filename := m[1]
		if len(filename) < 10 {
			continue
		}
		station, _ := stationFromFilename(filename)
		year, err := strconv.Atoi(filename[6:10])
		if err != nil {
			continue
		}
		files = append(files, HistoricFile{Filename: filename, Station: station, DataType: dt, Period: YearPeriod(year)})
	}
	return files
}

// ExtractMonthlyListing returns every compressed archive row of a
// data/<type>/<Mon>/ listing, labelled with month.
func ExtractMonthlyListing(body string, dt DataType, month MonthInfo) []HistoricFile {
	files := []HistoricFile{}
	for _, m := range compressedRowPattern.FindAllStringSubmatch(body, -1) {
		station, ok := stationFromFilename(m[1])
		if !ok {
			continue
		}
		files = append(files, HistoricFile{Filename: m[1], Station: station, DataType: dt, Period: MonthPeriod(month.Month)})
	}
	return files
}

// ExtractRealtimeListing returns the realtime2 files published for feed.
// An unparseable modification time is a shape failure.
func ExtractRealtimeListing(body string, feed Feed) ([]RealtimeFile, error) {
	dt := feed.DataType()
	if dt == Unsupported {
		return nil, fmt.Errorf("%w: feed %q", ErrUnsupportedDataType, feed)
	}
	suffix := "." + string(feed)

	files := []RealtimeFile{}
	for _, m := range realtimeRowPattern.FindAllStringSubmatch(body, -1) {
		filename := m[1]
		name, ok := strings.CutSuffix(filename, suffix)
		if !ok || name == "" || strings.Contains(name, ".") {
			continue
		}
		listedAt, err := time.Parse(listingTimeLayout, strings.TrimSpace(m[2]))
		if err != nil {
			return nil, fmt.Errorf("realtime listing row %q: %w", filename, err)
		}
		files = append(files, RealtimeFile{
			Filename: filename,
			Station:  CanonicalStation(name),
			DataType: dt,
			Feed:     feed,
			ListedAt: listedAt,
		})
	}
	return files, nil
}
