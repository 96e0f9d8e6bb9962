package ndbc

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidPeriod is returned when a label is neither a year nor a month abbreviation.
var ErrInvalidPeriod = errors.New("invalid period")

// MonthInfo describes how a calendar month appears in the current-year archive.
type MonthInfo struct {
	Month time.Month
	// Abbrev names the monthly directory and labels descriptors.
	Abbrev string
	// FileCode is the month character in monthly filenames.
	FileCode string
}

// Months is the ordered month table shared by URL construction and labelling.
var Months = []MonthInfo{
	{Month: time.January, Abbrev: "Jan", FileCode: "1"},
	{Month: time.February, Abbrev: "Feb", FileCode: "2"},
	{Month: time.March, Abbrev: "Mar", FileCode: "3"},
	{Month: time.April, Abbrev: "Apr", FileCode: "4"},
	{Month: time.May, Abbrev: "May", FileCode: "5"},
	{Month: time.June, Abbrev: "Jun", FileCode: "6"},
	{Month: time.July, Abbrev: "Jul", FileCode: "7"},
	{Month: time.August, Abbrev: "Aug", FileCode: "8"},
	{Month: time.September, Abbrev: "Sep", FileCode: "9"},
	{Month: time.October, Abbrev: "Oct", FileCode: "a"},
	{Month: time.November, Abbrev: "Nov", FileCode: "b"},
	{Month: time.December, Abbrev: "Dec", FileCode: "c"},
}

// LookupMonth returns the table entry for m.
func LookupMonth(m time.Month) (MonthInfo, bool) {
	if m < time.January || m > time.December {
		return MonthInfo{}, false
	}
	return Months[m-1], true
}

// LookupMonthAbbrev finds a month by its three-letter abbreviation, ignoring case.
func LookupMonthAbbrev(abbrev string) (MonthInfo, bool) {
	for _, mi := range Months {
		if strings.EqualFold(mi.Abbrev, abbrev) {
			return mi, true
		}
	}
	return MonthInfo{}, false
}

// PeriodKind tags which variant a Period holds.
type PeriodKind string

const (
	PeriodYear  PeriodKind = "year"
	PeriodMonth PeriodKind = "month"
)

// Period is either a calendar year (yearly archive) or a month of the
// current year (monthly archive). The zero value is invalid.
type Period struct {
	kind  PeriodKind
	year  int
	month time.Month
}

// YearPeriod returns a Period for a compiled annual archive.
func YearPeriod(year int) Period {
	return Period{kind: PeriodYear, year: year}
}

// MonthPeriod returns a Period for a current-year monthly archive.
func MonthPeriod(m time.Month) Period {
	return Period{kind: PeriodMonth, month: m}
}

// Kind returns the variant tag.
func (p Period) Kind() PeriodKind { return p.kind }

// IsYear reports whether p is a yearly period.
func (p Period) IsYear() bool { return p.kind == PeriodYear }

// IsMonth reports whether p is a monthly period.
func (p Period) IsMonth() bool { return p.kind == PeriodMonth }

// Year returns the year of a yearly period.
func (p Period) Year() (int, bool) {
	return p.year, p.kind == PeriodYear
}

// Month returns the month of a monthly period.
func (p Period) Month() (time.Month, bool) {
	return p.month, p.kind == PeriodMonth
}

// String returns the label used by the agency: "2019" or "Mar".
func (p Period) String() string {
	switch p.kind {
	case PeriodYear:
		return strconv.Itoa(p.year)
	case PeriodMonth:
		if mi, ok := LookupMonth(p.month); ok {
			return mi.Abbrev
		}
	}
	return ""
}

// ParsePeriod accepts a four-digit year or a month abbreviation.
func ParsePeriod(label string) (Period, error) {
	label = strings.TrimSpace(label)
	if mi, ok := LookupMonthAbbrev(label); ok {
		return MonthPeriod(mi.Month), nil
	}
	if len(label) == 4 {
		if year, err := strconv.Atoi(label); err == nil && year > 0 {
			return YearPeriod(year), nil
		}
	}
	return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, label)
}

type periodJSON struct {
	Kind  PeriodKind `json:"kind"`
	Year  int        `json:"year,omitempty"`
	Month string     `json:"month,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (p Period) MarshalJSON() ([]byte, error) {
	out := periodJSON{Kind: p.kind}
	switch p.kind {
	case PeriodYear:
		out.Year = p.year
	case PeriodMonth:
		out.Month = p.String()
	default:
		return []byte("null"), nil
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Period) UnmarshalJSON(data []byte) error {
	var in periodJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	switch in.Kind {
	case PeriodYear:
		*p = YearPeriod(in.Year)
	case PeriodMonth:
		mi, ok := LookupMonthAbbrev(in.Month)
		if !ok {
			return fmt.Errorf("%w: month %q", ErrInvalidPeriod, in.Month)
		}
		*p = MonthPeriod(mi.Month)
	default:
		*p = Period{}
	}
	return nil
}
