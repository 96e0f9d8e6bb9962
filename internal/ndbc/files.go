package ndbc

import (
	"errors"
	"strings"
	"time"
)

// Engine errors.
var (
	ErrUnsupportedDataType = errors.New("unsupported data type")
	ErrStationNotFound     = errors.New("station not found")
)

// HistoricFile identifies one downloadable archive, either a compiled year
// or a month of the current year.
type HistoricFile struct {
	Filename string   `json:"filename"`
	Station  string   `json:"station"`
	DataType DataType `json:"dataType"`
	Period   Period   `json:"period"`
}

// RealtimeFile identifies one realtime2 feed file.
type RealtimeFile struct {
	Filename string    `json:"filename"`
	Station  string    `json:"station"`
	DataType DataType  `json:"dataType"`
	Feed     Feed      `json:"feed"`
	ListedAt time.Time `json:"listedAt"`
}

// DataType returns the data type published in the feed.
func (f Feed) DataType() DataType {
	switch f {
	case FeedStdMet, FeedDrift:
		return StandardMeteorological
	case FeedContinuousWinds:
		return ContinuousWinds
	case FeedSpectralSummary:
		return SpectralWaveSummary
	default:
		return Unsupported
	}
}

// FeedFor returns the stationary-buoy realtime feed of dt.
func FeedFor(dt DataType) (Feed, bool) {
	ext, ok := dt.RealtimeExtension()
	return Feed(ext), ok
}

// ParseFeed accepts a feed by its public name (stdmet, stdmetdrift, cwind,
// spec) or by its file extension.
func ParseFeed(name string) (Feed, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "stdmet", "txt":
		return FeedStdMet, true
	case "stdmetdrift", "drift":
		return FeedDrift, true
	case "cwind":
		return FeedContinuousWinds, true
	case "spec":
		return FeedSpectralSummary, true
	default:
		return "", false
	}
}
