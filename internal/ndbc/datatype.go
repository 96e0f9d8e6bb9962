// Package ndbc discovers and normalizes buoy observations published by the
// National Data Buoy Center as directory listings and fixed-width text files.
package ndbc

import "strings"

// DataType identifies one of the agency's sensor-suite categories. The value
// is the short code used in archive paths and filenames.
type DataType string

const (
	StandardMeteorological DataType = "stdmet"
	ContinuousWinds        DataType = "cwind"
	OceanCurrent           DataType = "adcp"
	SpectralWaveSummary    DataType = "spec"
	SpectralWaveDensity    DataType = "swden"
	SpectralWaveA1Density  DataType = "swdir"
	SpectralWaveA2Density  DataType = "swdir2"
	SpectralWaveR1Density  DataType = "swr1"
	SpectralWaveR2Density  DataType = "swr2"
	SolarRadiation         DataType = "srad"
	Unsupported            DataType = "unsupported"
)

// DataTypes lists every supported data type in a stable order.
var DataTypes = []DataType{
	StandardMeteorological,
	ContinuousWinds,
	OceanCurrent,
	SpectralWaveSummary,
	SpectralWaveDensity,
	SpectralWaveA1Density,
	SpectralWaveA2Density,
	SpectralWaveR1Density,
	SpectralWaveR2Density,
	SolarRadiation,
}

// ParseDataType maps a short code to a DataType. Unknown codes map to Unsupported.
func ParseDataType(code string) DataType {
	code = strings.ToLower(strings.TrimSpace(code))
	for _, dt := range DataTypes {
		if string(dt) == code {
			return dt
		}
	}
	return Unsupported
}

// Code returns the short code used in URLs and filenames.
func (d DataType) Code() string {
	return string(d)
}

// Supported reports whether d is a member of the closed set.
func (d DataType) Supported() bool {
	return ParseDataType(string(d)) != Unsupported
}

// HistoricSuffix returns the character placed between the station code and
// the year in historical archive filenames.
func (d DataType) HistoricSuffix() (byte, bool) {
	switch d {
	case StandardMeteorological:
		return 'h', true
	case ContinuousWinds:
		return 'c', true
	default:
		return 0, false
	}
}

// RealtimeExtension returns the realtime2 feed extension for d.
func (d DataType) RealtimeExtension() (string, bool) {
	switch d {
	case StandardMeteorological:
		return "txt", true
	case ContinuousWinds:
		return "cwind", true
	case SpectralWaveSummary:
		return "spec", true
	default:
		return "", false
	}
}

// Feed is a realtime2 file flavour.
type Feed string

const (
	FeedStdMet          Feed = "txt"
	FeedDrift           Feed = "drift"
	FeedContinuousWinds Feed = "cwind"
	FeedSpectralSummary Feed = "spec"
)

// CanonicalStation returns the display form of a station code.
func CanonicalStation(station string) string {
	return strings.ToUpper(strings.TrimSpace(station))
}

// ArchiveStation returns the lowercase form used in archive filenames.
func ArchiveStation(station string) string {
	return strings.ToLower(strings.TrimSpace(station))
}
