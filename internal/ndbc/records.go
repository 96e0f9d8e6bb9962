package ndbc

import "time"

// StdMetObservation is one standard meteorological reading. A nil field
// means the agency published a missing-value sentinel for it.
type StdMetObservation struct {
	Station   string    `json:"station"`
	Timestamp time.Time `json:"timestamp"`
	WDIR      *int      `json:"wdir"` // degrees true
	WSPD      *float64  `json:"wspd"` // m/s
	GST       *float64  `json:"gst"`  // m/s
	WVHT      *float64  `json:"wvht"` // m
	DPD       *float64  `json:"dpd"`  // s
	APD       *float64  `json:"apd"`  // s
	MWD       *int      `json:"mwd"`  // degrees true
	PRES      *float64  `json:"pres"` // hPa
	ATMP      *float64  `json:"atmp"` // degC
	WTMP      *float64  `json:"wtmp"` // degC
	DEWP      *float64  `json:"dewp"` // degC
	VIS       *float64  `json:"vis"`  // nmi
	PTDY      *float64  `json:"ptdy"` // hPa
	TIDE      *float64  `json:"tide"` // ft
}

// ContinuousWindsObservation is one continuous winds reading.
type ContinuousWindsObservation struct {
	Station   string    `json:"station"`
	Timestamp time.Time `json:"timestamp"`
	WDIR      *int      `json:"wdir"`
	WSPD      *float64  `json:"wspd"`
	GDR       *int      `json:"gdr"`
	GST       *float64  `json:"gst"`
}

// SpectralSummaryObservation is one spectral wave summary reading. Swell and
// wind-wave directions and steepness are published as textual codes.
type SpectralSummaryObservation struct {
	Station   string    `json:"station"`
	Timestamp time.Time `json:"timestamp"`
	WVHT      *float64  `json:"wvht"`
	SwH       *float64  `json:"swh"`
	SwP       *float64  `json:"swp"`
	WWH       *float64  `json:"wwh"`
	WWP       *float64  `json:"wwp"`
	SwD       *string   `json:"swd"`
	WWD       *string   `json:"wwd"`
	Steepness *string   `json:"steepness"`
	APD       *float64  `json:"apd"`
	MWD       *int      `json:"mwd"`
}
