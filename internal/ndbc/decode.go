package ndbc

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Token counts per published layout.
const (
	StdMetRealtimeArity   = 19
	StdMetHistoricalArity = 18
	StdMetDriftArity      = 16
	ContinuousWindsArity  = 10
	SpectralSummaryArity  = 15
)

// ErrValueParse marks a non-sentinel token that could not be parsed as its
// declared type.
var ErrValueParse = errors.New("value parse failure")

// ValueError reports where a value-parse failure happened.
type ValueError struct {
	Line  int
	Field Field
	Token string
	Err   error
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("line %d: field %s: cannot parse %q: %v", e.Line, e.Field, e.Token, e.Err)
}

func (e *ValueError) Unwrap() error { return e.Err }

// Is makes every ValueError match ErrValueParse.
func (e *ValueError) Is(target error) bool { return target == ErrValueParse }

// StdMetLayout selects one of the standard meteorological file layouts.
type StdMetLayout int

const (
	// LayoutRealtime is the realtime2 .txt feed, PTDY and TIDE included.
	LayoutRealtime StdMetLayout = iota
	// LayoutHistorical is the compiled archive, which carries no PTDY column.
	LayoutHistorical
	// LayoutDrift is the drifting-buoy .drift feed.
	LayoutDrift
)

// Arity returns the token count of the layout.
func (l StdMetLayout) Arity() int {
	switch l {
	case LayoutHistorical:
		return StdMetHistoricalArity
	case LayoutDrift:
		return StdMetDriftArity
	default:
		return StdMetRealtimeArity
	}
}

func (l StdMetLayout) String() string {
	switch l {
	case LayoutHistorical:
		return "historical"
	case LayoutDrift:
		return "drift"
	default:
		return "realtime"
	}
}

// Decoder turns file bodies into observation records.
type Decoder struct {
	Classifier Classifier
}

var defaultDecoder = Decoder{Classifier: DefaultClassifier}

// DecodeStdMet decodes a standard meteorological body with the default classifier.
func DecodeStdMet(station, body string, layout StdMetLayout) ([]StdMetObservation, error) {
	return defaultDecoder.StdMet(station, body, layout)
}

// DecodeContinuousWinds decodes a continuous winds body with the default classifier.
func DecodeContinuousWinds(station, body string) ([]ContinuousWindsObservation, error) {
	return defaultDecoder.ContinuousWinds(station, body)
}

// DecodeSpectralSummary decodes a spectral wave summary body with the default classifier.
func DecodeSpectralSummary(station, body string) ([]SpectralSummaryObservation, error) {
	return defaultDecoder.SpectralSummary(station, body)
}

// StdMet decodes every matching line of body. The first value-parse failure
// aborts decoding and no records are returned.
func (d Decoder) StdMet(station, body string, layout StdMetLayout) ([]StdMetObservation, error) {
	station = CanonicalStation(station)
	out := []StdMetObservation{}
	for n, tokens := range numberedLines(body, layout.Arity()) {
		r := d.reader(n, tokens)
		obs := StdMetObservation{Station: station}
		switch layout {
		case LayoutDrift:
			// YY MM DD hhmm LAT LON WDIR WSPD GST PRES PTDY ATMP WTMP DEWP WVHT DPD
			obs.Timestamp = r.timestampHHMM()
			obs.WDIR = r.intField(6, FieldWDIR)
			obs.WSPD = r.floatField(7, FieldWSPD)
			obs.GST = r.floatField(8, FieldGST)
			obs.PRES = r.floatField(9, FieldPRES)
			obs.PTDY = r.floatField(10, FieldPTDY)
			obs.ATMP = r.floatField(11, FieldATMP)
			obs.WTMP = r.floatField(12, FieldWTMP)
			obs.DEWP = r.floatField(13, FieldDEWP)
			obs.WVHT = r.floatField(14, FieldWVHT)
			obs.DPD = r.floatField(15, FieldDPD)
		default:
			obs.Timestamp = r.timestamp()
			obs.WDIR = r.intField(5, FieldWDIR)
			obs.WSPD = r.floatField(6, FieldWSPD)
			obs.GST = r.floatField(7, FieldGST)
			obs.WVHT = r.floatField(8, FieldWVHT)
			obs.DPD = r.floatField(9, FieldDPD)
			obs.APD = r.floatField(10, FieldAPD)
			obs.MWD = r.intField(11, FieldMWD)
			obs.PRES = r.floatField(12, FieldPRES)
			obs.ATMP = r.floatField(13, FieldATMP)
			obs.WTMP = r.floatField(14, FieldWTMP)
			obs.DEWP = r.floatField(15, FieldDEWP)
			obs.VIS = r.floatField(16, FieldVIS)
			if layout == LayoutHistorical {
				obs.TIDE = r.floatField(17, FieldTIDE)
			} else {
				obs.PTDY = r.floatField(17, FieldPTDY)
				obs.TIDE = r.floatField(18, FieldTIDE)
			}
		}
		if r.err != nil {
			return nil, r.err
		}
		out = append(out, obs)
	}
	return out, nil
}

// ContinuousWinds decodes a continuous winds body. The trailing gust time
// column is read for arity only.
func (d Decoder) ContinuousWinds(station, body string) ([]ContinuousWindsObservation, error) {
	station = CanonicalStation(station)
	out := []ContinuousWindsObservation{}
	for n, tokens := range numberedLines(body, ContinuousWindsArity) {
		r := d.reader(n, tokens)
		obs := ContinuousWindsObservation{
			Station:   station,
			Timestamp: r.timestamp(),
			WDIR:      r.intField(5, FieldWDIR),
			WSPD:      r.floatField(6, FieldWSPD),
			GDR:       r.intField(7, FieldGDR),
			GST:       r.floatField(8, FieldGST),
		}
		if r.err != nil {
			return nil, r.err
		}
		out = append(out, obs)
	}
	return out, nil
}

// SpectralSummary decodes a realtime .spec body.
func (d Decoder) SpectralSummary(station, body string) ([]SpectralSummaryObservation, error) {
	station = CanonicalStation(station)
	out := []SpectralSummaryObservation{}
	for n, tokens := range numberedLines(body, SpectralSummaryArity) {
		r := d.reader(n, tokens)
		obs := SpectralSummaryObservation{
			Station:   station,
			Timestamp: r.timestamp(),
			WVHT:      r.floatField(5, FieldWVHT),
			SwH:       r.floatField(6, FieldSwH),
			SwP:       r.floatField(7, FieldSwP),
			WWH:       r.floatField(8, FieldWWH),
			WWP:       r.floatField(9, FieldWWP),
			SwD:       r.strField(10, FieldSwD),
			WWD:       r.strField(11, FieldWWD),
			Steepness: r.strField(12, FieldSteepness),
			APD:       r.floatField(13, FieldAPD),
			MWD:       r.intField(14, FieldMWD),
		}
		if r.err != nil {
			return nil, r.err
		}
		out = append(out, obs)
	}
	return out, nil
}

func (d Decoder) reader(line int, tokens []string) *tokenReader {
	return &tokenReader{classifier: d.Classifier, line: line, tokens: tokens}
}

// tokenReader decodes positional tokens and keeps the first failure.
type tokenReader struct {
	classifier Classifier
	line       int
	tokens     []string
	err        error
}

func (r *tokenReader) fail(field Field, token string, err error) {
	if r.err == nil {
		r.err = &ValueError{Line: r.line, Field: field, Token: token, Err: err}
	}
}

func (r *tokenReader) floatField(i int, field Field) *float64 {
	tok := r.tokens[i]
	if r.classifier.Missing(field, tok) {
		return nil
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		r.fail(field, tok, err)
		return nil
	}
	return &v
}

func (r *tokenReader) intField(i int, field Field) *int {
	tok := r.tokens[i]
	if r.classifier.Missing(field, tok) {
		return nil
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		r.fail(field, tok, err)
		return nil
	}
	return &v
}

func (r *tokenReader) strField(i int, field Field) *string {
	tok := r.tokens[i]
	if r.classifier.Missing(field, tok) {
		return nil
	}
	return &tok
}

// timestamp assembles YY|YYYY MM DD hh mm from tokens 0..4.
func (r *tokenReader) timestamp() time.Time {
	hour, err := strconv.Atoi(r.tokens[3])
	if err != nil {
		r.fail(FieldTimestamp, r.tokens[3], err)
		return time.Time{}
	}
	minute, err := strconv.Atoi(r.tokens[4])
	if err != nil {
		r.fail(FieldTimestamp, r.tokens[4], err)
		return time.Time{}
	}
	return r.date(hour, minute)
}

// timestampHHMM assembles YYYY MM DD hhmm from tokens 0..3.
func (r *tokenReader) timestampHHMM() time.Time {
	tok := r.tokens[3]
	if len(tok) != 4 {
		r.fail(FieldTimestamp, tok, errors.New("expected hhmm"))
		return time.Time{}
	}
	hhmm, err := strconv.Atoi(tok)
	if err != nil {
		r.fail(FieldTimestamp, tok, err)
		return time.Time{}
	}
	return r.date(hhmm/100, hhmm%100)
}

func (r *tokenReader) date(hour, minute int) time.Time {
	year, err := parseYear(r.tokens[0])
	if err != nil {
		r.fail(FieldTimestamp, r.tokens[0], err)
		return time.Time{}
	}
	month, err := strconv.Atoi(r.tokens[1])
	if err != nil {
		r.fail(FieldTimestamp, r.tokens[1], err)
		return time.Time{}
	}
	day, err := strconv.Atoi(r.tokens[2])
	if err != nil {
		r.fail(FieldTimestamp, r.tokens[2], err)
		return time.Time{}
	}

	ts := time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.UTC)
	if ts.Month() != time.Month(month) || ts.Day() != day || ts.Hour() != hour || ts.Minute() != minute {
		r.fail(FieldTimestamp, fmt.Sprintf("%d-%02d-%02d %02d:%02d", year, month, day, hour, minute),
			errors.New("out of range"))
		return time.Time{}
	}
	return ts
}

// parseYear accepts four-digit years and the two-digit years of pre-1999 archives.
func parseYear(tok string) (int, error) {
	year, err := strconv.Atoi(tok)
	if err != nil {
		return 0, err
	}
	switch len(tok) {
	case 4:
		return year, nil
	case 2:
		return 1900 + year, nil
	default:
		return 0, errors.New("expected YY or YYYY")
	}
}
