package ndbc

// Field names a measurement column. Values match the lowercase column
// headers used in the published files.
type Field string

const (
	FieldTimestamp Field = "timestamp"
	FieldWDIR      Field = "wdir"
	FieldWSPD      Field = "wspd"
	FieldGST       Field = "gst"
	FieldGDR       Field = "gdr"
	FieldWVHT      Field = "wvht"
	FieldDPD       Field = "dpd"
	FieldAPD       Field = "apd"
	FieldMWD       Field = "mwd"
	FieldPRES      Field = "pres"
	FieldATMP      Field = "atmp"
	FieldWTMP      Field = "wtmp"
	FieldDEWP      Field = "dewp"
	FieldVIS       Field = "vis"
	FieldPTDY      Field = "ptdy"
	FieldTIDE      Field = "tide"
	FieldSwH       Field = "swh"
	FieldSwP       Field = "swp"
	FieldWWH       Field = "wwh"
	FieldWWP       Field = "wwp"
	FieldSwD       Field = "swd"
	FieldWWD       Field = "wwd"
	FieldSteepness Field = "steepness"
)

var missingTokens = map[string]struct{}{
	"9": {}, "9.0": {}, "9.00": {}, "9.000": {},
	"99": {}, "99.0": {}, "99.00": {}, "99.000": {},
	"999": {}, "999.0": {}, "999.00": {}, "999.000": {},
	"9999": {}, "9999.0": {}, "9999.00": {}, "9999.000": {},
	"M": {}, "MM": {}, "MMM": {}, "MMMM": {},
}

// IsMissing reports whether token is one of the shared "no data" sentinels.
func IsMissing(token string) bool {
	_, ok := missingTokens[token]
	return ok
}

// Classifier decides missingness per field. A field listed in Overrides is
// missing exactly when its token appears in that list; every other field
// falls back to IsMissing.
type Classifier struct {
	Overrides map[Field][]string
}

// DefaultClassifier treats the textual steepness code N/A as missing. A
// steepness column never carries the numeric sentinels.
var DefaultClassifier = Classifier{
	Overrides: map[Field][]string{
		FieldSteepness: {"N/A", "M", "MM", "MMM", "MMMM"},
	},
}

// Missing reports whether token is missing for field.
func (c Classifier) Missing(field Field, token string) bool {
	override, ok := c.Overrides[field]
	if !ok {
		return IsMissing(token)
	}
	for _, t := range override {
		if t == token {
			return true
		}
	}
	return false
}
