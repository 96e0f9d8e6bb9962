package ndbc_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidewire/tidewire/internal/ndbc"
)

const historicalAllMissing = "#YY  MM DD hh mm WDIR WSPD GST  WVHT   DPD   APD MWD   PRES  ATMP  WTMP  DEWP  VIS  TIDE\n" +
	"#yr  mo dy hr mn degT m/s  m/s     m   sec   sec degT   hPa  degC  degC  degC  nmi    ft\n" +
	"2019 01 01 00 00 999 99.0 99.0 99.00 99.00 99.00 999 9999.0 999.0 999.0 999.0 99.0 99.00\n"

func TestDecodeStdMet_HistoricalAllMissing(t *testing.T) {
	records, err := ndbc.DecodeStdMet("41001", historicalAllMissing, ndbc.LayoutHistorical)
	require.NoError(t, err)
	require.Len(t, records, 1)

	r := records[0]
	assert.Equal(t, "41001", r.Station)
	assert.Equal(t, time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC), r.Timestamp)
	assert.Nil(t, r.WDIR)
	assert.Nil(t, r.WSPD)
	assert.Nil(t, r.GST)
	assert.Nil(t, r.WVHT)
	assert.Nil(t, r.DPD)
	assert.Nil(t, r.APD)
	assert.Nil(t, r.MWD)
	assert.Nil(t, r.PRES)
	assert.Nil(t, r.ATMP)
	assert.Nil(t, r.WTMP)
	assert.Nil(t, r.DEWP)
	assert.Nil(t, r.VIS)
	assert.Nil(t, r.PTDY)
	assert.Nil(t, r.TIDE)
}

func TestDecodeStdMet_Realtime(t *testing.T) {
	body := "#YY  MM DD hh mm WDIR WSPD GST  WVHT   DPD   APD MWD   PRES  ATMP  WTMP  DEWP  VIS PTDY  TIDE\n" +
		"2024 03 12 14 50 210  5.0  7.0   1.2     8   6.1 200 1013.2  12.3  14.1  10.2   MM -1.2    MM\n" +
		"2024 03 12 14 40  MM   MM   MM    MM    MM    MM  MM 1013.4  12.2  14.1  10.1   MM   MM    MM\n"

	records, err := ndbc.DecodeStdMet("tplm2", body, ndbc.LayoutRealtime)
	require.NoError(t, err)
	require.Len(t, records, 2)

	r := records[0]
	assert.Equal(t, "TPLM2", r.Station)
	assert.Equal(t, time.Date(2024, 3, 12, 14, 50, 0, 0, time.UTC), r.Timestamp)
	require.NotNil(t, r.WDIR)
	assert.Equal(t, 210, *r.WDIR)
	require.NotNil(t, r.WSPD)
	assert.InDelta(t, 5.0, *r.WSPD, 1e-9)
	require.NotNil(t, r.DPD)
	assert.InDelta(t, 8.0, *r.DPD, 1e-9)
	require.NotNil(t, r.MWD)
	assert.Equal(t, 200, *r.MWD)
	require.NotNil(t, r.PRES)
	assert.InDelta(t, 1013.2, *r.PRES, 1e-9)
	assert.Nil(t, r.VIS)
	require.NotNil(t, r.PTDY)
	assert.InDelta(t, -1.2, *r.PTDY, 1e-9)
	assert.Nil(t, r.TIDE)

	assert.Nil(t, records[1].WDIR)
	require.NotNil(t, records[1].PRES)
}

func TestDecodeStdMet_HistoricalIgnoresShortRealtimeArity(t *testing.T) {
	// An 18-token archive line is too short for the realtime layout.
	records, err := ndbc.DecodeStdMet("41001", historicalAllMissing, ndbc.LayoutRealtime)
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestDecodeStdMet_Drift(t *testing.T) {
	body := "#YY  MM DD hhmm   LAT    LON WDIR WSPD  GST   PRES  PTDY  ATMP  WTMP  DEWP WVHT DPD\n" +
		"2024 03 12 1450 38.50 -70.10  210  5.0  7.0 1013.2  -1.2  12.3  14.1  10.2  1.2   8\n"

	records, err := ndbc.DecodeStdMet("41nt0", body, ndbc.LayoutDrift)
	require.NoError(t, err)
	require.Len(t, records, 1)

	r := records[0]
	assert.Equal(t, "41NT0", r.Station)
	assert.Equal(t, time.Date(2024, 3, 12, 14, 50, 0, 0, time.UTC), r.Timestamp)
	require.NotNil(t, r.WDIR)
	assert.Equal(t, 210, *r.WDIR)
	require.NotNil(t, r.WSPD)
	assert.InDelta(t, 5.0, *r.WSPD, 1e-9)
	require.NotNil(t, r.GST)
	assert.InDelta(t, 7.0, *r.GST, 1e-9)
	require.NotNil(t, r.PTDY)
	assert.InDelta(t, -1.2, *r.PTDY, 1e-9)
	require.NotNil(t, r.DPD)
	assert.InDelta(t, 8.0, *r.DPD, 1e-9)
	assert.Nil(t, r.APD)
	assert.Nil(t, r.TIDE)
}

func TestDecodeStdMet_TwoDigitYear(t *testing.T) {
	body := "98 07 04 12 00 180 4.0 5.0 0.80 7.00 5.20 999 1015.0 22.0 24.0 18.0 99.0 99.00\n"

	records, err := ndbc.DecodeStdMet("41001", body, ndbc.LayoutHistorical)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 1998, records[0].Timestamp.Year())
}

func TestDecodeStdMet_ValueParseFailure(t *testing.T) {
	body := "2019 01 01 00 00 999 99.0 99.0 99.00 99.00 99.00 999 9999.0 999.0 999.0 999.0 99.0 99.00\n" +
		"2019 01 01 01 00 21X 5.0 7.0 1.20 8.00 6.10 200 1013.2 12.3 14.1 10.2 99.0 99.00\n"

	records, err := ndbc.DecodeStdMet("41001", body, ndbc.LayoutHistorical)
	require.Error(t, err)
	assert.Nil(t, records)
	assert.ErrorIs(t, err, ndbc.ErrValueParse)

	var valueErr *ndbc.ValueError
	require.True(t, errors.As(err, &valueErr))
	assert.Equal(t, 2, valueErr.Line)
	assert.Equal(t, ndbc.FieldWDIR, valueErr.Field)
	assert.Equal(t, "21X", valueErr.Token)
}

func TestDecodeStdMet_InvalidDate(t *testing.T) {
	body := "2024 02 30 00 00 999 99.0 99.0 99.00 99.00 99.00 999 9999.0 999.0 999.0 999.0 99.0 99.00\n"

	_, err := ndbc.DecodeStdMet("41001", body, ndbc.LayoutHistorical)
	require.Error(t, err)
	assert.ErrorIs(t, err, ndbc.ErrValueParse)
}

func TestDecodeStdMet_SkipsOversizedGarbageLine(t *testing.T) {
	row := "2019 01 01 00 00 180 4.0 5.0 0.80 7.00 5.20 999 1015.0 22.0 24.0 18.0 99.0 99.00\n"
	body := row + strings.Repeat("x", 2<<20) + "\n" + row

	records, err := ndbc.DecodeStdMet("41001", body, ndbc.LayoutHistorical)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestDecodeStdMet_EmptyBody(t *testing.T) {
	records, err := ndbc.DecodeStdMet("41001", "", ndbc.LayoutHistorical)
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestDecodeContinuousWinds(t *testing.T) {
	body := "#YY  MM DD hh mm WDIR WSPD GDR GST GTIME\n" +
		"2024 03 12 14 50  210  5.0 220 7.0  1446\n" +
		"2024 03 12 14 40  999 99.0 999 99.0 9999\n"

	records, err := ndbc.DecodeContinuousWinds("41001", body)
	require.NoError(t, err)
	require.Len(t, records, 2)

	r := records[0]
	require.NotNil(t, r.WDIR)
	assert.Equal(t, 210, *r.WDIR)
	require.NotNil(t, r.GDR)
	assert.Equal(t, 220, *r.GDR)
	require.NotNil(t, r.GST)
	assert.InDelta(t, 7.0, *r.GST, 1e-9)

	assert.Nil(t, records[1].WDIR)
	assert.Nil(t, records[1].WSPD)
	assert.Nil(t, records[1].GDR)
	assert.Nil(t, records[1].GST)
}

func TestDecodeSpectralSummary(t *testing.T) {
	body := "#YY  MM DD hh mm WVHT  SwH  SwP  WWH  WWP SwD WWD  STEEPNESS  APD MWD\n" +
		"2024 03 12 14 50  1.2  0.8  9.1  0.9  5.0  SE WSW    AVERAGE  5.6 190\n" +
		"2024 03 12 13 50  1.1  0.7  9.1  0.8  5.0  SE WSW        N/A  5.4 999\n"

	records, err := ndbc.DecodeSpectralSummary("41001", body)
	require.NoError(t, err)
	require.Len(t, records, 2)

	r := records[0]
	require.NotNil(t, r.SwD)
	assert.Equal(t, "SE", *r.SwD)
	require.NotNil(t, r.WWD)
	assert.Equal(t, "WSW", *r.WWD)
	require.NotNil(t, r.Steepness)
	assert.Equal(t, "AVERAGE", *r.Steepness)
	require.NotNil(t, r.MWD)
	assert.Equal(t, 190, *r.MWD)

	assert.Nil(t, records[1].Steepness)
	assert.Nil(t, records[1].MWD)
}

func TestDecoder_CustomClassifier(t *testing.T) {
	d := ndbc.Decoder{Classifier: ndbc.Classifier{
		Overrides: map[ndbc.Field][]string{ndbc.FieldWSPD: {"0.0"}},
	}}
	body := "2024 03 12 14 50 210 0.0 220 7.0 1446\n"

	records, err := d.ContinuousWinds("41001", body)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Nil(t, records[0].WSPD)
}

func TestStdMetLayout_Arity(t *testing.T) {
	assert.Equal(t, 19, ndbc.LayoutRealtime.Arity())
	assert.Equal(t, 18, ndbc.LayoutHistorical.Arity())
	assert.Equal(t, 16, ndbc.LayoutDrift.Arity())
	assert.Equal(t, "drift", ndbc.LayoutDrift.String())
}
