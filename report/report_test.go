package report

import (
	"bytes"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/cbsinteractive/pkg/timecode"
	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ysh86/LTCtools/ltc"
)

func frameBits(start ltc.Timecode, fps, count int) []byte {
	var result []byte
	tc := start
	for i := 0; i < count; i++ {
		result = append(result, ltc.FrameOf(tc).Bits()...)
		tc = tc.Next(fps)
	}
	return result
}

func testBits() []byte {
	bits := make([]byte, 9)
	bits = append(bits, frameBits(ltc.Timecode{Hours: 1}, 25, 50)...)
	bits = append(bits, make([]byte, 20)...)
	bits = append(bits, frameBits(ltc.Timecode{Hours: 2}, 25, 25)...)
	return bits
}

func run(t *testing.T, bits []byte) *Report {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.SetLevel(logrus.TraceLevel)
	collector := NewCollector()
	logger.AddHook(collector)

	cfg := ltc.DefaultConfig()
	cfg.FPS = 25
	result, err := ltc.DecodeBits(bits, cfg, logger)
	return Build(result, err, collector)
}

func TestBuild(t *testing.T) {
	r := run(t, testBits())

	assert.True(t, r.Success)
	assert.Equal(t, 200, r.Result)
	assert.Empty(t, r.ErrorMsg)
	assert.Empty(t, r.Errors)
	assert.Equal(t, 9, r.DigitsBeforeFirstFrame)
	assert.Equal(t, "01:00:00:00", r.Start)
	assert.Equal(t, "02:00:00:24", r.End)
	assert.Equal(t, 25, r.FPS)
	want := [][2]string{
		{"01:00:00:00", "01:00:01:24"},
		{"02:00:00:00", "02:00:00:24"},
	}
	if diff := cmp.Diff(want, r.Ranges); diff != "" {
		t.Errorf("ranges mismatch (-want +got):\n%s", diff)
	}
	require.Len(t, r.Seconds, 2)
	assert.InDelta(t, 3600.0, r.Seconds[0][0], 1e-9)
	assert.InDelta(t, 3602.0, r.Seconds[0][1], 1e-9)
	assert.Equal(t, 3*time.Second, r.Seconds.Size().Round(time.Millisecond))
	assert.NotEmpty(t, r.Info)
}

func TestBuild_Error(t *testing.T) {
	r := run(t, make([]byte, 50))

	assert.False(t, r.Success)
	assert.Equal(t, 408, r.Result)
	assert.Contains(t, r.ErrorMsg, "no LTC frames found")
	assert.Equal(t, []ErrorMessage{{Code: 408, Text: r.ErrorMsg}}, r.Errors)
	assert.Empty(t, r.Ranges)
	assert.Empty(t, r.Start)
}

func TestBuild_NilResult(t *testing.T) {
	err := ltc.NewError(ltc.InputError, io.ErrUnexpectedEOF)

	r := Build(nil, err, nil)

	assert.Equal(t, 404, r.Result)
	assert.Equal(t, io.ErrUnexpectedEOF.Error(), r.ErrorMsg)
}

func TestWriteJSON_Deterministic(t *testing.T) {
	var first, second bytes.Buffer

	require.NoError(t, run(t, testBits()).WriteJSON(&first))
	require.NoError(t, run(t, testBits()).WriteJSON(&second))

	assert.Equal(t, first.Bytes(), second.Bytes())

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(first.Bytes(), &decoded))
	for _, key := range []string{"Success", "Result", "ErrorMsg", "Info", "Errors", "Ranges", "Seconds", "DigitsBeforeFirstFrame", "Start", "End", "FPS"} {
		assert.Contains(t, decoded, key)
	}
	assert.Equal(t, []any{
		[]any{"01:00:00:00", "01:00:01:24"},
		[]any{"02:00:00:00", "02:00:00:24"},
	}, decoded["Ranges"])
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, run(t, testBits()).WriteText(&buf))

	assert.Equal(t, `01:00:00:00 - 01:00:01:24
02:00:00:00 - 02:00:00:24
2 range(s), 3s of timecode at 25fps, 9 bits before the first frame
`, buf.String())
}

func TestCollector(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.SetLevel(logrus.TraceLevel)
	collector := NewCollector()
	logger.AddHook(collector)

	logger.Info("info")
	logger.Debug("debug")
	logger.WithFields(logrus.Fields{"b": 2, "a": 1}).Trace("trace")
	logger.Warn("warn")
	logger.Error("failed")

	assert.Equal(t, []Message{
		{Level: 1, Text: "info"},
		{Level: 2, Text: "debug"},
		{Level: 3, Text: "trace a=1 b=2"},
		{Level: 0, Text: "warn"},
		{Level: 0, Text: "failed"},
	}, collector.Messages())

	// logged errors are information, only the error that ended the run is reported as one
	r := Build(nil, nil, collector)
	assert.True(t, r.Success)
	assert.Equal(t, 200, r.Result)
	assert.Empty(t, r.Errors)
	assert.Len(t, r.Info, 5)
}

func TestSeconds(t *testing.T) {
	r := &Report{Seconds: timecode.Splice{{10, 12.5}}}
	assert.Equal(t, 2500*time.Millisecond, r.Seconds.Size())
}
