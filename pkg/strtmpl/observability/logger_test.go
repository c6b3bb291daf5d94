package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testHandler captures log records as JSON lines.
type testHandler struct {
	buf   *bytes.Buffer
	level slog.Level
	attrs []slog.Attr
}

func newTestHandler() *testHandler {
	return &testHandler{
		buf:   &bytes.Buffer{},
		level: slog.LevelDebug,
	}
}

func (h *testHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *testHandler) Handle(_ context.Context, r slog.Record) error {
	data := map[string]any{
		"level": r.Level.String(),
		"msg":   r.Message,
	}
	for _, attr := range h.attrs {
		data[attr.Key] = attr.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		data[a.Key] = a.Value.Any()
		return true
	})
	return json.NewEncoder(h.buf).Encode(data)
}

func (h *testHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newH := &testHandler{
		buf:   h.buf,
		level: h.level,
		attrs: make([]slog.Attr, len(h.attrs)+len(attrs)),
	}
	copy(newH.attrs, h.attrs)
	copy(newH.attrs[len(h.attrs):], attrs)
	return newH
}

func (h *testHandler) WithGroup(_ string) slog.Handler {
	return h
}

func (h *testHandler) getLastRecord() map[string]any {
	lines := bytes.Split(h.buf.Bytes(), []byte("\n"))
	for i := len(lines) - 1; i >= 0; i-- {
		if len(lines[i]) > 0 {
			var m map[string]any
			if err := json.Unmarshal(lines[i], &m); err == nil {
				return m
			}
		}
	}
	return nil
}

func TestNewCallID(t *testing.T) {
	a := NewCallID()
	b := NewCallID()
	assert.NotEqual(t, a, b)

	_, err := uuid.Parse(a)
	assert.NoError(t, err)
}

func TestEnrichLogger(t *testing.T) {
	t.Run("adds call_id and syntax", func(t *testing.T) {
		h := newTestHandler()
		enriched := EnrichLogger(slog.New(h), "call-1", "unix")
		enriched.Info("test message")

		record := h.getLastRecord()
		require.NotNil(t, record)
		assert.Equal(t, "call-1", record["call_id"])
		assert.Equal(t, "unix", record["syntax"])
		assert.Equal(t, "test message", record["msg"])
	})

	t.Run("nil logger returns nil", func(t *testing.T) {
		assert.Nil(t, EnrichLogger(nil, "call-1", "unix"))
	})
}

func TestLogSubstituteStart(t *testing.T) {
	h := newTestHandler()
	LogSubstituteStart(slog.New(h), 42)

	record := h.getLastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "DEBUG", record["level"])
	assert.Equal(t, "substitution starting", record["msg"])
	assert.Equal(t, float64(42), record["input_len"])
}

func TestLogSubstituteComplete(t *testing.T) {
	h := newTestHandler()
	LogSubstituteComplete(slog.New(h), 1.5, 3)

	record := h.getLastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "DEBUG", record["level"])
	assert.Equal(t, "substitution completed", record["msg"])
	assert.Equal(t, 1.5, record["duration_ms"])
	assert.Equal(t, float64(3), record["expansions"])
}

func TestLogSubstituteError(t *testing.T) {
	h := newTestHandler()
	LogSubstituteError(slog.New(h), errors.New("variable not found: x"), 0.25, 1)

	record := h.getLastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "ERROR", record["level"])
	assert.Equal(t, "substitution failed", record["msg"])
	assert.Equal(t, "variable not found: x", record["error"])
	assert.Equal(t, float64(1), record["expansions"])
}

func TestLogUnresolved(t *testing.T) {
	h := newTestHandler()
	LogUnresolved(slog.New(h), "HOME")

	record := h.getLastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "WARN", record["level"])
	assert.Equal(t, "HOME", record["variable"])
}

func TestLogDefaultUsed(t *testing.T) {
	h := newTestHandler()
	LogDefaultUsed(slog.New(h), "port")

	record := h.getLastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "DEBUG", record["level"])
	assert.Equal(t, "variable resolved from default", record["msg"])
	assert.Equal(t, "port", record["variable"])
}

func TestNilLoggerDoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		LogSubstituteStart(nil, 1)
		LogSubstituteComplete(nil, 1, 1)
		LogSubstituteError(nil, errors.New("x"), 1, 1)
		LogUnresolved(nil, "x")
		LogDefaultUsed(nil, "x")
	})
}

func TestTimedOperation(t *testing.T) {
	done := TimedOperation()
	time.Sleep(5 * time.Millisecond)
	assert.GreaterOrEqual(t, done(), 5.0)
}
