package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesJSONWithService(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "goquant-test", slog.LevelInfo)
	l.Debug("hidden")
	l.Info("calculated", slog.String("indicator", "sma_5"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "goquant-test", entry["service"])
	assert.Equal(t, "sma_5", entry["indicator"])
	assert.Equal(t, "calculated", entry["msg"])
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestRequestID_RoundTrip(t *testing.T) {
	ctx := context.Background()
	if id := RequestID(ctx); id != "" {
		t.Errorf("expected empty request id, got %q", id)
	}
	assert.Nil(t, Attrs(ctx))

	ctx = WithRequestID(ctx, "req-123")
	assert.Equal(t, "req-123", RequestID(ctx))
	assert.Len(t, Attrs(ctx), 1)
}

func TestDiscard(t *testing.T) {
	assert.NotNil(t, Discard())
}
