package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerEmitsJSON(t *testing.T) {
	var buf bytes.Buffer
	l := Logger(&buf, true, slog.LevelInfo)
	l.Info("hello", "key", "value")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "hello", rec["msg"])
	assert.Equal(t, "value", rec["key"])
}

func TestLoggerEmitsText(t *testing.T) {
	var buf bytes.Buffer
	l := Logger(&buf, false, slog.LevelInfo)
	l.Info("plain")
	assert.Contains(t, buf.String(), "msg=plain")
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := Logger(&buf, false, slog.LevelWarn)
	l.Info("dropped")
	l.Warn("kept")
	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}

func TestAppendCtxAttachesAttributesToEveryRecord(t *testing.T) {
	var buf bytes.Buffer
	l := Logger(&buf, true, slog.LevelInfo)

	ctx := AppendCtx(context.Background(), slog.String("request_id", "abc123"))
	l.InfoContext(ctx, "first")
	l.InfoContext(ctx, "second")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	for _, line := range lines {
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		assert.Equal(t, "abc123", rec["request_id"])
	}
}

func TestAppendCtxAccumulatesAcrossCalls(t *testing.T) {
	var buf bytes.Buffer
	l := Logger(&buf, true, slog.LevelInfo)

	ctx := AppendCtx(context.Background(), slog.String("a", "1"))
	ctx = AppendCtx(ctx, slog.String("b", "2"))
	l.InfoContext(ctx, "combined")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "1", rec["a"])
	assert.Equal(t, "2", rec["b"])
}
