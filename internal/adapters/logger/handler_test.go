package logger_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/lockstep/internal/adapters/logger"
)

func newTestHandler(t *testing.T, level slog.Level) (*logger.PrettyHandler, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	return logger.NewPrettyHandler(buf, &slog.HandlerOptions{Level: level}), buf
}

func TestPrettyHandler_Levels(t *testing.T) {
	tests := []struct {
		name  string
		level slog.Level
		want  string
	}{
		{name: "debug", level: slog.LevelDebug, want: "msg\n"},
		{name: "info", level: slog.LevelInfo, want: "msg\n"},
		{name: "warn", level: slog.LevelWarn, want: "! msg\n"},
		{name: "error", level: slog.LevelError, want: "✗ msg\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, buf := newTestHandler(t, slog.LevelDebug)
			slog.New(h).Log(context.Background(), tt.level, "msg")
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestPrettyHandler_Enabled(t *testing.T) {
	h, _ := newTestHandler(t, slog.LevelWarn)

	assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, h.Enabled(context.Background(), slog.LevelWarn))
	assert.True(t, h.Enabled(context.Background(), slog.LevelError))
}

func TestPrettyHandler_Attrs(t *testing.T) {
	h, buf := newTestHandler(t, slog.LevelInfo)

	lg := slog.New(h).With("driver", "merge-lockfile")
	lg.Warn("restored yarn.lock from backup",
		"path", "/work/lock step/yarn.lock",
		"exit_code", 1,
		"duration", 1234567*time.Microsecond,
		"error", errors.New("exit status 1"),
	)

	assert.Equal(t, "! restored yarn.lock from backup\n"+
		"  driver: merge-lockfile\n"+
		"  path: \"/work/lock step/yarn.lock\"\n"+
		"  exit code: 1\n"+
		"  duration: 1.235s\n"+
		"  error: exit status 1\n", buf.String())
}

func TestPrettyHandler_ColorsOnlyHeadline(t *testing.T) {
	h, buf := newTestHandler(t, slog.LevelInfo)

	slog.New(h).Error("Error: failed to regenerate lockfile\n\n  Caused by:\n    → exit status 1")

	assert.Equal(t, "✗ Error: failed to regenerate lockfile\n\n  Caused by:\n    → exit status 1\n", buf.String())
}

func TestPrettyHandler_Group(t *testing.T) {
	h, buf := newTestHandler(t, slog.LevelInfo)

	grouped := h.WithGroup("span").WithAttrs([]slog.Attr{slog.String("name", "merge-manifest")})
	require.NotNil(t, grouped)
	slog.New(grouped.WithGroup("attrs")).Info("done", "path", "package.json")

	assert.Equal(t, "done\n  span.name: merge-manifest\n  span.attrs.path: package.json\n", buf.String())
}

func TestPrettyHandler_EmptyGroupIsIgnored(t *testing.T) {
	h, _ := newTestHandler(t, slog.LevelInfo)
	assert.Same(t, h, h.WithGroup(""))
}

func TestNewPrettyHandler_NilWriter(t *testing.T) {
	assert.NotNil(t, logger.NewPrettyHandler(nil, nil))
}
