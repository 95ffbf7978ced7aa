package logger_test

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/lockstep/internal/adapters/logger"
	"go.trai.ch/zerr"
)

// newTestLogger returns a logger writing uncolored output to a buffer.
func newTestLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := logger.New().(*logger.Logger)
	lg.SetOutput(buf)
	return lg, buf
}

func TestLogger_Info(t *testing.T) {
	tests := []struct {
		name       string
		msg        string
		goldenName string
	}{
		{name: "simple message", msg: "merged package.json", goldenName: "info_basic"},
		{name: "multiline message", msg: "line1\nline2", goldenName: "info_multiline"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t)
			lg.Info(tt.msg)

			goldie.New(t).Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestLogger_Warn(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Warn("package.json still has conflict markers")

	goldie.New(t).Assert(t, "warn_basic", buf.Bytes())
}

func TestLogger_Error(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		goldenName string
	}{
		{
			name:       "simple error",
			err:        os.ErrPermission,
			goldenName: "error_simple",
		},
		{
			name:       "multiline error",
			err:        errors.New("yaml: unmarshal errors:\n  line 3: cannot unmarshal"),
			goldenName: "error_multiline",
		},
		{
			name: "zerr chain",
			err: zerr.Wrap(
				zerr.Wrap(errors.New("exit status 1"), "lockfile regeneration failed"),
				"merge-lockfile failed",
			),
			goldenName: "error_chain_zerr",
		},
		{
			name: "metadata",
			err: func() error {
				err := zerr.Wrap(errors.New("exit status 1"), "lockfile regeneration failed")
				err = zerr.With(err, "stderr", "error Couldn't find package\n")
				return zerr.With(err, "exit_code", 1)
			}(),
			goldenName: "error_metadata",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t)
			lg.Error(tt.err)

			goldie.New(t).Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestLogger_Error_StdlibChain(t *testing.T) {
	inner := errors.New("connection refused")
	outer := fmt.Errorf("failed to publish: %w", inner)

	lg, buf := newTestLogger(t)
	lg.Error(outer)

	assert.Equal(t, "✗ Error: failed to publish: connection refused\n", buf.String())
}

func TestLogger_Error_Nil(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Error(nil)

	assert.Empty(t, buf.String())
}

func TestLogger_SetJSON(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.SetJSON(true)
	lg.Error(zerr.With(zerr.New("backup failed"), "path", "yarn.lock"))

	out := buf.String()
	assert.Contains(t, out, `"level":"ERROR"`)
	assert.Contains(t, out, `"error"`)
	assert.Contains(t, out, "backup failed")
	assert.NotContains(t, out, "✗")
}

func TestLogger_SetJSON_KeepsOutput(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.SetJSON(true)
	lg.Info("first")
	lg.SetJSON(false)
	lg.Info("second")

	out := buf.String()
	require.Contains(t, out, `"msg":"first"`)
	assert.Contains(t, out, "second\n")
}

func TestLogger_SetOutput_Nil(t *testing.T) {
	lg, _ := newTestLogger(t)
	assert.NotPanics(t, func() { lg.SetOutput(nil) })
}
