package logger_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/lockstep/internal/adapters/logger"
	"go.trai.ch/zerr"
)

func TestCollectErrorEntries_StopsAtForeignError(t *testing.T) {
	err := zerr.Wrap(errors.New("exit status 1"), "regeneration failed")

	entries := logger.CollectErrorEntries(err)

	require.Len(t, entries, 2)
	assert.Equal(t, "regeneration failed", logger.ErrorEntryMessage(entries, 0))
	assert.Equal(t, "exit status 1", logger.ErrorEntryMessage(entries, 1))
}

func TestCollectErrorEntries_FoldsEmptyLayers(t *testing.T) {
	// zerr.With on a plain error adds a layer without a message.
	err := zerr.With(errors.New("permission denied"), "path", "package.json")

	entries := logger.CollectErrorEntries(err)

	require.Len(t, entries, 1)
	assert.Equal(t, "permission denied", logger.ErrorEntryMessage(entries, 0))
	assert.Equal(t, map[string]any{"path": "package.json"}, logger.ErrorEntryMetadata(entries, 0))
}

func TestCollectErrorEntries_EmptyLayerBelowMessage(t *testing.T) {
	inner := zerr.With(errors.New("no such file"), "path", "yarn.lock")
	err := zerr.Wrap(inner, "backup failed")

	entries := logger.CollectErrorEntries(err)

	require.Len(t, entries, 2)
	assert.Equal(t, map[string]any{"path": "yarn.lock"}, logger.ErrorEntryMetadata(entries, 0))
	assert.Empty(t, logger.ErrorEntryMetadata(entries, 1))
}

func TestFormatErrorEntries(t *testing.T) {
	err := zerr.With(
		zerr.Wrap(zerr.Wrap(errors.New("boom"), "middle"), "top"),
		"dir", "/repo",
	)

	got := logger.FormatErrorEntries(logger.CollectErrorEntries(err))

	want := "Error: top\n" +
		"       dir: /repo\n" +
		"\n" +
		"  Caused by:\n" +
		"    → middle\n" +
		"    → boom"
	assert.Equal(t, want, got)
}

func TestFormatErrorEntries_MultilineMetadata(t *testing.T) {
	err := zerr.With(zerr.New("install failed"), "stderr", "line one\nline two\n")

	got := logger.FormatErrorEntries(logger.CollectErrorEntries(err))

	want := "Error: install failed\n" +
		"       stderr: line one\n" +
		"         line two"
	assert.Equal(t, want, got)
}
