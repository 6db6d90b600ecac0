package audit

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapRecorder_MapsLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	rec := NewZapRecorder(zap.New(core))

	rec.Record(LevelInfo, "Added product: P001 - Widget")
	rec.Record(LevelWarning, "Out of stock: Gadget")
	rec.Record(LevelSevere, "Product ID P999 not found.")

	entries := logs.All()
	require.Len(t, entries, 3)
	require.Equal(t, zapcore.InfoLevel, entries[0].Level)
	require.Equal(t, zapcore.WarnLevel, entries[1].Level)
	require.Equal(t, zapcore.ErrorLevel, entries[2].Level)
	require.Equal(t, "SEVERE", entries[2].ContextMap()["audit_level"])
}

func TestOpenFile_AppendsRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.log")

	logger, closeFn, err := OpenFile(path)
	require.NoError(t, err)

	NewZapRecorder(logger).Record(LevelWarning, "Out of stock: Gadget")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(data), "Out of stock: Gadget"))
	require.True(t, strings.Contains(string(data), `"level":"warn"`))
}

func TestOpenFile_FailureWrapsErrLogInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "inventory.log")

	_, _, err := OpenFile(path)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrLogInit))
}
