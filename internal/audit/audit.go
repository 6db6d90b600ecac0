// Package audit records leveled, timestamped entries describing inventory
// state changes and notable conditions.
package audit

import (
	"errors"
	"fmt"
	"os"

	"github.com/rogerio-castellano/inventory-system/internal/logging"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level int

const (
	LevelInfo Level = iota
	LevelWarning
	LevelSevere
)

func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "INFO"
	case LevelWarning:
		return "WARNING"
	case LevelSevere:
		return "SEVERE"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// Recorder receives audit records. Implementations must not block for long;
// recording is best effort.
type Recorder interface {
	Record(level Level, message string)
}

// ErrLogInit is wrapped by errors returned when the audit log cannot be opened.
var ErrLogInit = errors.New("audit log initialization failed")

// ZapRecorder writes audit records through a zap logger.
type ZapRecorder struct {
	logger *zap.Logger
}

func NewZapRecorder(logger *zap.Logger) *ZapRecorder {
	return &ZapRecorder{logger: logger}
}

func (r *ZapRecorder) Record(level Level, message string) {
	switch level {
	case LevelSevere:
		r.logger.Error(message, zap.Stringer("audit_level", level))
	case LevelWarning:
		r.logger.Warn(message, zap.Stringer("audit_level", level))
	default:
		r.logger.Info(message, zap.Stringer("audit_level", level))
	}
}

// OpenFile builds a zap logger appending JSON lines to path. The returned
// close function syncs and closes the file.
func OpenFile(path string) (*zap.Logger, func() error, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: open %s: %v", ErrLogInit, path, err)
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(logging.EncoderConfig()),
		zapcore.AddSync(f),
		zapcore.DebugLevel,
	)
	logger := zap.New(core).Named("audit")

	closeFn := func() error {
		_ = logger.Sync()
		return f.Close()
	}
	return logger, closeFn, nil
}

// Nop discards every record.
type Nop struct{}

func (Nop) Record(Level, string) {}
