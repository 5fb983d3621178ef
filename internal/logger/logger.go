package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a JSON file logger at the given level. The TUI owns the
// terminal, so nothing is written to stdout or stderr. The returned func
// flushes and closes the file.
func New(path, level string) (*zap.Logger, func(), error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("logger.New: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, nil, fmt.Errorf("logger.New: create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("logger.New: open log file: %w", err)
	}

	l := zap.New(zapcore.NewCore(jsonEncoder(), zapcore.AddSync(f), lvl), zap.AddCaller())
	closeFn := func() {
		_ = l.Sync()
		_ = f.Close()
	}
	return l, closeFn, nil
}

// NewWithCore wraps an existing core; used to point logs at a test buffer.
func NewWithCore(core zapcore.Core) *zap.Logger {
	return zap.New(core)
}

func jsonEncoder() zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapcore.NewJSONEncoder(cfg)
}

// Common field constructors
func Action(value string) zap.Field     { return zap.String("action", value) }
func Screen(value string) zap.Field     { return zap.String("screen", value) }
func ClassID(value int) zap.Field       { return zap.Int("class_id", value) }
func Count(value int) zap.Field         { return zap.Int("count", value) }
func Location(value string) zap.Field   { return zap.String("location", value) }
func Generation(value uint64) zap.Field { return zap.Uint64("generation", value) }
func RequestID(value string) zap.Field  { return zap.String("request_id", value) }
func Method(value string) zap.Field     { return zap.String("method", value) }
func Path(value string) zap.Field       { return zap.String("path", value) }
func Status(value int) zap.Field        { return zap.Int("status", value) }
