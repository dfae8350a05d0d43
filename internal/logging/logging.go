package logging

import (
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.Mutex
	logger *zap.SugaredLogger
)

// Init builds the process logger. verbose forces debug level; otherwise the
// level comes from MEOWTRITION_LOG_LEVEL (default warn, to keep command
// output clean).
func Init(verbose bool) {
	level := zapcore.WarnLevel
	if env := strings.ToLower(strings.TrimSpace(os.Getenv("MEOWTRITION_LOG_LEVEL"))); env != "" {
		if parsed, err := zapcore.ParseLevel(env); err == nil {
			level = parsed
		}
	}
	if verbose {
		level = zapcore.DebugLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	base, err := cfg.Build()
	if err != nil {
		base = zap.NewNop()
	}

	mu.Lock()
	logger = base.Sugar()
	mu.Unlock()
}

// L returns the process logger, falling back to a no-op logger so library
// code never has to nil-check.
func L() *zap.SugaredLogger {
	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return logger
}
