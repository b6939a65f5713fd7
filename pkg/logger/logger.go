package logger

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Level  string `env:"LEVEL" envDefault:"info" yaml:"level"`
	Format string `env:"FORMAT" envDefault:"json" yaml:"format"`
}

var (
	mu   sync.RWMutex
	base = zap.NewNop()
)

// Init replaces the process logger. Until it is called every named logger is a no-op.
func Init(cfg Config) error {
	level, err := zapcore.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		return fmt.Errorf("parse log level %q: %w", cfg.Level, err)
	}

	zcfg := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.OutputPaths = []string{"stderr"}

	l, err := zcfg.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}

	mu.Lock()
	base = l
	mu.Unlock()
	return nil
}

func MustNamed(name string) *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return base.Named(name).Sugar()
}

func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = base.Sync()
}
