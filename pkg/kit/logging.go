package kit

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type LogConfig struct {
	Level string
	// File enables a rotating JSON log file next to stdout.
	File string
}

func NewLogger(service string, cfg LogConfig) *zap.Logger {
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level.SetLevel(zapcore.InfoLevel)
	}

	if cfg.File == "" {
		zc := zap.NewProductionConfig()
		zc.Level = level
		zc.InitialFields = map[string]any{"service": service}
		l, err := zc.Build()
		if err != nil {
			return zap.NewNop()
		}
		return l
	}

	rotating := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    64,
		MaxBackups: 7,
		MaxAge:     7,
	}

	enc := zap.NewProductionEncoderConfig()
	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.AddSync(rotating), level),
		zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.Lock(os.Stdout), level),
	)

	return zap.New(core, zap.AddCaller()).With(zap.String("service", service))
}
