package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapConfig selects the zap backend behind a Logger
type ZapConfig struct {
	Level  string // debug, info, warn, error
	Format string // console or json
	// Extra sinks in zap.Open syntax (file paths, "stdout", ...); stderr is always written
	OutputPaths []string
}

// NewZapLogger builds a Logger on a zap core. The returned cleanup flushes and closes the sinks.
func NewZapLogger(prefix string, config ZapConfig) (Logger, func(), error) {
	core, cleanup, err := newZapCore(config)
	if err != nil {
		return nil, nil, err
	}
	sugar := zap.New(core).Sugar()

	l := NewZapLoggerFrom(prefix, sugar)
	return l, func() {
		_ = sugar.Sync()
		cleanup()
	}, nil
}

// NewZapLoggerFrom adapts an existing sugared logger
func NewZapLoggerFrom(prefix string, sugar *zap.SugaredLogger) Logger {
	return NewLogger(prefix, LogFuncs{
		Debugf: sugar.Debugf,
		Infof:  sugar.Infof,
		Warnf:  sugar.Warnf,
		Errorf: sugar.Errorf,
	})
}

func newZapCore(config ZapConfig) (zapcore.Core, func(), error) {
	level := zapcore.InfoLevel
	if config.Level != "" {
		if err := level.UnmarshalText([]byte(config.Level)); err != nil {
			return nil, nil, fmt.Errorf("invalid log level %q: %w", config.Level, err)
		}
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	encoderConfig.LevelKey = "level"
	encoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder

	var encoder zapcore.Encoder
	switch config.Format {
	case "json":
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	case "console", "":
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	default:
		return nil, nil, fmt.Errorf("invalid log format %q", config.Format)
	}

	syncers := []zapcore.WriteSyncer{zapcore.Lock(os.Stderr)}
	cleanup := func() {}
	if len(config.OutputPaths) > 0 {
		sink, closeSink, err := zap.Open(config.OutputPaths...)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log outputs: %w", err)
		}
		syncers = append(syncers, sink)
		cleanup = closeSink
	}

	return zapcore.NewCore(encoder, zapcore.NewMultiWriteSyncer(syncers...), level), cleanup, nil
}
