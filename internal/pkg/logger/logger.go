package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger struct {
	*zap.SugaredLogger
}

// NewLogger builds a zap logger. format is "json" or "console", level is any
// level zap understands ("debug", "info", ...).
func NewLogger(level, format string) (*Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var cfg zap.Config
	switch format {
	case "console":
		cfg = zap.NewDevelopmentConfig()
	case "json", "":
		cfg = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf("invalid log format %q", format)
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	base, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{SugaredLogger: base.Sugar()}, nil
}

// NewNop returns a logger that discards everything.
func NewNop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

// With returns a child logger carrying the given key/value pairs.
func (l *Logger) With(args ...interface{}) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.With(args...)}
}

func (l *Logger) SSHConnectionAttempt(connType, target string) {
	l.Infow("attempting ssh connection",
		"type", "ssh_connection",
		"method", connType,
		"target", target,
	)
}

func (l *Logger) DeploymentStep(step, target string) {
	l.Infow("running deployment step",
		"type", "deployment",
		"step", step,
		"target", target,
	)
}

func (l *Logger) DeploymentError(step string, err error) {
	l.Errorw("deployment step failed",
		"type", "deployment",
		"step", step,
		"error", err.Error(),
	)
}

func (l *Logger) DeploymentSuccess(step string) {
	l.Infow("deployment step succeeded",
		"type", "deployment",
		"step", step,
	)
}
