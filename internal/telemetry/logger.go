// Package telemetry wraps zap for the negotiation engine's structured
// logging, adapted from the platform's shared logging library and trimmed
// to the loggers a dependency-free core actually needs (no HTTP, no
// security-event surface — this core owns neither).
package telemetry

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap.Logger with engine-specific fields and helpers.
type Logger struct {
	*zap.Logger
	serviceName string
	environment string
}

// Config configures a Logger.
type Config struct {
	Level       string
	ServiceName string
	Environment string
	Format      string // "json" or "console"
}

// New creates an engine logger. Zero-value Config fields fall back to
// production defaults.
func New(opts ...Config) *Logger {
	cfg := Config{
		Level:       "info",
		ServiceName: "negotiation-engine",
		Environment: getEnv("NEGOTIATION_ENV", "development"),
		Format:      "json",
	}
	if len(opts) > 0 {
		o := opts[0]
		if o.Level != "" {
			cfg.Level = o.Level
		}
		if o.ServiceName != "" {
			cfg.ServiceName = o.ServiceName
		}
		if o.Environment != "" {
			cfg.Environment = o.Environment
		}
		if o.Format != "" {
			cfg.Format = o.Format
		}
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var encoder zapcore.Encoder
	if cfg.Format == "console" {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), level)
	base := zap.New(core, zap.AddCaller()).With(
		zap.String("service", cfg.ServiceName),
		zap.String("environment", cfg.Environment),
	)

	return &Logger{Logger: base, serviceName: cfg.ServiceName, environment: cfg.Environment}
}

func (l *Logger) clone(base *zap.Logger) *Logger {
	return &Logger{Logger: base, serviceName: l.serviceName, environment: l.environment}
}

// WithSession adds session/vendor identity to the logger context.
func (l *Logger) WithSession(sessionID, vendorID string) *Logger {
	return l.clone(l.Logger.With(zap.String("session_id", sessionID), zap.String("vendor_id", vendorID)))
}

// WithRound adds the current round number.
func (l *Logger) WithRound(round int) *Logger {
	return l.clone(l.Logger.With(zap.Int("round", round)))
}

// WithError attaches an error to the logger context.
func (l *Logger) WithError(err error) *Logger {
	return l.clone(l.Logger.With(zap.Error(err)))
}

// RoundCompleted logs a completed round at info level.
func (l *Logger) RoundCompleted(actor string, strategy string, utility float64, clamped bool) {
	l.Info("round completed",
		zap.String("actor", actor),
		zap.String("strategy", strategy),
		zap.Float64("utility", utility),
		zap.Bool("clamped", clamped),
	)
}

// SessionTerminated logs a session's terminal outcome.
func (l *Logger) SessionTerminated(outcome, reason string, rounds int) {
	l.Info("session terminated",
		zap.String("outcome", outcome),
		zap.String("reason", reason),
		zap.Int("rounds", rounds),
	)
}

// CollaboratorRetry logs a retried call to an external collaborator.
func (l *Logger) CollaboratorRetry(collaborator string, attempt int, err error) {
	l.Warn("collaborator call retrying",
		zap.String("collaborator", collaborator),
		zap.Int("attempt", attempt),
		zap.Error(err),
	)
}

// PerformanceLogger logs a duration metric for an internal operation.
func (l *Logger) PerformanceLogger(operation string, seconds float64) {
	l.Debug("performance metric",
		zap.String("operation", operation),
		zap.Float64("duration_seconds", seconds),
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

var global *Logger

// Init sets the process-wide default logger returned by Global. Nothing in
// this module calls it; internal/coordinator and below always take an
// explicit *Logger.
func Init(opts ...Config) {
	global = New(opts...)
}

// Global returns the process-wide logger, creating a default one if unset.
func Global() *Logger {
	if global == nil {
		global = New()
	}
	return global
}
