package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	FieldSessionID = "session_id"
	FieldRole      = "target_role"
	FieldComponent = "component"
)

// New builds the process logger. json switches the encoder, debug lowers the level.
func New(json bool, debug bool) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	encoding := "console"

	if json {
		encoding = "json"
	}

	if debug {
		level = zapcore.DebugLevel
	}

	cfg := zap.Config{
		Encoding:         encoding,
		Level:            zap.NewAtomicLevelAt(level),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey: "msg",

			LevelKey:    "level",
			EncodeLevel: zapcore.LowercaseLevelEncoder,

			TimeKey:    "time",
			EncodeTime: zapcore.RFC3339TimeEncoder,

			CallerKey:    "caller",
			EncodeCaller: zapcore.ShortCallerEncoder,
		},
	}

	return cfg.Build()
}

// WithFields attaches fields to the logger, defaulting to a no-op logger when nil.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// Named returns a child logger tagged with the component name.
func Named(logger *zap.Logger, component string) *zap.Logger {
	component = strings.TrimSpace(component)
	if component == "" {
		return WithFields(logger)
	}
	return WithFields(logger, zap.String(FieldComponent, component))
}

// SessionFields returns the standard fields describing an interview session.
// Empty values are skipped.
func SessionFields(sessionID, role string) []zap.Field {
	fields := make([]zap.Field, 0, 2)
	if v := strings.TrimSpace(sessionID); v != "" {
		fields = append(fields, zap.String(FieldSessionID, v))
	}
	if v := strings.TrimSpace(role); v != "" {
		fields = append(fields, zap.String(FieldRole, v))
	}
	return fields
}

// TruncateForLog shortens s to limit runes, appending an ellipsis when truncated.
func TruncateForLog(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
