package logger

import (
	"context"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

type contextKey string

// CorrelationIDKey is the context key carrying the request correlation id.
const CorrelationIDKey contextKey = "correlation_id"

// Logger is the structured logging interface used across the service.
type Logger interface {
	Info(ctx context.Context, message string, fields map[string]interface{})
	Error(ctx context.Context, message string, err error, fields map[string]interface{})
	Warn(ctx context.Context, message string, fields map[string]interface{})
	Debug(ctx context.Context, message string, fields map[string]interface{})
	WithFields(fields map[string]interface{}) Logger
}

type structuredLogger struct {
	logger *logrus.Logger
	fields logrus.Fields
}

type Config struct {
	Level       string
	Format      string
	ServiceName string
}

// New builds a logrus-backed structured logger. Unknown levels fall back to
// info; format "json" selects the JSON formatter, anything else text.
func New(cfg Config) Logger {
	return &structuredLogger{
		logger: NewLogrus(cfg),
		fields: logrus.Fields{"service": cfg.ServiceName},
	}
}

// NewLogrus builds the configured logrus instance backing New. Components
// that take a *logrus.Logger directly share it so their output honours the
// same level and format settings.
func NewLogrus(cfg Config) *logrus.Logger {
	l := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	if cfg.Format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	} else {
		l.SetFormatter(&logrus.TextFormatter{TimestampFormat: time.RFC3339Nano, FullTimestamp: true})
	}
	l.SetOutput(os.Stdout)
	return l
}

func (l *structuredLogger) entry(ctx context.Context, fields map[string]interface{}) *logrus.Entry {
	merged := logrus.Fields{}
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	if cid, ok := ctx.Value(CorrelationIDKey).(string); ok && cid != "" {
		merged["correlation_id"] = cid
	}
	return l.logger.WithFields(merged)
}

func (l *structuredLogger) Info(ctx context.Context, message string, fields map[string]interface{}) {
	l.entry(ctx, fields).Info(message)
}

func (l *structuredLogger) Error(ctx context.Context, message string, err error, fields map[string]interface{}) {
	e := l.entry(ctx, fields)
	if err != nil {
		e = e.WithError(err)
	}
	e.Error(message)
}

func (l *structuredLogger) Warn(ctx context.Context, message string, fields map[string]interface{}) {
	l.entry(ctx, fields).Warn(message)
}

func (l *structuredLogger) Debug(ctx context.Context, message string, fields map[string]interface{}) {
	l.entry(ctx, fields).Debug(message)
}

func (l *structuredLogger) WithFields(fields map[string]interface{}) Logger {
	merged := logrus.Fields{}
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &structuredLogger{logger: l.logger, fields: merged}
}

// LogAuthEvent records an authentication lifecycle event (login, refresh,
// revoke) with a consistent field shape.
func LogAuthEvent(ctx context.Context, l Logger, event string, userID int64, success bool, fields map[string]interface{}) {
	merged := map[string]interface{}{
		"event":   event,
		"success": success,
	}
	if userID != 0 {
		merged["user_id"] = userID
	}
	for k, v := range fields {
		merged[k] = v
	}
	if success {
		l.Info(ctx, "auth event", merged)
	} else {
		l.Warn(ctx, "auth event", merged)
	}
}

// LogSecurityEvent records a security-relevant occurrence (blocked IP,
// role denial) at warn level with a severity tag.
func LogSecurityEvent(ctx context.Context, l Logger, event, severity string, fields map[string]interface{}) {
	merged := map[string]interface{}{
		"event":    event,
		"severity": severity,
	}
	for k, v := range fields {
		merged[k] = v
	}
	l.Warn(ctx, "security event", merged)
}
