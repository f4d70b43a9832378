package audit

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"time"

	"jobspace-backend/internal/domain"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EventType identifies what happened to the store or to a session.
type EventType string

const (
	EventRecordCreated      EventType = "record_created"
	EventRecordUpdated      EventType = "record_updated"
	EventRecordDeleted      EventType = "record_deleted"
	EventStatusChanged      EventType = "candidate_status_changed"
	EventFileStored         EventType = "file_stored"
	EventFileRejected       EventType = "file_rejected"
	EventLoginSuccess       EventType = "login_success"
	EventLoginFailed        EventType = "login_failed"
	EventLoginBlocked       EventType = "login_blocked"
	EventRateLimitTriggered EventType = "rate_limit_triggered"
	EventPersistFailed      EventType = "persist_failed"
)

// Event is a single audit trail entry.
type Event struct {
	Timestamp   time.Time              `json:"timestamp"`
	Service     string                 `json:"service"`
	Environment string                 `json:"env"`
	Event       EventType              `json:"event"`
	Collection  string                 `json:"collection,omitempty"`
	RecordID    string                 `json:"record_id,omitempty"`
	Actor       string                 `json:"actor,omitempty"`
	IP          string                 `json:"ip,omitempty"`
	RequestID   string                 `json:"request_id,omitempty"`
	Details     map[string]interface{} `json:"details,omitempty"`
}

// Logger writes audit events through zap.
type Logger struct {
	zapLogger   *zap.Logger
	serviceName string
	environment string
}

var (
	defaultLogger *Logger
	defaultMu     sync.RWMutex
)

// Init builds the production audit logger and installs it as the default.
func Init(serviceName, environment string) *Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.MessageKey = "message"
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	zl, err := config.Build(zap.AddCaller())
	if err != nil {
		zl, _ = zap.NewProduction()
	}

	l := New(zl, serviceName, environment)
	SetDefault(l)
	return l
}

func New(zl *zap.Logger, serviceName, environment string) *Logger {
	if zl == nil {
		zl = zap.NewNop()
	}
	return &Logger{zapLogger: zl, serviceName: serviceName, environment: environment}
}

func SetDefault(l *Logger) {
	defaultMu.Lock()
	defaultLogger = l
	defaultMu.Unlock()
}

// Default returns the installed logger, or a no-op one before Init.
func Default() *Logger {
	defaultMu.RLock()
	l := defaultLogger
	defaultMu.RUnlock()
	if l == nil {
		return New(nil, "jobspace-backend", Environment())
	}
	return l
}

// Log records an event. Request id and actor are taken from ctx when the
// caller did not set them.
func (l *Logger) Log(ctx context.Context, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	event.Service = l.serviceName
	event.Environment = l.environment
	if event.RequestID == "" {
		event.RequestID, _ = ctx.Value(domain.KeyRequestID).(string)
	}
	if event.Actor == "" {
		event.Actor, _ = ctx.Value(domain.KeyUserEmail).(string)
		event.Actor = MaskEmail(event.Actor)
	}

	level := zapcore.InfoLevel
	switch event.Event {
	case EventLoginFailed, EventRateLimitTriggered, EventFileRejected:
		level = zapcore.WarnLevel
	case EventPersistFailed:
		level = zapcore.ErrorLevel
	}

	fields := []zap.Field{
		zap.String("service", event.Service),
		zap.String("env", event.Environment),
		zap.String("event", string(event.Event)),
		zap.Time("at", event.Timestamp),
	}
	if event.Collection != "" {
		fields = append(fields, zap.String("collection", event.Collection))
	}
	if event.RecordID != "" {
		fields = append(fields, zap.String("record_id", event.RecordID))
	}
	if event.Actor != "" {
		fields = append(fields, zap.String("actor", event.Actor))
	}
	if event.IP != "" {
		fields = append(fields, zap.String("ip", event.IP))
	}
	if event.RequestID != "" {
		fields = append(fields, zap.String("request_id", event.RequestID))
	}
	if len(event.Details) > 0 {
		detailsJSON, _ := json.Marshal(event.Details)
		fields = append(fields, zap.String("details", string(detailsJSON)))
	}

	l.zapLogger.Log(level, string(event.Event), fields...)
}

func (l *Logger) RecordCreated(ctx context.Context, collection, id string) {
	l.Log(ctx, Event{Event: EventRecordCreated, Collection: collection, RecordID: id})
}

func (l *Logger) RecordUpdated(ctx context.Context, collection, id string, keys []string) {
	l.Log(ctx, Event{
		Event:      EventRecordUpdated,
		Collection: collection,
		RecordID:   id,
		Details:    map[string]interface{}{"keys": keys},
	})
}

func (l *Logger) RecordDeleted(ctx context.Context, collection, id string) {
	l.Log(ctx, Event{Event: EventRecordDeleted, Collection: collection, RecordID: id})
}

func (l *Logger) LoginFailed(ctx context.Context, email, reason string) {
	l.Log(ctx, Event{
		Event:   EventLoginFailed,
		Actor:   MaskEmail(email),
		Details: map[string]interface{}{"reason": reason},
	})
}

// Sync flushes any buffered log entries
func (l *Logger) Sync() error {
	return l.zapLogger.Sync()
}

// MaskEmail masks an email for logging (e.g., "j***@example.com")
func MaskEmail(email string) string {
	if email == "" {
		return ""
	}
	if len(email) < 3 {
		return "***"
	}
	atIndex := -1
	for i, c := range email {
		if c == '@' {
			atIndex = i
			break
		}
	}
	if atIndex < 0 {
		return string(email[0]) + "***"
	}
	if atIndex <= 1 {
		return "***" + email[atIndex:]
	}
	return string(email[0]) + "***" + email[atIndex:]
}

// Environment derives the environment name from GIN_MODE.
func Environment() string {
	if os.Getenv("GIN_MODE") == "release" {
		return "production"
	}
	return "development"
}
