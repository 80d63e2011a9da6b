package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/rosverk/rosreg/pkg/constants"
)

// AuditLog represents a single audit trail event.
type AuditLog struct {
	EventID     uuid.UUID
	EventType   constants.AuditEventType
	Actor       string // Who performed the action; "system" when unattributed
	SubjectType constants.SubjectType
	SubjectID   *uuid.UUID // Nil for events without a single subject (e.g. catalog seed)
	Result      constants.AuditEventResult
	Message     string
	TraceID     string
	Metadata    json.RawMessage // Event-specific data
	Timestamp   time.Time
}

// NewAuditLog creates a new audit log entry.
func NewAuditLog(eventType constants.AuditEventType, actor, message string) *AuditLog {
	return &AuditLog{
		EventID:   uuid.New(),
		EventType: eventType,
		Actor:     actor,
		Result:    constants.AuditResultSuccess,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}

// WithSubject sets the subject the event refers to.
func (a *AuditLog) WithSubject(subjectType constants.SubjectType, subjectID uuid.UUID) *AuditLog {
	a.SubjectType = subjectType
	a.SubjectID = &subjectID
	return a
}

// WithResult overrides the default success result.
func (a *AuditLog) WithResult(result constants.AuditEventResult) *AuditLog {
	a.Result = result
	return a
}

// WithTraceID attaches the request trace ID.
func (a *AuditLog) WithTraceID(traceID string) *AuditLog {
	a.TraceID = traceID
	return a
}

// WithMetadata attaches JSON-marshaled event data. Marshal failures are
// ignored; the event still records without metadata.
func (a *AuditLog) WithMetadata(data interface{}) *AuditLog {
	jsonData, err := json.Marshal(data)
	if err == nil {
		a.Metadata = jsonData
	}
	return a
}
