package dto

import (
	"time"
)

// ExportRequest asks for a register export. The response carries a
// short-lived download token instead of the document itself, so the
// rendering cost is paid once and the download can be retried.
type ExportRequest struct {
	Format string `json:"format" validate:"required,oneof=csv pdf json"`
	Scope  string `json:"scope" validate:"required,oneof=risks actions suppliers full"`
}

// ExportRegisterResponse is the handle to a rendered export.
type ExportRegisterResponse struct {
	Token       string    `json:"token"`
	Format      string    `json:"format"`
	Scope       string    `json:"scope"`
	SizeBytes   int       `json:"size_bytes"`
	ExpiresAt   time.Time `json:"expires_at"`
	DownloadURL string    `json:"download_url"`
}

// ExportArtifact is a rendered export ready to stream back to the client.
// The handler sets Content-Type and Content-Disposition from it.
type ExportArtifact struct {
	Content     []byte
	ContentType string
	Filename    string
}

// AuditEntryResponse is one audit trail entry.
type AuditEntryResponse struct {
	EventID     string    `json:"event_id"`
	EventType   string    `json:"event_type"`
	Actor       string    `json:"actor"`
	SubjectType string    `json:"subject_type,omitempty"`
	SubjectID   string    `json:"subject_id,omitempty"`
	Result      string    `json:"result"`
	Message     string    `json:"message,omitempty"`
	TraceID     string    `json:"trace_id,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// AuditListResponse is a page of audit entries.
type AuditListResponse struct {
	Entries    []*AuditEntryResponse `json:"entries"`
	Pagination PaginationResponse    `json:"pagination"`
}
