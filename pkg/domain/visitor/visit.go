package visitor

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Visit is the log record emitted for every completed redirect.
type Visit struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	IP             string    `json:"ip_address"`
	UserAgent      string    `json:"user_agent"`
	Referer        string    `json:"referer"`
	Browser        string    `json:"browser"`
	OS             string    `json:"os"`
	Device         string    `json:"device"`
	Classification string    `json:"classification"`
	Source         string    `json:"source"`
	Reason         string    `json:"reason"`
	Destination    string    `json:"destination"`
	EmailCaptured  bool      `json:"email_captured"`
	CreatedAt      time.Time `json:"created_at"`
}

func (Visit) TableName() string {
	return "visits"
}

// CapturedEmail is the payload reported to the capture endpoint.
type CapturedEmail struct {
	Email      string    `json:"email"`
	IP         string    `json:"ip_address"`
	UserAgent  string    `json:"user_agent"`
	SourceURL  string    `json:"source_url"`
	CapturedAt time.Time `json:"captured_at"`
}

type VisitRepository interface {
	Save(ctx context.Context, visit *Visit) error
	ListRecent(ctx context.Context, limit int) ([]Visit, error)
}

// Dispatcher hands request output to background sinks. Implementations
// must return without waiting on any sink. CaptureEmail reports whether the
// email was queued for at least one sink.
type Dispatcher interface {
	CaptureEmail(email CapturedEmail) bool
	RecordVisit(visit Visit)
}
