package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SignerEventType enumerates the signer audit event kinds
type SignerEventType string

const (
	SignerEventSigned    SignerEventType = "signed"
	SignerEventRevoked   SignerEventType = "revoked"
	SignerEventAmountSet SignerEventType = "amount_set"
	SignerEventExpired   SignerEventType = "expired"
)

// SignerEvent is one row of the append-only signer audit stream. Rows are
// never updated or deleted; the stream is the source of truth for a signer's
// historical timeline.
type SignerEvent struct {
	ID        string          `gorm:"primaryKey" json:"id"`
	SignerID  string          `gorm:"index;not null" json:"signer_id"`
	EventType SignerEventType `gorm:"not null" json:"event_type"`
	EventData string          `gorm:"type:text" json:"event_data"` // JSON payload
	CreatedBy string          `json:"created_by"`
	CreatedAt time.Time       `json:"created_at"`
}

// TableName specifies the table name for SignerEvent
func (SignerEvent) TableName() string {
	return "loi_signer_events"
}

// BeforeCreate hook
func (e *SignerEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.CreatedAt = time.Now()
	return nil
}

// LOIEventType enumerates the LOI-level event kinds
type LOIEventType string

const (
	LOIEventSent            LOIEventType = "sent"
	LOIEventSigned          LOIEventType = "signed"
	LOIEventCancelled       LOIEventType = "cancelled"
	LOIEventReminder        LOIEventType = "reminder"
	LOIEventDocumentDeleted LOIEventType = "document_deleted"
)

// LOIEvent is one row of the append-only LOI event stream, keyed by LOI
// rather than signer. Reminder numbering is derived from this stream: the
// count of reminder rows is the count of reminders sent, with no mutable
// counter column to drift out of sync.
type LOIEvent struct {
	ID        string       `gorm:"primaryKey" json:"id"`
	LOIID     string       `gorm:"column:loi_id;index" json:"loi_id"`
	EventType LOIEventType `gorm:"index;not null" json:"event_type"`
	Label     string       `json:"label"`
	Metadata  string       `gorm:"type:text" json:"metadata"` // JSON payload
	CreatedBy string       `json:"created_by"`
	CreatedAt time.Time    `json:"created_at"`
}

// TableName specifies the table name for LOIEvent
func (LOIEvent) TableName() string {
	return "loi_events"
}

// BeforeCreate hook
func (e *LOIEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.CreatedAt = time.Now()
	return nil
}
