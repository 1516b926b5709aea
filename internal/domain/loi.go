package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LOI represents a letter of intent distributed to investors for signature.
// Its master expiry is the default for every signer without an override.
type LOI struct {
	ID              string     `gorm:"primaryKey" json:"id"`
	CompanyID       string     `gorm:"index;not null" json:"company_id"`
	Title           string     `gorm:"not null" json:"title"`
	Status          LOIStatus  `gorm:"default:'draft'" json:"status"`
	MasterExpiresAt *time.Time `json:"master_expires_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at"`
}

// TableName specifies the table name for LOI
func (LOI) TableName() string {
	return "lois"
}

// BeforeCreate hook
func (l *LOI) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	l.CreatedAt = time.Now()
	if l.Status == "" {
		l.Status = LOIStatusDraft
	}
	return nil
}

// BeforeUpdate hook
func (l *LOI) BeforeUpdate(tx *gorm.DB) error {
	now := time.Now()
	l.UpdatedAt = &now
	return nil
}
