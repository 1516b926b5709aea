package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Signer represents one investor's participation in one LOI's signature
// round. Signers are created invited, mutated only through the lifecycle
// service, and never deleted; revoked and expired are the closure states.
type Signer struct {
	ID                string       `gorm:"primaryKey" json:"id"`
	LOIID             string       `gorm:"column:loi_id;index" json:"loi_id"`
	InvestorID        string       `gorm:"index;not null" json:"investor_id"`
	Status            SignerStatus `gorm:"default:'invited'" json:"status"`
	SoftCommitmentAt  *time.Time   `json:"soft_commitment_at"`
	HardSignedAt      *time.Time   `json:"hard_signed_at"`
	ExpiresAtOverride *time.Time   `json:"expires_at_override"`
	IndicativeAmount  *float64     `json:"indicative_amount"`
	Notes             string       `gorm:"type:text" json:"notes"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

// TableName specifies the table name for Signer
func (Signer) TableName() string {
	return "loi_signers"
}

// BeforeCreate hook
func (s *Signer) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	now := time.Now()
	s.CreatedAt = now
	s.UpdatedAt = now
	if s.Status == "" {
		s.Status = SignerStatusInvited
	}
	return nil
}

// BeforeUpdate hook
func (s *Signer) BeforeUpdate(tx *gorm.DB) error {
	s.UpdatedAt = time.Now()
	return nil
}
