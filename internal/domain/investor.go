package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Investor represents an investor contact belonging to a company
type Investor struct {
	ID        string     `gorm:"primaryKey" json:"id"`
	CompanyID string     `gorm:"index;not null" json:"company_id"`
	Name      string     `gorm:"not null" json:"name"`
	Email     *string    `gorm:"index" json:"email"`
	Phone     *string    `json:"phone"`
	Firm      *string    `json:"firm"`
	Notes     string     `gorm:"type:text" json:"notes"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// TableName specifies the table name for Investor
func (Investor) TableName() string {
	return "investors"
}

// BeforeCreate hook
func (i *Investor) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	i.CreatedAt = time.Now()
	return nil
}

// BeforeUpdate hook
func (i *Investor) BeforeUpdate(tx *gorm.DB) error {
	now := time.Now()
	i.UpdatedAt = &now
	return nil
}
