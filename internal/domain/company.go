package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Company represents a fundraising company tenant
type Company struct {
	ID        string     `gorm:"primaryKey" json:"id"`
	Name      string     `gorm:"not null" json:"name"`
	Website   *string    `json:"website"`
	Sector    *string    `json:"sector"`
	Notes     string     `gorm:"type:text" json:"notes"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// TableName specifies the table name for Company
func (Company) TableName() string {
	return "companies"
}

// BeforeCreate hook
func (c *Company) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = time.Now()
	return nil
}

// BeforeUpdate hook
func (c *Company) BeforeUpdate(tx *gorm.DB) error {
	now := time.Now()
	c.UpdatedAt = &now
	return nil
}

// CompanyMember joins a user to a company they may operate on
type CompanyMember struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	CompanyID string    `gorm:"index:idx_company_members_pair;not null" json:"company_id"`
	UserID    uint      `gorm:"index:idx_company_members_pair;not null" json:"user_id"`
	Role      string    `gorm:"default:'operator'" json:"role"` // operator, viewer
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for CompanyMember
func (CompanyMember) TableName() string {
	return "company_members"
}

// BeforeCreate hook
func (m *CompanyMember) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	m.CreatedAt = time.Now()
	return nil
}
