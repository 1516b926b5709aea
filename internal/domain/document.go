package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Document represents stored file metadata attached to an LOI. The bytes
// live in the external object store; this row carries the storage key that
// signed download URLs are minted against.
type Document struct {
	ID         string    `gorm:"primaryKey" json:"id"`
	LOIID      string    `gorm:"column:loi_id;index" json:"loi_id"`
	FileName   string    `gorm:"not null" json:"file_name"`
	StorageKey string    `gorm:"not null" json:"storage_key"`
	SizeBytes  int64     `json:"size_bytes"`
	UploadedBy string    `json:"uploaded_by"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the table name for Document
func (Document) TableName() string {
	return "loi_documents"
}

// BeforeCreate hook
func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	d.CreatedAt = time.Now()
	return nil
}
