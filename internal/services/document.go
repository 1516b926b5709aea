package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"fundops/internal/config"
	"fundops/internal/domain"
	"fundops/internal/util"
	apperrors "fundops/pkg/errors"

	"gorm.io/gorm"
)

// DocumentService manages LOI document metadata and signed download URLs.
// The object store holding the bytes is an external collaborator; this
// service only issues time-limited access tokens against stored keys.
type DocumentService struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewDocumentService creates a new document service
func NewDocumentService(db *gorm.DB, cfg *config.Config) *DocumentService {
	return &DocumentService{db: db, cfg: cfg}
}

// Register records uploaded document metadata against an LOI
func (s *DocumentService) Register(access AccessContext, loiID, fileName, storageKey string, sizeBytes int64) (*domain.Document, error) {
	fileName = strings.TrimSpace(fileName)
	log.Printf("[DOCUMENT] Register request: loi=%s, file=%s", loiID, fileName)

	if fileName == "" || storageKey == "" {
		return nil, apperrors.Validation("file name and storage key are required")
	}

	loi, err := s.loadLOI(access, loiID)
	if err != nil {
		return nil, err
	}

	document := domain.Document{
		LOIID:      loi.ID,
		FileName:   fileName,
		StorageKey: storageKey,
		SizeBytes:  sizeBytes,
		UploadedBy: access.UserID(),
	}
	if err := s.db.Create(&document).Error; err != nil {
		log.Printf("[DOCUMENT] Register failed: database error: %v", err)
		return nil, apperrors.Store("failed to register document", err)
	}

	log.Printf("[DOCUMENT] Register successful: id=%s", document.ID)
	return &document, nil
}

// SignedURL mints a time-limited download URL for a document
func (s *DocumentService) SignedURL(access AccessContext, documentID string) (string, error) {
	log.Printf("[DOCUMENT] SignedURL request: id=%s", documentID)

	document, err := s.loadDocument(access, documentID)
	if err != nil {
		return "", err
	}

	token, err := util.GenerateDownloadToken(document.ID, document.StorageKey)
	if err != nil {
		log.Printf("[DOCUMENT] SignedURL failed: token error: %v", err)
		return "", apperrors.Wrap(apperrors.ErrCodeInternalError, "failed to sign download url", err)
	}

	url := fmt.Sprintf("%s/%s?token=%s", strings.TrimRight(s.cfg.Storage.SignedURLBase, "/"), document.StorageKey, token)
	log.Printf("[DOCUMENT] SignedURL successful: id=%s", documentID)
	return url, nil
}

// List returns all documents attached to an LOI
func (s *DocumentService) List(access AccessContext, loiID string) ([]domain.Document, error) {
	if _, err := s.loadLOI(access, loiID); err != nil {
		return nil, err
	}

	var documents []domain.Document
	if err := s.db.Where("loi_id = ?", loiID).Order("created_at DESC").Find(&documents).Error; err != nil {
		return nil, apperrors.Store("failed to list documents", err)
	}
	return documents, nil
}

// Delete removes document metadata and records the deletion on the LOI's
// event stream. Deleting the stored bytes is the object store's concern.
func (s *DocumentService) Delete(access AccessContext, documentID string, lois *LOIService) error {
	log.Printf("[DOCUMENT] Delete request: id=%s", documentID)

	document, err := s.loadDocument(access, documentID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(&domain.Document{}, "id = ?", document.ID).Error; err != nil {
		log.Printf("[DOCUMENT] Delete failed: database error: %v", err)
		return apperrors.Store("failed to delete document", err)
	}

	lois.emitEvent(document.LOIID, domain.LOIEventDocumentDeleted, "Document deleted: "+document.FileName, map[string]interface{}{
		"document_id": document.ID,
		"file_name":   document.FileName,
	}, access.UserID())

	log.Printf("[DOCUMENT] Delete successful: id=%s", documentID)
	return nil
}

func (s *DocumentService) loadLOI(access AccessContext, loiID string) (*domain.LOI, error) {
	var loi domain.LOI
	if err := s.db.Where("id = ?", loiID).First(&loi).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("letter of intent not found")
		}
		return nil, apperrors.Store("failed to load letter of intent", err)
	}
	if !access.HasAccessToCompany(loi.CompanyID) {
		return nil, apperrors.NotFound("letter of intent not found")
	}
	return &loi, nil
}

func (s *DocumentService) loadDocument(access AccessContext, documentID string) (*domain.Document, error) {
	var document domain.Document
	if err := s.db.Where("id = ?", documentID).First(&document).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("document not found")
		}
		return nil, apperrors.Store("failed to load document", err)
	}
	if _, err := s.loadLOI(access, document.LOIID); err != nil {
		return nil, apperrors.NotFound("document not found")
	}
	return &document, nil
}
