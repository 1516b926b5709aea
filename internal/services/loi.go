package services

import (
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"fundops/internal/domain"
	"fundops/internal/metrics"
	apperrors "fundops/pkg/errors"

	"gorm.io/gorm"
)

// LOIService implements LOI CRUD and document-level lifecycle. Status input
// is normalized once at this boundary; downstream code works with the
// canonical enum only.
type LOIService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewLOIService creates a new LOI service
func NewLOIService(db *gorm.DB) *LOIService {
	return &LOIService{db: db, now: time.Now}
}

// NewLOIServiceWithClock creates an LOI service with an injected clock
func NewLOIServiceWithClock(db *gorm.DB, now func() time.Time) *LOIService {
	return &LOIService{db: db, now: now}
}

// Create implements the create LOI method
func (s *LOIService) Create(access AccessContext, companyID, title, rawStatus string, masterExpiresAt *time.Time) (*domain.LOI, error) {
	title = strings.TrimSpace(title)
	log.Printf("[LOI] Create request: company=%s, title=%s", companyID, title)

	if title == "" {
		return nil, apperrors.Validation("loi title is required")
	}
	if !access.HasAccessToCompany(companyID) {
		return nil, apperrors.Forbidden("no access to the owning company")
	}

	loi := domain.LOI{
		CompanyID:       companyID,
		Title:           title,
		Status:          domain.NormalizeLOIStatus(rawStatus),
		MasterExpiresAt: masterExpiresAt,
	}
	if err := s.db.Create(&loi).Error; err != nil {
		log.Printf("[LOI] Create failed: database error: %v", err)
		return nil, apperrors.Store("failed to create loi", err)
	}

	log.Printf("[LOI] Create successful: id=%s, status=%s", loi.ID, loi.Status)
	return &loi, nil
}

// Get implements the get LOI method
func (s *LOIService) Get(access AccessContext, id string) (*domain.LOI, error) {
	var loi domain.LOI
	if err := s.db.Where("id = ?", id).First(&loi).Error; err != nil {
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

// List implements the list LOIs method for one company
func (s *LOIService) List(access AccessContext, companyID string) ([]domain.LOI, error) {
	if !access.HasAccessToCompany(companyID) {
		return nil, apperrors.Forbidden("no access to the owning company")
	}

	var lois []domain.LOI
	if err := s.db.Where("company_id = ?", companyID).Order("created_at DESC").Find(&lois).Error; err != nil {
		return nil, apperrors.Store("failed to list lois", err)
	}
	return lois, nil
}

// SetMasterExpiry updates the LOI's master expiry. Effective expiry is
// resolved fresh on every read, so existing signers pick this up without any
// backfill.
func (s *LOIService) SetMasterExpiry(access AccessContext, id string, masterExpiresAt *time.Time) (*domain.LOI, error) {
	log.Printf("[LOI] SetMasterExpiry request: id=%s", id)

	loi, err := s.Get(access, id)
	if err != nil {
		return nil, err
	}

	loi.MasterExpiresAt = masterExpiresAt
	if err := s.db.Save(loi).Error; err != nil {
		log.Printf("[LOI] SetMasterExpiry failed: database error: %v", err)
		return nil, apperrors.Store("failed to update loi", err)
	}

	log.Printf("[LOI] SetMasterExpiry successful: id=%s", id)
	return loi, nil
}

// Send implements the send operation: a draft LOI goes out to its signers
func (s *LOIService) Send(access AccessContext, id string) (*domain.LOI, error) {
	log.Printf("[LOI] Send request: id=%s, user=%s", id, access.UserID())

	loi, err := s.Get(access, id)
	if err != nil {
		return nil, err
	}

	if loi.Status != domain.LOIStatusDraft {
		log.Printf("[LOI] Send rejected: id=%s has status '%s'", id, loi.Status)
		return nil, apperrors.New(apperrors.ErrCodeInvalidState, "cannot send loi in status '"+string(loi.Status)+"'")
	}

	loi.Status = domain.LOIStatusSent
	if err := s.db.Save(loi).Error; err != nil {
		log.Printf("[LOI] Send failed: database error: %v", err)
		return nil, apperrors.Store("failed to update loi", err)
	}

	s.emitEvent(loi.ID, domain.LOIEventSent, "LOI sent to signers", nil, access.UserID())

	log.Printf("[LOI] Send successful: id=%s", id)
	return loi, nil
}

// Cancel implements the cancel operation
func (s *LOIService) Cancel(access AccessContext, id string) (*domain.LOI, error) {
	log.Printf("[LOI] Cancel request: id=%s, user=%s", id, access.UserID())

	loi, err := s.Get(access, id)
	if err != nil {
		return nil, err
	}

	if loi.Status == domain.LOIStatusCancelled {
		return nil, apperrors.New(apperrors.ErrCodeInvalidState, "loi is already cancelled")
	}

	previousStatus := loi.Status
	loi.Status = domain.LOIStatusCancelled
	if err := s.db.Save(loi).Error; err != nil {
		log.Printf("[LOI] Cancel failed: database error: %v", err)
		return nil, apperrors.Store("failed to update loi", err)
	}

	s.emitEvent(loi.ID, domain.LOIEventCancelled, "LOI cancelled", map[string]interface{}{
		"previous_status": string(previousStatus),
	}, access.UserID())

	log.Printf("[LOI] Cancel successful: id=%s (was '%s')", id, previousStatus)
	return loi, nil
}

// Distribute creates invited signers for the given investors. Investors that
// already have a signer on this LOI are skipped.
func (s *LOIService) Distribute(access AccessContext, id string, investorIDs []string) ([]domain.Signer, error) {
	log.Printf("[LOI] Distribute request: id=%s, investors=%d", id, len(investorIDs))

	loi, err := s.Get(access, id)
	if err != nil {
		return nil, err
	}
	if len(investorIDs) == 0 {
		return nil, apperrors.Validation("at least one investor id is required")
	}

	var created []domain.Signer
	for _, investorID := range investorIDs {
		var investor domain.Investor
		if err := s.db.Where("id = ? AND company_id = ?", investorID, loi.CompanyID).First(&investor).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.NotFound("investor not found")
			}
			return nil, apperrors.Store("failed to load investor", err)
		}

		var existing domain.Signer
		if err := s.db.Where("loi_id = ? AND investor_id = ?", id, investorID).First(&existing).Error; err == nil {
			continue
		}

		signer := domain.Signer{
			LOIID:      id,
			InvestorID: investorID,
			Status:     domain.SignerStatusInvited,
		}
		if err := s.db.Create(&signer).Error; err != nil {
			log.Printf("[LOI] Distribute failed: signer create error: %v", err)
			return nil, apperrors.Store("failed to create signer", err)
		}
		created = append(created, signer)
	}

	log.Printf("[LOI] Distribute successful: id=%s, created=%d", id, len(created))
	return created, nil
}

// emitEvent appends one LOI-level event. Failures are logged and swallowed;
// the audit stream never blocks a committed transition.
func (s *LOIService) emitEvent(loiID string, eventType domain.LOIEventType, label string, payload map[string]interface{}, createdBy string) {
	metadata := ""
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			log.Printf("[LOI] event payload marshal failed: loi=%s, type=%s: %v", loiID, eventType, err)
			metrics.RecordAuditInsertFailure()
			return
		}
		metadata = string(data)
	}

	event := domain.LOIEvent{
		LOIID:     loiID,
		EventType: eventType,
		Label:     label,
		Metadata:  metadata,
		CreatedBy: createdBy,
	}
	if err := s.db.Create(&event).Error; err != nil {
		log.Printf("[LOI] event insert failed: loi=%s, type=%s: %v", loiID, eventType, err)
		metrics.RecordAuditInsertFailure()
	}
}
