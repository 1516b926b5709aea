package services

import (
	"encoding/json"
	"errors"
	"log"
	"math"
	"time"

	"fundops/internal/domain"
	"fundops/internal/metrics"
	apperrors "fundops/pkg/errors"

	"gorm.io/gorm"
)

// AccessContext carries the per-request authorization already resolved by
// the caller. The lifecycle service consults it but never performs
// authorization itself.
type AccessContext interface {
	UserID() string
	HasAccessToCompany(companyID string) bool
}

// SweepResult reports the outcome of a bulk expiry sweep
type SweepResult struct {
	ExpiredCount int      `json:"expired_count"`
	SignerIDs    []string `json:"signer_ids"`
}

// SignerService implements the signer lifecycle engine
type SignerService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewSignerService creates a new signer service
func NewSignerService(db *gorm.DB) *SignerService {
	return &SignerService{db: db, now: time.Now}
}

// NewSignerServiceWithClock creates a signer service with an injected clock
func NewSignerServiceWithClock(db *gorm.DB, now func() time.Time) *SignerService {
	return &SignerService{db: db, now: now}
}

// loadSignerAndLOI fetches a signer with its parent LOI and checks company
// access. A missing signer, a missing parent and a foreign-company parent all
// collapse into the same NotFound so existence never leaks across tenants.
func (s *SignerService) loadSignerAndLOI(access AccessContext, signerID string) (*domain.Signer, *domain.LOI, error) {
	if signerID == "" {
		return nil, nil, apperrors.Validation("signer id is required")
	}

	var signer domain.Signer
	if err := s.db.Where("id = ?", signerID).First(&signer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.NotFound("signer not found")
		}
		return nil, nil, apperrors.Store("failed to load signer", err)
	}

	var loi domain.LOI
	if err := s.db.Where("id = ?", signer.LOIID).First(&loi).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.NotFound("signer not found")
		}
		return nil, nil, apperrors.Store("failed to load letter of intent", err)
	}

	if !access.HasAccessToCompany(loi.CompanyID) {
		return nil, nil, apperrors.Forbidden("no access to the owning company")
	}

	return &signer, &loi, nil
}

// Accept implements the accept operation: an invited signer records a soft
// commitment.
func (s *SignerService) Accept(access AccessContext, signerID string) (*domain.Signer, error) {
	log.Printf("[SIGNER] Accept request: id=%s, user=%s", signerID, access.UserID())

	signer, _, err := s.loadSignerAndLOI(access, signerID)
	if err != nil {
		metrics.RecordSignerTransition("accept", false)
		return nil, err
	}

	if signer.Status != domain.SignerStatusInvited {
		log.Printf("[SIGNER] Accept rejected: id=%s has status '%s'", signerID, signer.Status)
		metrics.RecordSignerTransition("accept", false)
		return nil, apperrors.InvalidState("accept", string(signer.Status))
	}

	now := s.now()
	signer.Status = domain.SignerStatusAccepted
	if signer.SoftCommitmentAt == nil {
		signer.SoftCommitmentAt = &now
	}

	if err := s.db.Save(signer).Error; err != nil {
		log.Printf("[SIGNER] Accept failed: save error: %v", err)
		metrics.RecordSignerTransition("accept", false)
		return nil, apperrors.Store("failed to update signer", err)
	}

	log.Printf("[SIGNER] Accept successful: id=%s", signerID)
	metrics.RecordSignerTransition("accept", true)
	return signer, nil
}

// Sign implements the sign operation. Signing always implies an effective
// soft commitment: if no discrete accept was recorded, soft_commitment_at is
// backfilled with the signing timestamp.
func (s *SignerService) Sign(access AccessContext, signerID string) (*domain.Signer, error) {
	log.Printf("[SIGNER] Sign request: id=%s, user=%s", signerID, access.UserID())

	signer, _, err := s.loadSignerAndLOI(access, signerID)
	if err != nil {
		metrics.RecordSignerTransition("sign", false)
		return nil, err
	}

	// Terminal statuses are surfaced distinctly from "not yet invited":
	// production debugging needs to know why a sign attempt failed.
	if signer.Status == domain.SignerStatusRevoked || signer.Status == domain.SignerStatusExpired {
		log.Printf("[SIGNER] Sign rejected: id=%s has terminal status '%s'", signerID, signer.Status)
		metrics.RecordSignerTransition("sign", false)
		return nil, apperrors.InvalidState("sign", string(signer.Status))
	}

	previousStatus := signer.Status
	now := s.now()
	signer.Status = domain.SignerStatusSigned
	if signer.HardSignedAt == nil {
		signer.HardSignedAt = &now
	}
	if signer.SoftCommitmentAt == nil {
		signer.SoftCommitmentAt = &now
	}

	if err := s.db.Save(signer).Error; err != nil {
		log.Printf("[SIGNER] Sign failed: save error: %v", err)
		metrics.RecordSignerTransition("sign", false)
		return nil, apperrors.Store("failed to update signer", err)
	}

	s.emitEvent(signer.ID, domain.SignerEventSigned, map[string]interface{}{
		"previous_status": string(previousStatus),
		"hard_signed_at":  signer.HardSignedAt.Format(time.RFC3339),
	}, access.UserID())

	log.Printf("[SIGNER] Sign successful: id=%s", signerID)
	metrics.RecordSignerTransition("sign", true)
	return signer, nil
}

// Revoke implements the revoke operation. Revoking an already-revoked signer
// is rejected rather than treated as idempotent, unlike the sweep which
// skips already-expired signers silently.
func (s *SignerService) Revoke(access AccessContext, signerID string) (*domain.Signer, error) {
	log.Printf("[SIGNER] Revoke request: id=%s, user=%s", signerID, access.UserID())

	signer, _, err := s.loadSignerAndLOI(access, signerID)
	if err != nil {
		metrics.RecordSignerTransition("revoke", false)
		return nil, err
	}

	if signer.Status.IsTerminal() {
		log.Printf("[SIGNER] Revoke rejected: id=%s has terminal status '%s'", signerID, signer.Status)
		metrics.RecordSignerTransition("revoke", false)
		return nil, apperrors.InvalidState("revoke", string(signer.Status))
	}

	previousStatus := signer.Status
	signer.Status = domain.SignerStatusRevoked

	if err := s.db.Save(signer).Error; err != nil {
		log.Printf("[SIGNER] Revoke failed: save error: %v", err)
		metrics.RecordSignerTransition("revoke", false)
		return nil, apperrors.Store("failed to update signer", err)
	}

	s.emitEvent(signer.ID, domain.SignerEventRevoked, map[string]interface{}{
		"previous_status": string(previousStatus),
	}, access.UserID())

	log.Printf("[SIGNER] Revoke successful: id=%s (was '%s')", signerID, previousStatus)
	metrics.RecordSignerTransition("revoke", true)
	return signer, nil
}

// SetAmount updates the indicative amount without changing status. A nil
// amount clears the field. Terminal signers are not guarded here; the source
// system permitted it and the behavior is kept until product confirms
// otherwise, with a log line keeping it visible.
func (s *SignerService) SetAmount(access AccessContext, signerID string, amount *float64) (*domain.Signer, error) {
	log.Printf("[SIGNER] SetAmount request: id=%s, user=%s", signerID, access.UserID())

	if amount != nil && (math.IsNaN(*amount) || math.IsInf(*amount, 0) || *amount < 0) {
		log.Printf("[SIGNER] SetAmount rejected: id=%s invalid amount", signerID)
		metrics.RecordSignerTransition("set_amount", false)
		return nil, apperrors.Validation("indicative amount must be a finite number >= 0")
	}

	signer, _, err := s.loadSignerAndLOI(access, signerID)
	if err != nil {
		metrics.RecordSignerTransition("set_amount", false)
		return nil, err
	}

	if signer.Status.IsTerminal() {
		log.Printf("[SIGNER] SetAmount on terminal signer: id=%s, status=%s", signerID, signer.Status)
	}

	previousAmount := signer.IndicativeAmount
	signer.IndicativeAmount = amount

	if err := s.db.Save(signer).Error; err != nil {
		log.Printf("[SIGNER] SetAmount failed: save error: %v", err)
		metrics.RecordSignerTransition("set_amount", false)
		return nil, apperrors.Store("failed to update signer", err)
	}

	s.emitEvent(signer.ID, domain.SignerEventAmountSet, map[string]interface{}{
		"previous_amount": previousAmount,
		"new_amount":      amount,
	}, access.UserID())

	log.Printf("[SIGNER] SetAmount successful: id=%s", signerID)
	metrics.RecordSignerTransition("set_amount", true)
	return signer, nil
}

// SweepExpire expires every non-terminal signer of an LOI whose effective
// expiry has passed. All qualifying rows are updated in one batched
// statement evaluated against a single execution timestamp, so concurrent
// readers never observe a partially swept set. Safe to invoke repeatedly:
// already-expired signers are excluded by the status filter and a run with
// no candidates issues no writes at all.
func (s *SignerService) SweepExpire(access AccessContext, loiID string) (*SweepResult, error) {
	log.Printf("[SIGNER] SweepExpire request: loi=%s, user=%s", loiID, access.UserID())

	if loiID == "" {
		return nil, apperrors.Validation("loi id is required")
	}

	var loi domain.LOI
	if err := s.db.Where("id = ?", loiID).First(&loi).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("letter of intent not found")
		}
		return nil, apperrors.Store("failed to load letter of intent", err)
	}

	if !access.HasAccessToCompany(loi.CompanyID) {
		return nil, apperrors.Forbidden("no access to the owning company")
	}

	var signers []domain.Signer
	nonTerminal := []domain.SignerStatus{
		domain.SignerStatusInvited,
		domain.SignerStatusAccepted,
		domain.SignerStatusSigned,
	}
	if err := s.db.Where("loi_id = ? AND status IN ?", loiID, nonTerminal).Find(&signers).Error; err != nil {
		return nil, apperrors.Store("failed to load signers", err)
	}

	now := s.now()
	type expiredSigner struct {
		signer    domain.Signer
		effective time.Time
	}
	var expired []expiredSigner
	for _, signer := range signers {
		effective := domain.EffectiveExpiry(&signer, &loi)
		if effective != nil && now.After(*effective) {
			expired = append(expired, expiredSigner{signer: signer, effective: *effective})
		}
	}

	if len(expired) == 0 {
		log.Printf("[SIGNER] SweepExpire: loi=%s, nothing to expire", loiID)
		metrics.RecordSweep(0)
		return &SweepResult{ExpiredCount: 0, SignerIDs: []string{}}, nil
	}

	ids := make([]string, len(expired))
	for i, e := range expired {
		ids[i] = e.signer.ID
	}

	// One statement for the whole batch, not a loop of single-row updates.
	updates := map[string]interface{}{
		"status":     domain.SignerStatusExpired,
		"updated_at": now,
	}
	if err := s.db.Model(&domain.Signer{}).Where("id IN ?", ids).Updates(updates).Error; err != nil {
		log.Printf("[SIGNER] SweepExpire failed: batch update error: %v", err)
		return nil, apperrors.Store("failed to expire signers", err)
	}

	for _, e := range expired {
		s.emitEvent(e.signer.ID, domain.SignerEventExpired, map[string]interface{}{
			"previous_status":  string(e.signer.Status),
			"effective_expiry": e.effective.Format(time.RFC3339),
		}, access.UserID())
	}

	log.Printf("[SIGNER] SweepExpire successful: loi=%s, expired=%d", loiID, len(ids))
	metrics.RecordSweep(len(ids))
	return &SweepResult{ExpiredCount: len(ids), SignerIDs: ids}, nil
}

// Get returns a signer with its expiry classification
func (s *SignerService) Get(access AccessContext, signerID string) (*domain.Signer, domain.ExpiryBucket, error) {
	signer, loi, err := s.loadSignerAndLOI(access, signerID)
	if err != nil {
		return nil, "", err
	}
	days := domain.DaysRemaining(s.now(), domain.EffectiveExpiry(signer, loi))
	return signer, domain.ClassifyExpiry(days, signer.Status), nil
}

// ListByLOI returns all signers of an LOI
func (s *SignerService) ListByLOI(access AccessContext, loiID string) ([]domain.Signer, error) {
	var loi domain.LOI
	if err := s.db.Where("id = ?", loiID).First(&loi).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("letter of intent not found")
		}
		return nil, apperrors.Store("failed to load letter of intent", err)
	}
	if !access.HasAccessToCompany(loi.CompanyID) {
		return nil, apperrors.Forbidden("no access to the owning company")
	}

	var signers []domain.Signer
	if err := s.db.Where("loi_id = ?", loiID).Order("created_at ASC").Find(&signers).Error; err != nil {
		return nil, apperrors.Store("failed to list signers", err)
	}
	return signers, nil
}

// Events returns the audit stream for a signer, oldest first
func (s *SignerService) Events(access AccessContext, signerID string) ([]domain.SignerEvent, error) {
	if _, _, err := s.loadSignerAndLOI(access, signerID); err != nil {
		return nil, err
	}

	var events []domain.SignerEvent
	if err := s.db.Where("signer_id = ?", signerID).Order("created_at ASC").Find(&events).Error; err != nil {
		return nil, apperrors.Store("failed to list signer events", err)
	}
	return events, nil
}

// emitEvent appends one audit event for a signer transition. Failures are
// logged and swallowed: a missing audit row never blocks a transition that
// already committed.
func (s *SignerService) emitEvent(signerID string, eventType domain.SignerEventType, payload map[string]interface{}, createdBy string) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[SIGNER] audit event payload marshal failed: signer=%s, type=%s: %v", signerID, eventType, err)
		metrics.RecordAuditInsertFailure()
		return
	}

	event := domain.SignerEvent{
		SignerID:  signerID,
		EventType: eventType,
		EventData: string(data),
		CreatedBy: createdBy,
	}
	if err := s.db.Create(&event).Error; err != nil {
		log.Printf("[SIGNER] audit event insert failed: signer=%s, type=%s: %v", signerID, eventType, err)
		metrics.RecordAuditInsertFailure()
	}
}
