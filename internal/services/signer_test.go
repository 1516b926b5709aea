package services

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"fundops/internal/domain"
	apperrors "fundops/pkg/errors"
)

var testNow = time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func newSignerService(t *testing.T) (*SignerService, *domain.LOI) {
	t.Helper()
	db := newTestDB(t)
	company := createCompany(t, db)
	yesterday := testNow.Add(-24 * time.Hour)
	loi := createLOI(t, db, company.ID, &yesterday)
	return NewSignerServiceWithClock(db, fixedClock), loi
}

func TestAcceptSetsSoftCommitment(t *testing.T) {
	svc, loi := newSignerService(t)
	signer := createSigner(t, svc.db, loi.ID, domain.SignerStatusInvited, nil)

	updated, err := svc.Accept(allowAll(), signer.ID)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if updated.Status != domain.SignerStatusAccepted {
		t.Fatalf("expected status accepted, got %q", updated.Status)
	}
	if updated.SoftCommitmentAt == nil || !updated.SoftCommitmentAt.Equal(testNow) {
		t.Fatalf("expected soft commitment at %v, got %v", testNow, updated.SoftCommitmentAt)
	}
}

func TestAcceptFromNonInvitedFails(t *testing.T) {
	svc, loi := newSignerService(t)
	for _, status := range []domain.SignerStatus{
		domain.SignerStatusAccepted,
		domain.SignerStatusSigned,
		domain.SignerStatusExpired,
		domain.SignerStatusRevoked,
	} {
		signer := createSigner(t, svc.db, loi.ID, status, nil)
		_, err := svc.Accept(allowAll(), signer.ID)
		if !apperrors.IsInvalidState(err) {
			t.Fatalf("accept from %q: expected InvalidState, got %v", status, err)
		}
	}
}

func TestSignFromInvitedSetsBothTimestamps(t *testing.T) {
	svc, loi := newSignerService(t)
	signer := createSigner(t, svc.db, loi.ID, domain.SignerStatusInvited, nil)

	updated, err := svc.Sign(allowAll(), signer.ID)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if updated.Status != domain.SignerStatusSigned {
		t.Fatalf("expected status signed, got %q", updated.Status)
	}
	if updated.HardSignedAt == nil || !updated.HardSignedAt.Equal(testNow) {
		t.Fatalf("expected hard_signed_at %v, got %v", testNow, updated.HardSignedAt)
	}
	// Signing with no recorded accept backfills the soft commitment to the
	// same timestamp.
	if updated.SoftCommitmentAt == nil || !updated.SoftCommitmentAt.Equal(*updated.HardSignedAt) {
		t.Fatalf("expected soft_commitment_at to equal hard_signed_at, got %v vs %v",
			updated.SoftCommitmentAt, updated.HardSignedAt)
	}
}

func TestSignFromAcceptedKeepsExistingSoftCommitment(t *testing.T) {
	svc, loi := newSignerService(t)
	earlier := testNow.Add(-48 * time.Hour)
	signer := createSigner(t, svc.db, loi.ID, domain.SignerStatusAccepted, nil)
	if err := svc.db.Model(signer).Update("soft_commitment_at", earlier).Error; err != nil {
		t.Fatalf("seed soft commitment: %v", err)
	}

	updated, err := svc.Sign(allowAll(), signer.ID)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if updated.SoftCommitmentAt == nil || !updated.SoftCommitmentAt.Equal(earlier) {
		t.Fatalf("expected soft commitment to stay %v, got %v", earlier, updated.SoftCommitmentAt)
	}
}

func TestSignFromTerminalStatusFails(t *testing.T) {
	svc, loi := newSignerService(t)
	for _, status := range []domain.SignerStatus{domain.SignerStatusRevoked, domain.SignerStatusExpired} {
		signer := createSigner(t, svc.db, loi.ID, status, nil)
		_, err := svc.Sign(allowAll(), signer.ID)
		if !apperrors.IsInvalidState(err) {
			t.Fatalf("sign from %q: expected InvalidState, got %v", status, err)
		}
		// The message names the offending status so a failed sign attempt
		// can be diagnosed from the error alone.
		if !strings.Contains(err.Error(), string(status)) {
			t.Fatalf("expected error to name status %q, got %q", status, err.Error())
		}
	}
}

func TestSignEmitsAuditEvent(t *testing.T) {
	svc, loi := newSignerService(t)
	signer := createSigner(t, svc.db, loi.ID, domain.SignerStatusAccepted, nil)

	if _, err := svc.Sign(allowAll(), signer.ID); err != nil {
		t.Fatalf("sign: %v", err)
	}

	var events []domain.SignerEvent
	if err := svc.db.Where("signer_id = ?", signer.ID).Find(&events).Error; err != nil {
		t.Fatalf("load events: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].EventType != domain.SignerEventSigned {
		t.Fatalf("expected signed event, got %q", events[0].EventType)
	}

	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(events[0].EventData), &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload["previous_status"] != "accepted" {
		t.Fatalf("expected previous_status accepted, got %v", payload["previous_status"])
	}
}

func TestRevokeIsIrreversible(t *testing.T) {
	svc, loi := newSignerService(t)
	signer := createSigner(t, svc.db, loi.ID, domain.SignerStatusAccepted, nil)

	if _, err := svc.Revoke(allowAll(), signer.ID); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	// Revoking again is rejected, not treated as idempotent.
	if _, err := svc.Revoke(allowAll(), signer.ID); !apperrors.IsInvalidState(err) {
		t.Fatalf("second revoke: expected InvalidState, got %v", err)
	}
	if _, err := svc.Sign(allowAll(), signer.ID); !apperrors.IsInvalidState(err) {
		t.Fatalf("sign after revoke: expected InvalidState, got %v", err)
	}
	if _, err := svc.Accept(allowAll(), signer.ID); !apperrors.IsInvalidState(err) {
		t.Fatalf("accept after revoke: expected InvalidState, got %v", err)
	}
}

func TestRevokeEmitsEventWithPriorStatus(t *testing.T) {
	svc, loi := newSignerService(t)
	signer := createSigner(t, svc.db, loi.ID, domain.SignerStatusSigned, nil)

	if _, err := svc.Revoke(allowAll(), signer.ID); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	var event domain.SignerEvent
	if err := svc.db.Where("signer_id = ? AND event_type = ?", signer.ID, domain.SignerEventRevoked).First(&event).Error; err != nil {
		t.Fatalf("load revoked event: %v", err)
	}
	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(event.EventData), &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload["previous_status"] != "signed" {
		t.Fatalf("expected previous_status signed, got %v", payload["previous_status"])
	}
}

func TestSetAmountValidation(t *testing.T) {
	svc, loi := newSignerService(t)
	signer := createSigner(t, svc.db, loi.ID, domain.SignerStatusInvited, nil)

	if _, err := svc.SetAmount(allowAll(), signer.ID, floatPtr(-5)); !apperrors.IsValidation(err) {
		t.Fatalf("negative amount: expected ValidationError, got %v", err)
	}

	updated, err := svc.SetAmount(allowAll(), signer.ID, floatPtr(250000))
	if err != nil {
		t.Fatalf("set amount: %v", err)
	}
	if updated.IndicativeAmount == nil || *updated.IndicativeAmount != 250000 {
		t.Fatalf("expected amount 250000, got %v", updated.IndicativeAmount)
	}
	if updated.Status != domain.SignerStatusInvited {
		t.Fatalf("set-amount must not change status, got %q", updated.Status)
	}

	// nil clears the field
	cleared, err := svc.SetAmount(allowAll(), signer.ID, nil)
	if err != nil {
		t.Fatalf("clear amount: %v", err)
	}
	if cleared.IndicativeAmount != nil {
		t.Fatalf("expected cleared amount, got %v", cleared.IndicativeAmount)
	}
}

func TestSetAmountPermittedOnTerminalSigner(t *testing.T) {
	svc, loi := newSignerService(t)
	signer := createSigner(t, svc.db, loi.ID, domain.SignerStatusRevoked, nil)

	updated, err := svc.SetAmount(allowAll(), signer.ID, floatPtr(1000))
	if err != nil {
		t.Fatalf("set amount on revoked signer: %v", err)
	}
	if updated.Status != domain.SignerStatusRevoked {
		t.Fatalf("expected status unchanged, got %q", updated.Status)
	}
}

func TestSweepExpireTransitionsAndIsIdempotent(t *testing.T) {
	svc, loi := newSignerService(t)

	// master_expires_at is yesterday: all non-terminal signers without a
	// future override are past due.
	invited := createSigner(t, svc.db, loi.ID, domain.SignerStatusInvited, nil)
	accepted := createSigner(t, svc.db, loi.ID, domain.SignerStatusAccepted, nil)
	signed := createSigner(t, svc.db, loi.ID, domain.SignerStatusSigned, nil)
	revoked := createSigner(t, svc.db, loi.ID, domain.SignerStatusRevoked, nil)
	futureOverride := createSigner(t, svc.db, loi.ID, domain.SignerStatusInvited,
		timePtr(testNow.Add(48*time.Hour)))

	result, err := svc.SweepExpire(allowAll(), loi.ID)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if result.ExpiredCount != 3 {
		t.Fatalf("expected 3 expired, got %d", result.ExpiredCount)
	}

	expired := map[string]bool{}
	for _, id := range result.SignerIDs {
		expired[id] = true
	}
	for _, id := range []string{invited.ID, accepted.ID, signed.ID} {
		if !expired[id] {
			t.Fatalf("expected signer %s in sweep result", id)
		}
	}
	if expired[revoked.ID] || expired[futureOverride.ID] {
		t.Fatalf("terminal or not-yet-due signers must not be swept")
	}

	var check domain.Signer
	if err := svc.db.First(&check, "id = ?", futureOverride.ID).Error; err != nil {
		t.Fatalf("load signer: %v", err)
	}
	if check.Status != domain.SignerStatusInvited {
		t.Fatalf("override-protected signer should stay invited, got %q", check.Status)
	}

	// Second run with an unchanged clock: nothing qualifies, no writes.
	second, err := svc.SweepExpire(allowAll(), loi.ID)
	if err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if second.ExpiredCount != 0 || len(second.SignerIDs) != 0 {
		t.Fatalf("expected empty second sweep, got %+v", second)
	}
}

func TestSweepExpireOverrideBeatsMaster(t *testing.T) {
	db := newTestDB(t)
	company := createCompany(t, db)
	future := testNow.Add(30 * 24 * time.Hour)
	loi := createLOI(t, db, company.ID, &future)
	svc := NewSignerServiceWithClock(db, fixedClock)

	pastOverride := createSigner(t, db, loi.ID, domain.SignerStatusInvited,
		timePtr(testNow.Add(-time.Hour)))
	createSigner(t, db, loi.ID, domain.SignerStatusInvited, nil)

	result, err := svc.SweepExpire(allowAll(), loi.ID)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if result.ExpiredCount != 1 || result.SignerIDs[0] != pastOverride.ID {
		t.Fatalf("expected only the overridden signer expired, got %+v", result)
	}
}

func TestSweepExpireNoExpirySet(t *testing.T) {
	db := newTestDB(t)
	company := createCompany(t, db)
	loi := createLOI(t, db, company.ID, nil)
	svc := NewSignerServiceWithClock(db, fixedClock)
	createSigner(t, db, loi.ID, domain.SignerStatusInvited, nil)

	result, err := svc.SweepExpire(allowAll(), loi.ID)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if result.ExpiredCount != 0 {
		t.Fatalf("signers without any expiry must never be swept, got %d", result.ExpiredCount)
	}
}

func TestSweepExpireEmitsEventPerSigner(t *testing.T) {
	svc, loi := newSignerService(t)
	signer := createSigner(t, svc.db, loi.ID, domain.SignerStatusInvited, nil)

	if _, err := svc.SweepExpire(allowAll(), loi.ID); err != nil {
		t.Fatalf("sweep: %v", err)
	}

	var event domain.SignerEvent
	if err := svc.db.Where("signer_id = ? AND event_type = ?", signer.ID, domain.SignerEventExpired).First(&event).Error; err != nil {
		t.Fatalf("load expired event: %v", err)
	}
	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(event.EventData), &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload["previous_status"] != "invited" {
		t.Fatalf("expected previous_status invited, got %v", payload["previous_status"])
	}
	if payload["effective_expiry"] == nil {
		t.Fatalf("expected effective_expiry in payload")
	}
}

func TestSignerAccessControl(t *testing.T) {
	svc, loi := newSignerService(t)
	signer := createSigner(t, svc.db, loi.ID, domain.SignerStatusInvited, nil)

	if _, err := svc.Sign(denyAll(), signer.ID); !apperrors.IsForbidden(err) {
		t.Fatalf("expected Forbidden, got %v", err)
	}
	if _, err := svc.SweepExpire(denyAll(), loi.ID); !apperrors.IsForbidden(err) {
		t.Fatalf("expected Forbidden on sweep, got %v", err)
	}
	if _, err := svc.Sign(allowAll(), "no-such-signer"); !apperrors.IsNotFound(err) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}
