package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"fundops/internal/domain"
	"fundops/internal/metrics"
	apperrors "fundops/pkg/errors"

	"gorm.io/gorm"
)

// ReminderService numbers and records outgoing LOI reminders. The sequence
// number is derived from the event log on every call: there is no counter
// column, so a failed insert leaves the true count unchanged and a retry
// recomputes the same next number.
type ReminderService struct {
	db *gorm.DB
}

// NewReminderService creates a new reminder service
func NewReminderService(db *gorm.DB) *ReminderService {
	return &ReminderService{db: db}
}

// NextReminderNumber returns the sequence number the next reminder for this
// LOI will carry.
func (s *ReminderService) NextReminderNumber(loiID string) (int, error) {
	count, err := s.countReminderEvents(loiID)
	if err != nil {
		return 0, err
	}
	return count + 1, nil
}

// RecordReminder appends a reminder event for the LOI and returns its
// sequence number. The reminder event is the business record itself, so
// unlike signer audit events its insert failure is surfaced.
func (s *ReminderService) RecordReminder(access AccessContext, loiID string) (int, error) {
	log.Printf("[REMINDER] RecordReminder request: loi=%s, user=%s", loiID, access.UserID())

	if loiID == "" {
		return 0, apperrors.Validation("loi id is required")
	}

	var loi domain.LOI
	if err := s.db.Where("id = ?", loiID).First(&loi).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, apperrors.NotFound("letter of intent not found")
		}
		return 0, apperrors.Store("failed to load letter of intent", err)
	}

	if !access.HasAccessToCompany(loi.CompanyID) {
		return 0, apperrors.Forbidden("no access to the owning company")
	}

	count, err := s.countReminderEvents(loiID)
	if err != nil {
		return 0, err
	}
	number := count + 1

	payload, _ := json.Marshal(map[string]interface{}{
		"reminder_number":         number,
		"previous_reminder_count": count,
	})

	event := domain.LOIEvent{
		LOIID:     loiID,
		EventType: domain.LOIEventReminder,
		Label:     fmt.Sprintf("Reminder #%d sent", number),
		Metadata:  string(payload),
		CreatedBy: access.UserID(),
	}
	if err := s.db.Create(&event).Error; err != nil {
		log.Printf("[REMINDER] RecordReminder failed: insert error: %v", err)
		return 0, apperrors.Store("failed to record reminder", err)
	}

	log.Printf("[REMINDER] RecordReminder successful: loi=%s, number=%d", loiID, number)
	metrics.RecordReminder()
	return number, nil
}

// ListEvents returns the LOI event stream, oldest first
func (s *ReminderService) ListEvents(access AccessContext, loiID string) ([]domain.LOIEvent, error) {
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

	var events []domain.LOIEvent
	if err := s.db.Where("loi_id = ?", loiID).Order("created_at ASC").Find(&events).Error; err != nil {
		return nil, apperrors.Store("failed to list events", err)
	}
	return events, nil
}

func (s *ReminderService) countReminderEvents(loiID string) (int, error) {
	var count int64
	err := s.db.Model(&domain.LOIEvent{}).
		Where("loi_id = ? AND event_type = ?", loiID, domain.LOIEventReminder).
		Count(&count).Error
	if err != nil {
		return 0, apperrors.Store("failed to count reminder events", err)
	}
	return int(count), nil
}
