package services

import (
	"encoding/json"
	"testing"

	"fundops/internal/domain"
	apperrors "fundops/pkg/errors"
)

func TestNextReminderNumberDerivedFromLog(t *testing.T) {
	db := newTestDB(t)
	company := createCompany(t, db)
	loi := createLOI(t, db, company.ID, nil)
	svc := NewReminderService(db)

	number, err := svc.NextReminderNumber(loi.ID)
	if err != nil {
		t.Fatalf("next number: %v", err)
	}
	if number != 1 {
		t.Fatalf("expected first reminder number 1, got %d", number)
	}

	// Seed three prior reminder events plus unrelated event types that must
	// not count.
	for i := 0; i < 3; i++ {
		event := domain.LOIEvent{LOIID: loi.ID, EventType: domain.LOIEventReminder}
		if err := db.Create(&event).Error; err != nil {
			t.Fatalf("seed reminder event: %v", err)
		}
	}
	sent := domain.LOIEvent{LOIID: loi.ID, EventType: domain.LOIEventSent}
	if err := db.Create(&sent).Error; err != nil {
		t.Fatalf("seed sent event: %v", err)
	}

	number, err = svc.NextReminderNumber(loi.ID)
	if err != nil {
		t.Fatalf("next number: %v", err)
	}
	if number != 4 {
		t.Fatalf("expected reminder number 4 after 3 reminders, got %d", number)
	}
}

func TestRecordReminderSequencing(t *testing.T) {
	db := newTestDB(t)
	company := createCompany(t, db)
	loi := createLOI(t, db, company.ID, nil)
	svc := NewReminderService(db)

	for want := 1; want <= 3; want++ {
		got, err := svc.RecordReminder(allowAll(), loi.ID)
		if err != nil {
			t.Fatalf("record reminder %d: %v", want, err)
		}
		if got != want {
			t.Fatalf("expected reminder number %d, got %d", want, got)
		}
	}

	var events []domain.LOIEvent
	if err := db.Where("loi_id = ? AND event_type = ?", loi.ID, domain.LOIEventReminder).
		Order("created_at ASC").Find(&events).Error; err != nil {
		t.Fatalf("load events: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 reminder events, got %d", len(events))
	}

	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(events[2].Metadata), &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload["reminder_number"] != float64(3) {
		t.Fatalf("expected reminder_number 3, got %v", payload["reminder_number"])
	}
	if payload["previous_reminder_count"] != float64(2) {
		t.Fatalf("expected previous_reminder_count 2, got %v", payload["previous_reminder_count"])
	}
}

func TestRecordReminderAccessAndExistence(t *testing.T) {
	db := newTestDB(t)
	company := createCompany(t, db)
	loi := createLOI(t, db, company.ID, nil)
	svc := NewReminderService(db)

	if _, err := svc.RecordReminder(denyAll(), loi.ID); !apperrors.IsForbidden(err) {
		t.Fatalf("expected Forbidden, got %v", err)
	}
	if _, err := svc.RecordReminder(allowAll(), "no-such-loi"); !apperrors.IsNotFound(err) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}
