package domain

import (
	"testing"
	"time"
)

func timePtr(t time.Time) *time.Time { return &t }

func intPtr(i int) *int { return &i }

func TestEffectiveExpiry(t *testing.T) {
	override := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	master := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		override *time.Time
		master   *time.Time
		want     *time.Time
	}{
		{name: "override and master", override: &override, master: &master, want: &override},
		{name: "override only", override: &override, master: nil, want: &override},
		{name: "master only", override: nil, master: &master, want: &master},
		{name: "neither", override: nil, master: nil, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signer := &Signer{ExpiresAtOverride: tt.override}
			loi := &LOI{MasterExpiresAt: tt.master}
			got := EffectiveExpiry(signer, loi)
			if tt.want == nil {
				if got != nil {
					t.Fatalf("expected nil expiry, got %v", got)
				}
				return
			}
			if got == nil || !got.Equal(*tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestDaysRemainingMidnightBoundary(t *testing.T) {
	now := time.Date(2026, 8, 28, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name   string
		expiry *time.Time
		want   *int
	}{
		{name: "no expiry", expiry: nil, want: nil},
		{name: "expires 23:59 today", expiry: timePtr(time.Date(2026, 8, 28, 23, 59, 0, 0, time.UTC)), want: intPtr(0)},
		{name: "expires 00:01 today", expiry: timePtr(time.Date(2026, 8, 28, 0, 1, 0, 0, time.UTC)), want: intPtr(0)},
		{name: "expired yesterday", expiry: timePtr(time.Date(2026, 8, 27, 23, 59, 0, 0, time.UTC)), want: intPtr(-1)},
		{name: "tomorrow morning", expiry: timePtr(time.Date(2026, 8, 29, 0, 1, 0, 0, time.UTC)), want: intPtr(1)},
		{name: "a week out", expiry: timePtr(time.Date(2026, 9, 4, 8, 0, 0, 0, time.UTC)), want: intPtr(7)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DaysRemaining(now, tt.expiry)
			if tt.want == nil {
				if got != nil {
					t.Fatalf("expected nil days, got %d", *got)
				}
				return
			}
			if got == nil || *got != *tt.want {
				t.Fatalf("expected %d days, got %v", *tt.want, got)
			}
		})
	}
}

func TestClassifyExpiry(t *testing.T) {
	tests := []struct {
		name   string
		days   *int
		status SignerStatus
		want   ExpiryBucket
	}{
		// Either disjunct alone forces expired.
		{name: "expired status with positive days", days: intPtr(90), status: SignerStatusExpired, want: ExpiryExpired},
		{name: "expired status with nil days", days: nil, status: SignerStatusExpired, want: ExpiryExpired},
		{name: "negative days with live status", days: intPtr(-1), status: SignerStatusInvited, want: ExpiryExpired},
		{name: "nil days classify ok", days: nil, status: SignerStatusInvited, want: ExpiryOK},
		{name: "zero days danger", days: intPtr(0), status: SignerStatusAccepted, want: ExpiryDanger},
		{name: "seven days danger", days: intPtr(7), status: SignerStatusInvited, want: ExpiryDanger},
		{name: "eight days warning", days: intPtr(8), status: SignerStatusInvited, want: ExpiryWarning},
		{name: "fourteen days warning", days: intPtr(14), status: SignerStatusSigned, want: ExpiryWarning},
		{name: "fifteen days soon", days: intPtr(15), status: SignerStatusInvited, want: ExpirySoon},
		{name: "thirty days soon", days: intPtr(30), status: SignerStatusInvited, want: ExpirySoon},
		{name: "thirty-one days ok", days: intPtr(31), status: SignerStatusInvited, want: ExpiryOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyExpiry(tt.days, tt.status); got != tt.want {
				t.Fatalf("ClassifyExpiry(%v, %q) = %q, want %q", tt.days, tt.status, got, tt.want)
			}
		})
	}
}
