package domain

import (
	"math"
	"time"
)

// ExpiryBucket classifies how urgent a signer's remaining time is.
type ExpiryBucket string

const (
	ExpiryExpired ExpiryBucket = "expired"
	ExpiryDanger  ExpiryBucket = "danger"
	ExpiryWarning ExpiryBucket = "warning"
	ExpirySoon    ExpiryBucket = "soon"
	ExpiryOK      ExpiryBucket = "ok"
)

// EffectiveExpiry resolves the expiry that applies to a signer: the
// per-signer override when present, otherwise the LOI's master expiry.
// Evaluated fresh on every call because the master expiry can change after
// signers are created and the override must always win.
func EffectiveExpiry(signer *Signer, loi *LOI) *time.Time {
	if signer.ExpiresAtOverride != nil {
		return signer.ExpiresAtOverride
	}
	return loi.MasterExpiresAt
}

// DaysRemaining counts calendar days from now until expiry. Both timestamps
// are truncated to midnight before differencing and the result is rounded
// up, so 23:59 today and 00:01 today both count as 0 days remaining.
// Returns nil when no expiry is set.
func DaysRemaining(now time.Time, expiry *time.Time) *int {
	if expiry == nil {
		return nil
	}
	nowMidnight := truncateToMidnight(now)
	expiryMidnight := truncateToMidnight(*expiry)
	days := int(math.Ceil(expiryMidnight.Sub(nowMidnight).Hours() / 24))
	return &days
}

func truncateToMidnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ClassifyExpiry buckets a remaining-day count by urgency. An expired status
// or a negative day count classifies as expired regardless of the other
// argument; a nil day count (no expiry set) classifies as ok.
func ClassifyExpiry(days *int, status SignerStatus) ExpiryBucket {
	if status == SignerStatusExpired {
		return ExpiryExpired
	}
	if days == nil {
		return ExpiryOK
	}
	switch {
	case *days < 0:
		return ExpiryExpired
	case *days <= 7:
		return ExpiryDanger
	case *days <= 14:
		return ExpiryWarning
	case *days <= 30:
		return ExpirySoon
	default:
		return ExpiryOK
	}
}
