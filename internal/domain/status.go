package domain

import "strings"

// LOIStatus is the document-level lifecycle status of a letter of intent.
type LOIStatus string

const (
	LOIStatusDraft     LOIStatus = "draft"
	LOIStatusSent      LOIStatus = "sent"
	LOIStatusSigned    LOIStatus = "signed"
	LOIStatusExpired   LOIStatus = "expired"
	LOIStatusCancelled LOIStatus = "cancelled"
)

// SignerStatus is the per-investor signature lifecycle status. It shares two
// label strings with LOIStatus but the lifecycles are orthogonal, so the two
// enums are kept separate.
type SignerStatus string

const (
	SignerStatusInvited  SignerStatus = "invited"
	SignerStatusAccepted SignerStatus = "accepted"
	SignerStatusSigned   SignerStatus = "signed"
	SignerStatusExpired  SignerStatus = "expired"
	SignerStatusRevoked  SignerStatus = "revoked"
)

// loiStatusSynonyms maps legacy status spellings onto the canonical enum.
var loiStatusSynonyms = map[string]LOIStatus{
	"canceled": LOIStatusCancelled,
	"rejected": LOIStatusCancelled,
}

// NormalizeLOIStatus maps any case-insensitive input, including legacy
// synonyms, to the canonical LOI status. Unrecognized or empty input
// normalizes to draft. The default-to-draft policy is deliberate: imported
// rows with unknown statuses re-enter the pipeline at the start rather than
// being dropped.
func NormalizeLOIStatus(raw string) LOIStatus {
	s := strings.ToLower(strings.TrimSpace(raw))
	if canonical, ok := loiStatusSynonyms[s]; ok {
		return canonical
	}
	switch LOIStatus(s) {
	case LOIStatusDraft, LOIStatusSent, LOIStatusSigned, LOIStatusExpired, LOIStatusCancelled:
		return LOIStatus(s)
	}
	return LOIStatusDraft
}

// IsTerminal reports whether the signer status never transitions again.
func (s SignerStatus) IsTerminal() bool {
	return s == SignerStatusRevoked || s == SignerStatusExpired
}

// Valid reports whether s is a member of the closed signer status set.
func (s SignerStatus) Valid() bool {
	switch s {
	case SignerStatusInvited, SignerStatusAccepted, SignerStatusSigned, SignerStatusExpired, SignerStatusRevoked:
		return true
	}
	return false
}

var loiStatusLabels = map[LOIStatus]string{
	LOIStatusDraft:     "Draft",
	LOIStatusSent:      "Sent",
	LOIStatusSigned:    "Signed",
	LOIStatusExpired:   "Expired",
	LOIStatusCancelled: "Cancelled",
}

var loiStatusColors = map[LOIStatus]string{
	LOIStatusDraft:     "badge-gray",
	LOIStatusSent:      "badge-blue",
	LOIStatusSigned:    "badge-green",
	LOIStatusExpired:   "badge-red",
	LOIStatusCancelled: "badge-gray",
}

// Label returns the display label for the status. The underlying type allows
// arbitrary strings, so values outside the enum fall back to the draft label.
func (s LOIStatus) Label() string {
	if label, ok := loiStatusLabels[s]; ok {
		return label
	}
	return loiStatusLabels[LOIStatusDraft]
}

// ColorClass returns the badge color class for the status, with the same
// draft fallback as Label.
func (s LOIStatus) ColorClass() string {
	if color, ok := loiStatusColors[s]; ok {
		return color
	}
	return loiStatusColors[LOIStatusDraft]
}

var signerStatusLabels = map[SignerStatus]string{
	SignerStatusInvited:  "Invited",
	SignerStatusAccepted: "Accepted",
	SignerStatusSigned:   "Signed",
	SignerStatusExpired:  "Expired",
	SignerStatusRevoked:  "Revoked",
}

var signerStatusColors = map[SignerStatus]string{
	SignerStatusInvited:  "badge-gray",
	SignerStatusAccepted: "badge-blue",
	SignerStatusSigned:   "badge-green",
	SignerStatusExpired:  "badge-red",
	SignerStatusRevoked:  "badge-gray",
}

// Label returns the display label for the signer status.
func (s SignerStatus) Label() string {
	if label, ok := signerStatusLabels[s]; ok {
		return label
	}
	return signerStatusLabels[SignerStatusInvited]
}

// ColorClass returns the badge color class for the signer status.
func (s SignerStatus) ColorClass() string {
	if color, ok := signerStatusColors[s]; ok {
		return color
	}
	return signerStatusColors[SignerStatusInvited]
}
