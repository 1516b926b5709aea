package domain

import "testing"

func TestNormalizeLOIStatus(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want LOIStatus
	}{
		{name: "canonical draft", raw: "draft", want: LOIStatusDraft},
		{name: "canonical sent", raw: "sent", want: LOIStatusSent},
		{name: "canonical signed", raw: "signed", want: LOIStatusSigned},
		{name: "canonical expired", raw: "expired", want: LOIStatusExpired},
		{name: "canonical cancelled", raw: "cancelled", want: LOIStatusCancelled},
		{name: "uppercase input", raw: "SENT", want: LOIStatusSent},
		{name: "mixed case with whitespace", raw: "  Signed ", want: LOIStatusSigned},
		{name: "legacy canceled", raw: "canceled", want: LOIStatusCancelled},
		{name: "legacy canceled uppercase", raw: "CANCELED", want: LOIStatusCancelled},
		{name: "legacy rejected", raw: "rejected", want: LOIStatusCancelled},
		{name: "unknown defaults to draft", raw: "bogus", want: LOIStatusDraft},
		{name: "empty defaults to draft", raw: "", want: LOIStatusDraft},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeLOIStatus(tt.raw); got != tt.want {
				t.Fatalf("NormalizeLOIStatus(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestLOIStatusLabelFallback(t *testing.T) {
	if got := LOIStatusSent.Label(); got != "Sent" {
		t.Fatalf("expected label Sent, got %q", got)
	}
	// The raw type admits arbitrary strings; lookups fall back to draft.
	if got := LOIStatus("garbage").Label(); got != "Draft" {
		t.Fatalf("expected draft fallback label, got %q", got)
	}
	if got := LOIStatus("garbage").ColorClass(); got != LOIStatusDraft.ColorClass() {
		t.Fatalf("expected draft fallback color, got %q", got)
	}
}

func TestSignerStatusTerminal(t *testing.T) {
	tests := []struct {
		status   SignerStatus
		terminal bool
	}{
		{SignerStatusInvited, false},
		{SignerStatusAccepted, false},
		{SignerStatusSigned, false},
		{SignerStatusExpired, true},
		{SignerStatusRevoked, true},
	}

	for _, tt := range tests {
		if got := tt.status.IsTerminal(); got != tt.terminal {
			t.Fatalf("IsTerminal(%q) = %v, want %v", tt.status, got, tt.terminal)
		}
	}
}

func TestSignerStatusLabelFallback(t *testing.T) {
	if got := SignerStatus("garbage").Label(); got != "Invited" {
		t.Fatalf("expected invited fallback label, got %q", got)
	}
}
