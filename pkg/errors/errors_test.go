package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestInvalidStateMessageNamesOperationAndStatus(t *testing.T) {
	err := InvalidState("sign", "revoked")
	if !IsInvalidState(err) {
		t.Fatalf("expected InvalidState predicate to match")
	}
	msg := err.Error()
	if !strings.Contains(msg, "sign") || !strings.Contains(msg, "revoked") {
		t.Fatalf("message must name the operation and current status, got %q", msg)
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{name: "not found", err: NotFound("signer not found"), want: ErrCodeNotFound},
		{name: "validation", err: Validation("bad amount"), want: ErrCodeValidation},
		{name: "forbidden", err: Forbidden("no access"), want: ErrCodeForbidden},
		{name: "store", err: Store("write failed", errors.New("disk full")), want: ErrCodeStore},
		{name: "plain error", err: errors.New("boom"), want: ErrCodeInternalError},
		{name: "nil", err: nil, want: ErrCodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Fatalf("CodeOf = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStoreWrapsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Store("failed to update signer", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause to be reachable via errors.Is")
	}
}
