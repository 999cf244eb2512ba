package matching

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorKinds(t *testing.T) {
	cause := errors.New("connection refused")

	tests := []struct {
		name     string
		err      error
		kind     Kind
		sentinel error
		message  string
	}{
		{
			name:     "incomplete",
			err:      newError(KindIncompleteProfile, "", nil),
			kind:     KindIncompleteProfile,
			sentinel: ErrIncompleteProfile,
			message:  "Please complete your personality analysis first",
		},
		{
			name:     "incomplete target overrides message",
			err:      newError(KindIncompleteProfile, msgTargetIncomplete, nil),
			kind:     KindIncompleteProfile,
			sentinel: ErrIncompleteProfile,
			message:  "Target profile is incomplete",
		},
		{
			name:     "storage keeps cause",
			err:      newError(KindStorage, "", cause),
			kind:     KindStorage,
			sentinel: ErrStorage,
			message:  "Failed to access profile storage: connection refused",
		},
		{
			name:     "wrapped by caller",
			err:      fmt.Errorf("lookup: %w", newError(KindAgeMismatch, "", nil)),
			kind:     KindAgeMismatch,
			sentinel: ErrAgeMismatch,
			message:  "lookup: This profile does not match your age preferences",
		},
		{
			name:     "low confidence",
			err:      newError(KindNoHighConfidenceMatches, lowConfidenceMessage(0.75), nil),
			kind:     KindNoHighConfidenceMatches,
			sentinel: ErrNoHighConfidenceMatches,
			message:  "No matches found with 75%+ compatibility. Would you like to see profiles with lower compatibility scores?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.kind {
				t.Fatalf("expected kind %s, got %s", tt.kind, got)
			}
			if !errors.Is(tt.err, tt.sentinel) {
				t.Fatalf("expected errors.Is to match sentinel %v", tt.sentinel)
			}
			if errors.Is(tt.err, ErrGeneral) {
				t.Fatalf("did not expect to match a different kind")
			}
			if tt.err.Error() != tt.message {
				t.Fatalf("expected message %q, got %q", tt.message, tt.err.Error())
			}
		})
	}

	wrapped := newError(KindGeneral, "", cause)
	if !errors.Is(wrapped, cause) {
		t.Fatal("expected general error to unwrap to its cause")
	}
}

func TestKindOf(t *testing.T) {
	if KindOf(nil) != KindNone {
		t.Fatal("expected KindNone for nil")
	}
	if KindOf(errors.New("plain")) != KindGeneral {
		t.Fatal("expected plain errors to be general")
	}
	if !strings.Contains(Kind(99).String(), "99") {
		t.Fatalf("unexpected unknown kind name: %s", Kind(99))
	}
	if KindStorage.String() != "StorageError" {
		t.Fatalf("unexpected storage kind name: %s", KindStorage)
	}
}
