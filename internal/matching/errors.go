package matching

import (
	"errors"
	"fmt"
	"math"
)

// Kind classifies a matching failure so callers can branch on it.
type Kind int

const (
	KindNone Kind = iota
	KindIncompleteProfile
	KindProfileNotFound
	KindSelfMatch
	KindGenderMismatch
	KindAgeMismatch
	KindNoEligibleCandidates
	KindNoHighConfidenceMatches
	KindStorage
	KindGeneral
)

var kindNames = map[Kind]string{
	KindNone:                    "None",
	KindIncompleteProfile:       "IncompleteProfile",
	KindProfileNotFound:         "ProfileNotFound",
	KindSelfMatch:               "SelfMatch",
	KindGenderMismatch:          "GenderMismatch",
	KindAgeMismatch:             "AgeMismatch",
	KindNoEligibleCandidates:    "NoEligibleCandidates",
	KindNoHighConfidenceMatches: "NoHighConfidenceMatches",
	KindStorage:                 "StorageError",
	KindGeneral:                 "GeneralError",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

var defaultMessages = map[Kind]string{
	KindIncompleteProfile:       "Please complete your personality analysis first",
	KindProfileNotFound:         "No registered user found with this CUPID ID",
	KindSelfMatch:               "Cannot check compatibility with your own profile",
	KindGenderMismatch:          "This profile does not match your gender preferences",
	KindAgeMismatch:             "This profile does not match your age preferences",
	KindNoEligibleCandidates:    "No valid profiles found matching your preferences",
	KindNoHighConfidenceMatches: "No high-confidence matches found. Would you like to see profiles with lower compatibility scores?",
	KindStorage:                 "Failed to access profile storage",
	KindGeneral:                 "Failed to find compatible matches",
}

const (
	msgTargetIncomplete = "Target profile is incomplete"
	msgNoOtherUsers     = "No other registered users found in the system"
	msgNoCompatible     = "No compatible matches found matching your preferences"
)

// Error is the typed failure returned by Service operations.
// Msg overrides the default user-facing message of the kind.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = defaultMessages[e.Kind]
	}
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Err != nil && (e.Kind == KindStorage || e.Kind == KindGeneral) {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the kind sentinels below, so errors.Is(err, ErrAgeMismatch)
// holds for any *Error of that kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Msg == "" && t.Err == nil && t.Kind == e.Kind
}

var (
	ErrIncompleteProfile       = &Error{Kind: KindIncompleteProfile}
	ErrProfileNotFound         = &Error{Kind: KindProfileNotFound}
	ErrSelfMatch               = &Error{Kind: KindSelfMatch}
	ErrGenderMismatch          = &Error{Kind: KindGenderMismatch}
	ErrAgeMismatch             = &Error{Kind: KindAgeMismatch}
	ErrNoEligibleCandidates    = &Error{Kind: KindNoEligibleCandidates}
	ErrNoHighConfidenceMatches = &Error{Kind: KindNoHighConfidenceMatches}
	ErrStorage                 = &Error{Kind: KindStorage}
	ErrGeneral                 = &Error{Kind: KindGeneral}
)

// KindOf returns the kind carried by err. Untyped errors are KindGeneral,
// a nil error is KindNone.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	var me *Error
	if errors.As(err, &me) {
		return me.Kind
	}
	return KindGeneral
}

func newError(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

func lowConfidenceMessage(threshold float64) string {
	return fmt.Sprintf("No matches found with %d%%+ compatibility. Would you like to see profiles with lower compatibility scores?",
		int(math.Round(threshold*100)))
}
