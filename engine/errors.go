/*
errors.go - Centralized error and rejection types for the engine

PURPOSE:
  All error types in one place. Two distinct failure families exist and
  they never mix:

  1. Rejection - a submission failed validation. This is a domain outcome,
     surfaced as ActivityResult{Success:false}, never as a Go error.
  2. Configuration error - unknown activity type or malformed catalog
     entry. Fatal at startup; the engine refuses to construct.

  Collaborator failures (a ProgressStore save) are a third family owned by
  the caller: the engine logs and keeps its in-memory state authoritative.

SEE ALSO:
  - validator.go: Produces RejectionReason values
  - catalog/: Produces configuration errors at load time
*/
package engine

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNoStore is returned by New when no ProgressStore is supplied.
	ErrNoStore = errors.New("engine requires a progress store")

	// ErrNoCurve is returned by New when no leveling curve is supplied.
	ErrNoCurve = errors.New("engine requires a leveling curve")

	// ErrEmptyCatalog is returned by New when the reward catalog is empty.
	ErrEmptyCatalog = errors.New("reward catalog must not be empty")
)

// UnknownActivityTypeError marks a value outside the closed enumeration.
// This is a configuration/caller error, not a runtime validation outcome.
type UnknownActivityTypeError struct {
	Value string
}

func (e *UnknownActivityTypeError) Error() string {
	return fmt.Sprintf("unknown activity type: %q", e.Value)
}

// =============================================================================
// REJECTION REASONS - Domain outcomes, not errors
// =============================================================================

type RejectionReason string

const (
	RejectNone        RejectionReason = ""
	RejectImplausible RejectionReason = "implausible_payload"
	RejectBurstLimit  RejectionReason = "burst_limit"
	RejectRetroQuota  RejectionReason = "retroactive_quota"
)

// Message returns the caller-facing text for a rejection. The text is
// intentionally generic: validation internals are not leaked to clients.
func (r RejectionReason) Message() string {
	switch r {
	case RejectNone:
		return ""
	default:
		return "activity rejected"
	}
}
