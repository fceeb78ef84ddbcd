package usecase

import "errors"

var (
	ErrProposalNotFound     = errors.New("proposal not found")
	ErrInvalidProposalID    = errors.New("invalid proposal id")
	ErrProposalNotEditable  = errors.New("proposal is not editable")
	ErrProposalNotDeletable = errors.New("proposal cannot be deleted in its current status")
	ErrInvalidDraft         = errors.New("invalid proposal draft")

	ErrInvalidSignatureImage = errors.New("invalid signature image")

	// ErrTokenInvalid deliberately covers unknown, malformed and expired
	// tokens alike so callers cannot enumerate.
	ErrTokenInvalid         = errors.New("link expired or invalid")
	ErrTokenAlreadyConsumed = errors.New("token already consumed")

	// ErrTokenGenerationExhausted means the random source keeps producing
	// tokens already in use; treat it as a configuration fault.
	ErrTokenGenerationExhausted = errors.New("token generation exhausted")

	ErrConcurrentModification = errors.New("proposal modified concurrently")
	ErrStoreUnavailable       = errors.New("store unavailable")
)
