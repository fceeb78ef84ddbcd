package lifecycle

import (
	"errors"
	"fmt"
	"strings"

	"propostas_service/internal/domain/entities"
)

var (
	ErrInvalidTransition = errors.New("invalid transition")
	ErrValidationFailed  = errors.New("validation failed")
)

// TransitionError names the current state and the state the caller asked for.
type TransitionError struct {
	From      entities.ProposalStatus
	Requested entities.ProposalStatus
	Action    Action
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid transition: cannot %s proposal in status %s (requested %s)", e.Action, e.From, e.Requested)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// ValidationError lists the fields a guard found missing or malformed.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "validation failed: missing or invalid " + strings.Join(e.Missing, ", ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

// fieldCollector accumulates guard failures in declaration order.
type fieldCollector []string

func (c *fieldCollector) require(ok bool, field string) {
	if !ok {
		*c = append(*c, field)
	}
}

func (c fieldCollector) err() error {
	if len(c) == 0 {
		return nil
	}
	return &ValidationError{Missing: []string(c)}
}
