package handlers

import (
	"errors"
	"net/http"

	"propostas_service/internal/domain/lifecycle"
	"propostas_service/internal/usecase"
	"propostas_service/pkg"
)

var (
	errInvalidProposalPayload  = pkg.NewDomainErrorSimple("INVALID_PROPOSAL_INPUT", "Invalid proposal payload", http.StatusBadRequest)
	errInvalidSignaturePayload = pkg.NewDomainErrorSimple("INVALID_SIGNATURE_INPUT", "Invalid signature payload", http.StatusBadRequest)
)

func mapProposalError(err error) *pkg.AppError {
	var (
		transitionErr *lifecycle.TransitionError
		validationErr *lifecycle.ValidationError
	)
	switch {
	case errors.As(err, &validationErr):
		return pkg.NewDomainErrorSimple("VALIDATION_FAILED", "Required fields are missing or invalid", http.StatusUnprocessableEntity).
			WithDetails(map[string]any{"missing": validationErr.Missing})
	case errors.As(err, &transitionErr):
		return pkg.NewDomainErrorSimple("INVALID_TRANSITION", "Proposal cannot move to the requested status", http.StatusConflict).
			WithDetails(map[string]any{"current": string(transitionErr.From), "requested": string(transitionErr.Requested)})
	case errors.Is(err, usecase.ErrTokenInvalid):
		return pkg.NewDomainErrorSimple("TOKEN_INVALID", "link expired or invalid", http.StatusGone)
	case errors.Is(err, usecase.ErrTokenAlreadyConsumed):
		return pkg.NewDomainErrorSimple("TOKEN_ALREADY_CONSUMED", "Proposal was already signed", http.StatusConflict)
	case errors.Is(err, usecase.ErrConcurrentModification):
		return pkg.NewDomainErrorSimple("CONCURRENT_MODIFICATION", "Proposal was changed by another request, retry", http.StatusConflict)
	case errors.Is(err, usecase.ErrProposalNotEditable):
		return pkg.NewDomainErrorSimple("PROPOSAL_NOT_EDITABLE", "Only draft proposals can be edited", http.StatusConflict)
	case errors.Is(err, usecase.ErrProposalNotDeletable):
		return pkg.NewDomainErrorSimple("PROPOSAL_NOT_DELETABLE", "Only draft or cancelled proposals can be deleted", http.StatusConflict)
	case errors.Is(err, usecase.ErrProposalNotFound):
		return pkg.NewDomainErrorSimple("PROPOSAL_NOT_FOUND", "Proposal not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrInvalidProposalID), errors.Is(err, usecase.ErrInvalidDraft):
		return pkg.NewDomainError("INVALID_REQUEST", "Invalid request", err, http.StatusBadRequest)
	case errors.Is(err, usecase.ErrInvalidSignatureImage):
		return pkg.NewDomainError("INVALID_SIGNATURE_IMAGE", "Signature image must be a PNG or JPEG data URL up to 512 KiB", err, http.StatusBadRequest)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
