package interfaces

import (
	"context"
	"errors"
	"time"

	"propostas_service/internal/domain/entities"
)

// ErrPreconditionFailed is returned when a compare-and-swap update matched
// zero rows: the stored proposal no longer has the expected status, version
// or token. Callers must re-fetch and re-evaluate.
var ErrPreconditionFailed = errors.New("precondition failed")

// SwapCondition is the prior state a write is conditioned on.
type SwapCondition struct {
	Status  entities.ProposalStatus
	Version int64
	// Token, when set, must equal the stored access token.
	Token string
}

// IProposalRepository abstracts persistence for Proposal.
//
// Missing rows are reported as a zero-value Proposal and a nil error.
// CompareAndSwap writes next, whose Version the caller has already advanced,
// only when the stored row still matches cond and is not soft-deleted.
type IProposalRepository interface {
	NextNumber(ctx context.Context) (int64, error)
	Create(ctx context.Context, p entities.Proposal) (entities.Proposal, error)
	GetByID(ctx context.Context, id string) (entities.Proposal, error)
	GetByToken(ctx context.Context, token string) (entities.Proposal, error)
	CompareAndSwap(ctx context.Context, next entities.Proposal, cond SwapCondition) (entities.Proposal, error)
	ListWithTokenExpiredBefore(ctx context.Context, before time.Time, limit int) ([]entities.Proposal, error)
}

// IAtomicProposalRepository is implemented by stores able to commit the
// proposal write and the audit insert in one transaction.
type IAtomicProposalRepository interface {
	IProposalRepository
	CompareAndSwapWithEvent(ctx context.Context, next entities.Proposal, cond SwapCondition, event entities.AuditEvent) (entities.Proposal, error)
}
