package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"propostas_service/internal/domain/entities"
	"propostas_service/internal/usecase/interfaces"
)

const (
	TransitionModeAtomic       = "atomic"
	TransitionModeCompensating = "compensating"
)

// ITransitionCommitter persists a state change together with its audit
// event. Either both become visible or neither does (atomic mode), or the
// event is left pending for the reconciler (compensating mode).
type ITransitionCommitter interface {
	Commit(ctx context.Context, next entities.Proposal, cond interfaces.SwapCondition, event entities.AuditEvent) (entities.Proposal, error)
}

// NewTransitionCommitter picks the commit strategy for mode.
func NewTransitionCommitter(repo interfaces.IProposalRepository, audit interfaces.IAuditRepository, mode string) (ITransitionCommitter, error) {
	switch mode {
	case "", TransitionModeAtomic:
		atomicRepo, ok := repo.(interfaces.IAtomicProposalRepository)
		if !ok {
			return nil, fmt.Errorf("store %T cannot commit transitions atomically; use %q mode", repo, TransitionModeCompensating)
		}
		return &AtomicCommitter{repo: atomicRepo}, nil
	case TransitionModeCompensating:
		if audit == nil {
			return nil, errors.New("compensating mode requires an audit repository")
		}
		return &CompensatingCommitter{repo: repo, audit: audit}, nil
	}
	return nil, fmt.Errorf("unknown transition mode %q", mode)
}

type AtomicCommitter struct {
	repo interfaces.IAtomicProposalRepository
}

var _ ITransitionCommitter = (*AtomicCommitter)(nil)

func (c *AtomicCommitter) Commit(ctx context.Context, next entities.Proposal, cond interfaces.SwapCondition, event entities.AuditEvent) (entities.Proposal, error) {
	event.State = entities.AuditEventStateCommitted
	var updated entities.Proposal
	attempts := 0
	err := withStoreRetry(ctx, "commit-atomic", func() error {
		attempts++
		var err error
		updated, err = c.repo.CompareAndSwapWithEvent(ctx, next, cond, event)
		return err
	})
	if err == nil || definitelyMissed(attempts, err) {
		return updated, err
	}
	if stored, ok := landed(ctx, c.repo, next); ok {
		log.Printf("[proposal][committer] commit confirmed after lost response proposal_id=%s version=%d", next.ID, next.Version)
		return stored, nil
	}
	return entities.Proposal{}, err
}

// CompensatingCommitter writes the audit event as pending, applies the
// state change, then finalizes the event. A crash between the steps leaves a
// pending event that ReconcilerUseCase resolves.
type CompensatingCommitter struct {
	repo  interfaces.IProposalRepository
	audit interfaces.IAuditRepository
}

var _ ITransitionCommitter = (*CompensatingCommitter)(nil)

func (c *CompensatingCommitter) Commit(ctx context.Context, next entities.Proposal, cond interfaces.SwapCondition, event entities.AuditEvent) (entities.Proposal, error) {
	event.State = entities.AuditEventStatePending
	if err := withStoreRetry(ctx, "audit-pending", func() error { return c.audit.Append(ctx, event) }); err != nil {
		log.Printf("[audit][committer] pending append failed proposal_id=%s kind=%s err=%v", event.ProposalID, event.Kind, err)
		return entities.Proposal{}, err
	}

	var updated entities.Proposal
	attempts := 0
	err := withStoreRetry(ctx, "commit-swap", func() error {
		attempts++
		var err error
		updated, err = c.repo.CompareAndSwap(ctx, next, cond)
		return err
	})
	switch {
	case err == nil:
	case definitelyMissed(attempts, err):
		if rbErr := c.audit.SetState(ctx, event, entities.AuditEventStateRolledBack); rbErr != nil {
			log.Printf("[audit][committer] rollback mark failed event_id=%s err=%v; reconciler will resolve", event.ID, rbErr)
		}
		return entities.Proposal{}, err
	default:
		stored, ok := landed(ctx, c.repo, next)
		if !ok {
			log.Printf("[audit][committer] swap outcome unknown event_id=%s proposal_id=%s err=%v; left pending for the reconciler", event.ID, event.ProposalID, err)
			return entities.Proposal{}, err
		}
		log.Printf("[audit][committer] swap confirmed after lost response event_id=%s proposal_id=%s", event.ID, event.ProposalID)
		updated = stored
	}

	if err := withStoreRetry(ctx, "audit-finalize", func() error {
		return c.audit.SetState(ctx, event, entities.AuditEventStateCommitted)
	}); err != nil {
		// The state change is already visible; the reconciler backfills.
		log.Printf("[audit][committer] finalize failed event_id=%s proposal_id=%s err=%v; transition kept", event.ID, event.ProposalID, err)
	}
	return updated, nil
}

// definitelyMissed reports whether a failed swap is known not to have been
// written. Only a condition failure on the first attempt qualifies: a
// retried attempt may follow one that landed before its response was lost.
func definitelyMissed(attempts int, err error) bool {
	return attempts == 1 && errors.Is(err, interfaces.ErrPreconditionFailed)
}

// landed re-reads the proposal and reports whether it holds exactly next.
func landed(ctx context.Context, repo interfaces.IProposalRepository, next entities.Proposal) (entities.Proposal, bool) {
	var stored entities.Proposal
	err := withStoreRetry(ctx, "commit-confirm", func() error {
		var err error
		stored, err = repo.GetByID(ctx, next.ID)
		return err
	})
	if err != nil {
		log.Printf("[proposal][committer] confirm read failed proposal_id=%s err=%v", next.ID, err)
		return entities.Proposal{}, false
	}
	ok := stored.ID == next.ID &&
		stored.Version == next.Version &&
		stored.Status == next.Status &&
		stored.UpdatedAt.Truncate(time.Microsecond).Equal(next.UpdatedAt.Truncate(time.Microsecond))
	return stored, ok
}
