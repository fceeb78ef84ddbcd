package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"propostas_service/internal/domain/entities"
	"propostas_service/internal/domain/lifecycle"
	"propostas_service/internal/usecase/interfaces"
)

const (
	DefaultReconcileOlderThan = 5 * time.Minute
	DefaultTokenCleanupGrace  = 7 * 24 * time.Hour

	cleanupBatchSize = 100
)

// ReconcileReport summarizes one pass over pending audit events.
type ReconcileReport struct {
	Scanned    int
	Committed  int
	RolledBack int
	Failed     int
}

// IReconcilerUseCase repairs what the compensating commit path may leave
// behind and clears long-dead token values.
type IReconcilerUseCase interface {
	ReconcilePending(ctx context.Context, olderThan time.Duration) (ReconcileReport, error)
	CleanupExpiredTokens(ctx context.Context, grace time.Duration) (int, error)
}

type ReconcilerUseCase struct {
	repo  interfaces.IProposalRepository
	audit interfaces.IAuditRepository
	now   func() time.Time
}

var _ IReconcilerUseCase = (*ReconcilerUseCase)(nil)

func NewReconcilerUseCase(repo interfaces.IProposalRepository, audit interfaces.IAuditRepository) *ReconcilerUseCase {
	return &ReconcilerUseCase{repo: repo, audit: audit, now: func() time.Time { return time.Now().UTC() }}
}

// ReconcilePending finalizes pending events older than olderThan. An event
// counts as applied when the stored proposal carries its version (or a
// later one reachable from its target status); otherwise it is rolled back.
func (u *ReconcilerUseCase) ReconcilePending(ctx context.Context, olderThan time.Duration) (ReconcileReport, error) {
	if olderThan <= 0 {
		olderThan = DefaultReconcileOlderThan
	}
	var report ReconcileReport

	var pending []entities.AuditEvent
	err := withStoreRetry(ctx, "audit-list-pending", func() error {
		var err error
		pending, err = u.audit.ListPending(ctx, u.now().Add(-olderThan))
		return err
	})
	if err != nil {
		return report, err
	}

	for _, e := range pending {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Scanned++

		var p entities.Proposal
		err := withStoreRetry(ctx, "get-by-id", func() error {
			var err error
			p, err = u.repo.GetByID(ctx, e.ProposalID)
			return err
		})
		if err != nil {
			log.Printf("[audit][reconciler] load failed event_id=%s proposal_id=%s err=%v", e.ID, e.ProposalID, err)
			report.Failed++
			continue
		}

		state := entities.AuditEventStateRolledBack
		if eventApplied(e, p) {
			state = entities.AuditEventStateCommitted
		}
		if err := withStoreRetry(ctx, "audit-set-state", func() error { return u.audit.SetState(ctx, e, state) }); err != nil {
			log.Printf("[audit][reconciler] finalize failed event_id=%s state=%s err=%v", e.ID, state, err)
			report.Failed++
			continue
		}
		if state == entities.AuditEventStateCommitted {
			report.Committed++
		} else {
			report.RolledBack++
		}
		log.Printf("[audit][reconciler] event finalized event_id=%s proposal_id=%s kind=%s state=%s", e.ID, e.ProposalID, e.Kind, state)
	}
	return report, nil
}

func eventApplied(e entities.AuditEvent, p entities.Proposal) bool {
	if p.ID == "" {
		return false
	}
	version, ok := detailInt(e.Detail, "version")
	if !ok {
		// Without a version only the status can tell.
		return p.Status == e.ToStatus
	}
	switch {
	case p.Version < version:
		return false
	case p.Version == version:
		return p.Status == e.ToStatus
	default:
		return lifecycle.Reachable(e.ToStatus, p.Status)
	}
}

func detailInt(detail map[string]any, key string) (int64, bool) {
	switch v := detail[key].(type) {
	case int:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		return int64(v), true
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	}
	return 0, false
}

// CleanupExpiredTokens clears token values that expired more than grace ago.
// The expiry is kept so the proposal still reads as once sent.
func (u *ReconcilerUseCase) CleanupExpiredTokens(ctx context.Context, grace time.Duration) (int, error) {
	if grace <= 0 {
		grace = DefaultTokenCleanupGrace
	}
	before := u.now().Add(-grace)
	cleared := 0

	for {
		var batch []entities.Proposal
		err := withStoreRetry(ctx, "list-expired-tokens", func() error {
			var err error
			batch, err = u.repo.ListWithTokenExpiredBefore(ctx, before, cleanupBatchSize)
			return err
		})
		if err != nil {
			return cleared, err
		}

		progress := 0
		for _, p := range batch {
			if p.AccessToken == "" {
				continue
			}
			next := p.Clone()
			next.AccessToken = ""
			next.UpdatedAt = u.now()
			next.Version = p.Version + 1
			_, err := swap(ctx, u.repo, next, interfaces.SwapCondition{Status: p.Status, Version: p.Version, Token: p.AccessToken})
			if errors.Is(err, interfaces.ErrPreconditionFailed) {
				continue
			}
			if err != nil {
				return cleared, err
			}
			progress++
		}
		cleared += progress

		if len(batch) < cleanupBatchSize || progress == 0 {
			break
		}
	}
	if cleared > 0 {
		log.Printf("[proposal][reconciler] expired tokens cleared count=%d before=%s", cleared, before.Format(time.RFC3339))
	}
	return cleared, nil
}
