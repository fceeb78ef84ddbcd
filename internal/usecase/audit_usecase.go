package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"propostas_service/internal/domain/entities"
	"propostas_service/internal/usecase/interfaces"

	"github.com/google/uuid"
)

// IAuditUseCase exposes the audit trail.
type IAuditUseCase interface {
	Record(ctx context.Context, e entities.AuditEvent) (entities.AuditEvent, error)
	History(ctx context.Context, proposalID string) ([]entities.AuditEvent, error)
}

type AuditUseCase struct {
	repo interfaces.IAuditRepository
	now  func() time.Time
}

var _ IAuditUseCase = (*AuditUseCase)(nil)

func NewAuditUseCase(repo interfaces.IAuditRepository) *AuditUseCase {
	return &AuditUseCase{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// Record appends e, filling id, timestamp and state when unset.
func (u *AuditUseCase) Record(ctx context.Context, e entities.AuditEvent) (entities.AuditEvent, error) {
	if strings.TrimSpace(e.ProposalID) == "" {
		return entities.AuditEvent{}, ErrInvalidProposalID
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = u.now()
	}
	if e.State == "" {
		e.State = entities.AuditEventStateCommitted
	}
	if err := withStoreRetry(ctx, "audit-append", func() error { return u.repo.Append(ctx, e) }); err != nil {
		return entities.AuditEvent{}, err
	}
	return e, nil
}

// History returns the events of a proposal in ascending timestamp order.
// Rolled back events never happened and are left out.
func (u *AuditUseCase) History(ctx context.Context, proposalID string) ([]entities.AuditEvent, error) {
	proposalID = strings.TrimSpace(proposalID)
	if proposalID == "" {
		return nil, ErrInvalidProposalID
	}

	var events []entities.AuditEvent
	err := withStoreRetry(ctx, "audit-history", func() error {
		var err error
		events, err = u.repo.ListByProposalID(ctx, proposalID)
		return err
	})
	if err != nil {
		return nil, err
	}

	out := make([]entities.AuditEvent, 0, len(events))
	for _, e := range events {
		if e.State == entities.AuditEventStateRolledBack {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

// newAuditEvent describes the move from cur to next. The resulting version
// is kept in the detail so the reconciler can tell whether a pending event
// was applied.
func newAuditEvent(kind entities.AuditEventKind, cur, next entities.Proposal, actor entities.Actor, now time.Time, detail map[string]any) entities.AuditEvent {
	if detail == nil {
		detail = map[string]any{}
	}
	detail["version"] = next.Version
	return entities.AuditEvent{
		ID:         uuid.NewString(),
		ProposalID: cur.ID,
		Kind:       kind,
		Actor:      actor,
		FromStatus: cur.Status,
		ToStatus:   next.Status,
		Timestamp:  now,
		Detail:     detail,
		State:      entities.AuditEventStateCommitted,
	}
}
