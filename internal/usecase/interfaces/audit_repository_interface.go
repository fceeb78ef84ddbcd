package interfaces

import (
	"context"
	"time"

	"propostas_service/internal/domain/entities"
)

// IAuditRepository is append-only. The only permitted mutation is
// SetState moving a pending event to committed or rolled_back.
type IAuditRepository interface {
	Append(ctx context.Context, e entities.AuditEvent) error
	ListByProposalID(ctx context.Context, proposalID string) ([]entities.AuditEvent, error)
	ListPending(ctx context.Context, olderThan time.Time) ([]entities.AuditEvent, error)
	SetState(ctx context.Context, e entities.AuditEvent, state entities.AuditEventState) error
}
