package interfaces

import (
	"context"

	"propostas_service/internal/domain/entities"
)

// INotifier abstracts the notification transport (email relay, queue).
// Callers treat it as fire-and-forget.
type INotifier interface {
	Notify(ctx context.Context, kind entities.AuditEventKind, p entities.Proposal, recipient string) error
}
