package interfaces

import (
	"context"

	"propostas_service/internal/domain/entities"
)

// IDocumentRenderer produces a printable representation of a proposal for a
// viewer. It is invoked on demand and never by the state machine.
type IDocumentRenderer interface {
	Render(ctx context.Context, p entities.Proposal, viewer entities.Viewer) (entities.Document, error)
}
