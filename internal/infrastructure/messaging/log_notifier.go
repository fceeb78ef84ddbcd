package messaging

import (
	"context"
	"log"

	"propostas_service/internal/domain/entities"
	"propostas_service/internal/usecase/interfaces"
)

// LogNotifier only logs; used for local runs.
type LogNotifier struct {
	publicBaseURL string
}

var _ interfaces.INotifier = (*LogNotifier)(nil)

func NewLogNotifier(publicBaseURL string) *LogNotifier {
	return &LogNotifier{publicBaseURL: publicBaseURL}
}

func (n *LogNotifier) Notify(ctx context.Context, kind entities.AuditEventKind, p entities.Proposal, recipient string) error {
	m := NewMessage(kind, p, recipient, n.publicBaseURL)
	log.Printf("[notify][log] event=%s proposal_id=%s number=%d recipient=%s has_link=%t", m.Event, m.ProposalID, m.Number, m.Recipient, m.Link != "")
	return nil
}
