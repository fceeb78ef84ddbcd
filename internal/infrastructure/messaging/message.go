package messaging

import (
	"encoding/json"
	"time"

	"propostas_service/internal/domain/entities"
)

// Message is the payload handed to the notification transport. It never
// carries internal cost fields.
type Message struct {
	Event      entities.AuditEventKind `json:"event"`
	ProposalID string                  `json:"proposal_id"`
	Number     int64                   `json:"number"`
	Title      string                  `json:"title"`
	ClientName string                  `json:"client_name"`
	Status     string                  `json:"status"`
	Recipient  string                  `json:"recipient"`
	Link       string                  `json:"link,omitempty"`
	ExpiresAt  *time.Time              `json:"expires_at,omitempty"`
	OccurredAt time.Time               `json:"occurred_at"`
}

// NewMessage builds the payload. The public link is only included for
// events that invite the client to act on it.
func NewMessage(kind entities.AuditEventKind, p entities.Proposal, recipient, publicBaseURL string) Message {
	m := Message{
		Event:      kind,
		ProposalID: p.ID,
		Number:     p.Number,
		Title:      p.Title,
		ClientName: p.ClientName,
		Status:     string(p.Status),
		Recipient:  recipient,
		OccurredAt: time.Now().UTC(),
	}
	if (kind == entities.AuditEventSent || kind == entities.AuditEventReminded) && p.AccessToken != "" {
		m.Link = PublicLink(publicBaseURL, p.AccessToken)
		m.ExpiresAt = p.TokenExpiresAt
	}
	return m
}

func PublicLink(baseURL, token string) string {
	return baseURL + "/v1/public/propostas/" + token
}

func (m Message) Encode() ([]byte, error) {
	return json.Marshal(m)
}
