package response

import (
	"time"

	"propostas_service/internal/domain/entities"
)

type AuditEventResponse struct {
	ID         string         `json:"id"`
	ProposalID string         `json:"proposal_id"`
	Kind       string         `json:"kind"`
	ActorType  string         `json:"actor_type"`
	ActorID    string         `json:"actor_id,omitempty"`
	IP         string         `json:"ip,omitempty"`
	UserAgent  string         `json:"user_agent,omitempty"`
	FromStatus string         `json:"from_status,omitempty"`
	ToStatus   string         `json:"to_status,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
	Detail     map[string]any `json:"detail,omitempty"`
}

func FromAuditEvent(e entities.AuditEvent) AuditEventResponse {
	return AuditEventResponse{
		ID:         e.ID,
		ProposalID: e.ProposalID,
		Kind:       string(e.Kind),
		ActorType:  string(e.Actor.Type),
		ActorID:    e.Actor.UserID,
		IP:         e.Actor.IP,
		UserAgent:  e.Actor.UserAgent,
		FromStatus: string(e.FromStatus),
		ToStatus:   string(e.ToStatus),
		Timestamp:  e.Timestamp,
		Detail:     e.Detail,
	}
}

type HistoryResponse struct {
	ProposalID string               `json:"proposal_id"`
	Events     []AuditEventResponse `json:"events"`
}

func FromHistory(proposalID string, events []entities.AuditEvent) HistoryResponse {
	out := HistoryResponse{ProposalID: proposalID, Events: make([]AuditEventResponse, 0, len(events))}
	for _, e := range events {
		out.Events = append(out.Events, FromAuditEvent(e))
	}
	return out
}
