package response

import (
	"testing"
	"time"

	"propostas_service/internal/domain/entities"
	"propostas_service/internal/usecase"
)

func TestFromHistory(t *testing.T) {
	now := time.Now().UTC()
	events := []entities.AuditEvent{
		{ID: "e-1", ProposalID: "p-1", Kind: entities.AuditEventSent, Actor: entities.UserActor("staff-1"), FromStatus: entities.ProposalStatusRascunho, ToStatus: entities.ProposalStatusEnviada, Timestamp: now},
		{ID: "e-2", ProposalID: "p-1", Kind: entities.AuditEventViewed, Actor: entities.ClientActor("203.0.113.7", "Mozilla/5.0"), Timestamp: now},
	}

	res := FromHistory("p-1", events)
	if res.ProposalID != "p-1" || len(res.Events) != 2 {
		t.Fatalf("unexpected history: %+v", res)
	}
	if res.Events[0].ActorID != "staff-1" || res.Events[0].ToStatus != "ENVIADA" {
		t.Fatalf("unexpected first event: %+v", res.Events[0])
	}
	if res.Events[1].IP != "203.0.113.7" || res.Events[1].ActorType != "client" {
		t.Fatalf("unexpected second event: %+v", res.Events[1])
	}

	if empty := FromHistory("p-2", nil); empty.Events == nil {
		t.Fatalf("events must serialize as an empty list")
	}
}

func TestFromSignResult(t *testing.T) {
	now := time.Now().UTC()
	res := FromSignResult(usecase.SignResult{
		Proposal:      entities.Proposal{ID: "p-1", Number: 7, Status: entities.ProposalStatusAssinada},
		Signature:     entities.Signature{SignerName: "Jane Doe", Method: entities.SignatureMethodTyped, SignedAt: now},
		AlreadySigned: true,
	})
	if res.ProposalID != "p-1" || res.Number != 7 || res.Status != "ASSINADA" {
		t.Fatalf("unexpected ids: %+v", res)
	}
	if res.SignerName != "Jane Doe" || res.Method != "typed" || !res.SignedAt.Equal(now) || !res.AlreadySigned {
		t.Fatalf("unexpected signature: %+v", res)
	}
}
