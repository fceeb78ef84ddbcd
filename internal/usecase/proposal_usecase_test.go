package usecase

import (
	"context"
	"errors"
	"testing"

	"propostas_service/internal/domain/entities"
	mock_interfaces "propostas_service/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

func TestProposalUseCase_CreateDraft(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.proposals.CreateDraft(ctx, electricalRewireDraft(), staff)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := env.proposals.CreateDraft(ctx, electricalRewireDraft(), staff)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if first.Status != entities.ProposalStatusRascunho || first.Version != 1 {
		t.Fatalf("unexpected initial state %s v%d", first.Status, first.Version)
	}
	if second.Number <= first.Number {
		t.Fatalf("numbers must increase: %d then %d", first.Number, second.Number)
	}
	if first.CreatedBy != "staff-1" {
		t.Fatalf("expected created_by staff-1, got %q", first.CreatedBy)
	}
	if first.AccessToken != "" || first.TokenExpiresAt != nil {
		t.Fatalf("a draft carries no token")
	}
	stage := first.Stages[0]
	if stage.ID == "" || stage.Order != 1 || stage.Status != entities.StageStatusPendente {
		t.Fatalf("stage defaults not applied: %+v", stage)
	}
	if m := first.Materials[0]; m.EstimatedCost != 900 {
		t.Fatalf("expected material cost 900, got %v", m.EstimatedCost)
	}
}

func TestProposalUseCase_CreateDraftValidation(t *testing.T) {
	env := newTestEnv(t)
	cases := map[string]func(*DraftInput){
		"negative price":     func(in *DraftInput) { in.Price = -1 },
		"untitled stage":     func(in *DraftInput) { in.Stages[0].Title = "  " },
		"unknown stage":      func(in *DraftInput) { in.Stages[0].Status = "paused" },
		"nameless material":  func(in *DraftInput) { in.Materials[0].Name = "" },
		"negative unit cost": func(in *DraftInput) { in.Materials[0].UnitCost = -5 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := electricalRewireDraft()
			mutate(&in)
			if _, err := env.proposals.CreateDraft(context.Background(), in, staff); !errors.Is(err, ErrInvalidDraft) {
				t.Fatalf("expected ErrInvalidDraft, got %v", err)
			}
		})
	}
}

func TestProposalUseCase_UpdateDraft(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	draft, err := env.proposals.CreateDraft(ctx, electricalRewireDraft(), staff)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	in := electricalRewireDraft()
	in.Price = 5200
	in.Title = "  Electrical rewire and lighting  "
	updated, err := env.proposals.UpdateDraft(ctx, draft.ID, in, staff)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Price != 5200 || updated.Title != "Electrical rewire and lighting" {
		t.Fatalf("update not applied: %+v", updated)
	}
	if updated.Version != draft.Version+1 || updated.Number != draft.Number {
		t.Fatalf("expected version bump and stable number, got v%d n%d", updated.Version, updated.Number)
	}

	sent := env.sentProposal(t)
	if _, err := env.proposals.UpdateDraft(ctx, sent.ID, in, staff); !errors.Is(err, ErrProposalNotEditable) {
		t.Fatalf("expected ErrProposalNotEditable, got %v", err)
	}
	if _, err := env.proposals.UpdateDraft(ctx, "missing", in, staff); !errors.Is(err, ErrProposalNotFound) {
		t.Fatalf("expected ErrProposalNotFound, got %v", err)
	}
}

func TestProposalUseCase_Delete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	draft, _ := env.proposals.CreateDraft(ctx, electricalRewireDraft(), staff)
	if err := env.proposals.Delete(ctx, draft.ID, staff); err != nil {
		t.Fatalf("delete draft: %v", err)
	}
	if _, err := env.proposals.GetByID(ctx, draft.ID); !errors.Is(err, ErrProposalNotFound) {
		t.Fatalf("deleted proposal must read as not found, got %v", err)
	}
	if err := env.proposals.Delete(ctx, draft.ID, staff); !errors.Is(err, ErrProposalNotFound) {
		t.Fatalf("second delete expected ErrProposalNotFound, got %v", err)
	}

	signed := env.signedProposal(t)
	if err := env.proposals.Delete(ctx, signed.ID, staff); !errors.Is(err, ErrProposalNotDeletable) {
		t.Fatalf("expected ErrProposalNotDeletable, got %v", err)
	}

	sent := env.sentProposal(t)
	if _, err := env.lifecycle.Cancel(ctx, sent.ID, "client declined", staff); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if err := env.proposals.Delete(ctx, sent.ID, staff); err != nil {
		t.Fatalf("delete cancelled: %v", err)
	}
}

func TestProposalUseCase_GetView(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	draft, _ := env.proposals.CreateDraft(ctx, electricalRewireDraft(), staff)

	view, err := env.proposals.GetView(ctx, draft.ID, entities.InternalViewer("staff-1"))
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if _, ok := view["margin"]; ok {
		t.Fatalf("margin must be hidden without the financial capability")
	}
	if _, ok := view["client_contact_email"]; !ok {
		t.Fatalf("internal view must include the contact email")
	}

	full, err := env.proposals.GetView(ctx, draft.ID, entities.InternalViewer("staff-1", entities.CapabilityViewFinancial))
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if full["margin"] != 0.5 {
		t.Fatalf("financial view must include margin, got %v", full["margin"])
	}
}

func TestProposalUseCase_Render(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	renderer := mock_interfaces.NewMockIDocumentRenderer(ctrl)
	env := newTestEnv(t, withRenderer(renderer))
	ctx := context.Background()
	draft, _ := env.proposals.CreateDraft(ctx, electricalRewireDraft(), staff)

	viewer := entities.InternalViewer("staff-1")
	renderer.EXPECT().
		Render(gomock.Any(), gomock.Cond(func(p entities.Proposal) bool { return p.ID == draft.ID }), viewer).
		Return(entities.Document{MimeType: "application/json", Bytes: []byte("{}")}, nil)

	doc, err := env.proposals.Render(ctx, draft.ID, viewer)
	if err != nil || doc.MimeType != "application/json" {
		t.Fatalf("render: %+v %v", doc, err)
	}

	noRenderer := newTestEnv(t)
	other, _ := noRenderer.proposals.CreateDraft(ctx, electricalRewireDraft(), staff)
	if _, err := noRenderer.proposals.Render(ctx, other.ID, viewer); err == nil {
		t.Fatalf("expected an error without a renderer")
	}
}
