package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"propostas_service/internal/domain/entities"
	"propostas_service/internal/domain/masking"
	"propostas_service/internal/usecase/interfaces"

	"github.com/google/uuid"
)

// IProposalUseCase manages drafts and internal reads.
//
// It never changes the status field; transitions go through
// ILifecycleUseCase.
type IProposalUseCase interface {
	CreateDraft(ctx context.Context, input DraftInput, actor entities.Actor) (entities.Proposal, error)
	UpdateDraft(ctx context.Context, id string, input DraftInput, actor entities.Actor) (entities.Proposal, error)
	GetByID(ctx context.Context, id string) (entities.Proposal, error)
	GetView(ctx context.Context, id string, viewer entities.Viewer) (masking.View, error)
	Delete(ctx context.Context, id string, actor entities.Actor) error
	Render(ctx context.Context, id string, viewer entities.Viewer) (entities.Document, error)
}

// DraftInput is the editable content of a RASCUNHO proposal.
type DraftInput struct {
	ClientID           string
	ClientName         string
	ClientContactEmail string
	Title              string
	Scope              string
	Terms              string
	Stages             []entities.ProposalStage
	Materials          []entities.ProposalMaterial
	EstimatedValue     float64
	Margin             float64
	Price              float64
}

type ProposalUseCase struct {
	repo     interfaces.IProposalRepository
	policy   *masking.Policy
	renderer interfaces.IDocumentRenderer
	now      func() time.Time
}

var _ IProposalUseCase = (*ProposalUseCase)(nil)

func NewProposalUseCase(repo interfaces.IProposalRepository, policy *masking.Policy, renderer interfaces.IDocumentRenderer) *ProposalUseCase {
	if policy == nil {
		policy = masking.DefaultPolicy()
	}
	return &ProposalUseCase{
		repo:     repo,
		policy:   policy,
		renderer: renderer,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (u *ProposalUseCase) CreateDraft(ctx context.Context, input DraftInput, actor entities.Actor) (entities.Proposal, error) {
	if err := validateDraft(input); err != nil {
		return entities.Proposal{}, err
	}

	var number int64
	err := withStoreRetry(ctx, "next-number", func() error {
		var err error
		number, err = u.repo.NextNumber(ctx)
		return err
	})
	if err != nil {
		return entities.Proposal{}, err
	}

	now := u.now()
	p := entities.Proposal{
		ID:        uuid.NewString(),
		Number:    number,
		CreatedBy: actor.UserID,
		Status:    entities.ProposalStatusRascunho,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyDraft(&p, input)

	var created entities.Proposal
	err = withStoreRetry(ctx, "create", func() error {
		var err error
		created, err = u.repo.Create(ctx, p)
		return err
	})
	if err != nil {
		return entities.Proposal{}, err
	}
	log.Printf("[proposal][usecase] draft created proposal_id=%s number=%d created_by=%s", created.ID, created.Number, created.CreatedBy)
	return created, nil
}

func (u *ProposalUseCase) UpdateDraft(ctx context.Context, id string, input DraftInput, actor entities.Actor) (entities.Proposal, error) {
	if err := validateDraft(input); err != nil {
		return entities.Proposal{}, err
	}
	updated, err := optimistic("update-draft", func() (entities.Proposal, error) {
		cur, err := loadProposal(ctx, u.repo, id)
		if err != nil {
			return entities.Proposal{}, err
		}
		if cur.Status != entities.ProposalStatusRascunho {
			return entities.Proposal{}, ErrProposalNotEditable
		}

		next := cur.Clone()
		applyDraft(&next, input)
		next.UpdatedAt = u.now()
		next.Version = cur.Version + 1
		return swap(ctx, u.repo, next, interfaces.SwapCondition{Status: cur.Status, Version: cur.Version})
	})
	if err != nil {
		return entities.Proposal{}, err
	}
	log.Printf("[proposal][usecase] draft updated proposal_id=%s version=%d by=%s", updated.ID, updated.Version, actor.UserID)
	return updated, nil
}

func (u *ProposalUseCase) GetByID(ctx context.Context, id string) (entities.Proposal, error) {
	return loadProposal(ctx, u.repo, id)
}

func (u *ProposalUseCase) GetView(ctx context.Context, id string, viewer entities.Viewer) (masking.View, error) {
	p, err := loadProposal(ctx, u.repo, id)
	if err != nil {
		return nil, err
	}
	return u.policy.MaskProposal(p, viewer)
}

// Delete is a soft delete. Signed and approved proposals are commercial
// records and stay; a live link dies with the proposal.
func (u *ProposalUseCase) Delete(ctx context.Context, id string, actor entities.Actor) error {
	deleted, err := optimistic("delete", func() (entities.Proposal, error) {
		cur, err := loadProposal(ctx, u.repo, id)
		if err != nil {
			return entities.Proposal{}, err
		}
		switch cur.Status {
		case entities.ProposalStatusRascunho, entities.ProposalStatusCancelada:
		default:
			return entities.Proposal{}, ErrProposalNotDeletable
		}

		now := u.now()
		next := cur.Clone()
		next.DeletedAt = entities.TimePtr(now)
		next.UpdatedAt = now
		next.Version = cur.Version + 1
		return swap(ctx, u.repo, next, interfaces.SwapCondition{Status: cur.Status, Version: cur.Version})
	})
	if err != nil {
		return err
	}
	log.Printf("[proposal][usecase] soft deleted proposal_id=%s number=%d by=%s", deleted.ID, deleted.Number, actor.UserID)
	return nil
}

func (u *ProposalUseCase) Render(ctx context.Context, id string, viewer entities.Viewer) (entities.Document, error) {
	p, err := loadProposal(ctx, u.repo, id)
	if err != nil {
		return entities.Document{}, err
	}
	if u.renderer == nil {
		return entities.Document{}, fmt.Errorf("render proposal %s: no renderer configured", p.ID)
	}
	return u.renderer.Render(ctx, p, viewer)
}

func validateDraft(in DraftInput) error {
	if in.EstimatedValue < 0 || in.Price < 0 {
		return fmt.Errorf("%w: values must not be negative", ErrInvalidDraft)
	}
	for i, s := range in.Stages {
		if strings.TrimSpace(s.Title) == "" {
			return fmt.Errorf("%w: stage %d has no title", ErrInvalidDraft, i+1)
		}
		if s.Status != "" && s.Status != entities.StageStatusPendente &&
			s.Status != entities.StageStatusEmAndamento && s.Status != entities.StageStatusConcluida {
			return fmt.Errorf("%w: stage %d has unknown status %q", ErrInvalidDraft, i+1, s.Status)
		}
		if s.EstimatedCost < 0 {
			return fmt.Errorf("%w: stage %d cost must not be negative", ErrInvalidDraft, i+1)
		}
	}
	for i, m := range in.Materials {
		if strings.TrimSpace(m.Name) == "" {
			return fmt.Errorf("%w: material %d has no name", ErrInvalidDraft, i+1)
		}
		if m.Quantity < 0 || m.UnitCost < 0 || m.EstimatedCost < 0 {
			return fmt.Errorf("%w: material %d values must not be negative", ErrInvalidDraft, i+1)
		}
	}
	return nil
}

// applyDraft copies the editable fields, filling ids, order and costs the
// client left out.
func applyDraft(p *entities.Proposal, in DraftInput) {
	p.ClientID = strings.TrimSpace(in.ClientID)
	p.ClientName = strings.TrimSpace(in.ClientName)
	p.ClientContactEmail = strings.TrimSpace(in.ClientContactEmail)
	p.Title = strings.TrimSpace(in.Title)
	p.Scope = strings.TrimSpace(in.Scope)
	p.Terms = strings.TrimSpace(in.Terms)
	p.EstimatedValue = in.EstimatedValue
	p.Margin = in.Margin
	p.Price = in.Price

	p.Stages = make([]entities.ProposalStage, len(in.Stages))
	for i, s := range in.Stages {
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		if s.Order == 0 {
			s.Order = i + 1
		}
		if s.Status == "" {
			s.Status = entities.StageStatusPendente
		}
		s.Title = strings.TrimSpace(s.Title)
		p.Stages[i] = s
	}

	p.Materials = make([]entities.ProposalMaterial, len(in.Materials))
	for i, m := range in.Materials {
		if m.ID == "" {
			m.ID = uuid.NewString()
		}
		if m.Status == "" {
			m.Status = entities.StageStatusPendente
		}
		if m.EstimatedCost == 0 {
			m.EstimatedCost = m.Quantity * m.UnitCost
		}
		m.Name = strings.TrimSpace(m.Name)
		p.Materials[i] = m
	}
}
