package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"propostas_service/internal/domain/entities"
	mock_interfaces "propostas_service/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

func TestAuditUseCase_Record(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := mock_interfaces.NewMockIAuditRepository(ctrl)
	uc := NewAuditUseCase(repo)
	fixed := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return fixed }

	repo.EXPECT().Append(gomock.Any(), gomock.Cond(func(e entities.AuditEvent) bool {
		return e.ID != "" && e.Timestamp.Equal(fixed) && e.State == entities.AuditEventStateCommitted
	})).Return(nil)

	e, err := uc.Record(context.Background(), entities.AuditEvent{ProposalID: "p-1", Kind: entities.AuditEventViewed, Actor: client})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if e.ID == "" {
		t.Fatalf("expected an id to be assigned")
	}

	if _, err := uc.Record(context.Background(), entities.AuditEvent{Kind: entities.AuditEventViewed}); !errors.Is(err, ErrInvalidProposalID) {
		t.Fatalf("expected ErrInvalidProposalID, got %v", err)
	}
}

func TestAuditUseCase_History(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := mock_interfaces.NewMockIAuditRepository(ctrl)
	uc := NewAuditUseCase(repo)
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	repo.EXPECT().ListByProposalID(gomock.Any(), "p-1").Return([]entities.AuditEvent{
		{ID: "3", Kind: entities.AuditEventSigned, Timestamp: base.Add(2 * time.Minute), State: entities.AuditEventStateCommitted},
		{ID: "1", Kind: entities.AuditEventSent, Timestamp: base, State: entities.AuditEventStateCommitted},
		{ID: "2", Kind: entities.AuditEventCancelled, Timestamp: base.Add(time.Minute), State: entities.AuditEventStateRolledBack},
		{ID: "4", Kind: entities.AuditEventApproved, Timestamp: base.Add(3 * time.Minute), State: entities.AuditEventStatePending},
	}, nil)

	events, err := uc.History(context.Background(), " p-1 ")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(events) != 3 || events[0].ID != "1" || events[1].ID != "3" || events[2].ID != "4" {
		t.Fatalf("unexpected history %+v", events)
	}

	if _, err := uc.History(context.Background(), ""); !errors.Is(err, ErrInvalidProposalID) {
		t.Fatalf("expected ErrInvalidProposalID, got %v", err)
	}
}
