package usecase

import (
	"context"
	"testing"
	"time"

	"propostas_service/internal/domain/entities"
	"propostas_service/internal/usecase/interfaces"
)

// crashAfterPending simulates a process that wrote a pending event and then
// died, optionally after the state change landed.
func crashAfterPending(t *testing.T, env *testEnv, cur entities.Proposal, applied bool) entities.AuditEvent {
	t.Helper()
	ctx := context.Background()
	now := env.clock.Now()

	next := cur.Clone()
	next.Status = entities.ProposalStatusCancelada
	next.CancelledAt = entities.TimePtr(now)
	next.UpdatedAt = now
	next.Version = cur.Version + 1

	event := newAuditEvent(entities.AuditEventCancelled, cur, next, staff, now, nil)
	event.State = entities.AuditEventStatePending
	if err := env.store.Append(ctx, event); err != nil {
		t.Fatalf("append: %v", err)
	}
	if applied {
		if _, err := env.store.CompareAndSwap(ctx, next, interfaces.SwapCondition{Status: cur.Status, Version: cur.Version}); err != nil {
			t.Fatalf("swap: %v", err)
		}
	}
	return event
}

func TestReconcilerUseCase_ReconcilePending(t *testing.T) {
	t.Run("applied change commits the event", func(t *testing.T) {
		env := newTestEnv(t, withMode(TransitionModeCompensating))
		sent := env.sentProposal(t)
		crashAfterPending(t, env, sent, true)
		env.clock.Advance(10 * time.Minute)

		report, err := env.reconciler.ReconcilePending(context.Background(), 0)
		if err != nil {
			t.Fatalf("reconcile: %v", err)
		}
		if report.Scanned != 1 || report.Committed != 1 {
			t.Fatalf("unexpected report %+v", report)
		}
		got := kinds(env.history(t, sent.ID))
		if len(got) != 2 || got[1] != entities.AuditEventCancelled {
			t.Fatalf("expected SENT, CANCELLED; got %v", got)
		}
	})

	t.Run("missing change rolls the event back", func(t *testing.T) {
		env := newTestEnv(t, withMode(TransitionModeCompensating))
		sent := env.sentProposal(t)
		crashAfterPending(t, env, sent, false)
		env.clock.Advance(10 * time.Minute)

		report, err := env.reconciler.ReconcilePending(context.Background(), 0)
		if err != nil {
			t.Fatalf("reconcile: %v", err)
		}
		if report.RolledBack != 1 {
			t.Fatalf("unexpected report %+v", report)
		}
		if got := kinds(env.history(t, sent.ID)); len(got) != 1 {
			t.Fatalf("rolled back event must not show in history, got %v", got)
		}
	})

	t.Run("recent events are left alone", func(t *testing.T) {
		env := newTestEnv(t, withMode(TransitionModeCompensating))
		sent := env.sentProposal(t)
		crashAfterPending(t, env, sent, true)
		env.clock.Advance(time.Minute)

		report, err := env.reconciler.ReconcilePending(context.Background(), 5*time.Minute)
		if err != nil {
			t.Fatalf("reconcile: %v", err)
		}
		if report.Scanned != 0 {
			t.Fatalf("expected nothing scanned, got %+v", report)
		}
	})
}

func TestEventApplied(t *testing.T) {
	event := entities.AuditEvent{
		ToStatus: entities.ProposalStatusAssinada,
		Detail:   map[string]any{"version": float64(3)},
	}
	cases := []struct {
		name string
		p    entities.Proposal
		want bool
	}{
		{"missing proposal", entities.Proposal{}, false},
		{"older version", entities.Proposal{ID: "p", Version: 2, Status: entities.ProposalStatusEnviada}, false},
		{"same version and status", entities.Proposal{ID: "p", Version: 3, Status: entities.ProposalStatusAssinada}, true},
		{"same version other status", entities.Proposal{ID: "p", Version: 3, Status: entities.ProposalStatusCancelada}, false},
		{"moved on from target", entities.Proposal{ID: "p", Version: 4, Status: entities.ProposalStatusAprovada}, true},
		{"diverged", entities.Proposal{ID: "p", Version: 4, Status: entities.ProposalStatusCancelada}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := eventApplied(event, tc.p); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}

	noVersion := entities.AuditEvent{ToStatus: entities.ProposalStatusAssinada}
	if !eventApplied(noVersion, entities.Proposal{ID: "p", Status: entities.ProposalStatusAssinada}) {
		t.Fatalf("without a version the status decides")
	}
}

func TestReconcilerUseCase_CleanupExpiredTokens(t *testing.T) {
	env := newTestEnv(t)
	sent := env.sentProposal(t)
	live := env.sentProposal(t)

	// Only the first link expires long enough ago.
	if _, err := env.issuer.Issue(context.Background(), sent.ID, time.Hour); err != nil {
		t.Fatalf("issue: %v", err)
	}
	env.clock.Advance(DefaultTokenCleanupGrace + 2*time.Hour)

	cleared, err := env.reconciler.CleanupExpiredTokens(context.Background(), 0)
	if err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if cleared != 1 {
		t.Fatalf("expected 1 token cleared, got %d", cleared)
	}

	got, _ := env.store.GetByID(context.Background(), sent.ID)
	if got.AccessToken != "" || got.TokenExpiresAt == nil {
		t.Fatalf("expected token cleared and expiry kept, got %+v", got)
	}
	still, _ := env.store.GetByID(context.Background(), live.ID)
	if still.AccessToken != live.AccessToken {
		t.Fatalf("live token must survive cleanup")
	}

	again, err := env.reconciler.CleanupExpiredTokens(context.Background(), 0)
	if err != nil || again != 0 {
		t.Fatalf("second pass expected 0, got %d %v", again, err)
	}
}
