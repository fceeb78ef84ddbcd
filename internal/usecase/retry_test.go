package usecase

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"

	"propostas_service/internal/domain/entities"
	"propostas_service/internal/usecase/interfaces"
)

func TestWithStoreRetry(t *testing.T) {
	t.Run("transient then success", func(t *testing.T) {
		calls := 0
		err := withStoreRetry(context.Background(), "test", func() error {
			calls++
			if calls == 1 {
				return driver.ErrBadConn
			}
			return nil
		})
		if err != nil || calls != 2 {
			t.Fatalf("expected success on second call, got calls=%d err=%v", calls, err)
		}
	})

	t.Run("exhausted", func(t *testing.T) {
		calls := 0
		err := withStoreRetry(context.Background(), "test", func() error {
			calls++
			return driver.ErrBadConn
		})
		if !errors.Is(err, ErrStoreUnavailable) || !errors.Is(err, driver.ErrBadConn) {
			t.Fatalf("expected ErrStoreUnavailable wrapping the cause, got %v", err)
		}
		if calls != storeRetryAttempts {
			t.Fatalf("expected %d calls, got %d", storeRetryAttempts, calls)
		}
	})

	t.Run("precondition is not retried", func(t *testing.T) {
		calls := 0
		err := withStoreRetry(context.Background(), "test", func() error {
			calls++
			return interfaces.ErrPreconditionFailed
		})
		if !errors.Is(err, interfaces.ErrPreconditionFailed) || calls != 1 {
			t.Fatalf("expected one call returning ErrPreconditionFailed, got calls=%d err=%v", calls, err)
		}
	})

	t.Run("cancelled context stops waiting", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := withStoreRetry(ctx, "test", func() error { return driver.ErrBadConn })
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	})
}

func TestOptimistic(t *testing.T) {
	calls := 0
	_, err := optimistic("test", func() (entities.Proposal, error) {
		calls++
		return entities.Proposal{}, interfaces.ErrPreconditionFailed
	})
	if !errors.Is(err, ErrConcurrentModification) || calls != maxOptimisticAttempts {
		t.Fatalf("expected ErrConcurrentModification after %d calls, got calls=%d err=%v", maxOptimisticAttempts, calls, err)
	}

	calls = 0
	p, err := optimistic("test", func() (entities.Proposal, error) {
		calls++
		if calls < 2 {
			return entities.Proposal{}, interfaces.ErrPreconditionFailed
		}
		return entities.Proposal{ID: "p-1"}, nil
	})
	if err != nil || p.ID != "p-1" {
		t.Fatalf("expected success on retry, got %+v %v", p, err)
	}
}
