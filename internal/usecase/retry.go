package usecase

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"log"
	"net"
	"time"

	"propostas_service/internal/domain/entities"
	"propostas_service/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
)

const (
	storeRetryAttempts    = 3
	storeRetryMaxBackoff  = 200 * time.Millisecond
	maxOptimisticAttempts = 3
)

var storeBackoff = retry.NewExponentialJitterBackoff(storeRetryMaxBackoff)

// withStoreRetry retries fn on transient store failures (throttling,
// dropped connections, timeouts) with jittered exponential backoff.
func withStoreRetry(ctx context.Context, op string, fn func() error) error {
	var err error
	for attempt := 1; attempt <= storeRetryAttempts; attempt++ {
		err = fn()
		if err == nil || !isTransient(err) {
			return err
		}
		if attempt == storeRetryAttempts {
			break
		}
		delay, bErr := storeBackoff.BackoffDelay(attempt, err)
		if bErr != nil {
			break
		}
		log.Printf("[proposal][store] transient failure op=%s attempt=%d retry_in=%s err=%v", op, attempt, delay, err)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	log.Printf("[proposal][store] retries exhausted op=%s err=%v", op, err)
	return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
}

func isTransient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, interfaces.ErrPreconditionFailed) {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return retry.IsErrorRetryables(retry.DefaultRetryables).IsErrorRetryable(err) == aws.TrueTernary
}

// optimistic re-runs attempt while the compare-and-swap it ends with loses
// a race. Each run must re-read the proposal and re-evaluate its guard.
func optimistic(op string, attempt func() (entities.Proposal, error)) (entities.Proposal, error) {
	for i := 1; i <= maxOptimisticAttempts; i++ {
		p, err := attempt()
		if !errors.Is(err, interfaces.ErrPreconditionFailed) {
			return p, err
		}
		log.Printf("[proposal][%s] concurrent update detected attempt=%d; re-evaluating", op, i)
	}
	return entities.Proposal{}, ErrConcurrentModification
}
