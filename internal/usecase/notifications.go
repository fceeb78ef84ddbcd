package usecase

import (
	"context"
	"log"
	"sync"
	"time"

	"propostas_service/internal/domain/entities"
	"propostas_service/internal/usecase/interfaces"
)

const defaultNotifyTimeout = 10 * time.Second

// notificationDispatcher sends notifications in the background. Failures
// are logged and counted, never returned: a transition that already
// committed must not be reported as failed because an email bounced.
type notificationDispatcher struct {
	notifier interfaces.INotifier
	metrics  interfaces.IMetrics
	timeout  time.Duration
	wg       sync.WaitGroup
}

func newNotificationDispatcher(notifier interfaces.INotifier, metrics interfaces.IMetrics, timeout time.Duration) *notificationDispatcher {
	if timeout <= 0 {
		timeout = defaultNotifyTimeout
	}
	return &notificationDispatcher{notifier: notifier, metrics: metrics, timeout: timeout}
}

func (d *notificationDispatcher) dispatch(ctx context.Context, kind entities.AuditEventKind, p entities.Proposal, recipient string) {
	if d.notifier == nil {
		return
	}
	if recipient == "" {
		log.Printf("[proposal][notify] skipped kind=%s proposal_id=%s reason=no-recipient", kind, p.ID)
		return
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
		defer cancel()

		if err := d.notifier.Notify(nctx, kind, p, recipient); err != nil {
			log.Printf("[proposal][notify] failed kind=%s proposal_id=%s err=%v", kind, p.ID, err)
			d.metrics.NotificationSent(string(kind), "failed")
			return
		}
		d.metrics.NotificationSent(string(kind), "sent")
	}()
}

// drain blocks until in-flight notifications finish.
func (d *notificationDispatcher) drain() {
	d.wg.Wait()
}
