// Command reconciler finalizes transitions left pending by the compensating
// commit path and clears expired public tokens. It runs once, or every
// RECONCILE_INTERVAL when that is set.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"propostas_service/internal/infrastructure/config"
	"propostas_service/internal/infrastructure/container"
	"propostas_service/internal/usecase"

	_ "github.com/joho/godotenv/autoload"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("[reconciler] invalid configuration: %v", err)
	}
	c, err := container.Build(ctx, cfg)
	if err != nil {
		log.Fatalf("[reconciler] failed to build dependencies: %v", err)
	}
	defer func() {
		if err := c.Close(); err != nil {
			log.Printf("[reconciler] shutdown err=%v", err)
		}
	}()

	pass(ctx, c.Reconciler, cfg)
	if cfg.ReconcileInterval <= 0 {
		return
	}

	ticker := time.NewTicker(cfg.ReconcileInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Printf("[reconciler] stopping")
			return
		case <-ticker.C:
			pass(ctx, c.Reconciler, cfg)
		}
	}
}

func pass(ctx context.Context, r usecase.IReconcilerUseCase, cfg config.Config) {
	report, err := r.ReconcilePending(ctx, cfg.ReconcileOlderThan)
	if err != nil {
		log.Printf("[reconciler] reconcile failed err=%v", err)
	} else {
		log.Printf("[reconciler] reconcile done committed=%d rolled_back=%d failed=%d",
			report.Committed, report.RolledBack, report.Failed)
	}

	cleared, err := r.CleanupExpiredTokens(ctx, cfg.TokenCleanupGrace)
	if err != nil {
		log.Printf("[reconciler] token cleanup failed err=%v", err)
		return
	}
	log.Printf("[reconciler] token cleanup done cleared=%d", cleared)
}
