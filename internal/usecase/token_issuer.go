package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"propostas_service/internal/domain/entities"
	"propostas_service/internal/domain/lifecycle"
	"propostas_service/internal/usecase/interfaces"
)

const (
	// TokenBytes gives 256 bits of entropy, 64 hex characters.
	TokenBytes      = 32
	DefaultTokenTTL = 30 * 24 * time.Hour

	tokenGenerationAttempts = 5
)

// TokenIssuer generates, validates and invalidates public access tokens.
//
// The token is both the lookup key and the bearer secret, so it is stored
// as-is in the proposal row. Viewing never consumes it; only state
// transitions (sign, cancel, approve) and explicit revocation do.
type TokenIssuer struct {
	repo      interfaces.IProposalRepository
	committer ITransitionCommitter
	metrics   interfaces.IMetrics
	ttl       time.Duration
	random    io.Reader
	now       func() time.Time
}

func NewTokenIssuer(repo interfaces.IProposalRepository, committer ITransitionCommitter, metrics interfaces.IMetrics, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	if metrics == nil {
		metrics = interfaces.NopMetrics{}
	}
	return &TokenIssuer{
		repo:      repo,
		committer: committer,
		metrics:   metrics,
		ttl:       ttl,
		random:    rand.Reader,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (t *TokenIssuer) TTL() time.Duration {
	return t.ttl
}

// Generate returns a fresh token not present on any proposal.
func (t *TokenIssuer) Generate(ctx context.Context) (string, error) {
	buf := make([]byte, TokenBytes)
	for attempt := 1; attempt <= tokenGenerationAttempts; attempt++ {
		if _, err := io.ReadFull(t.random, buf); err != nil {
			return "", fmt.Errorf("read random token: %w", err)
		}
		token := hex.EncodeToString(buf)

		existing, err := t.lookup(ctx, token)
		if err != nil {
			return "", err
		}
		if existing.ID == "" {
			return token, nil
		}
		log.Printf("[proposal][token] collision attempt=%d token=%s", attempt, tokenHint(token))
	}
	log.Printf("[proposal][token] generation exhausted after %d attempts; check the random source", tokenGenerationAttempts)
	return "", ErrTokenGenerationExhausted
}

// Validate resolves token to its proposal without consuming it.
func (t *TokenIssuer) Validate(ctx context.Context, token string) (entities.Proposal, error) {
	token = strings.TrimSpace(token)
	if !wellFormedToken(token) {
		t.metrics.TokenValidated("malformed")
		return entities.Proposal{}, ErrTokenInvalid
	}

	p, err := t.lookup(ctx, token)
	if err != nil {
		t.metrics.TokenValidated("error")
		return entities.Proposal{}, err
	}
	if err := t.check(p, token, t.now()); err != nil {
		t.metrics.TokenValidated("invalid")
		return entities.Proposal{}, err
	}
	t.metrics.TokenValidated("valid")
	return p, nil
}

// check applies the validity rules to an already loaded proposal.
func (t *TokenIssuer) check(p entities.Proposal, token string, now time.Time) error {
	switch {
	case p.ID == "", p.AccessToken != token:
		return ErrTokenInvalid
	case p.IsDeleted():
		return ErrTokenInvalid
	case !p.Status.AllowsPublicAccess():
		return ErrTokenInvalid
	case !p.TokenLive(now):
		return ErrTokenInvalid
	}
	return nil
}

func (t *TokenIssuer) lookup(ctx context.Context, token string) (entities.Proposal, error) {
	var p entities.Proposal
	err := withStoreRetry(ctx, "get-by-token", func() error {
		var err error
		p, err = t.repo.GetByToken(ctx, token)
		return err
	})
	return p, err
}

// apply stamps a new token pair on next.
func (t *TokenIssuer) apply(next *entities.Proposal, token string, now time.Time, ttl time.Duration) {
	if ttl <= 0 {
		ttl = t.ttl
	}
	next.AccessToken = token
	next.TokenExpiresAt = entities.TimePtr(now.Add(ttl))
}

// Issue persists a fresh token on an ENVIADA proposal. Any previous token
// stops resolving because lookups are by exact value.
func (t *TokenIssuer) Issue(ctx context.Context, proposalID string, ttl time.Duration) (entities.Proposal, error) {
	return t.rotate(ctx, proposalID, ttl, nil)
}

// Renew is revoke + issue in a single write, audited as a reminder.
func (t *TokenIssuer) Renew(ctx context.Context, proposalID string, ttl time.Duration, actor entities.Actor) (entities.Proposal, error) {
	return t.rotate(ctx, proposalID, ttl, &actor)
}

func (t *TokenIssuer) rotate(ctx context.Context, proposalID string, ttl time.Duration, remindedBy *entities.Actor) (entities.Proposal, error) {
	return optimistic("token-rotate", func() (entities.Proposal, error) {
		cur, err := loadProposal(ctx, t.repo, proposalID)
		if err != nil {
			return entities.Proposal{}, err
		}
		if cur.Status != entities.ProposalStatusEnviada {
			return entities.Proposal{}, &lifecycle.TransitionError{From: cur.Status, Requested: entities.ProposalStatusEnviada, Action: lifecycle.ActionRenewToken}
		}

		token, err := t.Generate(ctx)
		if err != nil {
			return entities.Proposal{}, err
		}
		now := t.now()
		next := cur.Clone()
		t.apply(&next, token, now, ttl)
		next.UpdatedAt = now
		next.Version = cur.Version + 1
		cond := interfaces.SwapCondition{Status: cur.Status, Version: cur.Version}

		if remindedBy == nil {
			return swap(ctx, t.repo, next, cond)
		}
		event := newAuditEvent(entities.AuditEventReminded, cur, next, *remindedBy, now, map[string]any{
			"token_expires_at": next.TokenExpiresAt.Format(time.RFC3339),
			"previous_token":   tokenHint(cur.AccessToken),
		})
		return t.committer.Commit(ctx, next, cond, event)
	})
}

// Revoke expires the live token immediately. Revoking an already dead
// token is a no-op.
func (t *TokenIssuer) Revoke(ctx context.Context, proposalID string) (entities.Proposal, error) {
	return optimistic("token-revoke", func() (entities.Proposal, error) {
		cur, err := loadProposal(ctx, t.repo, proposalID)
		if err != nil {
			return entities.Proposal{}, err
		}
		now := t.now()
		if !cur.TokenLive(now) {
			return cur, nil
		}
		if cur.Status != entities.ProposalStatusEnviada {
			return entities.Proposal{}, &lifecycle.TransitionError{From: cur.Status, Requested: entities.ProposalStatusEnviada, Action: lifecycle.ActionRevokeToken}
		}

		next := cur.Clone()
		next.TokenExpiresAt = entities.TimePtr(now)
		next.UpdatedAt = now
		next.Version = cur.Version + 1
		return swap(ctx, t.repo, next, interfaces.SwapCondition{Status: cur.Status, Version: cur.Version, Token: cur.AccessToken})
	})
}

func swap(ctx context.Context, repo interfaces.IProposalRepository, next entities.Proposal, cond interfaces.SwapCondition) (entities.Proposal, error) {
	var updated entities.Proposal
	err := withStoreRetry(ctx, "swap", func() error {
		var err error
		updated, err = repo.CompareAndSwap(ctx, next, cond)
		return err
	})
	return updated, err
}

func loadProposal(ctx context.Context, repo interfaces.IProposalRepository, id string) (entities.Proposal, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Proposal{}, ErrInvalidProposalID
	}
	var p entities.Proposal
	err := withStoreRetry(ctx, "get-by-id", func() error {
		var err error
		p, err = repo.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return entities.Proposal{}, err
	}
	if p.ID == "" || p.IsDeleted() {
		return entities.Proposal{}, ErrProposalNotFound
	}
	return p, nil
}

func wellFormedToken(token string) bool {
	if len(token) != TokenBytes*2 {
		return false
	}
	for _, c := range token {
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f') {
			return false
		}
	}
	return true
}

// tokenHint is safe to log.
func tokenHint(token string) string {
	if len(token) <= 8 {
		return token
	}
	return token[:8] + "..."
}
