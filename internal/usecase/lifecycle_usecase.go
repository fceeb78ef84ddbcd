package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"propostas_service/internal/domain/entities"
	"propostas_service/internal/domain/lifecycle"
	"propostas_service/internal/usecase/interfaces"
)

// ILifecycleUseCase owns the proposal status field.
//
// Every operation reads the proposal, evaluates the transition table and the
// guard, then commits the new state and its audit event with a
// compare-and-swap. Losing a race re-reads and re-evaluates.
type ILifecycleUseCase interface {
	Send(ctx context.Context, id string, actor entities.Actor) (entities.Proposal, error)
	Sign(ctx context.Context, token string, sig entities.Signature, actor entities.Actor) (SignResult, error)
	Approve(ctx context.Context, id string, input ApprovalInput, actor entities.Actor) (entities.Proposal, error)
	Cancel(ctx context.Context, id string, reason string, actor entities.Actor) (entities.Proposal, error)
	RenewToken(ctx context.Context, id string, actor entities.Actor) (entities.Proposal, error)
	RevokeToken(ctx context.Context, id string, actor entities.Actor) (entities.Proposal, error)
}

type ApprovalInput struct {
	Technical bool
	Financial bool
}

// SignResult carries the stored signature. AlreadySigned marks an
// idempotent answer to a repeated submission.
type SignResult struct {
	Proposal      entities.Proposal
	Signature     entities.Signature
	AlreadySigned bool
}

type LifecycleUseCase struct {
	repo          interfaces.IProposalRepository
	committer     ITransitionCommitter
	issuer        *TokenIssuer
	notifications *notificationDispatcher
	metrics       interfaces.IMetrics
	now           func() time.Time
}

var _ ILifecycleUseCase = (*LifecycleUseCase)(nil)

func NewLifecycleUseCase(
	repo interfaces.IProposalRepository,
	committer ITransitionCommitter,
	issuer *TokenIssuer,
	notifier interfaces.INotifier,
	metrics interfaces.IMetrics,
	notifyTimeout time.Duration,
) *LifecycleUseCase {
	if metrics == nil {
		metrics = interfaces.NopMetrics{}
	}
	return &LifecycleUseCase{
		repo:          repo,
		committer:     committer,
		issuer:        issuer,
		notifications: newNotificationDispatcher(notifier, metrics, notifyTimeout),
		metrics:       metrics,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Drain waits for background notifications; call it on shutdown.
func (u *LifecycleUseCase) Drain() {
	u.notifications.drain()
}

func (u *LifecycleUseCase) Send(ctx context.Context, id string, actor entities.Actor) (entities.Proposal, error) {
	resend := false
	sent, err := optimistic("send", func() (entities.Proposal, error) {
		cur, err := loadProposal(ctx, u.repo, id)
		if err != nil {
			return entities.Proposal{}, err
		}
		if cur.Status == entities.ProposalStatusEnviada {
			resend = true
			return cur, nil
		}
		to, err := lifecycle.Next(cur.Status, lifecycle.ActionSend)
		if err != nil {
			return entities.Proposal{}, err
		}
		if err := lifecycle.SendGuard(cur); err != nil {
			return entities.Proposal{}, err
		}

		token, err := u.issuer.Generate(ctx)
		if err != nil {
			return entities.Proposal{}, err
		}
		now := u.now()
		next := cur.Clone()
		next.Status = to
		next.SentAt = entities.TimePtr(now)
		u.issuer.apply(&next, token, now, 0)
		next.UpdatedAt = now
		next.Version = cur.Version + 1

		event := newAuditEvent(entities.AuditEventSent, cur, next, actor, now, map[string]any{
			"recipient":        next.ClientContactEmail,
			"token_expires_at": next.TokenExpiresAt.Format(time.RFC3339),
		})
		return u.committer.Commit(ctx, next, interfaces.SwapCondition{Status: cur.Status, Version: cur.Version}, event)
	})
	if err != nil {
		u.recordFailure(lifecycle.ActionSend, id, err)
		return entities.Proposal{}, err
	}
	if resend {
		// Re-sending rotates the token instead of reusing it.
		log.Printf("[proposal][lifecycle] resend requested proposal_id=%s; rotating token", sent.ID)
		return u.RenewToken(ctx, id, actor)
	}

	u.metrics.TransitionRecorded(string(lifecycle.ActionSend), "success")
	log.Printf("[proposal][lifecycle] send success proposal_id=%s number=%d token=%s expires_at=%s",
		sent.ID, sent.Number, tokenHint(sent.AccessToken), sent.TokenExpiresAt.Format(time.RFC3339))
	u.notifications.dispatch(ctx, entities.AuditEventSent, sent, sent.ClientContactEmail)
	return sent, nil
}

func (u *LifecycleUseCase) Sign(ctx context.Context, token string, sig entities.Signature, actor entities.Actor) (SignResult, error) {
	token = strings.TrimSpace(token)
	if !wellFormedToken(token) {
		return SignResult{}, ErrTokenInvalid
	}

	var result SignResult
	_, err := optimistic("sign", func() (entities.Proposal, error) {
		cur, err := u.issuer.lookup(ctx, token)
		if err != nil {
			return entities.Proposal{}, err
		}
		if cur.ID == "" || cur.IsDeleted() || cur.AccessToken != token {
			return entities.Proposal{}, ErrTokenInvalid
		}
		if cur.Signature != nil {
			if cur.Signature.SameSigner(sig.SignerName) {
				result = SignResult{Proposal: cur, Signature: *cur.Signature, AlreadySigned: true}
				return cur, nil
			}
			return entities.Proposal{}, ErrTokenAlreadyConsumed
		}

		now := u.now()
		if err := u.issuer.check(cur, token, now); err != nil {
			return entities.Proposal{}, err
		}
		to, err := lifecycle.Next(cur.Status, lifecycle.ActionSign)
		if err != nil {
			return entities.Proposal{}, err
		}

		signed := sig
		signed.SignerName = strings.TrimSpace(sig.SignerName)
		signed.IP = actor.IP
		signed.UserAgent = actor.UserAgent
		signed.SignedAt = now
		if err := lifecycle.ValidateSignature(signed); err != nil {
			return entities.Proposal{}, err
		}

		next := cur.Clone()
		next.Status = to
		next.SignedAt = entities.TimePtr(now)
		next.Signature = &signed
		// Consumed: the value stays so a retried submission can be answered.
		next.TokenExpiresAt = entities.TimePtr(now)
		next.UpdatedAt = now
		next.Version = cur.Version + 1

		event := newAuditEvent(entities.AuditEventSigned, cur, next, actor, now, map[string]any{
			"signer_name": signed.SignerName,
			"method":      string(signed.Method),
			"consent":     signed.Consent,
			"terms":       signed.TermsAccepted,
		})
		updated, err := u.committer.Commit(ctx, next, interfaces.SwapCondition{Status: cur.Status, Version: cur.Version, Token: token}, event)
		if err != nil {
			return entities.Proposal{}, err
		}
		result = SignResult{Proposal: updated, Signature: signed}
		return updated, nil
	})
	if err != nil {
		if errors.Is(err, ErrTokenInvalid) || errors.Is(err, ErrTokenAlreadyConsumed) {
			log.Printf("[proposal][lifecycle] sign rejected token=%s err=%v", tokenHint(token), err)
		}
		u.recordFailure(lifecycle.ActionSign, "", err)
		return SignResult{}, err
	}

	if result.AlreadySigned {
		log.Printf("[proposal][lifecycle] sign repeated proposal_id=%s; returning stored signature", result.Proposal.ID)
		u.metrics.TransitionRecorded(string(lifecycle.ActionSign), "idempotent")
		return result, nil
	}

	u.metrics.TransitionRecorded(string(lifecycle.ActionSign), "success")
	log.Printf("[proposal][lifecycle] sign success proposal_id=%s number=%d method=%s", result.Proposal.ID, result.Proposal.Number, result.Signature.Method)
	u.notifications.dispatch(ctx, entities.AuditEventSigned, result.Proposal, result.Proposal.CreatedBy)
	return result, nil
}

func (u *LifecycleUseCase) Approve(ctx context.Context, id string, input ApprovalInput, actor entities.Actor) (entities.Proposal, error) {
	approved, err := optimistic("approve", func() (entities.Proposal, error) {
		cur, err := loadProposal(ctx, u.repo, id)
		if err != nil {
			return entities.Proposal{}, err
		}
		to, err := lifecycle.Next(cur.Status, lifecycle.ActionApprove)
		if err != nil {
			return entities.Proposal{}, err
		}
		if err := lifecycle.ApprovalGuard(input.Technical, input.Financial); err != nil {
			return entities.Proposal{}, err
		}

		now := u.now()
		next := cur.Clone()
		next.Status = to
		next.ApprovedAt = entities.TimePtr(now)
		next.Approval = &entities.Approval{
			Technical:  input.Technical,
			Financial:  input.Financial,
			ApprovedBy: actor.UserID,
			ApprovedAt: now,
		}
		next.AccessToken = ""
		next.TokenExpiresAt = nil
		next.UpdatedAt = now
		next.Version = cur.Version + 1

		event := newAuditEvent(entities.AuditEventApproved, cur, next, actor, now, map[string]any{
			"technical": input.Technical,
			"financial": input.Financial,
		})
		return u.committer.Commit(ctx, next, interfaces.SwapCondition{Status: cur.Status, Version: cur.Version}, event)
	})
	if err != nil {
		u.recordFailure(lifecycle.ActionApprove, id, err)
		return entities.Proposal{}, err
	}

	u.metrics.TransitionRecorded(string(lifecycle.ActionApprove), "success")
	log.Printf("[proposal][lifecycle] approve success proposal_id=%s number=%d approved_by=%s", approved.ID, approved.Number, actor.UserID)
	u.notifications.dispatch(ctx, entities.AuditEventApproved, approved, approved.ClientContactEmail)
	return approved, nil
}

func (u *LifecycleUseCase) Cancel(ctx context.Context, id string, reason string, actor entities.Actor) (entities.Proposal, error) {
	cancelled, err := optimistic("cancel", func() (entities.Proposal, error) {
		cur, err := loadProposal(ctx, u.repo, id)
		if err != nil {
			return entities.Proposal{}, err
		}
		to, err := lifecycle.Next(cur.Status, lifecycle.ActionCancel)
		if err != nil {
			return entities.Proposal{}, err
		}

		now := u.now()
		next := cur.Clone()
		next.Status = to
		next.CancelledAt = entities.TimePtr(now)
		next.CancelReason = strings.TrimSpace(reason)
		next.AccessToken = ""
		next.TokenExpiresAt = nil
		next.UpdatedAt = now
		next.Version = cur.Version + 1

		event := newAuditEvent(entities.AuditEventCancelled, cur, next, actor, now, map[string]any{
			"reason":        next.CancelReason,
			"token_revoked": cur.TokenLive(now),
		})
		return u.committer.Commit(ctx, next, interfaces.SwapCondition{Status: cur.Status, Version: cur.Version}, event)
	})
	if err != nil {
		u.recordFailure(lifecycle.ActionCancel, id, err)
		return entities.Proposal{}, err
	}

	u.metrics.TransitionRecorded(string(lifecycle.ActionCancel), "success")
	log.Printf("[proposal][lifecycle] cancel success proposal_id=%s number=%d", cancelled.ID, cancelled.Number)
	return cancelled, nil
}

func (u *LifecycleUseCase) RenewToken(ctx context.Context, id string, actor entities.Actor) (entities.Proposal, error) {
	renewed, err := u.issuer.Renew(ctx, id, 0, actor)
	if err != nil {
		u.recordFailure(lifecycle.ActionRenewToken, id, err)
		return entities.Proposal{}, err
	}

	u.metrics.TransitionRecorded(string(lifecycle.ActionRenewToken), "success")
	log.Printf("[proposal][lifecycle] token renewed proposal_id=%s token=%s expires_at=%s",
		renewed.ID, tokenHint(renewed.AccessToken), renewed.TokenExpiresAt.Format(time.RFC3339))
	u.notifications.dispatch(ctx, entities.AuditEventReminded, renewed, renewed.ClientContactEmail)
	return renewed, nil
}

func (u *LifecycleUseCase) RevokeToken(ctx context.Context, id string, actor entities.Actor) (entities.Proposal, error) {
	revoked, err := u.issuer.Revoke(ctx, id)
	if err != nil {
		u.recordFailure(lifecycle.ActionRevokeToken, id, err)
		return entities.Proposal{}, err
	}

	u.metrics.TransitionRecorded(string(lifecycle.ActionRevokeToken), "success")
	log.Printf("[proposal][lifecycle] token revoked proposal_id=%s by=%s", revoked.ID, actor.UserID)
	return revoked, nil
}

func (u *LifecycleUseCase) recordFailure(action lifecycle.Action, id string, err error) {
	result := "error"
	switch {
	case errors.Is(err, lifecycle.ErrInvalidTransition):
		result = "invalid_transition"
	case errors.Is(err, lifecycle.ErrValidationFailed):
		result = "validation_failed"
	case errors.Is(err, ErrConcurrentModification), errors.Is(err, ErrTokenAlreadyConsumed):
		result = "conflict"
	case errors.Is(err, ErrTokenInvalid), errors.Is(err, ErrProposalNotFound), errors.Is(err, ErrInvalidProposalID):
		result = "rejected"
	}
	u.metrics.TransitionRecorded(string(action), result)
	if result == "error" {
		log.Printf("[proposal][lifecycle] %s failed proposal_id=%s err=%v", action, id, err)
	}
}
