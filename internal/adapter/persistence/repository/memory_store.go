package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"propostas_service/internal/domain/entities"
	"propostas_service/internal/usecase/interfaces"
)

// MemoryStore keeps proposals and audit events in process memory. All
// writes happen under one mutex, so CompareAndSwapWithEvent is atomic.
// Intended for local runs and tests.
type MemoryStore struct {
	mu        sync.Mutex
	proposals map[string]entities.Proposal
	byToken   map[string]string
	events    map[string][]entities.AuditEvent
	counter   int64
}

var (
	_ interfaces.IAtomicProposalRepository = (*MemoryStore)(nil)
	_ interfaces.IAuditRepository          = (*MemoryStore)(nil)
)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		proposals: map[string]entities.Proposal{},
		byToken:   map[string]string{},
		events:    map[string][]entities.AuditEvent{},
	}
}

func (s *MemoryStore) NextNumber(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counter++
	return s.counter, nil
}

func (s *MemoryStore) Create(ctx context.Context, p entities.Proposal) (entities.Proposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.proposals[p.ID]; ok {
		return entities.Proposal{}, fmt.Errorf("proposal %s already exists", p.ID)
	}
	s.put(p)
	return p.Clone(), nil
}

func (s *MemoryStore) GetByID(ctx context.Context, id string) (entities.Proposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.proposals[id]
	if !ok {
		return entities.Proposal{}, nil
	}
	return p.Clone(), nil
}

func (s *MemoryStore) GetByToken(ctx context.Context, token string) (entities.Proposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token == "" {
		return entities.Proposal{}, nil
	}
	id, ok := s.byToken[token]
	if !ok {
		return entities.Proposal{}, nil
	}
	return s.proposals[id].Clone(), nil
}

func (s *MemoryStore) CompareAndSwap(ctx context.Context, next entities.Proposal, cond interfaces.SwapCondition) (entities.Proposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.matches(next.ID, cond); err != nil {
		return entities.Proposal{}, err
	}
	s.put(next)
	return next.Clone(), nil
}

func (s *MemoryStore) CompareAndSwapWithEvent(ctx context.Context, next entities.Proposal, cond interfaces.SwapCondition, event entities.AuditEvent) (entities.Proposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.matches(next.ID, cond); err != nil {
		return entities.Proposal{}, err
	}
	s.put(next)
	s.events[event.ProposalID] = append(s.events[event.ProposalID], event)
	return next.Clone(), nil
}

func (s *MemoryStore) ListWithTokenExpiredBefore(ctx context.Context, before time.Time, limit int) ([]entities.Proposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entities.Proposal
	for _, id := range s.byToken {
		p := s.proposals[id]
		if p.TokenExpiresAt == nil || !p.TokenExpiresAt.Before(before) {
			continue
		}
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TokenExpiresAt.Before(*out[j].TokenExpiresAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) matches(id string, cond interfaces.SwapCondition) error {
	cur, ok := s.proposals[id]
	switch {
	case !ok, cur.IsDeleted():
		return interfaces.ErrPreconditionFailed
	case cur.Status != cond.Status, cur.Version != cond.Version:
		return interfaces.ErrPreconditionFailed
	case cond.Token != "" && cur.AccessToken != cond.Token:
		return interfaces.ErrPreconditionFailed
	}
	return nil
}

// put stores a copy of p and keeps the token index in step.
func (s *MemoryStore) put(p entities.Proposal) {
	if old, ok := s.proposals[p.ID]; ok && old.AccessToken != "" && old.AccessToken != p.AccessToken {
		delete(s.byToken, old.AccessToken)
	}
	if p.AccessToken != "" {
		s.byToken[p.AccessToken] = p.ID
	}
	s.proposals[p.ID] = p.Clone()
}

func (s *MemoryStore) Append(ctx context.Context, e entities.AuditEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[e.ProposalID] = append(s.events[e.ProposalID], e)
	return nil
}

func (s *MemoryStore) ListByProposalID(ctx context.Context, proposalID string) ([]entities.AuditEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entities.AuditEvent, len(s.events[proposalID]))
	copy(out, s.events[proposalID])
	return out, nil
}

func (s *MemoryStore) ListPending(ctx context.Context, olderThan time.Time) ([]entities.AuditEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entities.AuditEvent
	for _, events := range s.events {
		for _, e := range events {
			if e.State == entities.AuditEventStatePending && e.Timestamp.Before(olderThan) {
				out = append(out, e)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (s *MemoryStore) SetState(ctx context.Context, e entities.AuditEvent, state entities.AuditEventState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := s.events[e.ProposalID]
	for i := range events {
		if events[i].ID != e.ID {
			continue
		}
		if events[i].State != entities.AuditEventStatePending {
			return fmt.Errorf("audit event %s is %s, not pending", e.ID, events[i].State)
		}
		events[i].State = state
		return nil
	}
	return fmt.Errorf("audit event %s not found", e.ID)
}
