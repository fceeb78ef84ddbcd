package usecase

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"propostas_service/internal/adapter/persistence/repository"
	"propostas_service/internal/domain/entities"
	"propostas_service/internal/domain/masking"
	"propostas_service/internal/usecase/interfaces"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func (c *testClock) Advance(d time.Duration) {
	c.Set(c.Now().Add(d))
}

// testEnv wires every use case over one in-memory store and a shared clock.
type testEnv struct {
	store      *repository.MemoryStore
	clock      *testClock
	issuer     *TokenIssuer
	lifecycle  *LifecycleUseCase
	proposals  *ProposalUseCase
	public     *PublicProposalUseCase
	audit      *AuditUseCase
	reconciler *ReconcilerUseCase
}

type envOption func(*envConfig)

type envConfig struct {
	notifier interfaces.INotifier
	images   interfaces.ISignatureImageStore
	renderer interfaces.IDocumentRenderer
	mode     string
	wrap     func(*repository.MemoryStore) interfaces.IProposalRepository
}

func withNotifier(n interfaces.INotifier) envOption {
	return func(c *envConfig) { c.notifier = n }
}

func withImageStore(s interfaces.ISignatureImageStore) envOption {
	return func(c *envConfig) { c.images = s }
}

func withRenderer(r interfaces.IDocumentRenderer) envOption {
	return func(c *envConfig) { c.renderer = r }
}

func withMode(mode string) envOption {
	return func(c *envConfig) { c.mode = mode }
}

// withCommitStore routes the committer's writes through wrap, leaving reads
// on the plain store.
func withCommitStore(wrap func(*repository.MemoryStore) interfaces.IProposalRepository) envOption {
	return func(c *envConfig) { c.wrap = wrap }
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()
	cfg := envConfig{mode: TransitionModeAtomic}
	for _, o := range opts {
		o(&cfg)
	}

	store := repository.NewMemoryStore()
	clock := newTestClock()
	var commitStore interfaces.IProposalRepository = store
	if cfg.wrap != nil {
		commitStore = cfg.wrap(store)
	}
	committer, err := NewTransitionCommitter(commitStore, store, cfg.mode)
	if err != nil {
		t.Fatalf("committer: %v", err)
	}

	issuer := NewTokenIssuer(store, committer, nil, 0)
	issuer.now = clock.Now

	lc := NewLifecycleUseCase(store, committer, issuer, cfg.notifier, nil, time.Second)
	lc.now = clock.Now
	t.Cleanup(lc.Drain)

	audit := NewAuditUseCase(store)
	audit.now = clock.Now

	proposals := NewProposalUseCase(store, masking.DefaultPolicy(), cfg.renderer)
	proposals.now = clock.Now

	public := NewPublicProposalUseCase(issuer, lc, audit, cfg.images, masking.DefaultPolicy(), cfg.renderer)

	reconciler := NewReconcilerUseCase(store, store)
	reconciler.now = clock.Now

	return &testEnv{
		store:      store,
		clock:      clock,
		issuer:     issuer,
		lifecycle:  lc,
		proposals:  proposals,
		public:     public,
		audit:      audit,
		reconciler: reconciler,
	}
}

func electricalRewireDraft() DraftInput {
	return DraftInput{
		ClientID:           "client-1",
		ClientName:         "Jane Doe",
		ClientContactEmail: "jane@example.com",
		Title:              "Electrical rewire",
		Scope:              "Replace panel",
		Terms:              "50% upfront",
		Stages: []entities.ProposalStage{
			{Title: "Panel replacement", Description: "Swap the main panel", EstimatedCost: 2100},
		},
		Materials: []entities.ProposalMaterial{
			{Name: "200A panel", Quantity: 1, Unit: "un", Supplier: "ElectroSupply", UnitCost: 900},
		},
		EstimatedValue: 3000,
		Margin:         0.5,
		Price:          4500.00,
	}
}

var (
	staff  = entities.UserActor("staff-1")
	client = entities.ClientActor("203.0.113.7", "Mozilla/5.0")
)

func typedSignature(name string) entities.Signature {
	return entities.Signature{
		SignerName:    name,
		Method:        entities.SignatureMethodTyped,
		Consent:       true,
		TermsAccepted: true,
	}
}

// sentProposal creates a draft and sends it.
func (e *testEnv) sentProposal(t *testing.T) entities.Proposal {
	t.Helper()
	ctx := context.Background()
	draft, err := e.proposals.CreateDraft(ctx, electricalRewireDraft(), staff)
	if err != nil {
		t.Fatalf("create draft: %v", err)
	}
	sent, err := e.lifecycle.Send(ctx, draft.ID, staff)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	return sent
}

// signedProposal creates, sends and signs a proposal.
func (e *testEnv) signedProposal(t *testing.T) entities.Proposal {
	t.Helper()
	sent := e.sentProposal(t)
	res, err := e.lifecycle.Sign(context.Background(), sent.AccessToken, typedSignature("Jane Doe"), client)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return res.Proposal
}

func (e *testEnv) history(t *testing.T, id string) []entities.AuditEvent {
	t.Helper()
	events, err := e.audit.History(context.Background(), id)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	return events
}

func kinds(events []entities.AuditEvent) []entities.AuditEventKind {
	out := make([]entities.AuditEventKind, len(events))
	for i, e := range events {
		out[i] = e.Kind
	}
	return out
}

func hexOf(n int) string {
	return strings.Repeat("a", n)
}

func interfacesCond(p entities.Proposal) interfaces.SwapCondition {
	return interfaces.SwapCondition{Status: p.Status, Version: p.Version}
}
