package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"focuscraft/internal/modules/state/domain"
	"focuscraft/internal/modules/state/service"
	"focuscraft/internal/platform/tx"
)

var testNow = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type fakeStore struct {
	state   domain.AppState
	ok      bool
	loadErr error
	saveErr error
	saves   []domain.AppState
}

func (s *fakeStore) Load(context.Context) (domain.AppState, bool, error) {
	return s.state, s.ok, s.loadErr
}

func (s *fakeStore) Save(_ context.Context, state domain.AppState) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves = append(s.saves, state)
	return nil
}

type fakeProjector struct {
	recorded []domain.Transaction
	rebuilds int
}

func (p *fakeProjector) Record(_ context.Context, t domain.Transaction) error {
	p.recorded = append(p.recorded, t)
	return nil
}

func (p *fakeProjector) Rebuild(_ context.Context, txs []domain.Transaction) error {
	p.rebuilds++
	p.recorded = append([]domain.Transaction(nil), txs...)
	return nil
}

func (p *fakeProjector) Recent(_ context.Context, limit int) ([]domain.Transaction, error) {
	if limit <= 0 || limit > len(p.recorded) {
		limit = len(p.recorded)
	}
	return p.recorded[:limit], nil
}

func newHydrated(t *testing.T, store *fakeStore, projector *fakeProjector) *service.Container {
	t.Helper()
	c := service.NewContainer(fixedClock{now: testNow}, store, projector, tx.NoopManager{})
	if err := c.Hydrate(context.Background()); err != nil {
		t.Fatalf("Hydrate: %v", err)
	}
	return c
}

func TestContainerHydrateFallsBackToInitialState(t *testing.T) {
	t.Parallel()

	c := newHydrated(t, &fakeStore{ok: false}, &fakeProjector{})
	state := c.Snapshot()
	if state.Wallet.Coins != 50 {
		t.Fatalf("coins = %d, want first-run 50", state.Wallet.Coins)
	}
	if len(state.Rewards) != 2 {
		t.Fatalf("rewards = %d, want 2 samples", len(state.Rewards))
	}
	if !state.Hydrated {
		t.Fatal("state not marked hydrated")
	}
}

func TestContainerHydrateLoadsPersistedStateAndRebuildsLedger(t *testing.T) {
	t.Parallel()

	persisted := domain.Initial(testNow)
	persisted.Wallet.Coins = 120
	persisted.Transactions = []domain.Transaction{
		{ID: "t2", Type: domain.TransactionSession, Amount: 10, Date: testNow, Note: "Completed 25 min session"},
		{ID: "t1", Type: domain.TransactionRedeem, Amount: -25, Date: testNow, Note: "Redeemed: Movie night"},
	}
	projector := &fakeProjector{}
	c := newHydrated(t, &fakeStore{state: persisted, ok: true}, projector)

	if got := c.Snapshot().Wallet.Coins; got != 120 {
		t.Fatalf("coins = %d, want 120", got)
	}
	if projector.rebuilds != 1 {
		t.Fatalf("rebuilds = %d, want 1", projector.rebuilds)
	}
	if len(projector.recorded) != 2 {
		t.Fatalf("projected %d entries, want 2", len(projector.recorded))
	}
}

func TestContainerDispatchPersistsAndProjectsNewEntries(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	projector := &fakeProjector{}
	c := newHydrated(t, store, projector)

	if _, _, err := c.Dispatch(context.Background(), domain.StartSession{SessionID: "s1", StartedAt: testNow, DurationMin: 25}); err != nil {
		t.Fatalf("start: %v", err)
	}
	next, outcome, err := c.Dispatch(context.Background(), domain.CompleteSession{TransactionID: "t1", Now: testNow})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if !outcome.Applied {
		t.Fatal("completion not applied")
	}
	if len(store.saves) != 2 {
		t.Fatalf("saved %d snapshots, want 2", len(store.saves))
	}
	if len(projector.recorded) != 1 || projector.recorded[0].ID != "t1" {
		t.Fatalf("projected = %+v, want the single completion entry", projector.recorded)
	}
	if next.Session != nil {
		t.Fatal("session still active after completion")
	}
}

func TestContainerDispatchSkipsPersistenceOnNoop(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	c := newHydrated(t, store, &fakeProjector{})

	_, outcome, err := c.Dispatch(context.Background(), domain.CompleteSession{TransactionID: "t1", Now: testNow})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if outcome.Applied {
		t.Fatal("completing without a session must be a no-op")
	}
	if outcome.Reason != domain.ReasonNoSession {
		t.Fatalf("reason = %q", outcome.Reason)
	}
	if len(store.saves) != 0 {
		t.Fatalf("saved %d snapshots on a no-op", len(store.saves))
	}
}

func TestContainerDispatchKeepsStateOnSaveFailure(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	c := newHydrated(t, store, &fakeProjector{})
	store.saveErr = errors.New("disk full")

	_, _, err := c.Dispatch(context.Background(), domain.StartSession{SessionID: "s1", StartedAt: testNow, DurationMin: 25})
	if err == nil {
		t.Fatal("expected save failure to surface")
	}
	if c.Snapshot().Session != nil {
		t.Fatal("state advanced despite failed persistence")
	}
}

func TestContainerDispatchProjectsMultipleEntriesOldestFirst(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	projector := &fakeProjector{}
	c := newHydrated(t, store, projector)

	ctx := context.Background()
	if _, _, err := c.Dispatch(ctx, domain.StartSession{SessionID: "s1", StartedAt: testNow, DurationMin: 25}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, _, err := c.Dispatch(ctx, domain.CompleteSession{TransactionID: "t1", Now: testNow}); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if _, _, err := c.Dispatch(ctx, domain.RedeemReward{Reward: c.Snapshot().Rewards[0], TransactionID: "t2", Now: testNow.Add(time.Minute)}); err != nil {
		t.Fatalf("redeem: %v", err)
	}

	if len(projector.recorded) != 2 {
		t.Fatalf("projected %d entries, want 2", len(projector.recorded))
	}
	if projector.recorded[0].ID != "t1" || projector.recorded[1].ID != "t2" {
		t.Fatalf("projection order = %s, %s; want t1 then t2", projector.recorded[0].ID, projector.recorded[1].ID)
	}
}

func TestContainerResetRebuildsProjection(t *testing.T) {
	t.Parallel()

	projector := &fakeProjector{}
	c := newHydrated(t, &fakeStore{}, projector)

	ctx := context.Background()
	if _, _, err := c.Dispatch(ctx, domain.StartSession{SessionID: "s1", StartedAt: testNow, DurationMin: 25}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, _, err := c.Dispatch(ctx, domain.CompleteSession{TransactionID: "t1", Now: testNow}); err != nil {
		t.Fatalf("complete: %v", err)
	}

	next, _, err := c.Dispatch(ctx, domain.ResetAppData{Now: testNow.Add(time.Hour)})
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if next.Wallet.Coins != 50 || len(next.Transactions) != 0 {
		t.Fatalf("reset state = %d coins, %d transactions", next.Wallet.Coins, len(next.Transactions))
	}
	if projector.rebuilds != 2 {
		t.Fatalf("rebuilds = %d, want one at hydrate and one at reset", projector.rebuilds)
	}
	if len(projector.recorded) != 0 {
		t.Fatalf("projection still holds %d entries after reset", len(projector.recorded))
	}
}
