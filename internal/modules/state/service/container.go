package service

import (
	"context"
	"fmt"
	"sync"

	"focuscraft/internal/modules/state/domain"
	stateout "focuscraft/internal/modules/state/port/out"
	"focuscraft/internal/platform/clock"
	"focuscraft/internal/platform/tx"
)

// Container owns the single AppState. Dispatch is the only mutation entry
// point; every caller (UI intents, timer ticks, the visibility handler)
// funnels through the same mutex, so two dispatches
// can never interleave. Readers only ever get deep clones.
type Container struct {
	clock     clock.Clock
	store     stateout.StateStore
	projector stateout.LedgerProjector
	txm       tx.Manager

	mu    sync.Mutex
	state domain.AppState
}

func NewContainer(clk clock.Clock, store stateout.StateStore, projector stateout.LedgerProjector, txm tx.Manager) *Container {
	return &Container{clock: clk, store: store, projector: projector, txm: txm}
}

// Hydrate loads the persisted blob (or the hard-coded initial state when
// none exists or the blob is unreadable) and rebuilds the ledger read
// model. It must run before any other dispatch.
func (c *Container) Hydrate(ctx context.Context) error {
	loaded, ok, err := c.store.Load(ctx)
	if err != nil || !ok {
		// An unreadable blob falls back to first-run state rather than
		// leaving the app unhydrated.
		loaded = domain.Initial(c.clock.Now())
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	next, _ := domain.Reduce(c.state, domain.Hydrate{State: loaded})
	c.state = next
	return c.projector.Rebuild(ctx, next.Transactions)
}

// Dispatch applies one action and, when it changed the state, persists
// the new snapshot and projects any freshly appended ledger entries. The
// full snapshot is built before a single byte is written.
func (c *Container) Dispatch(ctx context.Context, action domain.Action) (domain.AppState, domain.Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, outcome := domain.Reduce(c.state, action)
	if !outcome.Applied {
		return c.state.Clone(), outcome, nil
	}

	var appended []domain.Transaction
	if n := len(next.Transactions) - len(c.state.Transactions); n > 0 {
		appended = next.Transactions[:n]
	}
	err := c.txm.Within(ctx, func(ctx context.Context) error {
		if err := c.store.Save(ctx, next); err != nil {
			return fmt.Errorf("save state: %w", err)
		}
		// The ledger is prepend-only, so everything beyond the old
		// length is new.
		for i := len(appended) - 1; i >= 0; i-- {
			if err := c.projector.Record(ctx, appended[i]); err != nil {
				return fmt.Errorf("project transaction: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return c.state.Clone(), domain.Outcome{}, err
	}

	if _, isReset := action.(domain.ResetAppData); isReset {
		if err := c.projector.Rebuild(ctx, next.Transactions); err != nil {
			return c.state.Clone(), domain.Outcome{}, fmt.Errorf("rebuild ledger projection: %w", err)
		}
	}

	c.state = next
	return next.Clone(), outcome, nil
}

// Snapshot returns a deep copy of the current state.
func (c *Container) Snapshot() domain.AppState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}
