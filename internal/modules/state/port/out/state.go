package out

import (
	"context"

	"focuscraft/internal/modules/state/domain"
)

// StateStore persists the opaque state blob.
type StateStore interface {
	// Load returns the migrated stored state, or (zero, false) when no
	// blob exists yet.
	Load(ctx context.Context) (domain.AppState, bool, error)
	Save(ctx context.Context, state domain.AppState) error
}

// LedgerProjector maintains a queryable read model of the transaction
// ledger. It is derived state: rebuilding it from the blob is always safe.
type LedgerProjector interface {
	Record(ctx context.Context, tx domain.Transaction) error
	Rebuild(ctx context.Context, txs []domain.Transaction) error
	Recent(ctx context.Context, limit int) ([]domain.Transaction, error)
}
