package out_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"focuscraft/internal/modules/state/adapter/out"
	"focuscraft/internal/modules/state/domain"
	stateout "focuscraft/internal/modules/state/port/out"
)

func newProjector(t *testing.T) stateout.LedgerProjector {
	t.Helper()
	p, err := out.NewSQLiteLedgerProjector(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("NewSQLiteLedgerProjector: %v", err)
	}
	return p
}

func TestSQLiteProjectorRecentOrdersNewestFirst(t *testing.T) {
	t.Parallel()

	p := newProjector(t)
	ctx := context.Background()

	entries := []domain.Transaction{
		{ID: "t1", Type: domain.TransactionSession, Amount: 10, Date: testNow, Note: "Completed 25 min session"},
		{ID: "t2", Type: domain.TransactionPenalty, Amount: -5, Date: testNow.Add(time.Minute), Note: "Abandoned 25 min session"},
		{ID: "t3", Type: domain.TransactionRedeem, Amount: -25, Date: testNow.Add(2 * time.Minute), Note: "Redeemed: Movie night"},
	}
	for _, e := range entries {
		if err := p.Record(ctx, e); err != nil {
			t.Fatalf("Record(%s): %v", e.ID, err)
		}
	}

	got, err := p.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}
	if got[0].ID != "t3" || got[1].ID != "t2" {
		t.Fatalf("order = %s, %s; want t3 then t2", got[0].ID, got[1].ID)
	}
	if got[0].Amount != -25 || got[0].Note != "Redeemed: Movie night" {
		t.Fatalf("entry = %+v", got[0])
	}
	if !got[0].Date.Equal(testNow.Add(2 * time.Minute)) {
		t.Fatalf("date = %v", got[0].Date)
	}
}

func TestSQLiteProjectorRecordIsIdempotent(t *testing.T) {
	t.Parallel()

	p := newProjector(t)
	ctx := context.Background()

	entry := domain.Transaction{ID: "t1", Type: domain.TransactionSession, Amount: 10, Date: testNow, Note: "Completed 25 min session"}
	if err := p.Record(ctx, entry); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := p.Record(ctx, entry); err != nil {
		t.Fatalf("duplicate Record: %v", err)
	}

	got, err := p.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d entries after duplicate insert, want 1", len(got))
	}
}

func TestSQLiteProjectorRebuildReplacesEverything(t *testing.T) {
	t.Parallel()

	p := newProjector(t)
	ctx := context.Background()

	if err := p.Record(ctx, domain.Transaction{ID: "stale", Type: domain.TransactionSession, Amount: 10, Date: testNow, Note: "old"}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	fresh := []domain.Transaction{
		{ID: "t1", Type: domain.TransactionRedeem, Amount: -20, Date: testNow, Note: "Redeemed: Gaming hour"},
	}
	if err := p.Rebuild(ctx, fresh); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	got, err := p.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 1 || got[0].ID != "t1" {
		t.Fatalf("entries after rebuild = %+v", got)
	}
}
