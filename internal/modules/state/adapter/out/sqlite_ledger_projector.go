package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"focuscraft/internal/modules/state/domain"
	stateout "focuscraft/internal/modules/state/port/out"

	_ "modernc.org/sqlite"
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

// SQLiteLedgerProjector is a read model over the transaction ledger. The
// JSON blob stays authoritative; this table only exists so history can be
// queried with a LIMIT instead of decoding the whole blob.
type SQLiteLedgerProjector struct {
	db *sql.DB
}

func NewSQLiteLedgerProjector(dbPath string) (stateout.LedgerProjector, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	projector := &SQLiteLedgerProjector{db: db}
	if err := projector.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return projector, nil
}

func (p *SQLiteLedgerProjector) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS transactions (
  id TEXT PRIMARY KEY,
  type TEXT NOT NULL,
  amount INTEGER NOT NULL,
  date TEXT NOT NULL,
  note TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(date DESC);
`
	if _, err := p.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create transactions table: %w", err)
	}
	return nil
}

func (p *SQLiteLedgerProjector) Record(ctx context.Context, tx domain.Transaction) error {
	const stmt = `
INSERT INTO transactions (id, type, amount, date, note)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(id) DO NOTHING;
`
	if _, err := p.db.ExecContext(ctx, stmt, tx.ID, string(tx.Type), tx.Amount, tx.Date.UTC().Format(timeLayout), tx.Note); err != nil {
		return fmt.Errorf("record transaction: %w", err)
	}
	return nil
}

func (p *SQLiteLedgerProjector) Rebuild(ctx context.Context, txs []domain.Transaction) error {
	if _, err := p.db.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
		return fmt.Errorf("reset transactions: %w", err)
	}
	for _, tx := range txs {
		if err := p.Record(ctx, tx); err != nil {
			return err
		}
	}
	return nil
}

func (p *SQLiteLedgerProjector) Recent(ctx context.Context, limit int) ([]domain.Transaction, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := p.db.QueryContext(ctx, `SELECT id, type, amount, date, note FROM transactions ORDER BY date DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	out := []domain.Transaction{}
	for rows.Next() {
		var (
			tx      domain.Transaction
			txType  string
			rawDate string
		)
		if err := rows.Scan(&tx.ID, &txType, &tx.Amount, &rawDate, &tx.Note); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		tx.Type = domain.TransactionType(txType)
		date, err := time.Parse(timeLayout, rawDate)
		if err != nil {
			return nil, fmt.Errorf("parse transaction date: %w", err)
		}
		tx.Date = date
		out = append(out, tx)
	}
	return out, rows.Err()
}
