package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/galaxybank/ledger-core/internal/domain"
	"github.com/galaxybank/ledger-core/internal/logger"
)

// LedgerRepository is the read side of the audit trail. Writes go through
// the LedgerStore unit of work only; no update or delete path exists.
type LedgerRepository struct {
	db *sql.DB
}

func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) ListForAccount(ctx context.Context, accountNumber string, limit int) ([]domain.LedgerEntry, error) {
	const query = `
SELECT id, account_id, account_number, actor_id, kind, amount, memo, created_at
FROM ledger_entries
WHERE account_number = $1
ORDER BY created_at DESC, id DESC
LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, accountNumber, limit)
	if err != nil {
		logger.Error("ledger repository list for account failed", err, logger.Fields{
			"accountNumber": accountNumber,
		})
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()

	return collectEntries(rows)
}

func (r *LedgerRepository) Recent(ctx context.Context, limit int) ([]domain.LedgerEntry, error) {
	const query = `
SELECT id, account_id, account_number, actor_id, kind, amount, memo, created_at
FROM ledger_entries
ORDER BY created_at DESC, id DESC
LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		logger.Error("ledger repository recent failed", err, nil)
		return nil, fmt.Errorf("list recent ledger entries: %w", err)
	}
	defer rows.Close()

	return collectEntries(rows)
}

func collectEntries(rows *sql.Rows) ([]domain.LedgerEntry, error) {
	entries := make([]domain.LedgerEntry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger entries: %w", err)
	}
	return entries, nil
}
