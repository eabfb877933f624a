package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/galaxybank/ledger-core/internal/adapter/repository/repo_interfaces"
	"github.com/galaxybank/ledger-core/internal/domain"
	"github.com/galaxybank/ledger-core/internal/logger"
	"github.com/google/uuid"
)

// LedgerStore runs engine operations as single database transactions. Row
// locks are taken with SELECT ... FOR UPDATE before any balance read, so two
// concurrent withdrawals can never both observe a stale sufficient balance.
type LedgerStore struct {
	db *sql.DB
}

func NewLedgerStore(db *sql.DB) *LedgerStore {
	return &LedgerStore{db: db}
}

func (s *LedgerStore) InTx(ctx context.Context, fn func(tx repo_interfaces.TxSession) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("ledger store begin tx failed", err, nil)
		return fmt.Errorf("begin unit of work: %w", classifyError(err))
	}

	session := &txSession{tx: tx}
	if err := fn(session); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("ledger store rollback failed", rbErr, nil)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		logger.Error("ledger store commit tx failed", err, nil)
		return fmt.Errorf("commit unit of work: %w", classifyError(err))
	}

	return nil
}

type txSession struct {
	tx *sql.Tx
}

func (s *txSession) LockAccount(ctx context.Context, accountNumber string) (domain.Account, error) {
	const query = `
SELECT id, owner_id, account_number, balance, class, type, active, created_at, updated_at
FROM accounts
WHERE account_number = $1
FOR UPDATE`

	account, err := scanAccount(s.tx.QueryRowContext(ctx, query, accountNumber))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, domain.ErrAccountNotFound
		}
		if classified := classifyError(err); errors.Is(classified, domain.ErrContention) {
			return domain.Account{}, classified
		}
		logger.Error("ledger store lock account failed", err, logger.Fields{
			"accountNumber": accountNumber,
		})
		return domain.Account{}, fmt.Errorf("lock account: %w", err)
	}

	return account, nil
}

func (s *txSession) UpdateBalance(ctx context.Context, accountNumber string, balance domain.Money) error {
	const query = `
UPDATE accounts
SET balance = $2::numeric,
    updated_at = NOW()
WHERE account_number = $1`

	result, err := s.tx.ExecContext(ctx, query, accountNumber, balance.StringFixed())
	if err != nil {
		logger.Error("ledger store update balance failed", err, logger.Fields{
			"accountNumber": accountNumber,
		})
		return fmt.Errorf("update balance: %w", classifyError(err))
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update balance rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

func (s *txSession) AppendEntry(ctx context.Context, entry domain.LedgerEntry) (domain.LedgerEntry, error) {
	const query = `
INSERT INTO ledger_entries (
	id,
	account_id,
	account_number,
	actor_id,
	kind,
	amount,
	memo
) VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING created_at`

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	var createdAt time.Time
	if err := s.tx.QueryRowContext(
		ctx,
		query,
		entry.ID,
		entry.AccountID,
		entry.AccountNumber,
		entry.ActorID,
		entry.Kind,
		entry.Amount.StringFixed(),
		entry.Memo,
	).Scan(&createdAt); err != nil {
		logger.Error("ledger store append entry failed", err, logger.Fields{
			"accountNumber": entry.AccountNumber,
			"kind":          entry.Kind,
		})
		return domain.LedgerEntry{}, fmt.Errorf("append ledger entry: %w", classifyError(err))
	}

	entry.CreatedAt = createdAt
	return entry, nil
}

func (s *txSession) LockInvoice(ctx context.Context, invoiceNumber string) (domain.Invoice, error) {
	const query = `
SELECT id, invoice_number, issuer_account_id, issuer_account_number, service_kind,
       amount, description, status, payer_account_number, created_at, paid_at
FROM invoices
WHERE invoice_number = $1
FOR UPDATE`

	invoice, err := scanInvoice(s.tx.QueryRowContext(ctx, query, invoiceNumber))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Invoice{}, domain.ErrInvoiceNotFound
		}
		if classified := classifyError(err); errors.Is(classified, domain.ErrContention) {
			return domain.Invoice{}, classified
		}
		logger.Error("ledger store lock invoice failed", err, logger.Fields{
			"invoiceNumber": invoiceNumber,
		})
		return domain.Invoice{}, fmt.Errorf("lock invoice: %w", err)
	}

	return invoice, nil
}

func (s *txSession) MarkInvoicePaid(ctx context.Context, invoiceNumber string, payerAccountNumber string, paidAt time.Time) error {
	const query = `
UPDATE invoices
SET status = 'PAID',
    payer_account_number = $2,
    paid_at = $3
WHERE invoice_number = $1
  AND status = 'UNPAID'`

	result, err := s.tx.ExecContext(ctx, query, invoiceNumber, payerAccountNumber, paidAt)
	if err != nil {
		logger.Error("ledger store mark invoice paid failed", err, logger.Fields{
			"invoiceNumber": invoiceNumber,
		})
		return fmt.Errorf("mark invoice paid: %w", classifyError(err))
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark invoice paid rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrAlreadyPaid
	}

	return nil
}
