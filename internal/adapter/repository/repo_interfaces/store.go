package repo_interfaces

import (
	"context"
	"time"

	"github.com/galaxybank/ledger-core/internal/domain"
)

// TxSession is the handle the transaction engine works through inside one
// unit of work. Lock methods acquire row-level exclusive locks held until
// the unit of work commits or rolls back; callers must lock before reading
// any balance used for a decision.
type TxSession interface {
	// LockAccount resolves an account by number and locks its row.
	// Deactivated accounts still resolve; missing numbers fail with
	// domain.ErrAccountNotFound.
	LockAccount(ctx context.Context, accountNumber string) (domain.Account, error)

	// UpdateBalance persists a new balance for a previously locked account.
	UpdateBalance(ctx context.Context, accountNumber string, balance domain.Money) error

	// AppendEntry durably stores one immutable ledger entry.
	AppendEntry(ctx context.Context, entry domain.LedgerEntry) (domain.LedgerEntry, error)

	// LockInvoice resolves an invoice by number and locks its row.
	LockInvoice(ctx context.Context, invoiceNumber string) (domain.Invoice, error)

	// MarkInvoicePaid flips an UNPAID invoice to PAID. It fails with
	// domain.ErrAlreadyPaid when the invoice is no longer UNPAID.
	MarkInvoicePaid(ctx context.Context, invoiceNumber string, payerAccountNumber string, paidAt time.Time) error
}

// Store runs engine operations as atomic units of work. The callback either
// returns nil and the whole unit commits, or returns an error and every
// effect rolls back. Lock waits cut short by the database surface as
// domain.ErrContention.
type Store interface {
	InTx(ctx context.Context, fn func(tx TxSession) error) error
}

type AccountRepository interface {
	// Create persists a new account. A colliding account number fails with
	// domain.ErrDuplicateNumber so the caller can retry generation.
	Create(ctx context.Context, account domain.Account) (domain.Account, error)
	GetByAccountNumber(ctx context.Context, accountNumber string) (domain.Account, error)
	SetActive(ctx context.Context, accountNumber string, active bool) error
	Count(ctx context.Context) (int64, error)
	// SumBalances totals balances strictly below the ceiling and counts the
	// accounts at/above it so they can be surfaced instead of hidden.
	SumBalances(ctx context.Context, ceiling domain.Money) (domain.Money, int64, error)
}

type LedgerRepository interface {
	ListForAccount(ctx context.Context, accountNumber string, limit int) ([]domain.LedgerEntry, error)
	Recent(ctx context.Context, limit int) ([]domain.LedgerEntry, error)
}

type InvoiceRepository interface {
	// Create persists a new invoice. A colliding invoice number fails with
	// domain.ErrDuplicateNumber so the caller can retry generation.
	Create(ctx context.Context, invoice domain.Invoice) (domain.Invoice, error)
	GetByNumber(ctx context.Context, invoiceNumber string) (domain.Invoice, error)
	ListForIssuer(ctx context.Context, issuerAccountNumber string, limit int) ([]domain.Invoice, error)
}
