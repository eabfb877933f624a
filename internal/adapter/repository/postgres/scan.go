package postgres

import (
	"database/sql"
	"fmt"

	"github.com/galaxybank/ledger-core/internal/domain"
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (domain.Account, error) {
	var (
		account domain.Account
		balance string
	)

	if err := row.Scan(
		&account.ID,
		&account.OwnerID,
		&account.AccountNumber,
		&balance,
		&account.Class,
		&account.Type,
		&account.Active,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		return domain.Account{}, err
	}

	parsed, err := domain.ParseMoney(balance)
	if err != nil {
		return domain.Account{}, fmt.Errorf("stored balance %q is not valid money: %w", balance, err)
	}
	account.Balance = parsed

	return account, nil
}

func scanEntry(row rowScanner) (domain.LedgerEntry, error) {
	var (
		entry   domain.LedgerEntry
		actorID sql.NullString
		amount  string
	)

	if err := row.Scan(
		&entry.ID,
		&entry.AccountID,
		&entry.AccountNumber,
		&actorID,
		&entry.Kind,
		&amount,
		&entry.Memo,
		&entry.CreatedAt,
	); err != nil {
		return domain.LedgerEntry{}, err
	}

	parsed, err := domain.ParseMoney(amount)
	if err != nil {
		return domain.LedgerEntry{}, fmt.Errorf("stored amount %q is not valid money: %w", amount, err)
	}
	entry.Amount = parsed

	if actorID.Valid {
		value := actorID.String
		entry.ActorID = &value
	}

	return entry, nil
}

func scanInvoice(row rowScanner) (domain.Invoice, error) {
	var (
		invoice            domain.Invoice
		amount             string
		payerAccountNumber sql.NullString
		paidAt             sql.NullTime
	)

	if err := row.Scan(
		&invoice.ID,
		&invoice.InvoiceNumber,
		&invoice.IssuerAccountID,
		&invoice.IssuerAccountNumber,
		&invoice.ServiceKind,
		&amount,
		&invoice.Description,
		&invoice.Status,
		&payerAccountNumber,
		&invoice.CreatedAt,
		&paidAt,
	); err != nil {
		return domain.Invoice{}, err
	}

	parsed, err := domain.ParseMoney(amount)
	if err != nil {
		return domain.Invoice{}, fmt.Errorf("stored amount %q is not valid money: %w", amount, err)
	}
	invoice.Amount = parsed

	if payerAccountNumber.Valid {
		value := payerAccountNumber.String
		invoice.PayerAccountNumber = &value
	}
	if paidAt.Valid {
		value := paidAt.Time
		invoice.PaidAt = &value
	}

	return invoice, nil
}
