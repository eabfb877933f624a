package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/galaxybank/ledger-core/internal/adapter/repository/repo_interfaces"
	"github.com/galaxybank/ledger-core/internal/domain"
)

// fakeStore is an in-memory Store whose sessions stage every write and apply
// it only when the unit-of-work callback returns nil, mirroring the commit
// and rollback behavior of the real database-backed store.
type fakeStore struct {
	accounts map[string]domain.Account
	invoices map[string]domain.Invoice
	entries  []domain.LedgerEntry

	// lockOrder records every LockAccount call across all sessions so tests
	// can assert the ascending-number locking discipline.
	lockOrder []string

	entrySeq int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		accounts: make(map[string]domain.Account),
		invoices: make(map[string]domain.Invoice),
	}
}

func (s *fakeStore) addAccount(t *testing.T, number, balance string, active bool) {
	amount, err := domain.ParseMoney(balance)
	if err != nil {
		t.Fatalf("ParseMoney(%q) failed: %v", balance, err)
	}
	s.accounts[number] = domain.Account{
		ID:            "acc-" + number,
		OwnerID:       "owner-" + number,
		AccountNumber: number,
		Balance:       amount,
		Class:         domain.AccountClassSilver,
		Type:          domain.AccountTypePersonal,
		Active:        active,
	}
}

func (s *fakeStore) addInvoice(t *testing.T, number, issuerNumber, amount string, status domain.InvoiceStatus) {
	parsed, err := domain.ParseMoney(amount)
	if err != nil {
		t.Fatalf("ParseMoney(%q) failed: %v", amount, err)
	}
	s.invoices[number] = domain.Invoice{
		ID:                  "inv-" + number,
		InvoiceNumber:       number,
		IssuerAccountID:     "acc-" + issuerNumber,
		IssuerAccountNumber: issuerNumber,
		ServiceKind:         domain.ServiceKindElectricity,
		Amount:              parsed,
		Status:              status,
	}
}

func (s *fakeStore) balance(number string) string {
	return s.accounts[number].Balance.StringFixed()
}

func (s *fakeStore) InTx(ctx context.Context, fn func(tx repo_interfaces.TxSession) error) error {
	session := &fakeTxSession{
		store:          s,
		stagedBalances: make(map[string]domain.Money),
		stagedPayments: make(map[string]invoicePayment),
	}
	if err := fn(session); err != nil {
		return err
	}
	session.apply()
	return nil
}

type invoicePayment struct {
	payerAccountNumber string
	paidAt             time.Time
}

type fakeTxSession struct {
	store          *fakeStore
	stagedBalances map[string]domain.Money
	stagedEntries  []domain.LedgerEntry
	stagedPayments map[string]invoicePayment
}

func (tx *fakeTxSession) LockAccount(ctx context.Context, accountNumber string) (domain.Account, error) {
	tx.store.lockOrder = append(tx.store.lockOrder, accountNumber)

	account, ok := tx.store.accounts[accountNumber]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}
	if staged, ok := tx.stagedBalances[accountNumber]; ok {
		account.Balance = staged
	}
	return account, nil
}

func (tx *fakeTxSession) UpdateBalance(ctx context.Context, accountNumber string, balance domain.Money) error {
	if _, ok := tx.store.accounts[accountNumber]; !ok {
		return domain.ErrAccountNotFound
	}
	tx.stagedBalances[accountNumber] = balance
	return nil
}

func (tx *fakeTxSession) AppendEntry(ctx context.Context, entry domain.LedgerEntry) (domain.LedgerEntry, error) {
	tx.store.entrySeq++
	entry.ID = fmt.Sprintf("entry-%d", tx.store.entrySeq)
	entry.CreatedAt = time.Now().UTC()
	tx.stagedEntries = append(tx.stagedEntries, entry)
	return entry, nil
}

func (tx *fakeTxSession) LockInvoice(ctx context.Context, invoiceNumber string) (domain.Invoice, error) {
	invoice, ok := tx.store.invoices[invoiceNumber]
	if !ok {
		return domain.Invoice{}, domain.ErrInvoiceNotFound
	}
	return invoice, nil
}

func (tx *fakeTxSession) MarkInvoicePaid(ctx context.Context, invoiceNumber string, payerAccountNumber string, paidAt time.Time) error {
	invoice, ok := tx.store.invoices[invoiceNumber]
	if !ok {
		return domain.ErrInvoiceNotFound
	}
	if invoice.Status != domain.InvoiceStatusUnpaid {
		return domain.ErrAlreadyPaid
	}
	tx.stagedPayments[invoiceNumber] = invoicePayment{
		payerAccountNumber: payerAccountNumber,
		paidAt:             paidAt,
	}
	return nil
}

func (tx *fakeTxSession) apply() {
	for number, balance := range tx.stagedBalances {
		account := tx.store.accounts[number]
		account.Balance = balance
		tx.store.accounts[number] = account
	}
	tx.store.entries = append(tx.store.entries, tx.stagedEntries...)
	for number, payment := range tx.stagedPayments {
		invoice := tx.store.invoices[number]
		invoice.Status = domain.InvoiceStatusPaid
		payer := payment.payerAccountNumber
		paidAt := payment.paidAt
		invoice.PayerAccountNumber = &payer
		invoice.PaidAt = &paidAt
		tx.store.invoices[number] = invoice
	}
}

// fakeAccountRepo is an in-memory AccountRepository with optional error
// injection for the number-collision retry paths.
type fakeAccountRepo struct {
	accounts map[string]domain.Account

	createErrs []error
	idSeq      int
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: make(map[string]domain.Account)}
}

func (r *fakeAccountRepo) Create(ctx context.Context, account domain.Account) (domain.Account, error) {
	if len(r.createErrs) > 0 {
		err := r.createErrs[0]
		r.createErrs = r.createErrs[1:]
		if err != nil {
			return domain.Account{}, err
		}
	}
	if _, exists := r.accounts[account.AccountNumber]; exists {
		return domain.Account{}, domain.ErrDuplicateNumber
	}

	r.idSeq++
	account.ID = fmt.Sprintf("acc-%d", r.idSeq)
	now := time.Now().UTC()
	account.CreatedAt = now
	account.UpdatedAt = now
	r.accounts[account.AccountNumber] = account
	return account, nil
}

func (r *fakeAccountRepo) GetByAccountNumber(ctx context.Context, accountNumber string) (domain.Account, error) {
	account, ok := r.accounts[accountNumber]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}
	return account, nil
}

func (r *fakeAccountRepo) SetActive(ctx context.Context, accountNumber string, active bool) error {
	account, ok := r.accounts[accountNumber]
	if !ok {
		return domain.ErrAccountNotFound
	}
	account.Active = active
	r.accounts[accountNumber] = account
	return nil
}

func (r *fakeAccountRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.accounts)), nil
}

func (r *fakeAccountRepo) SumBalances(ctx context.Context, ceiling domain.Money) (domain.Money, int64, error) {
	total := domain.ZeroMoney
	var flagged int64
	for _, account := range r.accounts {
		if account.Balance.AtOrAbove(ceiling) {
			flagged++
			continue
		}
		total = total.Add(account.Balance)
	}
	return total, flagged, nil
}

type fakeLedgerRepo struct {
	entries []domain.LedgerEntry
}

func (r *fakeLedgerRepo) ListForAccount(ctx context.Context, accountNumber string, limit int) ([]domain.LedgerEntry, error) {
	var out []domain.LedgerEntry
	for _, entry := range r.entries {
		if entry.AccountNumber == accountNumber {
			out = append(out, entry)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeLedgerRepo) Recent(ctx context.Context, limit int) ([]domain.LedgerEntry, error) {
	if len(r.entries) <= limit {
		return r.entries, nil
	}
	return r.entries[:limit], nil
}

type fakeInvoiceRepo struct {
	invoices map[string]domain.Invoice

	createErrs []error
	idSeq      int
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{invoices: make(map[string]domain.Invoice)}
}

func (r *fakeInvoiceRepo) Create(ctx context.Context, invoice domain.Invoice) (domain.Invoice, error) {
	if len(r.createErrs) > 0 {
		err := r.createErrs[0]
		r.createErrs = r.createErrs[1:]
		if err != nil {
			return domain.Invoice{}, err
		}
	}
	if _, exists := r.invoices[invoice.InvoiceNumber]; exists {
		return domain.Invoice{}, domain.ErrDuplicateNumber
	}

	r.idSeq++
	invoice.ID = fmt.Sprintf("inv-%d", r.idSeq)
	invoice.CreatedAt = time.Now().UTC()
	r.invoices[invoice.InvoiceNumber] = invoice
	return invoice, nil
}

func (r *fakeInvoiceRepo) GetByNumber(ctx context.Context, invoiceNumber string) (domain.Invoice, error) {
	invoice, ok := r.invoices[invoiceNumber]
	if !ok {
		return domain.Invoice{}, domain.ErrInvoiceNotFound
	}
	return invoice, nil
}

func (r *fakeInvoiceRepo) ListForIssuer(ctx context.Context, issuerAccountNumber string, limit int) ([]domain.Invoice, error) {
	var out []domain.Invoice
	for _, invoice := range r.invoices {
		if invoice.IssuerAccountNumber == issuerAccountNumber {
			out = append(out, invoice)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

type fakeDirectory struct {
	customers map[string]domain.Customer
	err       error
}

func (d *fakeDirectory) GetCustomer(ctx context.Context, ownerID string) (domain.Customer, error) {
	if d.err != nil {
		return domain.Customer{}, d.err
	}
	customer, ok := d.customers[ownerID]
	if !ok {
		return domain.Customer{}, fmt.Errorf("customer %s not found", ownerID)
	}
	return customer, nil
}
