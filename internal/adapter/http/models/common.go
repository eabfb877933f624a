package models

import (
	"strings"
	"time"

	"github.com/galaxybank/ledger-core/internal/domain"
)

type AccountView struct {
	ID            string `json:"id"`
	OwnerID       string `json:"ownerId"`
	AccountNumber string `json:"accountNumber"`
	OwnerName     string `json:"ownerName,omitempty"`
	Balance       string `json:"balance"`
	Class         string `json:"class"`
	Type          string `json:"type"`
	Active        bool   `json:"active"`
	CreatedAt     string `json:"createdAt"`
	UpdatedAt     string `json:"updatedAt"`
}

func NewAccountView(account domain.Account) AccountView {
	return AccountView{
		ID:            account.ID,
		OwnerID:       account.OwnerID,
		AccountNumber: account.AccountNumber,
		Balance:       account.Balance.StringFixed(),
		Class:         string(account.Class),
		Type:          string(account.Type),
		Active:        account.Active,
		CreatedAt:     account.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     account.UpdatedAt.Format(time.RFC3339),
	}
}

type LedgerEntryView struct {
	ID            string `json:"id"`
	AccountNumber string `json:"accountNumber"`
	ActorID       string `json:"actorId,omitempty"`
	Kind          string `json:"kind"`
	Amount        string `json:"amount"`
	Memo          string `json:"memo"`
	CreatedAt     string `json:"createdAt"`
}

func NewLedgerEntryView(entry domain.LedgerEntry) LedgerEntryView {
	view := LedgerEntryView{
		ID:            entry.ID,
		AccountNumber: strings.TrimSpace(entry.AccountNumber),
		Kind:          string(entry.Kind),
		Amount:        entry.Amount.StringFixed(),
		Memo:          entry.Memo,
		CreatedAt:     entry.CreatedAt.Format(time.RFC3339),
	}
	if entry.ActorID != nil {
		view.ActorID = *entry.ActorID
	}
	return view
}

func NewLedgerEntryViews(entries []domain.LedgerEntry) []LedgerEntryView {
	views := make([]LedgerEntryView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, NewLedgerEntryView(entry))
	}
	return views
}

type InvoiceView struct {
	ID                  string `json:"id"`
	InvoiceNumber       string `json:"invoiceNumber"`
	IssuerAccountNumber string `json:"issuerAccountNumber"`
	ServiceKind         string `json:"serviceKind"`
	Amount              string `json:"amount"`
	Description         string `json:"description"`
	Status              string `json:"status"`
	PayerAccountNumber  string `json:"payerAccountNumber,omitempty"`
	CreatedAt           string `json:"createdAt"`
	PaidAt              string `json:"paidAt,omitempty"`
}

func NewInvoiceView(invoice domain.Invoice) InvoiceView {
	view := InvoiceView{
		ID:                  invoice.ID,
		InvoiceNumber:       invoice.InvoiceNumber,
		IssuerAccountNumber: strings.TrimSpace(invoice.IssuerAccountNumber),
		ServiceKind:         string(invoice.ServiceKind),
		Amount:              invoice.Amount.StringFixed(),
		Description:         invoice.Description,
		Status:              string(invoice.Status),
		CreatedAt:           invoice.CreatedAt.Format(time.RFC3339),
	}
	if invoice.PayerAccountNumber != nil {
		view.PayerAccountNumber = strings.TrimSpace(*invoice.PayerAccountNumber)
	}
	if invoice.PaidAt != nil {
		view.PaidAt = invoice.PaidAt.Format(time.RFC3339)
	}
	return view
}

func isTenDigits(value string) bool {
	trimmed := strings.TrimSpace(value)
	return len(trimmed) == 10 && digitsOnly(trimmed)
}

func digitsOnly(value string) bool {
	for _, ch := range value {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}
