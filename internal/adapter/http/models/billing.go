package models

import (
	"errors"
	"strings"

	"github.com/galaxybank/ledger-core/internal/domain"
	"github.com/shopspring/decimal"
)

type IssueInvoiceRequest struct {
	IssuerAccountNumber string          `json:"issuerAccountNumber"`
	ServiceKind         string          `json:"serviceKind"`
	Amount              decimal.Decimal `json:"amount"`
	Description         string          `json:"description"`
}

func (r IssueInvoiceRequest) Validate() error {
	var errs []string

	if !isTenDigits(r.IssuerAccountNumber) {
		errs = append(errs, "issuerAccountNumber must be exactly 10 digits")
	}
	if !domain.IsValidServiceKind(strings.ToUpper(strings.TrimSpace(r.ServiceKind))) {
		errs = append(errs, "serviceKind must be one of ELECTRICITY, INTERNET, TAX, SHOPPING, OTHER")
	}
	if r.Amount.LessThanOrEqual(decimal.Zero) {
		errs = append(errs, "amount must be greater than zero")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type PayInvoiceRequest struct {
	InvoiceNumber      string `json:"invoiceNumber"`
	PayerAccountNumber string `json:"payerAccountNumber"`
	ActorID            string `json:"actorId,omitempty"`
}

func (r PayInvoiceRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.InvoiceNumber) == "" {
		errs = append(errs, "invoiceNumber is required")
	}
	if !isTenDigits(r.PayerAccountNumber) {
		errs = append(errs, "payerAccountNumber must be exactly 10 digits")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type PayInvoiceResponse struct {
	Invoice      InvoiceView `json:"invoice"`
	PayerBalance string      `json:"payerBalance"`
}
