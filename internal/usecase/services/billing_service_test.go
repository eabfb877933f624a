package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/galaxybank/ledger-core/internal/adapter/http/models"
	"github.com/galaxybank/ledger-core/internal/domain"
)

func businessAccountRepo() *fakeAccountRepo {
	repo := newFakeAccountRepo()
	repo.accounts["2000000002"] = domain.Account{
		ID:            "acc-issuer",
		OwnerID:       "owner-biz",
		AccountNumber: "2000000002",
		Balance:       domain.ZeroMoney,
		Class:         domain.AccountClassGold,
		Type:          domain.AccountTypeBusiness,
		Active:        true,
	}
	return repo
}

func TestIssueInvoice(t *testing.T) {
	invoices := newFakeInvoiceRepo()
	service := NewBillingService(businessAccountRepo(), invoices)

	resp, err := service.IssueInvoice(context.Background(), models.IssueInvoiceRequest{
		IssuerAccountNumber: "2000000002",
		ServiceKind:         "electricity",
		Amount:              decimal.RequireFromString("89.90"),
		Description:         "August meter reading",
	})
	if err != nil {
		t.Fatalf("issue invoice failed: %v", err)
	}

	invoice := resp.Data
	if invoice.Status != string(domain.InvoiceStatusUnpaid) {
		t.Fatalf("expected UNPAID invoice, got %s", invoice.Status)
	}
	if invoice.ServiceKind != string(domain.ServiceKindElectricity) {
		t.Fatalf("expected ELECTRICITY, got %s", invoice.ServiceKind)
	}
	if invoice.Amount != "89.90" {
		t.Fatalf("expected amount 89.90, got %s", invoice.Amount)
	}

	prefix := "INV" + time.Now().UTC().Format("20060102")
	if !strings.HasPrefix(invoice.InvoiceNumber, prefix) {
		t.Fatalf("invoice number %q missing prefix %q", invoice.InvoiceNumber, prefix)
	}
	if len(invoice.InvoiceNumber) != len(prefix)+6 {
		t.Fatalf("invoice number %q has wrong suffix length", invoice.InvoiceNumber)
	}
}

func TestIssueInvoicePersonalAccountRejected(t *testing.T) {
	repo := newFakeAccountRepo()
	repo.accounts["1000000001"] = domain.Account{
		AccountNumber: "1000000001",
		Type:          domain.AccountTypePersonal,
		Active:        true,
	}
	service := NewBillingService(repo, newFakeInvoiceRepo())

	_, err := service.IssueInvoice(context.Background(), models.IssueInvoiceRequest{
		IssuerAccountNumber: "1000000001",
		ServiceKind:         "TAX",
		Amount:              decimal.RequireFromString("10.00"),
	})
	if !errors.Is(err, domain.ErrNotBusinessAccount) {
		t.Fatalf("expected ErrNotBusinessAccount, got %v", err)
	}
}

func TestIssueInvoiceInactiveIssuerRejected(t *testing.T) {
	repo := businessAccountRepo()
	account := repo.accounts["2000000002"]
	account.Active = false
	repo.accounts["2000000002"] = account
	service := NewBillingService(repo, newFakeInvoiceRepo())

	_, err := service.IssueInvoice(context.Background(), models.IssueInvoiceRequest{
		IssuerAccountNumber: "2000000002",
		ServiceKind:         "INTERNET",
		Amount:              decimal.RequireFromString("10.00"),
	})
	if !errors.Is(err, domain.ErrAccountInactive) {
		t.Fatalf("expected ErrAccountInactive, got %v", err)
	}
}

func TestIssueInvoiceValidation(t *testing.T) {
	service := NewBillingService(businessAccountRepo(), newFakeInvoiceRepo())

	tests := []struct {
		name string
		req  models.IssueInvoiceRequest
	}{
		{name: "bad issuer number", req: models.IssueInvoiceRequest{
			IssuerAccountNumber: "123",
			ServiceKind:         "TAX",
			Amount:              decimal.RequireFromString("10.00"),
		}},
		{name: "bad service kind", req: models.IssueInvoiceRequest{
			IssuerAccountNumber: "2000000002",
			ServiceKind:         "LAUNDRY",
			Amount:              decimal.RequireFromString("10.00"),
		}},
		{name: "zero amount", req: models.IssueInvoiceRequest{
			IssuerAccountNumber: "2000000002",
			ServiceKind:         "TAX",
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := service.IssueInvoice(context.Background(), tc.req)
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if resp.Success {
				t.Fatalf("expected failure envelope, got %+v", resp)
			}
		})
	}
}

func TestIssueInvoiceRetriesOnCollision(t *testing.T) {
	invoices := newFakeInvoiceRepo()
	invoices.createErrs = []error{domain.ErrDuplicateNumber}
	service := NewBillingService(businessAccountRepo(), invoices)

	resp, err := service.IssueInvoice(context.Background(), models.IssueInvoiceRequest{
		IssuerAccountNumber: "2000000002",
		ServiceKind:         "SHOPPING",
		Amount:              decimal.RequireFromString("45.00"),
	})
	if err != nil {
		t.Fatalf("issue invoice failed after collision: %v", err)
	}
	if resp.Data.InvoiceNumber == "" {
		t.Fatalf("no invoice number assigned")
	}
}

func TestIssueInvoiceGenerationExhausted(t *testing.T) {
	invoices := newFakeInvoiceRepo()
	for i := 0; i < maxNumberAttempts; i++ {
		invoices.createErrs = append(invoices.createErrs, domain.ErrDuplicateNumber)
	}
	service := NewBillingService(businessAccountRepo(), invoices)

	_, err := service.IssueInvoice(context.Background(), models.IssueInvoiceRequest{
		IssuerAccountNumber: "2000000002",
		ServiceKind:         "OTHER",
		Amount:              decimal.RequireFromString("45.00"),
	})
	if !errors.Is(err, domain.ErrGenerationExhausted) {
		t.Fatalf("expected ErrGenerationExhausted, got %v", err)
	}
}

func TestGetInvoice(t *testing.T) {
	invoices := newFakeInvoiceRepo()
	invoices.invoices["INV20260901000001"] = domain.Invoice{
		ID:                  "inv-1",
		InvoiceNumber:       "INV20260901000001",
		IssuerAccountNumber: "2000000002",
		ServiceKind:         domain.ServiceKindTax,
		Amount:              domain.ZeroMoney,
		Status:              domain.InvoiceStatusUnpaid,
	}
	service := NewBillingService(businessAccountRepo(), invoices)

	resp, err := service.GetInvoice(context.Background(), "INV20260901000001")
	if err != nil {
		t.Fatalf("get invoice failed: %v", err)
	}
	if resp.Data.InvoiceNumber != "INV20260901000001" {
		t.Fatalf("unexpected invoice %+v", resp.Data)
	}

	if _, err := service.GetInvoice(context.Background(), "INV20260901999999"); !errors.Is(err, domain.ErrInvoiceNotFound) {
		t.Fatalf("expected ErrInvoiceNotFound, got %v", err)
	}
}

func TestListInvoicesForIssuer(t *testing.T) {
	invoices := newFakeInvoiceRepo()
	invoices.invoices["INV1"] = domain.Invoice{InvoiceNumber: "INV1", IssuerAccountNumber: "2000000002", Amount: domain.ZeroMoney}
	invoices.invoices["INV2"] = domain.Invoice{InvoiceNumber: "INV2", IssuerAccountNumber: "2000000002", Amount: domain.ZeroMoney}
	invoices.invoices["INV3"] = domain.Invoice{InvoiceNumber: "INV3", IssuerAccountNumber: "3000000003", Amount: domain.ZeroMoney}
	service := NewBillingService(businessAccountRepo(), invoices)

	resp, err := service.ListInvoicesForIssuer(context.Background(), "2000000002", 10)
	if err != nil {
		t.Fatalf("list invoices failed: %v", err)
	}
	if len(*resp.Data) != 2 {
		t.Fatalf("expected 2 invoices, got %d", len(*resp.Data))
	}
}

func TestListInvoicesUnknownIssuer(t *testing.T) {
	service := NewBillingService(newFakeAccountRepo(), newFakeInvoiceRepo())

	_, err := service.ListInvoicesForIssuer(context.Background(), "9999999999", 10)
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}
