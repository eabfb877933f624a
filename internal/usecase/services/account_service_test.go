package services

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/galaxybank/ledger-core/internal/adapter/http/models"
	"github.com/galaxybank/ledger-core/internal/domain"
)

func TestCreateAccountDefaults(t *testing.T) {
	repo := newFakeAccountRepo()
	service := NewAccountService(repo, &fakeLedgerRepo{}, nil)

	resp, err := service.CreateAccount(context.Background(), models.CreateAccountRequest{
		OwnerID: "owner-1",
	})
	if err != nil {
		t.Fatalf("create account failed: %v", err)
	}

	account := resp.Data
	if account.Class != string(domain.AccountClassSilver) {
		t.Fatalf("expected default class SILVER, got %s", account.Class)
	}
	if account.Type != string(domain.AccountTypePersonal) {
		t.Fatalf("expected default type PERSONAL, got %s", account.Type)
	}
	if account.Balance != "0.00" {
		t.Fatalf("expected zero balance, got %s", account.Balance)
	}
	if !account.Active {
		t.Fatalf("new account not active")
	}
	if len(account.AccountNumber) != 10 {
		t.Fatalf("expected 10-digit account number, got %q", account.AccountNumber)
	}
	if account.AccountNumber[0] == '0' {
		t.Fatalf("account number has leading zero: %q", account.AccountNumber)
	}
}

func TestCreateAccountWithInitialBalance(t *testing.T) {
	repo := newFakeAccountRepo()
	service := NewAccountService(repo, &fakeLedgerRepo{}, nil)

	initial := decimal.RequireFromString("250.75")
	resp, err := service.CreateAccount(context.Background(), models.CreateAccountRequest{
		OwnerID:        "owner-1",
		Class:          "gold",
		Type:           "business",
		InitialBalance: &initial,
	})
	if err != nil {
		t.Fatalf("create account failed: %v", err)
	}
	if resp.Data.Balance != "250.75" {
		t.Fatalf("expected balance 250.75, got %s", resp.Data.Balance)
	}
	if resp.Data.Class != string(domain.AccountClassGold) {
		t.Fatalf("expected class GOLD, got %s", resp.Data.Class)
	}
	if resp.Data.Type != string(domain.AccountTypeBusiness) {
		t.Fatalf("expected type BUSINESS, got %s", resp.Data.Type)
	}
}

func TestCreateAccountValidation(t *testing.T) {
	service := NewAccountService(newFakeAccountRepo(), &fakeLedgerRepo{}, nil)

	tests := []struct {
		name string
		req  models.CreateAccountRequest
	}{
		{name: "missing owner", req: models.CreateAccountRequest{}},
		{name: "bad class", req: models.CreateAccountRequest{OwnerID: "o", Class: "BRONZE"}},
		{name: "bad type", req: models.CreateAccountRequest{OwnerID: "o", Type: "JOINT"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := service.CreateAccount(context.Background(), tc.req)
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if resp.Success {
				t.Fatalf("expected failure envelope, got %+v", resp)
			}
		})
	}
}

func TestCreateAccountRetriesOnCollision(t *testing.T) {
	repo := newFakeAccountRepo()
	repo.createErrs = []error{domain.ErrDuplicateNumber, domain.ErrDuplicateNumber}
	service := NewAccountService(repo, &fakeLedgerRepo{}, nil)

	resp, err := service.CreateAccount(context.Background(), models.CreateAccountRequest{
		OwnerID: "owner-1",
	})
	if err != nil {
		t.Fatalf("create account failed after collisions: %v", err)
	}
	if resp.Data.AccountNumber == "" {
		t.Fatalf("no account number assigned")
	}
}

func TestCreateAccountGenerationExhausted(t *testing.T) {
	repo := newFakeAccountRepo()
	repo.createErrs = []error{
		domain.ErrDuplicateNumber,
		domain.ErrDuplicateNumber,
		domain.ErrDuplicateNumber,
		domain.ErrDuplicateNumber,
		domain.ErrDuplicateNumber,
	}
	service := NewAccountService(repo, &fakeLedgerRepo{}, nil)

	_, err := service.CreateAccount(context.Background(), models.CreateAccountRequest{
		OwnerID: "owner-1",
	})
	if !errors.Is(err, domain.ErrGenerationExhausted) {
		t.Fatalf("expected ErrGenerationExhausted, got %v", err)
	}
}

func TestGetAccountResolvesOwnerName(t *testing.T) {
	repo := newFakeAccountRepo()
	repo.accounts["1000000001"] = domain.Account{
		ID:            "acc-1",
		OwnerID:       "owner-1",
		AccountNumber: "1000000001",
		Balance:       domain.ZeroMoney,
		Class:         domain.AccountClassSilver,
		Type:          domain.AccountTypePersonal,
		Active:        true,
	}
	directory := &fakeDirectory{customers: map[string]domain.Customer{
		"owner-1": {ID: "owner-1", FullName: "Ada Okafor"},
	}}
	service := NewAccountService(repo, &fakeLedgerRepo{}, directory)

	resp, err := service.GetAccount(context.Background(), "1000000001")
	if err != nil {
		t.Fatalf("get account failed: %v", err)
	}
	if resp.Data.OwnerName != "Ada Okafor" {
		t.Fatalf("expected owner name Ada Okafor, got %q", resp.Data.OwnerName)
	}
}

func TestGetAccountDirectoryFailureIsBestEffort(t *testing.T) {
	repo := newFakeAccountRepo()
	repo.accounts["1000000001"] = domain.Account{
		ID:            "acc-1",
		OwnerID:       "owner-1",
		AccountNumber: "1000000001",
		Active:        true,
	}
	directory := &fakeDirectory{err: errors.New("directory unavailable")}
	service := NewAccountService(repo, &fakeLedgerRepo{}, directory)

	resp, err := service.GetAccount(context.Background(), "1000000001")
	if err != nil {
		t.Fatalf("get account failed: %v", err)
	}
	if resp.Data.OwnerName != "" {
		t.Fatalf("expected empty owner name, got %q", resp.Data.OwnerName)
	}
}

func TestGetAccountNotFound(t *testing.T) {
	service := NewAccountService(newFakeAccountRepo(), &fakeLedgerRepo{}, nil)

	_, err := service.GetAccount(context.Background(), "9999999999")
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestSetAccountActive(t *testing.T) {
	repo := newFakeAccountRepo()
	repo.accounts["1000000001"] = domain.Account{
		AccountNumber: "1000000001",
		Active:        true,
	}
	service := NewAccountService(repo, &fakeLedgerRepo{}, nil)

	resp, err := service.SetAccountActive(context.Background(), "1000000001", false)
	if err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}
	if resp.Data.Active {
		t.Fatalf("account still active after deactivation")
	}

	resp, err = service.SetAccountActive(context.Background(), "1000000001", true)
	if err != nil {
		t.Fatalf("reactivate failed: %v", err)
	}
	if !resp.Data.Active {
		t.Fatalf("account still inactive after reactivation")
	}
}

func TestListEntriesNormalizesLimit(t *testing.T) {
	repo := newFakeAccountRepo()
	repo.accounts["1000000001"] = domain.Account{AccountNumber: "1000000001", Active: true}

	ledger := &fakeLedgerRepo{}
	for i := 0; i < 60; i++ {
		ledger.entries = append(ledger.entries, domain.LedgerEntry{
			AccountNumber: "1000000001",
			Kind:          domain.EntryKindDeposit,
			Amount:        domain.ZeroMoney,
		})
	}
	service := NewAccountService(repo, ledger, nil)

	resp, err := service.ListEntries(context.Background(), "1000000001", 0)
	if err != nil {
		t.Fatalf("list entries failed: %v", err)
	}
	if len(resp.Data.Entries) != 50 {
		t.Fatalf("expected default limit of 50 entries, got %d", len(resp.Data.Entries))
	}

	resp, err = service.ListEntries(context.Background(), "1000000001", 10)
	if err != nil {
		t.Fatalf("list entries failed: %v", err)
	}
	if len(resp.Data.Entries) != 10 {
		t.Fatalf("expected 10 entries, got %d", len(resp.Data.Entries))
	}
}
