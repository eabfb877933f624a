package models

import (
	"errors"
	"strings"

	"github.com/galaxybank/ledger-core/internal/domain"
	"github.com/shopspring/decimal"
)

type CreateAccountRequest struct {
	OwnerID        string           `json:"ownerId"`
	Class          string           `json:"class"`
	Type           string           `json:"type"`
	InitialBalance *decimal.Decimal `json:"initialBalance,omitempty"`
}

func (r CreateAccountRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.OwnerID) == "" {
		errs = append(errs, "ownerId is required")
	}

	class := strings.ToUpper(strings.TrimSpace(r.Class))
	if class != "" && !domain.IsValidAccountClass(class) {
		errs = append(errs, "class must be one of SILVER, GOLD, PLATINUM")
	}

	accountType := strings.ToUpper(strings.TrimSpace(r.Type))
	if accountType != "" && !domain.IsValidAccountType(accountType) {
		errs = append(errs, "type must be one of PERSONAL, BUSINESS")
	}

	if r.InitialBalance != nil && r.InitialBalance.IsNegative() {
		errs = append(errs, "initialBalance cannot be negative")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type AccountNumberRequest struct {
	AccountNumber string `json:"accountNumber"`
}

func (r AccountNumberRequest) Validate() error {
	if !isTenDigits(r.AccountNumber) {
		return errors.New("accountNumber must be exactly 10 digits")
	}
	return nil
}

type AccountEntriesResponse struct {
	Account AccountView       `json:"account"`
	Entries []LedgerEntryView `json:"entries"`
}
