package models

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

type DepositRequest struct {
	AccountNumber string          `json:"accountNumber"`
	Amount        decimal.Decimal `json:"amount"`
	ActorID       string          `json:"actorId,omitempty"`
}

func (r DepositRequest) Validate() error {
	var errs []string

	if !isTenDigits(r.AccountNumber) {
		errs = append(errs, "accountNumber must be exactly 10 digits")
	}
	if r.Amount.LessThanOrEqual(decimal.Zero) {
		errs = append(errs, "amount must be greater than zero")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type WithdrawRequest struct {
	AccountNumber string          `json:"accountNumber"`
	Amount        decimal.Decimal `json:"amount"`
	ActorID       string          `json:"actorId,omitempty"`
}

func (r WithdrawRequest) Validate() error {
	return DepositRequest{AccountNumber: r.AccountNumber, Amount: r.Amount}.Validate()
}

type TransferRequest struct {
	SourceAccountNumber      string          `json:"sourceAccountNumber"`
	DestinationAccountNumber string          `json:"destinationAccountNumber"`
	Amount                   decimal.Decimal `json:"amount"`
	ActorID                  string          `json:"actorId,omitempty"`
}

func (r TransferRequest) Validate() error {
	var errs []string

	if !isTenDigits(r.SourceAccountNumber) {
		errs = append(errs, "sourceAccountNumber must be exactly 10 digits")
	}
	if !isTenDigits(r.DestinationAccountNumber) {
		errs = append(errs, "destinationAccountNumber must be exactly 10 digits")
	}
	if r.Amount.LessThanOrEqual(decimal.Zero) {
		errs = append(errs, "amount must be greater than zero")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type TransactionResponse struct {
	AccountNumber string          `json:"accountNumber"`
	Kind          string          `json:"kind"`
	Amount        string          `json:"amount"`
	Balance       string          `json:"balance"`
	Entry         LedgerEntryView `json:"entry"`
}

type TransferResponse struct {
	SourceAccountNumber      string `json:"sourceAccountNumber"`
	DestinationAccountNumber string `json:"destinationAccountNumber"`
	Amount                   string `json:"amount"`
	SourceBalance            string `json:"sourceBalance"`
	DestinationBalance       string `json:"destinationBalance"`
}
