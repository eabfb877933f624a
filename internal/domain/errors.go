package domain

import "errors"

var (
	ErrInvalidAmount       = errors.New("Amount is not a valid positive value")
	ErrAccountNotFound     = errors.New("Account not found")
	ErrInvoiceNotFound     = errors.New("Invoice not found")
	ErrInsufficientFunds   = errors.New("Insufficient funds")
	ErrSelfTransfer        = errors.New("Source and destination account are the same")
	ErrNotBusinessAccount  = errors.New("Account is not a business account")
	ErrAlreadyPaid         = errors.New("Invoice is already paid")
	ErrGenerationExhausted = errors.New("Unable to generate a unique number")
	ErrContention          = errors.New("Operation aborted due to lock contention, retry")
	ErrAccountInactive     = errors.New("Account is inactive")
	ErrSuspiciousMagnitude = errors.New("Amount exceeds the configured safety ceiling")
	ErrDuplicateNumber     = errors.New("Number already exists")
	ErrNegativeBalance     = errors.New("Balance would become negative")
)
