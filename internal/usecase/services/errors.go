package services

import (
	"errors"

	"github.com/galaxybank/ledger-core/internal/commons"
	"github.com/galaxybank/ledger-core/internal/domain"
)

// messageFor translates a domain error into the envelope message the
// excluded presentation layer renders. Every engine error is typed; nothing
// is swallowed.
func messageFor(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount):
		return "validation failed"
	case errors.Is(err, domain.ErrAccountNotFound):
		return "Account not found"
	case errors.Is(err, domain.ErrInvoiceNotFound):
		return "Invoice not found"
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "Insufficient funds"
	case errors.Is(err, domain.ErrSelfTransfer):
		return "Cannot transfer to the same account"
	case errors.Is(err, domain.ErrNotBusinessAccount):
		return "Only business accounts can issue invoices"
	case errors.Is(err, domain.ErrAlreadyPaid):
		return "Invoice is already paid"
	case errors.Is(err, domain.ErrAccountInactive):
		return "Account is inactive"
	case errors.Is(err, domain.ErrSuspiciousMagnitude):
		return "Amount exceeds the safety ceiling"
	case errors.Is(err, domain.ErrGenerationExhausted):
		return "Unable to allocate a unique number"
	case errors.Is(err, domain.ErrContention):
		return "Operation contended, please retry"
	default:
		return "Unable to process the operation right now"
	}
}

func failure[T any](err error, details ...string) (commons.Response[T], error) {
	return commons.ErrorResponse[T](messageFor(err), details...), err
}
