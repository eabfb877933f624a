package domain

import "time"

type AccountClass string

const (
	AccountClassSilver   AccountClass = "SILVER"
	AccountClassGold     AccountClass = "GOLD"
	AccountClassPlatinum AccountClass = "PLATINUM"
)

type AccountType string

const (
	AccountTypePersonal AccountType = "PERSONAL"
	AccountTypeBusiness AccountType = "BUSINESS"
)

// Account holds one monetary balance owned by a customer. Balances are
// mutated only by the transaction engine inside a unit of work; accounts are
// never deleted, only deactivated.
type Account struct {
	ID            string
	OwnerID       string
	AccountNumber string
	Balance       Money
	Class         AccountClass
	Type          AccountType
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func IsValidAccountClass(value string) bool {
	switch AccountClass(value) {
	case AccountClassSilver, AccountClassGold, AccountClassPlatinum:
		return true
	}
	return false
}

func IsValidAccountType(value string) bool {
	switch AccountType(value) {
	case AccountTypePersonal, AccountTypeBusiness:
		return true
	}
	return false
}
