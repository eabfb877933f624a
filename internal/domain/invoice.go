package domain

import "time"

type InvoiceStatus string

const (
	InvoiceStatusUnpaid InvoiceStatus = "UNPAID"
	InvoiceStatusPaid   InvoiceStatus = "PAID"
)

type ServiceKind string

const (
	ServiceKindElectricity ServiceKind = "ELECTRICITY"
	ServiceKindInternet    ServiceKind = "INTERNET"
	ServiceKindTax         ServiceKind = "TAX"
	ServiceKindShopping    ServiceKind = "SHOPPING"
	ServiceKindOther       ServiceKind = "OTHER"
)

// Invoice is a payable obligation issued by a business account. Amount is
// fixed at creation; Status transitions UNPAID -> PAID exactly once,
// atomically with the underlying transfer.
type Invoice struct {
	ID                  string
	InvoiceNumber       string
	IssuerAccountID     string
	IssuerAccountNumber string
	ServiceKind         ServiceKind
	Amount              Money
	Description         string
	Status              InvoiceStatus
	PayerAccountNumber  *string
	CreatedAt           time.Time
	PaidAt              *time.Time
}

func IsValidServiceKind(value string) bool {
	switch ServiceKind(value) {
	case ServiceKindElectricity, ServiceKindInternet, ServiceKindTax, ServiceKindShopping, ServiceKindOther:
		return true
	}
	return false
}
