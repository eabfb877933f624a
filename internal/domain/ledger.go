package domain

import "time"

type EntryKind string

const (
	EntryKindDeposit     EntryKind = "DEPOSIT"
	EntryKindWithdrawal  EntryKind = "WITHDRAWAL"
	EntryKindTransfer    EntryKind = "TRANSFER"
	EntryKindBillPayment EntryKind = "BILL_PAYMENT"
)

// LedgerEntry is the immutable audit record of one balance-affecting event.
// Amount is always positive; direction is implied by Kind and by which side
// of a transfer the entry sits on. An entry exists if and only if the paired
// balance mutation committed.
type LedgerEntry struct {
	ID            string
	AccountID     string
	AccountNumber string
	ActorID       *string
	Kind          EntryKind
	Amount        Money
	Memo          string
	CreatedAt     time.Time
}
