package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/galaxybank/ledger-core/internal/adapter/http/models"
	"github.com/galaxybank/ledger-core/internal/adapter/repository/repo_interfaces"
	"github.com/galaxybank/ledger-core/internal/commons"
	"github.com/galaxybank/ledger-core/internal/config"
	"github.com/galaxybank/ledger-core/internal/domain"
	"github.com/galaxybank/ledger-core/internal/logger"
	"github.com/galaxybank/ledger-core/internal/observability"
)

// TransactionService is the transaction engine. Every public operation runs
// as one store unit of work: row locks first, in ascending account-number
// order, then validation, balance mutation, and ledger append. An operation
// either fully commits or leaves no trace.
type TransactionService struct {
	store   repo_interfaces.Store
	ceiling domain.Money
	policy  config.CeilingPolicy
	metrics *observability.Metrics
}

func NewTransactionService(
	store repo_interfaces.Store,
	ceiling domain.Money,
	policy config.CeilingPolicy,
	metrics *observability.Metrics,
) *TransactionService {
	return &TransactionService{
		store:   store,
		ceiling: ceiling,
		policy:  policy,
		metrics: metrics,
	}
}

func (s *TransactionService) Deposit(ctx context.Context, req models.DepositRequest) (commons.Response[models.TransactionResponse], error) {
	start := time.Now()
	logger.Info("transaction service deposit request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return s.transactionFailure("deposit", start, domain.ErrInvalidAmount, err.Error())
	}

	amount, err := positiveMoney(req.Amount.String())
	if err != nil {
		return s.transactionFailure("deposit", start, err)
	}

	accountNumber := strings.TrimSpace(req.AccountNumber)
	actorID := optionalActor(req.ActorID)

	var (
		account domain.Account
		entry   domain.LedgerEntry
	)
	err = s.store.InTx(ctx, func(tx repo_interfaces.TxSession) error {
		locked, err := tx.LockAccount(ctx, accountNumber)
		if err != nil {
			return err
		}
		if !locked.Active {
			return domain.ErrAccountInactive
		}

		newBalance := locked.Balance.Add(amount)
		if err := s.enforceCeiling(accountNumber, amount, newBalance); err != nil {
			return err
		}

		if err := tx.UpdateBalance(ctx, accountNumber, newBalance); err != nil {
			return err
		}

		appended, err := tx.AppendEntry(ctx, domain.LedgerEntry{
			AccountID:     locked.ID,
			AccountNumber: accountNumber,
			ActorID:       actorID,
			Kind:          domain.EntryKindDeposit,
			Amount:        amount,
			Memo:          "Cash deposit via teller counter",
		})
		if err != nil {
			return err
		}

		locked.Balance = newBalance
		account = locked
		entry = appended
		return nil
	})
	if err != nil {
		return s.transactionFailure("deposit", start, err)
	}

	s.metrics.ObserveOperation("deposit", "success", time.Since(start))
	logger.Info("transaction service deposit success", logger.Fields{
		"accountNumber": accountNumber,
		"amount":        amount.StringFixed(),
		"balance":       account.Balance.StringFixed(),
	})

	response := models.TransactionResponse{
		AccountNumber: accountNumber,
		Kind:          string(domain.EntryKindDeposit),
		Amount:        amount.StringFixed(),
		Balance:       account.Balance.StringFixed(),
		Entry:         models.NewLedgerEntryView(entry),
	}
	return commons.SuccessResponse("deposit completed successfully", response), nil
}

func (s *TransactionService) Withdraw(ctx context.Context, req models.WithdrawRequest) (commons.Response[models.TransactionResponse], error) {
	start := time.Now()
	logger.Info("transaction service withdraw request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return s.transactionFailure("withdraw", start, domain.ErrInvalidAmount, err.Error())
	}

	amount, err := positiveMoney(req.Amount.String())
	if err != nil {
		return s.transactionFailure("withdraw", start, err)
	}

	accountNumber := strings.TrimSpace(req.AccountNumber)
	actorID := optionalActor(req.ActorID)

	var (
		account domain.Account
		entry   domain.LedgerEntry
	)
	err = s.store.InTx(ctx, func(tx repo_interfaces.TxSession) error {
		locked, err := tx.LockAccount(ctx, accountNumber)
		if err != nil {
			return err
		}
		if !locked.Active {
			return domain.ErrAccountInactive
		}
		if locked.Balance.LessThan(amount) {
			return domain.ErrInsufficientFunds
		}

		newBalance, err := locked.Balance.Sub(amount)
		if err != nil {
			return err
		}

		if err := tx.UpdateBalance(ctx, accountNumber, newBalance); err != nil {
			return err
		}

		appended, err := tx.AppendEntry(ctx, domain.LedgerEntry{
			AccountID:     locked.ID,
			AccountNumber: accountNumber,
			ActorID:       actorID,
			Kind:          domain.EntryKindWithdrawal,
			Amount:        amount,
			Memo:          "Cash withdrawal via teller counter",
		})
		if err != nil {
			return err
		}

		locked.Balance = newBalance
		account = locked
		entry = appended
		return nil
	})
	if err != nil {
		return s.transactionFailure("withdraw", start, err)
	}

	s.metrics.ObserveOperation("withdraw", "success", time.Since(start))
	logger.Info("transaction service withdraw success", logger.Fields{
		"accountNumber": accountNumber,
		"amount":        amount.StringFixed(),
		"balance":       account.Balance.StringFixed(),
	})

	response := models.TransactionResponse{
		AccountNumber: accountNumber,
		Kind:          string(domain.EntryKindWithdrawal),
		Amount:        amount.StringFixed(),
		Balance:       account.Balance.StringFixed(),
		Entry:         models.NewLedgerEntryView(entry),
	}
	return commons.SuccessResponse("withdrawal completed successfully", response), nil
}

func (s *TransactionService) Transfer(ctx context.Context, req models.TransferRequest) (commons.Response[models.TransferResponse], error) {
	start := time.Now()
	logger.Info("transaction service transfer request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	sourceNumber := strings.TrimSpace(req.SourceAccountNumber)
	destinationNumber := strings.TrimSpace(req.DestinationAccountNumber)
	if sourceNumber == destinationNumber {
		return s.transferFailure("transfer", start, domain.ErrSelfTransfer)
	}

	if err := req.Validate(); err != nil {
		return s.transferFailure("transfer", start, domain.ErrInvalidAmount, err.Error())
	}

	amount, err := positiveMoney(req.Amount.String())
	if err != nil {
		return s.transferFailure("transfer", start, err)
	}

	actorID := optionalActor(req.ActorID)

	var source, destination domain.Account
	err = s.store.InTx(ctx, func(tx repo_interfaces.TxSession) error {
		locked, err := lockAccountPair(ctx, tx, sourceNumber, destinationNumber)
		if err != nil {
			return err
		}
		src, dst := locked[sourceNumber], locked[destinationNumber]

		if !src.Active || !dst.Active {
			return domain.ErrAccountInactive
		}
		if src.Balance.LessThan(amount) {
			return domain.ErrInsufficientFunds
		}

		newSourceBalance, err := src.Balance.Sub(amount)
		if err != nil {
			return err
		}
		newDestinationBalance := dst.Balance.Add(amount)
		if err := s.enforceCeiling(destinationNumber, amount, newDestinationBalance); err != nil {
			return err
		}

		if err := tx.UpdateBalance(ctx, sourceNumber, newSourceBalance); err != nil {
			return err
		}
		if err := tx.UpdateBalance(ctx, destinationNumber, newDestinationBalance); err != nil {
			return err
		}

		if _, err := tx.AppendEntry(ctx, domain.LedgerEntry{
			AccountID:     src.ID,
			AccountNumber: sourceNumber,
			ActorID:       actorID,
			Kind:          domain.EntryKindTransfer,
			Amount:        amount,
			Memo:          fmt.Sprintf("Transfer to account %s", destinationNumber),
		}); err != nil {
			return err
		}
		if _, err := tx.AppendEntry(ctx, domain.LedgerEntry{
			AccountID:     dst.ID,
			AccountNumber: destinationNumber,
			ActorID:       actorID,
			Kind:          domain.EntryKindTransfer,
			Amount:        amount,
			Memo:          fmt.Sprintf("Transfer received from account %s", sourceNumber),
		}); err != nil {
			return err
		}

		src.Balance = newSourceBalance
		dst.Balance = newDestinationBalance
		source, destination = src, dst
		return nil
	})
	if err != nil {
		return s.transferFailure("transfer", start, err)
	}

	s.metrics.ObserveOperation("transfer", "success", time.Since(start))
	logger.Info("transaction service transfer success", logger.Fields{
		"sourceAccountNumber":      sourceNumber,
		"destinationAccountNumber": destinationNumber,
		"amount":                   amount.StringFixed(),
	})

	response := models.TransferResponse{
		SourceAccountNumber:      sourceNumber,
		DestinationAccountNumber: destinationNumber,
		Amount:                   amount.StringFixed(),
		SourceBalance:            source.Balance.StringFixed(),
		DestinationBalance:       destination.Balance.StringFixed(),
	}
	return commons.SuccessResponse("transfer completed successfully", response), nil
}

func (s *TransactionService) PayInvoice(ctx context.Context, req models.PayInvoiceRequest) (commons.Response[models.PayInvoiceResponse], error) {
	start := time.Now()
	logger.Info("transaction service pay invoice request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return s.payInvoiceFailure(start, domain.ErrInvalidAmount, err.Error())
	}

	invoiceNumber := strings.TrimSpace(req.InvoiceNumber)
	payerNumber := strings.TrimSpace(req.PayerAccountNumber)
	actorID := optionalActor(req.ActorID)

	var (
		invoice domain.Invoice
		payer   domain.Account
	)
	err := s.store.InTx(ctx, func(tx repo_interfaces.TxSession) error {
		locked, err := tx.LockInvoice(ctx, invoiceNumber)
		if err != nil {
			return err
		}
		if locked.Status == domain.InvoiceStatusPaid {
			return domain.ErrAlreadyPaid
		}

		issuerNumber := strings.TrimSpace(locked.IssuerAccountNumber)
		if issuerNumber == payerNumber {
			return domain.ErrSelfTransfer
		}

		// Both rows are locked, issuer included, so a concurrent transfer
		// cannot observe a half-applied payment.
		accounts, err := lockAccountPair(ctx, tx, payerNumber, issuerNumber)
		if err != nil {
			return err
		}
		payerAccount, issuerAccount := accounts[payerNumber], accounts[issuerNumber]

		if !payerAccount.Active || !issuerAccount.Active {
			return domain.ErrAccountInactive
		}
		if payerAccount.Balance.LessThan(locked.Amount) {
			return domain.ErrInsufficientFunds
		}

		newPayerBalance, err := payerAccount.Balance.Sub(locked.Amount)
		if err != nil {
			return err
		}
		newIssuerBalance := issuerAccount.Balance.Add(locked.Amount)
		if err := s.enforceCeiling(issuerNumber, locked.Amount, newIssuerBalance); err != nil {
			return err
		}

		if err := tx.UpdateBalance(ctx, payerNumber, newPayerBalance); err != nil {
			return err
		}
		if err := tx.UpdateBalance(ctx, issuerNumber, newIssuerBalance); err != nil {
			return err
		}

		paidAt := time.Now().UTC()
		if err := tx.MarkInvoicePaid(ctx, invoiceNumber, payerNumber, paidAt); err != nil {
			return err
		}

		if _, err := tx.AppendEntry(ctx, domain.LedgerEntry{
			AccountID:     payerAccount.ID,
			AccountNumber: payerNumber,
			ActorID:       actorID,
			Kind:          domain.EntryKindBillPayment,
			Amount:        locked.Amount,
			Memo:          fmt.Sprintf("Bill payment for invoice %s (%s)", invoiceNumber, locked.ServiceKind),
		}); err != nil {
			return err
		}
		if _, err := tx.AppendEntry(ctx, domain.LedgerEntry{
			AccountID:     issuerAccount.ID,
			AccountNumber: issuerNumber,
			ActorID:       actorID,
			Kind:          domain.EntryKindTransfer,
			Amount:        locked.Amount,
			Memo:          fmt.Sprintf("Invoice %s settled by account %s", invoiceNumber, payerNumber),
		}); err != nil {
			return err
		}

		locked.Status = domain.InvoiceStatusPaid
		locked.PayerAccountNumber = &payerNumber
		locked.PaidAt = &paidAt
		payerAccount.Balance = newPayerBalance

		invoice = locked
		payer = payerAccount
		return nil
	})
	if err != nil {
		return s.payInvoiceFailure(start, err)
	}

	s.metrics.ObserveOperation("pay_invoice", "success", time.Since(start))
	logger.Info("transaction service pay invoice success", logger.Fields{
		"invoiceNumber":      invoiceNumber,
		"payerAccountNumber": payerNumber,
		"amount":             invoice.Amount.StringFixed(),
	})

	response := models.PayInvoiceResponse{
		Invoice:      models.NewInvoiceView(invoice),
		PayerBalance: payer.Balance.StringFixed(),
	}
	return commons.SuccessResponse("invoice paid successfully", response), nil
}

// enforceCeiling applies the write-time magnitude policy: reject aborts the
// unit of work, flag commits but surfaces the condition for operator review.
func (s *TransactionService) enforceCeiling(accountNumber string, amount, newBalance domain.Money) error {
	if !amount.AtOrAbove(s.ceiling) && !newBalance.AtOrAbove(s.ceiling) {
		return nil
	}

	if s.policy == config.CeilingPolicyReject {
		return fmt.Errorf("account %s would reach %s: %w", accountNumber, newBalance.StringFixed(), domain.ErrSuspiciousMagnitude)
	}

	s.metrics.FlagSuspicious()
	logger.Warn("transaction service suspicious magnitude flagged", logger.Fields{
		"accountNumber": accountNumber,
		"amount":        amount.StringFixed(),
		"newBalance":    newBalance.StringFixed(),
		"ceiling":       s.ceiling.StringFixed(),
	})
	return nil
}

func (s *TransactionService) transactionFailure(operation string, start time.Time, err error, details ...string) (commons.Response[models.TransactionResponse], error) {
	s.metrics.ObserveOperation(operation, "failure", time.Since(start))
	logger.Error("transaction service "+operation+" failed", err, nil)
	return failure[models.TransactionResponse](err, details...)
}

func (s *TransactionService) transferFailure(operation string, start time.Time, err error, details ...string) (commons.Response[models.TransferResponse], error) {
	s.metrics.ObserveOperation(operation, "failure", time.Since(start))
	logger.Error("transaction service "+operation+" failed", err, nil)
	return failure[models.TransferResponse](err, details...)
}

func (s *TransactionService) payInvoiceFailure(start time.Time, err error, details ...string) (commons.Response[models.PayInvoiceResponse], error) {
	s.metrics.ObserveOperation("pay_invoice", "failure", time.Since(start))
	logger.Error("transaction service pay invoice failed", err, nil)
	return failure[models.PayInvoiceResponse](err, details...)
}

// lockAccountPair acquires both row locks in ascending account-number order
// regardless of role, so two opposite transfers between the same pair can
// never deadlock.
func lockAccountPair(ctx context.Context, tx repo_interfaces.TxSession, first, second string) (map[string]domain.Account, error) {
	ordered := []string{first, second}
	if ordered[1] < ordered[0] {
		ordered[0], ordered[1] = ordered[1], ordered[0]
	}

	locked := make(map[string]domain.Account, 2)
	for _, number := range ordered {
		account, err := tx.LockAccount(ctx, number)
		if err != nil {
			return nil, err
		}
		locked[number] = account
	}
	return locked, nil
}

func positiveMoney(raw string) (domain.Money, error) {
	amount, err := domain.ParseMoney(raw)
	if err != nil {
		return domain.Money{}, err
	}
	if !amount.IsPositive() {
		return domain.Money{}, fmt.Errorf("amount %s is not positive: %w", amount.StringFixed(), domain.ErrInvalidAmount)
	}
	return amount, nil
}

func optionalActor(actorID string) *string {
	trimmed := strings.TrimSpace(actorID)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
