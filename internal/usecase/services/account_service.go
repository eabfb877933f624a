package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/galaxybank/ledger-core/internal/adapter/http/models"
	"github.com/galaxybank/ledger-core/internal/adapter/repository/repo_interfaces"
	"github.com/galaxybank/ledger-core/internal/commons"
	"github.com/galaxybank/ledger-core/internal/domain"
	"github.com/galaxybank/ledger-core/internal/logger"
)

// CustomerDirectory resolves customer display data from the external
// directory. Lookups are best effort and never required for monetary
// correctness.
type CustomerDirectory interface {
	GetCustomer(ctx context.Context, ownerID string) (domain.Customer, error)
}

const maxNumberAttempts = 5

type AccountService struct {
	accountRepo repo_interfaces.AccountRepository
	ledgerRepo  repo_interfaces.LedgerRepository
	directory   CustomerDirectory
}

func NewAccountService(
	accountRepo repo_interfaces.AccountRepository,
	ledgerRepo repo_interfaces.LedgerRepository,
	directory CustomerDirectory,
) *AccountService {
	return &AccountService{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		directory:   directory,
	}
}

func (s *AccountService) CreateAccount(ctx context.Context, req models.CreateAccountRequest) (commons.Response[models.AccountView], error) {
	logger.Info("account service create account request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("account service create account validation failed", err, nil)
		return commons.ErrorResponse[models.AccountView]("validation failed", err.Error()), err
	}

	balance := domain.ZeroMoney
	if req.InitialBalance != nil {
		parsed, err := domain.MoneyFromDecimal(*req.InitialBalance)
		if err != nil {
			logger.Error("account service create account parse balance failed", err, nil)
			return commons.ErrorResponse[models.AccountView]("validation failed", err.Error()), err
		}
		balance = parsed
	}

	class := domain.AccountClassSilver
	if trimmed := strings.ToUpper(strings.TrimSpace(req.Class)); trimmed != "" {
		class = domain.AccountClass(trimmed)
	}
	accountType := domain.AccountTypePersonal
	if trimmed := strings.ToUpper(strings.TrimSpace(req.Type)); trimmed != "" {
		accountType = domain.AccountType(trimmed)
	}

	account := domain.Account{
		OwnerID: strings.TrimSpace(req.OwnerID),
		Balance: balance,
		Class:   class,
		Type:    accountType,
		Active:  true,
	}

	var created domain.Account
	var err error
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		account.AccountNumber = generateAccountNumber()
		created, err = s.accountRepo.Create(ctx, account)
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrDuplicateNumber) {
			logger.Error("account service create account repository failed", err, logger.Fields{
				"ownerId": account.OwnerID,
			})
			return failure[models.AccountView](err)
		}
	}
	if err != nil {
		err = fmt.Errorf("account number generation: %w", domain.ErrGenerationExhausted)
		logger.Error("account service create account generation exhausted", err, logger.Fields{
			"ownerId": account.OwnerID,
		})
		return failure[models.AccountView](err)
	}

	logger.Info("account service create account success", logger.Fields{
		"accountId":     created.ID,
		"accountNumber": created.AccountNumber,
		"ownerId":       created.OwnerID,
	})

	return commons.SuccessResponse("account created successfully", models.NewAccountView(created)), nil
}

func (s *AccountService) GetAccount(ctx context.Context, accountNumber string) (commons.Response[models.AccountView], error) {
	accountNumber = strings.TrimSpace(accountNumber)
	logger.Info("account service get account request", logger.Fields{
		"accountNumber": accountNumber,
	})

	account, err := s.accountRepo.GetByAccountNumber(ctx, accountNumber)
	if err != nil {
		logger.Error("account service get account failed", err, logger.Fields{
			"accountNumber": accountNumber,
		})
		return failure[models.AccountView](err)
	}

	view := models.NewAccountView(account)
	view.OwnerName = s.resolveOwnerName(ctx, account.OwnerID)

	return commons.SuccessResponse("account fetched successfully", view), nil
}

func (s *AccountService) SetAccountActive(ctx context.Context, accountNumber string, active bool) (commons.Response[models.AccountView], error) {
	accountNumber = strings.TrimSpace(accountNumber)
	logger.Info("account service set account active request", logger.Fields{
		"accountNumber": accountNumber,
		"active":        active,
	})

	if err := s.accountRepo.SetActive(ctx, accountNumber, active); err != nil {
		logger.Error("account service set account active failed", err, logger.Fields{
			"accountNumber": accountNumber,
		})
		return failure[models.AccountView](err)
	}

	account, err := s.accountRepo.GetByAccountNumber(ctx, accountNumber)
	if err != nil {
		logger.Error("account service get account after set active failed", err, logger.Fields{
			"accountNumber": accountNumber,
		})
		return failure[models.AccountView](err)
	}

	message := "account deactivated successfully"
	if active {
		message = "account reactivated successfully"
	}
	return commons.SuccessResponse(message, models.NewAccountView(account)), nil
}

func (s *AccountService) ListEntries(ctx context.Context, accountNumber string, limit int) (commons.Response[models.AccountEntriesResponse], error) {
	accountNumber = strings.TrimSpace(accountNumber)
	logger.Info("account service list entries request", logger.Fields{
		"accountNumber": accountNumber,
		"limit":         limit,
	})

	if limit <= 0 || limit > 200 {
		limit = 50
	}

	account, err := s.accountRepo.GetByAccountNumber(ctx, accountNumber)
	if err != nil {
		logger.Error("account service list entries account lookup failed", err, logger.Fields{
			"accountNumber": accountNumber,
		})
		return failure[models.AccountEntriesResponse](err)
	}

	entries, err := s.ledgerRepo.ListForAccount(ctx, accountNumber, limit)
	if err != nil {
		logger.Error("account service list entries failed", err, logger.Fields{
			"accountNumber": accountNumber,
		})
		return failure[models.AccountEntriesResponse](err)
	}

	response := models.AccountEntriesResponse{
		Account: models.NewAccountView(account),
		Entries: models.NewLedgerEntryViews(entries),
	}
	return commons.SuccessResponse("account entries fetched successfully", response), nil
}

func (s *AccountService) resolveOwnerName(ctx context.Context, ownerID string) string {
	if s.directory == nil {
		return ""
	}

	customer, err := s.directory.GetCustomer(ctx, ownerID)
	if err != nil {
		logger.Warn("account service customer directory lookup failed", logger.Fields{
			"ownerId": ownerID,
			"reason":  err.Error(),
		})
		return ""
	}
	return customer.FullName
}

// generateAccountNumber draws a fresh 10-digit number. Uniqueness is
// enforced by the store; collisions are retried by the caller.
func generateAccountNumber() string {
	return fmt.Sprintf("%d", rand.Int64N(9_000_000_000)+1_000_000_000)
}
