package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/galaxybank/ledger-core/internal/domain"
	"github.com/galaxybank/ledger-core/internal/logger"
	"github.com/google/uuid"
)

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, account domain.Account) (domain.Account, error) {
	logger.Info("account repository create", logger.Fields{
		"ownerId":       account.OwnerID,
		"accountNumber": account.AccountNumber,
		"class":         account.Class,
		"type":          account.Type,
	})

	const query = `
INSERT INTO accounts (
	id,
	owner_id,
	account_number,
	balance,
	class,
	type,
	active
) VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING created_at, updated_at`

	if account.ID == "" {
		account.ID = uuid.NewString()
	}

	if err := r.db.QueryRowContext(
		ctx,
		query,
		account.ID,
		account.OwnerID,
		account.AccountNumber,
		account.Balance.StringFixed(),
		account.Class,
		account.Type,
		account.Active,
	).Scan(&account.CreatedAt, &account.UpdatedAt); err != nil {
		classified := classifyError(err)
		if errors.Is(classified, domain.ErrDuplicateNumber) {
			logger.Info("account repository number collision", logger.Fields{
				"accountNumber": account.AccountNumber,
			})
			return domain.Account{}, domain.ErrDuplicateNumber
		}
		logger.Error("account repository create failed", err, logger.Fields{
			"ownerId":       account.OwnerID,
			"accountNumber": account.AccountNumber,
		})
		return domain.Account{}, fmt.Errorf("create account: %w", classified)
	}

	logger.Info("account repository create success", logger.Fields{
		"accountId":     account.ID,
		"accountNumber": account.AccountNumber,
	})

	return account, nil
}

func (r *AccountRepository) GetByAccountNumber(ctx context.Context, accountNumber string) (domain.Account, error) {
	const query = `
SELECT id, owner_id, account_number, balance, class, type, active, created_at, updated_at
FROM accounts
WHERE account_number = $1`

	account, err := scanAccount(r.db.QueryRowContext(ctx, query, accountNumber))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logger.Info("account repository record not found", logger.Fields{
				"accountNumber": accountNumber,
			})
			return domain.Account{}, domain.ErrAccountNotFound
		}
		logger.Error("account repository get failed", err, logger.Fields{
			"accountNumber": accountNumber,
		})
		return domain.Account{}, fmt.Errorf("get account by account number: %w", err)
	}

	return account, nil
}

func (r *AccountRepository) SetActive(ctx context.Context, accountNumber string, active bool) error {
	logger.Info("account repository set active", logger.Fields{
		"accountNumber": accountNumber,
		"active":        active,
	})

	const query = `
UPDATE accounts
SET active = $2,
    updated_at = NOW()
WHERE account_number = $1`

	result, err := r.db.ExecContext(ctx, query, accountNumber, active)
	if err != nil {
		logger.Error("account repository set active failed", err, logger.Fields{
			"accountNumber": accountNumber,
		})
		return fmt.Errorf("set account active: %w", classifyError(err))
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set account active rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

func (r *AccountRepository) Count(ctx context.Context) (int64, error) {
	const query = `SELECT COUNT(1) FROM accounts`

	var count int64
	if err := r.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		logger.Error("account repository count failed", err, nil)
		return 0, fmt.Errorf("count accounts: %w", err)
	}

	return count, nil
}

func (r *AccountRepository) SumBalances(ctx context.Context, ceiling domain.Money) (domain.Money, int64, error) {
	const query = `
SELECT COALESCE(SUM(balance) FILTER (WHERE balance < $1::numeric), 0),
       COUNT(1) FILTER (WHERE balance >= $1::numeric)
FROM accounts`

	var (
		total   string
		flagged int64
	)
	if err := r.db.QueryRowContext(ctx, query, ceiling.StringFixed()).Scan(&total, &flagged); err != nil {
		logger.Error("account repository sum balances failed", err, nil)
		return domain.Money{}, 0, fmt.Errorf("sum balances: %w", err)
	}

	parsed, err := domain.ParseMoney(total)
	if err != nil {
		return domain.Money{}, 0, fmt.Errorf("stored balance total %q is not valid money: %w", total, err)
	}

	return parsed, flagged, nil
}
