package services

import (
	"context"

	"github.com/galaxybank/ledger-core/internal/adapter/http/models"
	"github.com/galaxybank/ledger-core/internal/adapter/repository/repo_interfaces"
	"github.com/galaxybank/ledger-core/internal/commons"
	"github.com/galaxybank/ledger-core/internal/domain"
	"github.com/galaxybank/ledger-core/internal/logger"
	"golang.org/x/sync/errgroup"
)

const recentEntriesLimit = 5

// ReportingService provides the read-only operator dashboard. Accounts at or
// above the safety ceiling are counted and surfaced, never silently hidden
// from the totals they are excluded from.
type ReportingService struct {
	accountRepo repo_interfaces.AccountRepository
	ledgerRepo  repo_interfaces.LedgerRepository
	ceiling     domain.Money
}

func NewReportingService(
	accountRepo repo_interfaces.AccountRepository,
	ledgerRepo repo_interfaces.LedgerRepository,
	ceiling domain.Money,
) *ReportingService {
	return &ReportingService{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		ceiling:     ceiling,
	}
}

func (s *ReportingService) Dashboard(ctx context.Context) (commons.Response[models.DashboardResponse], error) {
	logger.Info("reporting service dashboard request", nil)

	var (
		totalAccounts int64
		totalBalance  domain.Money
		flagged       int64
		recent        []domain.LedgerEntry
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		count, err := s.accountRepo.Count(groupCtx)
		if err != nil {
			return err
		}
		totalAccounts = count
		return nil
	})
	group.Go(func() error {
		total, flaggedCount, err := s.accountRepo.SumBalances(groupCtx, s.ceiling)
		if err != nil {
			return err
		}
		totalBalance = total
		flagged = flaggedCount
		return nil
	})
	group.Go(func() error {
		entries, err := s.ledgerRepo.Recent(groupCtx, recentEntriesLimit)
		if err != nil {
			return err
		}
		recent = entries
		return nil
	})

	if err := group.Wait(); err != nil {
		logger.Error("reporting service dashboard failed", err, nil)
		return failure[models.DashboardResponse](err)
	}

	if flagged > 0 {
		logger.Warn("reporting service accounts at or above safety ceiling", logger.Fields{
			"flaggedAccounts": flagged,
			"ceiling":         s.ceiling.StringFixed(),
		})
	}

	response := models.DashboardResponse{
		TotalAccounts:   totalAccounts,
		TotalBalance:    totalBalance.StringFixed(),
		FlaggedAccounts: flagged,
		RecentEntries:   models.NewLedgerEntryViews(recent),
	}
	return commons.SuccessResponse("dashboard fetched successfully", response), nil
}
