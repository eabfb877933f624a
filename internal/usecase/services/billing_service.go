package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/galaxybank/ledger-core/internal/adapter/http/models"
	"github.com/galaxybank/ledger-core/internal/adapter/repository/repo_interfaces"
	"github.com/galaxybank/ledger-core/internal/commons"
	"github.com/galaxybank/ledger-core/internal/domain"
	"github.com/galaxybank/ledger-core/internal/logger"
)

// BillingService issues invoices against business accounts. Settlement of an
// invoice is a transaction-engine operation (PayInvoice); this service only
// owns issuance and read views.
type BillingService struct {
	accountRepo repo_interfaces.AccountRepository
	invoiceRepo repo_interfaces.InvoiceRepository
}

func NewBillingService(
	accountRepo repo_interfaces.AccountRepository,
	invoiceRepo repo_interfaces.InvoiceRepository,
) *BillingService {
	return &BillingService{
		accountRepo: accountRepo,
		invoiceRepo: invoiceRepo,
	}
}

func (s *BillingService) IssueInvoice(ctx context.Context, req models.IssueInvoiceRequest) (commons.Response[models.InvoiceView], error) {
	logger.Info("billing service issue invoice request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("billing service issue invoice validation failed", err, nil)
		return commons.ErrorResponse[models.InvoiceView]("validation failed", err.Error()), err
	}

	amount, err := positiveMoney(req.Amount.String())
	if err != nil {
		return failure[models.InvoiceView](err)
	}

	issuerNumber := strings.TrimSpace(req.IssuerAccountNumber)
	issuer, err := s.accountRepo.GetByAccountNumber(ctx, issuerNumber)
	if err != nil {
		logger.Error("billing service issue invoice issuer lookup failed", err, logger.Fields{
			"issuerAccountNumber": issuerNumber,
		})
		return failure[models.InvoiceView](err)
	}

	if issuer.Type != domain.AccountTypeBusiness {
		err := fmt.Errorf("account %s: %w", issuerNumber, domain.ErrNotBusinessAccount)
		logger.Error("billing service issue invoice rejected", err, logger.Fields{
			"issuerAccountNumber": issuerNumber,
		})
		return failure[models.InvoiceView](err)
	}
	if !issuer.Active {
		err := fmt.Errorf("account %s: %w", issuerNumber, domain.ErrAccountInactive)
		return failure[models.InvoiceView](err)
	}

	invoice := domain.Invoice{
		IssuerAccountID:     issuer.ID,
		IssuerAccountNumber: issuerNumber,
		ServiceKind:         domain.ServiceKind(strings.ToUpper(strings.TrimSpace(req.ServiceKind))),
		Amount:              amount,
		Description:         strings.TrimSpace(req.Description),
		Status:              domain.InvoiceStatusUnpaid,
	}

	var created domain.Invoice
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		invoice.InvoiceNumber = generateInvoiceNumber(time.Now().UTC())
		created, err = s.invoiceRepo.Create(ctx, invoice)
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrDuplicateNumber) {
			logger.Error("billing service issue invoice repository failed", err, logger.Fields{
				"issuerAccountNumber": issuerNumber,
			})
			return failure[models.InvoiceView](err)
		}
	}
	if err != nil {
		err = fmt.Errorf("invoice number generation: %w", domain.ErrGenerationExhausted)
		logger.Error("billing service issue invoice generation exhausted", err, logger.Fields{
			"issuerAccountNumber": issuerNumber,
		})
		return failure[models.InvoiceView](err)
	}

	logger.Info("billing service issue invoice success", logger.Fields{
		"invoiceNumber":       created.InvoiceNumber,
		"issuerAccountNumber": issuerNumber,
		"amount":              created.Amount.StringFixed(),
	})

	return commons.SuccessResponse("invoice issued successfully", models.NewInvoiceView(created)), nil
}

func (s *BillingService) GetInvoice(ctx context.Context, invoiceNumber string) (commons.Response[models.InvoiceView], error) {
	invoiceNumber = strings.TrimSpace(invoiceNumber)
	logger.Info("billing service get invoice request", logger.Fields{
		"invoiceNumber": invoiceNumber,
	})

	invoice, err := s.invoiceRepo.GetByNumber(ctx, invoiceNumber)
	if err != nil {
		logger.Error("billing service get invoice failed", err, logger.Fields{
			"invoiceNumber": invoiceNumber,
		})
		return failure[models.InvoiceView](err)
	}

	return commons.SuccessResponse("invoice fetched successfully", models.NewInvoiceView(invoice)), nil
}

func (s *BillingService) ListInvoicesForIssuer(ctx context.Context, issuerAccountNumber string, limit int) (commons.Response[[]models.InvoiceView], error) {
	issuerAccountNumber = strings.TrimSpace(issuerAccountNumber)
	logger.Info("billing service list invoices request", logger.Fields{
		"issuerAccountNumber": issuerAccountNumber,
		"limit":               limit,
	})

	if limit <= 0 || limit > 200 {
		limit = 50
	}

	if _, err := s.accountRepo.GetByAccountNumber(ctx, issuerAccountNumber); err != nil {
		logger.Error("billing service list invoices issuer lookup failed", err, logger.Fields{
			"issuerAccountNumber": issuerAccountNumber,
		})
		return failure[[]models.InvoiceView](err)
	}

	invoices, err := s.invoiceRepo.ListForIssuer(ctx, issuerAccountNumber, limit)
	if err != nil {
		logger.Error("billing service list invoices failed", err, logger.Fields{
			"issuerAccountNumber": issuerAccountNumber,
		})
		return failure[[]models.InvoiceView](err)
	}

	views := make([]models.InvoiceView, 0, len(invoices))
	for _, invoice := range invoices {
		views = append(views, models.NewInvoiceView(invoice))
	}
	return commons.SuccessResponse("invoices fetched successfully", views), nil
}

// generateInvoiceNumber draws a fresh invoice number: prefix, issue date and
// a random six-digit suffix. Uniqueness is enforced by the store; collisions
// are retried by the caller.
func generateInvoiceNumber(now time.Time) string {
	return fmt.Sprintf("INV%s%06d", now.Format("20060102"), rand.Int64N(1_000_000))
}
