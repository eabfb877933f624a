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

type InvoiceRepository struct {
	db *sql.DB
}

func NewInvoiceRepository(db *sql.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

func (r *InvoiceRepository) Create(ctx context.Context, invoice domain.Invoice) (domain.Invoice, error) {
	logger.Info("invoice repository create", logger.Fields{
		"invoiceNumber":       invoice.InvoiceNumber,
		"issuerAccountNumber": invoice.IssuerAccountNumber,
		"serviceKind":         invoice.ServiceKind,
	})

	const query = `
INSERT INTO invoices (
	id,
	invoice_number,
	issuer_account_id,
	issuer_account_number,
	service_kind,
	amount,
	description,
	status
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING created_at`

	if invoice.ID == "" {
		invoice.ID = uuid.NewString()
	}

	if err := r.db.QueryRowContext(
		ctx,
		query,
		invoice.ID,
		invoice.InvoiceNumber,
		invoice.IssuerAccountID,
		invoice.IssuerAccountNumber,
		invoice.ServiceKind,
		invoice.Amount.StringFixed(),
		invoice.Description,
		invoice.Status,
	).Scan(&invoice.CreatedAt); err != nil {
		classified := classifyError(err)
		if errors.Is(classified, domain.ErrDuplicateNumber) {
			logger.Info("invoice repository number collision", logger.Fields{
				"invoiceNumber": invoice.InvoiceNumber,
			})
			return domain.Invoice{}, domain.ErrDuplicateNumber
		}
		logger.Error("invoice repository create failed", err, logger.Fields{
			"invoiceNumber": invoice.InvoiceNumber,
		})
		return domain.Invoice{}, fmt.Errorf("create invoice: %w", classified)
	}

	logger.Info("invoice repository create success", logger.Fields{
		"invoiceId":     invoice.ID,
		"invoiceNumber": invoice.InvoiceNumber,
	})

	return invoice, nil
}

func (r *InvoiceRepository) GetByNumber(ctx context.Context, invoiceNumber string) (domain.Invoice, error) {
	const query = `
SELECT id, invoice_number, issuer_account_id, issuer_account_number, service_kind,
       amount, description, status, payer_account_number, created_at, paid_at
FROM invoices
WHERE invoice_number = $1`

	invoice, err := scanInvoice(r.db.QueryRowContext(ctx, query, invoiceNumber))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logger.Info("invoice repository record not found", logger.Fields{
				"invoiceNumber": invoiceNumber,
			})
			return domain.Invoice{}, domain.ErrInvoiceNotFound
		}
		logger.Error("invoice repository get failed", err, logger.Fields{
			"invoiceNumber": invoiceNumber,
		})
		return domain.Invoice{}, fmt.Errorf("get invoice by number: %w", err)
	}

	return invoice, nil
}

func (r *InvoiceRepository) ListForIssuer(ctx context.Context, issuerAccountNumber string, limit int) ([]domain.Invoice, error) {
	const query = `
SELECT id, invoice_number, issuer_account_id, issuer_account_number, service_kind,
       amount, description, status, payer_account_number, created_at, paid_at
FROM invoices
WHERE issuer_account_number = $1
ORDER BY created_at DESC, id DESC
LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, issuerAccountNumber, limit)
	if err != nil {
		logger.Error("invoice repository list for issuer failed", err, logger.Fields{
			"issuerAccountNumber": issuerAccountNumber,
		})
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	invoices := make([]domain.Invoice, 0)
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		invoices = append(invoices, invoice)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate invoices: %w", err)
	}

	return invoices, nil
}
