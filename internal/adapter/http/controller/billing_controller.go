package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/galaxybank/ledger-core/internal/adapter/http/models"
	"github.com/galaxybank/ledger-core/internal/commons"
)

type BillingService interface {
	IssueInvoice(ctx context.Context, req models.IssueInvoiceRequest) (commons.Response[models.InvoiceView], error)
	GetInvoice(ctx context.Context, invoiceNumber string) (commons.Response[models.InvoiceView], error)
	ListInvoicesForIssuer(ctx context.Context, issuerAccountNumber string, limit int) (commons.Response[[]models.InvoiceView], error)
}

type InvoicePaymentService interface {
	PayInvoice(ctx context.Context, req models.PayInvoiceRequest) (commons.Response[models.PayInvoiceResponse], error)
}

type BillingController struct {
	billing  BillingService
	payments InvoicePaymentService
}

func NewBillingController(billing BillingService, payments InvoicePaymentService) *BillingController {
	return &BillingController{billing: billing, payments: payments}
}

func (c *BillingController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	mux.Handle("/invoices", wrap(http.HandlerFunc(c.issue), authMiddleware))
	mux.Handle("/invoices/{number}", wrap(http.HandlerFunc(c.get), authMiddleware))
	mux.Handle("/invoices/{number}/pay", wrap(http.HandlerFunc(c.pay), authMiddleware))
	mux.Handle("/accounts/{number}/invoices", wrap(http.HandlerFunc(c.listForIssuer), authMiddleware))
}

func (c *BillingController) issue(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if r.Method != http.MethodPost {
		response := commons.ErrorResponse[models.InvoiceView]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	var req models.IssueInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.InvoiceView]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.billing.IssueInvoice(r.Context(), req)
	if err != nil {
		logError(r, err, nil)
		status := statusFor(err)
		if response.Message == "validation failed" {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusCreated, response)
	logResponse(r, http.StatusCreated, response, start)
}

func (c *BillingController) get(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodGet {
		response := commons.ErrorResponse[models.InvoiceView]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	response, err := c.billing.GetInvoice(r.Context(), r.PathValue("number"))
	if err != nil {
		logError(r, err, nil)
		status := statusFor(err)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *BillingController) pay(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if r.Method != http.MethodPost {
		response := commons.ErrorResponse[models.PayInvoiceResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	var req models.PayInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.PayInvoiceResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	req.InvoiceNumber = r.PathValue("number")
	logRequest(r, req)

	response, err := c.payments.PayInvoice(r.Context(), req)
	if err != nil {
		logError(r, err, nil)
		status := statusFor(err)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *BillingController) listForIssuer(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodGet {
		response := commons.ErrorResponse[[]models.InvoiceView]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	response, err := c.billing.ListInvoicesForIssuer(r.Context(), r.PathValue("number"), 0)
	if err != nil {
		logError(r, err, nil)
		status := statusFor(err)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}
