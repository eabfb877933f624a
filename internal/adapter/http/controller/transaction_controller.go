package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/galaxybank/ledger-core/internal/adapter/http/models"
	"github.com/galaxybank/ledger-core/internal/commons"
)

type TransactionService interface {
	Deposit(ctx context.Context, req models.DepositRequest) (commons.Response[models.TransactionResponse], error)
	Withdraw(ctx context.Context, req models.WithdrawRequest) (commons.Response[models.TransactionResponse], error)
	Transfer(ctx context.Context, req models.TransferRequest) (commons.Response[models.TransferResponse], error)
}

type TransactionController struct {
	service TransactionService
}

func NewTransactionController(service TransactionService) *TransactionController {
	return &TransactionController{service: service}
}

func (c *TransactionController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	mux.Handle("/deposits", wrap(http.HandlerFunc(c.deposit), authMiddleware))
	mux.Handle("/withdrawals", wrap(http.HandlerFunc(c.withdraw), authMiddleware))
	mux.Handle("/transfers", wrap(http.HandlerFunc(c.transfer), authMiddleware))
}

func (c *TransactionController) deposit(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if r.Method != http.MethodPost {
		response := commons.ErrorResponse[models.TransactionResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	var req models.DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.TransactionResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.Deposit(r.Context(), req)
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

func (c *TransactionController) withdraw(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if r.Method != http.MethodPost {
		response := commons.ErrorResponse[models.TransactionResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	var req models.WithdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.TransactionResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.Withdraw(r.Context(), req)
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

func (c *TransactionController) transfer(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if r.Method != http.MethodPost {
		response := commons.ErrorResponse[models.TransferResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	var req models.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.TransferResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.Transfer(r.Context(), req)
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

func wrap(handler http.Handler, authMiddleware func(http.Handler) http.Handler) http.Handler {
	if authMiddleware != nil {
		return authMiddleware(handler)
	}
	return handler
}
