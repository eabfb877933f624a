package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/galaxybank/ledger-core/internal/adapter/http/models"
	"github.com/galaxybank/ledger-core/internal/commons"
)

type AccountService interface {
	CreateAccount(ctx context.Context, req models.CreateAccountRequest) (commons.Response[models.AccountView], error)
	GetAccount(ctx context.Context, accountNumber string) (commons.Response[models.AccountView], error)
	SetAccountActive(ctx context.Context, accountNumber string, active bool) (commons.Response[models.AccountView], error)
	ListEntries(ctx context.Context, accountNumber string, limit int) (commons.Response[models.AccountEntriesResponse], error)
}

type AccountController struct {
	service AccountService
}

func NewAccountController(service AccountService) *AccountController {
	return &AccountController{service: service}
}

func (c *AccountController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	mux.Handle("/accounts", wrap(http.HandlerFunc(c.create), authMiddleware))
	mux.Handle("/accounts/{number}", wrap(http.HandlerFunc(c.get), authMiddleware))
	mux.Handle("/accounts/{number}/deactivate", wrap(http.HandlerFunc(c.deactivate), authMiddleware))
	mux.Handle("/accounts/{number}/reactivate", wrap(http.HandlerFunc(c.reactivate), authMiddleware))
	mux.Handle("/accounts/{number}/entries", wrap(http.HandlerFunc(c.entries), authMiddleware))
}

func (c *AccountController) create(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if r.Method != http.MethodPost {
		response := commons.ErrorResponse[models.AccountView]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	var req models.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.AccountView]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.CreateAccount(r.Context(), req)
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

func (c *AccountController) get(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodGet {
		response := commons.ErrorResponse[models.AccountView]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	response, err := c.service.GetAccount(r.Context(), r.PathValue("number"))
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

func (c *AccountController) deactivate(w http.ResponseWriter, r *http.Request) {
	c.setActive(w, r, false)
}

func (c *AccountController) reactivate(w http.ResponseWriter, r *http.Request) {
	c.setActive(w, r, true)
}

func (c *AccountController) setActive(w http.ResponseWriter, r *http.Request, active bool) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodPost {
		response := commons.ErrorResponse[models.AccountView]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	response, err := c.service.SetAccountActive(r.Context(), r.PathValue("number"), active)
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

func (c *AccountController) entries(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodGet {
		response := commons.ErrorResponse[models.AccountEntriesResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response := commons.ErrorResponse[models.AccountEntriesResponse]("validation failed", "limit must be an integer")
			writeJSON(w, http.StatusBadRequest, response)
			logResponse(r, http.StatusBadRequest, response, start)
			return
		}
		limit = parsed
	}

	response, err := c.service.ListEntries(r.Context(), r.PathValue("number"), limit)
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
