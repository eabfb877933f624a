package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/galaxybank/ledger-core/internal/domain"
	"github.com/galaxybank/ledger-core/internal/logger"
)

func logRequest(r *http.Request, payload any) {
	logger.Info("http request", logger.Fields{
		"method":  r.Method,
		"path":    r.URL.Path,
		"query":   r.URL.RawQuery,
		"payload": logger.SanitizePayload(payload),
	})
}

func logResponse(r *http.Request, status int, payload any, start time.Time) {
	logger.Info("http response", logger.Fields{
		"method":     r.Method,
		"path":       r.URL.Path,
		"status":     status,
		"durationMs": time.Since(start).Milliseconds(),
		"response":   logger.SanitizePayload(payload),
	})
}

func logError(r *http.Request, err error, extra logger.Fields) {
	fields := logger.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
		"query":  r.URL.RawQuery,
	}
	for k, v := range extra {
		fields[k] = v
	}
	logger.Error("http handler error", err, fields)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("http write response failed", err, nil)
	}
}

// statusFor maps the domain error taxonomy onto HTTP statuses. Business
// rejections are 4xx, contention is retryable 409, everything unclassified
// is a server fault.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrSelfTransfer),
		errors.Is(err, domain.ErrNotBusinessAccount):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrInvoiceNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrAlreadyPaid),
		errors.Is(err, domain.ErrAccountInactive),
		errors.Is(err, domain.ErrSuspiciousMagnitude):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrContention):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
