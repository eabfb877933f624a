package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/galaxybank/ledger-core/internal/adapter/http/models"
	"github.com/galaxybank/ledger-core/internal/commons"
)

type ReportingService interface {
	Dashboard(ctx context.Context) (commons.Response[models.DashboardResponse], error)
}

type ReportingController struct {
	service ReportingService
}

func NewReportingController(service ReportingService) *ReportingController {
	return &ReportingController{service: service}
}

func (c *ReportingController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	mux.Handle("/dashboard", wrap(http.HandlerFunc(c.dashboard), authMiddleware))
}

func (c *ReportingController) dashboard(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodGet {
		response := commons.ErrorResponse[models.DashboardResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	response, err := c.service.Dashboard(r.Context())
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
