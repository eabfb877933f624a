// Package customer is the read-only client for the external customer
// directory. The ledger core only needs it to resolve owner display data;
// monetary correctness never depends on it.
package customer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/galaxybank/ledger-core/internal/domain"
	"github.com/galaxybank/ledger-core/internal/logger"
	"github.com/sony/gobreaker"
)

type DirectoryClient struct {
	httpClient *http.Client
	baseURL    string
	cb         *gobreaker.CircuitBreaker
}

func NewDirectoryClient(baseURL string) *DirectoryClient {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:     "customer-directory",
		Interval: time.Minute,
		Timeout:  30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &DirectoryClient{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		cb:         cb,
	}
}

type customerPayload struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
}

func (c *DirectoryClient) GetCustomer(ctx context.Context, ownerID string) (domain.Customer, error) {
	ownerID = strings.TrimSpace(ownerID)
	if c.baseURL == "" || ownerID == "" {
		return domain.Customer{}, fmt.Errorf("customer directory is not configured")
	}

	result, err := c.cb.Execute(func() (any, error) {
		return c.fetch(ctx, ownerID)
	})
	if err != nil {
		logger.Warn("customer directory lookup failed", logger.Fields{
			"ownerId": ownerID,
			"reason":  err.Error(),
		})
		return domain.Customer{}, err
	}

	payload := result.(customerPayload)
	return domain.Customer{
		ID:       payload.ID,
		FullName: payload.FullName,
		Phone:    payload.Phone,
	}, nil
}

func (c *DirectoryClient) fetch(ctx context.Context, ownerID string) (customerPayload, error) {
	endpoint := fmt.Sprintf("%s/customers/%s", c.baseURL, url.PathEscape(ownerID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return customerPayload{}, fmt.Errorf("create directory request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return customerPayload{}, fmt.Errorf("customer directory request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return customerPayload{}, fmt.Errorf("read directory response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return customerPayload{}, fmt.Errorf("customer %s not found in directory", ownerID)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return customerPayload{}, fmt.Errorf("customer directory returned status %d", resp.StatusCode)
	}

	var payload customerPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return customerPayload{}, fmt.Errorf("decode directory response: %w", err)
	}

	return payload, nil
}
