package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	portssvc "github.com/veloxpay/payment-service/internal/core/ports/services"
)

const defaultRequestTimeout = 15 * time.Second

// ledgerAmount marshals as a plain JSON number with at least two decimal
// places, matching the ledger's scaled decimal contract. Amounts with more
// precision are sent unrounded.
type ledgerAmount struct {
	decimal.Decimal
}

func (a ledgerAmount) MarshalJSON() ([]byte, error) {
	if a.Exponent() >= -2 {
		return []byte(a.StringFixed(2)), nil
	}
	return []byte(a.String()), nil
}

type mutationRequest struct {
	Amount               ledgerAmount `json:"amount"`
	Currency             string       `json:"currency"`
	TransactionReference string       `json:"transactionReference"`
}

type statusResponse struct {
	Status string `json:"status"`
}

// Client is the typed HTTP client for the store-of-value service. It never
// returns errors: every failure mode is converted to false, so callers treat
// transport problems and ledger-side rejections identically.
type Client struct {
	httpClient *http.Client
	baseURL    string
	auth       *AuthSession
	logger     *slog.Logger
}

var _ portssvc.LedgerClient = (*Client)(nil)

// NewClient creates a ledger client for the given base URL. A nil httpClient
// gets a default with a request timeout.
func NewClient(httpClient *http.Client, baseURL string, auth *AuthSession, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultRequestTimeout}
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		auth:       auth,
		logger:     logger,
	}
}

// IsAccountActive reports whether the account exists and its status is ACTIVE.
func (c *Client) IsAccountActive(ctx context.Context, accountID int64) bool {
	url := fmt.Sprintf("%s/api/accounts/%d/status", c.baseURL, accountID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		c.logger.Error("Failed to build account status request", slog.Int64("account_id", accountID), slog.String("error", err.Error()))
		return false
	}
	if !c.authorize(ctx, req) {
		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Account status request failed", slog.Int64("account_id", accountID), slog.String("error", err.Error()))
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("Account status check rejected", slog.Int64("account_id", accountID), slog.Int("status_code", resp.StatusCode))
		return false
	}

	var status statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		c.logger.Error("Failed to decode account status response", slog.Int64("account_id", accountID), slog.String("error", err.Error()))
		return false
	}

	return status.Status == "ACTIVE"
}

// CreditAccount credits the account, idempotency-keyed by reference.
func (c *Client) CreditAccount(ctx context.Context, accountID int64, amount decimal.Decimal, currency, reference string) bool {
	ok := c.mutate(ctx, accountID, "credit", amount, currency, reference)
	if ok {
		c.logger.Info("Successfully credited account", slog.Int64("account_id", accountID), slog.String("reference", reference))
	}
	return ok
}

// DebitAccount debits the account, idempotency-keyed by reference.
func (c *Client) DebitAccount(ctx context.Context, accountID int64, amount decimal.Decimal, currency, reference string) bool {
	ok := c.mutate(ctx, accountID, "debit", amount, currency, reference)
	if ok {
		c.logger.Info("Successfully debited account", slog.Int64("account_id", accountID), slog.String("reference", reference))
	}
	return ok
}

func (c *Client) mutate(ctx context.Context, accountID int64, operation string, amount decimal.Decimal, currency, reference string) bool {
	url := fmt.Sprintf("%s/api/accounts/%d/%s", c.baseURL, accountID, operation)

	body, err := json.Marshal(mutationRequest{
		Amount:               ledgerAmount{amount},
		Currency:             currency,
		TransactionReference: reference,
	})
	if err != nil {
		c.logger.Error("Failed to marshal ledger mutation request", slog.String("operation", operation), slog.String("error", err.Error()))
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		c.logger.Error("Failed to build ledger mutation request", slog.String("operation", operation), slog.String("error", err.Error()))
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	if !c.authorize(ctx, req) {
		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Ledger mutation request failed", slog.String("operation", operation), slog.Int64("account_id", accountID), slog.String("error", err.Error()))
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("Ledger mutation rejected", slog.String("operation", operation), slog.Int64("account_id", accountID), slog.Int("status_code", resp.StatusCode))
		return false
	}

	return true
}

// authorize attaches the bearer credential; the ledger call is never attempted
// without one.
func (c *Client) authorize(ctx context.Context, req *http.Request) bool {
	token, err := c.auth.Token(ctx)
	if err != nil {
		c.logger.Error("Failed to get authentication token for store-of-value service", slog.String("error", err.Error()))
		return false
	}
	req.Header.Set("Authorization", token)
	return true
}
