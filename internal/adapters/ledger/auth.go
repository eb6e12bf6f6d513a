package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// Store-of-value tokens live for 24h; refresh an hour early so a token never
// expires mid-request.
const tokenValidity = 23 * time.Hour

type signinRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type signinResponse struct {
	Token string `json:"token"`
	Type  string `json:"type"`
}

// AuthSession acquires and caches the bearer credential for the store-of-value
// service. It is safe for concurrent use; the first caller after expiry
// re-authenticates while others wait.
type AuthSession struct {
	httpClient *http.Client
	baseURL    string
	username   string
	password   string
	logger     *slog.Logger

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

// NewAuthSession creates an auth session against the given store-of-value base URL.
func NewAuthSession(httpClient *http.Client, baseURL, username, password string, logger *slog.Logger) *AuthSession {
	return &AuthSession{
		httpClient: httpClient,
		baseURL:    baseURL,
		username:   username,
		password:   password,
		logger:     logger,
	}
}

// Token returns the cached credential, re-authenticating on first use or
// after the cached token's validity window has passed. The returned value is
// the full Authorization header value, e.g. "Bearer <token>".
func (s *AuthSession) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && time.Now().Before(s.expiresAt) {
		return s.token, nil
	}

	body, err := json.Marshal(signinRequest{Username: s.username, Password: s.password})
	if err != nil {
		return "", fmt.Errorf("failed to marshal signin request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/auth/signin", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build signin request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("signin request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("signin returned status %d", resp.StatusCode)
	}

	var signin signinResponse
	if err := json.NewDecoder(resp.Body).Decode(&signin); err != nil {
		return "", fmt.Errorf("failed to decode signin response: %w", err)
	}
	if signin.Token == "" || signin.Type == "" {
		return "", fmt.Errorf("signin response missing token or type")
	}

	s.token = signin.Type + " " + signin.Token
	s.expiresAt = time.Now().Add(tokenValidity)
	s.logger.Info("Authenticated with store-of-value service")

	return s.token, nil
}
