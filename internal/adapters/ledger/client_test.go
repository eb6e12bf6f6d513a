package ledger_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veloxpay/payment-service/internal/adapters/ledger"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ledgerStub fakes the store-of-value service: a signin endpoint plus
// configurable handlers for the account endpoints.
type ledgerStub struct {
	t            *testing.T
	signinCalls  atomic.Int64
	signinStatus int
	mux          *http.ServeMux
}

func newLedgerStub(t *testing.T) *ledgerStub {
	s := &ledgerStub{t: t, signinStatus: http.StatusOK, mux: http.NewServeMux()}
	s.mux.HandleFunc("POST /api/auth/signin", func(w http.ResponseWriter, r *http.Request) {
		s.signinCalls.Add(1)

		var body struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "svc-payments", body.Username)

		if s.signinStatus != http.StatusOK {
			w.WriteHeader(s.signinStatus)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"token": "tok-123", "type": "Bearer"})
	})
	return s
}

func (s *ledgerStub) client(server *httptest.Server) *ledger.Client {
	auth := ledger.NewAuthSession(server.Client(), server.URL, "svc-payments", "secret", discardLogger())
	return ledger.NewClient(server.Client(), server.URL, auth, discardLogger())
}

func TestIsAccountActive(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		want       bool
	}{
		{name: "active account", statusCode: http.StatusOK, body: `{"status":"ACTIVE"}`, want: true},
		{name: "frozen account", statusCode: http.StatusOK, body: `{"status":"FROZEN"}`, want: false},
		{name: "unknown account", statusCode: http.StatusNotFound, body: `{"error":"not found"}`, want: false},
		{name: "server error", statusCode: http.StatusInternalServerError, body: ``, want: false},
		{name: "malformed body", statusCode: http.StatusOK, body: `{{{`, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := newLedgerStub(t)
			stub.mux.HandleFunc("GET /api/accounts/42/status", func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
				w.WriteHeader(tt.statusCode)
				io.WriteString(w, tt.body)
			})
			server := httptest.NewServer(stub.mux)
			defer server.Close()

			active := stub.client(server).IsAccountActive(context.Background(), 42)

			assert.Equal(t, tt.want, active)
		})
	}
}

func TestCreditAccount(t *testing.T) {
	stub := newLedgerStub(t)
	var gotBody map[string]any
	stub.mux.HandleFunc("POST /api/accounts/42/credit", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		dec := json.NewDecoder(r.Body)
		dec.UseNumber()
		assert.NoError(t, dec.Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	})
	server := httptest.NewServer(stub.mux)
	defer server.Close()

	ok := stub.client(server).CreditAccount(context.Background(), 42, decimal.RequireFromString("100.00"), "USD", "TXN-AB12CD34")

	require.True(t, ok)
	assert.Equal(t, json.Number("100.00"), gotBody["amount"])
	assert.Equal(t, "USD", gotBody["currency"])
	assert.Equal(t, "TXN-AB12CD34", gotBody["transactionReference"])
}

func TestMutationAmountWireFormat(t *testing.T) {
	tests := []struct {
		amount string
		want   json.Number
	}{
		{amount: "100.00", want: "100.00"},
		{amount: "7", want: "7.00"},
		{amount: "0.1", want: "0.10"},
		{amount: "0.1250", want: "0.125"},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			stub := newLedgerStub(t)
			var gotAmount json.Number
			stub.mux.HandleFunc("POST /api/accounts/42/credit", func(w http.ResponseWriter, r *http.Request) {
				var body map[string]any
				dec := json.NewDecoder(r.Body)
				dec.UseNumber()
				assert.NoError(t, dec.Decode(&body))
				gotAmount, _ = body["amount"].(json.Number)
				w.WriteHeader(http.StatusOK)
			})
			server := httptest.NewServer(stub.mux)
			defer server.Close()

			ok := stub.client(server).CreditAccount(context.Background(), 42, decimal.RequireFromString(tt.amount), "USD", "TXN-AB12CD34")

			require.True(t, ok)
			assert.Equal(t, tt.want, gotAmount)
		})
	}
}

func TestDebitAccountRejected(t *testing.T) {
	stub := newLedgerStub(t)
	stub.mux.HandleFunc("POST /api/accounts/42/debit", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		io.WriteString(w, `{"error":"insufficient funds"}`)
	})
	server := httptest.NewServer(stub.mux)
	defer server.Close()

	ok := stub.client(server).DebitAccount(context.Background(), 42, decimal.RequireFromString("100.00"), "USD", "TXN-AB12CD34")

	assert.False(t, ok)
}

func TestAuthFailureShortCircuits(t *testing.T) {
	stub := newLedgerStub(t)
	stub.signinStatus = http.StatusUnauthorized
	stub.mux.HandleFunc("GET /api/accounts/42/status", func(w http.ResponseWriter, r *http.Request) {
		t.Error("account endpoint must not be called without a token")
	})
	server := httptest.NewServer(stub.mux)
	defer server.Close()

	active := stub.client(server).IsAccountActive(context.Background(), 42)

	assert.False(t, active)
}

func TestTokenIsCachedAcrossCalls(t *testing.T) {
	stub := newLedgerStub(t)
	stub.mux.HandleFunc("GET /api/accounts/42/status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"status":"ACTIVE"}`)
	})
	stub.mux.HandleFunc("POST /api/accounts/42/credit", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	server := httptest.NewServer(stub.mux)
	defer server.Close()

	client := stub.client(server)
	ctx := context.Background()

	assert.True(t, client.IsAccountActive(ctx, 42))
	assert.True(t, client.IsAccountActive(ctx, 42))
	assert.True(t, client.CreditAccount(ctx, 42, decimal.RequireFromString("1.00"), "USD", "TXN-11111111"))

	assert.Equal(t, int64(1), stub.signinCalls.Load())
}
