package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Raajp10/ai-expense-tracker/internal/domain"
	"github.com/Raajp10/ai-expense-tracker/internal/infra/resilience"

	"go.uber.org/zap"
)

func newTestClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()
	return NewClient(
		&http.Client{Timeout: 2 * time.Second},
		server.URL,
		resilience.NewCircuitBreaker("test"),
		resilience.NewBulkhead(4),
		zap.NewNop(),
	)
}

func TestGetSummarySendsSelectionQuery(t *testing.T) {
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/analytics/summary" {
			t.Errorf("path = %s", r.URL.Path)
		}
		gotQuery = map[string]string{
			"user_id": r.URL.Query().Get("user_id"),
			"month":   r.URL.Query().Get("month"),
		}
		json.NewEncoder(w).Encode(domain.MonthlySummary{UserID: 3, Month: "2025-12", NetSavings: 12.5})
	}))
	defer server.Close()

	client := newTestClient(t, server)
	summary, err := client.GetSummary(context.Background(), 3, "2025-12")
	if err != nil {
		t.Fatalf("GetSummary: %v", err)
	}
	if summary.NetSavings != 12.5 {
		t.Errorf("net savings = %v", summary.NetSavings)
	}
	if gotQuery["user_id"] != "3" || gotQuery["month"] != "2025-12" {
		t.Errorf("query = %v", gotQuery)
	}
}

func TestFailedCallIsSingleAttempt(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"detail": "analytics backend unavailable"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	_, err := client.GetSummary(context.Background(), 1, "2025-12")

	var up *domain.ErrUpstream
	if !errors.As(err, &up) {
		t.Fatalf("err = %v, want ErrUpstream", err)
	}
	if up.Message != "analytics backend unavailable" {
		t.Errorf("message = %q", up.Message)
	}
	if up.Status != http.StatusInternalServerError {
		t.Errorf("status = %d", up.Status)
	}
	if calls != 1 {
		t.Errorf("upstream called %d times, want exactly 1", calls)
	}
}

func TestCreateTransactionValidationErrorIsFlattened(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail": [{"loc": ["body", "amount"], "msg": "value is not a valid float", "type": "type_error.float"}]}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	_, err := client.CreateTransaction(context.Background(), &domain.TransactionCreate{UserID: 1})

	var up *domain.ErrUpstream
	if !errors.As(err, &up) {
		t.Fatalf("err = %v, want ErrUpstream", err)
	}
	if up.Message != "body.amount: value is not a valid float" {
		t.Errorf("message = %q", up.Message)
	}
}

func TestTransportErrorYieldsGenericMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	client := newTestClient(t, server)
	_, err := client.ListTransactions(context.Background(), 1, "2025-12")

	var up *domain.ErrUpstream
	if !errors.As(err, &up) {
		t.Fatalf("err = %v, want ErrUpstream", err)
	}
	if up.Message != "Failed to fetch transactions" {
		t.Errorf("message = %q", up.Message)
	}
}

func TestRepeatedFailuresOpenCircuit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"detail": "down"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	for i := 0; i < 10; i++ {
		client.GetSummary(context.Background(), 1, "2025-12")
	}

	_, err := client.GetSummary(context.Background(), 1, "2025-12")
	var open *domain.ErrCircuitOpen
	if !errors.As(err, &open) {
		t.Fatalf("err = %v, want ErrCircuitOpen", err)
	}
}

func TestGetUserMapsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail": "User not found"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	_, err := client.GetUser(context.Background(), 42)

	var notFound *domain.ErrNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestAnomalyRequestCarriesThreshold(t *testing.T) {
	var got domain.AnomalyRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(domain.DailyAnomalySeries{ZThreshold: got.ZThreshold})
	}))
	defer server.Close()

	client := newTestClient(t, server)
	series, err := client.GetDailyAnomalies(context.Background(), domain.AnomalyRequest{UserID: 1, Month: "2025-12", ZThreshold: 2.0})
	if err != nil {
		t.Fatalf("GetDailyAnomalies: %v", err)
	}
	if got.ZThreshold != 2.0 || series.ZThreshold != 2.0 {
		t.Errorf("z threshold: sent %v, echoed %v", got.ZThreshold, series.ZThreshold)
	}
}
