package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Raajp10/ai-expense-tracker/internal/domain"
	"github.com/Raajp10/ai-expense-tracker/internal/handler"
	"github.com/Raajp10/ai-expense-tracker/internal/infra/cache"
	"github.com/Raajp10/ai-expense-tracker/internal/infra/observability"
	"github.com/Raajp10/ai-expense-tracker/internal/service"
	"github.com/Raajp10/ai-expense-tracker/internal/state"

	"go.uber.org/zap"
)

// ---- stub upstream ports ----

type stubUpstream struct {
	failAll bool
	answer  string
}

func (s *stubUpstream) err(op string) error {
	return &domain.ErrUpstream{Operation: op, Status: http.StatusInternalServerError, Message: "Failed to " + op}
}

func (s *stubUpstream) GetSummary(ctx context.Context, userID int, month string) (*domain.MonthlySummary, error) {
	if s.failAll {
		return nil, s.err("fetch summary")
	}
	return &domain.MonthlySummary{UserID: userID, Month: month, TotalIncome: 100}, nil
}

func (s *stubUpstream) GetByCategory(ctx context.Context, userID int, month string) ([]domain.CategoryTotal, error) {
	if s.failAll {
		return nil, s.err("fetch category data")
	}
	return []domain.CategoryTotal{{Category: "food", TotalExpense: 50}}, nil
}

func (s *stubUpstream) GetBudgetCompare(ctx context.Context, userID int, month string) ([]domain.BudgetCompareRow, error) {
	if s.failAll {
		return nil, s.err("fetch budget comparison")
	}
	return []domain.BudgetCompareRow{}, nil
}

func (s *stubUpstream) ListTransactions(ctx context.Context, userID int, month string) ([]domain.Transaction, error) {
	if s.failAll {
		return nil, s.err("fetch transactions")
	}
	return []domain.Transaction{{ID: 1, UserID: userID, Amount: -25, CategoryName: "food"}}, nil
}

func (s *stubUpstream) CreateTransaction(ctx context.Context, req *domain.TransactionCreate) (*domain.Transaction, error) {
	if s.failAll {
		return nil, s.err("create transaction")
	}
	return &domain.Transaction{ID: 2, UserID: req.UserID, Amount: req.Amount, CategoryName: req.CategoryName, Date: req.Date}, nil
}

func (s *stubUpstream) ListBudgets(ctx context.Context, userID int, month string) ([]domain.Budget, error) {
	return []domain.Budget{}, nil
}

func (s *stubUpstream) UpsertBudget(ctx context.Context, req *domain.BudgetCreate) (*domain.Budget, error) {
	return &domain.Budget{ID: 1, UserID: req.UserID, CategoryName: req.CategoryName, Month: req.Month, Amount: req.Amount}, nil
}

func (s *stubUpstream) GetDailyAnomalies(ctx context.Context, req domain.AnomalyRequest) (*domain.DailyAnomalySeries, error) {
	return &domain.DailyAnomalySeries{UserID: req.UserID, Month: req.Month, ZThreshold: req.ZThreshold}, nil
}

func (s *stubUpstream) GetDailyPlot(ctx context.Context, req domain.AnomalyRequest) (*domain.DailyPlotBands, error) {
	return &domain.DailyPlotBands{}, nil
}

func (s *stubUpstream) GetTransactionAnomalies(ctx context.Context, req domain.AnomalyRequest) (*domain.TransactionAnomalies, error) {
	return &domain.TransactionAnomalies{}, nil
}

func (s *stubUpstream) GetSegment(ctx context.Context, userID int, month string) (*domain.Segment, error) {
	return &domain.Segment{ClusterID: 1, Label: "steady saver"}, nil
}

func (s *stubUpstream) Ask(ctx context.Context, q domain.RagQuestion) (*domain.RagAnswer, error) {
	if s.failAll {
		return nil, s.err("ask assistant")
	}
	return &domain.RagAnswer{Answer: s.answer}, nil
}

func (s *stubUpstream) GetUser(ctx context.Context, id int) (*domain.User, error) {
	if id == 404 {
		return nil, &domain.ErrNotFound{Resource: "user", ID: "404"}
	}
	return &domain.User{ID: id, Name: "Raaj"}, nil
}

type stubPrefs struct{}

func (stubPrefs) GetTheme(context.Context, string) (domain.Theme, bool, error) { return "", false, nil }
func (stubPrefs) SetTheme(context.Context, string, domain.Theme) error         { return nil }
func (stubPrefs) Close() error                                                 { return nil }

func newTestRouter(up *stubUpstream) http.Handler {
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	mgr := state.NewManager(stubPrefs{}, time.Hour, logger)
	snaps := service.NewSnapshots()

	svcs := handler.Services{
		State:        mgr,
		Dashboard:    service.NewDashboardService(up, mgr, snaps, metrics, logger),
		Transactions: service.NewTransactionsService(up, mgr, snaps, metrics, logger),
		Budgets:      service.NewBudgetsService(up, mgr, snaps, metrics, logger),
		Anomalies:    service.NewAnomaliesService(up, mgr, snaps, metrics, logger),
		Profile:      service.NewProfileService(up, mgr, snaps, metrics, logger),
		Users:        service.NewUserService(up, cache.New[*domain.User](time.Minute), metrics, logger),
		Assistant:    service.NewAssistantService(up, mgr, metrics, logger),
	}
	mgr.OnPrune(snaps, svcs.Assistant)
	return handler.NewRouter(svcs, "test-secret", time.Hour, metrics, logger)
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// ---- operational endpoints ----

func TestHealthz(t *testing.T) {
	router := newTestRouter(&stubUpstream{})
	rec := doJSON(t, router, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestReadyz(t *testing.T) {
	router := newTestRouter(&stubUpstream{})
	rec := doJSON(t, router, http.MethodGet, "/readyz", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(&stubUpstream{})
	rec := doJSON(t, router, http.MethodGet, "/metrics", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestUIMetricsEndpoint(t *testing.T) {
	router := newTestRouter(&stubUpstream{})
	rec := doJSON(t, router, http.MethodGet, "/v1/metrics/ui", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

// ---- state endpoints ----

func TestGetStateReturnsDefaultsAndCookie(t *testing.T) {
	router := newTestRouter(&stubUpstream{})
	rec := doJSON(t, router, http.MethodGet, "/v1/state", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	found := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == state.CookieName {
			found = true
		}
	}
	if !found {
		t.Error("no session cookie set")
	}

	var view state.View
	if err := json.NewDecoder(rec.Body).Decode(&view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if view.Selection.UserID != 1 {
		t.Errorf("default user = %d, want 1", view.Selection.UserID)
	}
	if view.Selection.Month == "" {
		t.Error("default month empty")
	}
}

func TestSetUserCoercesInvalidInput(t *testing.T) {
	router := newTestRouter(&stubUpstream{})
	rec := doJSON(t, router, http.MethodPut, "/v1/state/user", map[string]any{"user_id": "not-a-number"})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Selection domain.Selection `json:"selection"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Selection.UserID != 1 {
		t.Errorf("user = %d, want fallback 1", resp.Selection.UserID)
	}
}

// ---- page endpoints ----

func TestDashboardPage(t *testing.T) {
	router := newTestRouter(&stubUpstream{})
	rec := doJSON(t, router, http.MethodGet, "/v1/pages/dashboard", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Snapshot domain.Snapshot `json:"snapshot"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Snapshot.State != domain.PageReady {
		t.Errorf("state = %s, want ready", resp.Snapshot.State)
	}
}

func TestDashboardPageUpstreamFailure(t *testing.T) {
	router := newTestRouter(&stubUpstream{failAll: true})
	rec := doJSON(t, router, http.MethodGet, "/v1/pages/dashboard", nil)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	var resp struct {
		Snapshot domain.Snapshot `json:"snapshot"`
		Error    string          `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Snapshot.State != domain.PageSettled {
		t.Errorf("state = %s, want settled", resp.Snapshot.State)
	}
	if resp.Error == "" {
		t.Error("missing error message")
	}
}

// ---- forms ----

func TestCreateTransaction(t *testing.T) {
	router := newTestRouter(&stubUpstream{})
	rec := doJSON(t, router, http.MethodPost, "/v1/transactions", map[string]string{
		"category_name":    "food",
		"amount":           "12.50",
		"transaction_date": "2025-12-05",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCreateTransactionValidation(t *testing.T) {
	router := newTestRouter(&stubUpstream{})
	rec := doJSON(t, router, http.MethodPost, "/v1/transactions", map[string]string{
		"category_name": "food",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

// ---- assistant ----

func TestAssistantAsk(t *testing.T) {
	router := newTestRouter(&stubUpstream{answer: "mostly groceries"})
	rec := doJSON(t, router, http.MethodPost, "/v1/assistant/ask", map[string]string{
		"question": "where did my money go?",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var tr domain.Transcript
	if err := json.NewDecoder(rec.Body).Decode(&tr); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(tr.Messages) != 3 {
		t.Fatalf("messages = %d, want welcome + pair", len(tr.Messages))
	}
	if tr.Messages[2].Content != "mostly groceries" {
		t.Errorf("answer = %q", tr.Messages[2].Content)
	}
}

func TestAssistantAskFailureKeepsApologyTranscript(t *testing.T) {
	router := newTestRouter(&stubUpstream{failAll: true})
	rec := doJSON(t, router, http.MethodPost, "/v1/assistant/ask", map[string]string{
		"question": "anything odd?",
	})
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	var tr domain.Transcript
	if err := json.NewDecoder(rec.Body).Decode(&tr); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(tr.Messages) != 3 || tr.Messages[2].Content != domain.ApologyMessage {
		t.Fatalf("transcript = %+v", tr.Messages)
	}
}

// ---- users ----

func TestGetUser(t *testing.T) {
	router := newTestRouter(&stubUpstream{})
	rec := doJSON(t, router, http.MethodGet, "/v1/users/7", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var u domain.User
	if err := json.NewDecoder(rec.Body).Decode(&u); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if u.ID != 7 {
		t.Errorf("id = %d", u.ID)
	}
}

func TestGetUserNotFound(t *testing.T) {
	router := newTestRouter(&stubUpstream{})
	rec := doJSON(t, router, http.MethodGet, "/v1/users/404", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestGetUserBadID(t *testing.T) {
	router := newTestRouter(&stubUpstream{})
	rec := doJSON(t, router, http.MethodGet, "/v1/users/zero", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
