package handler

import (
	"net/http"
	"time"

	"github.com/Raajp10/ai-expense-tracker/internal/infra/observability"
	"github.com/Raajp10/ai-expense-tracker/internal/service"
	"github.com/Raajp10/ai-expense-tracker/internal/state"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// Services bundles everything the router serves. All dependencies are
// passed in here; handlers never construct their own.
type Services struct {
	State        *state.Manager
	Dashboard    *service.DashboardService
	Transactions *service.TransactionsService
	Budgets      *service.BudgetsService
	Anomalies    *service.AnomaliesService
	Profile      *service.ProfileService
	Users        *service.UserService
	Assistant    *service.AssistantService
}

// NewRouter creates the HTTP router with all routes and middleware.
// Every /v1 route runs behind the session middleware, which establishes
// the per-session selection state before any handler executes.
func NewRouter(svcs Services, sessionSecret string, sessionTTL time.Duration, metrics *observability.Metrics, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler())
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {
		r.Use(state.Middleware(svcs.State, sessionSecret, sessionTTL, logger))

		// Selection and theme state
		r.Get("/state", getStateHandler(svcs.State, logger))
		r.Put("/state/user", setUserHandler(svcs.State, logger))
		r.Put("/state/month", setMonthHandler(svcs.State, logger))
		r.Post("/state/theme/toggle", toggleThemeHandler(svcs.State, logger))

		// Page snapshots
		r.Get("/pages/dashboard", pageHandler("dashboard", svcs.Dashboard.Load, logger))
		r.Get("/pages/transactions", pageHandler("transactions", svcs.Transactions.Load, logger))
		r.Get("/pages/budgets", pageHandler("budgets", svcs.Budgets.Load, logger))
		r.Get("/pages/anomalies", pageHandler("anomalies", svcs.Anomalies.Load, logger))
		r.Get("/pages/profile", pageHandler("profile", svcs.Profile.Load, logger))

		// Forms
		r.Post("/transactions", createTransactionHandler(svcs.Transactions, logger))
		r.Post("/budgets", upsertBudgetHandler(svcs.Budgets, logger))

		// Assistant
		r.Get("/assistant/transcript", transcriptHandler(svcs.Assistant, logger))
		r.Post("/assistant/ask", askHandler(svcs.Assistant, logger))

		// Top-bar user lookup
		r.Get("/users/{userId}", getUserHandler(svcs.Users, logger))

		// Aggregate UI metrics
		r.Get("/metrics/ui", uiMetricsHandler(metrics, logger))
	})

	return r
}

func healthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func uiMetricsHandler(metrics *observability.Metrics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot := metrics.GetUISnapshot()
		writeJSON(w, http.StatusOK, snapshot)
	}
}
