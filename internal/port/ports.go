// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the page services
// from the concrete upstream gateway and stores, which also keeps the
// services testable with hand-written stubs.
package port

import (
	"context"

	"github.com/Raajp10/ai-expense-tracker/internal/domain"
)

// AnalyticsFetcher retrieves the pre-computed monthly analytics the
// dashboard renders.
type AnalyticsFetcher interface {
	GetSummary(ctx context.Context, userID int, month string) (*domain.MonthlySummary, error)
	GetByCategory(ctx context.Context, userID int, month string) ([]domain.CategoryTotal, error)
	GetBudgetCompare(ctx context.Context, userID int, month string) ([]domain.BudgetCompareRow, error)
}

// TransactionsStore lists and creates transactions upstream.
type TransactionsStore interface {
	ListTransactions(ctx context.Context, userID int, month string) ([]domain.Transaction, error)
	CreateTransaction(ctx context.Context, req *domain.TransactionCreate) (*domain.Transaction, error)
}

// BudgetsStore lists and upserts budgets upstream.
type BudgetsStore interface {
	ListBudgets(ctx context.Context, userID int, month string) ([]domain.Budget, error)
	UpsertBudget(ctx context.Context, req *domain.BudgetCreate) (*domain.Budget, error)
}

// AnomalyFetcher runs the upstream anomaly computations. The z-threshold
// in the request is forwarded unchanged.
type AnomalyFetcher interface {
	GetDailyAnomalies(ctx context.Context, req domain.AnomalyRequest) (*domain.DailyAnomalySeries, error)
	GetDailyPlot(ctx context.Context, req domain.AnomalyRequest) (*domain.DailyPlotBands, error)
	GetTransactionAnomalies(ctx context.Context, req domain.AnomalyRequest) (*domain.TransactionAnomalies, error)
}

// SegmentFetcher retrieves the spending-behavior segment for a month.
type SegmentFetcher interface {
	GetSegment(ctx context.Context, userID int, month string) (*domain.Segment, error)
}

// RagCaller forwards one question to the retrieval-augmented-generation
// endpoint.
type RagCaller interface {
	Ask(ctx context.Context, q domain.RagQuestion) (*domain.RagAnswer, error)
}

// UserFetcher resolves a user id to its display profile.
type UserFetcher interface {
	GetUser(ctx context.Context, id int) (*domain.User, error)
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}

// PreferenceStore persists display preferences durably across restarts.
type PreferenceStore interface {
	GetTheme(ctx context.Context, sessionID string) (domain.Theme, bool, error)
	SetTheme(ctx context.Context, sessionID string, theme domain.Theme) error
	Close() error
}
