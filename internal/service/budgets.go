package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/Raajp10/ai-expense-tracker/internal/domain"
	"github.com/Raajp10/ai-expense-tracker/internal/infra/observability"
	"github.com/Raajp10/ai-expense-tracker/internal/port"
	"github.com/Raajp10/ai-expense-tracker/internal/state"

	"go.uber.org/zap"
)

// BudgetForm carries the raw set-budget form fields. The month is taken
// from the session selection, never from the form.
type BudgetForm struct {
	CategoryName string `json:"category_name"`
	Amount       string `json:"amount"`
}

// BudgetsService lists budgets for the selection and handles the
// set-budget form. Submitting an existing category replaces its amount.
type BudgetsService struct {
	store port.BudgetsStore
	pageDeps
}

func NewBudgetsService(store port.BudgetsStore, st *state.Manager, snaps *Snapshots, metrics *observability.Metrics, logger *zap.Logger) *BudgetsService {
	return &BudgetsService{
		store:    store,
		pageDeps: pageDeps{state: st, snaps: snaps, metrics: metrics, logger: logger},
	}
}

// Load runs one budgets fetch cycle.
func (s *BudgetsService) Load(ctx context.Context, sid string) (*domain.Snapshot, error) {
	return s.runCycle(ctx, sid, domain.PageBudgets, func(ctx context.Context, sel domain.Selection) (any, error) {
		rows, err := s.store.ListBudgets(ctx, sel.UserID, sel.Month)
		if err != nil {
			s.metrics.IncrUpstreamError("fetch budgets")
			return nil, err
		}
		return &domain.BudgetsData{Rows: rows}, nil
	})
}

// Upsert validates the form, submits it upstream, and on success runs
// exactly one follow-up list fetch.
func (s *BudgetsService) Upsert(ctx context.Context, sid string, form BudgetForm) (*domain.Budget, *domain.Snapshot, error) {
	sel, _, err := s.state.Selection(sid)
	if err != nil {
		return nil, nil, err
	}

	req, err := form.validate(sel)
	if err != nil {
		return nil, nil, err
	}

	saved, err := s.store.UpsertBudget(ctx, req)
	if err != nil {
		s.metrics.IncrUpstreamError("create budget")
		s.logger.Warn("budget upsert failed",
			zap.Int("user_id", sel.UserID),
			zap.String("month", sel.Month),
			zap.Error(err))
		return nil, nil, err
	}

	snap, err := s.Load(ctx, sid)
	if err != nil {
		s.logger.Warn("post-upsert budget refresh failed", zap.Error(err))
		return saved, snap, nil
	}
	return saved, snap, nil
}

func (f BudgetForm) validate(sel domain.Selection) (*domain.BudgetCreate, error) {
	category := strings.TrimSpace(f.CategoryName)
	amountRaw := strings.TrimSpace(f.Amount)

	var problems []string
	if category == "" {
		problems = append(problems, "category is required")
	}
	if amountRaw == "" {
		problems = append(problems, "amount is required")
	}
	if len(problems) > 0 {
		return nil, &domain.ErrValidation{Message: "Please fill in all fields: " + strings.Join(problems, ", ")}
	}

	amount, err := strconv.ParseFloat(amountRaw, 64)
	if err != nil {
		return nil, &domain.ErrValidation{Message: "Amount must be a number"}
	}

	return &domain.BudgetCreate{
		UserID:       sel.UserID,
		CategoryName: category,
		Month:        sel.Month,
		Amount:       amount,
	}, nil
}
