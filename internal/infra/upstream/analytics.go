package upstream

import (
	"context"

	"github.com/Raajp10/ai-expense-tracker/internal/domain"
)

// --- Analytics reads (implements port.AnalyticsFetcher) ---

// GetSummary fetches the monthly income/expense/savings totals.
func (c *Client) GetSummary(ctx context.Context, userID int, month string) (*domain.MonthlySummary, error) {
	var out domain.MonthlySummary
	if err := c.get(ctx, "fetch summary", "/analytics/summary", selectionQuery(userID, month), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetByCategory fetches the per-category expense breakdown.
func (c *Client) GetByCategory(ctx context.Context, userID int, month string) ([]domain.CategoryTotal, error) {
	out := []domain.CategoryTotal{}
	if err := c.get(ctx, "fetch category data", "/analytics/by_category", selectionQuery(userID, month), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetBudgetCompare fetches budget-vs-actual rows for the month.
func (c *Client) GetBudgetCompare(ctx context.Context, userID int, month string) ([]domain.BudgetCompareRow, error) {
	out := []domain.BudgetCompareRow{}
	if err := c.get(ctx, "fetch budget comparison", "/analytics/budget_compare", selectionQuery(userID, month), &out); err != nil {
		return nil, err
	}
	return out, nil
}
