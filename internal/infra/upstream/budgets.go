package upstream

import (
	"context"

	"github.com/Raajp10/ai-expense-tracker/internal/domain"
)

// --- Budgets (implements port.BudgetsStore) ---

// ListBudgets fetches the month's budgets for a user.
func (c *Client) ListBudgets(ctx context.Context, userID int, month string) ([]domain.Budget, error) {
	out := []domain.Budget{}
	if err := c.get(ctx, "fetch budgets", "/budgets", selectionQuery(userID, month), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpsertBudget posts one budget. The backend creates or updates the
// (user, category, month) row and returns it.
func (c *Client) UpsertBudget(ctx context.Context, req *domain.BudgetCreate) (*domain.Budget, error) {
	var out domain.Budget
	if err := c.post(ctx, "create budget", "/budgets", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
