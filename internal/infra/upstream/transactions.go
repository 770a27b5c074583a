package upstream

import (
	"context"

	"github.com/Raajp10/ai-expense-tracker/internal/domain"
)

// --- Transactions (implements port.TransactionsStore) ---

// ListTransactions fetches the month's transactions for a user.
func (c *Client) ListTransactions(ctx context.Context, userID int, month string) ([]domain.Transaction, error) {
	out := []domain.Transaction{}
	if err := c.get(ctx, "fetch transactions", "/transactions", selectionQuery(userID, month), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateTransaction posts one new transaction and returns the created
// record as the backend stored it.
func (c *Client) CreateTransaction(ctx context.Context, req *domain.TransactionCreate) (*domain.Transaction, error) {
	var out domain.Transaction
	if err := c.post(ctx, "create transaction", "/transactions", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
