package upstream

import (
	"context"

	"github.com/Raajp10/ai-expense-tracker/internal/domain"
)

// --- RAG assistant (implements port.RagCaller) ---

// Ask forwards one question to the RAG endpoint. No transcript is sent;
// the backend holds its own context per user.
func (c *Client) Ask(ctx context.Context, q domain.RagQuestion) (*domain.RagAnswer, error) {
	var out domain.RagAnswer
	if err := c.post(ctx, "ask assistant", "/rag/ask", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
