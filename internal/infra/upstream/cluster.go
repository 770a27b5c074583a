package upstream

import (
	"context"

	"github.com/Raajp10/ai-expense-tracker/internal/domain"
)

// --- Clustering (implements port.SegmentFetcher) ---

type segmentRequest struct {
	UserID int    `json:"user_id"`
	Month  string `json:"month"`
}

// GetSegment fetches the backend-assigned spending segment for the month.
func (c *Client) GetSegment(ctx context.Context, userID int, month string) (*domain.Segment, error) {
	var out domain.Segment
	if err := c.post(ctx, "fetch segment", "/cluster/segments", segmentRequest{UserID: userID, Month: month}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
