package upstream

import (
	"context"

	"github.com/Raajp10/ai-expense-tracker/internal/domain"
)

// --- Anomalies (implements port.AnomalyFetcher) ---
//
// These are POSTs even though they read: the z-threshold parameterizes a
// computation the backend runs on demand.

// GetDailyAnomalies fetches the daily z-score series for the month.
func (c *Client) GetDailyAnomalies(ctx context.Context, req domain.AnomalyRequest) (*domain.DailyAnomalySeries, error) {
	var out domain.DailyAnomalySeries
	if err := c.post(ctx, "fetch daily anomalies", "/anomalies/daily", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetDailyPlot fetches the plot-band series for the month.
func (c *Client) GetDailyPlot(ctx context.Context, req domain.AnomalyRequest) (*domain.DailyPlotBands, error) {
	var out domain.DailyPlotBands
	if err := c.post(ctx, "fetch daily plot", "/anomalies/daily/plot", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetTransactionAnomalies fetches per-transaction anomaly scores.
func (c *Client) GetTransactionAnomalies(ctx context.Context, req domain.AnomalyRequest) (*domain.TransactionAnomalies, error) {
	var out domain.TransactionAnomalies
	if err := c.post(ctx, "fetch transaction anomalies", "/anomalies/transactions", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
