package service

import (
	"context"

	"github.com/Raajp10/ai-expense-tracker/internal/domain"
	"github.com/Raajp10/ai-expense-tracker/internal/infra/observability"
	"github.com/Raajp10/ai-expense-tracker/internal/port"
	"github.com/Raajp10/ai-expense-tracker/internal/state"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// defaultZThreshold is the z-score cutoff sent with every anomaly
// request. It is not user-configurable.
const defaultZThreshold = 2.0

// AnomaliesService loads the three anomaly views concurrently and
// commits them as one snapshot.
type AnomaliesService struct {
	anomalies port.AnomalyFetcher
	pageDeps
}

func NewAnomaliesService(anomalies port.AnomalyFetcher, st *state.Manager, snaps *Snapshots, metrics *observability.Metrics, logger *zap.Logger) *AnomaliesService {
	return &AnomaliesService{
		anomalies: anomalies,
		pageDeps:  pageDeps{state: st, snaps: snaps, metrics: metrics, logger: logger},
	}
}

// Load runs one anomalies fetch cycle for the session's current
// selection.
func (s *AnomaliesService) Load(ctx context.Context, sid string) (*domain.Snapshot, error) {
	return s.runCycle(ctx, sid, domain.PageAnomalies, func(ctx context.Context, sel domain.Selection) (any, error) {
		req := domain.AnomalyRequest{
			UserID:     sel.UserID,
			Month:      sel.Month,
			ZThreshold: defaultZThreshold,
		}
		var data domain.AnomaliesData

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			plot, err := s.anomalies.GetDailyPlot(gctx, req)
			if err != nil {
				s.metrics.IncrUpstreamError("fetch daily plot")
				return err
			}
			data.Plot = plot
			return nil
		})
		g.Go(func() error {
			daily, err := s.anomalies.GetDailyAnomalies(gctx, req)
			if err != nil {
				s.metrics.IncrUpstreamError("fetch daily anomalies")
				return err
			}
			data.Daily = daily
			return nil
		})
		g.Go(func() error {
			txs, err := s.anomalies.GetTransactionAnomalies(gctx, req)
			if err != nil {
				s.metrics.IncrUpstreamError("fetch transaction anomalies")
				return err
			}
			data.Transactions = txs
			return nil
		})
		if err := g.Wait(); err != nil {
			s.logger.Warn("anomalies fetch cycle failed",
				zap.Int("user_id", sel.UserID),
				zap.String("month", sel.Month),
				zap.Error(err))
			return nil, err
		}
		return &data, nil
	})
}
