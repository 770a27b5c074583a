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

// DashboardService loads the three dashboard panels concurrently and
// commits them as one snapshot.
type DashboardService struct {
	analytics port.AnalyticsFetcher
	pageDeps
}

func NewDashboardService(analytics port.AnalyticsFetcher, st *state.Manager, snaps *Snapshots, metrics *observability.Metrics, logger *zap.Logger) *DashboardService {
	return &DashboardService{
		analytics: analytics,
		pageDeps:  pageDeps{state: st, snaps: snaps, metrics: metrics, logger: logger},
	}
}

// Load runs one dashboard fetch cycle for the session's current
// selection. The first failing fetch cancels the sibling fetches and
// settles the cycle; partial results are never committed.
func (s *DashboardService) Load(ctx context.Context, sid string) (*domain.Snapshot, error) {
	return s.runCycle(ctx, sid, domain.PageDashboard, func(ctx context.Context, sel domain.Selection) (any, error) {
		var data domain.DashboardData

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			summary, err := s.analytics.GetSummary(gctx, sel.UserID, sel.Month)
			if err != nil {
				s.metrics.IncrUpstreamError("fetch summary")
				return err
			}
			data.Summary = summary
			return nil
		})
		g.Go(func() error {
			cats, err := s.analytics.GetByCategory(gctx, sel.UserID, sel.Month)
			if err != nil {
				s.metrics.IncrUpstreamError("fetch category data")
				return err
			}
			data.ByCategory = cats
			return nil
		})
		g.Go(func() error {
			rows, err := s.analytics.GetBudgetCompare(gctx, sel.UserID, sel.Month)
			if err != nil {
				s.metrics.IncrUpstreamError("fetch budget comparison")
				return err
			}
			data.Budgets = rows
			return nil
		})
		if err := g.Wait(); err != nil {
			s.logger.Warn("dashboard fetch cycle failed",
				zap.Int("user_id", sel.UserID),
				zap.String("month", sel.Month),
				zap.Error(err))
			return nil, err
		}
		return &data, nil
	})
}
