package service

import (
	"context"

	"github.com/Raajp10/ai-expense-tracker/internal/domain"
	"github.com/Raajp10/ai-expense-tracker/internal/infra/observability"
	"github.com/Raajp10/ai-expense-tracker/internal/port"
	"github.com/Raajp10/ai-expense-tracker/internal/state"

	"go.uber.org/zap"
)

// ProfileService loads the spending-behavior segment for the selection.
type ProfileService struct {
	segments port.SegmentFetcher
	pageDeps
}

func NewProfileService(segments port.SegmentFetcher, st *state.Manager, snaps *Snapshots, metrics *observability.Metrics, logger *zap.Logger) *ProfileService {
	return &ProfileService{
		segments: segments,
		pageDeps: pageDeps{state: st, snaps: snaps, metrics: metrics, logger: logger},
	}
}

// Load runs one profile fetch cycle.
func (s *ProfileService) Load(ctx context.Context, sid string) (*domain.Snapshot, error) {
	return s.runCycle(ctx, sid, domain.PageProfile, func(ctx context.Context, sel domain.Selection) (any, error) {
		seg, err := s.segments.GetSegment(ctx, sel.UserID, sel.Month)
		if err != nil {
			s.metrics.IncrUpstreamError("fetch segment")
			return nil, err
		}
		return &domain.ProfileData{Segment: seg}, nil
	})
}
