// Package service implements the page fetch lifecycle, form submission,
// assistant conversation, and user lookup on top of the upstream ports.
// Each page service owns one route's snapshot; all of them share the
// session state manager and the snapshot store.
package service

import (
	"context"
	"time"

	"github.com/Raajp10/ai-expense-tracker/internal/domain"
	"github.com/Raajp10/ai-expense-tracker/internal/infra/observability"
	"github.com/Raajp10/ai-expense-tracker/internal/state"

	"go.uber.org/zap"
)

// pageDeps bundles the collaborators every page service needs. Passed
// explicitly at construction; services never reach for globals.
type pageDeps struct {
	state   *state.Manager
	snaps   *Snapshots
	metrics *observability.Metrics
	logger  *zap.Logger
}

// runCycle executes one fetch cycle for a page: snapshot the selection
// and its generation, run the fetch, and commit only if the selection is
// still current. A result raced by a selection change is dropped whole,
// never merged into the newer snapshot.
func (d pageDeps) runCycle(ctx context.Context, sid string, page domain.PageID, fetch func(ctx context.Context, sel domain.Selection) (any, error)) (*domain.Snapshot, error) {
	sel, gen, err := d.state.Selection(sid)
	if err != nil {
		return nil, err
	}

	d.snaps.Begin(sid, page, gen)
	start := time.Now()

	data, err := fetch(ctx, sel)
	if err != nil {
		d.metrics.IncrCycle(string(page), "settled")
		snap := d.snaps.Fail(sid, page, gen, err.Error())
		return snap, err
	}

	cur, err := d.state.Generation(sid)
	if err != nil {
		return nil, err
	}
	if cur != gen {
		d.metrics.IncrStaleDrop(string(page))
		d.metrics.IncrCycle(string(page), "stale")
		d.logger.Debug("dropped stale fetch result",
			zap.String("page", string(page)),
			zap.Uint64("issued_generation", gen),
			zap.Uint64("current_generation", cur))
		return d.snaps.Get(sid, page), nil
	}

	snap := d.snaps.Commit(sid, page, gen, data)
	d.metrics.RecordCycleDuration(string(page), time.Since(start))
	d.metrics.IncrCycle(string(page), "ready")
	return snap, nil
}

// Snapshot returns a page's current snapshot without triggering a fetch.
func (d pageDeps) Snapshot(sid string, page domain.PageID) *domain.Snapshot {
	return d.snaps.Get(sid, page)
}
