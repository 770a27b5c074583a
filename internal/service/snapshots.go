package service

import (
	"sync"
	"time"

	"github.com/Raajp10/ai-expense-tracker/internal/domain"
)

// Snapshots holds the per-session, per-page committed data snapshots.
// Commits are all-or-nothing per fetch cycle: a loader either writes the
// full result set for its page or leaves the previous snapshot standing.
// Snapshots are never shared between pages or across sessions.
type Snapshots struct {
	mu    sync.RWMutex
	pages map[string]map[domain.PageID]*domain.Snapshot
}

// NewSnapshots creates an empty snapshot store.
func NewSnapshots() *Snapshots {
	return &Snapshots{pages: make(map[string]map[domain.PageID]*domain.Snapshot)}
}

func (s *Snapshots) entryLocked(sid string, page domain.PageID) *domain.Snapshot {
	byPage, ok := s.pages[sid]
	if !ok {
		byPage = make(map[domain.PageID]*domain.Snapshot)
		s.pages[sid] = byPage
	}
	snap, ok := byPage[page]
	if !ok {
		snap = &domain.Snapshot{Page: page, State: domain.PageIdle}
		byPage[page] = snap
	}
	return snap
}

// Begin marks a page as loading for the given generation. Existing data
// stays visible while the cycle runs.
func (s *Snapshots) Begin(sid string, page domain.PageID, gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.entryLocked(sid, page)
	snap.State = domain.PageLoading
	snap.Generation = gen
	snap.Error = ""
}

// Commit atomically replaces the page's data. The write is refused when a
// newer generation has already been committed, so a slow stale cycle can
// never overwrite fresher data.
func (s *Snapshots) Commit(sid string, page domain.PageID, gen uint64, data any) *domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.entryLocked(sid, page)
	if snap.Generation > gen {
		return cloneSnapshot(snap)
	}
	snap.State = domain.PageReady
	snap.Generation = gen
	snap.Data = data
	snap.Error = ""
	snap.UpdatedAt = time.Now()
	return cloneSnapshot(snap)
}

// Fail settles the cycle without touching data: cleared-on-first-load
// stays empty, a refetch keeps its stale-but-visible previous value.
func (s *Snapshots) Fail(sid string, page domain.PageID, gen uint64, msg string) *domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.entryLocked(sid, page)
	if snap.Generation > gen {
		return cloneSnapshot(snap)
	}
	snap.State = domain.PageSettled
	snap.Generation = gen
	snap.Error = msg
	snap.UpdatedAt = time.Now()
	return cloneSnapshot(snap)
}

// Get returns the page's current snapshot, an idle empty one if no cycle
// has run yet.
func (s *Snapshots) Get(sid string, page domain.PageID) *domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byPage, ok := s.pages[sid]
	if !ok {
		return &domain.Snapshot{Page: page, State: domain.PageIdle}
	}
	snap, ok := byPage[page]
	if !ok {
		return &domain.Snapshot{Page: page, State: domain.PageIdle}
	}
	return cloneSnapshot(snap)
}

// Discard drops every snapshot of a session, e.g. when the session is
// pruned.
func (s *Snapshots) Discard(sid string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.pages, sid)
}

func cloneSnapshot(snap *domain.Snapshot) *domain.Snapshot {
	c := *snap
	return &c
}
