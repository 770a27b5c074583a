// Package state owns the per-session UI selection (user id, month) and
// theme. It is the single shared mutable store of the gateway: every page
// load reads the selection from here, and every selection change advances
// a generation counter that fetch cycles use to discard stale results.
//
// Sessions live in memory only. A gateway restart resets every selection
// to its defaults, mirroring the original UI's reset-on-reload lifecycle;
// the theme alone is durable, via the preference store.
package state

import (
	"context"
	"sync"
	"time"

	"github.com/Raajp10/ai-expense-tracker/internal/domain"
	"github.com/Raajp10/ai-expense-tracker/internal/port"

	"go.uber.org/zap"
)

const (
	defaultUserID = 1

	// fallbackUserID is substituted for any user id below 1 or any
	// unparsable input from the UI layer.
	fallbackUserID = 1
)

type sessionEntry struct {
	selection  domain.Selection
	theme      domain.Theme
	generation uint64
	lastSeen   time.Time
}

// Discarder releases everything a store holds for one session. Stores
// keyed by session id (page snapshots, assistant conversations) register
// here so pruning an idle session frees their entries too.
type Discarder interface {
	Discard(sessionID string)
}

// Manager holds all live sessions. Mutation goes through the defined
// setters only; each setter takes a new value, never a function of prior
// state.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*sessionEntry
	prefs    port.PreferenceStore
	ttl      time.Duration
	logger   *zap.Logger

	// discarders is append-only during wiring, read-only after.
	discarders []Discarder

	// now is swappable for tests.
	now func() time.Time
}

// NewManager creates the session manager. ttl bounds how long an idle
// session is kept before being pruned.
func NewManager(prefs port.PreferenceStore, ttl time.Duration, logger *zap.Logger) *Manager {
	return &Manager{
		sessions: make(map[string]*sessionEntry),
		prefs:    prefs,
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
	}
}

func (m *Manager) defaultSelection() domain.Selection {
	return domain.Selection{
		UserID: defaultUserID,
		Month:  m.now().UTC().Format("2006-01"),
	}
}

// Establish creates the session if it does not exist yet, initializing
// the selection to its defaults and the theme from the preference store
// (falling back to light). Existing sessions only get their last-seen
// time refreshed.
func (m *Manager) Establish(ctx context.Context, sessionID string) {
	m.mu.Lock()
	if e, ok := m.sessions[sessionID]; ok {
		e.lastSeen = m.now()
		m.mu.Unlock()
		return
	}
	pruned := m.pruneLocked()
	entry := &sessionEntry{
		selection: m.defaultSelection(),
		theme:     domain.ThemeLight,
		lastSeen:  m.now(),
	}
	m.sessions[sessionID] = entry
	m.mu.Unlock()

	m.notifyPruned(pruned)

	theme, ok, err := m.prefs.GetTheme(ctx, sessionID)
	if err != nil {
		m.logger.Warn("state: failed to load theme preference",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		return
	}
	if ok {
		m.mu.Lock()
		if e, live := m.sessions[sessionID]; live {
			e.theme = theme
		}
		m.mu.Unlock()
	}
}

// OnPrune registers stores to notify when idle sessions are dropped, so
// their per-session entries are released with the session. Call during
// wiring, before the manager serves requests.
func (m *Manager) OnPrune(ds ...Discarder) {
	m.discarders = append(m.discarders, ds...)
}

// pruneLocked drops sessions idle past the TTL and returns their ids.
// Caller holds m.mu; discarder notification happens after unlock.
func (m *Manager) pruneLocked() []string {
	cutoff := m.now().Add(-m.ttl)
	var pruned []string
	for id, e := range m.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(m.sessions, id)
			pruned = append(pruned, id)
		}
	}
	return pruned
}

func (m *Manager) notifyPruned(ids []string) {
	for _, id := range ids {
		for _, d := range m.discarders {
			d.Discard(id)
		}
	}
}

// Selection returns the current selection and its generation. Reading an
// unknown session is a wiring defect and fails loudly.
func (m *Manager) Selection(sessionID string) (domain.Selection, uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.sessions[sessionID]
	if !ok {
		return domain.Selection{}, 0, &domain.ErrStateNotInitialized{SessionID: sessionID}
	}
	return e.selection, e.generation, nil
}

// Generation returns the session's current selection generation.
func (m *Manager) Generation(sessionID string) (uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.sessions[sessionID]
	if !ok {
		return 0, &domain.ErrStateNotInitialized{SessionID: sessionID}
	}
	return e.generation, nil
}

// SetUserID updates the active user. Any id below 1 is coerced to the
// fallback of 1 rather than rejected; there is no upper bound. The
// selection generation advances.
func (m *Manager) SetUserID(sessionID string, id int) (domain.Selection, uint64, error) {
	if id < 1 {
		id = fallbackUserID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[sessionID]
	if !ok {
		return domain.Selection{}, 0, &domain.ErrStateNotInitialized{SessionID: sessionID}
	}
	e.selection.UserID = id
	e.generation++
	e.lastSeen = m.now()
	return e.selection, e.generation, nil
}

// SetMonth updates the active month. No format validation happens here;
// a malformed month simply yields empty or error results downstream. The
// selection generation advances.
func (m *Manager) SetMonth(sessionID, month string) (domain.Selection, uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[sessionID]
	if !ok {
		return domain.Selection{}, 0, &domain.ErrStateNotInitialized{SessionID: sessionID}
	}
	e.selection.Month = month
	e.generation++
	e.lastSeen = m.now()
	return e.selection, e.generation, nil
}

// Theme returns the session's current theme.
func (m *Manager) Theme(sessionID string) (domain.Theme, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.sessions[sessionID]
	if !ok {
		return "", &domain.ErrStateNotInitialized{SessionID: sessionID}
	}
	return e.theme, nil
}

// ToggleTheme flips light ⇄ dark, applies it immediately and persists the
// new value. A persistence failure does not undo the in-memory flip; it
// is logged and the flipped theme is still returned.
func (m *Manager) ToggleTheme(ctx context.Context, sessionID string) (domain.Theme, error) {
	m.mu.Lock()
	e, ok := m.sessions[sessionID]
	if !ok {
		m.mu.Unlock()
		return "", &domain.ErrStateNotInitialized{SessionID: sessionID}
	}
	e.theme = e.theme.Toggle()
	e.lastSeen = m.now()
	theme := e.theme
	m.mu.Unlock()

	if err := m.prefs.SetTheme(ctx, sessionID, theme); err != nil {
		m.logger.Warn("state: failed to persist theme preference",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
	}
	return theme, nil
}

// View is the combined state the top bar renders.
type View struct {
	Selection  domain.Selection `json:"selection"`
	Theme      domain.Theme     `json:"theme"`
	Generation uint64           `json:"generation"`
}

// View returns selection, theme and generation in one read.
func (m *Manager) View(sessionID string) (*View, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.sessions[sessionID]
	if !ok {
		return nil, &domain.ErrStateNotInitialized{SessionID: sessionID}
	}
	return &View{
		Selection:  e.selection,
		Theme:      e.theme,
		Generation: e.generation,
	}, nil
}
