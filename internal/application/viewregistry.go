package application

import (
	"log/slog"
	"sync"

	"github.com/ericfisherdev/passvault/internal/domain/port/driven"
)

// ViewRegistry tracks the live CredentialListView of each browser session.
// Activating a session's view again tears the previous one down, the way a
// page reload unmounts the old view.
type ViewRegistry struct {
	mu     sync.Mutex
	views  map[string]*CredentialListView
	logger *slog.Logger
}

// NewViewRegistry creates an empty registry.
func NewViewRegistry(logger *slog.Logger) *ViewRegistry {
	return &ViewRegistry{
		views:  make(map[string]*CredentialListView),
		logger: logger,
	}
}

// Activate creates a fresh view for sessionID backed by store, closing any
// view the session had before.
func (r *ViewRegistry) Activate(sessionID string, store driven.RecordStore) *CredentialListView {
	view := NewCredentialListView(store, r.logger.With("session", shortID(sessionID)))

	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.views[sessionID]; ok {
		prev.Close()
	}
	r.views[sessionID] = view
	return view
}

// Get returns the live view for sessionID, or nil if there is none.
func (r *ViewRegistry) Get(sessionID string) *CredentialListView {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.views[sessionID]
}

// Remove closes and forgets the view for sessionID.
func (r *ViewRegistry) Remove(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if view, ok := r.views[sessionID]; ok {
		view.Close()
		delete(r.views, sessionID)
	}
}

// Prune closes and forgets every view whose session keep rejects, returning
// how many were removed. keep is called without the registry lock held.
func (r *ViewRegistry) Prune(keep func(sessionID string) bool) int {
	r.mu.Lock()
	ids := make([]string, 0, len(r.views))
	for id := range r.views {
		ids = append(ids, id)
	}
	r.mu.Unlock()

	removed := 0
	for _, id := range ids {
		if keep(id) {
			continue
		}
		r.Remove(id)
		removed++
	}
	return removed
}

// Len returns the number of live views.
func (r *ViewRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}

// shortID trims a session id for log output so full ids never reach logs.
func shortID(id string) string {
	const keep = 8
	if len(id) <= keep {
		return id
	}
	return id[:keep]
}
