package application

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/ericfisherdev/passvault/internal/domain/model"
	"github.com/ericfisherdev/passvault/internal/domain/port/driven"
)

// ErrViewClosed is returned when a response arrives after its view was torn
// down. The response is discarded and no state changes.
var ErrViewClosed = errors.New("credential view closed")

// CredentialListSnapshot is a consistent copy of a CredentialListView's state
// for rendering.
type CredentialListSnapshot struct {
	Records   []model.CredentialRecord
	Visible   map[string]bool
	Draft     model.CredentialFields
	Generated string
}

// CredentialListView holds the records of one activation of the home view.
// Remote calls are made without holding the lock; their results are applied
// only if the view is still live.
type CredentialListView struct {
	store  driven.RecordStore
	logger *slog.Logger

	mu        sync.Mutex
	records   []model.CredentialRecord
	visible   map[string]bool
	draft     model.CredentialFields
	generated string
	closed    bool
}

// NewCredentialListView creates an empty, live view backed by store.
func NewCredentialListView(store driven.RecordStore, logger *slog.Logger) *CredentialListView {
	return &CredentialListView{
		store:   store,
		logger:  logger,
		records: []model.CredentialRecord{},
		visible: make(map[string]bool),
	}
}

// Load replaces the list with the records held by the remote store, in the
// order the store returned them. On failure the list stays empty and the
// error is logged.
func (v *CredentialListView) Load(ctx context.Context) error {
	records, err := v.store.ListRecords(ctx)
	if err != nil {
		v.logger.Error("failed to load credentials", "error", err)
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return ErrViewClosed
	}

	v.records = dedupeByID(records)
	return nil
}

// Add validates fields locally, then asks the remote store to create the
// record. On success the record is appended and the draft cleared. On failure
// the draft keeps the submitted values and the list is unchanged.
func (v *CredentialListView) Add(ctx context.Context, fields model.CredentialFields) error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return ErrViewClosed
	}
	v.draft = fields
	v.mu.Unlock()

	if err := fields.Validate(); err != nil {
		return err
	}

	record, err := v.store.CreateRecord(ctx, fields)
	if err != nil {
		v.logger.Error("failed to add credential", "website", fields.Website, "error", err)
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return ErrViewClosed
	}

	if v.indexOf(record.ID) >= 0 {
		v.logger.Warn("remote store returned a duplicate record id", "id", record.ID)
	} else {
		v.records = append(v.records, record)
	}
	v.draft = model.CredentialFields{}
	return nil
}

// Delete asks the remote store to delete id and removes it from the list on
// success. A NotFound response means another request already removed it; it
// is logged and swallowed.
func (v *CredentialListView) Delete(ctx context.Context, id string) error {
	err := v.store.DeleteRecord(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		v.logger.Warn("credential already deleted", "id", id, "error", err)
		return nil
	}
	if err != nil {
		v.logger.Error("failed to delete credential", "id", id, "error", err)
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return ErrViewClosed
	}

	if i := v.indexOf(id); i >= 0 {
		v.records = slices.Delete(v.records, i, i+1)
	}
	delete(v.visible, id)
	return nil
}

// ToggleVisibility flips whether the plaintext password of id is shown and
// returns the new value. It has no remote effect.
func (v *CredentialListView) ToggleVisibility(id string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.visible[id] = !v.visible[id]
	return v.visible[id]
}

// IsVisible reports whether the plaintext password of id is shown.
func (v *CredentialListView) IsVisible(id string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.visible[id]
}

// GeneratePassword generates a new password and keeps it as the view's
// generated password. It is unrelated to the stored records.
func (v *CredentialListView) GeneratePassword() string {
	pw := GeneratePassword()

	v.mu.Lock()
	defer v.mu.Unlock()
	v.generated = pw
	return pw
}

// Records returns a copy of the current list.
func (v *CredentialListView) Records() []model.CredentialRecord {
	v.mu.Lock()
	defer v.mu.Unlock()
	return slices.Clone(v.records)
}

// Snapshot returns a copy of all view state.
func (v *CredentialListView) Snapshot() CredentialListSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	visible := make(map[string]bool, len(v.visible))
	for id, shown := range v.visible {
		if shown {
			visible[id] = true
		}
	}

	return CredentialListSnapshot{
		Records:   slices.Clone(v.records),
		Visible:   visible,
		Draft:     v.draft,
		Generated: v.generated,
	}
}

// Close tears the view down. Responses that arrive afterwards are discarded.
func (v *CredentialListView) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed = true
}

// Closed reports whether Close has been called.
func (v *CredentialListView) Closed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.closed
}

// indexOf returns the position of id in the list, or -1. Callers hold mu.
func (v *CredentialListView) indexOf(id string) int {
	return slices.IndexFunc(v.records, func(r model.CredentialRecord) bool {
		return r.ID == id
	})
}

// dedupeByID keeps the first record for each id, preserving order.
func dedupeByID(records []model.CredentialRecord) []model.CredentialRecord {
	out := make([]model.CredentialRecord, 0, len(records))
	seen := make(map[string]bool, len(records))
	for _, r := range records {
		if seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		out = append(out, r)
	}
	return out
}
