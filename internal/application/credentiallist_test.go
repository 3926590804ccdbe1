package application_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/passvault/internal/application"
	"github.com/ericfisherdev/passvault/internal/domain/model"
)

func bobFields() model.CredentialFields {
	return model.CredentialFields{
		Website:  "x.com",
		UserName: "bob",
		Password: "pw1",
		Email:    "b@x.com",
	}
}

// capturedLogger returns a logger writing text records into buf.
func capturedLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, nil)), &buf
}

func TestCredentialListView_LoadEmptyThenAdd(t *testing.T) {
	backend := &mockBackend{}
	view := application.NewCredentialListView(backend, slog.Default())
	ctx := context.Background()

	require.NoError(t, view.Load(ctx))
	assert.Empty(t, view.Records())

	require.NoError(t, view.Add(ctx, bobFields()))

	assert.Equal(t, []model.CredentialRecord{
		{ID: "A1", Website: "x.com", UserName: "bob", Password: "pw1", Email: "b@x.com"},
	}, view.Records())
	assert.Equal(t, model.CredentialFields{}, view.Snapshot().Draft, "draft should be cleared after a successful add")
}

func TestCredentialListView_LoadKeepsStoreOrder(t *testing.T) {
	backend := &mockBackend{records: []model.CredentialRecord{
		{ID: "c", Website: "c.com"},
		{ID: "a", Website: "a.com"},
		{ID: "b", Website: "b.com"},
	}}
	view := application.NewCredentialListView(backend, slog.Default())

	require.NoError(t, view.Load(context.Background()))

	records := view.Records()
	require.Len(t, records, 3)
	assert.Equal(t, "c", records[0].ID)
	assert.Equal(t, "a", records[1].ID)
	assert.Equal(t, "b", records[2].ID)
}

func TestCredentialListView_LoadCollapsesDuplicateIDs(t *testing.T) {
	backend := &mockBackend{records: []model.CredentialRecord{
		{ID: "a", Website: "first"},
		{ID: "a", Website: "second"},
	}}
	view := application.NewCredentialListView(backend, slog.Default())

	require.NoError(t, view.Load(context.Background()))

	records := view.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "first", records[0].Website)
}

func TestCredentialListView_LoadFailureLeavesListEmpty(t *testing.T) {
	backend := &mockBackend{
		records: []model.CredentialRecord{{ID: "a"}},
		listErr: model.ErrNetwork,
	}
	logger, logs := capturedLogger()
	view := application.NewCredentialListView(backend, logger)

	err := view.Load(context.Background())

	require.ErrorIs(t, err, model.ErrNetwork)
	assert.Empty(t, view.Records())
	assert.NotNil(t, view.Records(), "list should be empty, not nil")
	assert.Contains(t, logs.String(), "level=ERROR")
	assert.Contains(t, logs.String(), `msg="failed to load credentials"`)
}

func TestCredentialListView_AddRejectsBlankFieldsLocally(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(f *model.CredentialFields)
		field  string
	}{
		{"website", func(f *model.CredentialFields) { f.Website = "" }, "website"},
		{"website whitespace", func(f *model.CredentialFields) { f.Website = "   " }, "website"},
		{"userName", func(f *model.CredentialFields) { f.UserName = "" }, "userName"},
		{"password", func(f *model.CredentialFields) { f.Password = "" }, "password"},
		{"email", func(f *model.CredentialFields) { f.Email = "" }, "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &mockBackend{}
			view := application.NewCredentialListView(backend, slog.Default())
			require.NoError(t, view.Load(context.Background()))

			fields := bobFields()
			tt.mutate(&fields)

			err := view.Add(context.Background(), fields)

			require.ErrorIs(t, err, model.ErrValidation)
			var missing *model.MissingFieldError
			require.True(t, errors.As(err, &missing))
			assert.Equal(t, tt.field, missing.Field)
			assert.Equal(t, 0, backend.createCalls, "no remote call should be issued")
			assert.Empty(t, view.Records())
			assert.Equal(t, fields, view.Snapshot().Draft, "inputs should be kept")
		})
	}
}

func TestCredentialListView_AddFailureKeepsInputs(t *testing.T) {
	backend := &mockBackend{createErr: model.ErrNetwork}
	logger, logs := capturedLogger()
	view := application.NewCredentialListView(backend, logger)
	require.NoError(t, view.Load(context.Background()))

	err := view.Add(context.Background(), bobFields())

	require.ErrorIs(t, err, model.ErrNetwork)
	assert.Equal(t, 1, backend.createCalls)
	assert.Empty(t, view.Records())
	assert.Equal(t, bobFields(), view.Snapshot().Draft)
	assert.Contains(t, logs.String(), "level=ERROR")
	assert.Contains(t, logs.String(), `msg="failed to add credential"`)
	assert.Contains(t, logs.String(), "website=x.com")
}

func TestCredentialListView_AddThenDeleteRoundTrip(t *testing.T) {
	backend := &mockBackend{records: []model.CredentialRecord{
		{ID: "k1", Website: "keep.com", UserName: "k", Password: "p", Email: "k@keep.com"},
	}}
	view := application.NewCredentialListView(backend, slog.Default())
	ctx := context.Background()
	require.NoError(t, view.Load(ctx))

	require.NoError(t, view.Add(ctx, bobFields()))
	records := view.Records()
	require.Len(t, records, 2)
	added := records[1]

	require.NoError(t, view.Delete(ctx, added.ID))

	after := view.Records()
	for _, r := range after {
		assert.NotEqual(t, added.ID, r.ID)
	}
	assert.Equal(t, []model.CredentialRecord{
		{ID: "k1", Website: "keep.com", UserName: "k", Password: "p", Email: "k@keep.com"},
	}, after)
}

func TestCredentialListView_DeleteNotFoundIsSwallowed(t *testing.T) {
	backend := &mockBackend{records: []model.CredentialRecord{{ID: "a", Website: "a.com"}}}
	logger, logs := capturedLogger()
	view := application.NewCredentialListView(backend, logger)
	ctx := context.Background()
	require.NoError(t, view.Load(ctx))

	err := view.Delete(ctx, "missing-id")

	require.NoError(t, err)
	assert.Equal(t, 1, backend.deleteCalls)
	assert.Equal(t, []model.CredentialRecord{{ID: "a", Website: "a.com"}}, view.Records())
	assert.Contains(t, logs.String(), "level=WARN")
	assert.Contains(t, logs.String(), `msg="credential already deleted"`)
	assert.Contains(t, logs.String(), "id=missing-id")
}

func TestCredentialListView_ConcurrentDeleteOfSameID(t *testing.T) {
	backend := &mockBackend{records: []model.CredentialRecord{{ID: "a"}, {ID: "b"}}}
	view := application.NewCredentialListView(backend, slog.Default())
	ctx := context.Background()
	require.NoError(t, view.Load(ctx))

	require.NoError(t, view.Delete(ctx, "a"))
	require.NoError(t, view.Delete(ctx, "a"), "second delete reports NotFound, which is swallowed")

	assert.Equal(t, []model.CredentialRecord{{ID: "b"}}, view.Records())
}

func TestCredentialListView_DeleteFailureLeavesListUnchanged(t *testing.T) {
	backend := &mockBackend{records: []model.CredentialRecord{{ID: "a"}}}
	logger, logs := capturedLogger()
	view := application.NewCredentialListView(backend, logger)
	ctx := context.Background()
	require.NoError(t, view.Load(ctx))

	backend.deleteErr = model.ErrNetwork
	err := view.Delete(ctx, "a")

	require.ErrorIs(t, err, model.ErrNetwork)
	assert.Equal(t, []model.CredentialRecord{{ID: "a"}}, view.Records())
	assert.Contains(t, logs.String(), `msg="failed to delete credential" id=a`)
}

func TestCredentialListView_ToggleVisibility(t *testing.T) {
	backend := &mockBackend{}
	view := application.NewCredentialListView(backend, slog.Default())

	assert.False(t, view.IsVisible("a"), "unseen ids default to hidden")

	assert.True(t, view.ToggleVisibility("a"))
	assert.True(t, view.IsVisible("a"))
	assert.False(t, view.IsVisible("b"), "toggling one id leaves others alone")

	assert.False(t, view.ToggleVisibility("a"))
	assert.False(t, view.IsVisible("a"), "double toggle returns to the original state")

	assert.Equal(t, 0, backend.listCalls+backend.createCalls+backend.deleteCalls, "toggle has no remote effect")
}

func TestCredentialListView_OrderAfterInterleavedAddsAndDeletes(t *testing.T) {
	backend := &mockBackend{records: []model.CredentialRecord{{ID: "x"}, {ID: "y"}}}
	view := application.NewCredentialListView(backend, slog.Default())
	ctx := context.Background()
	require.NoError(t, view.Load(ctx))

	require.NoError(t, view.Add(ctx, bobFields())) // A1
	require.NoError(t, view.Delete(ctx, "x"))
	require.NoError(t, view.Add(ctx, bobFields())) // A2

	var ids []string
	for _, r := range view.Records() {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"y", "A1", "A2"}, ids)
}

func TestCredentialListView_ResponseAfterCloseIsDiscarded(t *testing.T) {
	backend := &mockBackend{}
	view := application.NewCredentialListView(backend, slog.Default())
	ctx := context.Background()
	require.NoError(t, view.Load(ctx))

	// The view is torn down while the create request is in flight.
	backend.beforeCreateReturn = view.Close

	err := view.Add(ctx, bobFields())

	require.ErrorIs(t, err, application.ErrViewClosed)
	assert.Empty(t, view.Records())
	assert.True(t, view.Closed())
}

func TestCredentialListView_DeleteClearsVisibility(t *testing.T) {
	backend := &mockBackend{records: []model.CredentialRecord{{ID: "a"}}}
	view := application.NewCredentialListView(backend, slog.Default())
	ctx := context.Background()
	require.NoError(t, view.Load(ctx))

	view.ToggleVisibility("a")
	require.NoError(t, view.Delete(ctx, "a"))

	assert.False(t, view.IsVisible("a"))
	assert.Empty(t, view.Snapshot().Visible)
}

func TestCredentialListView_GeneratePassword(t *testing.T) {
	view := application.NewCredentialListView(&mockBackend{}, slog.Default())

	pw := view.GeneratePassword()

	assert.Len(t, pw, application.PasswordLength)
	assert.Equal(t, pw, view.Snapshot().Generated)
	assert.Empty(t, view.Records(), "generating does not touch the records")
}

func TestCredentialListView_SnapshotIsACopy(t *testing.T) {
	backend := &mockBackend{records: []model.CredentialRecord{{ID: "a", Website: "a.com"}}}
	view := application.NewCredentialListView(backend, slog.Default())
	require.NoError(t, view.Load(context.Background()))

	snap := view.Snapshot()
	snap.Records[0].Website = "changed"
	snap.Visible["a"] = true

	assert.Equal(t, "a.com", view.Records()[0].Website)
	assert.False(t, view.IsVisible("a"))
}
