package application_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/passvault/internal/application"
	"github.com/ericfisherdev/passvault/internal/domain/model"
)

func TestSessionGate_StartsPending(t *testing.T) {
	gate := application.NewSessionGate(&mockBackend{}, slog.Default())

	assert.Equal(t, application.GatePending, gate.State())
	assert.Nil(t, gate.Session())
}

func TestSessionGate_AuthorizedOnSession(t *testing.T) {
	backend := &mockBackend{session: &model.Session{ID: "s1", UserID: "u1"}}
	gate := application.NewSessionGate(backend, slog.Default())

	state := gate.Activate(context.Background())

	assert.Equal(t, application.GateAuthorized, state)
	require.NotNil(t, gate.Session())
	assert.Equal(t, "s1", gate.Session().ID)
}

func TestSessionGate_RedirectedOnFailure(t *testing.T) {
	backend := &mockBackend{getSessionErr: &model.RemoteError{Kind: model.ErrUnauthenticated, Status: 401}}
	gate := application.NewSessionGate(backend, slog.Default())

	state := gate.Activate(context.Background())

	assert.Equal(t, application.GateRedirected, state)
	assert.Nil(t, gate.Session(), "protected content has nothing to render")
	assert.ErrorIs(t, gate.Err(), model.ErrUnauthenticated)
}

func TestSessionGate_SingleAttemptPerActivation(t *testing.T) {
	backend := &mockBackend{getSessionErr: model.ErrNetwork}
	gate := application.NewSessionGate(backend, slog.Default())
	ctx := context.Background()

	assert.Equal(t, application.GateRedirected, gate.Activate(ctx))

	backend.getSessionErr = nil
	backend.session = &model.Session{ID: "s1"}

	assert.Equal(t, application.GateRedirected, gate.Activate(ctx), "terminal state does not change")
	assert.Equal(t, 1, backend.getSessionCalls, "no retry")
}

func TestSessionGate_NilAccountsRedirectsWithoutCall(t *testing.T) {
	gate := application.NewSessionGate(nil, slog.Default())

	assert.Equal(t, application.GateRedirected, gate.Activate(context.Background()))
}

func TestGateState_String(t *testing.T) {
	assert.Equal(t, "pending", application.GatePending.String())
	assert.Equal(t, "authorized", application.GateAuthorized.String())
	assert.Equal(t, "redirected", application.GateRedirected.String())
	assert.Equal(t, "unknown", application.GateState(42).String())
}
