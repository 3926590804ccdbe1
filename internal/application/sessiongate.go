package application

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ericfisherdev/passvault/internal/domain/model"
	"github.com/ericfisherdev/passvault/internal/domain/port/driven"
)

// GateState is the state of a SessionGate.
type GateState int

const (
	// GatePending means the session check has not resolved. Protected content
	// must not render in this state.
	GatePending GateState = iota
	// GateAuthorized means the remote service confirmed a session.
	GateAuthorized
	// GateRedirected means there is no usable session and the caller must be
	// sent to the unauthenticated entry view.
	GateRedirected
)

func (s GateState) String() string {
	switch s {
	case GatePending:
		return "pending"
	case GateAuthorized:
		return "authorized"
	case GateRedirected:
		return "redirected"
	default:
		return "unknown"
	}
}

// SessionGate asks the remote account service once per activation whether the
// caller has a valid session. Both outcomes are terminal.
type SessionGate struct {
	accounts driven.AccountService
	logger   *slog.Logger

	mu      sync.Mutex
	state   GateState
	session *model.Session
	err     error
}

// NewSessionGate creates a gate in the Pending state. accounts may be nil when
// the caller has no session at all; the gate then redirects without a remote call.
func NewSessionGate(accounts driven.AccountService, logger *slog.Logger) *SessionGate {
	return &SessionGate{
		accounts: accounts,
		logger:   logger,
		state:    GatePending,
	}
}

// Activate resolves the gate. The first call issues a single
// GetCurrentSession request; later calls return the recorded state.
func (g *SessionGate) Activate(ctx context.Context) GateState {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != GatePending {
		return g.state
	}

	if g.accounts == nil {
		g.state = GateRedirected
		return g.state
	}

	session, err := g.accounts.GetCurrentSession(ctx)
	if err != nil {
		g.logger.Info("session check failed, redirecting", "error", err)
		g.err = err
		g.state = GateRedirected
		return g.state
	}

	g.session = session
	g.state = GateAuthorized
	return g.state
}

// State returns the current state without resolving the gate.
func (g *SessionGate) State() GateState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Session returns the session confirmed by Activate, or nil unless the gate
// is Authorized.
func (g *SessionGate) Session() *model.Session {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.session
}

// Err returns the error that redirected the gate, or nil.
func (g *SessionGate) Err() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.err
}
