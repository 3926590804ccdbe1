package driven

import (
	"context"

	"github.com/ericfisherdev/passvault/internal/domain/model"
)

// AccountService defines the driven port for the hosted account/session
// service. Failures wrap the model error taxonomy.
type AccountService interface {
	// GetCurrentSession returns the session the caller is bound to.
	// Fails with model.ErrUnauthenticated when there is none or it expired.
	GetCurrentSession(ctx context.Context) (*model.Session, error)

	// CreateSession signs in with email and password. The returned session
	// carries the secret used to bind later calls.
	CreateSession(ctx context.Context, email, password string) (*model.Session, error)

	// CreateAccount registers a new user under the given id.
	CreateAccount(ctx context.Context, id, email, password, name string) (*model.Account, error)

	// DeleteCurrentSession signs the bound session out.
	DeleteCurrentSession(ctx context.Context) error
}

// Backend is the hosted backend bound to a single remote session.
type Backend interface {
	AccountService
	RecordStore
}

// BackendProvider hands out Backend clients scoped to a session secret.
// An empty secret yields an anonymous client (login, sign-up).
type BackendProvider interface {
	ForSession(secret string) Backend
}
