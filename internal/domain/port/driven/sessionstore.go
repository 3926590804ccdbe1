package driven

import (
	"context"
	"errors"
	"time"

	"github.com/ericfisherdev/passvault/internal/domain/model"
)

// ErrSessionNotFound is returned by SessionStore mutations when the id does not exist.
var ErrSessionNotFound = errors.New("browser session not found")

// SessionStore defines the driven port for local browser-session persistence.
// The adapter layer is responsible for protecting the remote session secret
// at rest; this interface operates on plaintext values at the domain boundary.
type SessionStore interface {
	Create(ctx context.Context, session model.BrowserSession) error

	// Get returns the session with the given id.
	// Returns nil, nil if it does not exist or has expired.
	Get(ctx context.Context, id string) (*model.BrowserSession, error)

	SetTheme(ctx context.Context, id string, theme model.Theme) error

	// Delete removes the session. Deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error

	// DeleteExpired removes every session whose expiry is at or before now
	// and returns how many were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
