package model

import "time"

// Session is the proof of authentication issued by the remote account service.
// The core only cares that one exists; Secret is what binds later calls to it.
type Session struct {
	ID     string
	UserID string
	Secret string
	Expire time.Time
}

// Account is the user account created by the remote account service.
type Account struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
}

// BrowserSession links a browser cookie to a remote session. It is the
// explicit context handed to protected views: the remote session secret, who
// is signed in, and the display theme they chose.
type BrowserSession struct {
	ID        string
	Secret    string
	UserID    string
	Email     string
	Theme     Theme
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is past its expiry at now.
func (s BrowserSession) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}
