package sqlite

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ericfisherdev/passvault/internal/domain/model"
	"github.com/ericfisherdev/passvault/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.SessionStore = (*SessionRepo)(nil)

// timeLayout is fixed width so stored timestamps compare correctly as text.
const timeLayout = "2006-01-02 15:04:05"

// SessionRepo is the SQLite implementation of the SessionStore port.
// The remote session secret is encrypted with AES-256-GCM before write and
// decrypted after read.
type SessionRepo struct {
	db   *DB
	aead cipher.AEAD
}

// NewSessionRepo creates a SessionRepo. key must be 32 bytes.
func NewSessionRepo(db *DB, key []byte) (*SessionRepo, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("session key must be 32 bytes, got %d", len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("aes.NewCipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cipher.NewGCM: %w", err)
	}

	return &SessionRepo{db: db, aead: aead}, nil
}

// Create inserts a new browser session.
func (r *SessionRepo) Create(ctx context.Context, session model.BrowserSession) error {
	encrypted, err := r.encrypt(session.Secret)
	if err != nil {
		return err
	}

	const query = `INSERT INTO browser_sessions (id, secret, user_id, email, theme, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.Writer.ExecContext(ctx, query,
		session.ID,
		encrypted,
		session.UserID,
		session.Email,
		string(model.ParseTheme(string(session.Theme))),
		formatTime(session.CreatedAt),
		nullableTime(session.ExpiresAt),
	)
	if err != nil {
		return fmt.Errorf("create browser session: %w", err)
	}
	return nil
}

// Get returns the live session with the given id, or nil, nil if it is
// missing or expired.
func (r *SessionRepo) Get(ctx context.Context, id string) (*model.BrowserSession, error) {
	const query = `SELECT id, secret, user_id, email, theme, created_at, expires_at
		FROM browser_sessions
		WHERE id = ? AND (expires_at IS NULL OR expires_at > ?)`

	var (
		session   model.BrowserSession
		encrypted string
		theme     string
		createdAt string
		expiresAt sql.NullString
	)
	err := r.db.Reader.QueryRowContext(ctx, query, id, formatTime(time.Now())).
		Scan(&session.ID, &encrypted, &session.UserID, &session.Email, &theme, &createdAt, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get browser session: %w", err)
	}

	session.Secret, err = r.decrypt(encrypted)
	if err != nil {
		return nil, fmt.Errorf("decrypt browser session secret: %w", err)
	}
	session.Theme = model.ParseTheme(theme)

	session.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if expiresAt.Valid {
		session.ExpiresAt, err = parseTime(expiresAt.String)
		if err != nil {
			return nil, fmt.Errorf("parse expires_at: %w", err)
		}
	}

	return &session, nil
}

// SetTheme updates the theme of a session. Returns driven.ErrSessionNotFound
// if the id does not exist.
func (r *SessionRepo) SetTheme(ctx context.Context, id string, theme model.Theme) error {
	const query = `UPDATE browser_sessions SET theme = ? WHERE id = ?`
	result, err := r.db.Writer.ExecContext(ctx, query, string(theme), id)
	if err != nil {
		return fmt.Errorf("set browser session theme: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set browser session theme rows affected: %w", err)
	}
	if n == 0 {
		return driven.ErrSessionNotFound
	}
	return nil
}

// Delete removes a session. Deleting a missing id is not an error.
func (r *SessionRepo) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM browser_sessions WHERE id = ?`
	if _, err := r.db.Writer.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete browser session: %w", err)
	}
	return nil
}

// DeleteExpired removes every session whose expiry is at or before now.
func (r *SessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	const query = `DELETE FROM browser_sessions WHERE expires_at IS NOT NULL AND expires_at <= ?`
	result, err := r.db.Writer.ExecContext(ctx, query, formatTime(now))
	if err != nil {
		return 0, fmt.Errorf("delete expired browser sessions: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete expired browser sessions rows affected: %w", err)
	}
	return n, nil
}

// Purge removes every session and returns how many were removed. Used when
// the encryption key changed and stored secrets can no longer be read.
func (r *SessionRepo) Purge(ctx context.Context) (int64, error) {
	result, err := r.db.Writer.ExecContext(ctx, `DELETE FROM browser_sessions`)
	if err != nil {
		return 0, fmt.Errorf("purge browser sessions: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge browser sessions rows affected: %w", err)
	}
	return n, nil
}

// encrypt returns base64(nonce || ciphertext || tag).
func (r *SessionRepo) encrypt(plaintext string) (string, error) {
	nonce := make([]byte, r.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("rand nonce: %w", err)
	}

	sealed := r.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (r *SessionRepo) decrypt(encoded string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("base64 decode: %w", err)
	}

	nonceSize := r.aead.NonceSize()
	if len(data) < nonceSize {
		return "", errors.New("ciphertext too short")
	}

	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	plaintext, err := r.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("gcm.Open: %w", err)
	}
	return string(plaintext), nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return formatTime(t)
}

// parseTime accepts the stored layout and the other formats SQLite's own
// datetime functions produce.
func parseTime(s string) (time.Time, error) {
	formats := []string{
		timeLayout,
		"2006-01-02T15:04:05Z",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05.000",
		time.RFC3339Nano,
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized time format: %s", s)
}
