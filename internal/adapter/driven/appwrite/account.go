package appwrite

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ericfisherdev/passvault/internal/domain/model"
)

// sessionResponse is the subset of Appwrite's Session model used here.
type sessionResponse struct {
	ID     string `json:"$id"`
	UserID string `json:"userId"`
	Expire string `json:"expire"`
	Secret string `json:"secret"`
}

// userResponse is the subset of Appwrite's User model used here.
type userResponse struct {
	ID        string `json:"$id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"$createdAt"`
}

func (s sessionResponse) toModel() *model.Session {
	return &model.Session{
		ID:     s.ID,
		UserID: s.UserID,
		Secret: s.Secret,
		Expire: parseTime(s.Expire),
	}
}

// GetCurrentSession returns the session this client is bound to.
func (c *Client) GetCurrentSession(ctx context.Context) (*model.Session, error) {
	if c.secret == "" {
		return nil, &model.RemoteError{Kind: model.ErrUnauthenticated, Message: "no session"}
	}

	var out sessionResponse
	if _, err := c.do(ctx, http.MethodGet, "/account/sessions/current", nil, &out); err != nil {
		return nil, fmt.Errorf("getting current session: %w", err)
	}

	session := out.toModel()
	if session.Secret == "" {
		session.Secret = c.secret
	}
	return session, nil
}

// CreateSession signs in with email and password. Appwrite only puts the
// session secret in the JSON body for server keys; browser-style clients get
// it through the X-Fallback-Cookies header or the a_session_<project> cookie.
func (c *Client) CreateSession(ctx context.Context, email, password string) (*model.Session, error) {
	in := map[string]string{
		"email":    email,
		"password": password,
	}

	var out sessionResponse
	resp, err := c.do(ctx, http.MethodPost, "/account/sessions/email", in, &out)
	if err != nil {
		return nil, fmt.Errorf("creating session for %s: %w", email, err)
	}

	session := out.toModel()
	if session.Secret == "" {
		session.Secret = c.sessionSecretFrom(resp)
	}
	return session, nil
}

// CreateAccount registers a new user.
func (c *Client) CreateAccount(ctx context.Context, id, email, password, name string) (*model.Account, error) {
	in := map[string]string{
		"userId":   id,
		"email":    email,
		"password": password,
		"name":     name,
	}

	var out userResponse
	if _, err := c.do(ctx, http.MethodPost, "/account", in, &out); err != nil {
		return nil, fmt.Errorf("creating account %s: %w", id, err)
	}

	return &model.Account{
		ID:        out.ID,
		Name:      out.Name,
		Email:     out.Email,
		CreatedAt: parseTime(out.CreatedAt),
	}, nil
}

// DeleteCurrentSession signs the bound session out.
func (c *Client) DeleteCurrentSession(ctx context.Context) error {
	if c.secret == "" {
		return &model.RemoteError{Kind: model.ErrUnauthenticated, Message: "no session"}
	}

	if _, err := c.do(ctx, http.MethodDelete, "/account/sessions/current", nil, nil); err != nil {
		return fmt.Errorf("deleting current session: %w", err)
	}
	return nil
}

// sessionSecretFrom extracts the session secret from a create-session
// response's headers, preferring X-Fallback-Cookies over Set-Cookie.
func (c *Client) sessionSecretFrom(resp *http.Response) string {
	if resp == nil {
		return ""
	}

	name := "a_session_" + c.project

	if fallback := resp.Header.Get("X-Fallback-Cookies"); fallback != "" {
		var cookies map[string]string
		if err := json.Unmarshal([]byte(fallback), &cookies); err == nil && cookies[name] != "" {
			return cookies[name]
		}
	}

	for _, cookie := range resp.Cookies() {
		if cookie.Name == name && cookie.Value != "" {
			return cookie.Value
		}
	}
	return ""
}
