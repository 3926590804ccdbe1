// Package appwrite implements the account and record-store ports against the
// Appwrite REST API.
package appwrite

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ericfisherdev/passvault/internal/domain/model"
	"github.com/ericfisherdev/passvault/internal/domain/port/driven"
)

// Compile-time interface satisfaction checks.
var (
	_ driven.Backend         = (*Client)(nil)
	_ driven.BackendProvider = (*Client)(nil)
)

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 64 << 10

// Options configures a Client.
type Options struct {
	Endpoint     string // e.g. "https://cloud.appwrite.io/v1"
	Project      string
	DatabaseID   string
	CollectionID string
	Timeout      time.Duration
}

// Client talks to one Appwrite project. A Client returned by ForSession is
// bound to that session's secret; the zero-secret Client is anonymous.
type Client struct {
	http         *http.Client
	endpoint     string
	project      string
	databaseID   string
	collectionID string
	secret       string
}

// NewClient creates an anonymous Client with its own http.Client.
func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return NewClientWithHTTPClient(&http.Client{Timeout: timeout}, opts)
}

// NewClientWithHTTPClient creates a Client with a custom http.Client.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, opts Options) *Client {
	return &Client{
		http:         httpClient,
		endpoint:     strings.TrimRight(opts.Endpoint, "/"),
		project:      opts.Project,
		databaseID:   opts.DatabaseID,
		collectionID: opts.CollectionID,
	}
}

// ForSession returns a copy of the client bound to secret.
func (c *Client) ForSession(secret string) driven.Backend {
	bound := *c
	bound.secret = secret
	return &bound
}

// appwriteError is the JSON body Appwrite returns on failure.
type appwriteError struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
	Type    string `json:"type"`
}

// do sends a JSON request and decodes a JSON response into out (which may be
// nil). The returned response has its body consumed and closed; callers may
// still read its headers.
func (c *Client) do(ctx context.Context, method, path string, in, out any) (*http.Response, error) {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("marshaling %s %s request: %w", method, path, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, body)
	if err != nil {
		return nil, fmt.Errorf("creating %s %s request: %w", method, path, err)
	}
	req.Header.Set("X-Appwrite-Project", c.project)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.secret != "" {
		req.Header.Set("X-Appwrite-Session", c.secret)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &model.RemoteError{Kind: model.ErrNetwork, Message: err.Error()}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr appwriteError
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if len(raw) > 0 {
			_ = json.Unmarshal(raw, &apiErr)
		}
		return resp, mapError(resp.StatusCode, apiErr, strings.HasPrefix(path, "/account"))
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp, nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp, &model.RemoteError{
			Kind:    model.ErrUnknown,
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("decoding %s %s response: %v", method, path, err),
		}
	}
	return resp, nil
}

// mapError translates an Appwrite failure into the model error taxonomy.
// Weak-password errors only come from account endpoints; a document 400 that
// names the password attribute is a schema problem.
func mapError(status int, apiErr appwriteError, account bool) error {
	remote := &model.RemoteError{
		Status:  status,
		Type:    apiErr.Type,
		Message: apiErr.Message,
	}

	switch {
	case status == http.StatusUnauthorized && apiErr.Type == "user_invalid_credentials":
		remote.Kind = model.ErrInvalidCredentials
	case status == http.StatusUnauthorized:
		remote.Kind = model.ErrUnauthenticated
	case status == http.StatusConflict:
		remote.Kind = model.ErrAlreadyExists
	case status == http.StatusBadRequest && account && mentionsPassword(apiErr):
		remote.Kind = model.ErrWeakPassword
	case status == http.StatusBadRequest:
		remote.Kind = model.ErrValidation
	case status == http.StatusNotFound:
		remote.Kind = model.ErrNotFound
	case status == http.StatusTooManyRequests, status == http.StatusBadGateway,
		status == http.StatusServiceUnavailable, status == http.StatusGatewayTimeout:
		remote.Kind = model.ErrNetwork
	default:
		// 403 lands here: a missing collection permission is a configuration
		// problem, not an expired session.
		remote.Kind = model.ErrUnknown
	}

	return remote
}

// mentionsPassword reports whether a 400 is about the password argument, which
// is how Appwrite reports passwords that are too short, too common, or reused.
func mentionsPassword(apiErr appwriteError) bool {
	return strings.Contains(apiErr.Type, "password") ||
		strings.Contains(strings.ToLower(apiErr.Message), "password")
}

// parseTime parses Appwrite's ISO 8601 timestamps. An empty or malformed
// value yields the zero time.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
