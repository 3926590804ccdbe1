package application_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ericfisherdev/passvault/internal/domain/model"
	"github.com/ericfisherdev/passvault/internal/domain/port/driven"
)

// --- Mock implementations ---

// mockBackend is an in-memory stand-in for the hosted backend. Error fields
// force the matching call to fail; call counters record remote traffic.
type mockBackend struct {
	mu sync.Mutex

	records []model.CredentialRecord
	nextID  int

	session *model.Session
	account *model.Account

	listErr          error
	createErr        error
	deleteErr        error
	getSessionErr    error
	createSessionErr error
	createAccountErr error
	deleteSessionErr error

	listCalls       int
	createCalls     int
	deleteCalls     int
	getSessionCalls int
	createdAccounts []string
	deletedSessions int

	// beforeCreateReturn runs after the record is created but before
	// CreateRecord returns, so tests can interleave other operations.
	beforeCreateReturn func()
}

var _ driven.Backend = (*mockBackend)(nil)

func (m *mockBackend) ListRecords(_ context.Context) ([]model.CredentialRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]model.CredentialRecord, len(m.records))
	copy(out, m.records)
	return out, nil
}

func (m *mockBackend) CreateRecord(_ context.Context, fields model.CredentialFields) (model.CredentialRecord, error) {
	m.mu.Lock()
	m.createCalls++
	if m.createErr != nil {
		m.mu.Unlock()
		return model.CredentialRecord{}, m.createErr
	}
	m.nextID++
	record := model.CredentialRecord{
		ID:       fmt.Sprintf("A%d", m.nextID),
		Website:  fields.Website,
		UserName: fields.UserName,
		Password: fields.Password,
		Email:    fields.Email,
	}
	m.records = append(m.records, record)
	hook := m.beforeCreateReturn
	m.mu.Unlock()

	if hook != nil {
		hook()
	}
	return record, nil
}

func (m *mockBackend) DeleteRecord(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteCalls++
	if m.deleteErr != nil {
		return m.deleteErr
	}
	for i, r := range m.records {
		if r.ID == id {
			m.records = append(m.records[:i], m.records[i+1:]...)
			return nil
		}
	}
	return &model.RemoteError{Kind: model.ErrNotFound, Status: 404, Type: "document_not_found", Message: "Document with the requested ID could not be found."}
}

func (m *mockBackend) GetCurrentSession(_ context.Context) (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getSessionCalls++
	if m.getSessionErr != nil {
		return nil, m.getSessionErr
	}
	return m.session, nil
}

func (m *mockBackend) CreateSession(_ context.Context, _, _ string) (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createSessionErr != nil {
		return nil, m.createSessionErr
	}
	return m.session, nil
}

func (m *mockBackend) CreateAccount(_ context.Context, id, email, _, name string) (*model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createdAccounts = append(m.createdAccounts, id)
	if m.createAccountErr != nil {
		return nil, m.createAccountErr
	}
	return &model.Account{ID: id, Email: email, Name: name}, nil
}

func (m *mockBackend) DeleteCurrentSession(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletedSessions++
	return m.deleteSessionErr
}

// mockProvider returns the same backend for every secret and records which
// secrets were requested.
type mockProvider struct {
	backend *mockBackend
	secrets []string
}

func (p *mockProvider) ForSession(secret string) driven.Backend {
	p.secrets = append(p.secrets, secret)
	return p.backend
}

// mockSessionStore is an in-memory driven.SessionStore.
type mockSessionStore struct {
	mu        sync.Mutex
	sessions  map[string]model.BrowserSession
	createErr error
	sweepErr  error
}

var _ driven.SessionStore = (*mockSessionStore)(nil)

func newMockSessionStore() *mockSessionStore {
	return &mockSessionStore{sessions: make(map[string]model.BrowserSession)}
}

func (m *mockSessionStore) Create(_ context.Context, s model.BrowserSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.sessions[s.ID] = s
	return nil
}

func (m *mockSessionStore) Get(_ context.Context, id string) (*model.BrowserSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *mockSessionStore) SetTheme(_ context.Context, id string, theme model.Theme) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return driven.ErrSessionNotFound
	}
	s.Theme = theme
	m.sessions[id] = s
	return nil
}

func (m *mockSessionStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *mockSessionStore) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sweepErr != nil {
		return 0, m.sweepErr
	}
	var n int64
	for id, s := range m.sessions {
		if s.Expired(now) {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}
