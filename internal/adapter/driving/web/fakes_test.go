package web

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ericfisherdev/passvault/internal/domain/model"
	"github.com/ericfisherdev/passvault/internal/domain/port/driven"
)

// fakeBackend is an in-memory hosted backend shared by every session secret.
type fakeBackend struct {
	mu sync.Mutex

	records []model.CredentialRecord
	nextID  int

	getSessionErr    error
	createSessionErr error
	createAccountErr error
	deleteSessionErr error
	listErr          error

	// onList runs before ListRecords answers, outside the lock.
	onList func()

	createCalls int
	secrets     []string
}

var (
	_ driven.Backend         = (*fakeBackend)(nil)
	_ driven.BackendProvider = (*fakeBackend)(nil)
)

func (f *fakeBackend) ForSession(secret string) driven.Backend {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.secrets = append(f.secrets, secret)
	return f
}

func (f *fakeBackend) GetCurrentSession(_ context.Context) (*model.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getSessionErr != nil {
		return nil, f.getSessionErr
	}
	return &model.Session{ID: "remote-1", UserID: "user_1"}, nil
}

func (f *fakeBackend) CreateSession(_ context.Context, _, _ string) (*model.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createSessionErr != nil {
		return nil, f.createSessionErr
	}
	return &model.Session{ID: "remote-1", UserID: "user_1", Secret: "remote-secret"}, nil
}

func (f *fakeBackend) CreateAccount(_ context.Context, id, email, _, name string) (*model.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createAccountErr != nil {
		return nil, f.createAccountErr
	}
	return &model.Account{ID: id, Name: name, Email: email}, nil
}

func (f *fakeBackend) DeleteCurrentSession(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.deleteSessionErr
}

func (f *fakeBackend) ListRecords(_ context.Context) ([]model.CredentialRecord, error) {
	if f.onList != nil {
		f.onList()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]model.CredentialRecord, len(f.records))
	copy(out, f.records)
	return out, nil
}

func (f *fakeBackend) CreateRecord(_ context.Context, fields model.CredentialFields) (model.CredentialRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	f.nextID++
	record := model.CredentialRecord{
		ID:       fmt.Sprintf("doc%d", f.nextID),
		Website:  fields.Website,
		UserName: fields.UserName,
		Password: fields.Password,
		Email:    fields.Email,
	}
	f.records = append(f.records, record)
	return record, nil
}

func (f *fakeBackend) DeleteRecord(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.records {
		if r.ID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return nil
		}
	}
	return &model.RemoteError{Kind: model.ErrNotFound, Status: 404}
}

// fakeSessions is an in-memory SessionStore.
type fakeSessions struct {
	mu       sync.Mutex
	sessions map[string]model.BrowserSession
}

var _ driven.SessionStore = (*fakeSessions)(nil)

func newFakeSessions() *fakeSessions {
	return &fakeSessions{sessions: make(map[string]model.BrowserSession)}
}

func (f *fakeSessions) Create(_ context.Context, s model.BrowserSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[s.ID] = s
	return nil
}

func (f *fakeSessions) Get(_ context.Context, id string) (*model.BrowserSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok || s.Expired(time.Now()) {
		return nil, nil
	}
	return &s, nil
}

func (f *fakeSessions) SetTheme(_ context.Context, id string, theme model.Theme) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok {
		return driven.ErrSessionNotFound
	}
	s.Theme = theme
	f.sessions[id] = s
	return nil
}

func (f *fakeSessions) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, id)
	return nil
}

func (f *fakeSessions) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for id, s := range f.sessions {
		if s.Expired(now) {
			delete(f.sessions, id)
			n++
		}
	}
	return n, nil
}

func (f *fakeSessions) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sessions)
}
