// Package web implements the HTML GUI driving adapter using templ components.
package web

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"

	"github.com/ericfisherdev/passvault/internal/adapter/driving/web/templates"
	"github.com/ericfisherdev/passvault/internal/adapter/driving/web/templates/pages"
	vm "github.com/ericfisherdev/passvault/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/passvault/internal/application"
	"github.com/ericfisherdev/passvault/internal/domain/model"
)

const (
	sessionCookieName = "passvault_session"
	signedUpNotice    = "Account created. You can sign in now."
)

// Handler is the web GUI driving adapter that serves HTML via templ components.
type Handler struct {
	auth          *application.AuthService
	views         *application.ViewRegistry
	secureCookies bool
	logger        *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	auth *application.AuthService,
	views *application.ViewRegistry,
	secureCookies bool,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		auth:          auth,
		views:         views,
		secureCookies: secureCookies,
		logger:        logger,
	}
}

// LoginPage renders the sign-in form. A signed_up query flag shows the
// post-registration notice.
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	form := vm.AuthViewModel{CSRFToken: h.csrfToken(w, r)}
	if r.URL.Query().Get("signed_up") != "" {
		form.Notice = signedUpNotice
	}
	h.render(w, r, http.StatusOK, "Sign in", "", pages.Login(form))
}

// Login creates a remote session and redirects to the home view. On failure
// the form is shown again with the backend's message and the email kept.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	email := r.PostFormValue("email")
	password := r.PostFormValue("password")

	session, err := h.auth.Login(r.Context(), email, password)
	if err != nil {
		form := vm.AuthViewModel{
			CSRFToken:   h.csrfToken(w, r),
			Email:       email,
			MessageHTML: RenderMessage(model.UserMessage(err)),
		}
		h.render(w, r, formErrorStatus(err), "Sign in", "", pages.Login(form))
		return
	}

	h.setSessionCookie(w, session)
	http.Redirect(w, r, "/home", http.StatusSeeOther)
}

// SignUpPage renders the registration form.
func (h *Handler) SignUpPage(w http.ResponseWriter, r *http.Request) {
	form := vm.AuthViewModel{CSRFToken: h.csrfToken(w, r)}
	h.render(w, r, http.StatusOK, "Sign up", "", pages.SignUp(form))
}

// SignUp registers an account and sends the user to the sign-in page.
func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	name := r.PostFormValue("name")
	email := r.PostFormValue("email")
	password := r.PostFormValue("password")

	if _, err := h.auth.SignUp(r.Context(), name, email, password); err != nil {
		form := vm.AuthViewModel{
			CSRFToken:   h.csrfToken(w, r),
			Name:        name,
			Email:       email,
			MessageHTML: RenderMessage(model.UserMessage(err)),
		}
		h.render(w, r, formErrorStatus(err), "Sign up", "", pages.SignUp(form))
		return
	}

	http.Redirect(w, r, "/?signed_up=1", http.StatusSeeOther)
}

// Home activates the protected view: the session gate resolves first, then a
// fresh credential view replaces any previous one and loads the records.
// Nothing is written before the gate settles.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session := h.currentSession(r)

	gate := h.auth.Gate(session)
	if gate.Activate(ctx) != application.GateAuthorized {
		// Only a rejected session is dropped; a transient failure keeps it for
		// the next activation.
		if session == nil || errors.Is(gate.Err(), model.ErrUnauthenticated) {
			h.expire(ctx, w, session)
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	h.logger.Debug("home activated", "user_id", gate.Session().UserID)
	view := h.views.Activate(session.ID, h.auth.Backend(session))

	var message string
	if err := view.Load(ctx); err != nil {
		switch {
		case errors.Is(err, model.ErrUnauthenticated):
			h.expire(ctx, w, session)
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		case errors.Is(err, application.ErrViewClosed):
			// Another tab activated a newer view while this one loaded.
			current := h.views.Get(session.ID)
			if current == nil {
				http.Redirect(w, r, "/home", http.StatusSeeOther)
				return
			}
			view = current
		default:
			message = "Could not load your credentials. " + model.UserMessage(err)
		}
	}

	h.renderHome(w, r, http.StatusOK, session, view, message)
}

// AddCredential submits the add form.
func (h *Handler) AddCredential(w http.ResponseWriter, r *http.Request) {
	fields := model.CredentialFields{
		Website:  r.PostFormValue("website"),
		UserName: r.PostFormValue("userName"),
		Password: r.PostFormValue("password"),
		Email:    r.PostFormValue("email"),
	}

	h.homeAction(w, r, func(ctx context.Context, _ *model.BrowserSession, view *application.CredentialListView) error {
		return view.Add(ctx, fields)
	})
}

// DeleteCredential deletes one record.
func (h *Handler) DeleteCredential(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	h.homeAction(w, r, func(ctx context.Context, _ *model.BrowserSession, view *application.CredentialListView) error {
		return view.Delete(ctx, id)
	})
}

// ToggleVisibility shows or hides one record's password.
func (h *Handler) ToggleVisibility(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	h.homeAction(w, r, func(_ context.Context, _ *model.BrowserSession, view *application.CredentialListView) error {
		view.ToggleVisibility(id)
		return nil
	})
}

// GeneratePassword fills the generator field with a new password.
func (h *Handler) GeneratePassword(w http.ResponseWriter, r *http.Request) {
	h.homeAction(w, r, func(_ context.Context, _ *model.BrowserSession, view *application.CredentialListView) error {
		view.GeneratePassword()
		return nil
	})
}

// ToggleTheme flips the session's theme preference.
func (h *Handler) ToggleTheme(w http.ResponseWriter, r *http.Request) {
	h.homeAction(w, r, func(ctx context.Context, session *model.BrowserSession, _ *application.CredentialListView) error {
		_, err := h.auth.ToggleTheme(ctx, session)
		return err
	})
}

// SignOut ends the remote session. On failure the user stays signed in and
// sees the error.
func (h *Handler) SignOut(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session := h.currentSession(r)
	if session == nil {
		h.clearSessionCookie(w)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if err := h.auth.SignOut(ctx, session); err != nil {
		view := h.views.Get(session.ID)
		if view == nil {
			http.Redirect(w, r, "/home", http.StatusSeeOther)
			return
		}
		h.renderHome(w, r, http.StatusOK, session, view, "Could not sign out. "+model.UserMessage(err))
		return
	}

	h.views.Remove(session.ID)
	h.clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// homeAction runs fn against the session's live view and renders the home
// page in place so visibility state and the draft survive. Without a session
// the browser goes to sign-in; without a view it is sent to activate one.
func (h *Handler) homeAction(
	w http.ResponseWriter,
	r *http.Request,
	fn func(ctx context.Context, session *model.BrowserSession, view *application.CredentialListView) error,
) {
	ctx := r.Context()

	session := h.currentSession(r)
	if session == nil {
		h.clearSessionCookie(w)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	view := h.views.Get(session.ID)
	if view == nil {
		http.Redirect(w, r, "/home", http.StatusSeeOther)
		return
	}

	err := fn(ctx, session, view)
	switch {
	case err == nil:
		h.renderHome(w, r, http.StatusOK, session, view, "")
	case errors.Is(err, model.ErrUnauthenticated):
		h.expire(ctx, w, session)
		http.Redirect(w, r, "/", http.StatusSeeOther)
	case errors.Is(err, application.ErrViewClosed):
		// A newer activation replaced this view; show that one instead.
		current := h.views.Get(session.ID)
		if current == nil {
			http.Redirect(w, r, "/home", http.StatusSeeOther)
			return
		}
		h.renderHome(w, r, http.StatusOK, session, current, "")
	default:
		h.renderHome(w, r, formErrorStatus(err), session, view, model.UserMessage(err))
	}
}

// currentSession resolves the session cookie. Lookup failures are logged and
// treated as signed out.
func (h *Handler) currentSession(r *http.Request) *model.BrowserSession {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	session, err := h.auth.Resolve(r.Context(), cookie.Value)
	if err != nil {
		h.logger.Error("failed to resolve browser session", "error", err)
		return nil
	}
	return session
}

// expire drops the local session and its view after the backend rejected it.
func (h *Handler) expire(ctx context.Context, w http.ResponseWriter, session *model.BrowserSession) {
	h.clearSessionCookie(w)
	if session == nil {
		return
	}

	h.views.Remove(session.ID)
	if err := h.auth.Forget(ctx, session.ID); err != nil {
		h.logger.Error("failed to forget browser session", "error", err)
	}
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, session *model.BrowserSession) {
	cookie := &http.Cookie{
		Name:     sessionCookieName,
		Value:    session.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.secureCookies,
	}
	if !session.ExpiresAt.IsZero() {
		cookie.Expires = session.ExpiresAt
	}
	http.SetCookie(w, cookie)
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.secureCookies,
	})
}

func (h *Handler) renderHome(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	session *model.BrowserSession,
	view *application.CredentialListView,
	message string,
) {
	home := toHomeViewModel(session, view.Snapshot(), h.csrfToken(w, r), message)
	h.render(w, r, status, home.Layout.Title, home.Layout.Theme, pages.Home(home))
}

// render writes body inside the layout. The page is buffered so a render
// failure can still become a 500.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, title, theme string, body templ.Component) {
	var buf bytes.Buffer
	layout := templates.Layout(vm.LayoutViewModel{Title: title, Theme: theme}, body)
	if err := layout.Render(r.Context(), &buf); err != nil {
		h.logger.Error("failed to render page", "path", r.URL.Path, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// formErrorStatus picks the response status for a form shown again with an
// error.
func formErrorStatus(err error) int {
	switch {
	case errors.Is(err, model.ErrValidation),
		errors.Is(err, model.ErrWeakPassword),
		errors.Is(err, model.ErrAlreadyExists):
		return http.StatusUnprocessableEntity
	case errors.Is(err, model.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, model.ErrNetwork):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
