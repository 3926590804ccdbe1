package web

import (
	"io/fs"
	"net/http"
)

// RegisterRoutes registers all web GUI routes on the provided mux.
// Static assets are served from the embedded filesystem at /static/*.
// Every POST is CSRF checked.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Static assets (embedded via go:embed).
	staticFS, _ := fs.Sub(StaticFS, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	// Unauthenticated pages.
	mux.HandleFunc("GET /{$}", h.LoginPage)
	mux.HandleFunc("POST /login", h.requireCSRF(h.Login))
	mux.HandleFunc("GET /signup", h.SignUpPage)
	mux.HandleFunc("POST /signup", h.requireCSRF(h.SignUp))

	// Protected view.
	mux.HandleFunc("GET /home", h.Home)
	mux.HandleFunc("POST /home/credentials", h.requireCSRF(h.AddCredential))
	mux.HandleFunc("POST /home/credentials/{id}/delete", h.requireCSRF(h.DeleteCredential))
	mux.HandleFunc("POST /home/credentials/{id}/visibility", h.requireCSRF(h.ToggleVisibility))
	mux.HandleFunc("POST /home/generate", h.requireCSRF(h.GeneratePassword))
	mux.HandleFunc("POST /home/theme", h.requireCSRF(h.ToggleTheme))
	mux.HandleFunc("POST /signout", h.requireCSRF(h.SignOut))
}
