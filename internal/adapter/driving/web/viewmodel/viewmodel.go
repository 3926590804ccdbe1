// Package viewmodel defines presentation-ready structs for templ components.
// View models decouple template rendering from domain model types.
package viewmodel

// LayoutViewModel holds what the page shell needs.
type LayoutViewModel struct {
	Title string
	Theme string // "light" or "dark"
}

// AuthViewModel holds the state of the login and sign-up forms.
type AuthViewModel struct {
	CSRFToken string
	Name      string // sign-up only
	Email     string

	// MessageHTML is sanitized HTML; empty when there is nothing to report.
	MessageHTML string
	Notice      string
}

// CredentialViewModel holds presentation-ready data for one stored record.
type CredentialViewModel struct {
	ID       string
	Website  string
	UserName string
	Email    string

	// Password is the plaintext when Visible, otherwise a fixed mask.
	Password string
	Visible  bool

	DeletePath     string
	VisibilityPath string
}

// CredentialFormViewModel holds the values of the add-credential form.
type CredentialFormViewModel struct {
	Website  string
	UserName string
	Password string
	Email    string
}

// HomeViewModel holds everything the signed-in home page renders.
type HomeViewModel struct {
	Layout    LayoutViewModel
	CSRFToken string
	Email     string

	Credentials []CredentialViewModel
	Form        CredentialFormViewModel
	Generated   string

	MessageHTML string
}
