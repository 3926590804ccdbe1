package model

import "strings"

// CredentialRecord is one stored website/username/password/email entry.
// ID is assigned by the remote store and never changes; records are never
// edited in place.
type CredentialRecord struct {
	ID       string
	Website  string
	UserName string
	Password string
	Email    string
}

// CredentialFields holds the values a user submits when adding a record.
// The remote store assigns the ID.
type CredentialFields struct {
	Website  string
	UserName string
	Password string
	Email    string
}

// Validate returns a *MissingFieldError naming the first blank field, or nil
// when all four fields are present.
func (f CredentialFields) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"website", f.Website},
		{"userName", f.UserName},
		{"password", f.Password},
		{"email", f.Email},
	}

	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return &MissingFieldError{Field: field.name}
		}
	}
	return nil
}
