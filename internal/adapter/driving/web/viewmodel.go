package web

import (
	"net/url"

	vm "github.com/ericfisherdev/passvault/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/passvault/internal/application"
	"github.com/ericfisherdev/passvault/internal/domain/model"
)

// passwordMask replaces hidden passwords. Its length says nothing about the
// password's.
const passwordMask = "••••••••"

// toCredentialViewModel converts one record, honoring its visibility.
func toCredentialViewModel(r model.CredentialRecord, visible bool) vm.CredentialViewModel {
	password := passwordMask
	if visible {
		password = r.Password
	}

	base := "/home/credentials/" + url.PathEscape(r.ID)
	return vm.CredentialViewModel{
		ID:             r.ID,
		Website:        r.Website,
		UserName:       r.UserName,
		Email:          r.Email,
		Password:       password,
		Visible:        visible,
		DeletePath:     base + "/delete",
		VisibilityPath: base + "/visibility",
	}
}

// toHomeViewModel assembles the home page from a view snapshot. message is
// plain or backtick-marked text and is rendered to sanitized HTML here.
func toHomeViewModel(
	session *model.BrowserSession,
	snap application.CredentialListSnapshot,
	csrf string,
	message string,
) vm.HomeViewModel {
	credentials := make([]vm.CredentialViewModel, 0, len(snap.Records))
	for _, r := range snap.Records {
		credentials = append(credentials, toCredentialViewModel(r, snap.Visible[r.ID]))
	}

	return vm.HomeViewModel{
		Layout: vm.LayoutViewModel{
			Title: "Passvault",
			Theme: string(session.Theme),
		},
		CSRFToken:   csrf,
		Email:       session.Email,
		Credentials: credentials,
		Form: vm.CredentialFormViewModel{
			Website:  snap.Draft.Website,
			UserName: snap.Draft.UserName,
			Password: snap.Draft.Password,
			Email:    snap.Draft.Email,
		},
		Generated:   snap.Generated,
		MessageHTML: RenderMessage(message),
	}
}
