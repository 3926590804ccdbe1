package appwrite

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ericfisherdev/passvault/internal/domain/model"
)

// uniqueID asks Appwrite to assign the document id.
const uniqueID = "unique()"

// credentialDocument is a credential record as stored in the collection.
// Documents written by earlier clients kept the website under the attribute
// "20" and the password under "Password"; those are read as fallbacks.
type credentialDocument struct {
	ID       string `json:"$id"`
	Website  string `json:"website"`
	UserName string `json:"userName"`
	Password string `json:"password"`
	Email    string `json:"email"`

	LegacyWebsite  string `json:"20"`
	LegacyPassword string `json:"Password"`
}

func (d credentialDocument) toModel() model.CredentialRecord {
	website := d.Website
	if website == "" {
		website = d.LegacyWebsite
	}
	password := d.Password
	if password == "" {
		password = d.LegacyPassword
	}

	return model.CredentialRecord{
		ID:       d.ID,
		Website:  website,
		UserName: d.UserName,
		Password: password,
		Email:    d.Email,
	}
}

// credentialData is the attribute map written on create.
type credentialData struct {
	Website  string `json:"website"`
	UserName string `json:"userName"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

type createDocumentRequest struct {
	DocumentID string         `json:"documentId"`
	Data       credentialData `json:"data"`
}

type documentList struct {
	Total     int                  `json:"total"`
	Documents []credentialDocument `json:"documents"`
}

func (c *Client) documentsPath() string {
	return fmt.Sprintf("/databases/%s/collections/%s/documents",
		url.PathEscape(c.databaseID), url.PathEscape(c.collectionID))
}

// ListRecords returns the collection's documents in the order Appwrite
// returned them.
func (c *Client) ListRecords(ctx context.Context) ([]model.CredentialRecord, error) {
	var out documentList
	if _, err := c.do(ctx, http.MethodGet, c.documentsPath(), nil, &out); err != nil {
		return nil, fmt.Errorf("listing credential documents: %w", err)
	}

	records := make([]model.CredentialRecord, 0, len(out.Documents))
	for _, doc := range out.Documents {
		records = append(records, doc.toModel())
	}
	return records, nil
}

// CreateRecord stores fields as a new document with a server-assigned id.
func (c *Client) CreateRecord(ctx context.Context, fields model.CredentialFields) (model.CredentialRecord, error) {
	in := createDocumentRequest{
		DocumentID: uniqueID,
		Data: credentialData{
			Website:  fields.Website,
			UserName: fields.UserName,
			Password: fields.Password,
			Email:    fields.Email,
		},
	}

	var out credentialDocument
	if _, err := c.do(ctx, http.MethodPost, c.documentsPath(), in, &out); err != nil {
		return model.CredentialRecord{}, fmt.Errorf("creating credential document for %s: %w", fields.Website, err)
	}
	return out.toModel(), nil
}

// DeleteRecord deletes the document with the given id.
func (c *Client) DeleteRecord(ctx context.Context, id string) error {
	path := c.documentsPath() + "/" + url.PathEscape(id)
	if _, err := c.do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("deleting credential document %s: %w", id, err)
	}
	return nil
}
