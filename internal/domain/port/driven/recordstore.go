package driven

import (
	"context"

	"github.com/ericfisherdev/passvault/internal/domain/model"
)

// RecordStore defines the driven port for the hosted document store holding
// credential records.
type RecordStore interface {
	ListRecords(ctx context.Context) ([]model.CredentialRecord, error)
	// CreateRecord stores fields as a new record; the store assigns the ID.
	CreateRecord(ctx context.Context, fields model.CredentialFields) (model.CredentialRecord, error)
	// DeleteRecord fails with model.ErrNotFound when id does not exist.
	DeleteRecord(ctx context.Context, id string) error
}
