package repository

import (
	"context"
	"errors"

	"github.com/vendora/realtime/domain/model"
)

// ErrSchemaMissing reports that the messages table has not been provisioned
// yet (migrations have not run in this environment). Callers treat it as a
// signal to degrade, not as a failure.
var ErrSchemaMissing = errors.New("messages table does not exist")

type MessageRepository interface {
	// Create inserts the message and fills in generated id and timestamps.
	// Returns ErrSchemaMissing when the underlying table is absent.
	Create(ctx context.Context, message *model.Message) error
}
