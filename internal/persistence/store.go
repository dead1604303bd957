// Package persistence defines the capability every application backend offers.
//
// Two implementations exist: persistence/local keeps the whole collection in
// client-side storage; persistence/remote talks to the backend API. Exactly
// one is chosen when the client is assembled.
package persistence

import (
	"context"

	"github.com/justsurfingit/brightpath/internal/models"
)

// Store is the persistence strategy behind the lifecycle controller.
//
// GetByID and Update return a nil application with a nil error when the id
// is unknown to a store that reports absence as a value (the local store);
// the remote store reports it as an error instead.
type Store interface {
	Load(ctx context.Context) ([]models.Application, error)
	Add(ctx context.Context, in models.ApplicationInput) (*models.Application, error)
	GetByID(ctx context.Context, id string) (*models.Application, error)
	Update(ctx context.Context, id string, patch models.ApplicationPatch) (*models.Application, error)
	Delete(ctx context.Context, id string) (bool, error)
	Stats(ctx context.Context) (models.Stats, error)
}
