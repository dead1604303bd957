package services

import (
	"context"

	"github.com/justsurfingit/brightpath/internal/errors"
	"github.com/justsurfingit/brightpath/internal/models"
	"github.com/justsurfingit/brightpath/internal/persistence"
)

const storePageSize = 100

// ApplicationStore exposes an ApplicationService as a persistence.Store,
// so server-side jobs such as the inbox sync share the client's contract.
// Unknown ids are reported as absent values, not errors.
type ApplicationStore struct {
	Service *ApplicationService
}

var _ persistence.Store = ApplicationStore{}

func (s ApplicationStore) Load(ctx context.Context) ([]models.Application, error) {
	var all []models.Application
	for offset := 0; ; offset += storePageSize {
		res, err := s.Service.List(ctx, models.Filters{Limit: storePageSize, Offset: offset})
		if err != nil {
			return nil, err
		}
		all = append(all, res.Applications...)
		if len(res.Applications) == 0 || len(all) >= res.Total {
			return all, nil
		}
	}
}

func (s ApplicationStore) Add(ctx context.Context, in models.ApplicationInput) (*models.Application, error) {
	return s.Service.Create(ctx, in)
}

func (s ApplicationStore) GetByID(ctx context.Context, id string) (*models.Application, error) {
	app, err := s.Service.Get(ctx, id)
	if errors.IsNotFound(err) {
		return nil, nil
	}
	return app, err
}

func (s ApplicationStore) Update(ctx context.Context, id string, patch models.ApplicationPatch) (*models.Application, error) {
	app, err := s.Service.Update(ctx, id, patch)
	if errors.IsNotFound(err) {
		return nil, nil
	}
	return app, err
}

func (s ApplicationStore) Delete(ctx context.Context, id string) (bool, error) {
	err := s.Service.Delete(ctx, id)
	if errors.IsNotFound(err) {
		return false, nil
	}
	return err == nil, err
}

func (s ApplicationStore) Stats(ctx context.Context) (models.Stats, error) {
	return s.Service.Stats(ctx)
}
