package remote

import (
	"context"

	"github.com/justsurfingit/brightpath/internal/models"
	"github.com/justsurfingit/brightpath/internal/persistence"
)

// loadPageSize is the page size Load walks the listing with.
const loadPageSize = 100

// Store adapts a Backend to persistence.Store.
type Store struct {
	backend Backend
}

var _ persistence.Store = (*Store)(nil)

func NewStore(b Backend) *Store {
	return &Store{backend: b}
}

// Load walks every page of the listing ordered by id, so pages neither overlap nor skip.
func (s *Store) Load(ctx context.Context) ([]models.Application, error) {
	apps := []models.Application{}
	for offset := 0; ; {
		page, err := s.backend.List(ctx, models.Filters{Limit: loadPageSize, Offset: offset, OrderBy: "id"})
		if err != nil {
			return nil, err
		}
		apps = append(apps, page.Applications...)
		offset += len(page.Applications)
		if len(page.Applications) == 0 || offset >= page.Total {
			return apps, nil
		}
	}
}

func (s *Store) List(ctx context.Context, f models.Filters) (models.ListResult, error) {
	return s.backend.List(ctx, f)
}

func (s *Store) Add(ctx context.Context, in models.ApplicationInput) (*models.Application, error) {
	return s.backend.Create(ctx, in)
}

func (s *Store) GetByID(ctx context.Context, id string) (*models.Application, error) {
	return s.backend.Get(ctx, id)
}

func (s *Store) Update(ctx context.Context, id string, patch models.ApplicationPatch) (*models.Application, error) {
	return s.backend.Update(ctx, id, patch)
}

func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	return s.backend.Delete(ctx, id)
}

func (s *Store) Stats(ctx context.Context) (models.Stats, error) {
	return s.backend.Stats(ctx)
}
