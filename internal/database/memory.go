package database

import (
	"context"
	"sync"

	"github.com/justsurfingit/brightpath/internal/errors"
	"github.com/justsurfingit/brightpath/internal/models"
	"github.com/justsurfingit/brightpath/internal/stats"
)

// MemoryRepository keeps applications in process memory, in insertion order.
type MemoryRepository struct {
	mu   sync.RWMutex
	apps []models.Application
}

var _ ApplicationRepository = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) List(_ context.Context, f models.Filters) (models.ListResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return models.Query(r.apps, f), nil
}

func (r *MemoryRepository) Get(_ context.Context, id string) (*models.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := r.index(id); i >= 0 {
		app := r.apps[i]
		return &app, nil
	}
	return nil, errors.Mark(errors.Newf("application %s not found", id), errors.ErrNotFound)
}

func (r *MemoryRepository) Create(_ context.Context, app models.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.index(app.ID) >= 0 {
		return errors.Newf("application %s already exists", app.ID)
	}
	r.apps = append(r.apps, app)
	return nil
}

func (r *MemoryRepository) Save(_ context.Context, app models.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i := r.index(app.ID); i >= 0 {
		r.apps[i] = app
		return nil
	}
	r.apps = append(r.apps, app)
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.index(id)
	if i < 0 {
		return false, nil
	}
	r.apps = append(r.apps[:i], r.apps[i+1:]...)
	return true, nil
}

func (r *MemoryRepository) Stats(_ context.Context) (models.Stats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return stats.Calculate(r.apps), nil
}

func (r *MemoryRepository) index(id string) int {
	for i := range r.apps {
		if r.apps[i].ID == id {
			return i
		}
	}
	return -1
}
