package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/justsurfingit/brightpath/internal/database"
	"github.com/justsurfingit/brightpath/internal/errors"
	"github.com/justsurfingit/brightpath/internal/logger"
	"github.com/justsurfingit/brightpath/internal/models"
)

// ApplicationService holds the backend's application rules on top of a repository.
type ApplicationService struct {
	Repo   database.ApplicationRepository
	Now    func() time.Time
	NewID  func() string
	logger *zap.SugaredLogger
}

func NewApplicationService(repo database.ApplicationRepository, l *zap.SugaredLogger) *ApplicationService {
	return &ApplicationService{
		Repo:   repo,
		Now:    time.Now,
		NewID:  uuid.NewString,
		logger: logger.OrNop(l),
	}
}

func (s *ApplicationService) List(ctx context.Context, f models.Filters) (models.ListResult, error) {
	if f.Status != "" && !f.Status.Valid() {
		return models.ListResult{}, errors.Validationf("status must be one of pending, interview, rejected, accepted")
	}
	if f.OrderBy != "" {
		if _, ok := models.SortField(f.OrderBy); !ok {
			return models.ListResult{}, errors.Validationf("cannot order by %q", f.OrderBy)
		}
	}
	return s.Repo.List(ctx, f)
}

func (s *ApplicationService) Get(ctx context.Context, id string) (*models.Application, error) {
	return s.Repo.Get(ctx, id)
}

// Create defaults the status to pending and stores the date as YYYY-MM-DD.
func (s *ApplicationService) Create(ctx context.Context, in models.ApplicationInput) (*models.Application, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	date, err := models.NormalizeDate(in.ApplicationDate)
	if err != nil {
		return nil, err
	}
	in.ApplicationDate = date

	app := in.NewApplication(s.NewID(), s.Now().UTC())
	if err := s.Repo.Create(ctx, app); err != nil {
		return nil, err
	}
	s.logger.Infow("Application created", "id", app.ID, "company", app.Company)
	return &app, nil
}

// Update applies the fields the patch carries and stamps updated_at.
func (s *ApplicationService) Update(ctx context.Context, id string, patch models.ApplicationPatch) (*models.Application, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	if patch.ApplicationDate != nil {
		date, err := models.NormalizeDate(*patch.ApplicationDate)
		if err != nil {
			return nil, err
		}
		patch.ApplicationDate = &date
	}

	app, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(app)
	now := s.Now().UTC()
	if now.Before(app.UpdatedAt) {
		now = app.UpdatedAt
	}
	app.UpdatedAt = now

	if err := s.Repo.Save(ctx, *app); err != nil {
		return nil, err
	}
	s.logger.Infow("Application updated", "id", app.ID, "status", app.Status)
	return app, nil
}

// Delete reports an unknown id as errors.ErrNotFound.
func (s *ApplicationService) Delete(ctx context.Context, id string) error {
	ok, err := s.Repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Mark(errors.Newf("application %s not found", id), errors.ErrNotFound)
	}
	s.logger.Infow("Application deleted", "id", id)
	return nil
}

func (s *ApplicationService) Stats(ctx context.Context) (models.Stats, error) {
	return s.Repo.Stats(ctx)
}
