// Package local keeps the application collection in client-side storage.
//
// The whole collection lives as one JSON array under a single key. Every
// read parses the whole array and every write replaces it; the expected
// scale is one person's job search. Concurrent writers sharing the same
// storage are not coordinated: the last write wins.
package local

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/justsurfingit/brightpath/internal/errors"
	"github.com/justsurfingit/brightpath/internal/idgen"
	"github.com/justsurfingit/brightpath/internal/logger"
	"github.com/justsurfingit/brightpath/internal/models"
	"github.com/justsurfingit/brightpath/internal/stats"
	"github.com/justsurfingit/brightpath/internal/storage"
)

// DefaultKey is the storage key the collection is kept under.
const DefaultKey = "brightpath_applications"

// Config configures a Store.
type Config struct {
	Key    string             // storage key; DefaultKey when empty
	Now    func() time.Time   // clock; time.Now when nil
	NewID  func() string      // id source; idgen.New when nil
	Logger *zap.SugaredLogger // nil = nop
}

// Store is the local persistence strategy.
type Store struct {
	storage storage.Storage
	key     string
	now     func() time.Time
	newID   func() string
	logger  *zap.SugaredLogger
}

func NewStore(s storage.Storage, cfg Config) *Store {
	if cfg.Key == "" {
		cfg.Key = DefaultKey
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.NewID == nil {
		cfg.NewID = idgen.New
	}
	return &Store{
		storage: s,
		key:     cfg.Key,
		now:     cfg.Now,
		newID:   cfg.NewID,
		logger:  logger.OrNop(cfg.Logger),
	}
}

// Load returns the stored collection. Nothing stored, or a value that does
// not parse as a list of applications, yields an empty collection.
// Records carrying an unknown status are dropped.
func (s *Store) Load(ctx context.Context) ([]models.Application, error) {
	raw, ok, err := s.storage.GetItem(ctx, s.key)
	if err != nil {
		return nil, errors.Wrap(err, "load applications")
	}
	if !ok || raw == "" {
		return []models.Application{}, nil
	}
	var apps []models.Application
	if err := json.Unmarshal([]byte(raw), &apps); err != nil {
		s.logger.Warnw("Stored applications are unreadable, treating as empty", "key", s.key, "error", err)
		return []models.Application{}, nil
	}
	valid := make([]models.Application, 0, len(apps))
	for _, a := range apps {
		if !a.Status.Valid() {
			s.logger.Warnw("Dropping stored application with unknown status", "key", s.key, "id", a.ID, "status", a.Status)
			continue
		}
		valid = append(valid, a)
	}
	return valid, nil
}

// Save replaces the stored collection with apps.
func (s *Store) Save(ctx context.Context, apps []models.Application) error {
	if apps == nil {
		apps = []models.Application{}
	}
	raw, err := json.Marshal(apps)
	if err != nil {
		return errors.Wrap(err, "encode applications")
	}
	if err := s.storage.SetItem(ctx, s.key, string(raw)); err != nil {
		return errors.Wrap(err, "save applications")
	}
	return nil
}

func (s *Store) stamp() time.Time {
	// UTC drops the monotonic reading so stored and loaded values compare equal.
	return s.now().UTC()
}

// Add assigns an id and timestamps, appends and persists.
func (s *Store) Add(ctx context.Context, in models.ApplicationInput) (*models.Application, error) {
	if in.Status != "" && !in.Status.Valid() {
		return nil, errors.Validationf("status must be one of pending, interview, rejected, accepted")
	}
	apps, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	app := in.NewApplication(s.newID(), s.stamp())
	apps = append(apps, app)
	if err := s.Save(ctx, apps); err != nil {
		return nil, err
	}
	s.logger.Debugw("Application added", "id", app.ID, "company", app.Company)
	return &app, nil
}

// GetByID returns nil, nil when no application has the id.
func (s *Store) GetByID(ctx context.Context, id string) (*models.Application, error) {
	apps, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range apps {
		if apps[i].ID == id {
			return &apps[i], nil
		}
	}
	return nil, nil
}

// Update merges patch into the application and stamps UpdatedAt.
// It returns nil, nil without writing when no application has the id.
func (s *Store) Update(ctx context.Context, id string, patch models.ApplicationPatch) (*models.Application, error) {
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, errors.Validationf("status must be one of pending, interview, rejected, accepted")
	}
	apps, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range apps {
		if apps[i].ID != id {
			continue
		}
		patch.Apply(&apps[i])
		now := s.stamp()
		if now.Before(apps[i].UpdatedAt) {
			now = apps[i].UpdatedAt
		}
		apps[i].UpdatedAt = now
		if err := s.Save(ctx, apps); err != nil {
			return nil, err
		}
		updated := apps[i]
		return &updated, nil
	}
	return nil, nil
}

// Delete removes the application. It reports false without writing when no application has the id.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	apps, err := s.Load(ctx)
	if err != nil {
		return false, err
	}
	kept := make([]models.Application, 0, len(apps))
	for _, a := range apps {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	if len(kept) == len(apps) {
		return false, nil
	}
	if err := s.Save(ctx, kept); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) Stats(ctx context.Context) (models.Stats, error) {
	apps, err := s.Load(ctx)
	if err != nil {
		return models.Stats{}, err
	}
	return stats.Calculate(apps), nil
}
