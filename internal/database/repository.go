package database

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/justsurfingit/brightpath/internal/errors"
	"github.com/justsurfingit/brightpath/internal/models"
)

// ApplicationRepository stores applications for the backend.
// Get reports an unknown id as errors.ErrNotFound; Delete reports it as false.
type ApplicationRepository interface {
	List(ctx context.Context, f models.Filters) (models.ListResult, error)
	Get(ctx context.Context, id string) (*models.Application, error)
	Create(ctx context.Context, app models.Application) error
	Save(ctx context.Context, app models.Application) error
	Delete(ctx context.Context, id string) (bool, error)
	Stats(ctx context.Context) (models.Stats, error)
}

// GormRepository is the postgres-backed ApplicationRepository.
type GormRepository struct {
	DB *gorm.DB
}

var _ ApplicationRepository = (*GormRepository)(nil)

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{DB: db}
}

func (r *GormRepository) List(ctx context.Context, f models.Filters) (models.ListResult, error) {
	limit, offset := f.Limit, f.Offset
	if limit <= 0 {
		limit = models.DefaultLimit
	}
	if offset < 0 {
		offset = 0
	}

	filtered := func() *gorm.DB {
		q := r.DB.WithContext(ctx).Model(&ApplicationRow{})
		if f.Status != "" {
			q = q.Where("status = ?", string(f.Status))
		}
		return q
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return models.ListResult{}, errors.Wrap(err, "count applications")
	}

	// id breaks ties so LIMIT/OFFSET pages are stable.
	q := filtered()
	name, sorted := models.SortField(f.OrderBy)
	if sorted {
		column, _ := models.RemoteName(name)
		q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: f.Descending()})
	}
	if !sorted || name != "id" {
		q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}})
	}

	var rows []ApplicationRow
	if err := q.Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return models.ListResult{}, errors.Wrap(err, "list applications")
	}

	apps := make([]models.Application, 0, len(rows))
	for _, row := range rows {
		apps = append(apps, row.model())
	}
	return models.ListResult{
		Applications: apps,
		Total:        int(total),
		Page:         offset/limit + 1,
		Limit:        limit,
	}, nil
}

func (r *GormRepository) Get(ctx context.Context, id string) (*models.Application, error) {
	var row ApplicationRow
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Mark(errors.Newf("application %s not found", id), errors.ErrNotFound)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get application %s", id)
	}
	app := row.model()
	return &app, nil
}

func (r *GormRepository) Create(ctx context.Context, app models.Application) error {
	row := rowFromModel(app)
	if err := r.DB.WithContext(ctx).Create(&row).Error; err != nil {
		return errors.Wrap(err, "create application")
	}
	return nil
}

func (r *GormRepository) Save(ctx context.Context, app models.Application) error {
	row := rowFromModel(app)
	if err := r.DB.WithContext(ctx).Save(&row).Error; err != nil {
		return errors.Wrapf(err, "save application %s", app.ID)
	}
	return nil
}

func (r *GormRepository) Delete(ctx context.Context, id string) (bool, error) {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&ApplicationRow{})
	if res.Error != nil {
		return false, errors.Wrapf(res.Error, "delete application %s", id)
	}
	return res.RowsAffected > 0, nil
}

func (r *GormRepository) Stats(ctx context.Context) (models.Stats, error) {
	var counts []struct {
		Status string
		Count  int
	}
	err := r.DB.WithContext(ctx).Model(&ApplicationRow{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return models.Stats{}, errors.Wrap(err, "application stats")
	}

	var s models.Stats
	for _, c := range counts {
		s.Total += c.Count
		switch models.Status(c.Status) {
		case models.StatusPending:
			s.Pending = c.Count
		case models.StatusInterview:
			s.Interview = c.Count
		case models.StatusRejected:
			s.Rejected = c.Count
		case models.StatusAccepted:
			s.Accepted = c.Count
		}
	}
	return s, nil
}
