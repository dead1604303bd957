package database

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/justsurfingit/brightpath/internal/errors"
	"github.com/justsurfingit/brightpath/internal/models"
)

var rowColumns = []string{
	"id", "company", "position", "application_date", "status", "location", "salary",
	"contact_person", "contact_email", "contact_phone", "job_description", "notes",
	"created_at", "updated_at",
}

func newMockRepo(t *testing.T) (*GormRepository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Discard,
	})
	require.NoError(t, err)
	return NewGormRepository(db), mock
}

func TestGormRepositoryGet(t *testing.T) {
	repo, mock := newMockRepo(t)
	created := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT \* FROM "applications" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows(rowColumns).AddRow(
			"a1", "TechCorp", "Dev", "2024-01-15", "pending", "Paris", "",
			"", "", "", "", "", created, created))

	app, err := repo.Get(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, "TechCorp", app.Company)
	assert.Equal(t, models.StatusPending, app.Status)
	assert.Equal(t, "Paris", app.Location)
	assert.True(t, app.CreatedAt.Equal(created))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormRepositoryGetNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`SELECT \* FROM "applications"`).
		WillReturnRows(sqlmock.NewRows(rowColumns))

	_, err := repo.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormRepositoryDelete(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(`DELETE FROM "applications" WHERE id = \$1`).
		WithArgs("a1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "applications" WHERE id = \$1`).
		WithArgs("a1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.Delete(context.Background(), "a1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Delete(context.Background(), "a1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormRepositoryStats(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`SELECT status, count\(\*\) as count FROM "applications" GROUP BY "?status"?`).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow("pending", 3).
			AddRow("interview", 1).
			AddRow("accepted", 1))

	s, err := repo.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.Stats{Total: 5, Pending: 3, Interview: 1, Accepted: 1}, s)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormRepositoryList(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "applications" WHERE status = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery(`SELECT \* FROM "applications" WHERE status = \$1 ORDER BY "application_date" DESC,"id" LIMIT .+ OFFSET .+`).
		WillReturnRows(sqlmock.NewRows(rowColumns).AddRow(
			"a2", "Beta", "Dev", "2024-02-01", "interview", "", "", "", "", "", "", "", now, now))

	res, err := repo.List(context.Background(), models.Filters{
		Status:         models.StatusInterview,
		Limit:          5,
		Offset:         10,
		OrderBy:        "applicationDate",
		OrderDirection: "desc",
	})
	require.NoError(t, err)
	assert.Equal(t, 12, res.Total)
	assert.Equal(t, 3, res.Page)
	assert.Equal(t, 5, res.Limit)
	require.Len(t, res.Applications, 1)
	assert.Equal(t, "Beta", res.Applications[0].Company)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormRepositoryListPagesInStableOrder(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "applications"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(150))
	mock.ExpectQuery(`SELECT \* FROM "applications" ORDER BY "id" LIMIT .+ OFFSET .+`).
		WillReturnRows(sqlmock.NewRows(rowColumns).AddRow(
			"a101", "Beta", "Dev", "2024-02-01", "pending", "", "", "", "", "", "", "", now, now))

	res, err := repo.List(context.Background(), models.Filters{Limit: 100, Offset: 100})
	require.NoError(t, err)
	assert.Equal(t, 150, res.Total)
	assert.Equal(t, 2, res.Page)
	require.Len(t, res.Applications, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemoryRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	for i, status := range []models.Status{models.StatusPending, models.StatusInterview, models.StatusPending} {
		require.NoError(t, repo.Create(ctx, models.Application{
			ID:              fmt.Sprintf("id-%d", i),
			Company:         fmt.Sprintf("Company %d", i),
			ApplicationDate: fmt.Sprintf("2024-01-%02d", 10-i),
			Status:          status,
		}))
	}
	assert.Error(t, repo.Create(ctx, models.Application{ID: "id-0"}), "duplicate ids are rejected")

	res, err := repo.List(ctx, models.Filters{Status: models.StatusPending, OrderBy: "application_date"})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, "id-2", res.Applications[0].ID)

	app, err := repo.Get(ctx, "id-1")
	require.NoError(t, err)
	app.Status = models.StatusAccepted
	require.NoError(t, repo.Save(ctx, *app))

	s, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Stats{Total: 3, Pending: 2, Accepted: 1}, s)

	ok, err := repo.Delete(ctx, "id-1")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.Delete(ctx, "id-1")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = repo.Get(ctx, "id-1")
	assert.True(t, errors.IsNotFound(err))
}
