package local

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justsurfingit/brightpath/internal/errors"
	"github.com/justsurfingit/brightpath/internal/models"
	"github.com/justsurfingit/brightpath/internal/persistence"
	"github.com/justsurfingit/brightpath/internal/storage"
)

var _ persistence.Store = (*Store)(nil)

// countingStorage records writes so tests can assert that a call did not persist.
type countingStorage struct {
	*storage.Memory
	writes int
}

func (c *countingStorage) SetItem(ctx context.Context, key, value string) error {
	c.writes++
	return c.Memory.SetItem(ctx, key, value)
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func newTestStore() (*Store, *countingStorage, *clock) {
	backing := &countingStorage{Memory: storage.NewMemory()}
	c := &clock{t: time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)}
	n := 0
	s := NewStore(backing, Config{
		Now:   c.now,
		NewID: func() string { n++; return fmt.Sprintf("id-%d", n) },
	})
	return s, backing, c
}

var techCorp = models.ApplicationInput{
	Company:         "TechCorp",
	Position:        "Dev",
	ApplicationDate: "2024-01-15",
	Status:          models.StatusPending,
}

func TestStore_EmptyLoad(t *testing.T) {
	s, _, _ := newTestStore()
	ctx := context.Background()

	apps, err := s.Load(ctx)
	require.NoError(t, err)
	assert.NotNil(t, apps)
	assert.Empty(t, apps)

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Stats{}, st)
}

func TestStore_CorruptDataIsEmpty(t *testing.T) {
	for _, raw := range []string{"{not json", `{"id":"1"}`, `"text"`, `null`} {
		t.Run(raw, func(t *testing.T) {
			s, backing, _ := newTestStore()
			require.NoError(t, backing.Memory.SetItem(context.Background(), DefaultKey, raw))

			apps, err := s.Load(context.Background())
			require.NoError(t, err)
			assert.Empty(t, apps)
		})
	}
}

func TestStore_UnknownStatusIsDropped(t *testing.T) {
	s, backing, _ := newTestStore()
	ctx := context.Background()
	raw := `[{"id":"1","company":"A","position":"Dev","applicationDate":"2024-01-15","status":"pending"},` +
		`{"id":"2","company":"B","position":"Dev","applicationDate":"2024-01-15","status":"ghosted"},` +
		`{"id":"3","company":"C","position":"Dev","applicationDate":"2024-01-15"}]`
	require.NoError(t, backing.Memory.SetItem(ctx, DefaultKey, raw))

	apps, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, "1", apps[0].ID)

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Stats{Total: 1, Pending: 1}, st)
	assert.Equal(t, st.Total, st.Pending+st.Interview+st.Rejected+st.Accepted)
}

func TestStore_AddThenStats(t *testing.T) {
	s, _, _ := newTestStore()
	ctx := context.Background()

	app, err := s.Add(ctx, techCorp)
	require.NoError(t, err)
	assert.NotEmpty(t, app.ID)
	assert.Equal(t, models.StatusPending, app.Status)
	assert.False(t, app.CreatedAt.IsZero())
	assert.Equal(t, app.CreatedAt, app.UpdatedAt)

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, st.Total)
	assert.Equal(t, 1, st.Pending)
}

func TestStore_AddDefaultsStatusAndRejectsUnknown(t *testing.T) {
	s, _, _ := newTestStore()
	ctx := context.Background()

	in := techCorp
	in.Status = ""
	app, err := s.Add(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, app.Status)

	in.Status = "ghosted"
	_, err = s.Add(ctx, in)
	assert.True(t, errors.IsValidation(err))
}

func TestStore_CreateThenGet(t *testing.T) {
	s, _, _ := newTestStore()
	ctx := context.Background()

	in := techCorp
	in.Location = "Paris"
	in.Notes = "referral"
	created, err := s.Add(ctx, in)
	require.NoError(t, err)

	got, err := s.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, in.NewApplication(created.ID, created.CreatedAt), *got)
	assert.Equal(t, got.CreatedAt, got.UpdatedAt)
}

func TestStore_GetUnknown(t *testing.T) {
	s, _, _ := newTestStore()
	got, err := s.GetByID(context.Background(), "missing")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_UpdateStatus(t *testing.T) {
	s, _, _ := newTestStore()
	ctx := context.Background()

	in := techCorp
	in.Notes = "keep me"
	created, err := s.Add(ctx, in)
	require.NoError(t, err)

	updated, err := s.Update(ctx, created.ID, models.StatusPatch(models.StatusInterview))
	require.NoError(t, err)
	require.NotNil(t, updated)

	assert.Equal(t, models.StatusInterview, updated.Status)
	assert.Equal(t, "TechCorp", updated.Company)
	assert.Equal(t, "keep me", updated.Notes)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, st.Pending)
	assert.Equal(t, 1, st.Interview)
}

func TestStore_UpdateNeverMovesBackwards(t *testing.T) {
	s, _, c := newTestStore()
	ctx := context.Background()

	created, err := s.Add(ctx, techCorp)
	require.NoError(t, err)

	c.t = c.t.Add(-time.Hour)
	updated, err := s.Update(ctx, created.ID, models.StatusPatch(models.StatusRejected))
	require.NoError(t, err)
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))
}

func TestStore_UpdateUnknown(t *testing.T) {
	s, backing, _ := newTestStore()
	ctx := context.Background()
	_, err := s.Add(ctx, techCorp)
	require.NoError(t, err)
	writes := backing.writes

	got, err := s.Update(ctx, "missing", models.StatusPatch(models.StatusAccepted))
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, writes, backing.writes)
}

func TestStore_Delete(t *testing.T) {
	s, backing, _ := newTestStore()
	ctx := context.Background()

	first, err := s.Add(ctx, techCorp)
	require.NoError(t, err)
	_, err = s.Add(ctx, models.ApplicationInput{Company: "StartupXYZ", Position: "Lead", ApplicationDate: "2024-01-10"})
	require.NoError(t, err)

	t.Run("unknown id keeps the collection", func(t *testing.T) {
		writes := backing.writes
		ok, err := s.Delete(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, writes, backing.writes)

		apps, _ := s.Load(ctx)
		assert.Len(t, apps, 2)
	})

	t.Run("second delete reports false", func(t *testing.T) {
		ok, err := s.Delete(ctx, first.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		before, _ := s.Load(ctx)
		writes := backing.writes
		ok, err = s.Delete(ctx, first.ID)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, writes, backing.writes)

		after, _ := s.Load(ctx)
		assert.Equal(t, before, after)

		got, _ := s.GetByID(ctx, first.ID)
		assert.Nil(t, got)
	})
}

func TestStore_RoundTrip(t *testing.T) {
	s, _, _ := newTestStore()
	ctx := context.Background()

	ts := time.Date(2024, 1, 12, 16, 45, 0, 123456789, time.UTC)
	collections := [][]models.Application{
		{},
		{{ID: "1", Company: "TechCorp", Position: "Dev", ApplicationDate: "2024-01-15", Status: models.StatusPending, CreatedAt: ts, UpdatedAt: ts}},
		{
			{ID: "a", Company: "A", Position: "P", ApplicationDate: "2024-01-01", Status: models.StatusAccepted, Salary: "60k", CreatedAt: ts, UpdatedAt: ts.Add(time.Hour)},
			{ID: "b", Company: "B", Position: "Q", ApplicationDate: "2024-01-02", Status: models.StatusRejected, ContactEmail: "x@y.z", CreatedAt: ts, UpdatedAt: ts},
		},
	}

	for i, x := range collections {
		t.Run(fmt.Sprintf("collection %d", i), func(t *testing.T) {
			require.NoError(t, s.Save(ctx, x))
			got, err := s.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, x, got)
		})
	}
}
