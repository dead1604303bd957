package lifecycle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justsurfingit/brightpath/internal/errors"
	"github.com/justsurfingit/brightpath/internal/models"
	"github.com/justsurfingit/brightpath/internal/persistence"
	"github.com/justsurfingit/brightpath/internal/persistence/local"
	"github.com/justsurfingit/brightpath/internal/storage"
)

// faultyStore wraps a real store and injects failures or blocking on demand.
type faultyStore struct {
	persistence.Store
	loadErr    error
	addErr     error
	addStarted chan struct{}
	addRelease chan struct{}
}

func (f *faultyStore) Load(ctx context.Context) ([]models.Application, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.Store.Load(ctx)
}

func (f *faultyStore) Add(ctx context.Context, in models.ApplicationInput) (*models.Application, error) {
	if f.addStarted != nil {
		close(f.addStarted)
		<-f.addRelease
	}
	if f.addErr != nil {
		return nil, f.addErr
	}
	return f.Store.Add(ctx, in)
}

func newLocal() *local.Store {
	return local.NewStore(storage.NewMemory(), local.Config{})
}

func always(answer bool) ConfirmFunc {
	return func(context.Context, models.Application) (bool, error) { return answer, nil }
}

func input(company string) models.ApplicationInput {
	return models.ApplicationInput{
		Company:         company,
		Position:        "Dev",
		ApplicationDate: "2024-01-15",
		Status:          models.StatusPending,
	}
}

func createOne(t *testing.T, c *Controller, company string) *models.Application {
	t.Helper()
	require.NoError(t, c.OpenCreate())
	app, err := c.Create(context.Background(), input(company))
	require.NoError(t, err)
	return app
}

func TestLoadEmpty(t *testing.T) {
	c := New(newLocal(), nil, nil)
	require.NoError(t, c.Load(context.Background()))

	v := c.View()
	assert.Equal(t, ModeList, v.Mode)
	assert.Empty(t, v.Applications)
	assert.Equal(t, models.Stats{}, v.Stats)
	assert.Nil(t, v.Selected)
	assert.Empty(t, v.Error)
}

func TestCreateReloadsAndReturnsToList(t *testing.T) {
	c := New(newLocal(), nil, nil)

	require.NoError(t, c.OpenCreate())
	assert.Equal(t, ModeCreate, c.View().Mode)

	app, err := c.Create(context.Background(), input("TechCorp"))
	require.NoError(t, err)
	assert.NotEmpty(t, app.ID)

	v := c.View()
	assert.Equal(t, ModeList, v.Mode)
	require.Len(t, v.Applications, 1)
	assert.Equal(t, "TechCorp", v.Applications[0].Company)
	assert.Equal(t, models.Stats{Total: 1, Pending: 1}, v.Stats)
}

func TestCreateInvalidKeepsFormOpen(t *testing.T) {
	store := newLocal()
	c := New(store, nil, nil)
	require.NoError(t, c.OpenCreate())

	in := input("")
	_, err := c.Create(context.Background(), in)
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))

	v := c.View()
	assert.Equal(t, ModeCreate, v.Mode)
	assert.Equal(t, "company is required", v.Error)

	apps, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, apps)
}

func TestCreateStoreFailureKeepsState(t *testing.T) {
	store := &faultyStore{Store: newLocal()}
	c := New(store, nil, nil)
	createOne(t, c, "First")

	store.addErr = errors.WithSecondaryError(errors.ErrConnectivity, errors.New("dial tcp"))
	require.NoError(t, c.OpenCreate())
	_, err := c.Create(context.Background(), input("Second"))
	require.Error(t, err)

	v := c.View()
	assert.Equal(t, ModeCreate, v.Mode)
	assert.Equal(t, errors.MsgUnreachable, v.Error)
	require.Len(t, v.Applications, 1)
	assert.Equal(t, "First", v.Applications[0].Company)
	assert.False(t, v.Busy)
}

func TestLoadFailureKeepsPreviousCollection(t *testing.T) {
	store := &faultyStore{Store: newLocal()}
	c := New(store, nil, nil)
	createOne(t, c, "TechCorp")

	store.loadErr = &errors.ServerError{Status: 500, Message: "database unavailable"}
	err := c.Load(context.Background())
	require.Error(t, err)

	v := c.View()
	assert.Len(t, v.Applications, 1)
	assert.Equal(t, "database unavailable", v.Error)

	store.loadErr = nil
	require.NoError(t, c.Load(context.Background()))
	assert.Empty(t, c.View().Error)
}

func TestUpdateFromDetail(t *testing.T) {
	c := New(newLocal(), nil, nil)
	app := createOne(t, c, "TechCorp")
	ctx := context.Background()

	shown, err := c.OpenDetail(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, "TechCorp", shown.Company)
	v := c.View()
	assert.Equal(t, ModeDetail, v.Mode)
	require.NotNil(t, v.Selected)
	assert.Equal(t, app.ID, v.Selected.ID)

	_, err = c.OpenEdit(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, ModeEdit, c.View().Mode)

	updated, err := c.Update(ctx, app.ID, models.StatusPatch(models.StatusInterview))
	require.NoError(t, err)
	assert.Equal(t, models.StatusInterview, updated.Status)
	assert.Equal(t, "TechCorp", updated.Company)

	v = c.View()
	assert.Equal(t, ModeList, v.Mode)
	assert.Nil(t, v.Selected)
	assert.Equal(t, models.Stats{Total: 1, Interview: 1}, v.Stats)
}

func TestUpdateUnknownKeepsFormOpen(t *testing.T) {
	store := newLocal()
	c := New(store, nil, nil)
	app := createOne(t, c, "TechCorp")
	ctx := context.Background()

	_, err := c.OpenEdit(ctx, app.ID)
	require.NoError(t, err)
	_, err = store.Delete(ctx, app.ID)
	require.NoError(t, err)

	_, err = c.Update(ctx, app.ID, models.StatusPatch(models.StatusRejected))
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
	assert.Equal(t, ModeEdit, c.View().Mode)
	assert.Contains(t, c.View().Error, "not found")
}

func TestUpdateInvalidPatch(t *testing.T) {
	c := New(newLocal(), nil, nil)
	app := createOne(t, c, "TechCorp")
	ctx := context.Background()

	_, err := c.OpenEdit(ctx, app.ID)
	require.NoError(t, err)
	bad := models.Status("hired")
	_, err = c.Update(ctx, app.ID, models.ApplicationPatch{Status: &bad})
	assert.True(t, errors.IsValidation(err))
	assert.Equal(t, ModeEdit, c.View().Mode)
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	ctx := context.Background()

	t.Run("declined", func(t *testing.T) {
		c := New(newLocal(), always(false), nil)
		app := createOne(t, c, "TechCorp")
		deleted, err := c.Delete(ctx, app.ID)
		require.NoError(t, err)
		assert.False(t, deleted)
		assert.Len(t, c.View().Applications, 1)
	})

	t.Run("no confirmer", func(t *testing.T) {
		c := New(newLocal(), nil, nil)
		app := createOne(t, c, "TechCorp")
		deleted, err := c.Delete(ctx, app.ID)
		require.NoError(t, err)
		assert.False(t, deleted)
		assert.Len(t, c.View().Applications, 1)
	})

	t.Run("confirmer sees the record", func(t *testing.T) {
		var seen models.Application
		c := New(newLocal(), ConfirmFunc(func(_ context.Context, app models.Application) (bool, error) {
			seen = app
			return true, nil
		}), nil)
		app := createOne(t, c, "TechCorp")
		deleted, err := c.Delete(ctx, app.ID)
		require.NoError(t, err)
		assert.True(t, deleted)
		assert.Equal(t, "TechCorp", seen.Company)
		assert.Empty(t, c.View().Applications)
	})
}

func TestDeleteFromDetailClearsSelection(t *testing.T) {
	c := New(newLocal(), always(true), nil)
	keep := createOne(t, c, "Keep")
	gone := createOne(t, c, "Gone")
	ctx := context.Background()

	_, err := c.OpenDetail(ctx, gone.ID)
	require.NoError(t, err)

	deleted, err := c.Delete(ctx, gone.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	v := c.View()
	assert.Equal(t, ModeList, v.Mode)
	assert.Nil(t, v.Selected)
	require.Len(t, v.Applications, 1)
	assert.Equal(t, keep.ID, v.Applications[0].ID)
}

func TestDeleteUnknownReportsFalse(t *testing.T) {
	c := New(newLocal(), always(true), nil)
	createOne(t, c, "A")
	createOne(t, c, "B")

	deleted, err := c.Delete(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Len(t, c.View().Applications, 2)
}

func TestMutationsAreSerialized(t *testing.T) {
	store := &faultyStore{
		Store:      newLocal(),
		addStarted: make(chan struct{}),
		addRelease: make(chan struct{}),
	}
	c := New(store, nil, nil)
	require.NoError(t, c.OpenCreate())
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := c.Create(ctx, input("Slow"))
		done <- err
	}()

	select {
	case <-store.addStarted:
	case <-time.After(2 * time.Second):
		t.Fatal("create never reached the store")
	}
	assert.True(t, c.View().Busy)

	_, err := c.Create(ctx, input("Duplicate"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrBusy))

	close(store.addRelease)
	require.NoError(t, <-done)

	v := c.View()
	assert.False(t, v.Busy)
	require.Len(t, v.Applications, 1)
	assert.Equal(t, "Slow", v.Applications[0].Company)
}

func TestInvalidTransitions(t *testing.T) {
	c := New(newLocal(), always(true), nil)
	app := createOne(t, c, "TechCorp")
	ctx := context.Background()

	_, err := c.Update(ctx, app.ID, models.StatusPatch(models.StatusAccepted))
	assert.True(t, errors.Is(err, ErrInvalidTransition))

	_, err = c.Create(ctx, input("X"))
	assert.True(t, errors.Is(err, ErrInvalidTransition))

	require.NoError(t, c.OpenCreate())
	assert.True(t, errors.Is(c.OpenCreate(), ErrInvalidTransition))
	_, err = c.Delete(ctx, app.ID)
	assert.True(t, errors.Is(err, ErrInvalidTransition))

	c.Cancel()
	assert.Equal(t, ModeList, c.View().Mode)

	_, err = c.OpenDetail(ctx, "missing")
	assert.True(t, errors.IsNotFound(err))
	assert.Equal(t, ModeList, c.View().Mode)
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "list", ModeList.String())
	assert.Equal(t, "create-form", ModeCreate.String())
	assert.Equal(t, "edit-form", ModeEdit.String())
	assert.Equal(t, "detail-view", ModeDetail.String())
}
