// Package lifecycle drives the application list, forms and detail view.
//
// The Controller owns the collection as last loaded, the selected record and
// the active mode. Every mutation goes through the configured
// persistence.Store and is followed by a full reload, so derived statistics
// always describe what the store holds. Failures never escape as raw
// errors to the user: each one is kept as a user-facing message (see
// errors.UserMessage) and returned to the caller for flow control.
package lifecycle

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/justsurfingit/brightpath/internal/errors"
	"github.com/justsurfingit/brightpath/internal/logger"
	"github.com/justsurfingit/brightpath/internal/models"
	"github.com/justsurfingit/brightpath/internal/persistence"
	"github.com/justsurfingit/brightpath/internal/stats"
)

// Mode is the active screen.
type Mode int

const (
	ModeList Mode = iota
	ModeCreate
	ModeEdit
	ModeDetail
)

func (m Mode) String() string {
	switch m {
	case ModeList:
		return "list"
	case ModeCreate:
		return "create-form"
	case ModeEdit:
		return "edit-form"
	case ModeDetail:
		return "detail-view"
	}
	return "unknown"
}

// ErrInvalidTransition is returned when an action is not available in the current mode.
var ErrInvalidTransition = errors.New("action not available in the current mode")

// Confirmer asks the user to confirm a deletion.
type Confirmer interface {
	ConfirmDelete(ctx context.Context, app models.Application) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, app models.Application) (bool, error)

func (f ConfirmFunc) ConfirmDelete(ctx context.Context, app models.Application) (bool, error) {
	return f(ctx, app)
}

// View is a snapshot of the controller state.
type View struct {
	Mode         Mode
	Applications []models.Application
	Stats        models.Stats
	Selected     *models.Application
	Busy         bool
	Error        string
}

// Controller is safe for concurrent use. At most one mutation is in flight at a time.
type Controller struct {
	store   persistence.Store
	confirm Confirmer
	logger  *zap.SugaredLogger

	mu         sync.Mutex
	apps       []models.Application
	mode       Mode
	selectedID string
	busy       bool
	lastErr    string
}

// New returns a controller in list mode with an empty collection.
// A nil confirmer refuses every deletion.
func New(store persistence.Store, confirm Confirmer, l *zap.SugaredLogger) *Controller {
	return &Controller{
		store:   store,
		confirm: confirm,
		logger:  logger.OrNop(l),
		apps:    []models.Application{},
		mode:    ModeList,
	}
}

// View returns a snapshot of the current state.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	apps := make([]models.Application, len(c.apps))
	copy(apps, c.apps)
	v := View{
		Mode:         c.mode,
		Applications: apps,
		Stats:        stats.Calculate(apps),
		Busy:         c.busy,
		Error:        c.lastErr,
	}
	if app, ok := find(apps, c.selectedID); ok {
		v.Selected = &app
	}
	return v
}

// Load replaces the collection with the store's. On failure the previous collection is kept.
func (c *Controller) Load(ctx context.Context) error {
	apps, err := c.store.Load(ctx)
	if err != nil {
		c.fail("load", err)
		return err
	}
	if apps == nil {
		apps = []models.Application{}
	}

	c.mu.Lock()
	c.apps = apps
	c.lastErr = ""
	c.mu.Unlock()
	c.logger.Debugw("Applications loaded", "count", len(apps))
	return nil
}

// OpenCreate shows the empty form.
func (c *Controller) OpenCreate() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode != ModeList {
		return ErrInvalidTransition
	}
	c.mode = ModeCreate
	c.selectedID = ""
	c.lastErr = ""
	return nil
}

// OpenDetail selects id and shows its record.
func (c *Controller) OpenDetail(ctx context.Context, id string) (*models.Application, error) {
	if err := c.requireMode(ModeList); err != nil {
		return nil, err
	}
	app, err := c.resolve(ctx, id)
	if err != nil {
		c.fail("open detail", err)
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = ModeDetail
	c.selectedID = id
	c.lastErr = ""
	return app, nil
}

// OpenEdit selects id and shows the filled-in form, from the list or from its detail view.
func (c *Controller) OpenEdit(ctx context.Context, id string) (*models.Application, error) {
	if err := c.requireMode(ModeList, ModeDetail); err != nil {
		return nil, err
	}
	app, err := c.resolve(ctx, id)
	if err != nil {
		c.fail("open edit", err)
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = ModeEdit
	c.selectedID = id
	c.lastErr = ""
	return app, nil
}

// Cancel closes any form or detail view and returns to the list.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = ModeList
	c.selectedID = ""
	c.lastErr = ""
}

// Create submits the create form. On failure the form stays open.
func (c *Controller) Create(ctx context.Context, in models.ApplicationInput) (*models.Application, error) {
	if err := c.requireMode(ModeCreate); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		c.fail("create", err)
		return nil, err
	}
	if err := c.begin(); err != nil {
		return nil, err
	}
	defer c.end()

	app, err := c.store.Add(ctx, in)
	if err != nil {
		c.fail("create", err)
		return nil, err
	}
	c.logger.Infow("Application created", "id", app.ID, "company", app.Company)

	c.toList()
	c.reload(ctx)
	return app, nil
}

// Update submits the edit form for the selected record. On failure the form stays open.
func (c *Controller) Update(ctx context.Context, id string, patch models.ApplicationPatch) (*models.Application, error) {
	if err := c.requireMode(ModeEdit); err != nil {
		return nil, err
	}
	if err := patch.Validate(); err != nil {
		c.fail("update", err)
		return nil, err
	}
	if err := c.begin(); err != nil {
		return nil, err
	}
	defer c.end()

	app, err := c.store.Update(ctx, id, patch)
	if err == nil && app == nil {
		err = notFound(id)
	}
	if err != nil {
		c.fail("update", err)
		return nil, err
	}
	c.logger.Infow("Application updated", "id", app.ID, "status", app.Status)

	c.toList()
	c.reload(ctx)
	return app, nil
}

// Delete removes id after the user confirms, from the list or the detail view.
// It reports false without touching the store when the user declines.
func (c *Controller) Delete(ctx context.Context, id string) (bool, error) {
	if err := c.requireMode(ModeList, ModeDetail); err != nil {
		return false, err
	}
	if err := c.begin(); err != nil {
		return false, err
	}
	defer c.end()

	c.mu.Lock()
	target, ok := find(c.apps, id)
	c.mu.Unlock()
	if !ok {
		target = models.Application{ID: id}
	}

	confirmed := false
	if c.confirm != nil {
		var err error
		confirmed, err = c.confirm.ConfirmDelete(ctx, target)
		if err != nil {
			c.fail("delete", err)
			return false, err
		}
	}
	if !confirmed {
		return false, nil
	}

	deleted, err := c.store.Delete(ctx, id)
	if err != nil {
		c.fail("delete", err)
		return false, err
	}
	c.logger.Infow("Application deleted", "id", id, "deleted", deleted)

	c.mu.Lock()
	if c.selectedID == id {
		c.selectedID = ""
	}
	c.mode = ModeList
	c.mu.Unlock()

	c.reload(ctx)
	return deleted, nil
}

func (c *Controller) requireMode(modes ...Mode) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, m := range modes {
		if c.mode == m {
			return nil
		}
	}
	return errors.Wrapf(ErrInvalidTransition, "in %s", c.mode)
}

// resolve finds id in the loaded collection, falling back to the store.
func (c *Controller) resolve(ctx context.Context, id string) (*models.Application, error) {
	c.mu.Lock()
	app, ok := find(c.apps, id)
	c.mu.Unlock()
	if ok {
		return &app, nil
	}

	fetched, err := c.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if fetched == nil {
		return nil, notFound(id)
	}
	return fetched, nil
}

func (c *Controller) begin() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return errors.ErrBusy
	}
	c.busy = true
	return nil
}

func (c *Controller) end() {
	c.mu.Lock()
	c.busy = false
	c.mu.Unlock()
}

func (c *Controller) toList() {
	c.mu.Lock()
	c.mode = ModeList
	c.selectedID = ""
	c.lastErr = ""
	c.mu.Unlock()
}

// reload refreshes the collection after a successful mutation.
// A failure leaves the message in the view; the mutation itself stands.
func (c *Controller) reload(ctx context.Context) {
	if err := c.Load(ctx); err != nil {
		c.logger.Warnw("Reload after mutation failed", "error", err)
	}
}

func (c *Controller) fail(action string, err error) {
	msg := errors.UserMessage(err)
	c.logger.Warnw("Action failed", "action", action, "error", err)
	c.mu.Lock()
	c.lastErr = msg
	c.mu.Unlock()
}

func find(apps []models.Application, id string) (models.Application, bool) {
	if id == "" {
		return models.Application{}, false
	}
	for _, a := range apps {
		if a.ID == id {
			return a, true
		}
	}
	return models.Application{}, false
}

func notFound(id string) error {
	return errors.Mark(errors.Newf("application %s not found", id), errors.ErrNotFound)
}
