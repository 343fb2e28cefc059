// Package listing owns the displayed transaction collection and dispatches the
// list actions: load, reload, delete, edit and create.
//
// Load, Snapshot, Find, Edit and Create must run on the controller's event loop.
// Reload, Delete and Persist may be called from any goroutine.
package listing

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/diewo77/marina-admin/internal/eventloop"
	"github.com/diewo77/marina-admin/internal/form"
	"github.com/diewo77/marina-admin/internal/gateway"
	"github.com/diewo77/marina-admin/internal/models"
	"github.com/diewo77/marina-admin/internal/notify"
)

// Notification codes emitted by the controller.
const (
	NoteLoadFailed   = "transactions_load_failed"
	NoteCreated      = "transaction_created"
	NoteUpdated      = "transaction_updated"
	NoteSaveFailed   = "transaction_save_failed"
	NoteDeleted      = "transaction_deleted"
	NoteDeleteFailed = "transaction_delete_failed"
)

// Store is the persistence the controller talks to.
type Store interface {
	List(ctx context.Context) ([]models.Transaction, error)
	Create(ctx context.Context, tx models.Transaction) (models.Transaction, error)
	Update(ctx context.Context, id int64, tx models.Transaction) (models.Transaction, error)
	Remove(ctx context.Context, id int64) error
}

// Dialog is the form the controller opens for edit and create.
type Dialog interface {
	OpenCreate() error
	OpenEdit(record models.Transaction) error
}

type Controller struct {
	loop   *eventloop.Loop
	store  Store
	dialog Dialog
	notes  *notify.Center
	logger *slog.Logger

	rows    []models.Transaction
	loading bool
	loaded  bool
	gen     uint64
}

func New(loop *eventloop.Loop, store Store, dialog Dialog, notes *notify.Center, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	if notes == nil {
		notes = notify.New()
	}
	return &Controller{loop: loop, store: store, dialog: dialog, notes: notes, logger: logger}
}

// Load fetches the collection. Only the most recently issued load may replace the rows;
// a failed load keeps the previous rows and emits an error notification.
func (c *Controller) Load(ctx context.Context) {
	c.gen++
	gen := c.gen
	c.loading = true
	detached := context.WithoutCancel(ctx)

	eventloop.Await(c.loop,
		func() ([]models.Transaction, error) { return c.store.List(detached) },
		func(rows []models.Transaction, err error) {
			if gen != c.gen {
				c.logger.Debug("discarding stale transaction list", "generation", gen, "current", c.gen)
				return
			}
			c.loading = false
			if err != nil {
				c.logger.Error("loading transactions", "error", err)
				c.notes.Error(NoteLoadFailed, err.Error())
				return
			}
			c.rows = rows
			c.loaded = true
		},
	)
}

// Reload schedules a fresh Load on the loop.
func (c *Controller) Reload(ctx context.Context) {
	c.loop.Post(func() { c.Load(ctx) })
}

// Delete removes the transaction with the given id. Success triggers a reload; failure
// leaves the rows untouched. The channel receives the outcome once it has been applied.
func (c *Controller) Delete(ctx context.Context, id int64) <-chan error {
	result := make(chan error, 1)
	detached := context.WithoutCancel(ctx)
	eventloop.Await(c.loop,
		func() (struct{}, error) { return struct{}{}, c.store.Remove(detached, id) },
		func(_ struct{}, err error) {
			if err != nil {
				c.logger.Error("deleting transaction", "id", id, "error", err)
				c.notes.Error(NoteDeleteFailed, err.Error())
			} else {
				c.logger.Info("transaction deleted", "id", id)
				c.notes.Success(NoteDeleted)
				c.Reload(detached)
			}
			result <- err
		},
	)
	return result
}

// Edit opens the dialog seeded with record.
func (c *Controller) Edit(record models.Transaction) error {
	return c.dialog.OpenEdit(record)
}

// Create opens the dialog with an empty view model.
func (c *Controller) Create() error {
	return c.dialog.OpenCreate()
}

// Persist is the dialog's submission handler. It runs off the loop.
func (c *Controller) Persist(ctx context.Context, mode form.Mode, record models.Transaction) error {
	var err error
	switch mode {
	case form.ModeEdit:
		var saved models.Transaction
		saved, err = c.store.Update(ctx, record.ID, record)
		if err == nil {
			c.logger.Info("transaction updated", "id", saved.ID)
			c.notes.Success(NoteUpdated)
		}
	default:
		var saved models.Transaction
		saved, err = c.store.Create(ctx, record)
		if err == nil {
			c.logger.Info("transaction created", "id", saved.ID)
			c.notes.Success(NoteCreated)
		}
	}
	if err != nil {
		if gateway.IsStatus(err, http.StatusBadRequest) {
			c.logger.Warn("transaction rejected by store", "mode", mode.String(), "id", record.ID, "error", err)
		} else {
			c.logger.Error("saving transaction", "mode", mode.String(), "id", record.ID, "error", err)
		}
		c.notes.Error(NoteSaveFailed, err.Error())
		return err
	}
	c.Reload(ctx)
	return nil
}

// View is a render-ready copy of the list state.
type View struct {
	Rows       []models.Transaction
	Loading    bool
	Loaded     bool
	Generation uint64
}

func (c *Controller) Snapshot() View {
	return View{
		Rows:       append([]models.Transaction(nil), c.rows...),
		Loading:    c.loading,
		Loaded:     c.loaded,
		Generation: c.gen,
	}
}

// Find returns the displayed transaction with the given id.
func (c *Controller) Find(id int64) (models.Transaction, bool) {
	for _, tx := range c.rows {
		if tx.ID == id {
			return tx, true
		}
	}
	return models.Transaction{}, false
}
