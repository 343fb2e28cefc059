// Package form implements the transaction dialog: seeding the view model from a record,
// validating edits and turning them back into a record for the submission handler.
//
// Every Controller method must run on the event loop that owns the controller.
package form

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/diewo77/marina-admin/internal/eventloop"
	"github.com/diewo77/marina-admin/internal/models"
	"github.com/diewo77/marina-admin/validation"
)

var (
	ErrClosed     = errors.New("form: dialog is closed")
	ErrSubmitting = errors.New("form: submission in progress")
)

// ValidationError carries the field violations that blocked a submit.
type ValidationError struct {
	Violations validation.Violations
}

func (e *ValidationError) Error() string {
	return "form: invalid fields: " + strings.Join(e.Violations.Fields(), ", ")
}

type Mode int

const (
	ModeCreate Mode = iota + 1
	ModeEdit
)

func (m Mode) String() string {
	switch m {
	case ModeCreate:
		return "create"
	case ModeEdit:
		return "edit"
	}
	return "none"
}

type Phase int

const (
	Closed Phase = iota
	Open
	Submitting
)

func (p Phase) String() string {
	switch p {
	case Open:
		return "open"
	case Submitting:
		return "submitting"
	}
	return "closed"
}

// Handler persists a submitted record. It runs off the loop.
type Handler func(ctx context.Context, mode Mode, record models.Transaction) error

// Controller owns the dialog state: Closed, Open{mode, seed} or Submitting.
type Controller struct {
	loop    *eventloop.Loop
	clients ClientLookup
	handler Handler
	logger  *slog.Logger

	phase      Phase
	mode       Mode
	seed       *models.Transaction
	values     Values
	violations validation.Violations
}

func New(loop *eventloop.Loop, clients ClientLookup, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{loop: loop, clients: clients, logger: logger}
}

// SetHandler sets the function that receives submitted records.
func (c *Controller) SetHandler(h Handler) { c.handler = h }

// OpenCreate opens the dialog with an empty view model.
func (c *Controller) OpenCreate() error {
	return c.open(ModeCreate, nil)
}

// OpenEdit opens the dialog seeded with record.
func (c *Controller) OpenEdit(record models.Transaction) error {
	return c.open(ModeEdit, &record)
}

func (c *Controller) open(mode Mode, seed *models.Transaction) error {
	if c.phase == Submitting {
		return ErrSubmitting
	}
	c.phase = Open
	c.mode = mode
	c.seed = seed
	c.violations = nil
	if seed != nil {
		c.values = Seed(*seed)
	} else {
		c.values = Values{}
	}
	return nil
}

// Cancel closes an open dialog and discards its edits.
func (c *Controller) Cancel() error {
	switch c.phase {
	case Submitting:
		return ErrSubmitting
	case Open:
		c.reset()
	}
	return nil
}

func (c *Controller) reset() {
	c.phase = Closed
	c.mode = 0
	c.seed = nil
	c.values = Values{}
	c.violations = nil
}

// Submit validates vm and, when valid, hands the merged record to the handler.
// The returned channel receives the handler's result once the dialog has settled:
// nil after Closed, the handler error after reopening with the edits kept.
func (c *Controller) Submit(ctx context.Context, vm Values) (<-chan error, error) {
	switch c.phase {
	case Closed:
		return nil, ErrClosed
	case Submitting:
		return nil, ErrSubmitting
	}

	c.values = vm
	c.violations = vm.Validate()
	if !c.violations.Empty() {
		return nil, &ValidationError{Violations: c.violations}
	}
	if c.handler == nil {
		return nil, errors.New("form: no submission handler")
	}

	base := models.Transaction{}
	if c.seed != nil {
		base = *c.seed
	}
	record := Build(base, vm, c.clients)
	mode := c.mode
	c.phase = Submitting

	result := make(chan error, 1)
	detached := context.WithoutCancel(ctx)
	eventloop.Await(c.loop,
		func() (struct{}, error) {
			return struct{}{}, c.handler(detached, mode, record)
		},
		func(_ struct{}, err error) {
			if err != nil {
				c.logger.Warn("transaction submit failed", "mode", mode.String(), "error", err)
				c.phase = Open
			} else {
				c.reset()
			}
			result <- err
		},
	)
	return result, nil
}

// View is a render-ready copy of the dialog state.
type View struct {
	Phase      Phase
	Mode       Mode
	RecordID   int64
	Values     Values
	Violations validation.Violations
	// Lines is a read-only projection of the seed's line items.
	Lines []models.Article
}

func (v View) IsOpen() bool { return v.Phase != Closed }

func (v View) Submitting() bool { return v.Phase == Submitting }

func (c *Controller) Snapshot() View {
	v := View{
		Phase:      c.phase,
		Mode:       c.mode,
		Values:     c.values,
		Violations: validation.Violations{},
	}
	v.Violations.Merge(c.violations)
	if c.seed != nil {
		v.RecordID = c.seed.ID
		v.Lines = append([]models.Article(nil), c.seed.Articles...)
	}
	return v
}
