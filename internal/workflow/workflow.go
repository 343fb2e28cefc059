// Package workflow assembles the transaction screens: the client reference cache,
// the list controller and the form dialog, all owned by one event loop.
package workflow

import (
	"context"
	"log/slog"

	"github.com/diewo77/marina-admin/internal/eventloop"
	"github.com/diewo77/marina-admin/internal/form"
	"github.com/diewo77/marina-admin/internal/listing"
	"github.com/diewo77/marina-admin/internal/notify"
	"github.com/diewo77/marina-admin/internal/refcache"
)

// Source is the remote store as seen by the workflow.
type Source interface {
	listing.Store
	refcache.Source
}

// Workspace is a mounted workflow.
type Workspace struct {
	Loop    *eventloop.Loop
	Clients *refcache.Cache
	Form    *form.Controller
	List    *listing.Controller
	Notes   *notify.Center
}

// Mount loads the client cache once, wires the list and the dialog together and
// schedules the first list load on loop.
func Mount(ctx context.Context, loop *eventloop.Loop, src Source, logger *slog.Logger) *Workspace {
	if logger == nil {
		logger = slog.Default()
	}
	clients := refcache.Load(ctx, src, logger)
	logger.Info("client reference cache loaded", "clients", clients.Len())

	notes := notify.New()
	dialog := form.New(loop, clients, logger)
	list := listing.New(loop, src, dialog, notes, logger)
	dialog.SetHandler(list.Persist)

	list.Reload(ctx)

	return &Workspace{
		Loop:    loop,
		Clients: clients,
		Form:    dialog,
		List:    list,
		Notes:   notes,
	}
}
