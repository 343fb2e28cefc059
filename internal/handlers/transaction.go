package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/diewo77/marina-admin/i18n"
	"github.com/diewo77/marina-admin/internal/eventloop"
	"github.com/diewo77/marina-admin/internal/form"
	"github.com/diewo77/marina-admin/internal/listing"
	"github.com/diewo77/marina-admin/internal/models"
	"github.com/diewo77/marina-admin/internal/notify"
	"github.com/diewo77/marina-admin/internal/workflow"
	"github.com/diewo77/marina-admin/view"
)

const listPath = "/transactions"

type TransactionHandler struct {
	ws       *workflow.Workspace
	pageSize int
	logger   *slog.Logger
}

func NewTransactionHandler(ws *workflow.Workspace, pageSize int, logger *slog.Logger) *TransactionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TransactionHandler{ws: ws, pageSize: pageSize, logger: logger}
}

// Register mounts the transaction screens on mux.
func (h *TransactionHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /transactions", h.List)
	mux.HandleFunc("POST /transactions/reload", h.Reload)
	mux.HandleFunc("GET /transactions/new", h.New)
	mux.HandleFunc("GET /transactions/{id}/edit", h.Edit)
	mux.HandleFunc("POST /transactions/form", h.Submit)
	mux.HandleFunc("POST /transactions/form/cancel", h.Cancel)
	mux.HandleFunc("POST /transactions/{id}/delete", h.Delete)
}

type notice struct {
	Level   notify.Level
	Message string
	Detail  string
}

func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK)
}

func (h *TransactionHandler) render(w http.ResponseWriter, r *http.Request, status int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))

	var list listing.View
	var dialog form.View
	if !h.onLoop(w, func() {
		list = h.ws.List.Snapshot()
		dialog = h.ws.Form.Snapshot()
	}) {
		return
	}

	lang := i18n.LangFromContext(r.Context())
	var notices []notice
	for _, n := range h.ws.Notes.Drain() {
		notices = append(notices, notice{Level: n.Level, Message: i18n.T(lang, n.Code), Detail: n.Detail})
	}

	errs := map[string]string{}
	for field, code := range dialog.Violations {
		errs[field] = i18n.T(lang, code)
	}

	if err := view.RenderStatus(w, r, status, "transactions/index.html", map[string]any{
		"Page":       listing.Page(list.Rows, page, h.pageSize),
		"Columns":    listing.Columns(),
		"Loading":    list.Loading,
		"Loaded":     list.Loaded,
		"Notices":    notices,
		"Dialog":     dialog,
		"Errors":     errs,
		"Clients":    h.ws.Clients.All(),
		"Statuses":   models.Statuses(),
		"DateFields": form.DateFields,
	}); err != nil {
		h.logger.Error("rendering transactions", "error", err)
	}
}

func (h *TransactionHandler) Reload(w http.ResponseWriter, r *http.Request) {
	h.ws.List.Reload(r.Context())
	http.Redirect(w, r, listPath, http.StatusSeeOther)
}

func (h *TransactionHandler) New(w http.ResponseWriter, r *http.Request) {
	var err error
	if !h.onLoop(w, func() { err = h.ws.List.Create() }) {
		return
	}
	if err != nil {
		h.logger.Debug("create dialog not opened", "error", err)
	}
	http.Redirect(w, r, listPath, http.StatusSeeOther)
}

func (h *TransactionHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	var found bool
	if !h.onLoop(w, func() {
		var tx models.Transaction
		tx, found = h.ws.List.Find(id)
		if found {
			err = h.ws.List.Edit(tx)
		}
	}) {
		return
	}
	if !found {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.logger.Debug("edit dialog not opened", "id", id, "error", err)
	}
	http.Redirect(w, r, listPath, http.StatusSeeOther)
}

func (h *TransactionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	vm := form.ParseValues(r.PostForm)

	var result <-chan error
	var err error
	if !h.onLoop(w, func() { result, err = h.ws.Form.Submit(r.Context(), vm) }) {
		return
	}

	var invalid *form.ValidationError
	switch {
	case errors.As(err, &invalid):
		h.render(w, r, http.StatusUnprocessableEntity)
		return
	case err != nil:
		h.logger.Debug("submit ignored", "error", err)
	default:
		h.wait(r.Context(), result)
	}
	http.Redirect(w, r, listPath, http.StatusSeeOther)
}

func (h *TransactionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	var err error
	if !h.onLoop(w, func() { err = h.ws.Form.Cancel() }) {
		return
	}
	if err != nil {
		h.logger.Debug("cancel ignored", "error", err)
	}
	http.Redirect(w, r, listPath, http.StatusSeeOther)
}

func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	h.wait(r.Context(), h.ws.List.Delete(r.Context(), id))
	http.Redirect(w, r, listPath, http.StatusSeeOther)
}

// onLoop runs fn on the workspace loop. It answers 503 and returns false once the loop has stopped.
func (h *TransactionHandler) onLoop(w http.ResponseWriter, fn func()) bool {
	if err := h.ws.Loop.Do(fn); err != nil {
		if errors.Is(err, eventloop.ErrStopped) {
			http.Error(w, "shutting down", http.StatusServiceUnavailable)
			return false
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return false
	}
	return true
}

// wait blocks until the operation settled or the client went away. The outcome itself
// is reported through notifications.
func (h *TransactionHandler) wait(ctx context.Context, result <-chan error) {
	select {
	case <-result:
	case <-ctx.Done():
	}
}
