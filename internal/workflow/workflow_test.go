package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/diewo77/marina-admin/internal/db"
	"github.com/diewo77/marina-admin/internal/eventloop"
	"github.com/diewo77/marina-admin/internal/form"
	"github.com/diewo77/marina-admin/internal/gateway"
	"github.com/diewo77/marina-admin/internal/listing"
	"github.com/diewo77/marina-admin/internal/models"
	"github.com/diewo77/marina-admin/internal/notify"
	"github.com/diewo77/marina-admin/internal/store"
	"github.com/shopspring/decimal"
)

type seenRequest struct {
	method, path string
	body         []byte
}

// wire records every request reaching the store and can fail chosen routes.
type wire struct {
	mu    sync.Mutex
	seen  []seenRequest
	fail  map[string]int // "METHOD path" -> status
	inner http.Handler
}

func (w *wire) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(body))

	w.mu.Lock()
	w.seen = append(w.seen, seenRequest{method: r.Method, path: r.URL.Path, body: body})
	status, failing := w.fail[r.Method+" "+r.URL.Path]
	w.mu.Unlock()

	if failing {
		rw.WriteHeader(status)
		return
	}
	w.inner.ServeHTTP(rw, r)
}

func (w *wire) requests() []seenRequest {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]seenRequest(nil), w.seen...)
}

func (w *wire) count(method, path string) int {
	n := 0
	for _, r := range w.requests() {
		if r.method == method && r.path == path {
			n++
		}
	}
	return n
}

type env struct {
	repo *store.Repository
	wire *wire
	ws   *Workspace
}

func setup(t *testing.T, clients int, seed func(*store.Repository)) *env {
	t.Helper()
	gdb, err := db.Open(db.DriverSQLite, fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()), nil)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, _ := gdb.DB()
	t.Cleanup(func() { sqlDB.Close() })
	repo := store.NewRepository(gdb)
	if err := repo.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	for i := 1; i <= clients; i++ {
		if _, err := repo.CreateClient(context.Background(), fmt.Sprintf("Client %d", i)); err != nil {
			t.Fatalf("client: %v", err)
		}
	}
	if seed != nil {
		seed(repo)
	}

	w := &wire{fail: map[string]int{}, inner: store.NewRouter(repo, nil)}
	srv := httptest.NewServer(w)
	t.Cleanup(srv.Close)

	loop := eventloop.New()
	ctx, cancel := context.WithCancel(context.Background())
	go loop.Run(ctx)
	t.Cleanup(cancel)

	ws := Mount(context.Background(), loop, gateway.New(srv.URL), nil)
	loop.Wait()
	return &env{repo: repo, wire: w, ws: ws}
}

func (e *env) do(t *testing.T, fn func()) {
	t.Helper()
	if err := e.ws.Loop.Do(fn); err != nil {
		t.Fatalf("loop.Do: %v", err)
	}
}

func (e *env) list(t *testing.T) listing.View {
	t.Helper()
	var v listing.View
	e.do(t, func() { v = e.ws.List.Snapshot() })
	return v
}

func settle(t *testing.T, ch <-chan error) error {
	t.Helper()
	select {
	case err := <-ch:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("operation did not settle")
		return nil
	}
}

func amount(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func clientID(id int64) *int64 { return &id }

func TestMount(t *testing.T) {
	e := setup(t, 2, func(repo *store.Repository) {
		c := models.Client{ID: 1}
		_, _ = repo.Create(context.Background(), models.Transaction{Status: "DRAFT", MontantHT: decimal.NewFromInt(1), Client: &c})
	})
	if e.ws.Clients.Len() != 2 {
		t.Errorf("cache holds %d clients, want 2", e.ws.Clients.Len())
	}
	v := e.list(t)
	if !v.Loaded || len(v.Rows) != 1 || v.Rows[0].ClientName() != "Client 1" {
		t.Errorf("first load = %+v", v)
	}
	if e.wire.count(http.MethodGet, "/clients") != 1 {
		t.Errorf("clients fetched %d times, want 1", e.wire.count(http.MethodGet, "/clients"))
	}
}

// Scenario A: create.
func TestCreateFlow(t *testing.T) {
	e := setup(t, 5, nil)

	var ch <-chan error
	var err error
	e.do(t, func() {
		_ = e.ws.List.Create()
		ch, err = e.ws.Form.Submit(context.Background(), form.Values{
			Status:    "PENDING",
			MontantHT: amount("100.00"),
			ClientID:  clientID(5),
		})
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if err := settle(t, ch); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	e.ws.Loop.Wait()

	var post *seenRequest
	for _, r := range e.wire.requests() {
		if r.method == http.MethodPost && r.path == "/api/transactions" {
			post = &r
		}
	}
	if post == nil {
		t.Fatal("no POST reached the store")
	}
	var body map[string]any
	if err := json.Unmarshal(post.body, &body); err != nil {
		t.Fatalf("POST body: %v", err)
	}
	for _, f := range []string{"dateCreation", "dateLivraison", "datePaiement", "dateEcheance", "changementStatusDate"} {
		if v, ok := body[f]; !ok || v != nil {
			t.Errorf("POST %s = %v (present=%v), want null", f, v, ok)
		}
	}
	if _, ok := body["id"]; ok {
		t.Errorf("POST body carries an id")
	}
	if c, _ := body["client"].(map[string]any); c == nil || c["id"] != float64(5) || c["name"] != "Client 5" {
		t.Errorf("POST client = %v", body["client"])
	}

	v := e.list(t)
	if len(v.Rows) != 1 || v.Rows[0].ID == 0 || v.Rows[0].Status != "PENDING" {
		t.Fatalf("list after create = %+v", v.Rows)
	}
	if got := v.Rows[0].StatusColor(); got != "orange" {
		t.Errorf("status color = %s, want orange", got)
	}
	if e.wire.count(http.MethodGet, "/transactions") != 2 {
		t.Errorf("list fetched %d times, want 2 (mount + reload)", e.wire.count(http.MethodGet, "/transactions"))
	}

	var fv form.View
	e.do(t, func() { fv = e.ws.Form.Snapshot() })
	if fv.IsOpen() {
		t.Errorf("dialog still open after success")
	}
	n := e.ws.Notes.Drain()
	if len(n) != 1 || n[0].Code != listing.NoteCreated {
		t.Errorf("notifications = %+v", n)
	}
}

// Scenario B: display.
func TestDisplayMoney(t *testing.T) {
	e := setup(t, 1, func(repo *store.Repository) {
		_, _ = repo.Create(context.Background(), models.Transaction{Status: "PAID", MontantHT: decimal.NewFromInt(1), MontantTTC: 12345})
	})
	rows := e.list(t).Rows
	if len(rows) != 1 {
		t.Fatalf("rows = %+v", rows)
	}
	for _, col := range listing.Columns() {
		if col.Header == "montantTTC" {
			if got := col.Cell(rows[0]); got != "123.45 €" {
				t.Errorf("montantTTC cell = %q, want 123.45 €", got)
			}
			return
		}
	}
	t.Fatal("no montantTTC column")
}

// Scenario C: validation blocks the network.
func TestValidationBlocksSubmit(t *testing.T) {
	e := setup(t, 1, nil)
	before := len(e.wire.requests())

	var err error
	e.do(t, func() {
		_ = e.ws.List.Create()
		_, err = e.ws.Form.Submit(context.Background(), form.Values{Status: "PENDING", MontantHT: amount("10")})
	})
	var verr *form.ValidationError
	if !errors.As(err, &verr) || !verr.Violations.Has(form.FieldClient) {
		t.Fatalf("Submit() = %v, want client violation", err)
	}
	e.ws.Loop.Wait()
	if after := len(e.wire.requests()); after != before {
		t.Errorf("%d requests issued, want 0", after-before)
	}
}

// Scenario D: delete failure.
func TestDeleteFailure(t *testing.T) {
	e := setup(t, 1, func(repo *store.Repository) {
		for i := 0; i < 7; i++ {
			_, _ = repo.Create(context.Background(), models.Transaction{Status: "DRAFT", MontantHT: decimal.NewFromInt(int64(i))})
		}
	})
	e.wire.mu.Lock()
	e.wire.fail["DELETE /api/transactions/7"] = http.StatusInternalServerError
	e.wire.mu.Unlock()
	lists := e.wire.count(http.MethodGet, "/transactions")

	err := settle(t, e.ws.List.Delete(context.Background(), 7))
	if !gateway.IsStatus(err, http.StatusInternalServerError) {
		t.Fatalf("Delete(7) = %v, want 500", err)
	}
	e.ws.Loop.Wait()

	var found bool
	e.do(t, func() { _, found = e.ws.List.Find(7) })
	if !found {
		t.Errorf("id 7 no longer listed")
	}
	if got := e.wire.count(http.MethodGet, "/transactions"); got != lists {
		t.Errorf("reload issued after failed delete (%d list calls, want %d)", got, lists)
	}
	n := e.ws.Notes.Drain()
	if len(n) != 1 || n[0].Level != notify.Error {
		t.Errorf("notifications = %+v", n)
	}
}

func TestDeleteSuccessReloads(t *testing.T) {
	e := setup(t, 1, func(repo *store.Repository) {
		_, _ = repo.Create(context.Background(), models.Transaction{Status: "DRAFT", MontantHT: decimal.NewFromInt(1)})
	})
	if err := settle(t, e.ws.List.Delete(context.Background(), 1)); err != nil {
		t.Fatalf("Delete(1) = %v", err)
	}
	e.ws.Loop.Wait()
	if rows := e.list(t).Rows; len(rows) != 0 {
		t.Errorf("rows after delete = %+v", rows)
	}
}

// Scenario E: stale relation.
func TestStaleClientSubmitsNull(t *testing.T) {
	e := setup(t, 1, nil)

	// Client 2 appears after the cache was loaded.
	ctx := context.Background()
	late, err := e.repo.CreateClient(ctx, "X")
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	rec, err := e.repo.Create(ctx, models.Transaction{Status: "VALIDATED", MontantHT: decimal.NewFromInt(50), Client: &late})
	if err != nil {
		t.Fatalf("transaction: %v", err)
	}
	e.ws.List.Reload(ctx)
	e.ws.Loop.Wait()

	var ch <-chan error
	e.do(t, func() {
		tx, ok := e.ws.List.Find(rec.ID)
		if !ok {
			t.Errorf("record %d not listed", rec.ID)
			return
		}
		_ = e.ws.List.Edit(tx)
		vm := e.ws.Form.Snapshot().Values
		ch, err = e.ws.Form.Submit(ctx, vm)
	})
	if err != nil || ch == nil {
		t.Fatalf("Submit() = %v", err)
	}
	if err := settle(t, ch); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	e.ws.Loop.Wait()

	path := fmt.Sprintf("/api/transactions/%d", rec.ID)
	var put []byte
	for _, r := range e.wire.requests() {
		if r.method == http.MethodPut && r.path == path {
			put = r.body
		}
	}
	var body map[string]any
	if err := json.Unmarshal(put, &body); err != nil {
		t.Fatalf("PUT body %q: %v", put, err)
	}
	if v, ok := body["client"]; !ok || v != nil {
		t.Errorf("PUT client = %v, want null", v)
	}
	if _, ok := body["articles"]; ok {
		t.Errorf("PUT body carries articles")
	}
}

func TestUpdateFailureKeepsDialogOpen(t *testing.T) {
	e := setup(t, 1, func(repo *store.Repository) {
		c := models.Client{ID: 1}
		if _, err := repo.Create(context.Background(), models.Transaction{Status: "DRAFT", MontantHT: decimal.NewFromInt(1), Client: &c}); err != nil {
			t.Fatalf("seed: %v", err)
		}
	})
	e.wire.mu.Lock()
	e.wire.fail["PUT /api/transactions/1"] = http.StatusBadGateway
	e.wire.mu.Unlock()

	var ch <-chan error
	var err error
	var found bool
	e.do(t, func() {
		var tx models.Transaction
		tx, found = e.ws.List.Find(1)
		if !found {
			return
		}
		if err = e.ws.List.Edit(tx); err != nil {
			return
		}
		vm := e.ws.Form.Snapshot().Values
		vm.Status = "PAID"
		ch, err = e.ws.Form.Submit(context.Background(), vm)
	})
	if !found {
		t.Fatal("record 1 not listed")
	}
	if err != nil || ch == nil {
		t.Fatalf("Submit() = %v", err)
	}
	if err := settle(t, ch); !gateway.IsStatus(err, http.StatusBadGateway) {
		t.Fatalf("submit = %v, want 502", err)
	}
	e.ws.Loop.Wait()

	var fv form.View
	e.do(t, func() { fv = e.ws.Form.Snapshot() })
	if fv.Phase != form.Open || fv.Mode != form.ModeEdit || fv.Values.Status != "PAID" {
		t.Errorf("dialog = %+v, want open with edits", fv)
	}
	if rows := e.list(t).Rows; rows[0].Status != "DRAFT" {
		t.Errorf("row changed after failed update: %+v", rows[0])
	}
}
