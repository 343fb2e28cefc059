// Package gateway talks to the remote transaction store.
//
// Each operation maps to one HTTP call and has its own success predicate:
// create needs exactly 201, update accepts any 2xx, remove needs exactly 204.
// The gateway neither retries nor caches, and never renders notifications.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/diewo77/marina-admin/internal/models"
)

// Operation names, used in errors and metric labels.
const (
	OpList        = "list"
	OpCreate      = "create"
	OpUpdate      = "update"
	OpRemove      = "remove"
	OpListClients = "list_clients"
)

// Gateway is a stateless client for the store's endpoints.
type Gateway struct {
	baseURL string
	client  *http.Client
	metrics *Metrics
	logger  *slog.Logger
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(g *Gateway) {
		g.client = &http.Client{Timeout: d}
	}
}

// WithMetrics records every call in m.
func WithMetrics(m *Metrics) Option {
	return func(g *Gateway) { g.metrics = m }
}

// WithLogger sets the logger used for request traces.
func WithLogger(l *slog.Logger) Option {
	return func(g *Gateway) {
		if l != nil {
			g.logger = l
		}
	}
}

// New returns a gateway for the store rooted at baseURL.
func New(baseURL string, opts ...Option) *Gateway {
	g := &Gateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// List fetches every transaction.
func (g *Gateway) List(ctx context.Context) ([]models.Transaction, error) {
	var txs []models.Transaction
	if err := g.fetchCollection(ctx, OpList, "/transactions", &txs); err != nil {
		return nil, err
	}
	if txs == nil {
		txs = []models.Transaction{}
	}
	return txs, nil
}

// ListClients fetches the clients available for selection.
func (g *Gateway) ListClients(ctx context.Context) ([]models.Client, error) {
	var clients []models.Client
	if err := g.fetchCollection(ctx, OpListClients, "/clients", &clients); err != nil {
		return nil, err
	}
	if clients == nil {
		clients = []models.Client{}
	}
	return clients, nil
}

// Create posts a new transaction. The store must answer 201 Created.
func (g *Gateway) Create(ctx context.Context, tx models.Transaction) (models.Transaction, error) {
	tx.ID = 0
	resp, err := g.do(ctx, OpCreate, http.MethodPost, "/api/transactions", writePayload(tx))
	if err != nil {
		return models.Transaction{}, err
	}
	if resp.status != http.StatusCreated {
		return models.Transaction{}, g.unexpected(OpCreate, resp)
	}
	var created models.Transaction
	if err := json.Unmarshal(resp.body, &created); err != nil {
		return models.Transaction{}, fmt.Errorf("%s: decoding response: %w", OpCreate, err)
	}
	return created, nil
}

// Update replaces the transaction stored under id. Any 2xx status is a success;
// an empty success body yields the sent record.
func (g *Gateway) Update(ctx context.Context, id int64, tx models.Transaction) (models.Transaction, error) {
	tx.ID = id
	resp, err := g.do(ctx, OpUpdate, http.MethodPut, transactionPath(id), writePayload(tx))
	if err != nil {
		return models.Transaction{}, err
	}
	if resp.status < 200 || resp.status > 299 {
		return models.Transaction{}, g.unexpected(OpUpdate, resp)
	}
	if len(bytes.TrimSpace(resp.body)) == 0 {
		tx.Articles = nil
		return tx, nil
	}
	var updated models.Transaction
	if err := json.Unmarshal(resp.body, &updated); err != nil {
		return models.Transaction{}, fmt.Errorf("%s: decoding response: %w", OpUpdate, err)
	}
	return updated, nil
}

// Remove deletes the transaction stored under id. Only 204 No Content is a success.
func (g *Gateway) Remove(ctx context.Context, id int64) error {
	resp, err := g.do(ctx, OpRemove, http.MethodDelete, transactionPath(id), nil)
	if err != nil {
		return err
	}
	if resp.status != http.StatusNoContent {
		return g.unexpected(OpRemove, resp)
	}
	return nil
}

func (g *Gateway) fetchCollection(ctx context.Context, op, path string, dst any) error {
	resp, err := g.do(ctx, op, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if resp.status != http.StatusOK {
		return g.unexpected(op, resp)
	}
	if err := json.Unmarshal(resp.body, dst); err != nil {
		return fmt.Errorf("%s: decoding response: %w", op, err)
	}
	return nil
}

type response struct {
	status int
	body   []byte
}

func (g *Gateway) do(ctx context.Context, op, method, path string, payload any) (response, error) {
	start := time.Now()
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return response{}, fmt.Errorf("%s: encoding payload: %w", op, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return response{}, fmt.Errorf("%s: building request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := g.client.Do(req)
	if err != nil {
		g.metrics.observe(op, outcomeTransport, time.Since(start))
		g.logger.Debug("store request failed", "op", op, "method", method, "path", path, "error", err)
		return response{}, fmt.Errorf("%s %s: %w: %w", method, path, ErrTransport, err)
	}
	defer res.Body.Close()

	b, err := io.ReadAll(res.Body)
	if err != nil {
		g.metrics.observe(op, outcomeTransport, time.Since(start))
		return response{}, fmt.Errorf("%s %s: reading body: %w: %w", method, path, ErrTransport, err)
	}
	g.logger.Debug("store request", "op", op, "method", method, "path", path,
		"status", res.StatusCode, "duration", time.Since(start))
	g.metrics.observe(op, strconv.Itoa(res.StatusCode), time.Since(start))
	return response{status: res.StatusCode, body: b}, nil
}

func (g *Gateway) unexpected(op string, resp response) error {
	return &StatusError{Op: op, StatusCode: resp.status, Body: strings.TrimSpace(string(resp.body))}
}

func transactionPath(id int64) string {
	return "/api/transactions/" + strconv.FormatInt(id, 10)
}

// writePayload strips the read-only line items from an outgoing record.
func writePayload(tx models.Transaction) models.Transaction {
	tx.Articles = nil
	return tx
}
