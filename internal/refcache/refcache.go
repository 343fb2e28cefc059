// Package refcache holds the client list used by the transaction form.
// It is loaded once and never refreshed.
package refcache

import (
	"context"
	"log/slog"

	"github.com/diewo77/marina-admin/internal/models"
)

// Source fetches the clients available for selection.
type Source interface {
	ListClients(ctx context.Context) ([]models.Client, error)
}

// Cache is an immutable snapshot of the client list.
type Cache struct {
	clients []models.Client
	byID    map[int64]models.Client
}

// Load fetches the clients once. A failed fetch yields an empty cache and a warning.
func Load(ctx context.Context, src Source, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	clients, err := src.ListClients(ctx)
	if err != nil {
		logger.Warn("client reference list unavailable", "error", err)
		clients = nil
	}
	return New(clients)
}

// New builds a cache over clients. Later duplicates of an id are ignored.
func New(clients []models.Client) *Cache {
	c := &Cache{
		clients: make([]models.Client, 0, len(clients)),
		byID:    make(map[int64]models.Client, len(clients)),
	}
	for _, cl := range clients {
		if _, dup := c.byID[cl.ID]; dup {
			continue
		}
		c.byID[cl.ID] = cl
		c.clients = append(c.clients, cl)
	}
	return c
}

// All returns the clients in store order.
func (c *Cache) All() []models.Client {
	return append([]models.Client(nil), c.clients...)
}

// Lookup returns the client with the given id.
func (c *Cache) Lookup(id int64) (models.Client, bool) {
	cl, ok := c.byID[id]
	return cl, ok
}

func (c *Cache) Len() int { return len(c.clients) }
