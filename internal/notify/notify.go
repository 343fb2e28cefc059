// Package notify collects transient messages shown to the operator on the next render.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Level is the severity of a notification.
type Level string

const (
	Success Level = "success"
	Error   Level = "error"
)

// Notification is a single transient message. Code is an i18n key.
type Notification struct {
	ID      uuid.UUID
	Level   Level
	Code    string
	Detail  string
	Created time.Time
}

// Center is a concurrency-safe queue of pending notifications.
type Center struct {
	mu      sync.Mutex
	pending []Notification
}

func New() *Center { return &Center{} }

func (c *Center) Success(code string) Notification {
	return c.push(Success, code, "")
}

// Error queues an error notification. detail is shown under the translated message.
func (c *Center) Error(code, detail string) Notification {
	return c.push(Error, code, detail)
}

func (c *Center) push(level Level, code, detail string) Notification {
	n := Notification{
		ID:      uuid.New(),
		Level:   level,
		Code:    code,
		Detail:  detail,
		Created: time.Now(),
	}
	c.mu.Lock()
	c.pending = append(c.pending, n)
	c.mu.Unlock()
	return n
}

// Drain returns every pending notification in emission order and clears the queue.
func (c *Center) Drain() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.pending
	c.pending = nil
	return out
}
