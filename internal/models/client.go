package models

// Client is the reference entity a transaction points to.
// The workflow never mutates clients; it only selects them by ID.
type Client struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
