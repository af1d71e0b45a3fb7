package port

import (
	"context"
	"time"
)

// StoredResponse is a completed response kept for replay. RequestHash is the
// digest of the request body that produced it.
type StoredResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
	RequestHash string `json:"request_hash"`
}

type IdempotencyStore interface {
	// Reserve claims key for ttl. It returns false if the key is already held.
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Complete attaches the final response to a reserved key.
	Complete(ctx context.Context, key string, resp StoredResponse, ttl time.Duration) error
	// Lookup returns the stored response, or nil while the key is still reserved.
	Lookup(ctx context.Context, key string) (*StoredResponse, error)
	// Release drops a reservation whose request failed.
	Release(ctx context.Context, key string) error
}
