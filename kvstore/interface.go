// Package kvstore is the key-value storage port the cart is persisted through,
// with in-memory, Redis and SQL adapters.
package kvstore

import (
	"context"

	"github.com/pkg/errors"
)

// ErrNotFound is returned by Get when no value is stored under the key.
var ErrNotFound = errors.New("kvstore: key not found")

// Store is a string key-value store. Writes replace the whole value; there is
// no compare-and-set, so concurrent writers to one key resolve as last write wins.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}
