// Package metadata is the local key/value table of the console. It backs
// the credential store and holds nothing but short string values.
package metadata

import (
	"context"
)

// Repository reads and writes metadata rows. Get returns ("", false, nil)
// for a missing key.
type Repository interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, keys ...string) error
	List(ctx context.Context) (map[string]string, error)
	Clear(ctx context.Context) error
}
