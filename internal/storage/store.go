// Package storage defines the keyed-slot persistence contract shared by the
// loan store and the audit log. Every caller follows a full-state pattern:
// read the whole slot, mutate in memory, write the whole slot back. There is
// no partial update and no locking, so concurrent writers are last-write-wins.
package storage

import "context"

// Store is a minimal key-value slot store. Get reports an absent key as
// ok=false rather than an error, so callers can treat a missing slot as an
// empty collection.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
