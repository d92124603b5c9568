// Package repository defines the client storage contract the draft store
// persists through.
//
// WHY A STRING K/V?
// The browser original kept two localStorage keys and nothing else. Keeping
// the contract that small means any backend that can hold a string under a
// key works: an embedded sqlite file for the CLI, an in-process cache for
// tests and throwaway sessions.
package repository

import "context"

// KV is a flat string store. Values are opaque; callers own the encoding.
type KV interface {
	// Get returns the value under key. ok is false when the key is absent,
	// which is not an error.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set writes value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// Delete removes key. Deleting a missing key is a no-op.
	Delete(ctx context.Context, key string) error
}
