// Package repository defines the persistence contracts the usecases depend
// on. Implementations live under internal/adapter/repository.
package repository

import "context"

// Storage keys. The polyglot_ prefix namespaces this tool's records inside a
// shared store.
const (
	KeyWords      = "polyglot_words"
	KeySettings   = "polyglot_settings"
	KeyQueue      = "polyglot_queue"
	KeyLastExport = "polyglot_last_export"
)

// KVStore is an opaque key-value store holding JSON-encoded values. Get
// reports absence through its second return instead of an error.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Keys(ctx context.Context) ([]string, error)
}
