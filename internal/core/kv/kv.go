// Package kv defines a small persistent key-value contract used for
// ephemeral app state such as the recently-mentioned participant list.
package kv

import (
	"context"
	"encoding/json"
	"time"
)

// Entry is a raw stored value with its expiry metadata.
type Entry struct {
	Key       string
	Value     json.RawMessage
	ExpiresAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// KV is a persistent key-value store. Values are JSON-serializable.
// Get on a missing or expired key returns an error wrapping sql.ErrNoRows.
type KV interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any) error
	SetTTL(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Has(ctx context.Context, key string) (bool, error)
	ListKeys(ctx context.Context) ([]string, error)
}

// Bucket gives type-safe access to one namespace of a KV store. All keys
// pass through as "namespace:key" so unrelated features cannot collide.
type Bucket[T any] struct {
	store  KV
	prefix string
}

// NewBucket returns a Bucket for the given namespace.
func NewBucket[T any](store KV, namespace string) *Bucket[T] {
	return &Bucket[T]{store: store, prefix: namespace + ":"}
}

func (b *Bucket[T]) Get(ctx context.Context, key string) (T, error) {
	var v T
	if err := b.store.Get(ctx, b.prefix+key, &v); err != nil {
		return v, err
	}
	return v, nil
}

func (b *Bucket[T]) Set(ctx context.Context, key string, value T) error {
	return b.store.Set(ctx, b.prefix+key, value)
}

// SetTTL stores a value that expires after the given duration.
func (b *Bucket[T]) SetTTL(ctx context.Context, key string, value T, ttl time.Duration) error {
	return b.store.SetTTL(ctx, b.prefix+key, value, ttl)
}

func (b *Bucket[T]) Delete(ctx context.Context, key string) error {
	return b.store.Delete(ctx, b.prefix+key)
}
