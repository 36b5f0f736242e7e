package cache

import (
	"context"
	"log/slog"
)

// Slot is where a looked-up key is stored. It pins the cache generation seen
// by Get, so a value computed across an Invalidate is written into the older
// generation and never read back. The zero Slot discards writes.
type Slot string

// Cache stores JSON-encodable report results. Invalidate drops every entry
// written before the call.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (slot Slot, hit bool, err error)
	Set(ctx context.Context, slot Slot, value any) error
	Invalidate(ctx context.Context) error
}

// Remember returns the cached value for key or computes, stores and returns
// it. Cache failures are logged and never fail the call.
func Remember[T any](ctx context.Context, c Cache, key string, compute func() (T, error)) (T, error) {
	var cached T
	slot, hit, err := c.Get(ctx, key, &cached)
	if err != nil {
		slog.WarnContext(ctx, "report cache read failed", "key", key, "error", err)
	}
	if hit {
		return cached, nil
	}

	value, err := compute()
	if err != nil {
		return value, err
	}

	if slot == "" {
		return value, nil
	}
	if err := c.Set(ctx, slot, value); err != nil {
		slog.WarnContext(ctx, "report cache write failed", "key", key, "error", err)
	}
	return value, nil
}

// Noop never stores anything.
type Noop struct{}

func (Noop) Get(context.Context, string, any) (Slot, bool, error) { return "", false, nil }
func (Noop) Set(context.Context, Slot, any) error                 { return nil }
func (Noop) Invalidate(context.Context) error                     { return nil }
