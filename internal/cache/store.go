package cache

import (
	"context"
	"encoding/json"
	"fmt"
)

// Store persists serialized results under content-hash keys
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// GetJSON loads and decodes a cached value. A miss returns ok=false.
func GetJSON[T any](ctx context.Context, s Store, key string) (T, bool, error) {
	var out T
	if s == nil {
		return out, false, nil
	}
	raw, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return out, false, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return out, true, nil
}

// SetJSON encodes and stores a value
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	if s == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Set(ctx, key, raw)
}
