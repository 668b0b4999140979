package db

import (
	"context"
	"encoding/json"
	"fmt"

	"leavedesk-backend/internal/ports"
)

// LoadJSON decodes the entry under key into dst. It reports false, leaving
// dst untouched, when the key is absent.
func LoadJSON(ctx context.Context, kv ports.KVStore, key string, dst any) (bool, error) {
	raw, found, err := kv.Get(ctx, key)
	if err != nil || !found {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// SaveJSON encodes v and stores it under key.
func SaveJSON(ctx context.Context, kv ports.KVStore, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return kv.Set(ctx, key, raw)
}
