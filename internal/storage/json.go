package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrCorrupt marks a persisted value that exists but cannot be decoded.
var ErrCorrupt = errors.New("corrupt value")

// GetJSON decodes the value under key into v. It reports false without
// touching v when the key is absent; undecodable values yield ErrCorrupt.
func GetJSON(ctx context.Context, r Reader, key string, v any) (bool, error) {
	b, err := r.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if b == nil {
		return false, nil
	}
	if err := json.Unmarshal(b, v); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w: %w", key, ErrCorrupt, err)
	}
	return true, nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(ctx context.Context, w Writer, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return w.Set(ctx, key, b)
}
