package cache

import (
	"context"
	"encoding/json"
	"time"
)

// GetJSON decodes the value under key into dst. It returns ErrCacheMiss when
// the key is absent and the decode error when the stored value is corrupt.
func GetJSON(ctx context.Context, c Cache, key string, dst any) error {
	data, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dst)
}

// SetJSON encodes value as JSON and stores it under key.
func SetJSON(ctx context.Context, c Cache, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, data, ttl)
}
