package storage

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
)

// Storage is the key-value capability every piece of wallet state lives in.
type Storage interface {
	// Get returns the value stored under key, or (nil, nil) if absent.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}

// BatchSetter is implemented by backends that can write several keys
// atomically.
type BatchSetter interface {
	SetMany(ctx context.Context, values map[string][]byte) error
}

// Backend is a Storage that owns resources.
type Backend interface {
	Storage
	Close() error
}

// SetMany writes values through s.SetMany when the backend supports it and
// falls back to sequential Set calls otherwise. On a fallback failure the
// keys already written are restored to their previous values; a failed
// restore is appended to the returned error.
func SetMany(ctx context.Context, s Storage, values map[string][]byte) error {
	if b, ok := s.(BatchSetter); ok {
		return b.SetMany(ctx, values)
	}

	prev := make(map[string][]byte, len(values))
	for k := range values {
		v, err := s.Get(ctx, k)
		if err != nil {
			return fmt.Errorf("failed to get %s: %w", k, err)
		}
		prev[k] = v
	}

	var written []string
	for k, v := range values {
		if err := s.Set(ctx, k, v); err != nil {
			err = fmt.Errorf("failed to set %s: %w", k, err)
			for _, w := range written {
				err = multierr.Append(err, restore(ctx, s, w, prev[w]))
			}
			return err
		}
		written = append(written, k)
	}
	return nil
}

func restore(ctx context.Context, s Storage, key string, prev []byte) error {
	var err error
	if prev == nil {
		err = s.Remove(ctx, key)
	} else {
		err = s.Set(ctx, key, prev)
	}
	if err != nil {
		return fmt.Errorf("failed to restore %s: %w", key, err)
	}
	return nil
}
