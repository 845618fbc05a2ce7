// Package store is the persisted-state container: named values under one
// namespace, written through to a KV backend inside a versioned envelope.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// SchemaVersion version written by this build.
const SchemaVersion = 1

// ErrNotFound nothing stored under the key.
var ErrNotFound = errors.New("stored value not found")

// ReadError a stored value exists but cannot be read or decoded.
type ReadError struct {
	Key string
	Err error
}

func (e *ReadError) Error() string { return fmt.Sprintf("read %s: %v", e.Key, e.Err) }

func (e *ReadError) Unwrap() error { return e.Err }

// MigrateFunc rewrites the data of one schema version into the next.
type MigrateFunc func(data json.RawMessage) (json.RawMessage, error)

type envelope struct {
	SchemaVersion int             `json:"schema_version"`
	Data          json.RawMessage `json:"data"`
}

// Store namespaced, versioned load/save of named values.
type Store struct {
	kv        KV
	namespace string
	logger    *zap.Logger

	mu         sync.RWMutex
	migrations map[string]map[int]MigrateFunc // key -> from version -> step
}

func New(kv KV, namespace string, logger *zap.Logger) *Store {
	return &Store{
		kv:         kv,
		namespace:  namespace,
		logger:     logger,
		migrations: map[string]map[int]MigrateFunc{},
	}
}

// RegisterMigration installs the step that upgrades key's data from version from to from+1.
// Versions without a registered step are carried over unchanged.
func (s *Store) RegisterMigration(key string, from int, fn MigrateFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.migrations[key] == nil {
		s.migrations[key] = map[int]MigrateFunc{}
	}
	s.migrations[key][from] = fn
}

func (s *Store) storageKey(key string) string { return s.namespace + key }

// raw fetches, unwraps and migrates the stored data for key.
func (s *Store) raw(ctx context.Context, key string) (json.RawMessage, error) {
	val, err := s.kv.Get(ctx, s.storageKey(key))
	if err != nil {
		if errors.Is(err, ErrMiss) {
			return nil, ErrNotFound
		}
		return nil, &ReadError{Key: key, Err: err}
	}

	version, data, err := unwrap([]byte(val))
	if err != nil {
		return nil, &ReadError{Key: key, Err: err}
	}
	if version > SchemaVersion {
		return nil, &ReadError{Key: key, Err: fmt.Errorf("schema version %d is newer than %d", version, SchemaVersion)}
	}

	s.mu.RLock()
	steps := s.migrations[key]
	s.mu.RUnlock()
	for v := version; v < SchemaVersion; v++ {
		step, ok := steps[v]
		if !ok {
			continue
		}
		if data, err = step(data); err != nil {
			return nil, &ReadError{Key: key, Err: fmt.Errorf("migrate v%d: %w", v, err)}
		}
	}
	return data, nil
}

// unwrap splits an envelope; anything else that is valid JSON is legacy version 0.
func unwrap(b []byte) (int, json.RawMessage, error) {
	if !json.Valid(b) {
		return 0, nil, errors.New("stored value is not valid JSON")
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err == nil {
		rawVersion, hasVersion := fields["schema_version"]
		data, hasData := fields["data"]
		if hasVersion && hasData {
			var version int
			if err := json.Unmarshal(rawVersion, &version); err != nil {
				return 0, nil, fmt.Errorf("bad schema_version: %w", err)
			}
			return version, data, nil
		}
	}
	return 0, json.RawMessage(b), nil
}

// Read decodes the value stored under key. Absence is ErrNotFound; anything
// unreadable is a *ReadError.
func Read[T any](ctx context.Context, s *Store, key string) (T, error) {
	var out T
	data, err := s.raw(ctx, key)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(data, &out); err != nil {
		var zero T
		return zero, &ReadError{Key: key, Err: err}
	}
	return out, nil
}

// Load returns the stored value for key, or fallback when it is missing or
// unreadable. Read failures are logged, never returned.
func Load[T any](ctx context.Context, s *Store, key string, fallback T) T {
	return LoadChecked(ctx, s, key, fallback, nil)
}

// LoadChecked is Load with an extra acceptance check on the decoded value.
// A value that fails check is treated as unreadable.
func LoadChecked[T any](ctx context.Context, s *Store, key string, fallback T, check func(T) error) T {
	v, err := Read[T](ctx, s, key)
	if err == nil && check != nil {
		if cerr := check(v); cerr != nil {
			err = &ReadError{Key: key, Err: cerr}
		}
	}
	if err == nil {
		return v
	}
	if !errors.Is(err, ErrNotFound) {
		s.logger.Warn("Stored value unreadable, using fallback",
			zap.String("key", key),
			zap.Error(err),
		)
	}
	return fallback
}

// Save overwrites key with value. Failures are logged as warnings only: the
// in-memory copy stays authoritative for the session.
func (s *Store) Save(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err == nil {
		var b []byte
		b, err = json.Marshal(envelope{SchemaVersion: SchemaVersion, Data: data})
		if err == nil {
			err = s.kv.Set(ctx, s.storageKey(key), string(b))
		}
	}
	if err != nil {
		s.logger.Warn("Failed to persist value",
			zap.String("key", key),
			zap.Error(err),
		)
		return
	}
	s.logger.Debug("Persisted value", zap.String("key", key), zap.Int("bytes", len(data)))
}

// Keys lists the logical keys present under the namespace.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	full, err := s.kv.Keys(ctx, s.namespace)
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	keys := make([]string, 0, len(full))
	for _, k := range full {
		keys = append(keys, k[len(s.namespace):])
	}
	return keys, nil
}

// Reset deletes every value under the namespace and returns how many were removed.
func (s *Store) Reset(ctx context.Context) (int, error) {
	keys, err := s.Keys(ctx)
	if err != nil {
		return 0, err
	}
	for _, k := range keys {
		if err := s.kv.Delete(ctx, s.storageKey(k)); err != nil {
			return 0, fmt.Errorf("failed to delete %s: %w", k, err)
		}
	}
	return len(keys), nil
}
