// Package remote defines the hierarchical key/value store the bookings core
// reads from and writes to, plus an in-memory implementation.
//
// Paths are forward-slash delimited, e.g.
// companies/{companyId}/sites/{siteId}/data/bookings/bookings/{bookingId}.
// Values are JSON-shaped: map[string]any, []any, string, float64, bool.
package remote

import (
	"context"
	"encoding/json"
	"strings"
)

// Store is the remote persistence backend. Implementations own durability,
// timeouts and retries; callers treat every error as transient.
type Store interface {
	// Get returns the value at path. A missing path yields a snapshot whose
	// Exists reports false, not an error.
	Get(ctx context.Context, path string) (Snapshot, error)
	// Set replaces the value at path. A nil value removes it.
	Set(ctx context.Context, path string, value any) error
	// Update writes each field relative to path, leaving siblings untouched.
	// Field keys may themselves contain slashes.
	Update(ctx context.Context, path string, fields map[string]any) error
	// Remove deletes the value at path and everything below it.
	Remove(ctx context.Context, path string) error
	// Push reserves a new, server-generated child key under path.
	Push(ctx context.Context, path string) (string, error)
}

// Snapshot is the value read at a path.
type Snapshot struct {
	Path  string
	Value any
}

// Exists reports whether a value was stored at the snapshot path.
func (s Snapshot) Exists() bool {
	return s.Value != nil
}

// Children returns the child values when the snapshot holds an object.
// Scalars and missing values yield nil.
func (s Snapshot) Children() map[string]any {
	m, ok := s.Value.(map[string]any)
	if !ok {
		return nil
	}
	return m
}

// Decode unmarshals the snapshot value into v.
func (s Snapshot) Decode(v any) error {
	return DecodeValue(s.Value, v)
}

// DecodeValue converts a JSON-shaped value into v.
func DecodeValue(raw any, v any) error {
	data, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// Join builds a store path from segments, ignoring empty ones.
func Join(segments ...string) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		s = strings.Trim(s, "/")
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "/")
}

// Split breaks a path into its non-empty segments.
func Split(path string) []string {
	raw := strings.Split(strings.Trim(path, "/"), "/")
	parts := raw[:0]
	for _, s := range raw {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return parts
}
