package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	dErrors "venuebook/pkg/domain-errors"
)

// MemoryStore keeps the whole tree in memory. It backs the demo server and
// package tests; production deployments plug in a real backend.
type MemoryStore struct {
	mu   sync.RWMutex
	root map[string]any
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{root: make(map[string]any)}
}

func (s *MemoryStore) Get(ctx context.Context, path string) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, dErrors.Wrap(err, dErrors.CodeTimeout, "get aborted")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var node any = s.root
	for _, seg := range Split(path) {
		m, ok := node.(map[string]any)
		if !ok {
			return Snapshot{Path: path}, nil
		}
		node, ok = m[seg]
		if !ok {
			return Snapshot{Path: path}, nil
		}
	}
	if m, ok := node.(map[string]any); ok && len(m) == 0 {
		return Snapshot{Path: path}, nil
	}
	return Snapshot{Path: path, Value: clone(node)}, nil
}

func (s *MemoryStore) Set(ctx context.Context, path string, value any) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "set aborted")
	}
	normalized, err := normalize(value)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInvalidInput, fmt.Sprintf("encode value at %s", path))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setLocked(Split(path), normalized)
}

func (s *MemoryStore) Update(ctx context.Context, path string, fields map[string]any) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "update aborted")
	}
	normalized := make(map[string]any, len(fields))
	for k, v := range fields {
		n, err := normalize(v)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInvalidInput, fmt.Sprintf("encode field %s", k))
		}
		normalized[k] = n
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	base := Split(path)
	for k, v := range normalized {
		segs := append(append([]string{}, base...), Split(k)...)
		if err := s.setLocked(segs, v); err != nil {
			return err
		}
	}
	return nil
}

func (s *MemoryStore) Remove(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "remove aborted")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setLocked(Split(path), nil)
}

// Push returns a time-ordered key so pushed children sort by creation.
func (s *MemoryStore) Push(ctx context.Context, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeTimeout, "push aborted")
	}
	key, err := uuid.NewV7()
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "generate key")
	}
	return key.String(), nil
}

// setLocked writes value at segs, creating intermediate objects. A nil value
// deletes the leaf and prunes parents left empty.
func (s *MemoryStore) setLocked(segs []string, value any) error {
	if len(segs) == 0 {
		m, ok := value.(map[string]any)
		if value != nil && !ok {
			return dErrors.New(dErrors.CodeInvalidInput, "root must be an object")
		}
		if m == nil {
			m = make(map[string]any)
		}
		s.root = m
		return nil
	}

	trail := make([]map[string]any, 0, len(segs))
	node := s.root
	for _, seg := range segs[:len(segs)-1] {
		trail = append(trail, node)
		child, ok := node[seg].(map[string]any)
		if !ok {
			if value == nil {
				return nil
			}
			child = make(map[string]any)
			node[seg] = child
		}
		node = child
	}

	leaf := segs[len(segs)-1]
	if value != nil {
		node[leaf] = value
		return nil
	}
	delete(node, leaf)

	// prune now-empty ancestors bottom-up
	for i := len(trail) - 1; i >= 0; i-- {
		if len(node) > 0 {
			break
		}
		delete(trail[i], segs[i])
		node = trail[i]
	}
	return nil
}

// normalize converts arbitrary Go values into the JSON-shaped form stored in
// the tree, dropping nulls and empty objects like a realtime database does.
func normalize(value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return prune(out), nil
}

func prune(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			if p := prune(child); p == nil {
				delete(t, k)
			} else {
				t[k] = p
			}
		}
		if len(t) == 0 {
			return nil
		}
		return t
	case []any:
		if len(t) == 0 {
			return nil
		}
		for i := range t {
			t[i] = prune(t[i])
		}
		return t
	default:
		return v
	}
}

func clone(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, child := range t {
			out[k] = clone(child)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, child := range t {
			out[i] = clone(child)
		}
		return out
	default:
		return v
	}
}

var _ Store = (*MemoryStore)(nil)
