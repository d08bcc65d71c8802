package models

import (
	"encoding/json"
	"strings"
)

// Patch is a field-level partial update keyed by JSON field name. Keys may
// address nested fields with slashes ("notes/kitchen"). A nil value clears
// the field. The same patch is sent to the remote store and applied to the
// cached copy so both sides merge identically.
type Patch map[string]any

// Without returns a copy of p minus the given keys.
func (p Patch) Without(keys ...string) Patch {
	out := make(Patch, len(p))
	for k, v := range p {
		out[k] = v
	}
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

// ApplyPatch merges p into item and returns the merged copy. The id field is
// never changed by a patch.
func ApplyPatch[T any](item T, p Patch) (T, error) {
	var zero T
	data, err := json.Marshal(item)
	if err != nil {
		return zero, err
	}
	fields := map[string]any{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return zero, err
	}
	for k, v := range p.Without("id") {
		setPath(fields, strings.Split(strings.Trim(k, "/"), "/"), v)
	}
	merged, err := json.Marshal(fields)
	if err != nil {
		return zero, err
	}
	var out T
	if err := json.Unmarshal(merged, &out); err != nil {
		return zero, err
	}
	return out, nil
}

func setPath(m map[string]any, segs []string, v any) {
	if len(segs) == 1 {
		if v == nil {
			delete(m, segs[0])
			return
		}
		m[segs[0]] = v
		return
	}
	child, ok := m[segs[0]].(map[string]any)
	if !ok {
		if v == nil {
			return
		}
		child = map[string]any{}
		m[segs[0]] = child
	}
	setPath(child, segs[1:], v)
}
