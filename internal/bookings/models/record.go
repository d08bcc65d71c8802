package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// Record carries the identity and audit stamps shared by every keyed entity.
// The remote key is authoritative for ID; the stored copy is informational.
type Record struct {
	ID        string    `json:"id"`
	CreatedAt Timestamp `json:"createdAt"`
	UpdatedAt Timestamp `json:"updatedAt"`
}

// Key returns the entity id.
func (r Record) Key() string { return r.ID }

// Meta exposes the record for repositories that assign ids and stamps.
func (r *Record) Meta() *Record { return r }

// Stamp sets both timestamps for a newly created entity.
func (r *Record) Stamp(now time.Time) {
	r.CreatedAt = Timestamp{now}
	r.UpdatedAt = Timestamp{now}
}

// Keyed is satisfied by every entity embedding Record.
type Keyed interface {
	Key() string
}

// Timestamp reads both ISO-8601 strings and epoch-millisecond numbers, since
// older clients wrote Date.now() values. It always writes RFC 3339.
type Timestamp struct {
	time.Time
}

// Now returns the current time as a Timestamp.
func Now() Timestamp { return Timestamp{time.Now().UTC()} }

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			t.Time = time.Time{}
			return nil
		}
		parsed, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return err
		}
		t.Time = parsed
		return nil
	}
	ms, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return err
	}
	t.Time = time.UnixMilli(int64(ms)).UTC()
	return nil
}
