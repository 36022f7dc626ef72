package entities

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Snapshot is the complete application state. It is loaded and persisted as a
// single JSON document.
type Snapshot struct {
	Users         []User   `json:"users"`
	Books         []Book   `json:"books"`
	Reviews       []Review `json:"reviews"`
	CurrentUserID *string  `json:"currentUserId"`
}

// NewSnapshot returns an empty snapshot with non-nil collections so that it
// encodes as arrays rather than nulls.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Users:   []User{},
		Books:   []Book{},
		Reviews: []Review{},
	}
}

// Clone returns a deep copy of the snapshot.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}

	c := &Snapshot{
		Users:   append(make([]User, 0, len(s.Users)), s.Users...),
		Books:   make([]Book, 0, len(s.Books)),
		Reviews: append(make([]Review, 0, len(s.Reviews)), s.Reviews...),
	}
	for _, b := range s.Books {
		if b.ReleaseAt != nil {
			at := *b.ReleaseAt
			b.ReleaseAt = &at
		}
		c.Books = append(c.Books, b)
	}
	if s.CurrentUserID != nil {
		id := *s.CurrentUserID
		c.CurrentUserID = &id
	}
	return c
}

// Encode renders the snapshot as indented JSON.
func (s *Snapshot) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses a snapshot document. The document must be an object
// whose users, books and reviews members are all present and are arrays;
// anything else yields ErrInvalidSnapshot.
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	if err := ValidateSnapshotShape(data); err != nil {
		return nil, err
	}

	snap := NewSnapshot()
	if err := json.Unmarshal(data, snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	return snap, nil
}

// ValidateSnapshotShape checks the raw document shape without decoding the
// entities themselves.
func ValidateSnapshotShape(data []byte) error {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil || doc == nil {
		return ErrInvalidSnapshot
	}

	for _, key := range []string{"users", "books", "reviews"} {
		raw, ok := doc[key]
		if !ok {
			return ErrInvalidSnapshot
		}
		if trimmed := bytes.TrimSpace(raw); len(trimmed) == 0 || trimmed[0] != '[' {
			return ErrInvalidSnapshot
		}
	}
	return nil
}

// SnapshotRecord stores a serialized snapshot in the relational backend.
type SnapshotRecord struct {
	Key       string    `gorm:"primaryKey;size:100"`
	Data      string    `gorm:"type:text"`
	UpdatedAt time.Time
}

func (SnapshotRecord) TableName() string {
	return "snapshots"
}
