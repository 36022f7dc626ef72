package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSnapshot(t *testing.T) {
	t.Run("accepts a complete document", func(t *testing.T) {
		snap, err := DecodeSnapshot([]byte(`{
			"users": [{"id": "u_1", "name": "Ann", "email": "ann@example.com", "password": "pw", "role": "admin"}],
			"books": [{"id": "b_1", "title": "Dune", "author": "Herbert", "createdAt": 1700000000000, "releaseAt": 1800000000000}],
			"reviews": [],
			"currentUserId": "u_1"
		}`))
		require.NoError(t, err)

		require.Len(t, snap.Users, 1)
		assert.Equal(t, RoleAdmin, snap.Users[0].Role)
		require.Len(t, snap.Books, 1)
		require.NotNil(t, snap.Books[0].ReleaseAt)
		assert.Equal(t, Timestamp(1800000000000), *snap.Books[0].ReleaseAt)
		assert.Empty(t, snap.Reviews)
		require.NotNil(t, snap.CurrentUserID)
		assert.Equal(t, "u_1", *snap.CurrentUserID)
	})

	t.Run("accepts a null session pointer", func(t *testing.T) {
		snap, err := DecodeSnapshot([]byte(`{"users":[],"books":[],"reviews":[],"currentUserId":null}`))
		require.NoError(t, err)
		assert.Nil(t, snap.CurrentUserID)
	})

	invalid := map[string]string{
		"not json":         `nope`,
		"array document":   `[]`,
		"null document":    `null`,
		"missing reviews":  `{"users":[],"books":[]}`,
		"books not array":  `{"users":[],"books":{},"reviews":[]}`,
		"users null":       `{"users":null,"books":[],"reviews":[]}`,
		"reviews a string": `{"users":[],"books":[],"reviews":"[]"}`,
	}
	for name, doc := range invalid {
		t.Run("rejects "+name, func(t *testing.T) {
			_, err := DecodeSnapshot([]byte(doc))
			assert.ErrorIs(t, err, ErrInvalidSnapshot)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestSnapshotEncodeDecode(t *testing.T) {
	release := Timestamp(1800000000000)
	current := "u_1"
	original := &Snapshot{
		Users:         []User{{ID: "u_1", Name: "Ann", Email: "ann@example.com", Password: "pw", Role: RoleUser}},
		Books:         []Book{{ID: "b_1", Title: "Dune", Author: "Herbert", Description: "Spice", CreatedAt: 1700000000000, ReleaseAt: &release}},
		Reviews:       []Review{{ID: "r_1", BookID: "b_1", UserID: "u_1", Rating: 4, Text: "good", CreatedAt: 1700000000500}},
		CurrentUserID: &current,
	}

	data, err := original.Encode()
	require.NoError(t, err)

	decoded, err := DecodeSnapshot(data)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestSnapshotClone(t *testing.T) {
	release := Timestamp(10)
	current := "u_1"
	original := &Snapshot{
		Users:         []User{{ID: "u_1"}},
		Books:         []Book{{ID: "b_1", ReleaseAt: &release}},
		Reviews:       []Review{{ID: "r_1", Rating: 3}},
		CurrentUserID: &current,
	}

	clone := original.Clone()
	assert.Equal(t, original, clone)

	clone.Users[0].Name = "changed"
	clone.Reviews[0].Rating = 5
	*clone.Books[0].ReleaseAt = 20
	*clone.CurrentUserID = "u_2"

	assert.Empty(t, original.Users[0].Name)
	assert.Equal(t, 3, original.Reviews[0].Rating)
	assert.Equal(t, Timestamp(10), *original.Books[0].ReleaseAt)
	assert.Equal(t, "u_1", *original.CurrentUserID)
}

func TestBookCountdown(t *testing.T) {
	now := FromTime(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	t.Run("splits remaining time", func(t *testing.T) {
		release := now + Timestamp((26*time.Hour+3*time.Minute+4*time.Second)/time.Millisecond)
		book := Book{ReleaseAt: &release}

		c := book.Countdown(now)
		assert.False(t, c.Released)
		assert.Equal(t, int64(1), c.Days)
		assert.Equal(t, int64(2), c.Hours)
		assert.Equal(t, int64(3), c.Minutes)
		assert.Equal(t, int64(4), c.Seconds)
		assert.Equal(t, "1d 02:03:04", c.Label)
		assert.True(t, book.IsUpcoming(now))
	})

	t.Run("released at or after the release time", func(t *testing.T) {
		release := now
		book := Book{ReleaseAt: &release}

		assert.True(t, book.Countdown(now).Released)
		assert.Equal(t, "Released", book.Countdown(now).Label)
		assert.False(t, book.IsUpcoming(now))
	})

	t.Run("no release time", func(t *testing.T) {
		assert.True(t, Book{}.Countdown(now).Released)
		assert.False(t, Book{}.IsUpcoming(now))
	})
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ann@example.com", NormalizeEmail("  Ann@Example.COM \t"))
}

func TestNewError(t *testing.T) {
	err := NewError(ErrConflict, "email already registered")
	assert.EqualError(t, err, "email already registered")
	assert.ErrorIs(t, err, ErrConflict)
	assert.NotErrorIs(t, err, ErrValidation)
}
