package store

import (
	"strings"

	"github.com/google/uuid"
)

// Identifier prefixes, one per entity kind.
const (
	UserIDPrefix   = "u_"
	BookIDPrefix   = "b_"
	ReviewIDPrefix = "r_"
)

// IDGenerator returns a new unique identifier carrying the given prefix.
type IDGenerator func(prefix string) string

// NewID returns prefix followed by a random (version 4) UUID without dashes.
func NewID(prefix string) string {
	return prefix + strings.ReplaceAll(uuid.NewString(), "-", "")
}
