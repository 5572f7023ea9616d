// Package roundid generates sortable identifiers for blackjack rounds.
package roundid

import (
	"encoding/base32"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// Crockford's base32 alphabet, as used by TypeID
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Length is the number of characters in an encoded round ID
const Length = 26

var encoding = base32.NewEncoding(alphabet).WithPadding(base32.NoPadding)

// Generator creates round IDs from UUIDv7 values
type Generator struct {
	rand io.Reader
}

// NewGenerator creates a generator reading random bits from r. A nil reader
// uses crypto/rand.
func NewGenerator(r io.Reader) *Generator {
	return &Generator{rand: r}
}

// Generate creates a new round ID using crypto/rand
func Generate() string {
	return NewGenerator(nil).Generate()
}

// Generate creates a new round ID. IDs generated later sort after earlier ones
// at millisecond resolution.
func (g *Generator) Generate() string {
	var (
		id  uuid.UUID
		err error
	)
	if g.rand != nil {
		id, err = uuid.NewV7FromReader(g.rand)
	} else {
		id, err = uuid.NewV7()
	}
	if err != nil {
		panic("failed to generate round id: " + err.Error())
	}
	return encoding.EncodeToString(id[:])
}

// Parse decodes a round ID back into its UUID
func Parse(id string) (uuid.UUID, error) {
	if len(id) != Length {
		return uuid.Nil, fmt.Errorf("round ID must be exactly %d characters, got %d", Length, len(id))
	}

	b, err := encoding.DecodeString(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid round ID %q: %w", id, err)
	}

	u, err := uuid.FromBytes(b)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid round ID %q: %w", id, err)
	}
	return u, nil
}

// Validate checks that id decodes to a version 7 UUID
func Validate(id string) error {
	u, err := Parse(id)
	if err != nil {
		return err
	}
	if u.Version() != 7 {
		return fmt.Errorf("round ID %q has UUID version %d, want 7", id, u.Version())
	}
	return nil
}
