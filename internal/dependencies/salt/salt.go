package salt

import "github.com/google/uuid"

// Generator supplies the per-entity salt mixed into derived game and
// tournament addresses, and opaque tokens such as session ids
type Generator interface {
	New() string
}

// UUIDGenerator produces random version 4 UUIDs
type UUIDGenerator struct{}

// New creates a new UUIDGenerator
func New() *UUIDGenerator {
	return &UUIDGenerator{}
}

// New returns a fresh UUID string
func (g *UUIDGenerator) New() string {
	return uuid.NewString()
}
