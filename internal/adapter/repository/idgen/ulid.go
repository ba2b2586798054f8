package idgen

import (
	"strings"

	"github.com/oklog/ulid/v2"
)

// ULIDGenerator generates download tokens from ULIDs.
type ULIDGenerator struct{}

// NewULIDGenerator creates a new ULIDGenerator.
func NewULIDGenerator() *ULIDGenerator {
	return &ULIDGenerator{}
}

// Generate returns a new lowercase ULID. Tokens sort by creation time.
func (g *ULIDGenerator) Generate() string {
	return strings.ToLower(ulid.Make().String())
}
