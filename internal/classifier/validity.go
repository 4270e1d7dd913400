package classifier

import (
	"fmt"
	"strings"

	"github.com/address-guard/internal/types"
)

// Default length gate for addresses with no recognizable shape.
// The bounds are heuristic, not derived from any address format.
const (
	DefaultMinLength = 26
	DefaultMaxLength = 80
)

// Policy configures the validity heuristic
type Policy struct {
	MinLength int
	MaxLength int
}

// DefaultPolicy returns the 26..80 length gate
func DefaultPolicy() Policy {
	return Policy{
		MinLength: DefaultMinLength,
		MaxLength: DefaultMaxLength,
	}
}

// Validate checks the policy bounds are usable
func (p Policy) Validate() error {
	if p.MinLength < 0 {
		return fmt.Errorf("min length must not be negative, got %d", p.MinLength)
	}
	if p.MaxLength < p.MinLength {
		return fmt.Errorf("max length %d is below min length %d", p.MaxLength, p.MinLength)
	}
	return nil
}

// IsValid reports whether address passes the shape heuristic. A classified
// address is valid by construction; an unknown one must fit the length gate.
func (p Policy) IsValid(address string) bool {
	network := Classify(address)
	if network != types.NetworkUnknown {
		return true
	}

	n := len(strings.TrimSpace(address))
	return n >= p.MinLength && n <= p.MaxLength
}

// IsSuspicious is the negation of IsValid
func (p Policy) IsSuspicious(address string) bool {
	return !p.IsValid(address)
}

// IsValid applies the default policy
func IsValid(address string) bool {
	return DefaultPolicy().IsValid(address)
}
