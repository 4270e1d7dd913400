// Package fingerprint derives the visual grid and token sequence a user
// glances at to recognize an address. Both are pure functions of the
// address's SHA-256 digest.
package fingerprint

import (
	"context"
	"fmt"
	"strconv"
)

const (
	// DigestHexLen is the length of a hex SHA-256 digest
	DigestHexLen = 64
	// DefaultGridSize is the default N of the N×N grid
	DefaultGridSize = 8
	// TokenCount is the fixed length of the token sequence
	TokenCount = 4
	// tokenWidth is the number of hex digits consumed per token
	tokenWidth = 4
)

// TokenPool is the fixed ordered pool the token sequence indexes into.
// Reordering it changes every fingerprint ever shown to a user.
var TokenPool = []string{
	"🚀", "🛡️", "💎", "🔥", "FOX", "CAT", "UNI", "RAIN", "CLOV", "STAR", "MOON", "WAVE", "MUSH", "ICE", "GUIT",
	"LION", "TIG", "PAN", "KOA", "OCT", "BUTT", "SUN", "EARTH", "BOLT", "ANCH", "UFO", "CROWN", "CRYST", "DNA", "LAB",
}

// Fingerprint is the derived visual identity of an address
type Fingerprint struct {
	Digest  string   `json:"digest"`
	Grid    [][]int  `json:"grid"`    // N×N, each cell 0-15
	Tokens  []int    `json:"tokens"`  // Indices into TokenPool
	Symbols []string `json:"symbols"` // TokenPool entries for Tokens
}

// Digester produces the hex digest a fingerprint is derived from
type Digester interface {
	Sha256Hex(ctx context.Context, s string) (string, error)
}

// Generate derives a fingerprint from a 64-character lowercase hex digest
func Generate(digest string, gridSize int) (*Fingerprint, error) {
	if err := validateDigest(digest); err != nil {
		return nil, err
	}
	if gridSize < 1 {
		return nil, fmt.Errorf("grid size must be at least 1, got %d", gridSize)
	}

	return &Fingerprint{
		Digest:  digest,
		Grid:    grid(digest, gridSize),
		Tokens:  tokens(digest),
		Symbols: symbols(digest),
	}, nil
}

// grid fills cell (i,j) from hex digit (i*N+j) mod 64, wrapping when N*N > 64
func grid(digest string, n int) [][]int {
	rows := make([][]int, n)
	for i := 0; i < n; i++ {
		row := make([]int, n)
		for j := 0; j < n; j++ {
			row[j] = hexValue(digest[(i*n+j)%len(digest)])
		}
		rows[i] = row
	}
	return rows
}

func tokens(digest string) []int {
	out := make([]int, TokenCount)
	for k := 0; k < TokenCount; k++ {
		chunk := digest[k*tokenWidth : k*tokenWidth+tokenWidth]
		// validateDigest guarantees chunk is hex
		v, _ := strconv.ParseUint(chunk, 16, 32)
		out[k] = int(v % uint64(len(TokenPool)))
	}
	return out
}

func symbols(digest string) []string {
	idx := tokens(digest)
	out := make([]string, len(idx))
	for i, t := range idx {
		out[i] = TokenPool[t]
	}
	return out
}

func validateDigest(digest string) error {
	if len(digest) != DigestHexLen {
		return fmt.Errorf("digest must be %d hex characters, got %d", DigestHexLen, len(digest))
	}
	for i := 0; i < len(digest); i++ {
		c := digest[i]
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
			return fmt.Errorf("digest has non lowercase-hex character %q at %d", c, i)
		}
	}
	return nil
}

func hexValue(c byte) int {
	if c >= 'a' {
		return int(c-'a') + 10
	}
	return int(c - '0')
}

// Equal reports whether two fingerprints render identically
func (f *Fingerprint) Equal(other *Fingerprint) bool {
	if f == nil || other == nil {
		return f == other
	}
	if len(f.Grid) != len(other.Grid) || len(f.Tokens) != len(other.Tokens) {
		return false
	}
	for i := range f.Grid {
		if len(f.Grid[i]) != len(other.Grid[i]) {
			return false
		}
		for j := range f.Grid[i] {
			if f.Grid[i][j] != other.Grid[i][j] {
				return false
			}
		}
	}
	for i := range f.Tokens {
		if f.Tokens[i] != other.Tokens[i] {
			return false
		}
	}
	return true
}

// Generator derives fingerprints straight from addresses
type Generator struct {
	digester Digester
	gridSize int
}

// NewGenerator creates a generator; a non-positive gridSize selects DefaultGridSize
func NewGenerator(digester Digester, gridSize int) *Generator {
	if gridSize <= 0 {
		gridSize = DefaultGridSize
	}
	return &Generator{
		digester: digester,
		gridSize: gridSize,
	}
}

// GridSize returns the configured N
func (g *Generator) GridSize() int {
	return g.gridSize
}

// FromAddress hashes address and derives its fingerprint
func (g *Generator) FromAddress(ctx context.Context, address string) (*Fingerprint, error) {
	digest, err := g.digester.Sha256Hex(ctx, address)
	if err != nil {
		return nil, err
	}
	return Generate(digest, g.gridSize)
}
