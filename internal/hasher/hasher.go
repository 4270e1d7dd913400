// Package hasher wraps the SHA-256 primitive every fingerprint depends on.
//
// The digest is only trusted after two checks pass: an injected capability
// probe (the host's view of whether the primitive has been tampered with) and
// a known-answer self-test. A failure is sticky: once the hasher is blocked it
// stays blocked for the life of the process.
package hasher

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"

	apperrors "github.com/address-guard/internal/errors"
)

// Known-answer vector for the self-test
const (
	SelfTestInput  = "abc"
	SelfTestDigest = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
)

// DigestFunc computes a 32-byte SHA-256 digest
type DigestFunc func(data []byte) [32]byte

// IntegrityCheck reports whether the digest primitive can be trusted.
// A non-nil error blocks the hasher.
type IntegrityCheck func(ctx context.Context) error

// Config configures a Hasher
type Config struct {
	// Digest overrides the SHA-256 implementation (default crypto/sha256)
	Digest DigestFunc
	// Probe is the host capability check (default: always available)
	Probe IntegrityCheck
}

// Hasher computes hex digests once the primitive has been verified
type Hasher struct {
	digest DigestFunc
	probe  IntegrityCheck

	mu      sync.RWMutex
	blocked error
}

// New creates a hasher and runs the integrity checks immediately.
// The returned hasher may already be blocked; check Err.
func New(ctx context.Context, cfg *Config) *Hasher {
	h := &Hasher{
		digest: sha256.Sum256,
		probe:  func(context.Context) error { return nil },
	}
	if cfg != nil {
		if cfg.Digest != nil {
			h.digest = cfg.Digest
		}
		if cfg.Probe != nil {
			h.probe = cfg.Probe
		}
	}

	_ = h.Verify(ctx)
	return h
}

// Verify runs the capability probe and the known-answer test. Once either
// fails the hasher is blocked permanently. A cancelled ctx is returned as is
// and does not block.
func (h *Hasher) Verify(ctx context.Context) error {
	if err := h.Err(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := h.probe(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return h.block(apperrors.NewHashingUnavailableError("capability probe failed", err))
	}

	sum := h.digest([]byte(SelfTestInput))
	if got := hex.EncodeToString(sum[:]); got != SelfTestDigest {
		return h.block(apperrors.NewHashingUnavailableError("self-test digest mismatch", nil))
	}

	return nil
}

// Err returns the blocking error, or nil when the hasher is usable
func (h *Hasher) Err() error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.blocked
}

// Blocked reports whether hashing is unavailable
func (h *Hasher) Blocked() bool {
	return h.Err() != nil
}

func (h *Hasher) block(err error) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.blocked == nil {
		h.blocked = err
	}
	return h.blocked
}

// Sha256Hex re-verifies the primitive and returns the lowercase
// 64-character hex digest of s
func (h *Hasher) Sha256Hex(ctx context.Context, s string) (string, error) {
	if err := h.Verify(ctx); err != nil {
		return "", err
	}

	sum := h.digest([]byte(s))
	return hex.EncodeToString(sum[:]), nil
}
