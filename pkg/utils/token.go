package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"time"
)

const temporaryTokenBytes = 32

// TemporaryToken is a single-use credential sent to a user by email. Only Hash
// and ExpiresAt are persisted; Plain leaves the server inside a link.
type TemporaryToken struct {
	Plain     string
	Hash      string
	ExpiresAt time.Time
}

// TokenCodec issues and checks email verification and password reset tokens.
type TokenCodec struct {
	now func() time.Time
}

func NewTokenCodec() *TokenCodec {
	return &TokenCodec{now: time.Now}
}

// NewTokenCodecWithClock is used by tests that need to move time forward.
func NewTokenCodecWithClock(now func() time.Time) *TokenCodec {
	return &TokenCodec{now: now}
}

// Issue generates a random token valid for ttl.
func (c *TokenCodec) Issue(ttl time.Duration) (*TemporaryToken, error) {
	buf := make([]byte, temporaryTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("generating temporary token: %w", err)
	}

	plain := hex.EncodeToString(buf)
	return &TemporaryToken{
		Plain:     plain,
		Hash:      c.Hash(plain),
		ExpiresAt: c.now().Add(ttl),
	}, nil
}

// Hash returns the SHA-256 hex digest stored in place of the plaintext.
func (c *TokenCodec) Hash(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}

// Verify reports whether plain matches storedHash and expiresAt is still ahead.
func (c *TokenCodec) Verify(plain, storedHash string, expiresAt *time.Time) bool {
	if plain == "" || storedHash == "" || expiresAt == nil {
		return false
	}

	if !c.Matches(plain, storedHash) {
		return false
	}

	return c.now().Before(*expiresAt)
}

// Matches compares the digest of plain with storedHash in constant time.
func (c *TokenCodec) Matches(plain, storedHash string) bool {
	if plain == "" || storedHash == "" {
		return false
	}
	presented := c.Hash(plain)
	return subtle.ConstantTimeCompare([]byte(presented), []byte(storedHash)) == 1
}

// Now exposes the codec clock so callers compare expiries against the same time source.
func (c *TokenCodec) Now() time.Time {
	return c.now()
}
