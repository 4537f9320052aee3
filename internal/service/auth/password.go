package auth

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

// TokenHashCost is the bcrypt cost used when hashing static tokens.
const TokenHashCost = bcrypt.DefaultCost

// HashVerifier compares a stored hash with a presented secret.
type HashVerifier interface {
	// Compare returns nil when secret matches hash. The Authenticator passes
	// the token's digest as secret.
	Compare(hash, secret string) error
}

// BcryptVerifier implements HashVerifier using bcrypt.
type BcryptVerifier struct{}

// NewBcryptVerifier creates a new BcryptVerifier.
func NewBcryptVerifier() *BcryptVerifier {
	return &BcryptVerifier{}
}

// Compare implements the HashVerifier interface using bcrypt.
func (v *BcryptVerifier) Compare(hash, secret string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret))
}

// HashToken returns the bcrypt hash of token, suitable for the
// *_TOKEN_HASH configuration keys. The token is reduced to its SHA-256
// digest first: bcrypt ignores input past 72 bytes, and two long tokens
// sharing a prefix must not verify against the same hash.
func HashToken(token string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(tokenDigest(token)), TokenHashCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// tokenDigest returns the hex-encoded SHA-256 of token.
func tokenDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
