package ports

import "github.com/fanmerch/storefront/internal/core/domain"

// CredentialHasher hashes and verifies password secrets.
// Verify must compare in constant time.
type CredentialHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}

// TokenSigner issues session tokens.
type TokenSigner interface {
	Sign(claims domain.TokenClaims) (string, error)
}

// TokenVerifier decodes a session token, returning domain.ErrInvalidToken on a
// bad signature or expiry.
type TokenVerifier interface {
	Verify(token string) (domain.TokenClaims, error)
}

// TokenCodec both signs and verifies tokens.
type TokenCodec interface {
	TokenSigner
	TokenVerifier
}
