package outbound

// PasswordService verifies login passwords against stored bcrypt hashes.
type PasswordService interface {
	HashPassword(password string) (string, error)
	VerifyPassword(password, hash string) (bool, error)
}

// TokenHasher digests refresh tokens for storage so a stolen credential-store
// row cannot be replayed as a token. Any constant-time primitive can back it.
type TokenHasher interface {
	Hash(secret string) (string, error)
	Verify(secret, digest string) (bool, error)
}
