package ports

// PasswordHasher is the one-way hashing primitive used for credential
// storage and verification.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) (bool, error)
}
