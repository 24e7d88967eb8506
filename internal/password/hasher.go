// Package password provides password hashing and verification.
package password

// Hasher is the interface credential hashing algorithms implement.
// Hashes are irreversible; the plaintext is never stored.
type Hasher interface {
	// Hash derives a storable hash from a plaintext password.
	Hash(password string) (string, error)

	// Verify reports whether the password matches the stored hash.
	// A mismatch is not an error.
	Verify(password, hash string) (bool, error)
}
