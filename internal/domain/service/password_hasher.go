// Package service defines interfaces for core, stateless domain logic:
// credential hashing, token issuance, payment gateways, mail and storage.
package service

// PasswordHasher abstracts the password hashing algorithm (bcrypt in infra),
// keeping the domain free of crypto imports.
type PasswordHasher interface {
	// Hash generates a salted hash from a plaintext password.
	Hash(password string) (string, error)

	// Check compares a plaintext password with a hash to see if they match.
	Check(password, hash string) bool
}
