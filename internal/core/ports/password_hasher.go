package ports

// PasswordHasher produces and checks salted one-way password hashes.
type PasswordHasher interface {
	// Hash returns the salted hash of plain. Failures of the underlying
	// primitive surface as domain.ErrHashing.
	Hash(plain string) (string, error)

	// Verify reports whether plain matches hash. A legitimate mismatch is
	// (false, nil); a failure of the comparison primitive itself (for
	// example a malformed stored hash) is (false, domain.ErrVerification).
	Verify(plain, hash string) (bool, error)
}
