package hashing

import "strings"

// DriverName identifies a hashing algorithm driver.
type DriverName string

const (
	// DriverLegacy selects the salted Adler-32 + SHA-256 digest.
	DriverLegacy DriverName = "legacy"
	// DriverArgon2id selects the Argon2id driver.
	DriverArgon2id DriverName = "argon2id"
)

// Hasher is satisfied by every password-hashing driver.
//
// Implementations must be safe for concurrent use.
type Hasher interface {
	// Make hashes a plaintext password and returns the encoded hash string.
	Make(password string) (string, error)

	// Check reports whether password matches hash. A mismatch is
	// (false, nil); a malformed hash or one from another driver is an error.
	Check(password, hash string) (bool, error)

	// NeedsRehash reports whether hash was produced with parameters that
	// differ from the driver's current configuration.
	NeedsRehash(hash string) (bool, error)

	// Info extracts metadata from hash without verifying it.
	Info(hash string) (HashInfo, error)

	// Driver returns the DriverName implemented by this hasher.
	Driver() DriverName
}

// HashInfo carries metadata about an encoded hash.
type HashInfo struct {
	// Driver is the algorithm that produced the hash.
	Driver DriverName

	// Params holds driver-specific values. See each driver's Info method.
	Params map[string]any
}

// DetectDriver guesses which driver produced hash from its shape alone.
// The second return value is false when the format is not recognised.
func DetectDriver(hash string) (DriverName, bool) {
	switch {
	case strings.HasPrefix(hash, "$argon2id$"):
		return DriverArgon2id, true
	case isLegacyDigest(hash):
		return DriverLegacy, true
	default:
		return "", false
	}
}
