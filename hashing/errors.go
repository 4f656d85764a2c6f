package hashing

import (
	"errors"

	"github.com/hasbyte1/go-password-digest/adler"
)

// Sentinel errors returned by hashing operations.
//
// Use [errors.Is] for comparisons:
//
//	_, err := hashing.GetHash(password, "", 0)
//	if errors.Is(err, hashing.ErrEncodingOverflow) {
//	    // the configured salt is not single-byte safe
//	}
var (
	// ErrInvalidHash is returned when a hash string cannot be parsed.
	ErrInvalidHash = errors.New("hashing: invalid or unrecognised hash string")

	// ErrInvalidOption is returned when a constructor receives a parameter
	// outside the allowed range.
	ErrInvalidOption = errors.New("hashing: invalid option value")

	// ErrDriverNotFound is returned by [Manager] lookups for a driver that
	// has not been registered.
	ErrDriverNotFound = errors.New("hashing: driver not found")

	// ErrEmptyDriverName is returned by [Manager.RegisterDriver] for "".
	ErrEmptyDriverName = errors.New("hashing: driver name must not be empty")

	// ErrNilHasher is returned by [Manager.RegisterDriver] for a nil [Hasher].
	ErrNilHasher = errors.New("hashing: hasher must not be nil")

	// ErrAlgorithmMismatch is returned when a hash was produced by a
	// different driver than the one asked to handle it.
	ErrAlgorithmMismatch = errors.New("hashing: hash was produced by a different algorithm")

	// ErrEncodingOverflow is returned when text cannot be represented with
	// one byte per character. Passwords get one re-encoding attempt before
	// this surfaces; salts get none.
	ErrEncodingOverflow = errors.New("hashing: character does not fit in a single byte")

	// ErrIndexOutOfRange is returned by [LegacyHasher.Checksum] when the
	// requested window reaches past the end of the text.
	ErrIndexOutOfRange = adler.ErrOutOfRange
)
