// Package hashing computes and verifies password hashes through a small set
// of interchangeable drivers.
//
// # Legacy digest
//
// [LegacyHasher] reproduces an existing digest bit for bit:
//
//	SHA256(salt + adlerHex(firstHalf(password)) + password)
//
// where adlerHex is an Adler-32 checksum (see package adler) with a
// configurable modulus, written as its four little-endian bytes in uppercase
// hex. The result is 64 uppercase hex characters. The package-level [GetHash]
// and [Configure] functions drive a process-wide instance:
//
//	hashing.Configure("my first-level salt", 0) // keep modulus 65521
//	digest, err := hashing.GetHash("hunter2", "", 0)
//
// Text is fed to the digest one byte per character, so characters above
// U+00FF do not fit. A password containing them is dumped as UTF-16LE and
// read back as ASCII (bytes from 0x80 become '?') before hashing. The
// mapping is lossy and distinct passwords can collide; it is kept because
// stored digests depend on it. A salt containing such characters is an
// [ErrEncodingOverflow] error.
//
// # Migrating away
//
// The legacy digest is fast and shares one salt between all users. The
// [Manager] verifies either format and re-hashes with the default driver,
// normally [Argon2idHasher]:
//
//	m, _ := hashing.NewDefaultManager()
//	ok, upgraded, err := m.Upgrade(password, stored)
//	if ok && upgraded != "" {
//	    persist(userID, upgraded)
//	}
package hashing
