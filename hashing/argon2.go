package hashing

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	// DefaultArgon2Memory is the memory cost in KiB (64 MiB).
	DefaultArgon2Memory uint32 = 64 * 1024

	// DefaultArgon2Time is the number of passes over memory.
	DefaultArgon2Time uint32 = 3

	// DefaultArgon2Threads is the degree of parallelism.
	DefaultArgon2Threads uint8 = 2

	// DefaultArgon2KeyLen is the derived key length in bytes.
	DefaultArgon2KeyLen uint32 = 32

	// DefaultArgon2SaltLen is the random salt length in bytes.
	DefaultArgon2SaltLen uint32 = 16
)

// Argon2Options configures an [Argon2idHasher]. The parameters are written
// into every hash, so changing them never breaks verification of older hashes.
type Argon2Options struct {
	Memory  uint32 // KiB, at least 8*Threads
	Time    uint32 // at least 1
	Threads uint8  // at least 1
	KeyLen  uint32 // bytes, at least 4
	SaltLen uint32 // bytes, at least 8
}

// DefaultArgon2Options returns the recommended production parameters.
func DefaultArgon2Options() Argon2Options {
	return Argon2Options{
		Memory:  DefaultArgon2Memory,
		Time:    DefaultArgon2Time,
		Threads: DefaultArgon2Threads,
		KeyLen:  DefaultArgon2KeyLen,
		SaltLen: DefaultArgon2SaltLen,
	}
}

func (o Argon2Options) validate() error {
	switch {
	case o.Time < 1:
		return fmt.Errorf("%w: argon2 time must be ≥ 1, got %d", ErrInvalidOption, o.Time)
	case o.Threads < 1:
		return fmt.Errorf("%w: argon2 threads must be ≥ 1, got %d", ErrInvalidOption, o.Threads)
	case o.Memory < 8*uint32(o.Threads):
		return fmt.Errorf("%w: argon2 memory %d KiB is below 8×threads", ErrInvalidOption, o.Memory)
	case o.KeyLen < 4:
		return fmt.Errorf("%w: argon2 key_len must be ≥ 4, got %d", ErrInvalidOption, o.KeyLen)
	case o.SaltLen < 8:
		return fmt.Errorf("%w: argon2 salt_len must be ≥ 8, got %d", ErrInvalidOption, o.SaltLen)
	}
	return nil
}

// Argon2idHasher hashes passwords with Argon2id and encodes them in PHC
// string format:
//
//	$argon2id$v=19$m=65536,t=3,p=2$<salt>$<key>
//
// Salt and key use unpadded standard base64. It is the target format for
// users migrated off the legacy digest.
//
// Argon2idHasher is immutable and safe for concurrent use.
type Argon2idHasher struct {
	opts Argon2Options
}

// NewArgon2idHasher validates opts and returns a hasher. Out-of-range
// parameters yield [ErrInvalidOption].
func NewArgon2idHasher(opts Argon2Options) (*Argon2idHasher, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &Argon2idHasher{opts: opts}, nil
}

// Driver returns [DriverArgon2id].
func (h *Argon2idHasher) Driver() DriverName { return DriverArgon2id }

// Options returns the configured parameters.
func (h *Argon2idHasher) Options() Argon2Options { return h.opts }

// Make hashes password under a fresh random salt.
func (h *Argon2idHasher) Make(password string) (string, error) {
	salt := make([]byte, h.opts.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("hashing: argon2id: failed to generate salt: %w", err)
	}
	o := h.opts
	key := argon2.IDKey([]byte(password), salt, o.Time, o.Memory, o.Threads, o.KeyLen)
	return phc{
		memory:  o.Memory,
		time:    o.Time,
		threads: o.Threads,
		salt:    salt,
		key:     key,
	}.String(), nil
}

// Check verifies password using the parameters stored in hash.
func (h *Argon2idHasher) Check(password, hash string) (bool, error) {
	p, err := parsePHC(hash)
	if err != nil {
		return false, err
	}
	key := argon2.IDKey([]byte(password), p.salt, p.time, p.memory, p.threads, uint32(len(p.key)))
	return subtle.ConstantTimeCompare(key, p.key) == 1, nil
}

// NeedsRehash reports whether any cost parameter in hash differs from the
// hasher's options.
func (h *Argon2idHasher) NeedsRehash(hash string) (bool, error) {
	p, err := parsePHC(hash)
	if err != nil {
		return false, err
	}
	o := h.opts
	return p.memory != o.Memory || p.time != o.Time ||
		p.threads != o.Threads || uint32(len(p.key)) != o.KeyLen, nil
}

// Info returns the parameters stored in hash.
//
// Returned [HashInfo].Params:
//   - "version" → int
//   - "memory"  → uint32 (KiB)
//   - "time"    → uint32
//   - "threads" → uint8
//   - "key_len" → uint32
func (h *Argon2idHasher) Info(hash string) (HashInfo, error) {
	p, err := parsePHC(hash)
	if err != nil {
		return HashInfo{}, err
	}
	return HashInfo{
		Driver: DriverArgon2id,
		Params: map[string]any{
			"version": p.version,
			"memory":  p.memory,
			"time":    p.time,
			"threads": p.threads,
			"key_len": uint32(len(p.key)),
		},
	}, nil
}

// phc is a decoded Argon2id PHC string.
type phc struct {
	version int
	memory  uint32
	time    uint32
	threads uint8
	salt    []byte
	key     []byte
}

func (p phc) String() string {
	return fmt.Sprintf("$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		DriverArgon2id, argon2.Version, p.memory, p.time, p.threads,
		base64.RawStdEncoding.EncodeToString(p.salt),
		base64.RawStdEncoding.EncodeToString(p.key))
}

func parsePHC(hash string) (*phc, error) {
	parts := strings.Split(hash, "$")
	if len(parts) != 6 || parts[0] != "" {
		return nil, fmt.Errorf("%w: expected 5 PHC segments", ErrInvalidHash)
	}
	if parts[1] != string(DriverArgon2id) {
		return nil, fmt.Errorf("%w: hash is %q, not argon2id", ErrAlgorithmMismatch, parts[1])
	}

	p := &phc{}
	if _, err := fmt.Sscanf(parts[2], "v=%d", &p.version); err != nil {
		return nil, fmt.Errorf("%w: version segment %q: %v", ErrInvalidHash, parts[2], err)
	}
	if p.version != argon2.Version {
		return nil, fmt.Errorf("%w: unsupported argon2 version %d", ErrInvalidHash, p.version)
	}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.memory, &p.time, &p.threads); err != nil {
		return nil, fmt.Errorf("%w: parameter segment %q: %v", ErrInvalidHash, parts[3], err)
	}
	if p.time < 1 || p.threads < 1 {
		return nil, fmt.Errorf("%w: parameter segment %q: zero cost", ErrInvalidHash, parts[3])
	}

	var err error
	if p.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return nil, fmt.Errorf("%w: salt: %v", ErrInvalidHash, err)
	}
	if p.key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil {
		return nil, fmt.Errorf("%w: key: %v", ErrInvalidHash, err)
	}
	if len(p.key) == 0 {
		return nil, fmt.Errorf("%w: empty key", ErrInvalidHash)
	}
	return p, nil
}
