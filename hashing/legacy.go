package hashing

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/hasbyte1/go-password-digest/adler"
)

const (
	// DefaultLegacySalt is the first-level salt used until one is configured.
	DefaultLegacySalt = "put your soul(or salt) here"

	// DefaultLegacyModulus is the checksum modulus used until one is configured.
	DefaultLegacyModulus = adler.DefaultModulus

	// LegacyDigestLen is the length of every legacy digest: a SHA-256 sum in hex.
	LegacyDigestLen = sha256.Size * 2
)

// LegacyOptions configures a [LegacyHasher].
type LegacyOptions struct {
	// Salt is prepended to every digest input. Empty means "keep current".
	Salt string

	// Modulus reduces both checksum accumulators. Zero means "keep current".
	Modulus uint32

	// Logger receives debug events. Nil disables logging.
	Logger *zap.Logger
}

// DefaultLegacyOptions returns the historical salt and modulus.
func DefaultLegacyOptions() LegacyOptions {
	return LegacyOptions{
		Salt:    DefaultLegacySalt,
		Modulus: DefaultLegacyModulus,
	}
}

// LegacyHasher reproduces the legacy password digest
//
//	SHA256(salt + adlerHex(firstHalf(password)) + password)
//
// rendered as 64 uppercase hex characters. The digest is unsalted per user
// and fast to compute; it exists so that previously stored hashes keep
// verifying. New hashes should come from [Argon2idHasher], and
// [Manager.Upgrade] migrates users on their next login.
//
// # Configuration
//
// Salt and modulus are mutable: [LegacyHasher.Configure] and the overrides
// accepted by [LegacyHasher.GetHash] persist for every later call. Empty or
// zero values leave the current setting unchanged.
//
// # Thread safety
//
// LegacyHasher is safe for concurrent use. GetHash applies its overrides and
// snapshots the (salt, modulus) pair under a single lock, so a digest is never
// computed from a salt and a modulus that were not configured together.
type LegacyHasher struct {
	mu      sync.RWMutex
	salt    string
	modulus uint32
	log     *zap.Logger
}

// NewLegacyHasher returns a LegacyHasher starting from the defaults with
// opts applied on top.
func NewLegacyHasher(opts LegacyOptions) *LegacyHasher {
	h := &LegacyHasher{
		salt:    DefaultLegacySalt,
		modulus: DefaultLegacyModulus,
		log:     opts.Logger,
	}
	if h.log == nil {
		h.log = zap.NewNop()
	}
	h.configure(opts.Salt, opts.Modulus)
	return h
}

// Driver returns [DriverLegacy].
func (h *LegacyHasher) Driver() DriverName { return DriverLegacy }

// Options returns the current salt and modulus.
func (h *LegacyHasher) Options() LegacyOptions {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return LegacyOptions{Salt: h.salt, Modulus: h.modulus, Logger: h.log}
}

// Configure replaces the salt when salt is non-empty and the modulus when
// modulus is positive. Other values are ignored.
func (h *LegacyHasher) Configure(salt string, modulus uint32) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.configure(salt, modulus)
}

func (h *LegacyHasher) configure(salt string, modulus uint32) {
	if salt != "" {
		h.salt = salt
	}
	if modulus > 0 {
		h.modulus = modulus
	}
}

// Checksum narrows text to one byte per character and checksums length
// bytes from start with the configured modulus. See [adler.Window] for the
// defaults applied to start and length.
//
// Text containing characters above U+00FF yields [ErrEncodingOverflow]; a
// window past the end of the text yields [ErrIndexOutOfRange].
func (h *LegacyHasher) Checksum(text string, start, length int) (adler.Sum, error) {
	data, err := narrow(text)
	if err != nil {
		return 0, err
	}
	h.mu.RLock()
	mod := h.modulus
	h.mu.RUnlock()
	return adler.Window(data, start, length, mod)
}

// GetHash applies the salt and modulus overrides as [LegacyHasher.Configure]
// would, then returns the legacy digest of password.
//
// Passwords with characters above U+00FF are re-encoded once through the
// UTF-16 fallback before hashing. A salt with such characters cannot be
// re-encoded and yields [ErrEncodingOverflow].
func (h *LegacyHasher) GetHash(password, salt string, modulus uint32) (string, error) {
	h.mu.Lock()
	h.configure(salt, modulus)
	salt, modulus = h.salt, h.modulus
	h.mu.Unlock()

	return h.digest(password, salt, modulus)
}

// Make returns the legacy digest of password with the current configuration.
func (h *LegacyHasher) Make(password string) (string, error) {
	return h.GetHash(password, "", 0)
}

// Check recomputes the digest of password and compares it with hash in
// constant time.
func (h *LegacyHasher) Check(password, hash string) (bool, error) {
	if !isLegacyDigest(hash) {
		return false, fmt.Errorf("%w: hash is not a legacy digest", ErrAlgorithmMismatch)
	}
	computed, err := h.Make(password)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare([]byte(computed), []byte(hash)) == 1, nil
}

// NeedsRehash always reports false for a well-formed digest: the legacy
// format carries no parameters to compare. [Manager.NeedsRehash] still flags
// legacy digests whenever another driver is the default.
func (h *LegacyHasher) NeedsRehash(hash string) (bool, error) {
	if !isLegacyDigest(hash) {
		return false, fmt.Errorf("%w: hash is not a legacy digest", ErrAlgorithmMismatch)
	}
	return false, nil
}

// Info describes the fixed composition of a legacy digest.
//
// Returned [HashInfo].Params:
//   - "algorithm" → string ("sha256")
//   - "checksum"  → string ("adler32")
//   - "modulus"   → uint32 (current configuration; not encoded in the hash)
func (h *LegacyHasher) Info(hash string) (HashInfo, error) {
	if !isLegacyDigest(hash) {
		return HashInfo{}, fmt.Errorf("%w: hash is not a legacy digest", ErrAlgorithmMismatch)
	}
	h.mu.RLock()
	mod := h.modulus
	h.mu.RUnlock()
	return HashInfo{
		Driver: DriverLegacy,
		Params: map[string]any{
			"algorithm": "sha256",
			"checksum":  "adler32",
			"modulus":   mod,
		},
	}, nil
}

func (h *LegacyHasher) digest(password, salt string, modulus uint32) (string, error) {
	pw, err := narrow(password)
	if err != nil {
		h.log.Debug("password is not single-byte safe, applying utf-16 fallback",
			zap.Int("runes", len([]rune(password))))
		wide, werr := widen(password)
		if werr != nil {
			return "", werr
		}
		password = wide
		if pw, err = narrow(password); err != nil {
			return "", err
		}
	}

	sum, err := adler.Window(pw, 0, 0, modulus)
	if err != nil {
		return "", err
	}

	// Only the salt can still overflow here.
	input, err := narrow(salt + sum.String() + password)
	if err != nil {
		return "", err
	}

	d := sha256.Sum256(input)
	return strings.ToUpper(hex.EncodeToString(d[:])), nil
}

// isLegacyDigest reports whether s is exactly 64 uppercase hex digits.
func isLegacyDigest(s string) bool {
	if len(s) != LegacyDigestLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'A' || c > 'F') {
			return false
		}
	}
	return true
}

// ──────────────────────────────────────────────────────────────────────────────
// Process-wide default
// ──────────────────────────────────────────────────────────────────────────────

var defaultLegacy = NewLegacyHasher(DefaultLegacyOptions())

// DefaultLegacyHasher returns the process-wide LegacyHasher used by
// [Configure] and [GetHash].
func DefaultLegacyHasher() *LegacyHasher { return defaultLegacy }

// Configure updates the process-wide legacy configuration.
func Configure(salt string, modulus uint32) {
	defaultLegacy.Configure(salt, modulus)
}

// GetHash computes a legacy digest with the process-wide configuration,
// applying and persisting any non-empty overrides first.
func GetHash(password, salt string, modulus uint32) (string, error) {
	return defaultLegacy.GetHash(password, salt, modulus)
}
