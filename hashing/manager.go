package hashing

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Manager is a registry of named drivers with one default. It hashes new
// passwords with the default driver and verifies stored hashes with
// whichever driver produced them, which lets legacy digests and Argon2id
// hashes coexist during a migration.
//
// All Manager methods are safe for concurrent use.
type Manager struct {
	mu      sync.RWMutex
	drivers map[DriverName]Hasher
	def     DriverName
	log     *zap.Logger
}

// NewManager returns an empty Manager whose default is defaultDriver.
// Register that driver before hashing anything.
func NewManager(defaultDriver DriverName) *Manager {
	return &Manager{
		drivers: make(map[DriverName]Hasher),
		def:     defaultDriver,
		log:     zap.NewNop(),
	}
}

// NewDefaultManager registers an [Argon2idHasher] with default options as
// the default driver, plus the process-wide [LegacyHasher] for verifying
// digests that predate it.
func NewDefaultManager() (*Manager, error) {
	a2, err := NewArgon2idHasher(DefaultArgon2Options())
	if err != nil {
		return nil, fmt.Errorf("hashing: failed to create default argon2id hasher: %w", err)
	}
	m := NewManager(DriverArgon2id)
	_ = m.RegisterDriver(DriverArgon2id, a2)
	_ = m.RegisterDriver(DriverLegacy, DefaultLegacyHasher())
	return m, nil
}

// SetLogger replaces the Manager's logger. A nil logger disables logging.
func (m *Manager) SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	m.mu.Lock()
	m.log = l
	m.mu.Unlock()
}

// RegisterDriver adds or replaces the hasher registered under name.
func (m *Manager) RegisterDriver(name DriverName, h Hasher) error {
	if name == "" {
		return ErrEmptyDriverName
	}
	if h == nil {
		return ErrNilHasher
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drivers[name] = h
	return nil
}

// Driver returns the hasher registered under name.
func (m *Manager) Driver(name DriverName) (Hasher, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, ok := m.drivers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrDriverNotFound, name)
	}
	return h, nil
}

// HasDriver reports whether name is registered.
func (m *Manager) HasDriver(name DriverName) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.drivers[name]
	return ok
}

// SetDefaultDriver switches the default to an already registered driver.
func (m *Manager) SetDefaultDriver(name DriverName) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.drivers[name]; !ok {
		return fmt.Errorf("%w: %q is not registered; call RegisterDriver first",
			ErrDriverNotFound, name)
	}
	m.def = name
	return nil
}

// DefaultDriver returns the name of the default driver.
func (m *Manager) DefaultDriver() DriverName {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.def
}

// Make hashes password with the default driver.
func (m *Manager) Make(password string) (string, error) {
	h, err := m.resolveDefault()
	if err != nil {
		return "", err
	}
	return h.Make(password)
}

// Check verifies password against hash with the default driver.
func (m *Manager) Check(password, hash string) (bool, error) {
	h, err := m.resolveDefault()
	if err != nil {
		return false, err
	}
	return h.Check(password, hash)
}

// CheckWithDetect verifies password with the driver that produced hash.
// Unrecognised formats yield [ErrInvalidHash].
func (m *Manager) CheckWithDetect(password, hash string) (bool, error) {
	h, err := m.resolveByHash(hash)
	if err != nil {
		return false, err
	}
	return h.Check(password, hash)
}

// NeedsRehash reports whether hash came from a driver other than the default,
// or from the default driver with different parameters.
func (m *Manager) NeedsRehash(hash string) (bool, error) {
	detected, ok := DetectDriver(hash)
	if !ok {
		return false, ErrInvalidHash
	}
	if detected != m.DefaultDriver() {
		return true, nil
	}
	h, err := m.Driver(detected)
	if err != nil {
		return false, err
	}
	return h.NeedsRehash(hash)
}

// Info extracts metadata from hash with the driver that produced it.
func (m *Manager) Info(hash string) (HashInfo, error) {
	h, err := m.resolveByHash(hash)
	if err != nil {
		return HashInfo{}, err
	}
	return h.Info(hash)
}

// Upgrade verifies password against stored and, on a match, re-hashes it
// with the default driver when [Manager.NeedsRehash] says so. upgraded is
// empty when the password did not match or stored is already current.
func (m *Manager) Upgrade(password, stored string) (ok bool, upgraded string, err error) {
	ok, err = m.CheckWithDetect(password, stored)
	if err != nil || !ok {
		return false, "", err
	}
	needs, err := m.NeedsRehash(stored)
	if err != nil || !needs {
		return true, "", err
	}
	upgraded, err = m.Make(password)
	if err != nil {
		return true, "", fmt.Errorf("hashing: rehash failed: %w", err)
	}

	from, _ := DetectDriver(stored)
	m.logger().Info("password hash upgraded",
		zap.String("from", string(from)),
		zap.String("to", string(m.DefaultDriver())))
	return true, upgraded, nil
}

func (m *Manager) logger() *zap.Logger {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.log
}

func (m *Manager) resolveDefault() (Hasher, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, ok := m.drivers[m.def]
	if !ok {
		return nil, fmt.Errorf("%w: default driver %q has not been registered",
			ErrDriverNotFound, m.def)
	}
	return h, nil
}

func (m *Manager) resolveByHash(hash string) (Hasher, error) {
	name, ok := DetectDriver(hash)
	if !ok {
		return nil, ErrInvalidHash
	}
	return m.Driver(name)
}
