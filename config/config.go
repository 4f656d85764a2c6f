// Package config loads hashing parameters from a file, from memory, or from
// PASSHASH_* environment variables, and builds a ready [hashing.Manager].
//
// Keys (YAML shown, any format viper reads works):
//
//	default: argon2id          # or "legacy"
//	legacy:
//	  salt: "first-level salt" # empty keeps the built-in salt
//	  modulus: 65521           # 0 keeps the built-in modulus
//	argon2:
//	  memory: 65536
//	  time: 3
//	  threads: 2
//	  key_len: 32
//	  salt_len: 16
//
// Environment variables override file values: PASSHASH_LEGACY_SALT,
// PASSHASH_ARGON2_MEMORY, and so on.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/hasbyte1/go-password-digest/hashing"
)

// EnvPrefix prefixes every environment variable read by [Load].
const EnvPrefix = "PASSHASH"

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config holds all hashing parameters.
type Config struct {
	Default string       `mapstructure:"default" validate:"oneof=legacy argon2id"`
	Legacy  LegacyConfig `mapstructure:"legacy"`
	Argon2  Argon2Config `mapstructure:"argon2"`
}

// LegacyConfig mirrors [hashing.LegacyOptions].
type LegacyConfig struct {
	Salt    string `mapstructure:"salt" validate:"latin1"`
	Modulus uint32 `mapstructure:"modulus"`
}

// Argon2Config mirrors [hashing.Argon2Options].
type Argon2Config struct {
	Memory  uint32 `mapstructure:"memory" validate:"gte=8"`
	Time    uint32 `mapstructure:"time" validate:"gte=1"`
	Threads uint8  `mapstructure:"threads" validate:"gte=1"`
	KeyLen  uint32 `mapstructure:"key_len" validate:"gte=4"`
	SaltLen uint32 `mapstructure:"salt_len" validate:"gte=8"`
}

// Load reads path, when non-empty, and applies environment overrides on top
// of the built-in defaults. The format is inferred from the extension.
func Load(path string) (*Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}
	return decode(v)
}

// LoadBytes reads configuration of the given type ("yaml", "json", "toml",
// ...) from data. Environment overrides still apply.
func LoadBytes(configType string, data []byte) (*Config, error) {
	if strings.TrimSpace(configType) == "" {
		return nil, errors.New("config: config type is required")
	}
	v := newViper()
	v.SetConfigType(configType)
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", configType, err)
	}
	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("default", string(hashing.DriverArgon2id))
	v.SetDefault("legacy.salt", hashing.DefaultLegacySalt)
	v.SetDefault("legacy.modulus", hashing.DefaultLegacyModulus)

	a := hashing.DefaultArgon2Options()
	v.SetDefault("argon2.memory", a.Memory)
	v.SetDefault("argon2.time", a.Time)
	v.SetDefault("argon2.threads", a.Threads)
	v.SetDefault("argon2.key_len", a.KeyLen)
	v.SetDefault("argon2.salt_len", a.SaltLen)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LegacyOptions converts the legacy section.
func (c *Config) LegacyOptions(logger *zap.Logger) hashing.LegacyOptions {
	return hashing.LegacyOptions{
		Salt:    c.Legacy.Salt,
		Modulus: c.Legacy.Modulus,
		Logger:  logger,
	}
}

// Argon2Options converts the argon2 section.
func (c *Config) Argon2Options() hashing.Argon2Options {
	return hashing.Argon2Options{
		Memory:  c.Argon2.Memory,
		Time:    c.Argon2.Time,
		Threads: c.Argon2.Threads,
		KeyLen:  c.Argon2.KeyLen,
		SaltLen: c.Argon2.SaltLen,
	}
}

// ApplyLegacy pushes the legacy section into the process-wide hasher behind
// [hashing.GetHash].
func (c *Config) ApplyLegacy() {
	hashing.Configure(c.Legacy.Salt, c.Legacy.Modulus)
}

// NewManager builds a Manager with both drivers registered and the
// configured default selected. The legacy driver is a fresh instance, not
// the process-wide one. A nil logger disables logging.
func (c *Config) NewManager(logger *zap.Logger) (*hashing.Manager, error) {
	a2, err := hashing.NewArgon2idHasher(c.Argon2Options())
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	m := hashing.NewManager(hashing.DriverName(c.Default))
	m.SetLogger(logger)
	_ = m.RegisterDriver(hashing.DriverArgon2id, a2)
	_ = m.RegisterDriver(hashing.DriverLegacy, hashing.NewLegacyHasher(c.LegacyOptions(logger)))
	return m, nil
}
