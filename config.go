package warden

import (
	"errors"
	"strings"
	"time"
)

// Config defines a public type used by warden APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Paths    PathsConfig
	Password PasswordConfig
	Seal     SealConfig
	JWT      JWTConfig
	TOTP     TOTPConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
}

/*
====================================
PATHS CONFIG
====================================
*/

// PathsConfig defines a public type used by warden APIs.
//
// PathsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type PathsConfig struct {
	AccountRecord string
	EntropySeed   string
	JWTPrivateKey string
	JWTPublicKey  string
	StatusDir     string
}

/*
====================================
PASSWORD CONFIG
====================================
*/

// PasswordConfig defines a public type used by warden APIs.
//
// PasswordConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type PasswordConfig struct {
	Memory      uint32 // in KB
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
	MinLength   int
}

// SealConfig defines a public type used by warden APIs.
//
// SealConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SealConfig struct {
	WorkFactor int
}

/*
====================================
JWT CONFIG
====================================
*/

// JWTConfig defines a public type used by warden APIs.
//
// JWTConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type JWTConfig struct {
	TTL    time.Duration
	Issuer string
	Leeway time.Duration
}

// TOTPConfig defines a public type used by warden APIs.
//
// TOTPConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type TOTPConfig struct {
	Issuer    string
	Digits    int
	Period    int
	Algorithm string
	Skew      int
}

// AuditConfig defines a public type used by warden APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig defines a public type used by warden APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled bool
}

/*
====================================
DEFAULT CONFIG
====================================
*/

// DefaultConfig describes the defaultconfig operation and its observable behavior.
//
// DefaultConfig may return an error when input validation, dependency calls, or security checks fail.
// DefaultConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		Paths: PathsConfig{
			AccountRecord: "/db/user.json",
			EntropySeed:   "/db/warden-seed/seed",
			JWTPrivateKey: "/db/jwt-private-key/jwt.key",
			JWTPublicKey:  "/db/jwt-public-key/jwt.pem",
			StatusDir:     "/statuses",
		},
		Password: PasswordConfig{
			Memory:      65536,
			Time:        3,
			Parallelism: 2,
			SaltLength:  16,
			KeyLength:   32,
			MinLength:   12,
		},
		Seal: SealConfig{
			WorkFactor: 18,
		},
		JWT: JWTConfig{
			TTL:    time.Hour,
			Issuer: "warden",
		},
		TOTP: TOTPConfig{
			Issuer:    "warden",
			Digits:    6,
			Period:    30,
			Algorithm: "SHA1",
			Skew:      1,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	return cfg
}

/*
====================================
VALIDATION
====================================
*/

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Config) Validate() error {
	// Paths
	if c.Paths.AccountRecord == "" {
		return errors.New("Paths.AccountRecord required")
	}
	if c.Paths.EntropySeed == "" {
		return errors.New("Paths.EntropySeed required")
	}
	if c.Paths.JWTPrivateKey == "" || c.Paths.JWTPublicKey == "" {
		return errors.New("Paths.JWTPrivateKey and Paths.JWTPublicKey required")
	}
	if c.Paths.JWTPrivateKey == c.Paths.JWTPublicKey {
		return errors.New("JWT key paths must differ")
	}
	if c.Paths.StatusDir == "" {
		return errors.New("Paths.StatusDir required")
	}

	// Password
	if c.Password.MinLength < 8 {
		return errors.New("Password.MinLength must be >= 8")
	}

	// Seal
	if c.Seal.WorkFactor < 1 || c.Seal.WorkFactor > 30 {
		return errors.New("Seal.WorkFactor must be between 1 and 30")
	}

	// JWT
	if c.JWT.TTL <= 0 {
		return errors.New("JWT.TTL must be positive")
	}
	if c.JWT.Leeway < 0 || c.JWT.Leeway > 2*time.Minute {
		return errors.New("JWT.Leeway out of range")
	}

	// TOTP
	if c.TOTP.Digits < 6 || c.TOTP.Digits > 8 {
		return errors.New("TOTP.Digits must be between 6 and 8")
	}
	if c.TOTP.Period < 15 {
		return errors.New("TOTP.Period must be >= 15 seconds")
	}
	if c.TOTP.Skew < 0 || c.TOTP.Skew > 2 {
		return errors.New("TOTP.Skew must be between 0 and 2")
	}
	switch strings.ToUpper(c.TOTP.Algorithm) {
	case "", "SHA1", "SHA256", "SHA512":
	default:
		return errors.New("TOTP.Algorithm must be SHA1, SHA256 or SHA512")
	}

	// Audit
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit.BufferSize must be positive when audit is enabled")
	}

	return nil
}
