package warden

import (
	"errors"

	"github.com/wardend/warden/jwt"
	"github.com/wardend/warden/password"
	"github.com/wardend/warden/record"
	"github.com/wardend/warden/seal"
)

// Builder defines a public type used by warden APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config

	trigger   Trigger
	wallet    WalletInitializer
	auditSink AuditSink

	built bool
}

// New describes the new operation and its observable behavior.
//
// New may return an error when input validation, dependency calls, or security checks fail.
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
//
// WithConfig may return an error when input validation, dependency calls, or security checks fail.
// WithConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithTrigger describes the withtrigger operation and its observable behavior.
//
// WithTrigger may return an error when input validation, dependency calls, or security checks fail.
// WithTrigger does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithTrigger(t Trigger) *Builder {
	b.trigger = t
	return b
}

// WithWalletInitializer describes the withwalletinitializer operation and its observable behavior.
//
// WithWalletInitializer may return an error when input validation, dependency calls, or security checks fail.
// WithWalletInitializer does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithWalletInitializer(w WalletInitializer) *Builder {
	b.wallet = w
	return b
}

// WithAuditSink describes the withauditsink operation and its observable behavior.
//
// WithAuditSink may return an error when input validation, dependency calls, or security checks fail.
// WithAuditSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
//
// WithMetricsEnabled may return an error when input validation, dependency calls, or security checks fail.
// WithMetricsEnabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build may return an error when input validation, dependency calls, or security checks fail.
// Build does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if b.trigger == nil {
		return nil, errors.New("trigger channel required")
	}

	store, err := record.NewStore(cfg.Paths.AccountRecord, defaultAccountRecord)
	if err != nil {
		return nil, err
	}

	hasher, err := password.NewHasher(password.Config{
		Memory:      cfg.Password.Memory,
		Time:        cfg.Password.Time,
		Parallelism: cfg.Password.Parallelism,
		SaltLength:  cfg.Password.SaltLength,
		KeyLength:   cfg.Password.KeyLength,
	})
	if err != nil {
		return nil, err
	}

	sealer, err := seal.NewSealer(cfg.Seal.WorkFactor)
	if err != nil {
		return nil, err
	}

	// Provisioning at build time keeps first-request latency flat and
	// closes the concurrent first-use generation race.
	privatePEM, publicPEM, err := jwt.LoadOrGenerate(cfg.Paths.JWTPrivateKey, cfg.Paths.JWTPublicKey)
	if err != nil {
		return nil, err
	}
	tokens, err := jwt.NewManager(jwt.Config{
		TTL:        cfg.JWT.TTL,
		Issuer:     cfg.JWT.Issuer,
		Leeway:     cfg.JWT.Leeway,
		PrivateKey: privatePEM,
		PublicKey:  publicPEM,
	})
	if err != nil {
		return nil, err
	}

	engine := &Engine{
		config:  cfg,
		store:   store,
		hasher:  hasher,
		sealer:  sealer,
		tokens:  tokens,
		totp:    newTOTPManager(cfg.TOTP),
		trigger: b.trigger,
		wallet:  b.wallet,
		audit:   newAuditDispatcher(cfg.Audit, b.auditSink),
		metrics: NewMetrics(cfg.Metrics),
	}

	b.built = true

	return engine, nil
}
