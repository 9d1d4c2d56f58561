package warden

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/tyler-smith/go-bip39"

	"github.com/wardend/warden/record"
)

// entropySeedDomain separates the derived appliance entropy from any other
// use of the mnemonic's underlying entropy.
const entropySeedDomain = "warden-seed"

// Register describes the register operation and its observable behavior.
//
// Register may return an error when input validation, dependency calls, or security checks fail.
// Register does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Register(ctx context.Context, name, plaintext string, seedWords []string) (string, error) {
	if e == nil {
		return "", ErrEngineNotReady
	}
	if e.wallet == nil {
		return "", ErrEngineNotReady
	}
	if strings.TrimSpace(name) == "" {
		return "", ErrNameRequired
	}
	if len(plaintext) < e.config.Password.MinLength {
		return "", ErrPasswordPolicy
	}
	if len(seedWords) != seedWordCount {
		return "", ErrSeedLength
	}

	rec, err := e.store.Read()
	if err != nil {
		return "", ErrPersist
	}
	if rec.Registered() {
		e.metricInc(MetricRegisterFailure)
		e.emitAudit(ctx, auditRegister, false, ErrAlreadyRegistered, nil)
		return "", ErrAlreadyRegistered
	}

	blob, err := e.encryptSeed(seedWords, plaintext)
	if err != nil {
		e.metricInc(MetricRegisterFailure)
		e.emitAudit(ctx, auditRegister, false, ErrSeedEncrypt, nil)
		return "", ErrSeedEncrypt
	}

	hash, err := e.hasher.Hash(plaintext)
	if err != nil {
		e.metricInc(MetricRegisterFailure)
		return "", ErrPersist
	}

	rec.Name = strings.TrimSpace(name)
	rec.Password = hash
	rec.Seed = blob
	if err := e.store.Write(rec); err != nil {
		e.metricInc(MetricRegisterFailure)
		e.emitAudit(ctx, auditRegister, false, ErrPersist, nil)
		return "", ErrPersist
	}

	if err := e.setSystemPassword(ctx, plaintext); err != nil {
		e.metricInc(MetricRegisterFailure)
		e.emitAudit(ctx, auditRegister, false, err, nil)
		return "", err
	}

	if err := e.deriveEntropySeed(seedWords); err != nil {
		e.metricInc(MetricRegisterFailure)
		e.emitAudit(ctx, auditRegister, false, err, nil)
		return "", err
	}

	token, err := e.tokens.Issue(SubjectAdmin)
	if err != nil {
		e.rollbackRegistration(ctx)
		e.metricInc(MetricRegisterFailure)
		e.emitAudit(ctx, auditRegister, false, ErrTokenIssue, nil)
		return "", ErrTokenIssue
	}

	if err := e.wallet.InitializeWallet(ctx, seedWords, token); err != nil {
		e.rollbackRegistration(ctx)
		e.metricInc(MetricRegisterFailure)
		e.emitAudit(ctx, auditRegister, false, ErrWalletInit, nil)
		return "", ErrWalletInit
	}

	// Downstream consumers refresh their app catalogs after a register.
	// Best effort: the account is fully usable either way.
	if err := e.trigger.Notify(ctx, eventAppUpdate); err != nil {
		e.emitAudit(ctx, auditRegister, true, ErrSystemCommunication, map[string]string{"event": eventAppUpdate})
	}

	e.metricInc(MetricRegisterSuccess)
	e.metricInc(MetricTokenIssued)
	e.emitAudit(ctx, auditRegister, true, nil, nil)
	return token, nil
}

// IsRegistered describes the isregistered operation and its observable behavior.
//
// IsRegistered may return an error when input validation, dependency calls, or security checks fail.
// IsRegistered does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) IsRegistered() (bool, error) {
	if e == nil {
		return false, ErrEngineNotReady
	}
	rec, err := e.store.Read()
	if err != nil {
		return false, ErrPersist
	}
	return rec.Registered(), nil
}

// Info describes the info operation and its observable behavior.
//
// Info may return an error when input validation, dependency calls, or security checks fail.
// Info does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Info() (UserInfo, error) {
	if e == nil {
		return UserInfo{}, ErrEngineNotReady
	}
	rec, err := e.store.Read()
	if err != nil {
		return UserInfo{}, ErrPersist
	}

	info := UserInfo{
		Name:          rec.Name,
		InstalledApps: rec.InstalledApps,
	}
	if info.InstalledApps == nil {
		info.InstalledApps = []string{}
	}
	return info, nil
}

// Seed describes the seed operation and its observable behavior.
//
// Seed may return an error when input validation, dependency calls, or security checks fail.
// Seed does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Seed(ctx context.Context, plaintext string) ([]string, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	rec, err := e.store.Read()
	if err != nil {
		return nil, ErrPersist
	}
	if !rec.Registered() {
		return nil, ErrNotRegistered
	}

	words, err := e.decryptSeed(rec.Seed, plaintext)
	if err != nil {
		e.emitAudit(ctx, auditSeedReveal, false, ErrSeedDecrypt, nil)
		return nil, ErrSeedDecrypt
	}

	e.metricInc(MetricSeedRevealed)
	e.emitAudit(ctx, auditSeedReveal, true, nil, nil)
	return words, nil
}

// deriveEntropySeed persists a deterministic appliance-wide entropy value
// derived from the mnemonic's underlying entropy. The write is exclusive: a
// seed already on disk always wins, so the value never changes once set.
func (e *Engine) deriveEntropySeed(words []string) error {
	entropy, err := bip39.EntropyFromMnemonic(strings.Join(words, " "))
	if err != nil {
		return ErrSeedDerivation
	}

	mac := hmac.New(sha256.New, entropy)
	_, _ = mac.Write([]byte(entropySeedDomain))
	derived := hex.EncodeToString(mac.Sum(nil))

	if _, err := record.WriteTextExclusive(e.config.Paths.EntropySeed, derived); err != nil {
		return ErrSeedDerivation
	}
	return nil
}

// rollbackRegistration resets the account record to its unregistered
// projection, keeping only the installed-app list. Used when a late
// registration step fails after credentials were already persisted.
func (e *Engine) rollbackRegistration(ctx context.Context) {
	rec, err := e.store.Read()
	if err != nil {
		rec = defaultAccountRecord()
	}

	reset := defaultAccountRecord()
	reset.InstalledApps = rec.InstalledApps
	if reset.InstalledApps == nil {
		reset.InstalledApps = []string{}
	}

	if err := e.store.Write(reset); err != nil {
		e.emitAudit(ctx, auditRegister, false, ErrPersist, map[string]string{"stage": "rollback"})
		return
	}
	e.metricInc(MetricRegisterRollback)
}
