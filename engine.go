package warden

import (
	"context"
	"strings"
	"time"

	"github.com/wardend/warden/jwt"
	"github.com/wardend/warden/password"
	"github.com/wardend/warden/record"
	"github.com/wardend/warden/seal"
)

const seedWordCount = 24

// Engine defines a public type used by warden APIs.
//
// Engine instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Engine struct {
	config  Config
	store   *record.Store[AccountRecord]
	hasher  *password.Hasher
	sealer  *seal.Sealer
	tokens  *jwt.Manager
	totp    *totpManager
	trigger Trigger
	wallet  WalletInitializer
	audit   *auditDispatcher
	metrics *Metrics
}

// Close describes the close operation and its observable behavior.
//
// Close may return an error when input validation, dependency calls, or security checks fail.
// Close does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped describes the auditdropped operation and its observable behavior.
//
// AuditDropped may return an error when input validation, dependency calls, or security checks fail.
// AuditDropped does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot may return an error when input validation, dependency calls, or security checks fail.
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) emitAudit(ctx context.Context, eventType string, success bool, failure error, metadata map[string]string) {
	if e == nil || e.audit == nil {
		return
	}
	event := AuditEvent{
		Timestamp: time.Now(),
		EventType: eventType,
		Subject:   SubjectAdmin,
		Success:   success,
		Metadata:  metadata,
	}
	if failure != nil {
		event.Error = failure.Error()
	}
	e.audit.Emit(ctx, event)
}

// Login describes the login operation and its observable behavior.
//
// Login may return an error when input validation, dependency calls, or security checks fail.
// Login does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Login(ctx context.Context, plaintext string) (string, error) {
	if e == nil {
		return "", ErrEngineNotReady
	}

	rec, err := e.store.Read()
	if err != nil {
		return "", ErrPersist
	}
	if !rec.Registered() {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditLogin, false, ErrNotRegistered, nil)
		return "", ErrNotRegistered
	}

	match, err := e.hasher.Verify(plaintext, rec.Password)
	if err != nil || !match {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditLogin, false, ErrIncorrectPassword, nil)
		return "", ErrIncorrectPassword
	}

	// First login after a restore may predate the derived entropy seed.
	if !record.Exists(e.config.Paths.EntropySeed) {
		words, err := e.decryptSeed(rec.Seed, plaintext)
		if err == nil {
			if err := e.deriveEntropySeed(words); err != nil {
				return "", err
			}
		}
	}

	if err := e.setSystemPassword(ctx, plaintext); err != nil {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditLogin, false, err, nil)
		return "", err
	}

	token, err := e.tokens.Issue(SubjectAdmin)
	if err != nil {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditLogin, false, ErrTokenIssue, nil)
		return "", ErrTokenIssue
	}

	e.metricInc(MetricLoginSuccess)
	e.metricInc(MetricTokenIssued)
	e.emitAudit(ctx, auditLogin, true, nil, nil)
	return token, nil
}

// ChangePassword describes the changepassword operation and its observable behavior.
//
// ChangePassword may return an error when input validation, dependency calls, or security checks fail.
// ChangePassword does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	if e == nil {
		return ErrEngineNotReady
	}
	if len(newPassword) < e.config.Password.MinLength {
		return ErrPasswordPolicy
	}
	if newPassword == oldPassword {
		return ErrPasswordReuse
	}

	rec, err := e.store.Read()
	if err != nil {
		return ErrPersist
	}
	if !rec.Registered() {
		return ErrNotRegistered
	}

	// The old password is proven by decrypting the seed, not just by
	// hash comparison: the re-encrypted seed must round-trip.
	words, err := e.decryptSeed(rec.Seed, oldPassword)
	if err != nil {
		e.metricInc(MetricPasswordChangeFailure)
		e.emitAudit(ctx, auditPasswordChange, false, ErrUnauthorized, nil)
		return ErrUnauthorized
	}

	blob, err := e.encryptSeed(words, newPassword)
	if err != nil {
		e.metricInc(MetricPasswordChangeFailure)
		e.emitAudit(ctx, auditPasswordChange, false, ErrSeedEncrypt, nil)
		return ErrSeedEncrypt
	}

	hash, err := e.hasher.Hash(newPassword)
	if err != nil {
		e.metricInc(MetricPasswordChangeFailure)
		return ErrPersist
	}

	rec.Password = hash
	rec.Seed = blob
	if err := e.store.Write(rec); err != nil {
		e.metricInc(MetricPasswordChangeFailure)
		e.emitAudit(ctx, auditPasswordChange, false, ErrPersist, nil)
		return ErrPersist
	}

	if err := e.setSystemPassword(ctx, newPassword); err != nil {
		e.metricInc(MetricPasswordChangeFailure)
		e.emitAudit(ctx, auditPasswordChange, false, err, nil)
		return err
	}

	e.metricInc(MetricPasswordChangeSuccess)
	e.emitAudit(ctx, auditPasswordChange, true, nil, nil)
	return nil
}

// Refresh describes the refresh operation and its observable behavior.
//
// Refresh may return an error when input validation, dependency calls, or security checks fail.
// Refresh does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Refresh(ctx context.Context) (string, error) {
	if e == nil {
		return "", ErrEngineNotReady
	}

	token, err := e.tokens.Issue(SubjectAdmin)
	if err != nil {
		return "", ErrTokenIssue
	}

	e.metricInc(MetricTokenIssued)
	e.emitAudit(ctx, auditTokenRefresh, true, nil, nil)
	return token, nil
}

// ValidateToken describes the validatetoken operation and its observable behavior.
//
// ValidateToken may return an error when input validation, dependency calls, or security checks fail.
// ValidateToken does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) ValidateToken(tokenStr string) (string, error) {
	if e == nil {
		return "", ErrEngineNotReady
	}

	subject, err := e.tokens.Parse(tokenStr)
	if err != nil {
		e.metricInc(MetricTokenRejected)
		return "", ErrInvalidToken
	}
	return subject, nil
}

// setSystemPassword hands the plaintext to the OS layer: the password lands
// in a status file and the trigger channel asks the host to apply it.
func (e *Engine) setSystemPassword(ctx context.Context, plaintext string) error {
	if err := record.WriteStatusFile(e.config.Paths.StatusDir, "password", plaintext); err != nil {
		return ErrSystemPassword
	}
	if err := e.trigger.Notify(ctx, eventChangePassword); err != nil {
		return ErrSystemCommunication
	}
	return nil
}

func (e *Engine) encryptSeed(words []string, passphrase string) (string, error) {
	if len(words) != seedWordCount {
		return "", ErrSeedLength
	}
	return e.sealer.Encrypt([]byte(strings.Join(words, ",")), passphrase)
}

func (e *Engine) decryptSeed(blob, passphrase string) ([]string, error) {
	plaintext, err := e.sealer.Decrypt(blob, passphrase)
	if err != nil {
		return nil, ErrSeedDecrypt
	}
	words := strings.Split(string(plaintext), ",")
	if len(words) != seedWordCount {
		return nil, ErrSeedDecrypt
	}
	return words, nil
}
