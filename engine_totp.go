package warden

import (
	"context"
	"time"
)

// SetupTOTP describes the setuptotp operation and its observable behavior.
//
// SetupTOTP may return an error when input validation, dependency calls, or security checks fail.
// SetupTOTP does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) SetupTOTP(ctx context.Context) (TOTPSetup, error) {
	if e == nil {
		return TOTPSetup{}, ErrEngineNotReady
	}

	rec, err := e.store.Read()
	if err != nil {
		return TOTPSetup{}, ErrPersist
	}
	if !rec.Registered() {
		return TOTPSetup{}, ErrNotRegistered
	}

	// Re-fetching an existing setup is idempotent: a pending or enabled
	// secret is returned as-is, never reminted.
	if rec.TOTPSecret != "" {
		return TOTPSetup{
			Secret: rec.TOTPSecret,
			URI:    e.totp.ProvisionURI(rec.TOTPSecret, rec.Name),
		}, nil
	}

	secret, err := e.totp.GenerateSecret()
	if err != nil {
		return TOTPSetup{}, err
	}

	rec.TOTPSecret = secret
	if err := e.store.Write(rec); err != nil {
		return TOTPSetup{}, ErrPersist
	}

	e.emitAudit(ctx, auditTOTPSetup, true, nil, nil)
	return TOTPSetup{
		Secret: secret,
		URI:    e.totp.ProvisionURI(secret, rec.Name),
	}, nil
}

// EnableTOTP describes the enabletotp operation and its observable behavior.
//
// EnableTOTP may return an error when input validation, dependency calls, or security checks fail.
// EnableTOTP does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) EnableTOTP(ctx context.Context, code string) error {
	if e == nil {
		return ErrEngineNotReady
	}

	rec, err := e.store.Read()
	if err != nil {
		return ErrPersist
	}
	if rec.TOTPSecret == "" {
		return ErrTOTPNotConfigured
	}

	ok, err := e.totp.VerifyCode(rec.TOTPSecret, code, time.Now())
	if err != nil {
		return err
	}
	if !ok {
		e.metricInc(MetricTOTPFailure)
		e.emitAudit(ctx, auditTOTPEnable, false, ErrTOTPInvalid, nil)
		return ErrTOTPInvalid
	}

	if !rec.hasFactor(FactorTOTP) {
		rec.SecondFactors = append(rec.SecondFactors, FactorTOTP)
		if err := e.store.Write(rec); err != nil {
			return ErrPersist
		}
	}

	e.metricInc(MetricTOTPSuccess)
	e.emitAudit(ctx, auditTOTPEnable, true, nil, nil)
	return nil
}

// DisableTOTP removes the totp factor after a final code check. The stored
// secret is deliberately retained: a later SetupTOTP returns the same stale
// secret instead of minting a fresh one.
//
// DisableTOTP may return an error when input validation, dependency calls, or security checks fail.
// DisableTOTP does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) DisableTOTP(ctx context.Context, code string) error {
	if e == nil {
		return ErrEngineNotReady
	}

	rec, err := e.store.Read()
	if err != nil {
		return ErrPersist
	}
	if !rec.hasFactor(FactorTOTP) {
		return ErrTOTPAlreadyDisabled
	}

	ok, err := e.totp.VerifyCode(rec.TOTPSecret, code, time.Now())
	if err != nil {
		return err
	}
	if !ok {
		e.metricInc(MetricTOTPFailure)
		e.emitAudit(ctx, auditTOTPDisable, false, ErrTOTPInvalid, nil)
		return ErrTOTPInvalid
	}

	rec.SecondFactors = []string{}
	if err := e.store.Write(rec); err != nil {
		return ErrPersist
	}

	e.metricInc(MetricTOTPSuccess)
	e.emitAudit(ctx, auditTOTPDisable, true, nil, nil)
	return nil
}

// TOTPEnabled describes the totpenabled operation and its observable behavior.
//
// TOTPEnabled may return an error when input validation, dependency calls, or security checks fail.
// TOTPEnabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) TOTPEnabled() (bool, error) {
	if e == nil {
		return false, ErrEngineNotReady
	}
	rec, err := e.store.Read()
	if err != nil {
		return false, ErrPersist
	}
	return rec.hasFactor(FactorTOTP), nil
}
