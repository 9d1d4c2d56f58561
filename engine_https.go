package warden

import (
	"context"
	"errors"
	"strings"
)

// EnableLetsEncrypt describes the enableletsencrypt operation and its observable behavior.
//
// EnableLetsEncrypt may return an error when input validation, dependency calls, or security checks fail.
// EnableLetsEncrypt does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) EnableLetsEncrypt(ctx context.Context, email string) error {
	if e == nil {
		return ErrEngineNotReady
	}
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return errors.New("valid contact email required")
	}

	rec, err := e.store.Read()
	if err != nil {
		return ErrPersist
	}
	if !rec.Registered() {
		return ErrNotRegistered
	}

	if rec.HTTPS == nil {
		rec.HTTPS = &HTTPSConfig{}
	}
	rec.HTTPS.Email = email
	rec.HTTPS.AgreedLetsEncryptTOS = true

	if err := e.store.Write(rec); err != nil {
		return ErrPersist
	}
	return e.notifyProxyUpdate(ctx)
}

// SetAppDomain describes the setappdomain operation and its observable behavior.
//
// SetAppDomain may return an error when input validation, dependency calls, or security checks fail.
// SetAppDomain does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) SetAppDomain(ctx context.Context, app, domain string) error {
	if e == nil {
		return ErrEngineNotReady
	}
	app = strings.TrimSpace(app)
	domain = strings.TrimSpace(strings.ToLower(domain))
	if app == "" {
		return errors.New("app id required")
	}
	if domain == "" || strings.ContainsAny(domain, " /") {
		return errors.New("valid domain required")
	}

	rec, err := e.store.Read()
	if err != nil {
		return ErrPersist
	}
	if !rec.Registered() {
		return ErrNotRegistered
	}
	if rec.HTTPS == nil || !rec.HTTPS.AgreedLetsEncryptTOS {
		return errors.New("lets encrypt must be enabled before assigning domains")
	}

	if rec.HTTPS.AppDomains == nil {
		rec.HTTPS.AppDomains = map[string]string{}
	}
	rec.HTTPS.AppDomains[app] = domain

	if err := e.store.Write(rec); err != nil {
		return ErrPersist
	}
	return e.notifyProxyUpdate(ctx)
}

// RemoveAppDomain describes the removeappdomain operation and its observable behavior.
//
// RemoveAppDomain may return an error when input validation, dependency calls, or security checks fail.
// RemoveAppDomain does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) RemoveAppDomain(ctx context.Context, app string) error {
	if e == nil {
		return ErrEngineNotReady
	}
	app = strings.TrimSpace(app)
	if app == "" {
		return errors.New("app id required")
	}

	rec, err := e.store.Read()
	if err != nil {
		return ErrPersist
	}
	if rec.HTTPS == nil || rec.HTTPS.AppDomains == nil {
		return nil
	}
	if _, ok := rec.HTTPS.AppDomains[app]; !ok {
		return nil
	}
	delete(rec.HTTPS.AppDomains, app)

	if err := e.store.Write(rec); err != nil {
		return ErrPersist
	}
	return e.notifyProxyUpdate(ctx)
}

func (e *Engine) notifyProxyUpdate(ctx context.Context) error {
	if err := e.trigger.Notify(ctx, eventProxyConfigUpdate); err != nil {
		return ErrSystemCommunication
	}
	e.emitAudit(ctx, auditDomainUpdate, true, nil, nil)
	return nil
}
