package warden

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestSetupTOTPIsIdempotent(t *testing.T) {
	h := newTestHarness(t)
	mustRegister(t, h)
	ctx := context.Background()

	first, err := h.engine.SetupTOTP(ctx)
	if err != nil {
		t.Fatalf("SetupTOTP failed: %v", err)
	}
	if first.Secret == "" {
		t.Fatal("expected a generated secret")
	}
	if !strings.HasPrefix(first.URI, "otpauth://totp/") {
		t.Fatalf("unexpected provisioning URI: %q", first.URI)
	}

	second, err := h.engine.SetupTOTP(ctx)
	if err != nil {
		t.Fatalf("second SetupTOTP failed: %v", err)
	}
	if second.Secret != first.Secret {
		t.Fatal("expected setup re-fetch to return the same secret")
	}
}

func TestSetupTOTPRequiresRegistration(t *testing.T) {
	h := newTestHarness(t)

	if _, err := h.engine.SetupTOTP(context.Background()); !errors.Is(err, ErrNotRegistered) {
		t.Fatalf("expected ErrNotRegistered, got %v", err)
	}
}

func TestEnableTOTP(t *testing.T) {
	h := newTestHarness(t)
	mustRegister(t, h)
	ctx := context.Background()

	setup, err := h.engine.SetupTOTP(ctx)
	if err != nil {
		t.Fatalf("SetupTOTP failed: %v", err)
	}

	if err := h.engine.EnableTOTP(ctx, "000000"); !errors.Is(err, ErrTOTPInvalid) {
		t.Fatalf("expected ErrTOTPInvalid for wrong code, got %v", err)
	}
	if enabled, _ := h.engine.TOTPEnabled(); enabled {
		t.Fatal("wrong code must not enable totp")
	}

	if err := h.engine.EnableTOTP(ctx, codeForSecret(t, setup.Secret, 0)); err != nil {
		t.Fatalf("EnableTOTP failed: %v", err)
	}
	enabled, err := h.engine.TOTPEnabled()
	if err != nil {
		t.Fatalf("TOTPEnabled failed: %v", err)
	}
	if !enabled {
		t.Fatal("expected totp to be enabled")
	}
}

func TestEnableTOTPWithoutSetup(t *testing.T) {
	h := newTestHarness(t)
	mustRegister(t, h)

	if err := h.engine.EnableTOTP(context.Background(), "123456"); !errors.Is(err, ErrTOTPNotConfigured) {
		t.Fatalf("expected ErrTOTPNotConfigured, got %v", err)
	}
}

func TestEnableTOTPAcceptsAdjacentStep(t *testing.T) {
	h := newTestHarness(t)
	mustRegister(t, h)
	ctx := context.Background()

	setup, err := h.engine.SetupTOTP(ctx)
	if err != nil {
		t.Fatalf("SetupTOTP failed: %v", err)
	}

	// Skew of one step: the previous window's code is still accepted.
	if err := h.engine.EnableTOTP(ctx, codeForSecret(t, setup.Secret, -1)); err != nil {
		t.Fatalf("expected previous-step code to verify: %v", err)
	}
}

func TestDisableTOTPRetainsSecret(t *testing.T) {
	h := newTestHarness(t)
	mustRegister(t, h)
	ctx := context.Background()

	setup, err := h.engine.SetupTOTP(ctx)
	if err != nil {
		t.Fatalf("SetupTOTP failed: %v", err)
	}
	if err := h.engine.EnableTOTP(ctx, codeForSecret(t, setup.Secret, 0)); err != nil {
		t.Fatalf("EnableTOTP failed: %v", err)
	}

	if err := h.engine.DisableTOTP(ctx, "000000"); !errors.Is(err, ErrTOTPInvalid) {
		t.Fatalf("expected ErrTOTPInvalid for wrong code, got %v", err)
	}

	if err := h.engine.DisableTOTP(ctx, codeForSecret(t, setup.Secret, 0)); err != nil {
		t.Fatalf("DisableTOTP failed: %v", err)
	}
	if enabled, _ := h.engine.TOTPEnabled(); enabled {
		t.Fatal("expected totp to be disabled")
	}

	// The stale secret survives a disable: re-setup returns it unchanged.
	again, err := h.engine.SetupTOTP(ctx)
	if err != nil {
		t.Fatalf("SetupTOTP after disable failed: %v", err)
	}
	if again.Secret != setup.Secret {
		t.Fatal("expected the stale secret to be retained after disable")
	}
}

func TestDisableTOTPAlreadyDisabled(t *testing.T) {
	h := newTestHarness(t)
	mustRegister(t, h)

	if err := h.engine.DisableTOTP(context.Background(), "123456"); !errors.Is(err, ErrTOTPAlreadyDisabled) {
		t.Fatalf("expected ErrTOTPAlreadyDisabled, got %v", err)
	}
}
