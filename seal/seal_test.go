package seal

import (
	"bytes"
	"errors"
	"testing"
)

func newTestSealer(t *testing.T) *Sealer {
	t.Helper()
	// Low work factor keeps the scrypt KDF fast in tests.
	s, err := NewSealer(2)
	if err != nil {
		t.Fatalf("NewSealer failed: %v", err)
	}
	return s
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	s := newTestSealer(t)

	ciphertext, err := s.Encrypt([]byte("abcdef0123456789"), "moneyprintergobrrr")
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	plaintext, err := s.Decrypt(ciphertext, "moneyprintergobrrr")
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if !bytes.Equal(plaintext, []byte("abcdef0123456789")) {
		t.Fatalf("unexpected plaintext: %q", plaintext)
	}
}

func TestDecryptWrongPassphrase(t *testing.T) {
	s := newTestSealer(t)

	ciphertext, err := s.Encrypt([]byte("secret payload"), "right passphrase")
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	if _, err := s.Decrypt(ciphertext, "wrong passphrase"); !errors.Is(err, ErrDecryptFailed) {
		t.Fatalf("expected ErrDecryptFailed, got %v", err)
	}
}

func TestDecryptFailsUniformly(t *testing.T) {
	s := newTestSealer(t)

	// Corrupt base64, valid base64 over garbage, and an empty passphrase
	// must all surface the same sentinel.
	cases := []struct {
		ciphertext string
		passphrase string
	}{
		{"%%%not-base64%%%", "pass"},
		{"Z2FyYmFnZSBjaXBoZXJ0ZXh0", "pass"},
		{"", "pass"},
	}
	for i, tc := range cases {
		if _, err := s.Decrypt(tc.ciphertext, tc.passphrase); !errors.Is(err, ErrDecryptFailed) {
			t.Fatalf("case %d: expected ErrDecryptFailed, got %v", i, err)
		}
	}

	valid, err := s.Encrypt([]byte("x"), "pass")
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if _, err := s.Decrypt(valid, ""); !errors.Is(err, ErrDecryptFailed) {
		t.Fatalf("expected ErrDecryptFailed for empty passphrase, got %v", err)
	}
}

func TestEncryptEmptyPlaintext(t *testing.T) {
	s := newTestSealer(t)

	ciphertext, err := s.Encrypt(nil, "pass")
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	plaintext, err := s.Decrypt(ciphertext, "pass")
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if len(plaintext) != 0 {
		t.Fatalf("expected empty plaintext, got %q", plaintext)
	}
}

func TestNewSealerValidatesWorkFactor(t *testing.T) {
	for _, wf := range []int{0, -1, 31} {
		if _, err := NewSealer(wf); err == nil {
			t.Fatalf("expected work factor %d to be rejected", wf)
		}
	}
}
