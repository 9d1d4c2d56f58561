package warden

import (
	"context"
	"encoding/base32"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

type stubTrigger struct {
	mu     sync.Mutex
	events []string
	failOn map[string]bool
}

func (s *stubTrigger) Notify(_ context.Context, event string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failOn[event] {
		return context.DeadlineExceeded
	}
	s.events = append(s.events, event)
	return nil
}

func (s *stubTrigger) saw(event string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.events {
		if e == event {
			return true
		}
	}
	return false
}

type stubWallet struct {
	fail      bool
	calls     int
	lastSeed  []string
	lastToken string
}

func (w *stubWallet) InitializeWallet(_ context.Context, seed []string, token string) error {
	w.calls++
	if w.fail {
		return context.DeadlineExceeded
	}
	w.lastSeed = append([]string(nil), seed...)
	w.lastToken = token
	return nil
}

type testHarness struct {
	engine  *Engine
	trigger *stubTrigger
	wallet  *stubWallet
	config  Config
}

func testConfigIn(dir string) Config {
	cfg := defaultConfig()
	cfg.Paths = PathsConfig{
		AccountRecord: filepath.Join(dir, "db", "user.json"),
		EntropySeed:   filepath.Join(dir, "db", "warden-seed", "seed"),
		JWTPrivateKey: filepath.Join(dir, "db", "jwt-private-key", "jwt.key"),
		JWTPublicKey:  filepath.Join(dir, "db", "jwt-public-key", "jwt.pem"),
		StatusDir:     filepath.Join(dir, "statuses"),
	}
	// Fast KDF parameters for tests.
	cfg.Password.Memory = 8 * 1024
	cfg.Password.Time = 1
	cfg.Password.Parallelism = 1
	cfg.Seal.WorkFactor = 2
	return cfg
}

func newTestHarness(t *testing.T) *testHarness {
	t.Helper()

	trigger := &stubTrigger{failOn: map[string]bool{}}
	wallet := &stubWallet{}
	cfg := testConfigIn(t.TempDir())

	engine, err := New().
		WithConfig(cfg).
		WithTrigger(trigger).
		WithWalletInitializer(wallet).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	return &testHarness{
		engine:  engine,
		trigger: trigger,
		wallet:  wallet,
		config:  cfg,
	}
}

func testSeedWords() []string {
	words := make([]string, 24)
	for i := 0; i < 23; i++ {
		words[i] = "abandon"
	}
	words[23] = "art"
	return words
}

func mustRegister(t *testing.T, h *testHarness) string {
	t.Helper()
	token, err := h.engine.Register(context.Background(), "alice", "password1234", testSeedWords())
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	return token
}

func codeForSecret(t *testing.T, secretBase32 string, offsetSteps int64) string {
	t.Helper()
	secret, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(strings.ToUpper(secretBase32))
	if err != nil {
		t.Fatalf("decoding test secret: %v", err)
	}
	counter := time.Now().Unix()/30 + offsetSteps
	code, err := hotpCode(secret, counter, 6, "SHA1")
	if err != nil {
		t.Fatalf("generating test code: %v", err)
	}
	return code
}
