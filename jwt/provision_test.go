package jwt

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestLoadOrGenerateIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	privatePath := filepath.Join(dir, "jwt.key")
	publicPath := filepath.Join(dir, "jwt.pem")

	firstPrivate, firstPublic, err := LoadOrGenerate(privatePath, publicPath)
	if err != nil {
		t.Fatalf("LoadOrGenerate failed: %v", err)
	}
	secondPrivate, secondPublic, err := LoadOrGenerate(privatePath, publicPath)
	if err != nil {
		t.Fatalf("second LoadOrGenerate failed: %v", err)
	}

	if !bytes.Equal(firstPrivate, secondPrivate) {
		t.Fatal("expected existing private key to be reused")
	}
	if !bytes.Equal(firstPublic, secondPublic) {
		t.Fatal("expected existing public key to be reused")
	}
}

func TestLoadOrGenerateWritesPEM(t *testing.T) {
	dir := t.TempDir()
	privatePath := filepath.Join(dir, "jwt.key")
	publicPath := filepath.Join(dir, "jwt.pem")

	if _, _, err := LoadOrGenerate(privatePath, publicPath); err != nil {
		t.Fatalf("LoadOrGenerate failed: %v", err)
	}

	privateText, err := os.ReadFile(privatePath)
	if err != nil {
		t.Fatalf("reading private key file: %v", err)
	}
	if !strings.Contains(string(privateText), "BEGIN PRIVATE KEY") {
		t.Fatal("expected PKCS#8 PEM private key on disk")
	}
	publicText, err := os.ReadFile(publicPath)
	if err != nil {
		t.Fatalf("reading public key file: %v", err)
	}
	if !strings.Contains(string(publicText), "BEGIN PUBLIC KEY") {
		t.Fatal("expected PKIX PEM public key on disk")
	}
}

func TestLoadOrGenerateRepairsMissingPublicKey(t *testing.T) {
	dir := t.TempDir()
	privatePath := filepath.Join(dir, "jwt.key")
	publicPath := filepath.Join(dir, "jwt.pem")

	firstPrivate, firstPublic, err := LoadOrGenerate(privatePath, publicPath)
	if err != nil {
		t.Fatalf("LoadOrGenerate failed: %v", err)
	}
	if err := os.Remove(publicPath); err != nil {
		t.Fatalf("removing public key file: %v", err)
	}

	secondPrivate, secondPublic, err := LoadOrGenerate(privatePath, publicPath)
	if err != nil {
		t.Fatalf("LoadOrGenerate after repair failed: %v", err)
	}
	if !bytes.Equal(firstPrivate, secondPrivate) {
		t.Fatal("expected private key to survive repair")
	}
	if !bytes.Equal(firstPublic, secondPublic) {
		t.Fatal("expected regenerated public key to match original")
	}
}

func TestLoadOrGenerateConcurrentCallersAgree(t *testing.T) {
	dir := t.TempDir()
	privatePath := filepath.Join(dir, "jwt.key")
	publicPath := filepath.Join(dir, "jwt.pem")

	const callers = 8
	results := make([][]byte, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _, errs[i] = LoadOrGenerate(privatePath, publicPath)
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		if errs[i] != nil {
			t.Fatalf("caller %d failed: %v", i, errs[i])
		}
		if !bytes.Equal(results[0], results[i]) {
			t.Fatalf("caller %d got a different private key", i)
		}
	}
}
