package jwt

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"

	"github.com/wardend/warden/record"
)

// LoadOrGenerate describes the loadorgenerate operation and its observable behavior.
//
// LoadOrGenerate may return an error when input validation, dependency calls, or security checks fail.
// LoadOrGenerate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func LoadOrGenerate(privatePath, publicPath string) (privatePEM, publicPEM []byte, err error) {
	if privatePath == "" || publicPath == "" {
		return nil, nil, errors.New("key paths must not be empty")
	}

	if record.Exists(privatePath) {
		return loadExisting(privatePath, publicPath)
	}

	_, privateKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, fmt.Errorf("generating signing key: %w", err)
	}
	privatePEM, publicPEM, err = encodeKeypair(privateKey)
	if err != nil {
		return nil, nil, err
	}

	created, err := record.WriteTextExclusive(privatePath, string(privatePEM))
	if err != nil {
		return nil, nil, fmt.Errorf("persisting private key: %w", err)
	}
	if !created {
		// Another process provisioned first. Its key wins.
		return loadExisting(privatePath, publicPath)
	}

	if err := record.WriteTextAtomic(publicPath, string(publicPEM)); err != nil {
		return nil, nil, fmt.Errorf("persisting public key: %w", err)
	}
	return privatePEM, publicPEM, nil
}

func loadExisting(privatePath, publicPath string) ([]byte, []byte, error) {
	privateText, err := record.ReadText(privatePath)
	if err != nil {
		return nil, nil, fmt.Errorf("reading private key: %w", err)
	}
	privateKey, err := parseEdPrivateKey([]byte(privateText))
	if err != nil {
		return nil, nil, err
	}

	// Repair a missing public key file from the private key. Covers a
	// crash between the two provisioning writes.
	privatePEM, publicPEM, err := encodeKeypair(privateKey)
	if err != nil {
		return nil, nil, err
	}
	if !record.Exists(publicPath) {
		if err := record.WriteTextAtomic(publicPath, string(publicPEM)); err != nil {
			return nil, nil, fmt.Errorf("persisting public key: %w", err)
		}
	}
	return privatePEM, publicPEM, nil
}

func encodeKeypair(privateKey ed25519.PrivateKey) ([]byte, []byte, error) {
	privateDER, err := x509.MarshalPKCS8PrivateKey(privateKey)
	if err != nil {
		return nil, nil, fmt.Errorf("encoding private key: %w", err)
	}
	publicDER, err := x509.MarshalPKIXPublicKey(privateKey.Public())
	if err != nil {
		return nil, nil, fmt.Errorf("encoding public key: %w", err)
	}

	privatePEM := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: privateDER})
	publicPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: publicDER})
	return privatePEM, publicPEM, nil
}
