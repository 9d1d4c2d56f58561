package seal

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"filippo.io/age"
)

// ErrDecryptFailed is an exported constant or variable used by the identity engine.
var ErrDecryptFailed = errors.New("seal: decryption failed")

// Sealer defines a public type used by warden APIs.
//
// Sealer instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Sealer struct {
	workFactor int
}

// NewSealer describes the newsealer operation and its observable behavior.
//
// NewSealer may return an error when input validation, dependency calls, or security checks fail.
// NewSealer does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewSealer(workFactor int) (*Sealer, error) {
	if workFactor < 1 || workFactor > 30 {
		return nil, errors.New("seal: work factor must be between 1 and 30")
	}
	return &Sealer{workFactor: workFactor}, nil
}

// Encrypt describes the encrypt operation and its observable behavior.
//
// Encrypt may return an error when input validation, dependency calls, or security checks fail.
// Encrypt does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Sealer) Encrypt(plaintext []byte, passphrase string) (string, error) {
	if passphrase == "" {
		return "", errors.New("seal: passphrase must not be empty")
	}

	recipient, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return "", fmt.Errorf("seal: creating recipient: %w", err)
	}
	recipient.SetWorkFactor(s.workFactor)

	var ciphertext bytes.Buffer
	writer, err := age.Encrypt(&ciphertext, recipient)
	if err != nil {
		return "", fmt.Errorf("seal: creating encryptor: %w", err)
	}
	if _, err := writer.Write(plaintext); err != nil {
		return "", fmt.Errorf("seal: writing plaintext: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("seal: finalizing ciphertext: %w", err)
	}

	return base64.StdEncoding.EncodeToString(ciphertext.Bytes()), nil
}

// Decrypt describes the decrypt operation and its observable behavior.
//
// Decrypt may return an error when input validation, dependency calls, or security checks fail.
// Decrypt does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Sealer) Decrypt(ciphertext, passphrase string) ([]byte, error) {
	if passphrase == "" {
		return nil, ErrDecryptFailed
	}

	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return nil, ErrDecryptFailed
	}

	identity, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return nil, ErrDecryptFailed
	}

	reader, err := age.Decrypt(bytes.NewReader(raw), identity)
	if err != nil {
		return nil, ErrDecryptFailed
	}

	plaintext, err := io.ReadAll(reader)
	if err != nil {
		return nil, ErrDecryptFailed
	}
	return plaintext, nil
}
