package record

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var statusNamePattern = regexp.MustCompile(`^[\w-]+$`)

// Exists describes the exists operation and its observable behavior.
//
// Exists may return an error when input validation, dependency calls, or security checks fail.
// Exists does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ReadText describes the readtext operation and its observable behavior.
//
// ReadText may return an error when input validation, dependency calls, or security checks fail.
// ReadText does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func ReadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// WriteTextAtomic describes the writetextatomic operation and its observable behavior.
//
// WriteTextAtomic may return an error when input validation, dependency calls, or security checks fail.
// WriteTextAtomic does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func WriteTextAtomic(path, contents string) error {
	return writeAtomic(path, []byte(contents), 0o600)
}

// WriteTextExclusive creates the file only if it does not exist yet. It
// reports whether this call created the file; a false return with a nil error
// means another writer got there first and the caller should re-read. The
// file is fully written before it becomes visible under path, so concurrent
// readers never observe partial contents.
//
// WriteTextExclusive may return an error when input validation, dependency calls, or security checks fail.
// WriteTextExclusive does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func WriteTextExclusive(path, contents string) (bool, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("create directory for %s: %w", path, err)
	}

	tmp := path + "." + uuid.NewString()
	if err := os.WriteFile(tmp, []byte(contents), 0o600); err != nil {
		return false, fmt.Errorf("write %s: %w", tmp, err)
	}
	// Link fails with EEXIST when another writer already claimed path,
	// and publishes the complete temp file otherwise.
	if err := os.Link(tmp, path); err != nil {
		_ = os.Remove(tmp)
		if errors.Is(err, os.ErrExist) {
			return false, nil
		}
		return false, fmt.Errorf("create %s: %w", path, err)
	}
	if err := os.Remove(tmp); err != nil {
		return true, fmt.Errorf("remove temp file %s: %w", tmp, err)
	}
	return true, nil
}

// WriteStatusFile describes the writestatusfile operation and its observable behavior.
//
// WriteStatusFile may return an error when input validation, dependency calls, or security checks fail.
// WriteStatusFile does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func WriteStatusFile(dir, name, contents string) error {
	if !statusNamePattern.MatchString(name) {
		return fmt.Errorf("invalid status file name %q", name)
	}
	return writeAtomic(filepath.Join(dir, name), []byte(contents), 0o600)
}

// ReadStatusFile describes the readstatusfile operation and its observable behavior.
//
// ReadStatusFile may return an error when input validation, dependency calls, or security checks fail.
// ReadStatusFile does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func ReadStatusFile(dir, name string) (string, error) {
	if !statusNamePattern.MatchString(name) {
		return "", fmt.Errorf("invalid status file name %q", name)
	}
	contents, err := ReadText(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(contents), nil
}
