package record

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Store defines a public type used by warden APIs.
//
// Store instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Store[T any] struct {
	path     string
	defaults func() T
}

// NewStore describes the newstore operation and its observable behavior.
//
// NewStore may return an error when input validation, dependency calls, or security checks fail.
// NewStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewStore[T any](path string, defaults func() T) (*Store[T], error) {
	if path == "" {
		return nil, errors.New("record path required")
	}
	if defaults == nil {
		return nil, errors.New("record defaults required")
	}
	return &Store[T]{path: path, defaults: defaults}, nil
}

// Path describes the path operation and its observable behavior.
//
// Path may return an error when input validation, dependency calls, or security checks fail.
// Path does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store[T]) Path() string {
	return s.path
}

// Read describes the read operation and its observable behavior.
//
// Read may return an error when input validation, dependency calls, or security checks fail.
// Read does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store[T]) Read() (T, error) {
	out := s.defaults()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			// First boot: no record yet, defaults apply.
			return out, nil
		}
		return out, fmt.Errorf("read record %s: %w", s.path, err)
	}

	// Unmarshalling over the defaults value merges fields present on disk
	// under the documented defaults; absent fields keep their default.
	if err := json.Unmarshal(data, &out); err != nil {
		return s.defaults(), fmt.Errorf("decode record %s: %w", s.path, err)
	}
	return out, nil
}

// Write describes the write operation and its observable behavior.
//
// Write may return an error when input validation, dependency calls, or security checks fail.
// Write does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store[T]) Write(value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode record %s: %w", s.path, err)
	}
	return writeAtomic(s.path, data, 0o600)
}

// writeAtomic writes the full content to a sibling temporary path and renames
// it over the target. On rename failure the temporary artifact is removed and
// the prior content stays intact.
func writeAtomic(path string, data []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create record directory: %w", err)
	}

	tmp := path + "." + uuid.NewString()
	if err := os.WriteFile(tmp, data, perm); err != nil {
		return fmt.Errorf("write temporary record %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace record %s: %w", path, err)
	}
	return nil
}
