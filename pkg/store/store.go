// Package store persists the tracked-package collection as a single
// pretty-printed JSON document with crash-safe atomic writes.
//
// The store owns the authoritative collection; callers operate on the
// loaded snapshot for the duration of one command and write back through
// Save to persist changes. There is no cross-process locking: concurrent
// invocations against the same file are an accepted limitation.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/parcelwatch/parcelwatch/pkg/model"
)

// EnvStorePath is the environment variable that overrides the datastore
// location when the --datastore flag is not given.
const EnvStorePath = "PARCELWATCH_STORE"

// document is the persisted JSON layout: {"packages": [...]}.
type document struct {
	Packages []*model.Package `json:"packages"`
}

// StorageError wraps an I/O failure while reading or writing the store.
// It is fatal to the invocation; no command continues past one.
//
// Fields:
//   - Op: The failed operation ("load" or "save")
//   - Path: Datastore path involved
//   - Err: Underlying I/O error
type StorageError struct {
	Op   string
	Path string
	Err  error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("datastore %s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// CorruptError means the store file exists but its content cannot be
// used. It is fatal and never auto-repaired: treating unparseable content
// as an empty collection would silently discard data on the next save.
//
// Fields:
//   - Path: Datastore path involved
//   - Err: Underlying parse or validation error
type CorruptError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *CorruptError) Error() string {
	return fmt.Sprintf("datastore %s is corrupt: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *CorruptError) Unwrap() error {
	return e.Err
}

// IsCorrupt reports whether the error indicates an unusable store file.
//
// Parameters:
//   - err: The error to check
//
// Returns:
//   - bool: true if err is a CorruptError
func IsCorrupt(err error) bool {
	var ce *CorruptError
	return errors.As(err, &ce)
}

// Load reads the package collection from path.
//
// A missing file is the first-run case: Load bootstraps an empty
// collection, persists it, and returns it. Existing content that fails to
// parse, or that violates the id-uniqueness invariant, is a CorruptError.
//
// Parameters:
//   - path: Datastore file path
//
// Returns:
//   - []*model.Package: The loaded collection, never nil
//   - error: *StorageError on I/O failure, *CorruptError on bad content
func Load(path string) ([]*model.Package, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		log.Debug().Str("path", path).Msg("datastore missing, bootstrapping empty collection")
		empty := []*model.Package{}
		if err := Save(path, empty); err != nil {
			return nil, err
		}
		return empty, nil
	}
	if err != nil {
		return nil, &StorageError{Op: "load", Path: path, Err: err}
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &CorruptError{Path: path, Err: err}
	}

	seen := make(map[string]struct{}, len(doc.Packages))
	for _, p := range doc.Packages {
		if p.ID == "" {
			return nil, &CorruptError{Path: path, Err: errors.New("package with empty id")}
		}
		if _, dup := seen[p.ID]; dup {
			return nil, &CorruptError{Path: path, Err: fmt.Errorf("duplicate package id %q", p.ID)}
		}
		seen[p.ID] = struct{}{}
	}

	if doc.Packages == nil {
		doc.Packages = []*model.Package{}
	}
	return doc.Packages, nil
}

// Save writes the package collection to path atomically.
//
// The document is written to a temporary file in the same directory,
// synced, and renamed over the target. A crash mid-write leaves the
// previously committed file intact; a subsequent Load never observes a
// truncated document.
//
// Parameters:
//   - path: Datastore file path
//   - pkgs: Collection to persist
//
// Returns:
//   - error: *StorageError on any I/O failure
func Save(path string, pkgs []*model.Package) error {
	if pkgs == nil {
		pkgs = []*model.Package{}
	}
	data, err := json.MarshalIndent(document{Packages: pkgs}, "", "  ")
	if err != nil {
		return &StorageError{Op: "save", Path: path, Err: err}
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &StorageError{Op: "save", Path: path, Err: err}
	}

	tmp, err := os.CreateTemp(dir, ".packages-*.json.tmp")
	if err != nil {
		return &StorageError{Op: "save", Path: path, Err: err}
	}
	tmpName := tmp.Name()
	defer func() {
		// Best effort cleanup when the rename never happened.
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return &StorageError{Op: "save", Path: path, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return &StorageError{Op: "save", Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &StorageError{Op: "save", Path: path, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		return &StorageError{Op: "save", Path: path, Err: err}
	}

	log.Debug().Str("path", path).Int("packages", len(pkgs)).Msg("datastore saved")
	return nil
}

// DefaultPath returns the per-user default datastore location,
// $HOME/.parcelwatch/packages.json.
//
// Returns:
//   - string: Default datastore path
//   - error: Returns error when the home directory cannot be resolved
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot resolve home directory: %w", err)
	}
	return filepath.Join(home, ".parcelwatch", "packages.json"), nil
}
