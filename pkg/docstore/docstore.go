package docstore

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned when no document exists for a key
var ErrNotFound = errors.New("docstore: document not found")

// ErrInvalidKey is returned for keys that would escape the store directory
var ErrInvalidKey = errors.New("docstore: invalid key")

// Store persists rendered documents under stable keys (e.g. "<bill-id>.pdf").
type Store interface {
	// Stage writes data to a staging artifact. Nothing is visible under key
	// until the returned Staged is committed.
	Stage(key string, data []byte) (Staged, error)
	// Open returns the committed document for key.
	Open(key string) (io.ReadCloser, error)
	// Remove deletes the committed document. Missing documents are not an error.
	Remove(key string) error
	// Reference returns the stable public path for key, e.g. "/bills/<key>".
	Reference(key string) string
}

// Staged is a document written but not yet published.
type Staged interface {
	// Commit atomically replaces any existing document at the key.
	Commit() error
	// Discard removes the staging artifact. Safe to call after Commit.
	Discard() error
}

// --- Local Store (files under a directory, staged in <dir>/.staging) ---

type localStore struct {
	dir          string
	publicPrefix string
}

// NewLocalStore creates a filesystem store rooted at dir. The directory is
// created on first write if absent. An empty publicPrefix means "/bills".
func NewLocalStore(dir, publicPrefix string) Store {
	publicPrefix = strings.Trim(publicPrefix, "/")
	if publicPrefix == "" {
		publicPrefix = "bills"
	}
	return &localStore{
		dir:          dir,
		publicPrefix: "/" + publicPrefix,
	}
}

func (s *localStore) Stage(key string, data []byte) (Staged, error) {
	if err := validKey(key); err != nil {
		return nil, err
	}

	stagingDir := filepath.Join(s.dir, ".staging")
	if err := os.MkdirAll(stagingDir, 0o755); err != nil {
		return nil, fmt.Errorf("docstore: failed to create %s: %w", stagingDir, err)
	}

	f, err := os.CreateTemp(stagingDir, key+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("docstore: failed to create staging file: %w", err)
	}
	tmp := f.Name()

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return nil, fmt.Errorf("docstore: failed to write staging file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return nil, fmt.Errorf("docstore: failed to sync staging file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return nil, fmt.Errorf("docstore: failed to close staging file: %w", err)
	}

	return &localStaged{tmp: tmp, target: filepath.Join(s.dir, key)}, nil
}

func (s *localStore) Open(key string) (io.ReadCloser, error) {
	if err := validKey(key); err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(s.dir, key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("docstore: failed to open %s: %w", key, err)
	}
	return f, nil
}

func (s *localStore) Remove(key string) error {
	if err := validKey(key); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(s.dir, key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("docstore: failed to remove %s: %w", key, err)
	}
	return nil
}

func (s *localStore) Reference(key string) string {
	return path.Join(s.publicPrefix, key)
}

type localStaged struct {
	tmp       string
	target    string
	committed bool
}

func (st *localStaged) Commit() error {
	if err := os.Rename(st.tmp, st.target); err != nil {
		return fmt.Errorf("docstore: failed to publish %s: %w", filepath.Base(st.target), err)
	}
	st.committed = true
	return nil
}

func (st *localStaged) Discard() error {
	if st.committed {
		return nil
	}
	err := os.Remove(st.tmp)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("docstore: failed to discard staging file: %w", err)
	}
	return nil
}

func validKey(key string) error {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) || strings.HasPrefix(key, ".") {
		return ErrInvalidKey
	}
	return nil
}

// NewStoreFromConfig creates the appropriate Store based on driver.
//
//	driver: "local" (default)
//	dir: directory holding committed documents (e.g. "./storage/bills")
//	publicPrefix: path prefix of the stable reference (e.g. "/bills")
func NewStoreFromConfig(driver, dir, publicPrefix string) (Store, error) {
	switch driver {
	case "local", "":
		if dir == "" {
			return nil, fmt.Errorf("docstore: directory is required for local store")
		}
		return NewLocalStore(dir, publicPrefix), nil
	default:
		return nil, fmt.Errorf("docstore: unknown driver %q (use local)", driver)
	}
}
