// Package fsops provides filesystem operations with safety guarantees.
//
// All persistence in gqlpick goes through the FS interface, which is backed
// by an afero filesystem so the stores can run against the real disk or an
// in-memory tree in tests.
//
// Key features:
//   - Atomic writes using temp file + rename
//   - Missing files surface as os.ErrNotExist
//   - Testable via NewMemFS
package fsops

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// FS provides an abstraction for filesystem operations.
type FS interface {
	// MkdirAll creates a directory and all parent directories.
	MkdirAll(path string, perm os.FileMode) error

	// Remove removes a file or empty directory.
	Remove(path string) error

	// AtomicWrite writes data to path atomically using temp file + rename.
	AtomicWrite(path string, data []byte, perm os.FileMode) error

	// ReadFile reads the entire contents of a file.
	ReadFile(path string) ([]byte, error)

	// Exists checks if a path exists.
	Exists(path string) (bool, error)
}

// AferoFS implements FS on top of an afero.Fs.
type AferoFS struct {
	fs afero.Fs
}

func wrap(fs afero.Fs) *AferoFS {
	return &AferoFS{fs: fs}
}

// NewOsFS returns an FS backed by the operating system.
func NewOsFS() *AferoFS {
	return wrap(afero.NewOsFs())
}

// NewMemFS returns an FS backed by memory.
func NewMemFS() *AferoFS {
	return wrap(afero.NewMemMapFs())
}

// MkdirAll creates a directory and all parent directories.
func (f *AferoFS) MkdirAll(path string, perm os.FileMode) error {
	return f.fs.MkdirAll(path, perm)
}

// Remove removes a file or empty directory.
func (f *AferoFS) Remove(path string) error {
	return f.fs.Remove(path)
}

// AtomicWrite writes data to path atomically using temp file + rename.
func (f *AferoFS) AtomicWrite(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := f.fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}

	tmpFile, err := afero.TempFile(f.fs, dir, ".gqlpick-tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	// Clean up temp file on error
	defer func() {
		if tmpFile != nil {
			_ = tmpFile.Close()
			_ = f.fs.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := f.fs.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := f.fs.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	// Success - don't clean up temp file
	tmpFile = nil
	return nil
}

// ReadFile reads the entire contents of a file.
func (f *AferoFS) ReadFile(path string) ([]byte, error) {
	return afero.ReadFile(f.fs, path)
}

// Exists checks if a path exists.
func (f *AferoFS) Exists(path string) (bool, error) {
	return afero.Exists(f.fs, path)
}
