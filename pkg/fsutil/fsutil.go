// Package fsutil wraps the afero file operations used by the tools so that
// every failure carries the path it happened on.
package fsutil

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
)

// IOError is returned for any open, read or write failure.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Open opens path for reading.
func Open(fs afero.Fs, path string) (afero.File, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: unwrapPathError(err)}
	}
	return f, nil
}

// ReadFile reads the whole file at path.
func ReadFile(fs afero.Fs, path string) ([]byte, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, &IOError{Op: "read", Path: path, Err: unwrapPathError(err)}
	}
	return data, nil
}

// WriteFile replaces the content of path with data. It is not atomic: a
// failure half way leaves a truncated file behind.
func WriteFile(fs afero.Fs, path string, data []byte) error {
	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return &IOError{Op: "write", Path: path, Err: unwrapPathError(err)}
	}
	return nil
}

// MkdirAll creates dir and any missing parents.
func MkdirAll(fs afero.Fs, dir string) error {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return &IOError{Op: "mkdir", Path: dir, Err: unwrapPathError(err)}
	}
	return nil
}

// os.PathError already names the path; keep only the cause to avoid
// printing it twice.
func unwrapPathError(err error) error {
	if pe, ok := err.(*os.PathError); ok {
		return pe.Err
	}
	return err
}
