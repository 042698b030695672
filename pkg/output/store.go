// Package output stores rendered images under generated names.
package output

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joeblew999/plat-textsnap/pkg/render"
)

var (
	// ErrNotFound is returned for names that are not in the store.
	ErrNotFound = errors.New("output not found")
	// ErrInvalidName is returned for names that could escape the store.
	ErrInvalidName = errors.New("invalid output name")
)

// Store is a directory of rendered outputs named <uuid>.<ext>.
type Store struct {
	dir string
}

// NewStore creates the directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the output directory.
func (s *Store) Dir() string {
	return s.dir
}

// Save encodes into a new file and returns its name. The file only appears
// once encoding succeeded.
func (s *Store) Save(format render.Format, encode func(io.Writer) error) (string, error) {
	name := strings.ReplaceAll(uuid.NewString(), "-", "") + "." + format.Ext()

	tmp, err := os.CreateTemp(s.dir, ".render-*")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())

	if err := encode(tmp); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		return "", err
	}

	saved.Inc(format.Ext())
	return name, nil
}

// Path returns the file path for name after checking it exists.
func (s *Store) Path(name string) (string, error) {
	if !validName(name) {
		return "", ErrInvalidName
	}
	path := filepath.Join(s.dir, name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", ErrNotFound
	}
	return path, nil
}

// Remove deletes one output.
func (s *Store) Remove(name string) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return err
	}
	removed.Inc("expire")
	return nil
}

// Sweep deletes outputs older than maxAge and returns how many went.
func (s *Store) Sweep(maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)
	return s.removeWhere(func(info os.FileInfo) bool {
		return info.ModTime().Before(cutoff)
	}, "sweep")
}

// Purge deletes every output.
func (s *Store) Purge() (int, error) {
	return s.removeWhere(func(os.FileInfo) bool { return true }, "purge")
}

// Reset recreates an empty output directory.
func (s *Store) Reset() error {
	if err := os.RemoveAll(s.dir); err != nil {
		return err
	}
	return os.MkdirAll(s.dir, 0o755)
}

// Usage reports the number of outputs and their total size.
func (s *Store) Usage() (files int, size int64) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, 0
	}
	for _, e := range entries {
		if !validName(e.Name()) {
			continue
		}
		if info, err := e.Info(); err == nil && info.Mode().IsRegular() {
			files++
			size += info.Size()
		}
	}
	return files, size
}

func (s *Store) removeWhere(match func(os.FileInfo) bool, reason string) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, err
	}

	n := 0
	for _, e := range entries {
		if !validName(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil || !info.Mode().IsRegular() || !match(info) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, e.Name())); err != nil {
			return n, err
		}
		n++
	}
	removed.Add(float64(n), reason)
	return n, nil
}

func validName(name string) bool {
	return name != "" &&
		filepath.Base(name) == name &&
		!strings.HasPrefix(name, ".") &&
		!strings.ContainsAny(name, `/\`)
}
