package output

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/joeblew999/plat-textsnap/pkg/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(s string) func(io.Writer) error {
	return func(w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	}
}

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "output"))
	require.NoError(t, err)
	return s
}

func TestStoreSave(t *testing.T) {
	t.Run("NamesByUUIDAndFormat", func(t *testing.T) {
		s := newStore(t)
		name, err := s.Save(render.JPEG, write("jpeg bytes"))
		require.NoError(t, err)
		assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{32}\.jpg$`), name)

		path, err := s.Path(name)
		require.NoError(t, err)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "jpeg bytes", string(data))
	})

	t.Run("UniqueNames", func(t *testing.T) {
		s := newStore(t)
		a, err := s.Save(render.PNG, write("a"))
		require.NoError(t, err)
		b, err := s.Save(render.PNG, write("b"))
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})

	t.Run("FailedEncodeLeavesNothing", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Save(render.PDF, func(io.Writer) error { return errors.New("encode failed") })
		require.Error(t, err)

		entries, err := os.ReadDir(s.Dir())
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestStorePath(t *testing.T) {
	s := newStore(t)

	_, err := s.Path("0123.png")
	assert.ErrorIs(t, err, ErrNotFound)

	for _, name := range []string{"", "../secret", "a/b.png", ".hidden", `..\x.png`} {
		_, err := s.Path(name)
		assert.ErrorIs(t, err, ErrInvalidName, name)
	}
}

func TestStoreRemoveAndSweep(t *testing.T) {
	s := newStore(t)
	old, err := s.Save(render.PNG, write("old"))
	require.NoError(t, err)
	fresh, err := s.Save(render.PNG, write("fresh"))
	require.NoError(t, err)

	past := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(s.Dir(), old), past, past))

	n, err := s.Sweep(time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = s.Path(old)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Remove(fresh))
	assert.ErrorIs(t, s.Remove(fresh), ErrNotFound)
}

func TestStoreUsagePurgeReset(t *testing.T) {
	s := newStore(t)
	for _, body := range []string{"12345", "123"} {
		_, err := s.Save(render.WebP, write(body))
		require.NoError(t, err)
	}

	files, size := s.Usage()
	assert.Equal(t, 2, files)
	assert.Equal(t, int64(8), size)

	n, err := s.Purge()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	files, _ = s.Usage()
	assert.Zero(t, files)

	_, err = s.Save(render.PNG, write("x"))
	require.NoError(t, err)
	require.NoError(t, s.Reset())
	assert.DirExists(t, s.Dir())
	files, _ = s.Usage()
	assert.Zero(t, files)
}
