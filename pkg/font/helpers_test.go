package font

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/joeblew999/plat-textsnap/pkg/db"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

// library is a font root with an index backed by a temporary database.
type library struct {
	root     string
	registry *Registry
	index    *Index
	resolver *Resolver
}

func newLibrary(t *testing.T, files ...string) *library {
	t.Helper()

	tmp := t.TempDir()
	d, err := db.Open(filepath.Join(tmp, "textsnap.db"))
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })

	root := filepath.Join(tmp, "fonts")
	require.NoError(t, os.MkdirAll(root, 0755))
	for _, f := range files {
		writeFont(t, root, f)
	}

	registry := NewRegistry(d.SqlConn())
	return &library{
		root:     root,
		registry: registry,
		index:    NewIndex(root, registry, nil),
		resolver: NewResolver(registry),
	}
}

// writeFont writes a parseable TrueType file at root/rel.
func writeFont(t *testing.T, root, rel string) string {
	t.Helper()
	return writeFile(t, root, rel, goregular.TTF)
}

func writeFile(t *testing.T, root, rel string, data []byte) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func (l *library) path(rel string) string {
	return filepath.Join(l.root, filepath.FromSlash(rel))
}

func newTestFaceCache(t *testing.T) *FaceCache {
	t.Helper()
	c, err := NewFaceCache(16, time.Minute, LoadDefaultFont(""))
	require.NoError(t, err)
	return c
}
