// Package svctest builds service contexts over temporary directories for
// logic and handler tests.
package svctest

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/joeblew999/plat-textsnap/internal/config"
	"github.com/joeblew999/plat-textsnap/internal/svc"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// Config returns a configuration rooted at dir.
func Config(dir string) config.Config {
	var c config.Config
	c.Name = "textsnap-test"
	c.Fonts = config.FontsConfig{
		Dir:            filepath.Join(dir, "fonts"),
		CacheDir:       filepath.Join(dir, "font-cache"),
		CacheLimit:     16,
		CacheTTL:       time.Minute,
		MaxUploadBytes: 1 << 20,
	}
	c.Output = config.OutputConfig{
		Dir:         filepath.Join(dir, "output"),
		Retention:   time.Hour,
		JPEGQuality: 90,
	}
	c.Fetch = config.FetchConfig{
		Timeout:  5 * time.Second,
		MaxBytes: 1 << 20,
	}
	c.Database = config.DatabaseConfig{Path: filepath.Join(dir, "textsnap.db")}
	c.Maintenance = config.MaintenanceConfig{
		Queue:        "maintenance",
		Workers:      1,
		RetryBackoff: time.Second,
		MaxBackoff:   time.Minute,
	}
	return c
}

// New returns a service context whose library holds roboto/Roboto-Regular.ttf
// and roboto/Roboto-Bold.ttf.
func New(t *testing.T) *svc.ServiceContext {
	t.Helper()

	c := Config(t.TempDir())
	WriteFont(t, c.Fonts.Dir, "roboto/Roboto-Regular.ttf", goregular.TTF)
	WriteFont(t, c.Fonts.Dir, "roboto/Roboto-Bold.ttf", gobold.TTF)

	s, err := svc.NewServiceContext(c)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// WriteFont writes data at root/rel.
func WriteFont(t *testing.T, root, rel string, data []byte) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

// ImageServer serves a w x h white PNG at /base.png. Other paths are 404.
func ImageServer(t *testing.T, w, h int) *httptest.Server {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	mux := http.NewServeMux()
	mux.HandleFunc("/base.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(buf.Bytes())
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}
