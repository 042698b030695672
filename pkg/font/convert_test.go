package font

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

// countingDecoder returns goregular for every input and counts invocations.
type countingDecoder struct {
	calls atomic.Int32
	delay time.Duration
}

func (d *countingDecoder) decode(data []byte, format string) ([]byte, error) {
	d.calls.Add(1)
	if d.delay > 0 {
		time.Sleep(d.delay)
	}
	return goregular.TTF, nil
}

func TestConverterEnsure(t *testing.T) {
	ctx := context.Background()

	t.Run("RenderableFormatsPassThrough", func(t *testing.T) {
		dec := &countingDecoder{}
		c := NewConverter(t.TempDir(), WithDecoder(dec.decode))

		for _, format := range []string{FormatTTF, FormatOTF} {
			got, err := c.Ensure(ctx, "/fonts/arial/arial."+format, format)
			require.NoError(t, err)
			assert.Equal(t, "/fonts/arial/arial."+format, got)
		}
		assert.Zero(t, dec.calls.Load())
	})

	t.Run("ConvertsOnce", func(t *testing.T) {
		root := t.TempDir()
		src := writeFile(t, root, "vazir/vazir.woff2", []byte("wOF2-payload"))

		dec := &countingDecoder{}
		cacheDir := filepath.Join(t.TempDir(), "cache")
		c := NewConverter(cacheDir, WithDecoder(dec.decode))

		first, err := c.Ensure(ctx, src, FormatWOFF2)
		require.NoError(t, err)
		assert.Equal(t, cacheDir, filepath.Dir(first))
		assert.Equal(t, ".ttf", filepath.Ext(first))
		assert.FileExists(t, first)

		second, err := c.Ensure(ctx, src, FormatWOFF2)
		require.NoError(t, err)
		assert.Equal(t, first, second)
		assert.Equal(t, int32(1), dec.calls.Load(), "second request must reuse the cached file")

		data, err := os.ReadFile(first)
		require.NoError(t, err)
		assert.Equal(t, goregular.TTF, data)
	})

	t.Run("SurvivesRestart", func(t *testing.T) {
		root := t.TempDir()
		src := writeFile(t, root, "vazir/vazir.woff", []byte("wOFF-payload"))
		cacheDir := t.TempDir()

		dec := &countingDecoder{}
		first, err := NewConverter(cacheDir, WithDecoder(dec.decode)).Ensure(ctx, src, FormatWOFF)
		require.NoError(t, err)

		second, err := NewConverter(cacheDir, WithDecoder(dec.decode)).Ensure(ctx, src, FormatWOFF)
		require.NoError(t, err)
		assert.Equal(t, first, second)
		assert.Equal(t, int32(1), dec.calls.Load())
	})

	t.Run("ConcurrentRequestsShareOneConversion", func(t *testing.T) {
		root := t.TempDir()
		src := writeFile(t, root, "vazir/vazir.woff2", []byte("wOF2-payload"))

		dec := &countingDecoder{delay: 50 * time.Millisecond}
		c := NewConverter(t.TempDir(), WithDecoder(dec.decode))

		var wg sync.WaitGroup
		paths := make([]string, 8)
		for i := range paths {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				p, err := c.Ensure(ctx, src, FormatWOFF2)
				assert.NoError(t, err)
				paths[i] = p
			}(i)
		}
		wg.Wait()

		assert.Equal(t, int32(1), dec.calls.Load())
		for _, p := range paths {
			assert.Equal(t, paths[0], p)
		}
	})

	t.Run("SameNameInDifferentFamiliesDoesNotCollide", func(t *testing.T) {
		root := t.TempDir()
		a := writeFile(t, root, "alpha/icons.woff2", []byte("wOF2-alpha"))
		b := writeFile(t, root, "beta/icons.woff2", []byte("wOF2-beta"))

		dec := &countingDecoder{}
		c := NewConverter(t.TempDir(), WithDecoder(dec.decode))

		pa, err := c.Ensure(ctx, a, FormatWOFF2)
		require.NoError(t, err)
		pb, err := c.Ensure(ctx, b, FormatWOFF2)
		require.NoError(t, err)

		assert.NotEqual(t, pa, pb)
		assert.Equal(t, int32(2), dec.calls.Load())
	})

	t.Run("ChangedSourceIsReconverted", func(t *testing.T) {
		root := t.TempDir()
		src := writeFile(t, root, "vazir/vazir.woff2", []byte("wOF2-v1"))

		dec := &countingDecoder{}
		c := NewConverter(t.TempDir(), WithDecoder(dec.decode))

		first, err := c.Ensure(ctx, src, FormatWOFF2)
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(src, []byte("wOF2-version-two"), 0644))
		later := time.Now().Add(time.Minute)
		require.NoError(t, os.Chtimes(src, later, later))

		second, err := c.Ensure(ctx, src, FormatWOFF2)
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
		assert.Equal(t, int32(2), dec.calls.Load())
	})

	t.Run("OpenTypeOutputKeepsOTFExtension", func(t *testing.T) {
		root := t.TempDir()
		src := writeFile(t, root, "lato/lato.woff2", []byte("wOF2"))

		c := NewConverter(t.TempDir(), WithDecoder(func([]byte, string) ([]byte, error) {
			return []byte("OTTO-cff-font"), nil
		}))

		p, err := c.Ensure(ctx, src, FormatWOFF2)
		require.NoError(t, err)
		assert.Equal(t, ".otf", filepath.Ext(p))
	})

	t.Run("DecodeFailureIsConversionError", func(t *testing.T) {
		root := t.TempDir()
		src := writeFile(t, root, "broken/broken.woff2", []byte("garbage"))
		cacheDir := t.TempDir()

		boom := errors.New("bad table directory")
		c := NewConverter(cacheDir, WithDecoder(func([]byte, string) ([]byte, error) {
			return nil, boom
		}))

		_, err := c.Ensure(ctx, src, FormatWOFF2)
		var ce *ConversionError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, src, ce.Path)
		assert.ErrorIs(t, err, boom)

		files, _ := c.Usage()
		assert.Zero(t, files, "failed conversions leave nothing behind")
	})

	t.Run("RealDecoderRejectsGarbage", func(t *testing.T) {
		root := t.TempDir()
		src := writeFile(t, root, "broken/broken.woff", []byte("not a woff file at all"))

		_, err := NewConverter(t.TempDir()).Ensure(ctx, src, FormatWOFF)
		var ce *ConversionError
		assert.ErrorAs(t, err, &ce)
	})

	t.Run("MissingSource", func(t *testing.T) {
		_, err := NewConverter(t.TempDir()).Ensure(ctx, filepath.Join(t.TempDir(), "gone.woff2"), FormatWOFF2)
		var ce *ConversionError
		require.ErrorAs(t, err, &ce)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("UnsupportedFormat", func(t *testing.T) {
		_, err := NewConverter(t.TempDir()).Ensure(ctx, "/fonts/a/a.eot", "eot")
		assert.ErrorIs(t, err, errUnsupportedFormat)
	})
}

func TestConverterPurge(t *testing.T) {
	root := t.TempDir()
	cacheDir := t.TempDir()
	dec := &countingDecoder{}
	c := NewConverter(cacheDir, WithDecoder(dec.decode))

	for _, rel := range []string{"a/a.woff2", "b/b.woff2", "c/c.woff"} {
		format, _ := FormatOf(rel)
		_, err := c.Ensure(context.Background(), writeFile(t, root, rel, []byte("wOF2")), format)
		require.NoError(t, err)
	}

	files, size := c.Usage()
	assert.Equal(t, 3, files)
	assert.Equal(t, int64(3*len(goregular.TTF)), size)

	removed, err := c.Purge()
	require.NoError(t, err)
	assert.Equal(t, 3, removed)

	files, _ = c.Usage()
	assert.Zero(t, files)

	t.Run("MissingDirectory", func(t *testing.T) {
		removed, err := NewConverter(filepath.Join(t.TempDir(), "never")).Purge()
		require.NoError(t, err)
		assert.Zero(t, removed)
	})
}
