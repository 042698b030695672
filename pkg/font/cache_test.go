package font

import (
	"image"
	"image/color"
	"image/draw"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/math/fixed"
)

func TestFaceCache(t *testing.T) {
	root := t.TempDir()
	path := writeFont(t, root, "arial/arial.ttf")

	t.Run("SameKeySameHandle", func(t *testing.T) {
		c := newTestFaceCache(t)
		h1 := c.Get(path, 32)
		h2 := c.Get(path, 32)
		assert.Same(t, h1, h2)
		assert.False(t, h1.IsDefault())
		assert.Equal(t, path, h1.Path())
		assert.Equal(t, 32.0, h1.Size())
	})

	t.Run("SizeIsPartOfTheKey", func(t *testing.T) {
		c := newTestFaceCache(t)
		small := c.Get(path, 12)
		large := c.Get(path, 48)
		assert.NotSame(t, small, large)
		assert.Greater(t, large.LineHeight(), small.LineHeight())
	})

	t.Run("ConcurrentFirstRequestsShareOneHandle", func(t *testing.T) {
		c := newTestFaceCache(t)
		handles := make([]*Handle, 16)
		var wg sync.WaitGroup
		for i := range handles {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				handles[i] = c.Get(path, 20)
			}(i)
		}
		wg.Wait()

		for _, h := range handles {
			assert.Same(t, handles[0], h)
		}
	})

	t.Run("ClearEvicts", func(t *testing.T) {
		c := newTestFaceCache(t)
		before := c.Get(path, 24)
		assert.Equal(t, 1, c.Entries())

		c.Clear()
		assert.Zero(t, c.Entries())

		after := c.Get(path, 24)
		assert.NotSame(t, before, after)
	})

	t.Run("DistinctSizesStayWithinLimit", func(t *testing.T) {
		const limit = 4
		c, err := NewFaceCache(limit, time.Minute, LoadDefaultFont(""))
		require.NoError(t, err)

		first := c.Get(path, 10)
		for size := 11; size < 40; size++ {
			c.Get(path, float64(size))
			assert.LessOrEqual(t, c.Entries(), limit)
		}
		assert.Equal(t, limit, c.Entries())

		last := c.Get(path, 39)
		assert.Same(t, last, c.Get(path, 39))
		assert.NotSame(t, first, c.Get(path, 10), "oldest size was evicted")
	})

	t.Run("ParseFailureFallsBackWithoutError", func(t *testing.T) {
		broken := writeFile(t, root, "broken/broken.ttf", []byte("definitely not a font"))
		c := newTestFaceCache(t)

		h := c.Get(broken, 24)
		require.NotNil(t, h)
		assert.True(t, h.IsDefault())
		assert.Positive(t, h.Measure("fallback").Ceil())
	})

	t.Run("MissingFileFallsBack", func(t *testing.T) {
		c := newTestFaceCache(t)
		h := c.Get(filepath.Join(root, "nope", "nope.ttf"), 24)
		assert.True(t, h.IsDefault())
	})

	t.Run("FailuresAreNotCached", func(t *testing.T) {
		c := newTestFaceCache(t)
		later := filepath.Join(root, "later", "later.ttf")

		assert.True(t, c.Get(later, 24).IsDefault())
		writeFont(t, root, "later/later.ttf")
		assert.False(t, c.Get(later, 24).IsDefault())
	})

	t.Run("ZeroSizeUsesDefault", func(t *testing.T) {
		c := newTestFaceCache(t)
		assert.Equal(t, float64(DefaultSize), c.Get(path, 0).Size())
		assert.Equal(t, float64(DefaultSize), c.Default(-1).Size())
	})
}

func TestHandle(t *testing.T) {
	c := newTestFaceCache(t)
	h := c.Default(32)

	t.Run("Measure", func(t *testing.T) {
		short := h.Measure("ab")
		long := h.Measure("abcdef")
		assert.Greater(t, long, short)
		assert.Zero(t, h.Measure(""))
	})

	t.Run("Bounds", func(t *testing.T) {
		bounds, advance := h.Bounds("Hg")
		assert.Equal(t, h.Measure("Hg"), advance)
		assert.Less(t, bounds.Min.Y, fixed.Int26_6(0), "ascender is above the baseline")
		assert.Greater(t, bounds.Max.Y, fixed.Int26_6(0), "descender of g is below the baseline")
	})

	t.Run("Draw", func(t *testing.T) {
		dst := image.NewRGBA(image.Rect(0, 0, 200, 60))
		draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)

		h.Draw(dst, image.NewUniform(color.Black), fixed.P(10, 40), "Hello")

		dark := 0
		for y := 0; y < 60; y++ {
			for x := 0; x < 200; x++ {
				if r, _, _, _ := dst.At(x, y).RGBA(); r < 0x8000 {
					dark++
				}
			}
		}
		assert.Positive(t, dark)
	})

	t.Run("ConcurrentUse", func(t *testing.T) {
		var wg sync.WaitGroup
		for range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				dst := image.NewRGBA(image.Rect(0, 0, 100, 40))
				for range 20 {
					h.Measure("concurrent")
					h.Draw(dst, image.Black, fixed.P(0, 30), "x")
				}
			}()
		}
		wg.Wait()
	})
}

func TestLoadDefaultFont(t *testing.T) {
	t.Run("Embedded", func(t *testing.T) {
		d := LoadDefaultFont("")
		assert.Equal(t, "goregular", d.Name())
		assert.Empty(t, d.Path())
	})

	t.Run("UnknownSystemFontFallsBack", func(t *testing.T) {
		d := LoadDefaultFont("no-such-font-anywhere-7f3a.ttf")
		assert.Equal(t, "goregular", d.Name())
	})

	t.Run("ExplicitPath", func(t *testing.T) {
		path := writeFont(t, t.TempDir(), "sys/system.ttf")
		d := LoadDefaultFont(path)
		assert.Equal(t, path, d.Path())
	})
}
