package font

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

func newTestManager(t *testing.T, decode DecodeFunc, files ...string) (*Manager, *library) {
	t.Helper()
	lib := rebuilt(t, files...)

	var opts []ConverterOption
	if decode != nil {
		opts = append(opts, WithDecoder(decode))
	}
	m := NewManager(lib.index, lib.resolver, NewConverter(t.TempDir(), opts...), newTestFaceCache(t))
	return m, lib
}

func TestManagerFace(t *testing.T) {
	ctx := context.Background()

	t.Run("ResolvedFace", func(t *testing.T) {
		m, lib := newTestManager(t, nil, "arial/arial-bold-italic.ttf")

		h, out := m.Face(ctx, Request{Family: "Arial", Weight: 700, Style: "italic", Size: 30})
		assert.False(t, out.Fallback)
		assert.Equal(t, TierExact, out.Tier)
		assert.Equal(t, lib.path("arial/arial-bold-italic.ttf"), out.Path)
		assert.False(t, h.IsDefault())
		assert.Equal(t, 30.0, h.Size())
	})

	t.Run("UnknownFamilyDegradesToDefault", func(t *testing.T) {
		m, _ := newTestManager(t, nil, "arial/arial.ttf")

		h, out := m.Face(ctx, Request{Family: "helvetica", Size: 20})
		require.NotNil(t, h)
		assert.True(t, h.IsDefault())
		assert.True(t, out.Fallback)
		assert.Equal(t, ReasonNotFound, out.Reason)
	})

	t.Run("WebFontIsConverted", func(t *testing.T) {
		dec := &countingDecoder{}
		m, _ := newTestManager(t, dec.decode, "vazir/vazir-fanum.woff2")

		h, out := m.Face(ctx, Request{Family: "vazir", Variant: "fanum", Size: 18})
		assert.False(t, out.Fallback)
		assert.False(t, h.IsDefault())
		assert.Equal(t, "woff2", out.Record.Format)
		assert.Equal(t, ".ttf", out.Path[len(out.Path)-4:])

		_, _ = m.Face(ctx, Request{Family: "vazir", Variant: "fanum", Size: 24})
		assert.Equal(t, int32(1), dec.calls.Load())
	})

	t.Run("ConversionFailureDegradesToDefault", func(t *testing.T) {
		failing := func([]byte, string) ([]byte, error) { return nil, errors.New("corrupt") }
		m, _ := newTestManager(t, failing, "vazir/vazir.woff2")

		h, out := m.Face(ctx, Request{Family: "vazir", Size: 18})
		assert.True(t, h.IsDefault())
		assert.True(t, out.Fallback)
		assert.Equal(t, ReasonConversion, out.Reason)
		assert.Equal(t, "vazir", out.Record.Family)
	})

	t.Run("ParseFailureDegradesToDefault", func(t *testing.T) {
		m, lib := newTestManager(t, nil)
		writeFile(t, lib.root, "broken/broken.ttf", []byte("not a font"))
		_, err := m.Reindex(ctx)
		require.NoError(t, err)

		h, out := m.Face(ctx, Request{Family: "broken", Size: 18})
		assert.True(t, h.IsDefault())
		assert.Equal(t, ReasonParse, out.Reason)
	})
}

func TestManagerInvalidation(t *testing.T) {
	ctx := context.Background()
	m, lib := newTestManager(t, nil, "inter/inter-regular.ttf")

	// A new weight arrives on disk without going through the manager.
	boldPath := writeFile(t, lib.root, "inter/inter-bold.ttf", gobold.TTF)

	rec, _, err := m.Resolver().Resolve(ctx, Query{Family: "inter", Weight: 700})
	require.NoError(t, err)
	assert.NotEqual(t, boldPath, rec.Path, "not visible before reindex")

	stale, _ := m.Face(ctx, Request{Family: "inter", Weight: 700, Size: 24})

	n, err := m.Reindex(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	rec, tier, err := m.Resolver().Resolve(ctx, Query{Family: "inter", Weight: 700})
	require.NoError(t, err)
	assert.Equal(t, boldPath, rec.Path)
	assert.Equal(t, TierExact, tier)

	fresh, out := m.Face(ctx, Request{Family: "inter", Weight: 700, Size: 24})
	assert.Equal(t, boldPath, out.Path)
	assert.NotSame(t, stale, fresh)
}

func TestManagerUpload(t *testing.T) {
	ctx := context.Background()

	t.Run("StoresAndIndexes", func(t *testing.T) {
		m, lib := newTestManager(t, nil, "arial/arial.ttf")
		before := m.Faces().Get(lib.path("arial/arial.ttf"), 24)

		rec, err := m.Upload(ctx, "Roboto", "roboto-bold.ttf", gobold.TTF)
		require.NoError(t, err)
		assert.Equal(t, "roboto", rec.Family)
		assert.Equal(t, 700, rec.Weight)
		assert.FileExists(t, lib.path("roboto/roboto-bold.ttf"))

		got, tier, err := m.Resolver().Resolve(ctx, Query{Family: "roboto", Weight: 700})
		require.NoError(t, err)
		assert.Equal(t, TierExact, tier)
		assert.Equal(t, rec.Path, got.Path)

		after := m.Faces().Get(lib.path("arial/arial.ttf"), 24)
		assert.NotSame(t, before, after, "upload clears the face cache")
	})

	t.Run("KeepsExistingFamilyDirectory", func(t *testing.T) {
		m, lib := newTestManager(t, nil, "Arial/arial.ttf")

		rec, err := m.Upload(ctx, "arial", "arial-italic.ttf", goregular.TTF)
		require.NoError(t, err)
		assert.Equal(t, lib.path("Arial/arial-italic.ttf"), rec.Path)
		assert.FileExists(t, lib.path("Arial/arial-italic.ttf"))
		assert.Equal(t, "arial", rec.Family)
	})

	t.Run("RejectsNonFontData", func(t *testing.T) {
		m, lib := newTestManager(t, nil)
		_, err := m.Upload(ctx, "roboto", "roboto.ttf", []byte("<html>hello</html>"))
		assert.ErrorIs(t, err, ErrInvalidFont)
		assert.NoFileExists(t, lib.path("roboto/roboto.ttf"))
	})

	t.Run("RejectsMismatchedMagic", func(t *testing.T) {
		m, _ := newTestManager(t, nil)
		_, err := m.Upload(ctx, "roboto", "roboto.woff2", goregular.TTF)
		assert.ErrorIs(t, err, ErrInvalidFont)
	})

	t.Run("RejectsUnsafeNames", func(t *testing.T) {
		m, _ := newTestManager(t, nil)
		for _, tt := range []struct{ family, name string }{
			{"..", "x.ttf"},
			{"roboto", "../escape.ttf"},
			{"a/b", "x.ttf"},
			{"", "x.ttf"},
			{"roboto", ".hidden.ttf"},
			{"roboto", "notes.txt"},
		} {
			_, err := m.Upload(ctx, tt.family, tt.name, goregular.TTF)
			assert.ErrorIs(t, err, ErrInvalidFont, "%s/%s", tt.family, tt.name)
		}
	})
}

func TestManagerDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("RemovesAndReindexes", func(t *testing.T) {
		m, lib := newTestManager(t, nil, "arial/arial.ttf", "roboto/roboto.ttf")

		require.NoError(t, m.Delete(ctx, "roboto", "roboto.ttf"))
		assert.NoFileExists(t, lib.path("roboto/roboto.ttf"))
		assert.NoDirExists(t, lib.path("roboto"), "empty family directory is removed")

		_, _, err := m.Resolver().Resolve(ctx, Query{Family: "roboto"})
		assert.ErrorIs(t, err, ErrNotFound)

		count, err := m.Index().Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("MissingFontIsNotFound", func(t *testing.T) {
		m, _ := newTestManager(t, nil, "arial/arial.ttf")
		err := m.Delete(ctx, "arial", "arial-bold.ttf")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("MixedCaseFamilyDirectory", func(t *testing.T) {
		m, lib := newTestManager(t, nil, "Arial/arial.ttf", "Arial/arial-bold.ttf")

		require.NoError(t, m.Delete(ctx, "arial", "arial-bold.ttf"))
		assert.NoFileExists(t, lib.path("Arial/arial-bold.ttf"))
		assert.FileExists(t, lib.path("Arial/arial.ttf"))

		count, err := m.Index().Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("UnsafeNameRejected", func(t *testing.T) {
		m, _ := newTestManager(t, nil, "arial/arial.ttf")
		err := m.Delete(ctx, "arial", "../../textsnap.db")
		assert.ErrorIs(t, err, ErrInvalidFont)
	})
}

func TestManagerInspect(t *testing.T) {
	m, lib := newTestManager(t, nil, "go/go-regular.ttf")

	info, err := m.Inspect(lib.path("go/go-regular.ttf"))
	require.NoError(t, err)
	assert.Equal(t, "Go", info.Family)
	assert.Equal(t, "normal", info.Style())
	assert.Equal(t, "ttf", info.Format)
	assert.Positive(t, info.UnitsPerEm)

	_, err = m.Inspect(lib.path("go/missing.ttf"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
