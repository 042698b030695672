package font

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rebuilt(t *testing.T, files ...string) *library {
	t.Helper()
	lib := newLibrary(t, files...)
	_, err := lib.index.Rebuild(context.Background())
	require.NoError(t, err)
	return lib
}

func TestResolveScenario(t *testing.T) {
	ctx := context.Background()
	lib := rebuilt(t, "arial/arial-bold-italic.ttf")
	want := lib.path("arial/arial-bold-italic.ttf")

	t.Run("Exact", func(t *testing.T) {
		rec, tier, err := lib.resolver.Resolve(ctx, Query{Family: "arial", Weight: 700, Style: "italic", Variant: "regular"})
		require.NoError(t, err)
		assert.Equal(t, want, rec.Path)
		assert.Equal(t, TierExact, tier)
	})

	t.Run("RelaxStyle", func(t *testing.T) {
		rec, tier, err := lib.resolver.Resolve(ctx, Query{Family: "arial", Weight: 700, Style: "normal", Variant: "regular"})
		require.NoError(t, err)
		assert.Equal(t, want, rec.Path)
		assert.Equal(t, TierStyle, tier)
	})

	t.Run("NearestWeight", func(t *testing.T) {
		rec, tier, err := lib.resolver.Resolve(ctx, Query{Family: "arial", Weight: 400, Style: "normal", Variant: "regular"})
		require.NoError(t, err)
		assert.Equal(t, want, rec.Path)
		assert.Equal(t, TierWeight, tier)
	})
}

func TestResolveExactMatchesAlwaysWin(t *testing.T) {
	ctx := context.Background()
	files := []string{
		"inter/inter-light.ttf",
		"inter/inter-regular.ttf",
		"inter/inter-bold.ttf",
		"inter/inter-bold-italic.ttf",
		"inter/inter-bold-oblique-fanum.otf",
		"inter/inter-300-italic-noen.woff2",
	}
	lib := rebuilt(t, files...)

	records, err := lib.index.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, len(files))

	for _, rec := range records {
		t.Run(rec.Key(), func(t *testing.T) {
			got, tier, err := lib.resolver.Resolve(ctx, Query{
				Family:  rec.Family,
				Weight:  rec.Weight,
				Style:   rec.Style,
				Variant: rec.Variant,
			})
			require.NoError(t, err)
			assert.Equal(t, rec.Path, got.Path)
			assert.Equal(t, TierExact, tier)
		})
	}
}

func TestResolveNeverNotFoundForKnownFamily(t *testing.T) {
	ctx := context.Background()
	lib := rebuilt(t, "vazir/vazir-fanum.woff2")

	for _, weight := range []int{1, 100, 400, 900, 1000} {
		for _, style := range []string{"normal", "italic", "oblique"} {
			for _, variant := range []string{"regular", "fanum", "noen", "other"} {
				_, _, err := lib.resolver.Resolve(ctx, Query{Family: "vazir", Weight: weight, Style: style, Variant: variant})
				assert.NoError(t, err, "%d/%s/%s", weight, style, variant)
			}
		}
	}
}

func TestResolveNearestWeight(t *testing.T) {
	ctx := context.Background()
	lib := rebuilt(t,
		"inter/inter-light.ttf",
		"inter/inter-regular.ttf",
		"inter/inter-bold.ttf",
	)

	tests := []struct {
		weight int
		want   int
	}{
		{500, 400},
		{600, 700},
		{100, 300},
		{900, 700},
		{350, 300}, // equidistant, lower weight wins
	}

	for _, tt := range tests {
		rec, tier, err := lib.resolver.Resolve(ctx, Query{Family: "inter", Weight: tt.weight})
		require.NoError(t, err)
		assert.Equal(t, tt.want, rec.Weight, "request %d", tt.weight)
		assert.Equal(t, TierWeight, tier)
	}
}

func TestResolveFormatPreference(t *testing.T) {
	ctx := context.Background()

	t.Run("TTFBeforeOTF", func(t *testing.T) {
		lib := rebuilt(t, "roboto/roboto-bold.otf", "roboto/roboto-bold.ttf")
		rec, _, err := lib.resolver.Resolve(ctx, Query{Family: "roboto", Weight: 700})
		require.NoError(t, err)
		assert.Equal(t, "ttf", rec.Format)
	})

	t.Run("OTFBeforeWebFonts", func(t *testing.T) {
		lib := rebuilt(t, "lato/lato.woff2", "lato/lato.otf", "lato/lato.woff")
		rec, _, err := lib.resolver.Resolve(ctx, Query{Family: "lato"})
		require.NoError(t, err)
		assert.Equal(t, "otf", rec.Format)
	})

	t.Run("AppliesInRelaxedTiers", func(t *testing.T) {
		lib := rebuilt(t, "lato/lato-italic.woff2", "lato/lato-italic.otf", "lato/lato-italic.ttf")
		rec, tier, err := lib.resolver.Resolve(ctx, Query{Family: "lato", Weight: 400, Style: "normal"})
		require.NoError(t, err)
		assert.Equal(t, TierStyle, tier)
		assert.Equal(t, "ttf", rec.Format)
	})
}

func TestResolveRelaxVariant(t *testing.T) {
	ctx := context.Background()
	lib := rebuilt(t,
		"vazir/vazir-bold-fanum.ttf",
		"vazir/vazir-bold-italic.ttf",
	)

	t.Run("RequestedStylePreferred", func(t *testing.T) {
		rec, tier, err := lib.resolver.Resolve(ctx, Query{Family: "vazir", Weight: 700, Style: "italic", Variant: "noen"})
		require.NoError(t, err)
		assert.Equal(t, TierVariant, tier)
		assert.Equal(t, lib.path("vazir/vazir-bold-italic.ttf"), rec.Path)
	})

	t.Run("RelaxStyleKeepsVariant", func(t *testing.T) {
		rec, tier, err := lib.resolver.Resolve(ctx, Query{Family: "vazir", Weight: 700, Style: "italic", Variant: "fanum"})
		require.NoError(t, err)
		assert.Equal(t, TierStyle, tier)
		assert.Equal(t, lib.path("vazir/vazir-bold-fanum.ttf"), rec.Path)
	})
}

func TestResolveWeightTieBreaks(t *testing.T) {
	ctx := context.Background()

	t.Run("VariantBeforeStyle", func(t *testing.T) {
		lib := rebuilt(t, "x/x-300-italic.ttf", "x/x-500-fanum.ttf")

		rec, _, err := lib.resolver.Resolve(ctx, Query{Family: "x", Weight: 400, Style: "italic", Variant: "fanum"})
		require.NoError(t, err)
		assert.Equal(t, 500, rec.Weight)

		rec, _, err = lib.resolver.Resolve(ctx, Query{Family: "x", Weight: 400, Style: "italic", Variant: "regular"})
		require.NoError(t, err)
		assert.Equal(t, 300, rec.Weight)
	})

	t.Run("StyleBeforeFormat", func(t *testing.T) {
		lib := rebuilt(t, "x/x-300.ttf", "x/x-500-italic.otf")
		rec, _, err := lib.resolver.Resolve(ctx, Query{Family: "x", Weight: 400, Style: "italic"})
		require.NoError(t, err)
		assert.Equal(t, 500, rec.Weight)
	})

	t.Run("DistanceBeforeEverything", func(t *testing.T) {
		lib := rebuilt(t, "x/x-100-italic-fanum.ttf", "x/x-600.woff2")
		rec, _, err := lib.resolver.Resolve(ctx, Query{Family: "x", Weight: 500, Style: "italic", Variant: "fanum"})
		require.NoError(t, err)
		assert.Equal(t, 600, rec.Weight)
	})
}

func TestResolveNotFound(t *testing.T) {
	ctx := context.Background()
	lib := rebuilt(t, "arial/arial.ttf")

	_, tier, err := lib.resolver.Resolve(ctx, Query{Family: "helvetica", Weight: 400})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, TierNone, tier)

	_, _, err = lib.resolver.Resolve(ctx, Query{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestQueryNormalize(t *testing.T) {
	q := Query{Family: "  Arial ", Style: "ITALIC", Variant: "Normal"}.Normalize()
	assert.Equal(t, Query{Family: "arial", Weight: 400, Style: "italic", Variant: "regular"}, q)

	q = Query{Family: "arial", Weight: 700, Style: "regular"}.Normalize()
	assert.Equal(t, "normal", q.Style)
	assert.Equal(t, "regular", q.Variant)
	assert.Equal(t, "arial/700/normal/regular", q.String())
}

func TestResolveCaseInsensitiveFamily(t *testing.T) {
	lib := rebuilt(t, "OpenSans/opensans-bold.ttf")
	rec, tier, err := lib.resolver.Resolve(context.Background(), Query{Family: "OPENSANS", Weight: 700})
	require.NoError(t, err)
	assert.Equal(t, TierExact, tier)
	assert.Equal(t, "opensans", rec.Family)
}

func TestTierString(t *testing.T) {
	assert.Equal(t, "exact", TierExact.String())
	assert.Equal(t, "style", TierStyle.String())
	assert.Equal(t, "variant", TierVariant.String())
	assert.Equal(t, "weight", TierWeight.String())
	assert.Equal(t, "none", TierNone.String())
}
