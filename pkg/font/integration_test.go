//go:build integration
// +build integration

package font

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/flopp/go-findfont"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSystemFontLibrary builds a library from fonts installed on the host and
// runs them through the whole pipeline.
func TestSystemFontLibrary(t *testing.T) {
	var system []string
	for _, p := range findfont.List() {
		if format, ok := FormatOf(p); ok && (format == FormatTTF || format == FormatOTF) {
			system = append(system, p)
		}
		if len(system) == 5 {
			break
		}
	}
	if len(system) == 0 {
		t.Skip("no system fonts installed")
	}

	ctx := context.Background()
	lib := newLibrary(t)
	for _, src := range system {
		data, err := os.ReadFile(src)
		require.NoError(t, err)
		family := strings.ToLower(strings.TrimSuffix(filepath.Base(src), filepath.Ext(src)))
		writeFile(t, lib.root, family+"/"+filepath.Base(src), data)
	}

	m := NewManager(lib.index, lib.resolver, NewConverter(t.TempDir()), newTestFaceCache(t))
	n, err := m.Reindex(ctx)
	require.NoError(t, err)
	assert.Positive(t, n)

	records, err := m.Index().List(ctx)
	require.NoError(t, err)

	for _, rec := range records {
		t.Run(rec.Family, func(t *testing.T) {
			h, out := m.Face(ctx, Request{Family: rec.Family, Weight: rec.Weight, Style: rec.Style, Variant: rec.Variant, Size: 24})
			if out.Fallback {
				t.Logf("⚠️ %s fell back (%s)", rec.Path, out.Reason)
				return
			}
			assert.Equal(t, rec.Path, out.Path)
			assert.Positive(t, h.Measure("Hello").Ceil())

			if info, err := Inspect(rec.Path); err == nil {
				t.Logf("✅ %s: family=%q weight=%d style=%s", rec.Path, info.Family, info.Weight, info.Style())
			}
		})
	}
}

func TestSystemDefaultFont(t *testing.T) {
	fonts := findfont.List()
	if len(fonts) == 0 {
		t.Skip("no system fonts installed")
	}

	name := filepath.Base(fonts[0])
	d := LoadDefaultFont(name)
	t.Logf("📁 Default font: %s (%s)", d.Name(), d.Path())
	assert.NotEmpty(t, d.Name())
}
