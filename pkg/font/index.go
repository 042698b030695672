package font

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/joeblew999/plat-textsnap/pkg/log"
)

// Index scans the font root and keeps the registry in sync with it.
type Index struct {
	root     string
	registry *Registry
	variants []string

	mu sync.Mutex
}

// NewIndex creates an index over root. Nil variants selects DefaultVariantTags.
func NewIndex(root string, registry *Registry, variants []string) *Index {
	if variants == nil {
		variants = DefaultVariantTags
	}
	return &Index{
		root:     root,
		registry: registry,
		variants: variants,
	}
}

// Root returns the font library directory.
func (i *Index) Root() string {
	return i.root
}

// Rebuild rescans the font root and replaces the indexed records.
//
// The scan runs before any write. A walk failure returns the error and
// leaves the previous index untouched. Files that cannot be parsed are
// skipped. When two files share a key the first in lexical walk order wins.
// Concurrent calls are serialized.
func (i *Index) Rebuild(ctx context.Context) (int, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	start := time.Now()
	records, skipped, duplicates, err := i.scan(ctx)
	if err != nil {
		rebuildDuration.ObserveFloat(time.Since(start).Seconds(), "error")
		return 0, err
	}

	if err := i.registry.Replace(ctx, records); err != nil {
		rebuildDuration.ObserveFloat(time.Since(start).Seconds(), "error")
		return 0, fmt.Errorf("store index: %w", err)
	}

	rebuildDuration.ObserveFloat(time.Since(start).Seconds(), "ok")
	indexedFonts.Set(float64(len(records)), "records")
	indexedFonts.Set(float64(skipped), "skipped")
	indexedFonts.Set(float64(duplicates), "duplicates")

	log.Info("Font index rebuilt",
		"root", i.root,
		"records", len(records),
		"skipped", skipped,
		"duplicates", duplicates,
		"duration", time.Since(start).String(),
	)
	return len(records), nil
}

func (i *Index) scan(ctx context.Context) (records []Record, skipped, duplicates int, err error) {
	info, err := os.Stat(i.root)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("font root: %w", err)
	}
	if !info.IsDir() {
		return nil, 0, 0, fmt.Errorf("font root %s is not a directory", i.root)
	}

	seen := make(map[string]string)
	err = filepath.WalkDir(i.root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := FormatOf(path); !ok {
			return nil
		}

		rec, err := parsePath(i.root, path, i.variants)
		if err != nil {
			var ie *IndexError
			if errors.As(err, &ie) {
				log.Warn("Skipping font", "path", path, "error", ie.Err)
				skipped++
				return nil
			}
			return err
		}

		key := rec.Key()
		if first, dup := seen[key]; dup {
			log.Debug("Duplicate font ignored", "path", path, "kept", first)
			duplicates++
			return nil
		}
		seen[key] = path
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return nil, 0, 0, fmt.Errorf("walk %s: %w", i.root, err)
	}

	return records, skipped, duplicates, nil
}

// List returns all indexed records.
func (i *Index) List(ctx context.Context) ([]Record, error) {
	return i.registry.List(ctx)
}

// Families groups the indexed records by family.
func (i *Index) Families(ctx context.Context) (map[string][]Record, error) {
	records, err := i.registry.List(ctx)
	if err != nil {
		return nil, err
	}

	families := make(map[string][]Record)
	for _, rec := range records {
		families[rec.Family] = append(families[rec.Family], rec)
	}
	return families, nil
}

// Count returns the number of indexed records.
func (i *Index) Count(ctx context.Context) (int, error) {
	return i.registry.Count(ctx)
}
