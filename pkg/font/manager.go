package font

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joeblew999/plat-textsnap/pkg/log"
)

// ErrInvalidFont is returned by Upload for names or data that are not fonts.
var ErrInvalidFont = errors.New("invalid font")

// Request asks for a face of a family at a pixel size.
type Request struct {
	Family  string
	Weight  int
	Style   string
	Variant string
	Size    float64
}

// Query returns the resolver query of the request.
func (r Request) Query() Query {
	return Query{Family: r.Family, Weight: r.Weight, Style: r.Style, Variant: r.Variant}
}

// Outcome describes how a face request was served.
type Outcome struct {
	Record   Record `json:"record"`
	Tier     Tier   `json:"-"`
	Path     string `json:"path"`
	Fallback bool   `json:"fallback"`
	Reason   string `json:"reason,omitempty"`
}

// Fallback reasons.
const (
	ReasonNotFound   = "not_found"
	ReasonConversion = "conversion"
	ReasonParse      = "parse"
	ReasonLookup     = "lookup"
)

// Manager composes the index, resolver, converter and face cache.
type Manager struct {
	index     *Index
	resolver  *Resolver
	converter *Converter
	faces     *FaceCache
}

// NewManager wires the font core together.
func NewManager(index *Index, resolver *Resolver, converter *Converter, faces *FaceCache) *Manager {
	return &Manager{
		index:     index,
		resolver:  resolver,
		converter: converter,
		faces:     faces,
	}
}

// Index returns the font index.
func (m *Manager) Index() *Index { return m.index }

// Resolver returns the resolver.
func (m *Manager) Resolver() *Resolver { return m.resolver }

// Converter returns the web font converter.
func (m *Manager) Converter() *Converter { return m.converter }

// Faces returns the face cache.
func (m *Manager) Faces() *FaceCache { return m.faces }

// Face resolves, converts and loads a face. It never fails: any miss along
// the way degrades to the default font and is reported in the Outcome.
func (m *Manager) Face(ctx context.Context, req Request) (*Handle, Outcome) {
	size := req.Size
	if size <= 0 {
		size = DefaultSize
	}

	rec, tier, err := m.resolver.Resolve(ctx, req.Query())
	if err != nil {
		reason := ReasonNotFound
		if !errors.Is(err, ErrNotFound) {
			reason = ReasonLookup
		}
		return m.fallback(size, Outcome{Reason: reason}, err)
	}

	path, err := m.converter.Ensure(ctx, rec.Path, rec.Format)
	if err != nil {
		return m.fallback(size, Outcome{Record: rec, Tier: tier, Reason: ReasonConversion}, err)
	}

	h := m.faces.Get(path, size)
	out := Outcome{Record: rec, Tier: tier, Path: path}
	if h.IsDefault() {
		out.Fallback = true
		out.Reason = ReasonParse
		fallbacks.Inc(ReasonParse)
	}
	return h, out
}

func (m *Manager) fallback(size float64, out Outcome, err error) (*Handle, Outcome) {
	log.Warn("Using default font", "reason", out.Reason, "error", err)
	fallbacks.Inc(out.Reason)

	out.Fallback = true
	h := m.faces.Default(size)
	out.Path = h.Path()
	return h, out
}

// Reindex rebuilds the index and clears the face cache.
func (m *Manager) Reindex(ctx context.Context) (int, error) {
	n, err := m.index.Rebuild(ctx)
	if err != nil {
		return 0, err
	}
	m.faces.Clear()
	return n, nil
}

// Upload stores a font file under <root>/<family>/<name> and reindexes.
func (m *Manager) Upload(ctx context.Context, family, name string, data []byte) (Record, error) {
	path, format, err := m.libraryPath(ctx, family, name)
	if err != nil {
		return Record{}, err
	}
	if !hasFontMagic(data, format) {
		return Record{}, fmt.Errorf("%w: %s does not look like %s data", ErrInvalidFont, name, format)
	}
	if _, err := InspectBytes(data, format); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrInvalidFont, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return Record{}, fmt.Errorf("create family directory: %w", err)
	}
	if err := writeFileAtomic(filepath.Dir(path), path, data); err != nil {
		return Record{}, fmt.Errorf("write font: %w", err)
	}

	rec, err := parsePath(m.index.root, path, m.index.variants)
	if err != nil {
		return Record{}, err
	}

	if _, err := m.Reindex(ctx); err != nil {
		return Record{}, fmt.Errorf("reindex after upload: %w", err)
	}

	log.Info("Font uploaded", "family", rec.Family, "path", path)
	return rec, nil
}

// Delete removes a font file from the library and reindexes. Missing files
// report ErrNotFound.
func (m *Manager) Delete(ctx context.Context, family, name string) error {
	path, _, err := m.libraryPath(ctx, family, name)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s/%s", ErrNotFound, family, name)
		}
		return err
	}

	// Drop the family directory once it is empty.
	dir := filepath.Dir(path)
	if entries, err := os.ReadDir(dir); err == nil && len(entries) == 0 {
		os.Remove(dir)
	}

	if _, err := m.Reindex(ctx); err != nil {
		return fmt.Errorf("reindex after delete: %w", err)
	}

	log.Info("Font deleted", "family", family, "name", name)
	return nil
}

// Inspect returns the sfnt metadata of a library file.
func (m *Manager) Inspect(path string) (Info, error) {
	return Inspect(path)
}

// libraryPath validates family and name and locates the file under the
// root. Indexed files keep their on-disk location, so a family directory
// named Arial is found for the family arial.
func (m *Manager) libraryPath(ctx context.Context, family, name string) (string, string, error) {
	family = NormalizeFamily(family)
	if !safeSegment(family) {
		return "", "", fmt.Errorf("%w: family %q", ErrInvalidFont, family)
	}
	if !safeSegment(name) {
		return "", "", fmt.Errorf("%w: name %q", ErrInvalidFont, name)
	}
	format, ok := FormatOf(name)
	if !ok {
		return "", "", fmt.Errorf("%w: %s is not ttf, otf, woff or woff2", ErrInvalidFont, name)
	}

	records, err := m.index.registry.ListFamily(ctx, family)
	if err != nil {
		return "", "", err
	}
	for _, rec := range records {
		if filepath.Base(rec.Path) == name {
			return rec.Path, format, nil
		}
	}

	dir := filepath.Join(m.index.root, family)
	for _, rec := range records {
		if rel, err := filepath.Rel(m.index.root, rec.Path); err == nil {
			dir = filepath.Join(m.index.root, strings.Split(filepath.ToSlash(rel), "/")[0])
			break
		}
	}
	return filepath.Join(dir, name), format, nil
}

func safeSegment(s string) bool {
	return s != "" && s != "." && s != ".." && !strings.ContainsAny(s, `/\`) && !strings.HasPrefix(s, ".")
}

func hasFontMagic(data []byte, format string) bool {
	if len(data) < 4 {
		return false
	}
	magic := data[:4]
	switch format {
	case FormatTTF, FormatOTF:
		return bytes.Equal(magic, []byte{0x00, 0x01, 0x00, 0x00}) ||
			bytes.Equal(magic, []byte("OTTO")) ||
			bytes.Equal(magic, []byte("true"))
	case FormatWOFF:
		return bytes.Equal(magic, []byte("wOFF"))
	case FormatWOFF2:
		return bytes.Equal(magic, []byte("wOF2"))
	}
	return false
}
