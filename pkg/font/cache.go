package font

import (
	"container/list"
	"fmt"
	"image"
	"image/draw"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/flopp/go-findfont"
	"github.com/joeblew999/plat-textsnap/pkg/log"
	"github.com/zeromicro/go-zero/core/collection"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Handle is a parsed face at one pixel size. Faces keep glyph buffers, so
// access is serialized to let one cached handle serve concurrent requests.
type Handle struct {
	mu       sync.Mutex
	face     xfont.Face
	path     string
	size     float64
	fallback bool
}

func newHandle(f *opentype.Font, path string, size float64, fallback bool) (*Handle, error) {
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: xfont.HintingFull,
	})
	if err != nil {
		return nil, err
	}
	return &Handle{face: face, path: path, size: size, fallback: fallback}, nil
}

// Path is the font file behind the handle, empty for the embedded default.
func (h *Handle) Path() string { return h.path }

// Size is the pixel size.
func (h *Handle) Size() float64 { return h.size }

// IsDefault reports whether this is the default font.
func (h *Handle) IsDefault() bool { return h.fallback }

// Measure returns the advance width of s.
func (h *Handle) Measure(s string) fixed.Int26_6 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return xfont.MeasureString(h.face, s)
}

// Bounds returns the ink bounds of s drawn at the origin, and its advance.
func (h *Handle) Bounds(s string) (fixed.Rectangle26_6, fixed.Int26_6) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return xfont.BoundString(h.face, s)
}

// Metrics returns the face metrics.
func (h *Handle) Metrics() xfont.Metrics {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.face.Metrics()
}

// LineHeight is the recommended baseline-to-baseline distance in pixels.
func (h *Handle) LineHeight() int {
	return h.Metrics().Height.Ceil()
}

// Draw renders s with its baseline origin at dot.
func (h *Handle) Draw(dst draw.Image, src image.Image, dot fixed.Point26_6, s string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	d := &xfont.Drawer{Dst: dst, Src: src, Face: h.face, Dot: dot}
	d.DrawString(s)
}

// DefaultFont is used whenever the library cannot serve a request.
type DefaultFont struct {
	name string
	path string
	font *opentype.Font
}

// LoadDefaultFont looks name up among the system fonts and falls back to the
// embedded Go Regular face.
func LoadDefaultFont(name string) *DefaultFont {
	if name != "" {
		if path, err := findfont.Find(name); err == nil {
			if data, err := os.ReadFile(path); err == nil {
				if f, err := opentype.Parse(data); err == nil {
					log.Info("Default font loaded", "name", name, "path", path)
					return &DefaultFont{name: name, path: path, font: f}
				}
			}
		}
		log.Warn("Default font unavailable, using embedded Go Regular", "name", name)
	}

	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		panic(fmt.Sprintf("parse embedded font: %v", err))
	}
	return &DefaultFont{name: "goregular", font: f}
}

// Name returns the font that was loaded.
func (d *DefaultFont) Name() string { return d.name }

// Path returns the file of a system default, empty when embedded.
func (d *DefaultFont) Path() string { return d.path }

func (d *DefaultFont) handle(size float64) *Handle {
	h, err := newHandle(d.font, d.path, size, true)
	if err != nil {
		// Only invalid sizes reach here.
		h, _ = newHandle(d.font, d.path, DefaultSize, true)
	}
	return h
}

// FaceCache memoizes handles by (path, size) with a size bound and a TTL.
type FaceCache struct {
	cache *collection.Cache
	def   *DefaultFont
	gen   atomic.Uint64
	keys  *keyIndex
}

// NewFaceCache creates a cache holding at most limit handles.
func NewFaceCache(limit int, ttl time.Duration, def *DefaultFont) (*FaceCache, error) {
	if limit <= 0 {
		limit = DefaultCacheLimit
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	if def == nil {
		def = LoadDefaultFont("")
	}

	cache, err := collection.NewCache(ttl, collection.WithLimit(limit), collection.WithName("font-faces"))
	if err != nil {
		return nil, err
	}
	return &FaceCache{cache: cache, def: def, keys: newKeyIndex(limit)}, nil
}

// Get returns the handle for path at size. Parse failures yield the default
// font and are not cached, so a repaired file is picked up on the next call.
func (c *FaceCache) Get(path string, size float64) *Handle {
	if size <= 0 {
		size = DefaultSize
	}

	key := c.key(path, size)
	val, err := c.cache.Take(key, func() (any, error) {
		h, err := loadHandle(path, size)
		if err != nil {
			faceLoads.Inc("error")
			return nil, err
		}
		faceLoads.Inc("ok")
		return h, nil
	})
	if err != nil {
		log.Warn("Font parse failed, using default font", "path", path, "size", size, "error", err)
		return c.Default(size)
	}

	c.track(key)
	return val.(*Handle)
}

// Default returns the default font at size.
func (c *FaceCache) Default(size float64) *Handle {
	if size <= 0 {
		size = DefaultSize
	}

	key := c.key("\x00default", size)
	val, _ := c.cache.Take(key, func() (any, error) {
		return c.def.handle(size), nil
	})
	c.track(key)
	return val.(*Handle)
}

// DefaultFont returns the font used for fallbacks.
func (c *FaceCache) DefaultFont() *DefaultFont {
	return c.def
}

// Clear evicts every handle. Loads still in flight land under the previous
// generation and are never served.
func (c *FaceCache) Clear() {
	c.gen.Add(1)
	for _, k := range c.keys.reset() {
		c.cache.Del(k)
	}
}

// Entries returns the number of handles currently held, at most the limit.
func (c *FaceCache) Entries() int {
	return c.keys.len()
}

// track records a use of key. The index holds the same number of keys as the
// cache and evicts in least recently used order, so whatever falls out of it
// is dropped from the cache too.
func (c *FaceCache) track(key string) {
	if evicted, ok := c.keys.touch(key); ok {
		c.cache.Del(evicted)
	}
}

type keyIndex struct {
	mu    sync.Mutex
	limit int
	order *list.List
	items map[string]*list.Element
}

func newKeyIndex(limit int) *keyIndex {
	return &keyIndex{limit: limit, order: list.New(), items: make(map[string]*list.Element)}
}

func (x *keyIndex) touch(key string) (string, bool) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if e, ok := x.items[key]; ok {
		x.order.MoveToFront(e)
		return "", false
	}
	x.items[key] = x.order.PushFront(key)
	if x.order.Len() <= x.limit {
		return "", false
	}

	last := x.order.Back()
	x.order.Remove(last)
	evicted := last.Value.(string)
	delete(x.items, evicted)
	return evicted, true
}

func (x *keyIndex) reset() []string {
	x.mu.Lock()
	defer x.mu.Unlock()

	keys := make([]string, 0, len(x.items))
	for k := range x.items {
		keys = append(keys, k)
	}
	x.order.Init()
	x.items = make(map[string]*list.Element)
	return keys
}

func (x *keyIndex) len() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.order.Len()
}

func (c *FaceCache) key(path string, size float64) string {
	return fmt.Sprintf("%d|%s|%g", c.gen.Load(), path, size)
}

func loadHandle(path string, size float64) (*Handle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, err
	}
	return newHandle(f, path, size, false)
}
