package font

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joeblew999/plat-textsnap/pkg/log"
	tdfont "github.com/tdewolff/font"
	"github.com/zeromicro/go-zero/core/syncx"
)

var errUnsupportedFormat = errors.New("unsupported font format")

// DecodeFunc turns web font bytes of the given format into sfnt bytes.
type DecodeFunc func(data []byte, format string) ([]byte, error)

// DecodeWebFont unpacks woff and woff2 into sfnt.
func DecodeWebFont(data []byte, format string) ([]byte, error) {
	switch format {
	case FormatWOFF:
		return tdfont.ParseWOFF(data)
	case FormatWOFF2:
		return tdfont.ParseWOFF2(data)
	default:
		return nil, errUnsupportedFormat
	}
}

// ConverterOption configures a Converter.
type ConverterOption func(*Converter)

// WithDecoder replaces the web font decoder.
func WithDecoder(fn DecodeFunc) ConverterOption {
	return func(c *Converter) {
		c.decode = fn
	}
}

// Converter produces locally renderable copies of web fonts, memoized on disk.
type Converter struct {
	dir    string
	decode DecodeFunc
	flight syncx.SingleFlight
}

// NewConverter creates a converter writing into dir.
func NewConverter(dir string, opts ...ConverterOption) *Converter {
	c := &Converter{
		dir:    dir,
		decode: DecodeWebFont,
		flight: syncx.NewSingleFlight(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dir returns the conversion cache directory.
func (c *Converter) Dir() string {
	return c.dir
}

// Ensure returns a path that can be parsed directly. ttf and otf pass through.
// woff and woff2 are converted once per source content; later calls reuse the
// cached file. Identical concurrent calls share one conversion.
func (c *Converter) Ensure(ctx context.Context, path, format string) (string, error) {
	switch format {
	case FormatTTF, FormatOTF:
		return path, nil
	case FormatWOFF, FormatWOFF2:
	default:
		return "", &ConversionError{Path: path, Format: format, Err: errUnsupportedFormat}
	}

	key, err := c.cacheKey(path)
	if err != nil {
		return "", &ConversionError{Path: path, Format: format, Err: err}
	}

	val, err := c.flight.Do(key, func() (any, error) {
		if cached, ok := c.lookup(key); ok {
			conversions.Inc(format, "cached")
			return cached, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return c.convert(path, format, key)
	})
	if err != nil {
		var ce *ConversionError
		if errors.As(err, &ce) {
			return "", err
		}
		return "", &ConversionError{Path: path, Format: format, Err: err}
	}

	return val.(string), nil
}

// cacheKey namespaces the stem with a hash of the absolute source path,
// size and modification time.
func (c *Converter) cacheKey(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%d|%d", abs, info.Size(), info.ModTime().UnixNano())))
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return stem + "-" + hex.EncodeToString(sum[:])[:16], nil
}

func (c *Converter) lookup(key string) (string, bool) {
	for _, ext := range []string{FormatTTF, FormatOTF} {
		p := filepath.Join(c.dir, key+"."+ext)
		if info, err := os.Stat(p); err == nil && info.Size() > 0 {
			return p, true
		}
	}
	return "", false
}

func (c *Converter) convert(path, format, key string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		conversions.Inc(format, "error")
		return "", &ConversionError{Path: path, Format: format, Err: err}
	}

	out, err := c.decode(data, format)
	if err != nil {
		conversions.Inc(format, "error")
		return "", &ConversionError{Path: path, Format: format, Err: err}
	}
	if len(out) < 4 {
		conversions.Inc(format, "error")
		return "", &ConversionError{Path: path, Format: format, Err: errors.New("decoded font is empty")}
	}

	ext := FormatTTF
	if bytes.HasPrefix(out, []byte("OTTO")) {
		ext = FormatOTF
	}

	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return "", &ConversionError{Path: path, Format: format, Err: err}
	}

	target := filepath.Join(c.dir, key+"."+ext)
	if err := writeFileAtomic(c.dir, target, out); err != nil {
		conversions.Inc(format, "error")
		return "", &ConversionError{Path: path, Format: format, Err: err}
	}

	conversions.Inc(format, "converted")
	log.Info("Converted web font", "source", path, "target", target, "bytes", len(out))
	return target, nil
}

// Purge removes every converted file and returns how many were deleted.
func (c *Converter) Purge() (int, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	removed := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, e.Name())); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// Usage reports the number of converted files and their total size.
func (c *Converter) Usage() (files int, size int64) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return 0, 0
	}
	for _, e := range entries {
		if info, err := e.Info(); err == nil && !e.IsDir() {
			files++
			size += info.Size()
		}
	}
	return files, size
}

// writeFileAtomic writes through a temp file in dir and renames it into place.
func writeFileAtomic(dir, target string, data []byte) error {
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
