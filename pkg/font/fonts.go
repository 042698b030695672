package font

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

var (
	errNotAFont = errors.New("not a font file")
	errNoFamily = errors.New("font is not inside a family directory")
)

// Attributes are the style facets encoded in a font filename.
type Attributes struct {
	Weight  int    `json:"weight"`
	Style   string `json:"style"`
	Variant string `json:"variant"`
}

// Record is one indexed font file. Field tags map the fonts table columns.
type Record struct {
	Family  string `db:"family" json:"family"`
	Weight  int    `db:"weight" json:"weight"`
	Style   string `db:"style" json:"style"`
	Variant string `db:"variant" json:"variant"`
	Format  string `db:"format" json:"format"`
	Path    string `db:"path" json:"path"`
}

// Key identifies the physical variant; the index holds at most one record per key.
func (r Record) Key() string {
	return fmt.Sprintf("%s-%d-%s-%s-%s", r.Family, r.Weight, r.Style, r.Variant, r.Format)
}

// Attributes returns the style facets of the record.
func (r Record) Attributes() Attributes {
	return Attributes{Weight: r.Weight, Style: r.Style, Variant: r.Variant}
}

// ParseFilename derives weight, style and variant from a font filename.
//
// The stem is lowercased and split on '-'. Each token is classified in order:
// an all-digit token in 1..1000 is a numeric weight, a weight keyword maps
// through the weight table, "italic" and "oblique" set the style, and a token
// containing a variant tag sets the variant. Anything else is ignored.
func ParseFilename(name string) Attributes {
	return parseFilename(name, DefaultVariantTags)
}

func parseFilename(name string, tags []string) Attributes {
	base := filepath.Base(name)
	stem := strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))

	attrs := Attributes{
		Weight:  DefaultWeight,
		Style:   DefaultStyle,
		Variant: DefaultVariant,
	}

	for _, token := range strings.Split(stem, "-") {
		token = strings.TrimSpace(token)
		switch {
		case token == "":
		case isDigits(token):
			if w, ok := numericWeight(token); ok {
				attrs.Weight = w
			}
		case weightNames[token] != 0:
			attrs.Weight = weightNames[token]
		case token == StyleItalic || token == StyleOblique:
			attrs.Style = token
		default:
			for _, tag := range tags {
				if tag != "" && strings.Contains(token, tag) {
					attrs.Variant = tag
					break
				}
			}
		}
	}

	return attrs
}

// ParseWeight accepts a numeric weight or a weight keyword.
func ParseWeight(s string) (int, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}
	if isDigits(s) {
		return numericWeight(s)
	}
	w, ok := weightNames[s]
	return w, ok
}

// FormatOf returns the font format implied by the file extension.
func FormatOf(path string) (string, bool) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case FormatTTF, FormatOTF, FormatWOFF, FormatWOFF2:
		return ext, true
	}
	return "", false
}

// ParsePath builds the record for a font file below root. The family is the
// first directory segment relative to root, lowercased.
func ParsePath(root, path string) (Record, error) {
	return parsePath(root, path, DefaultVariantTags)
}

func parsePath(root, path string, tags []string) (Record, error) {
	format, ok := FormatOf(path)
	if !ok {
		return Record{}, &IndexError{Path: path, Err: errNotAFont}
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		return Record{}, &IndexError{Path: path, Err: err}
	}

	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) < 2 || parts[0] == ".." {
		return Record{}, &IndexError{Path: path, Err: errNoFamily}
	}

	family := NormalizeFamily(parts[0])
	if family == "" {
		return Record{}, &IndexError{Path: path, Err: errNoFamily}
	}

	attrs := parseFilename(parts[len(parts)-1], tags)
	return Record{
		Family:  family,
		Weight:  attrs.Weight,
		Style:   attrs.Style,
		Variant: attrs.Variant,
		Format:  format,
		Path:    path,
	}, nil
}

// NormalizeFamily lowercases and trims a family name.
func NormalizeFamily(family string) string {
	return strings.ToLower(strings.TrimSpace(family))
}

func numericWeight(s string) (int, bool) {
	w, err := strconv.Atoi(s)
	if err != nil || w < 1 || w > 1000 {
		return 0, false
	}
	return w, true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
