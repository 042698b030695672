package font

import (
	"bytes"
	"fmt"
	"os"

	"seehuhn.de/go/sfnt"
)

// Info is the metadata stored inside a font file.
type Info struct {
	Family     string `json:"family"`
	Weight     int    `json:"weight"`
	Italic     bool   `json:"italic"`
	Oblique    bool   `json:"oblique"`
	Bold       bool   `json:"bold"`
	UnitsPerEm int    `json:"units_per_em"`
	Version    string `json:"version"`
	Format     string `json:"format"`
}

// Style returns the style the metadata declares.
func (i Info) Style() string {
	switch {
	case i.Italic:
		return StyleItalic
	case i.Oblique:
		return StyleOblique
	default:
		return StyleNormal
	}
}

// Inspect reads the sfnt tables of a font file. Web fonts are decoded first.
func Inspect(path string) (Info, error) {
	format, ok := FormatOf(path)
	if !ok {
		return Info{}, fmt.Errorf("inspect %s: %w", path, errNotAFont)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Info{}, err
	}
	return InspectBytes(data, format)
}

// InspectBytes is Inspect for font data already in memory.
func InspectBytes(data []byte, format string) (Info, error) {
	if format == FormatWOFF || format == FormatWOFF2 {
		decoded, err := DecodeWebFont(data, format)
		if err != nil {
			return Info{}, fmt.Errorf("decode %s: %w", format, err)
		}
		data = decoded
	}

	f, err := sfnt.Read(bytes.NewReader(data))
	if err != nil {
		return Info{}, fmt.Errorf("read sfnt: %w", err)
	}

	return Info{
		Family:     f.FamilyName,
		Weight:     int(f.Weight),
		Italic:     f.IsItalic,
		Oblique:    f.IsOblique,
		Bold:       f.IsBold,
		UnitsPerEm: int(f.UnitsPerEm),
		Version:    f.Version.String(),
		Format:     format,
	}, nil
}
