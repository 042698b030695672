package render

import (
	"image"
	"image/draw"
	"strings"

	"github.com/joeblew999/plat-textsnap/pkg/font"
	"golang.org/x/image/math/fixed"
)

// LineGap is the extra space between wrapped lines, in pixels.
const LineGap = 5

// MaxFontSize bounds the pixel size of a text item. Glyph masks grow with
// the square of the size.
const MaxFontSize = 1000

// Align places a text item relative to its position.
type Align string

const (
	// AlignLeft treats the position as the top-left corner of the text box.
	AlignLeft Align = "left"
	// AlignCenter treats the position as the centre of the text box.
	AlignCenter Align = "center"
)

// ParseAlign maps user input to an Align, defaulting to left.
func ParseAlign(s string) Align {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "center", "centre", "middle":
		return AlignCenter
	default:
		return AlignLeft
	}
}

// WrapText breaks text into lines no wider than maxWidth pixels. Words
// longer than maxWidth get a line of their own.
func WrapText(h *font.Handle, text string, maxWidth int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if maxWidth <= 0 {
		return []string{strings.Join(words, " ")}
	}

	limit := fixed.I(maxWidth)
	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		candidate := current + " " + word
		if h.Measure(candidate) <= limit {
			current = candidate
			continue
		}
		lines = append(lines, current)
		current = word
	}
	return append(lines, current)
}

// textLayout is the placement of each line of a text item.
type textLayout struct {
	lines []string
	dots  []fixed.Point26_6
	box   image.Rectangle
}

func layoutText(h *font.Handle, text string, pos image.Point, maxWidth int, align Align) textLayout {
	var lines []string
	if maxWidth > 0 {
		lines = WrapText(h, text, maxWidth)
	} else if text != "" {
		lines = []string{text}
	}
	if len(lines) == 0 {
		return textLayout{}
	}

	m := h.Metrics()
	ascent := m.Ascent.Ceil()
	advance := h.LineHeight() + LineGap
	blockHeight := len(lines)*advance - LineGap

	top := pos.Y
	if align == AlignCenter {
		top -= blockHeight / 2
	}

	layout := textLayout{lines: lines, dots: make([]fixed.Point26_6, len(lines))}
	for i, line := range lines {
		width := h.Measure(line).Ceil()
		x := pos.X
		if align == AlignCenter {
			x -= width / 2
		}
		y := top + i*advance
		layout.dots[i] = fixed.P(x, y+ascent)
		layout.box = layout.box.Union(image.Rect(x, y, x+width, y+advance-LineGap))
	}
	return layout
}

// drawText renders one text item onto dst and returns the box it covers.
func drawText(dst draw.Image, h *font.Handle, item TextItem) image.Rectangle {
	layout := layoutText(h, item.Text, item.Position, item.MaxWidth, item.Align)
	src := image.NewUniform(ParseColor(item.Color))
	for i, line := range layout.lines {
		h.Draw(dst, src, layout.dots[i], line)
	}
	return layout.box
}
