// Package render draws text and SVG overlays onto a base image and encodes
// the result.
package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/disintegration/imaging"
	"github.com/joeblew999/plat-textsnap/pkg/font"
	"github.com/zeromicro/go-zero/core/logx"
)

var errNoSVGSource = errors.New("svg item needs svg_data or url")

// TextItem is one piece of text to draw.
type TextItem struct {
	Text     string
	Position image.Point
	Family   string // overrides Job.Family when set
	Size     float64
	Weight   int
	Style    string
	Variant  string
	Color    string
	MaxWidth int
	Align    Align
}

// SVGItem is an SVG overlay, given inline or by URL.
type SVGItem struct {
	Data     string
	URL      string
	Position image.Point
	Width    int
	Height   int
}

// Job describes everything drawn onto one base image.
type Job struct {
	Family           string
	Text             []TextItem
	SVG              []SVGItem
	RemoveBackground bool
}

// FaceSource provides font faces. *font.Manager satisfies it.
type FaceSource interface {
	Face(ctx context.Context, req font.Request) (*font.Handle, font.Outcome)
}

// Downloader fetches remote SVG markup. *fetch.Fetcher satisfies it.
type Downloader interface {
	Bytes(ctx context.Context, url string) ([]byte, error)
}

// Fallback records a text item drawn with the default font.
type Fallback struct {
	Item   int    `json:"item"`
	Family string `json:"family"`
	Reason string `json:"reason"`
}

// Report summarizes a composition.
type Report struct {
	TextItems int        `json:"text_items"`
	SVGItems  int        `json:"svg_items"`
	Skipped   int        `json:"skipped"`
	Fallbacks []Fallback `json:"fallbacks"`
}

// Compositor draws jobs onto base images.
type Compositor struct {
	faces     FaceSource
	downloads Downloader
}

// NewCompositor creates a compositor. downloads may be nil, in which case
// SVG items given by URL are skipped.
func NewCompositor(faces FaceSource, downloads Downloader) *Compositor {
	return &Compositor{faces: faces, downloads: downloads}
}

// Compose draws job onto a copy of base. Items that fail are logged and
// skipped; the base image is never modified.
func (c *Compositor) Compose(ctx context.Context, base image.Image, job Job) (*image.NRGBA, Report) {
	start := time.Now()
	logger := logx.WithContext(ctx)
	report := Report{Fallbacks: []Fallback{}}

	canvas := imaging.Clone(base)
	if job.RemoveBackground {
		RemoveBackground(canvas)
	}

	for i, item := range job.Text {
		if item.Size > MaxFontSize {
			logger.Errorw("Skipping text item", logx.Field("item", i), logx.Field("size", item.Size))
			report.Skipped++
			itemsDrawn.Inc("text", "error")
			continue
		}

		family := item.Family
		if family == "" {
			family = job.Family
		}

		h, out := c.faces.Face(ctx, font.Request{
			Family:  family,
			Weight:  item.Weight,
			Style:   item.Style,
			Variant: item.Variant,
			Size:    item.Size,
		})
		if out.Fallback {
			report.Fallbacks = append(report.Fallbacks, Fallback{Item: i, Family: family, Reason: out.Reason})
		}

		drawText(canvas, h, item)
		report.TextItems++
		itemsDrawn.Inc("text", "ok")
	}

	for i, item := range job.SVG {
		img, err := c.rasterize(ctx, item)
		if err != nil {
			logger.Errorw("Skipping svg item", logx.Field("item", i), logx.Field("error", err.Error()))
			report.Skipped++
			itemsDrawn.Inc("svg", "error")
			continue
		}

		canvas = imaging.Overlay(canvas, img, item.Position, 1.0)
		report.SVGItems++
		itemsDrawn.Inc("svg", "ok")
	}

	composeDuration.Observe(time.Since(start).Milliseconds())
	return canvas, report
}

func (c *Compositor) rasterize(ctx context.Context, item SVGItem) (*image.RGBA, error) {
	data := []byte(item.Data)
	if len(data) == 0 {
		if item.URL == "" {
			return nil, errNoSVGSource
		}
		if c.downloads == nil {
			return nil, fmt.Errorf("svg url %s: downloads disabled", item.URL)
		}

		var err error
		if data, err = c.downloads.Bytes(ctx, item.URL); err != nil {
			return nil, err
		}
	}
	return RasterizeSVG(data, item.Width, item.Height)
}
