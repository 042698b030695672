package render

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// MaxSVGSide bounds the rasterized size of a single SVG overlay.
const MaxSVGSide = 4096

var errSVGSize = errors.New("svg has no usable size")

// RasterizeSVG renders SVG markup at width x height. A zero dimension is
// derived from the viewBox, keeping the aspect ratio.
func RasterizeSVG(data []byte, width, height int) (*image.RGBA, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse svg: %w", err)
	}

	w, h := svgSize(icon.ViewBox.W, icon.ViewBox.H, width, height)
	if w <= 0 || h <= 0 {
		return nil, errSVGSize
	}
	if w > MaxSVGSide || h > MaxSVGSide {
		return nil, fmt.Errorf("svg size %dx%d exceeds %d", w, h, MaxSVGSide)
	}

	icon.SetTarget(0, 0, float64(w), float64(h))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	raster := rasterx.NewDasher(w, h, scanner)
	icon.Draw(raster, 1.0)
	return img, nil
}

func svgSize(vbW, vbH float64, width, height int) (int, int) {
	switch {
	case width > 0 && height > 0:
		return width, height
	case vbW <= 0 || vbH <= 0:
		return width, height
	case width > 0:
		return width, int(math.Round(float64(width) * vbH / vbW))
	case height > 0:
		return int(math.Round(float64(height) * vbW / vbH)), height
	default:
		return int(math.Ceil(vbW)), int(math.Ceil(vbH))
	}
}
