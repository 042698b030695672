package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/disintegration/imaging"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/document"
	pdfcolor "seehuhn.de/go/pdf/graphics/color"
	pdfimage "seehuhn.de/go/pdf/graphics/image"
)

// ErrUnsupportedFormat is returned for unknown output formats.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// Format is an output encoding.
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpg"
	WebP Format = "webp"
	PDF  Format = "pdf"
)

// DefaultJPEGQuality is used when EncodeOptions leaves the quality unset.
const DefaultJPEGQuality = 90

// Formats lists the supported output formats.
var Formats = []Format{PNG, JPEG, WebP, PDF}

// ParseFormat accepts png, jpg, jpeg, webp and pdf in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "webp":
		return WebP, nil
	case "pdf":
		return PDF, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// Ext is the file extension without the dot.
func (f Format) Ext() string { return string(f) }

// ContentType is the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case PNG:
		return "image/png"
	case JPEG:
		return "image/jpeg"
	case WebP:
		return "image/webp"
	case PDF:
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// EncodeOptions tunes the encoders.
type EncodeOptions struct {
	JPEGQuality int
}

// Encode writes img to w in format f. Formats without alpha are flattened
// onto white.
func Encode(w io.Writer, img image.Image, f Format, opts EncodeOptions) error {
	switch f {
	case PNG:
		return imaging.Encode(w, img, imaging.PNG)
	case JPEG:
		q := opts.JPEGQuality
		if q <= 0 || q > 100 {
			q = DefaultJPEGQuality
		}
		return imaging.Encode(w, flatten(img), imaging.JPEG, imaging.JPEGQuality(q))
	case WebP:
		return nativewebp.Encode(w, img, &nativewebp.Options{})
	case PDF:
		return encodePDF(w, flatten(img))
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(f))
	}
}

func flatten(img image.Image) *image.NRGBA {
	b := img.Bounds()
	bg := imaging.New(b.Dx(), b.Dy(), color.White)
	return imaging.Overlay(bg, imaging.Clone(img), image.Pt(0, 0), 1.0)
}

// encodePDF writes a single page the size of the image, one point per pixel.
func encodePDF(w io.Writer, img *image.NRGBA) error {
	b := img.Bounds()
	width, height := float64(b.Dx()), float64(b.Dy())

	page, err := document.WriteSinglePage(w, &pdf.Rectangle{URx: width, URy: height}, pdf.V1_7, nil)
	if err != nil {
		return fmt.Errorf("pdf writer: %w", err)
	}

	page.PushGraphicsState()
	page.Transform(matrix.Scale(width, height))
	page.DrawXObject(pdfimage.FromImage(img, pdfcolor.SpaceDeviceRGB, 8))
	page.PopGraphicsState()

	if err := page.Close(); err != nil {
		return fmt.Errorf("pdf close: %w", err)
	}
	return nil
}
