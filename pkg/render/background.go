package render

import "image"

// backgroundThreshold is the channel value above which a pixel counts as
// background.
const backgroundThreshold = 200

// RemoveBackground makes near-white pixels fully transparent, in place.
func RemoveBackground(img *image.NRGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Max.X, y)]
		for i := 0; i+3 < len(row); i += 4 {
			if row[i] > backgroundThreshold && row[i+1] > backgroundThreshold && row[i+2] > backgroundThreshold {
				row[i], row[i+1], row[i+2], row[i+3] = 0xff, 0xff, 0xff, 0
			}
		}
	}
}
