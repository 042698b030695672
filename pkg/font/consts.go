package font

const (
	// DefaultWeight is the standard font weight used when not specified
	DefaultWeight = 400

	// DefaultStyle is the standard font style used when not specified
	DefaultStyle = "normal"

	// DefaultVariant is the variant tag of a font without a recognized tag
	DefaultVariant = "regular"

	// DefaultSize is the pixel size used when a request omits one
	DefaultSize = 24

	// DefaultCacheLimit bounds the number of parsed faces kept in memory
	DefaultCacheLimit = 100
)

// Font file formats.
const (
	FormatTTF   = "ttf"
	FormatOTF   = "otf"
	FormatWOFF  = "woff"
	FormatWOFF2 = "woff2"
)

// Styles recognized in filenames and queries.
const (
	StyleNormal  = "normal"
	StyleItalic  = "italic"
	StyleOblique = "oblique"
)

// DefaultVariantTags are the substrings that mark a variant in a filename.
var DefaultVariantTags = []string{"fanum", "noen"}

// weightNames maps weight keywords to the 100..900 scale.
var weightNames = map[string]int{
	"thin":       100,
	"hairline":   100,
	"extralight": 200,
	"ultralight": 200,
	"light":      300,
	"regular":    400,
	"normal":     400,
	"book":       400,
	"medium":     500,
	"semibold":   600,
	"demibold":   600,
	"bold":       700,
	"extrabold":  800,
	"ultrabold":  800,
	"black":      900,
	"heavy":      900,
}

// formatRank orders directly renderable formats first.
func formatRank(format string) int {
	switch format {
	case FormatTTF:
		return 0
	case FormatOTF:
		return 1
	default:
		return 2
	}
}
