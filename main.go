// textsnap CLI - font library tooling
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/joeblew999/plat-textsnap/pkg/config"
	"github.com/joeblew999/plat-textsnap/pkg/db"
	"github.com/joeblew999/plat-textsnap/pkg/font"
	"github.com/joeblew999/plat-textsnap/pkg/log"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "index":
		indexCmd(os.Args[2:])
	case "resolve":
		resolveCmd(os.Args[2:])
	case "list":
		listCmd(os.Args[2:])
	case "convert":
		convertCmd(os.Args[2:])
	case "inspect":
		inspectCmd(os.Args[2:])
	case "version":
		fmt.Println("textsnap v0.1.0")
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`textsnap - Font Library CLI

Usage:
  textsnap <command> [options]

Commands:
  index      Scan the font library and rebuild the index
  resolve    Show which file a font request resolves to
  list       List indexed fonts by family
  convert    Convert a woff/woff2 file into the font cache
  inspect    Print the metadata stored inside a font file
  version    Show version
  help       Show this help

Examples:
  textsnap index -fonts=./data/fonts
  textsnap resolve -family=roboto -weight=bold -style=italic
  textsnap list
  textsnap convert -file=./data/fonts/lato/Lato-Bold.woff2
  textsnap inspect -file=./data/fonts/roboto/Roboto-Regular.ttf

Environment Variables:
  DATA_PATH        Base data directory (default: ./.data)
  FONT_PATH        Font library root (default: $DATA_PATH/fonts)
  FONT_CACHE_PATH  Converted font cache (default: $DATA_PATH/font-cache)`)
}

// library opens the index database and wires the font core for a command.
type library struct {
	db       *db.DB
	index    *font.Index
	resolver *font.Resolver
}

func openLibrary(fontDir, dbPath string, verbose bool) *library {
	if verbose {
		log.SetOutput(os.Stderr, slog.LevelDebug)
	}

	d, err := db.Open(dbPath)
	if err != nil {
		fmt.Printf("Error opening database: %v\n", err)
		os.Exit(1)
	}

	registry := font.NewRegistry(d.SqlConn())
	return &library{
		db:       d,
		index:    font.NewIndex(fontDir, registry, nil),
		resolver: font.NewResolver(registry),
	}
}

func libraryFlags(fs *flag.FlagSet) (fontDir, dbPath *string, verbose *bool) {
	fontDir = fs.String("fonts", config.GetFontPath(), "Font library root")
	dbPath = fs.String("db", config.GetDatabasePath(), "Index database path")
	verbose = fs.Bool("v", false, "Verbose logging")
	return
}

func indexCmd(args []string) {
	fs := flag.NewFlagSet("index", flag.ExitOnError)
	fontDir, dbPath, verbose := libraryFlags(fs)
	fs.Parse(args)

	lib := openLibrary(*fontDir, *dbPath, *verbose)
	defer lib.db.Close()

	n, err := lib.index.Rebuild(context.Background())
	if err != nil {
		fmt.Printf("Error indexing %s: %v\n", *fontDir, err)
		os.Exit(1)
	}
	fmt.Printf("✓ Indexed %d font files from %s\n", n, *fontDir)
}

func resolveCmd(args []string) {
	fs := flag.NewFlagSet("resolve", flag.ExitOnError)
	fontDir, dbPath, verbose := libraryFlags(fs)
	family := fs.String("family", "", "Font family")
	weight := fs.String("weight", "", "Weight (100-900 or keyword)")
	style := fs.String("style", "", "Style (normal, italic, oblique)")
	variant := fs.String("variant", "", "Variant tag")
	fs.Parse(args)

	if *family == "" {
		fmt.Println("Error: -family is required")
		os.Exit(1)
	}

	w := 0
	if *weight != "" {
		var ok bool
		if w, ok = font.ParseWeight(*weight); !ok {
			fmt.Printf("Error: invalid weight %q\n", *weight)
			os.Exit(1)
		}
	}

	lib := openLibrary(*fontDir, *dbPath, *verbose)
	defer lib.db.Close()

	q := font.Query{Family: *family, Weight: w, Style: *style, Variant: *variant}.Normalize()
	rec, tier, err := lib.resolver.Resolve(context.Background(), q)
	if err != nil {
		fmt.Printf("⚠ %s - %v (the default font would be used)\n", q, err)
		os.Exit(1)
	}

	fmt.Printf("✓ %s -> %s\n", q, rec.Path)
	fmt.Printf("  tier: %s, weight: %d, style: %s, variant: %s, format: %s\n",
		tier, rec.Weight, rec.Style, rec.Variant, rec.Format)
}

func listCmd(args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	fontDir, dbPath, verbose := libraryFlags(fs)
	fs.Parse(args)

	lib := openLibrary(*fontDir, *dbPath, *verbose)
	defer lib.db.Close()

	families, err := lib.index.Families(context.Background())
	if err != nil {
		fmt.Printf("Error listing fonts: %v\n", err)
		os.Exit(1)
	}
	if len(families) == 0 {
		fmt.Printf("No fonts indexed. Run: textsnap index -fonts=%s\n", *fontDir)
		return
	}

	names := make([]string, 0, len(families))
	for name := range families {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Printf("%s:\n", name)
		for _, rec := range families[name] {
			size := uint64(0)
			if info, err := os.Stat(rec.Path); err == nil {
				size = uint64(info.Size())
			}
			fmt.Printf("  • %s  %d %s %s (%s)\n", filepath.Base(rec.Path), rec.Weight, rec.Style, rec.Variant, humanize.Bytes(size))
		}
	}
}

func convertCmd(args []string) {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	file := fs.String("file", "", "woff or woff2 file to convert")
	cacheDir := fs.String("cache", config.GetFontCachePath(), "Converted font cache")
	fs.Parse(args)

	if *file == "" {
		fmt.Println("Error: -file is required")
		os.Exit(1)
	}

	format, ok := font.FormatOf(*file)
	if !ok {
		fmt.Printf("Error: %s is not a font file\n", *file)
		os.Exit(1)
	}

	out, err := font.NewConverter(*cacheDir).Ensure(context.Background(), *file, format)
	if err != nil {
		fmt.Printf("Error converting font: %v\n", err)
		os.Exit(1)
	}

	info, err := os.Stat(out)
	if err != nil {
		fmt.Printf("Error reading converted font: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✓ %s -> %s (%s)\n", *file, out, humanize.Bytes(uint64(info.Size())))
}

func inspectCmd(args []string) {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	file := fs.String("file", "", "Font file to inspect")
	fs.Parse(args)

	if *file == "" {
		fmt.Println("Error: -file is required")
		os.Exit(1)
	}

	info, err := font.Inspect(*file)
	if err != nil {
		fmt.Printf("Error inspecting font: %v\n", err)
		os.Exit(1)
	}

	attrs := font.ParseFilename(*file)
	fmt.Printf("%s\n", *file)
	fmt.Printf("  family:       %s\n", info.Family)
	fmt.Printf("  weight:       %d (filename: %d)\n", info.Weight, attrs.Weight)
	fmt.Printf("  style:        %s (filename: %s)\n", info.Style(), attrs.Style)
	fmt.Printf("  variant:      %s\n", attrs.Variant)
	fmt.Printf("  units per em: %d\n", info.UnitsPerEm)
	fmt.Printf("  version:      %s\n", info.Version)
	fmt.Printf("  format:       %s\n", info.Format)
}
