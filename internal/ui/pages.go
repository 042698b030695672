// Package ui provides the Datastar-based web UI for plat-textsnap.
package ui

import (
	"strconv"
	"time"

	"github.com/joeblew999/plat-textsnap/internal/types"

	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	data "maragu.dev/gomponents-datastar"
)

// Layout wraps content in the base HTML layout.
func Layout(title string, content ...g.Node) g.Node {
	return h.HTML(
		h.Lang("en"),
		h.Head(
			h.Meta(h.Charset("utf-8")),
			h.Meta(h.Name("viewport"), h.Content("width=device-width, initial-scale=1")),
			h.TitleEl(g.Text(title)),
			h.Script(h.Type("module"), h.Src("https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.7/bundles/datastar.js")),
			h.StyleEl(h.Type("text/css"), g.Raw(styles)),
		),
		h.Body(
			h.Nav(h.Class("navbar"),
				h.Div(h.Class("nav-brand"), g.Text("plat-textsnap")),
				h.Div(h.Class("nav-links"),
					h.A(h.Href("/"), g.Text("Dashboard")),
					h.A(h.Href("/fonts"), g.Text("Fonts")),
					h.A(h.Href("/generate"), g.Text("Generate")),
				),
			),
			h.Main(h.Class("container"), g.Group(content)),
			h.Footer(h.Class("footer"),
				g.Text("plat-textsnap - Text and SVG Image Overlays"),
			),
		),
	)
}

// Dashboard renders the main dashboard page.
func Dashboard() g.Node {
	return Layout("Dashboard - plat-textsnap",
		data.Signals(map[string]any{
			"stats":   map[string]int{},
			"renders": "",
			"result":  "",
			"loading": true,
		}),
		data.Init("@get('/api/status')"),

		h.H1(g.Text("Overlay Dashboard")),

		h.Div(h.Class("stats-grid"),
			StatCard("indexed_fonts", "Indexed Fonts"),
			StatCard("families", "Families"),
			StatCard("cached_faces", "Cached Faces"),
			StatCard("pending_jobs", "Pending Jobs"),
			StatCard("total_renders", "Renders"),
		),

		h.Div(h.Class("section"),
			h.H2(g.Text("Quick Actions")),
			h.Div(h.Class("actions"),
				h.A(h.Href("/generate"), h.Button(g.Text("Generate Image"))),
				h.A(h.Href("/fonts"), h.Button(g.Text("Browse Fonts"))),
				h.Button(data.On("click", "@post('/api/reindex')"), g.Text("Reindex Fonts")),
			),
			h.Div(h.Class("result"),
				data.Show("$result"),
				data.Text("$result"),
			),
		),

		h.Div(h.Class("section"),
			h.H2(g.Text("Renders by Format")),
			h.Div(h.Class("refresh-bar"),
				data.OnInterval("@get('/api/status')", data.ModifierDuration, data.Duration(5*time.Second)),
				g.Text("Auto-refresh: 5s"),
			),
			h.Div(
				data.Show("$loading"),
				h.Span(h.Class("loading-spinner")),
				g.Text(" Loading..."),
			),
			h.Div(h.ID("render-stats"), h.Class("render-table"),
				data.Show("!$loading"),
			),
		),
	)
}

// StatCard renders a statistics card.
func StatCard(key, label string) g.Node {
	return h.Div(h.Class("stat-card"),
		h.Div(h.Class("stat-value"), data.Text("$stats."+key+" || 0")),
		h.Div(h.Class("stat-label"), g.Text(label)),
	)
}

// FontsPage lists the indexed families next to a resolution tester.
func FontsPage(families []types.FontFamily) g.Node {
	var familyNodes []g.Node
	for _, f := range families {
		family := f.Family
		var files []g.Node
		for _, rec := range f.Fonts {
			files = append(files, h.Li(g.Textf("%s  %d %s %s (%s)", rec.Path, rec.Weight, rec.Style, rec.Variant, rec.Format)))
		}
		familyNodes = append(familyNodes, h.Div(h.Class("family-item"),
			data.On("click", "$family = '"+family+"'"),
			data.Class("active", "$family === '"+family+"'"),
			h.H3(g.Text(family)),
			h.P(g.Text(strconv.Itoa(len(f.Fonts))+" files")),
			h.Ul(g.Group(files)),
		))
	}
	if len(familyNodes) == 0 {
		familyNodes = append(familyNodes, h.P(h.Class("hint"), g.Text("No fonts indexed. Add files under <fonts>/<family>/ and reindex.")))
	}

	return Layout("Fonts - plat-textsnap",
		data.Signals(map[string]any{
			"family":   "",
			"weight":   "400",
			"style":    "normal",
			"variant":  "",
			"resolved": "",
			"loading":  false,
		}),

		h.H1(g.Text("Font Library")),

		h.Div(h.Class("fonts-grid"),
			h.Div(h.Class("family-list"),
				h.H2(g.Text("Families")),
				g.Group(familyNodes),
			),

			h.Div(h.Class("resolve-panel"),
				h.H2(g.Text("Resolve")),
				h.Form(
					data.On("submit", "event.preventDefault(); $loading = true; @get('/api/resolve')"),
					formInput("family", "Family", "roboto"),
					formInput("weight", "Weight", "400 or bold"),
					h.Div(h.Class("form-group"),
						h.Label(h.For("style"), g.Text("Style")),
						h.Select(h.ID("style"), data.Bind("style"),
							h.Option(h.Value("normal"), g.Text("normal")),
							h.Option(h.Value("italic"), g.Text("italic")),
							h.Option(h.Value("oblique"), g.Text("oblique")),
						),
					),
					formInput("variant", "Variant", "fanum"),
					h.Button(h.Type("submit"), data.Attr("disabled", "$loading"), g.Text("Resolve")),
				),
				h.Div(h.Class("result"),
					data.Show("$resolved"),
					data.Text("$resolved"),
				),
			),
		),
	)
}

// GeneratePage renders a single-text-item playground for the generate API.
func GeneratePage() g.Node {
	return Layout("Generate - plat-textsnap",
		data.Signals(map[string]any{
			"image_url":   "",
			"format":      "png",
			"font_family": "",
			"text":        "",
			"x":           "10",
			"y":           "10",
			"font_size":   "32",
			"color":       "#000000",
			"sending":     false,
			"result":      "",
			"file_url":    "",
		}),

		h.H1(g.Text("Generate Image")),

		h.Form(h.Class("generate-form"),
			data.On("submit", "event.preventDefault(); $sending = true; $file_url = ''; @post('/api/generate')"),

			formInput("image_url", "Background image URL", "https://example.com/background.png"),
			h.Div(h.Class("form-group"),
				h.Label(h.For("format"), g.Text("Output format")),
				h.Select(h.ID("format"), data.Bind("format"),
					h.Option(h.Value("png"), g.Text("PNG")),
					h.Option(h.Value("jpg"), g.Text("JPEG")),
					h.Option(h.Value("webp"), g.Text("WebP")),
					h.Option(h.Value("pdf"), g.Text("PDF")),
				),
			),
			formInput("font_family", "Font family", "roboto"),
			h.Div(h.Class("form-group"),
				h.Label(h.For("text"), g.Text("Text")),
				h.Textarea(h.ID("text"), data.Bind("text"), h.Rows("3")),
			),
			formInput("x", "X", "10"),
			formInput("y", "Y", "10"),
			formInput("font_size", "Font size", "32"),
			formInput("color", "Color", "#000000"),

			h.Button(h.Type("submit"),
				data.Attr("disabled", "$sending"),
				h.Span(data.Show("!$sending"), g.Text("Generate")),
				h.Span(data.Show("$sending"),
					h.Span(h.Class("loading-spinner")),
					g.Text(" Rendering..."),
				),
			),

			h.Div(h.Class("result"),
				data.Show("$result"),
				data.Text("$result"),
			),
			h.Div(
				data.Show("$file_url"),
				h.A(data.Attr("href", "$file_url"), h.Target("_blank"), g.Text("Open image")),
			),
		),
	)
}

func formInput(id, label, placeholder string) g.Node {
	return h.Div(h.Class("form-group"),
		h.Label(h.For(id), g.Text(label)),
		h.Input(h.ID(id), h.Type("text"), data.Bind(id), h.Placeholder(placeholder)),
	)
}
