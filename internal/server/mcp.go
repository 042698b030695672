package server

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/joeblew999/plat-textsnap/internal/logic/admin"
	"github.com/joeblew999/plat-textsnap/internal/logic/fonts"
	"github.com/joeblew999/plat-textsnap/internal/logic/generate"
	"github.com/joeblew999/plat-textsnap/internal/svc"
	"github.com/joeblew999/plat-textsnap/internal/types"
	"github.com/zeromicro/go-zero/mcp"
)

// RegisterMCPTools registers all MCP tools for the overlay service.
func RegisterMCPTools(s mcp.McpServer, svcCtx *svc.ServiceContext) {
	registerGenerateTool(s, svcCtx)
	registerListFontsTool(s, svcCtx)
	registerResolveFontTool(s, svcCtx)
	registerReindexTool(s, svcCtx)
	registerFontsResource(s, svcCtx)
}

func registerGenerateTool(s mcp.McpServer, svcCtx *svc.ServiceContext) {
	s.RegisterTool(mcp.Tool{
		Name:        "generate_image",
		Description: "Draw text and SVG overlays onto a background image fetched from a URL. Returns the file name and URLs of the rendered image.",
		InputSchema: mcp.InputSchema{
			Properties: map[string]any{
				"image_url": map[string]any{
					"type":        "string",
					"description": "http(s) URL of the background image",
				},
				"output_format": map[string]any{
					"type":        "string",
					"enum":        []string{"png", "jpg", "jpeg", "webp", "pdf"},
					"description": "Output format",
				},
				"font_family": map[string]any{
					"type":        "string",
					"description": "Default font family for text items (e.g., roboto)",
				},
				"items": map[string]any{
					"type":        "array",
					"description": "Text items: {text, position:[x,y], font_size, font_weight, font_style, variant, color, max_width, align}",
					"items":       map[string]any{"type": "object"},
				},
				"svg": map[string]any{
					"type":        "array",
					"description": "SVG overlays: {svg_data or url, position:[x,y], width, height}",
					"items":       map[string]any{"type": "object"},
				},
				"remove_background": map[string]any{
					"type":        "boolean",
					"description": "Make near-white pixels of the background transparent",
				},
			},
			Required: []string{"image_url", "output_format"},
		},
		Handler: func(ctx context.Context, p map[string]any) (any, error) {
			var req types.GenerateRequest
			if err := mcp.ParseArguments(p, &req); err != nil {
				return nil, fmt.Errorf("invalid arguments: %w", err)
			}

			resp, err := generate.NewGenerateLogic(ctx, svcCtx).Generate(&req)
			if err != nil {
				return nil, fmt.Errorf("generate failed: %w", err)
			}
			return resp, nil
		},
	})
}

func registerListFontsTool(s mcp.McpServer, svcCtx *svc.ServiceContext) {
	s.RegisterTool(mcp.Tool{
		Name:        "list_fonts",
		Description: "List the indexed font families and the weights, styles and variants available for each.",
		InputSchema: mcp.InputSchema{
			Properties: map[string]any{},
		},
		Handler: func(ctx context.Context, p map[string]any) (any, error) {
			return fonts.NewListFontsLogic(ctx, svcCtx).ListFonts()
		},
	})
}

func registerResolveFontTool(s mcp.McpServer, svcCtx *svc.ServiceContext) {
	s.RegisterTool(mcp.Tool{
		Name:        "resolve_font",
		Description: "Show which font file a family, weight, style and variant request resolves to, and at which fallback tier.",
		InputSchema: mcp.InputSchema{
			Properties: map[string]any{
				"family": map[string]any{
					"type":        "string",
					"description": "Font family (case-insensitive)",
				},
				"weight": map[string]any{
					"type":        "string",
					"description": "Numeric weight (100-900) or keyword such as bold",
				},
				"style": map[string]any{
					"type":        "string",
					"description": "normal, italic or oblique",
				},
				"variant": map[string]any{
					"type":        "string",
					"description": "Variant tag such as fanum",
				},
			},
			Required: []string{"family"},
		},
		Handler: func(ctx context.Context, p map[string]any) (any, error) {
			var req types.ResolveFontRequest
			if err := mcp.ParseArguments(p, &req); err != nil {
				return nil, fmt.Errorf("invalid arguments: %w", err)
			}
			return fonts.NewResolveFontLogic(ctx, svcCtx).ResolveFont(&req)
		},
	})
}

func registerReindexTool(s mcp.McpServer, svcCtx *svc.ServiceContext) {
	s.RegisterTool(mcp.Tool{
		Name:        "reindex_fonts",
		Description: "Rescan the font library directory and rebuild the index.",
		InputSchema: mcp.InputSchema{
			Properties: map[string]any{},
		},
		Handler: func(ctx context.Context, p map[string]any) (any, error) {
			return admin.NewReindexLogic(ctx, svcCtx).Reindex(&types.ReindexRequest{})
		},
	})
}

func registerFontsResource(s mcp.McpServer, svcCtx *svc.ServiceContext) {
	s.RegisterResource(mcp.Resource{
		Name:        "fonts",
		URI:         "textsnap://fonts",
		Description: "Indexed font families",
		MimeType:    "text/plain",
		Handler: func(ctx context.Context) (mcp.ResourceContent, error) {
			families, err := svcCtx.Fonts.Index().Families(ctx)
			if err != nil {
				return mcp.ResourceContent{}, err
			}

			names := make([]string, 0, len(families))
			for name := range families {
				names = append(names, name)
			}
			sort.Strings(names)

			var b strings.Builder
			b.WriteString("Available font families:\n")
			for _, name := range names {
				fmt.Fprintf(&b, "- %s: %d files\n", name, len(families[name]))
			}

			return mcp.ResourceContent{
				URI:      "textsnap://fonts",
				MimeType: "text/plain",
				Text:     b.String(),
			}, nil
		},
	})
}
