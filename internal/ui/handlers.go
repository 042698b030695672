package ui

import (
	"fmt"
	"html"
	"net/http"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/joeblew999/plat-textsnap/internal/handler/generate"
	"github.com/joeblew999/plat-textsnap/internal/logic/admin"
	"github.com/joeblew999/plat-textsnap/internal/logic/fonts"
	genlogic "github.com/joeblew999/plat-textsnap/internal/logic/generate"
	"github.com/joeblew999/plat-textsnap/internal/svc"
	"github.com/joeblew999/plat-textsnap/internal/types"
	"github.com/starfederation/datastar-go/datastar"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/rest"
)

// Handlers provides HTTP handlers for the UI.
type Handlers struct {
	svcCtx *svc.ServiceContext
}

// NewHandlers creates new UI handlers.
func NewHandlers(svcCtx *svc.ServiceContext) *Handlers {
	return &Handlers{svcCtx: svcCtx}
}

// Routes returns the standard UI routes for registration with rest.Server.
func (h *Handlers) Routes() []rest.Route {
	return []rest.Route{
		{Method: http.MethodGet, Path: "/", Handler: h.handleDashboard},
		{Method: http.MethodGet, Path: "/fonts", Handler: h.handleFonts},
		{Method: http.MethodGet, Path: "/generate", Handler: h.handleGeneratePage},
		{Method: http.MethodGet, Path: "/files/:filename", Handler: generate.FilesHandler(h.svcCtx)},
		{Method: http.MethodPost, Path: "/api/generate", Handler: h.handleGenerate},
		{Method: http.MethodPost, Path: "/api/reindex", Handler: h.handleReindex},
	}
}

// SSERoutes returns the SSE-based API routes (require rest.WithSSE option).
func (h *Handlers) SSERoutes() []rest.Route {
	return []rest.Route{
		{Method: http.MethodGet, Path: "/api/status", Handler: h.handleStatus},
		{Method: http.MethodGet, Path: "/api/resolve", Handler: h.handleResolve},
	}
}

func (h *Handlers) handleDashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := Dashboard().Render(w); err != nil {
		logx.Errorf("render dashboard: %v", err)
	}
}

func (h *Handlers) handleFonts(w http.ResponseWriter, r *http.Request) {
	resp, err := fonts.NewListFontsLogic(r.Context(), h.svcCtx).ListFonts()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := FontsPage(resp.Families).Render(w); err != nil {
		logx.Errorf("render fonts page: %v", err)
	}
}

func (h *Handlers) handleGeneratePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := GeneratePage().Render(w); err != nil {
		logx.Errorf("render generate page: %v", err)
	}
}

func (h *Handlers) handleStatus(w http.ResponseWriter, r *http.Request) {
	status, err := admin.NewAdminStatusLogic(r.Context(), h.svcCtx).AdminStatus()
	if err != nil {
		h.sendDatastarError(w, r, err)
		return
	}

	// Render per-format stats as HTML fragment and patch into #render-stats
	sse := datastar.NewSSE(w, r)

	if err := sse.PatchElementf(`<div id="render-stats" class="render-table">%s</div>`, renderStatsTable(status)); err != nil {
		logx.Errorf("datastar patch render stats: %v", err)
	}

	if err := sse.MarshalAndPatchSignals(map[string]any{
		"stats":   status,
		"loading": false,
	}); err != nil {
		logx.Errorf("datastar patch signals: %v", err)
	}
}

func (h *Handlers) handleResolve(w http.ResponseWriter, r *http.Request) {
	var signals struct {
		Family  string `json:"family"`
		Weight  string `json:"weight"`
		Style   string `json:"style"`
		Variant string `json:"variant"`
	}
	if err := datastar.ReadSignals(r, &signals); err != nil {
		h.sendDatastarError(w, r, err)
		return
	}

	resp, err := fonts.NewResolveFontLogic(r.Context(), h.svcCtx).ResolveFont(&types.ResolveFontRequest{
		Family:  signals.Family,
		Weight:  signals.Weight,
		Style:   signals.Style,
		Variant: signals.Variant,
	})
	if err != nil {
		h.sendDatastarSignals(w, r, map[string]any{"loading": false, "resolved": "Error: " + err.Error()})
		return
	}

	h.sendDatastarSignals(w, r, map[string]any{
		"loading":  false,
		"resolved": describeResolution(resp),
	})
}

func (h *Handlers) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var signals struct {
		ImageURL   string `json:"image_url"`
		Format     string `json:"format"`
		FontFamily string `json:"font_family"`
		Text       string `json:"text"`
		X          string `json:"x"`
		Y          string `json:"y"`
		FontSize   string `json:"font_size"`
		Color      string `json:"color"`
	}
	if err := datastar.ReadSignals(r, &signals); err != nil {
		h.sendDatastarSignals(w, r, map[string]any{"sending": false, "result": "Error: Invalid request"})
		return
	}

	x, _ := strconv.Atoi(signals.X)
	y, _ := strconv.Atoi(signals.Y)
	size, _ := strconv.ParseFloat(signals.FontSize, 64)

	req := &types.GenerateRequest{
		ImageUrl:     signals.ImageURL,
		OutputFormat: signals.Format,
		FontFamily:   signals.FontFamily,
	}
	if strings.TrimSpace(signals.Text) != "" {
		req.Items = []types.TextItem{{
			Text:     signals.Text,
			Position: []int{x, y},
			FontSize: size,
			Color:    signals.Color,
		}}
	}

	resp, err := genlogic.NewGenerateLogic(r.Context(), h.svcCtx).Generate(req)
	if err != nil {
		h.sendDatastarSignals(w, r, map[string]any{"sending": false, "result": "Error: " + err.Error()})
		return
	}

	result := "Rendered " + resp.Filename
	if n := len(resp.Fallbacks); n > 0 {
		result += fmt.Sprintf(" (%d item(s) used the default font)", n)
	}
	h.sendDatastarSignals(w, r, map[string]any{
		"sending":  false,
		"result":   result,
		"file_url": resp.FileUrl,
	})
}

func (h *Handlers) handleReindex(w http.ResponseWriter, r *http.Request) {
	resp, err := admin.NewReindexLogic(r.Context(), h.svcCtx).Reindex(&types.ReindexRequest{})
	if err != nil {
		h.sendDatastarSignals(w, r, map[string]any{"result": "Error: " + err.Error()})
		return
	}

	h.sendDatastarSignals(w, r, map[string]any{
		"result": fmt.Sprintf("Indexed %d font files", resp.Fonts),
	})
}

func (h *Handlers) sendDatastarSignals(w http.ResponseWriter, r *http.Request, signals map[string]any) {
	sse := datastar.NewSSE(w, r)
	if err := sse.MarshalAndPatchSignals(signals); err != nil {
		logx.Errorf("datastar patch signals: %v", err)
	}
}

func (h *Handlers) sendDatastarError(w http.ResponseWriter, r *http.Request, err error) {
	msg := "Unknown error"
	if err != nil {
		msg = err.Error()
	}
	h.sendDatastarSignals(w, r, map[string]any{
		"loading": false,
		"error":   msg,
	})
}

func describeResolution(resp *types.ResolveFontResponse) string {
	if !resp.Found {
		return resp.Query + ": not found, the default font will be used"
	}
	return fmt.Sprintf("%s: %s (%s tier, %d %s %s)",
		resp.Query, resp.Font.Path, resp.Tier, resp.Font.Weight, resp.Font.Style, resp.Font.Variant)
}

func renderStatsTable(status *types.AdminStatusResponse) string {
	var b strings.Builder
	b.WriteString(`<table style="width:100%;border-collapse:collapse;">`)
	b.WriteString(`<thead><tr>`)
	for _, col := range []string{"Format", "Renders", "Fallbacks", "Avg ms"} {
		b.WriteString(`<th style="text-align:left;padding:0.75rem 1rem;border-bottom:2px solid var(--border);color:var(--text-muted);font-size:0.875rem;">` + col + `</th>`)
	}
	b.WriteString(`</tr></thead><tbody>`)

	if len(status.Renders) == 0 {
		b.WriteString(`<tr><td colspan="4" class="hint" style="padding:2rem;text-align:center;">No renders yet</td></tr>`)
	}
	for _, s := range status.Renders {
		b.WriteString(`<tr style="border-bottom:1px solid var(--border);">`)
		b.WriteString(fmt.Sprintf(`<td style="padding:0.75rem 1rem;font-weight:500;">%s</td>`, html.EscapeString(s.Format)))
		b.WriteString(fmt.Sprintf(`<td style="padding:0.75rem 1rem;">%s</td>`, humanize.Comma(s.Renders)))
		b.WriteString(fmt.Sprintf(`<td style="padding:0.75rem 1rem;">%s</td>`, humanize.Comma(s.Fallbacks)))
		b.WriteString(fmt.Sprintf(`<td style="padding:0.75rem 1rem;color:var(--text-muted);">%.1f</td>`, s.AvgDurationMs))
		b.WriteString(`</tr>`)
	}
	b.WriteString(`</tbody></table>`)

	for _, d := range status.Directories {
		b.WriteString(fmt.Sprintf(`<p class="hint" style="padding:0.5rem 1rem;">%s: %d files, %s</p>`,
			html.EscapeString(d.Name), d.Files, html.EscapeString(d.Human)))
	}
	return b.String()
}
