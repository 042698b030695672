// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package types

type TextItem struct {
	Text       string  `json:"text"`
	Position   []int   `json:"position"`
	FontFamily string  `json:"font_family,optional"`
	FontSize   float64 `json:"font_size,optional"`
	FontWeight string  `json:"font_weight,optional"`
	FontStyle  string  `json:"font_style,optional"`
	Variant    string  `json:"variant,optional"`
	Color      string  `json:"color,optional"`
	MaxWidth   int     `json:"max_width,optional"`
	Align      string  `json:"align,optional"`
}

type SvgItem struct {
	SvgData  string `json:"svg_data,optional"`
	Url      string `json:"url,optional"`
	Position []int  `json:"position"`
	Width    int    `json:"width,optional"`
	Height   int    `json:"height,optional"`
}

type GenerateRequest struct {
	ImageUrl         string     `json:"image_url"`
	OutputFormat     string     `json:"output_format"`
	FontFamily       string     `json:"font_family,optional"`
	Items            []TextItem `json:"items,optional"`
	Svg              []SvgItem  `json:"svg,optional"`
	RemoveBackground bool       `json:"remove_background,optional"`
}

type Fallback struct {
	Item   int    `json:"item"`
	Family string `json:"family"`
	Reason string `json:"reason"`
}

type GenerateResponse struct {
	Status      string     `json:"status"`
	DownloadUrl string     `json:"download_url"`
	FileUrl     string     `json:"file_url"`
	Filename    string     `json:"filename"`
	Fallbacks   []Fallback `json:"fallbacks"`
	Skipped     int        `json:"skipped"`
}

type DownloadRequest struct {
	Filename string `path:"filename"`
}

type DownloadResponse struct {
	Message string `json:"message"`
	Url     string `json:"url"`
}

type FontRecord struct {
	Family  string `json:"family"`
	Weight  int    `json:"weight"`
	Style   string `json:"style"`
	Variant string `json:"variant"`
	Format  string `json:"format"`
	Path    string `json:"path,omitempty"`
}

type FontFamily struct {
	Family string       `json:"family"`
	Fonts  []FontRecord `json:"fonts"`
}

type ListFontsResponse struct {
	Families []FontFamily `json:"families"`
	Total    int          `json:"total"`
}

type ResolveFontRequest struct {
	Family  string `form:"family"`
	Weight  string `form:"weight,optional"`
	Style   string `form:"style,optional"`
	Variant string `form:"variant,optional"`
}

type ResolveFontResponse struct {
	Query string      `json:"query"`
	Found bool        `json:"found"`
	Tier  string      `json:"tier"`
	Font  *FontRecord `json:"font,omitempty"`
}

type UploadFontResponse struct {
	Status string     `json:"status"`
	Font   FontRecord `json:"font"`
}

type DeleteFontRequest struct {
	Family string `path:"family"`
	Name   string `path:"name"`
}

type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type ReindexRequest struct {
	Async bool `form:"async,optional"`
}

type ReindexResponse struct {
	Status string `json:"status"`
	Fonts  int    `json:"fonts"`
	JobId  string `json:"job_id,omitempty"`
}

type DirectoryUsage struct {
	Name  string `json:"name"`
	Path  string `json:"path"`
	Files int    `json:"files"`
	Size  int64  `json:"size"`
	Human string `json:"human"`
}

type RenderStats struct {
	Format        string  `json:"format"`
	Renders       int64   `json:"renders"`
	Fallbacks     int64   `json:"fallbacks"`
	AvgDurationMs float64 `json:"avg_duration_ms"`
}

type AdminStatusResponse struct {
	Status       string           `json:"status"`
	IndexedFonts int              `json:"indexed_fonts"`
	Families     int              `json:"families"`
	DefaultFont  string           `json:"default_font"`
	CachedFaces  int              `json:"cached_faces"`
	PendingJobs  int              `json:"pending_jobs"`
	Directories  []DirectoryUsage `json:"directories"`
	Renders      []RenderStats    `json:"renders"`
	TotalRenders int64            `json:"total_renders"`
}

type CleanupResponse struct {
	Status    string `json:"status"`
	Outputs   int    `json:"outputs"`
	Converted int    `json:"converted"`
}

type ResetResponse struct {
	Status string `json:"status"`
	Fonts  int    `json:"fonts"`
}
