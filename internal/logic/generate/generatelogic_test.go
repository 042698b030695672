package generate

import (
	"context"
	"image"
	"io"
	"os"
	"regexp"
	"testing"

	"github.com/joeblew999/plat-textsnap/internal/errorx"
	"github.com/joeblew999/plat-textsnap/internal/svc/svctest"
	"github.com/joeblew999/plat-textsnap/internal/types"
	"github.com/joeblew999/plat-textsnap/pkg/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "image/jpeg"
	_ "image/png"
)

const circle = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10"><circle cx="5" cy="5" r="5" fill="red"/></svg>`

func TestGenerate(t *testing.T) {
	ctx := context.Background()
	svcCtx := svctest.New(t)
	srv := svctest.ImageServer(t, 200, 100)

	t.Run("RendersAndSchedulesExpiry", func(t *testing.T) {
		resp, err := NewGenerateLogic(ctx, svcCtx).Generate(&types.GenerateRequest{
			ImageUrl:     srv.URL + "/base.png",
			OutputFormat: "png",
			FontFamily:   "roboto",
			Items: []types.TextItem{
				{Text: "Hello", Position: []int{10, 10}, FontSize: 24, Color: "#ff0000"},
				{Text: "Bold", Position: []int{100, 50}, FontWeight: "bold", Align: "center"},
			},
			Svg: []types.SvgItem{{SvgData: circle, Position: []int{150, 60}, Width: 20}},
		})
		require.NoError(t, err)

		assert.Equal(t, "success", resp.Status)
		assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{32}\.png$`), resp.Filename)
		assert.Equal(t, "/download/"+resp.Filename, resp.DownloadUrl)
		assert.Equal(t, "/files/"+resp.Filename, resp.FileUrl)
		assert.Empty(t, resp.Fallbacks)
		assert.Zero(t, resp.Skipped)

		path, err := svcCtx.Outputs.Path(resp.Filename)
		require.NoError(t, err)
		f, err := os.Open(path)
		require.NoError(t, err)
		defer f.Close()
		cfg, format, err := image.DecodeConfig(f)
		require.NoError(t, err)
		assert.Equal(t, "png", format)
		assert.Equal(t, 200, cfg.Width)
		assert.Equal(t, 100, cfg.Height)

		pending, err := svcCtx.Queue.Pending(ctx)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, pending, 1)
	})

	t.Run("UnknownFamilyFallsBack", func(t *testing.T) {
		resp, err := NewGenerateLogic(ctx, svcCtx).Generate(&types.GenerateRequest{
			ImageUrl:     srv.URL + "/base.png",
			OutputFormat: "jpeg",
			Items:        []types.TextItem{{Text: "x", Position: []int{0, 0}, FontFamily: "nope"}},
		})
		require.NoError(t, err)
		assert.Regexp(t, regexp.MustCompile(`\.jpg$`), resp.Filename)
		require.Len(t, resp.Fallbacks, 1)
		assert.Equal(t, "nope", resp.Fallbacks[0].Family)
	})

	t.Run("BadSVGIsSkipped", func(t *testing.T) {
		resp, err := NewGenerateLogic(ctx, svcCtx).Generate(&types.GenerateRequest{
			ImageUrl:     srv.URL + "/base.png",
			OutputFormat: "webp",
			Svg:          []types.SvgItem{{Position: []int{0, 0}}},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, resp.Skipped)
	})

	t.Run("Errors", func(t *testing.T) {
		tests := []struct {
			name string
			req  types.GenerateRequest
		}{
			{"Format", types.GenerateRequest{ImageUrl: srv.URL + "/base.png", OutputFormat: "gif"}},
			{"MissingImage", types.GenerateRequest{ImageUrl: srv.URL + "/missing.png", OutputFormat: "png"}},
			{"Position", types.GenerateRequest{
				ImageUrl:     srv.URL + "/base.png",
				OutputFormat: "png",
				Items:        []types.TextItem{{Text: "x", Position: []int{1}}},
			}},
			{"FontSizeTooLarge", types.GenerateRequest{
				ImageUrl:     srv.URL + "/base.png",
				OutputFormat: "png",
				Items:        []types.TextItem{{Text: "x", Position: []int{0, 0}, FontSize: 100000}},
			}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := NewGenerateLogic(ctx, svcCtx).Generate(&tt.req)
				var ce *errorx.CodeError
				require.ErrorAs(t, err, &ce)
				assert.Equal(t, 400, ce.Code)
			})
		}
	})

	t.Run("RecordsEvents", func(t *testing.T) {
		svcCtx.Events.Flush()
		stats, err := svcCtx.Events.Stats(ctx)
		require.NoError(t, err)
		formats := map[string]int64{}
		for _, s := range stats {
			formats[s.Format] = s.Renders
		}
		assert.Equal(t, int64(1), formats["png"])
		assert.Equal(t, int64(1), formats["jpg"])
	})
}

func TestBuildJob(t *testing.T) {
	t.Run("Maps", func(t *testing.T) {
		job, err := BuildJob(&types.GenerateRequest{
			FontFamily:       "roboto",
			RemoveBackground: true,
			Items: []types.TextItem{{
				Text: "a", Position: []int{3, 4}, FontWeight: "700", FontStyle: "italic",
				Align: "center", MaxWidth: 50,
			}},
			Svg: []types.SvgItem{{Url: "http://x/a.svg", Position: []int{1, 2}, Height: 9}},
		})
		require.NoError(t, err)

		assert.Equal(t, "roboto", job.Family)
		assert.True(t, job.RemoveBackground)
		require.Len(t, job.Text, 1)
		assert.Equal(t, image.Pt(3, 4), job.Text[0].Position)
		assert.Equal(t, 700, job.Text[0].Weight)
		assert.Equal(t, render.AlignCenter, job.Text[0].Align)
		require.Len(t, job.SVG, 1)
		assert.Equal(t, image.Pt(1, 2), job.SVG[0].Position)
	})

	t.Run("InvalidWeight", func(t *testing.T) {
		_, err := BuildJob(&types.GenerateRequest{
			Items: []types.TextItem{{Text: "a", Position: []int{0, 0}, FontWeight: "heavyish"}},
		})
		assert.ErrorContains(t, err, "font_weight")
	})

	t.Run("FontSizeBound", func(t *testing.T) {
		_, err := BuildJob(&types.GenerateRequest{
			Items: []types.TextItem{{Text: "a", Position: []int{0, 0}, FontSize: render.MaxFontSize}},
		})
		require.NoError(t, err)

		_, err = BuildJob(&types.GenerateRequest{
			Items: []types.TextItem{{Text: "a", Position: []int{0, 0}, FontSize: render.MaxFontSize + 1}},
		})
		assert.ErrorContains(t, err, "font_size")
	})

	t.Run("NegativeSize", func(t *testing.T) {
		_, err := BuildJob(&types.GenerateRequest{
			Svg: []types.SvgItem{{Position: []int{0, 0}, Width: -1}},
		})
		assert.ErrorContains(t, err, "svg[0]")
	})
}

func TestDownload(t *testing.T) {
	ctx := context.Background()
	svcCtx := svctest.New(t)

	name, err := svcCtx.Outputs.Save(render.PNG, func(w io.Writer) error {
		_, err := w.Write([]byte("png"))
		return err
	})
	require.NoError(t, err)

	resp, err := NewDownloadLogic(ctx, svcCtx).Download(&types.DownloadRequest{Filename: name})
	require.NoError(t, err)
	assert.Equal(t, "/files/"+name, resp.Url)

	_, err = NewDownloadLogic(ctx, svcCtx).Download(&types.DownloadRequest{Filename: "0123456789abcdef0123456789abcdef.png"})
	var ce *errorx.CodeError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 404, ce.Code)
}
