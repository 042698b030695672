// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package generate

import (
	"context"
	"fmt"
	"image"
	"io"
	"time"

	"github.com/joeblew999/plat-textsnap/internal/errorx"
	"github.com/joeblew999/plat-textsnap/internal/svc"
	"github.com/joeblew999/plat-textsnap/internal/types"
	"github.com/joeblew999/plat-textsnap/pkg/font"
	"github.com/joeblew999/plat-textsnap/pkg/queue"
	"github.com/joeblew999/plat-textsnap/pkg/render"

	"github.com/zeromicro/go-zero/core/logx"
)

type GenerateLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewGenerateLogic(ctx context.Context, svcCtx *svc.ServiceContext) *GenerateLogic {
	return &GenerateLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *GenerateLogic) Generate(req *types.GenerateRequest) (resp *types.GenerateResponse, err error) {
	start := time.Now()

	format, err := render.ParseFormat(req.OutputFormat)
	if err != nil {
		return nil, errorx.ErrBadRequest("unsupported output format: " + req.OutputFormat)
	}

	job, err := BuildJob(req)
	if err != nil {
		return nil, errorx.ErrBadRequest(err.Error())
	}

	base, _, err := l.svcCtx.Fetcher.Image(l.ctx, req.ImageUrl)
	if err != nil {
		l.Errorf("Failed to load background image: %v", err)
		return nil, errorx.ErrBadRequest("background image not found or invalid URL")
	}

	canvas, report := l.svcCtx.Compositor.Compose(l.ctx, base, job)

	opts := render.EncodeOptions{JPEGQuality: l.svcCtx.Config.Output.JPEGQuality}
	name, err := l.svcCtx.Outputs.Save(format, func(w io.Writer) error {
		return render.Encode(w, canvas, format, opts)
	})
	if err != nil {
		l.Errorf("Failed to save output image: %v", err)
		return nil, errorx.ErrInternal("failed to save output image")
	}

	if retention := l.svcCtx.Config.Output.Retention; retention > 0 {
		if _, err := l.svcCtx.Queue.ScheduleExpiry(l.ctx, name, retention); err != nil {
			l.Errorf("Failed to schedule expiry of %s: %v", name, err)
		}
	}

	l.svcCtx.Events.Record(queue.RenderEvent{
		Output:    name,
		Format:    format.Ext(),
		TextItems: report.TextItems,
		SVGItems:  report.SVGItems,
		Fallbacks: len(report.Fallbacks),
		Duration:  time.Since(start),
	})

	l.Infow("Image generated",
		logx.Field("output", name),
		logx.Field("text_items", report.TextItems),
		logx.Field("svg_items", report.SVGItems),
		logx.Field("fallbacks", len(report.Fallbacks)),
		logx.Field("duration", time.Since(start).String()),
	)

	fallbacks := make([]types.Fallback, 0, len(report.Fallbacks))
	for _, f := range report.Fallbacks {
		fallbacks = append(fallbacks, types.Fallback{Item: f.Item, Family: f.Family, Reason: f.Reason})
	}

	return &types.GenerateResponse{
		Status:      "success",
		DownloadUrl: "/download/" + name,
		FileUrl:     "/files/" + name,
		Filename:    name,
		Fallbacks:   fallbacks,
		Skipped:     report.Skipped,
	}, nil
}

// BuildJob validates a generate request and converts it into a render job.
func BuildJob(req *types.GenerateRequest) (render.Job, error) {
	job := render.Job{
		Family:           req.FontFamily,
		RemoveBackground: req.RemoveBackground,
	}

	for i, item := range req.Items {
		pos, err := position(item.Position)
		if err != nil {
			return render.Job{}, fmt.Errorf("items[%d]: %w", i, err)
		}

		weight := 0
		if item.FontWeight != "" {
			w, ok := font.ParseWeight(item.FontWeight)
			if !ok {
				return render.Job{}, fmt.Errorf("items[%d]: invalid font_weight %q", i, item.FontWeight)
			}
			weight = w
		}
		if item.FontSize < 0 || item.MaxWidth < 0 {
			return render.Job{}, fmt.Errorf("items[%d]: font_size and max_width must not be negative", i)
		}
		if item.FontSize > render.MaxFontSize {
			return render.Job{}, fmt.Errorf("items[%d]: font_size %g exceeds %d", i, item.FontSize, render.MaxFontSize)
		}

		job.Text = append(job.Text, render.TextItem{
			Text:     item.Text,
			Position: pos,
			Family:   item.FontFamily,
			Size:     item.FontSize,
			Weight:   weight,
			Style:    item.FontStyle,
			Variant:  item.Variant,
			Color:    item.Color,
			MaxWidth: item.MaxWidth,
			Align:    render.ParseAlign(item.Align),
		})
	}

	for i, item := range req.Svg {
		pos, err := position(item.Position)
		if err != nil {
			return render.Job{}, fmt.Errorf("svg[%d]: %w", i, err)
		}
		if item.Width < 0 || item.Height < 0 {
			return render.Job{}, fmt.Errorf("svg[%d]: width and height must not be negative", i)
		}
		job.SVG = append(job.SVG, render.SVGItem{
			Data:     item.SvgData,
			URL:      item.Url,
			Position: pos,
			Width:    item.Width,
			Height:   item.Height,
		})
	}

	return job, nil
}

func position(p []int) (image.Point, error) {
	if len(p) != 2 {
		return image.Point{}, fmt.Errorf("position needs two coordinates, got %d", len(p))
	}
	return image.Pt(p[0], p[1]), nil
}
