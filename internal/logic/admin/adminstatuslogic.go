// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package admin

import (
	"context"
	"os"

	"github.com/joeblew999/plat-textsnap/internal/errorx"
	"github.com/joeblew999/plat-textsnap/internal/svc"
	"github.com/joeblew999/plat-textsnap/internal/types"

	"github.com/dustin/go-humanize"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/mr"
)

type AdminStatusLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewAdminStatusLogic(ctx context.Context, svcCtx *svc.ServiceContext) *AdminStatusLogic {
	return &AdminStatusLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *AdminStatusLogic) AdminStatus() (resp *types.AdminStatusResponse, err error) {
	fonts := l.svcCtx.Fonts
	resp = &types.AdminStatusResponse{
		Status:      "ok",
		DefaultFont: fonts.Faces().DefaultFont().Name(),
		CachedFaces: fonts.Faces().Entries(),
	}

	// The index, queue and event table are independent reads.
	err = mr.Finish(
		func() error {
			families, err := fonts.Index().Families(l.ctx)
			if err != nil {
				return err
			}
			resp.Families = len(families)
			for _, records := range families {
				resp.IndexedFonts += len(records)
			}
			return nil
		},
		func() error {
			n, err := l.svcCtx.Queue.Pending(l.ctx)
			resp.PendingJobs = n
			return err
		},
		func() error {
			l.svcCtx.Events.Flush()
			stats, err := l.svcCtx.Events.Stats(l.ctx)
			if err != nil {
				return err
			}
			resp.Renders = make([]types.RenderStats, 0, len(stats))
			for _, s := range stats {
				resp.Renders = append(resp.Renders, types.RenderStats{
					Format:        s.Format,
					Renders:       s.Renders,
					Fallbacks:     s.Fallbacks,
					AvgDurationMs: s.AvgDurationMs,
				})
				resp.TotalRenders += s.Renders
			}
			return nil
		},
	)
	if err != nil {
		return nil, errorx.FromError("status", err)
	}

	fontFiles, fontSize := l.libraryUsage(resp.IndexedFonts)
	cacheFiles, cacheSize := fonts.Converter().Usage()
	outFiles, outSize := l.svcCtx.Outputs.Usage()
	resp.Directories = []types.DirectoryUsage{
		usage("fonts", fonts.Index().Root(), fontFiles, fontSize),
		usage("font_cache", fonts.Converter().Dir(), cacheFiles, cacheSize),
		usage("output", l.svcCtx.Outputs.Dir(), outFiles, outSize),
	}

	return resp, nil
}

// libraryUsage sizes the indexed font files.
func (l *AdminStatusLogic) libraryUsage(count int) (int, int64) {
	records, err := l.svcCtx.Fonts.Index().List(l.ctx)
	if err != nil {
		l.Errorf("Failed to list fonts: %v", err)
		return count, 0
	}

	var size int64
	for _, rec := range records {
		if info, err := os.Stat(rec.Path); err == nil {
			size += info.Size()
		}
	}
	return len(records), size
}

func usage(name, path string, files int, size int64) types.DirectoryUsage {
	return types.DirectoryUsage{
		Name:  name,
		Path:  path,
		Files: files,
		Size:  size,
		Human: humanize.Bytes(uint64(size)),
	}
}
