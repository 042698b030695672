// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package fonts

import (
	"context"
	"path/filepath"
	"sort"

	"github.com/joeblew999/plat-textsnap/internal/errorx"
	"github.com/joeblew999/plat-textsnap/internal/svc"
	"github.com/joeblew999/plat-textsnap/internal/types"
	"github.com/joeblew999/plat-textsnap/pkg/font"

	"github.com/zeromicro/go-zero/core/logx"
)

type ListFontsLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewListFontsLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ListFontsLogic {
	return &ListFontsLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *ListFontsLogic) ListFonts() (resp *types.ListFontsResponse, err error) {
	families, err := l.svcCtx.Fonts.Index().Families(l.ctx)
	if err != nil {
		return nil, errorx.FromError("list fonts", err)
	}

	root := l.svcCtx.Fonts.Index().Root()
	resp = &types.ListFontsResponse{Families: make([]types.FontFamily, 0, len(families))}
	for family, records := range families {
		fonts := make([]types.FontRecord, 0, len(records))
		for _, rec := range records {
			fonts = append(fonts, toFontRecord(root, rec))
		}
		resp.Families = append(resp.Families, types.FontFamily{Family: family, Fonts: fonts})
		resp.Total += len(records)
	}
	sort.Slice(resp.Families, func(i, j int) bool {
		return resp.Families[i].Family < resp.Families[j].Family
	})

	return resp, nil
}

// toFontRecord reports the path relative to the library root.
func toFontRecord(root string, rec font.Record) types.FontRecord {
	path := rec.Path
	if rel, err := filepath.Rel(root, rec.Path); err == nil {
		path = filepath.ToSlash(rel)
	}
	return types.FontRecord{
		Family:  rec.Family,
		Weight:  rec.Weight,
		Style:   rec.Style,
		Variant: rec.Variant,
		Format:  rec.Format,
		Path:    path,
	}
}
