// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package fonts

import (
	"context"
	"errors"

	"github.com/joeblew999/plat-textsnap/internal/errorx"
	"github.com/joeblew999/plat-textsnap/internal/svc"
	"github.com/joeblew999/plat-textsnap/internal/types"
	"github.com/joeblew999/plat-textsnap/pkg/font"

	"github.com/zeromicro/go-zero/core/logx"
)

type ResolveFontLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewResolveFontLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ResolveFontLogic {
	return &ResolveFontLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// ResolveFont runs the fallback cascade without loading a face. A family
// with no indexed files is reported as found=false rather than an error.
func (l *ResolveFontLogic) ResolveFont(req *types.ResolveFontRequest) (resp *types.ResolveFontResponse, err error) {
	weight := 0
	if req.Weight != "" {
		w, ok := font.ParseWeight(req.Weight)
		if !ok {
			return nil, errorx.ErrBadRequest("invalid weight: " + req.Weight)
		}
		weight = w
	}

	q := font.Query{Family: req.Family, Weight: weight, Style: req.Style, Variant: req.Variant}.Normalize()
	resp = &types.ResolveFontResponse{Query: q.String(), Tier: font.TierNone.String()}

	rec, tier, err := l.svcCtx.Fonts.Resolver().Resolve(l.ctx, q)
	if errors.Is(err, font.ErrNotFound) {
		return resp, nil
	}
	if err != nil {
		return nil, errorx.FromError("resolve font", err)
	}

	r := toFontRecord(l.svcCtx.Fonts.Index().Root(), rec)
	resp.Found = true
	resp.Tier = tier.String()
	resp.Font = &r
	return resp, nil
}
