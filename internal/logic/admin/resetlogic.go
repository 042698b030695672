// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package admin

import (
	"context"

	"github.com/joeblew999/plat-textsnap/internal/errorx"
	"github.com/joeblew999/plat-textsnap/internal/svc"
	"github.com/joeblew999/plat-textsnap/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type ResetLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewResetLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ResetLogic {
	return &ResetLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// Reset recreates the output directory, empties the conversion cache and
// rebuilds the index from disk.
func (l *ResetLogic) Reset() (resp *types.ResetResponse, err error) {
	if err := l.svcCtx.Outputs.Reset(); err != nil {
		return nil, errorx.FromError("reset outputs", err)
	}
	if _, err := l.svcCtx.Fonts.Converter().Purge(); err != nil {
		return nil, errorx.FromError("purge font cache", err)
	}

	n, err := l.svcCtx.Fonts.Reindex(l.ctx)
	if err != nil {
		return nil, errorx.FromError("reindex", err)
	}

	l.Infow("Storage reset", logx.Field("fonts", n))
	return &types.ResetResponse{Status: "success", Fonts: n}, nil
}
