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

type CleanupLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewCleanupLogic(ctx context.Context, svcCtx *svc.ServiceContext) *CleanupLogic {
	return &CleanupLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// Cleanup deletes generated images and converted fonts, then drops cached
// faces. The font library itself is untouched.
func (l *CleanupLogic) Cleanup() (resp *types.CleanupResponse, err error) {
	outputs, err := l.svcCtx.Outputs.Purge()
	if err != nil {
		return nil, errorx.FromError("purge outputs", err)
	}

	converted, err := l.svcCtx.Fonts.Converter().Purge()
	if err != nil {
		return nil, errorx.FromError("purge font cache", err)
	}
	l.svcCtx.Fonts.Faces().Clear()

	l.Infow("Cleanup finished",
		logx.Field("outputs", outputs),
		logx.Field("converted", converted),
	)
	return &types.CleanupResponse{Status: "success", Outputs: outputs, Converted: converted}, nil
}
