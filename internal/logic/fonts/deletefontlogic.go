// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package fonts

import (
	"context"

	"github.com/joeblew999/plat-textsnap/internal/errorx"
	"github.com/joeblew999/plat-textsnap/internal/svc"
	"github.com/joeblew999/plat-textsnap/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type DeleteFontLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewDeleteFontLogic(ctx context.Context, svcCtx *svc.ServiceContext) *DeleteFontLogic {
	return &DeleteFontLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *DeleteFontLogic) DeleteFont(req *types.DeleteFontRequest) (resp *types.StatusResponse, err error) {
	if err := l.svcCtx.Fonts.Delete(l.ctx, req.Family, req.Name); err != nil {
		return nil, errorx.FromError("delete font", err)
	}

	return &types.StatusResponse{
		Status:  "success",
		Message: "deleted " + req.Family + "/" + req.Name,
	}, nil
}
