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

type ReindexLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewReindexLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ReindexLogic {
	return &ReindexLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// Reindex rebuilds the font index in the request, or hands it to the
// maintenance queue when async is set.
func (l *ReindexLogic) Reindex(req *types.ReindexRequest) (resp *types.ReindexResponse, err error) {
	if req.Async {
		id, err := l.svcCtx.Queue.RequestReindex(l.ctx)
		if err != nil {
			return nil, errorx.FromError("queue reindex", err)
		}
		return &types.ReindexResponse{Status: "queued", JobId: id}, nil
	}

	n, err := l.svcCtx.Fonts.Reindex(l.ctx)
	if err != nil {
		l.Errorf("Reindex failed: %v", err)
		return nil, errorx.FromError("reindex", err)
	}

	l.Infow("Font library reindexed", logx.Field("fonts", n))
	return &types.ReindexResponse{Status: "success", Fonts: n}, nil
}
