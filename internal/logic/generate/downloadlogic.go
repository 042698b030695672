// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package generate

import (
	"context"

	"github.com/joeblew999/plat-textsnap/internal/errorx"
	"github.com/joeblew999/plat-textsnap/internal/svc"
	"github.com/joeblew999/plat-textsnap/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type DownloadLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewDownloadLogic(ctx context.Context, svcCtx *svc.ServiceContext) *DownloadLogic {
	return &DownloadLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *DownloadLogic) Download(req *types.DownloadRequest) (resp *types.DownloadResponse, err error) {
	if _, err := l.svcCtx.Outputs.Path(req.Filename); err != nil {
		l.Infof("File not found: %s", req.Filename)
		return nil, errorx.FromError("download", err)
	}

	return &types.DownloadResponse{
		Message: "To download the file, call this URL directly:",
		Url:     "/files/" + req.Filename,
	}, nil
}
