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

type UploadFontLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewUploadFontLogic(ctx context.Context, svcCtx *svc.ServiceContext) *UploadFontLogic {
	return &UploadFontLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *UploadFontLogic) UploadFont(family, name string, data []byte) (resp *types.UploadFontResponse, err error) {
	if family == "" || name == "" {
		return nil, errorx.ErrBadRequest("family and font file name are required")
	}

	rec, err := l.svcCtx.Fonts.Upload(l.ctx, family, name, data)
	if err != nil {
		l.Errorf("Font upload failed for %s/%s: %v", family, name, err)
		return nil, errorx.FromError("upload font", err)
	}

	return &types.UploadFontResponse{
		Status: "success",
		Font:   toFontRecord(l.svcCtx.Fonts.Index().Root(), rec),
	}, nil
}
