// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package generate

import (
	"net/http"

	"github.com/joeblew999/plat-textsnap/internal/errorx"
	"github.com/joeblew999/plat-textsnap/internal/logic/generate"
	"github.com/joeblew999/plat-textsnap/internal/svc"
	"github.com/joeblew999/plat-textsnap/internal/types"
	"github.com/zeromicro/go-zero/rest/httpx"
)

func DownloadHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.DownloadRequest
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, errorx.ErrBadRequest(err.Error()))
			return
		}

		l := generate.NewDownloadLogic(r.Context(), svcCtx)
		resp, err := l.Download(&req)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
		} else {
			httpx.OkJsonCtx(r.Context(), w, resp)
		}
	}
}
