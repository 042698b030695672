// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package admin

import (
	"net/http"

	"github.com/joeblew999/plat-textsnap/internal/errorx"
	"github.com/joeblew999/plat-textsnap/internal/logic/admin"
	"github.com/joeblew999/plat-textsnap/internal/svc"
	"github.com/joeblew999/plat-textsnap/internal/types"
	"github.com/zeromicro/go-zero/rest/httpx"
)

func ReindexHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.ReindexRequest
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, errorx.ErrBadRequest(err.Error()))
			return
		}

		l := admin.NewReindexLogic(r.Context(), svcCtx)
		resp, err := l.Reindex(&req)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
		} else {
			httpx.OkJsonCtx(r.Context(), w, resp)
		}
	}
}
