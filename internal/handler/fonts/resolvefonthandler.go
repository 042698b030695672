// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package fonts

import (
	"net/http"

	"github.com/joeblew999/plat-textsnap/internal/errorx"
	"github.com/joeblew999/plat-textsnap/internal/logic/fonts"
	"github.com/joeblew999/plat-textsnap/internal/svc"
	"github.com/joeblew999/plat-textsnap/internal/types"
	"github.com/zeromicro/go-zero/rest/httpx"
)

func ResolveFontHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.ResolveFontRequest
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, errorx.ErrBadRequest(err.Error()))
			return
		}

		l := fonts.NewResolveFontLogic(r.Context(), svcCtx)
		resp, err := l.ResolveFont(&req)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
		} else {
			httpx.OkJsonCtx(r.Context(), w, resp)
		}
	}
}
