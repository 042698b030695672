// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package admin

import (
	"net/http"

	"github.com/joeblew999/plat-textsnap/internal/logic/admin"
	"github.com/joeblew999/plat-textsnap/internal/svc"
	"github.com/zeromicro/go-zero/rest/httpx"
)

func ResetHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := admin.NewResetLogic(r.Context(), svcCtx)
		resp, err := l.Reset()
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
		} else {
			httpx.OkJsonCtx(r.Context(), w, resp)
		}
	}
}
