// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package admin

import (
	"net/http"

	"github.com/joeblew999/plat-textsnap/internal/logic/admin"
	"github.com/joeblew999/plat-textsnap/internal/svc"
	"github.com/zeromicro/go-zero/rest/httpx"
)

func AdminStatusHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := admin.NewAdminStatusLogic(r.Context(), svcCtx)
		resp, err := l.AdminStatus()
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
		} else {
			httpx.OkJsonCtx(r.Context(), w, resp)
		}
	}
}
