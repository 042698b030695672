package generate

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/joeblew999/plat-textsnap/internal/errorx"
	"github.com/joeblew999/plat-textsnap/internal/svc"
	"github.com/joeblew999/plat-textsnap/internal/types"
	"github.com/joeblew999/plat-textsnap/pkg/render"
	"github.com/zeromicro/go-zero/rest/httpx"
)

// FilesHandler serves a generated image by name.
func FilesHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.DownloadRequest
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, errorx.ErrBadRequest(err.Error()))
			return
		}

		path, err := svcCtx.Outputs.Path(req.Filename)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, errorx.FromError("serve file", err))
			return
		}

		if f, err := render.ParseFormat(strings.TrimPrefix(filepath.Ext(path), ".")); err == nil {
			w.Header().Set("Content-Type", f.ContentType())
		}
		w.Header().Set("Cache-Control", "private, max-age=3600")
		http.ServeFile(w, r, path)
	}
}
