package fonts

import (
	"fmt"
	"io"
	"net/http"

	"github.com/joeblew999/plat-textsnap/internal/errorx"
	"github.com/joeblew999/plat-textsnap/internal/logic/fonts"
	"github.com/joeblew999/plat-textsnap/internal/svc"
	"github.com/zeromicro/go-zero/rest/httpx"
)

// UploadFontHandler accepts a multipart form with font_file, family and an
// optional font_name that defaults to the uploaded file name.
func UploadFontHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := svcCtx.Config.Fonts.MaxUploadBytes
		r.Body = http.MaxBytesReader(w, r.Body, limit+1<<20)
		if err := r.ParseMultipartForm(limit); err != nil {
			httpx.ErrorCtx(r.Context(), w, errorx.ErrBadRequest("invalid multipart form: "+err.Error()))
			return
		}

		file, header, err := r.FormFile("font_file")
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, errorx.ErrBadRequest("font_file is required"))
			return
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, limit+1))
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, errorx.ErrBadRequest("read font_file: "+err.Error()))
			return
		}
		if int64(len(data)) > limit {
			httpx.ErrorCtx(r.Context(), w, errorx.ErrBadRequest(fmt.Sprintf("font_file exceeds %d bytes", limit)))
			return
		}

		name := r.FormValue("font_name")
		if name == "" {
			name = header.Filename
		}

		l := fonts.NewUploadFontLogic(r.Context(), svcCtx)
		resp, err := l.UploadFont(r.FormValue("family"), name, data)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
		} else {
			httpx.OkJsonCtx(r.Context(), w, resp)
		}
	}
}
