package errorx

import (
	"context"
	"errors"
	"net/http"

	"github.com/joeblew999/plat-textsnap/pkg/fetch"
	"github.com/joeblew999/plat-textsnap/pkg/font"
	"github.com/joeblew999/plat-textsnap/pkg/output"
	"github.com/joeblew999/plat-textsnap/pkg/render"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/rest/httpx"
)

// CodeError is a typed error that carries an HTTP status code.
// Logic functions return these so the global error handler can map
// them to the correct HTTP response.
type CodeError struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

func (e *CodeError) Error() string {
	return e.Msg
}

// ErrNotFound returns a 404 error.
func ErrNotFound(msg string) error {
	return &CodeError{Code: http.StatusNotFound, Msg: msg}
}

// ErrBadRequest returns a 400 error.
func ErrBadRequest(msg string) error {
	return &CodeError{Code: http.StatusBadRequest, Msg: msg}
}

// ErrInternal returns a 500 error.
func ErrInternal(msg string) error {
	return &CodeError{Code: http.StatusInternalServerError, Msg: msg}
}

// FromError maps library errors onto status codes. Unknown errors are
// internal, prefixed with op.
func FromError(op string, err error) error {
	var (
		codeErr  *CodeError
		fetchErr *fetch.FetchError
	)
	switch {
	case err == nil:
		return nil
	case errors.As(err, &codeErr):
		return codeErr
	case errors.Is(err, font.ErrNotFound), errors.Is(err, output.ErrNotFound):
		return ErrNotFound(err.Error())
	case errors.Is(err, font.ErrInvalidFont),
		errors.Is(err, output.ErrInvalidName),
		errors.Is(err, render.ErrUnsupportedFormat):
		return ErrBadRequest(err.Error())
	case errors.As(err, &fetchErr):
		return ErrBadRequest("could not load " + fetchErr.URL + ": " + fetchErr.Error())
	default:
		return ErrInternal(op + ": " + err.Error())
	}
}

// RegisterErrorHandler installs a global error handler that maps CodeError
// to the correct HTTP status code. Untyped errors become 500.
func RegisterErrorHandler() {
	httpx.SetErrorHandlerCtx(Handle)
}

// Handle is the error handler installed by RegisterErrorHandler.
func Handle(ctx context.Context, err error) (int, any) {
	var e *CodeError
	if errors.As(err, &e) {
		if e.Code >= http.StatusInternalServerError {
			logx.WithContext(ctx).Errorf("request failed: %v", e.Msg)
		}
		return e.Code, &CodeError{Code: e.Code, Msg: e.Msg}
	}

	logx.WithContext(ctx).Errorf("unexpected error: %v", err)
	return http.StatusInternalServerError, &CodeError{
		Code: http.StatusInternalServerError,
		Msg:  "internal server error",
	}
}
