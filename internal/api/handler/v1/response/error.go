package response

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Err is the wire format for every non-2xx response. The HTTP status lives on
// the struct but is not serialized.
type Err struct {
	StatusCode int    `json:"-"`
	Msg        string `json:"msg"`
}

func (e *Err) Error() string {
	return e.Msg
}

func NewErr(statusCode int, msg string) *Err {
	return &Err{
		StatusCode: statusCode,
		Msg:        msg,
	}
}

func ErrBadRequest(err error) *Err {
	return NewErr(http.StatusBadRequest, err.Error())
}

func ErrNotFound(what, key string, value interface{}) *Err {
	return NewErr(http.StatusNotFound, fmt.Sprintf("%v with %v %v is not found", what, key, value))
}

func ErrWrongCredentials(err error) *Err {
	return NewErr(http.StatusUnauthorized, err.Error())
}

func ErrUnauthorized(msg string) *Err {
	return NewErr(http.StatusUnauthorized, msg)
}

func ErrPermissionDenied() *Err {
	return NewErr(http.StatusForbidden, "permission denied")
}

func ErrStateConflict(err error) *Err {
	return NewErr(http.StatusBadRequest, err.Error())
}

// ErrInternalServerError hides the cause from the client; the wrapped chain
// goes to the log only.
func ErrInternalServerError(err error) *Err {
	zap.L().Error("internal server error", zap.Error(err))

	return NewErr(http.StatusInternalServerError, "internal server error")
}

func RenderErr(ctx *gin.Context, err *Err) {
	if err.StatusCode >= http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("request_id", requestid.Get(ctx)),
			zap.String("path", ctx.FullPath()),
			zap.Int("status", err.StatusCode),
		)
	}

	ctx.AbortWithStatusJSON(err.StatusCode, err)
}
