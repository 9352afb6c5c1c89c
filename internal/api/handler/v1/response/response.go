package response

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Err is the error payload rendered to clients. The HTTP status code
// is kept out of the body on purpose.
type Err struct {
	statusCode int

	Status string `json:"status"`
	Reason string `json:"reason"`
}

func RenderErr(ctx *gin.Context, err *Err) {
	ctx.AbortWithStatusJSON(err.statusCode, err)
}

func newErr(statusCode int, reason string) *Err {
	return &Err{
		statusCode: statusCode,
		Status:     "error",
		Reason:     reason,
	}
}

func ErrBadRequest(err error) *Err {
	return newErr(http.StatusBadRequest, err.Error())
}

func ErrUnauthorized(reason string) *Err {
	return newErr(http.StatusUnauthorized, reason)
}

func ErrWrongCredentials() *Err {
	return newErr(http.StatusUnauthorized, "wrong credentials")
}

func ErrPermissionDenied() *Err {
	return newErr(http.StatusForbidden, "permission denied")
}

func ErrNotFound(resource, key string, value interface{}) *Err {
	return newErr(http.StatusNotFound, fmt.Sprintf("%v not found by %v (%v)", resource, key, value))
}

func ErrConflict(err error) *Err {
	return newErr(http.StatusConflict, err.Error())
}

// ErrInternalServerError logs the wrapped error and hides it from the client.
func ErrInternalServerError(err error) *Err {
	zap.L().Error("internal server error", zap.Error(err))

	return newErr(http.StatusInternalServerError, "internal server error")
}
