package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"jobbyResume/internal/api/middleware"
	"jobbyResume/internal/errcode"
)

func Error(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

func BadRequest(c *gin.Context, msg string) { Error(c, http.StatusBadRequest, msg) }
func Internal(c *gin.Context, msg string)   { Error(c, http.StatusInternalServerError, msg) }

// RespondError 按错误分类选择状态码，响应体统一为 {error: reason}。
// 未分类的错误不把内部细节暴露给调用方。
func RespondError(c *gin.Context, err error) {
	kind := errcode.KindOf(err)
	log := middleware.LoggerFromContext(c)

	if kind == errcode.KindUnknown {
		log.Error("request failed", zap.Error(err))
		Internal(c, "internal server error")
		return
	}

	status := kind.HTTPStatus()
	if status >= http.StatusInternalServerError {
		log.Error("request failed", zap.Stringer("kind", kind), zap.Error(err))
	} else {
		log.Warn("request rejected", zap.Stringer("kind", kind), zap.Error(err))
	}
	Error(c, status, errcode.Message(err))
}
