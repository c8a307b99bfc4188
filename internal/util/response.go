package util

import (
	"errors"
	"net/http"
	"take_exam_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    http.StatusCreated,
		Message: "created",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "Unauthorized")
}

func Forbidden(c *gin.Context) {
	Error(c, http.StatusForbidden, "Forbidden")
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context) {
	Error(c, http.StatusNotFound, "Resource not found")
}

func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Internal server error")
}

func LogInternalError(c *gin.Context, err error) {
	logger.Log.Error("Internal server error", zap.Error(err))
	InternalServerError(c)
}

// ErrorFrom 把领域错误映射为 HTTP 响应；存储层错误记录日志后统一返回 500
func ErrorFrom(c *gin.Context, err error) {
	var validation *ValidationError
	var unsupported *UnsupportedQuestionTypeError
	var notFound *NotFoundError
	var conflict *ConflictError
	var locked *LockedError
	var persistence *PersistenceError

	switch {
	case errors.As(err, &validation):
		BadRequest(c, validation.Message)
	case errors.As(err, &unsupported):
		BadRequest(c, unsupported.Error())
	case errors.As(err, &notFound):
		Error(c, http.StatusNotFound, notFound.Message)
	case errors.As(err, &conflict):
		Error(c, http.StatusConflict, conflict.Message)
	case errors.As(err, &locked):
		c.JSON(http.StatusLocked, Response{
			Code:    http.StatusLocked,
			Message: locked.Error(),
			Data:    gin.H{"remainingSeconds": locked.RemainingSeconds},
		})
	case errors.As(err, &persistence):
		LogInternalError(c, persistence)
	default:
		LogInternalError(c, err)
	}
}
