package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"quickai/internal/entity"
	"quickai/internal/service"
)

// 错误码定义
const (
	// 通用错误码
	ErrCodeInvalidRequest     = "ERR_INVALID_REQUEST"
	ErrCodeUnauthorized       = "ERR_UNAUTHORIZED"
	ErrCodeForbidden          = "ERR_FORBIDDEN"
	ErrCodeNotFound           = "ERR_NOT_FOUND"
	ErrCodeInternalError      = "ERR_INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "ERR_SERVICE_UNAVAILABLE"

	// 认证错误码
	ErrCodeInvalidCredentials = "ERR_INVALID_CREDENTIALS"
	ErrCodeEmailExists        = "ERR_EMAIL_EXISTS"
	ErrCodeUserDisabled       = "ERR_USER_DISABLED"
	ErrCodeSessionExpired     = "ERR_SESSION_EXPIRED"
	ErrCodeUserNotFound       = "ERR_USER_NOT_FOUND"

	// 业务逻辑错误码
	ErrCodeQuotaExhausted   = "ERR_QUOTA_EXHAUSTED"
	ErrCodePremiumRequired  = "ERR_PREMIUM_REQUIRED"
	ErrCodeCreationNotFound = "ERR_CREATION_NOT_FOUND"
)

// APIError 统一的 API 错误响应结构
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorResponse 返回统一格式的错误响应
func ErrorResponse(c *gin.Context, status int, code string, message string) {
	c.JSON(status, APIError{
		Code:    code,
		Message: message,
	})
}

// BadRequest 400 错误请求
func BadRequest(c *gin.Context, code string, message string) {
	ErrorResponse(c, http.StatusBadRequest, code, message)
}

// Unauthorized 401 未授权
func Unauthorized(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusUnauthorized, ErrCodeUnauthorized, message)
}

// Forbidden 403 禁止访问
func Forbidden(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusForbidden, ErrCodeForbidden, message)
}

// NotFound 404 资源不存在
func NotFound(c *gin.Context, code string, message string) {
	ErrorResponse(c, http.StatusNotFound, code, message)
}

// InternalError 500 服务器内部错误
func InternalError(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusInternalServerError, ErrCodeInternalError, message)
}

// generationStatus maps a generation failure to the HTTP status every
// generation endpoint uses: 402 for an exhausted free quota, 403 for a
// missing premium entitlement, 400 for bad input, 500 otherwise.
func generationStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrQuotaExhausted):
		return http.StatusPaymentRequired
	case errors.Is(err, service.ErrPremiumRequired):
		return http.StatusForbidden
	default:
		var ve *service.ValidationError
		if errors.As(err, &ve) {
			return http.StatusBadRequest
		}
		return http.StatusInternalServerError
	}
}

// respondGeneration 按统一的 {success, content?, message?} 结构回复生成请求。
func respondGeneration(c *gin.Context, content string, err error) {
	if err != nil {
		c.JSON(generationStatus(err), entity.GenerateResponse{
			Success: false,
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, entity.GenerateResponse{
		Success: true,
		Content: content,
	})
}
