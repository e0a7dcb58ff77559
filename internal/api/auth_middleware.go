package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"quickai/internal/service"
)

const (
	currentUserContextKey = "current-user"
)

// RequestUser 存储请求上下文中的认证用户信息。Plan 和 FreeUsage 在每次请求
// 鉴权时从数据库快照，套餐变更无需重新登录即可生效。
type RequestUser struct {
	ID          uint
	Email       string
	DisplayName string
	Plan        string
	FreeUsage   int
	Premium     bool
}

// Caller 转换为服务层的调用者快照。
func (u *RequestUser) Caller() service.Caller {
	if u == nil {
		return service.Caller{}
	}
	return service.Caller{
		ID:        u.ID,
		Premium:   u.Premium,
		FreeUsage: u.FreeUsage,
	}
}

// AuthMiddleware JWT 认证中间件
func (h *HTTPHandler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, APIError{
				Code:    ErrCodeUnauthorized,
				Message: "missing authorization header",
			})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, APIError{
				Code:    ErrCodeUnauthorized,
				Message: "invalid authorization header format",
			})
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, APIError{
				Code:    ErrCodeUnauthorized,
				Message: "missing bearer token",
			})
			return
		}

		claims, err := h.authManager.ParseToken(tokenString)
		if err != nil {
			logrus.WithError(err).Warn("failed to parse jwt token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, APIError{
				Code:    ErrCodeSessionExpired,
				Message: "token invalid or expired",
			})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		user, err := h.repo.GetUserByID(ctx, claims.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, APIError{
					Code:    ErrCodeUserNotFound,
					Message: "user not found",
				})
				return
			}
			logrus.WithError(err).WithField("user_id", claims.UserID).Error("failed to load user")
			c.AbortWithStatusJSON(http.StatusInternalServerError, APIError{
				Code:    ErrCodeInternalError,
				Message: "failed to verify user",
			})
			return
		}

		if !user.IsActive {
			c.AbortWithStatusJSON(http.StatusForbidden, APIError{
				Code:    ErrCodeUserDisabled,
				Message: "account disabled",
			})
			return
		}

		requestUser := &RequestUser{
			ID:          user.ID,
			Email:       user.Email,
			DisplayName: user.DisplayName,
			Plan:        user.Plan,
			FreeUsage:   user.FreeUsage,
			Premium:     user.IsPremium(),
		}

		c.Set(currentUserContextKey, requestUser)
		c.Next()
	}
}

// CurrentUser 从上下文获取当前认证用户
func CurrentUser(c *gin.Context) *RequestUser {
	value, exists := c.Get(currentUserContextKey)
	if !exists {
		return nil
	}
	user, ok := value.(*RequestUser)
	if !ok {
		return nil
	}
	return user
}
