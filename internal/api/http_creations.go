package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"quickai/internal/entity"
	"quickai/internal/service"
)

// ListMyCreations 返回当前用户的创作记录
func (h *HTTPHandler) ListMyCreations(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}

	var query entity.CreationQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "invalid query parameters")
		return
	}
	clampPagination(&query.BaseParams)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	response, err := h.creationService.ListUserCreations(ctx, user.ID, &query)
	if err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Error("failed to list creations")
		InternalError(c, "failed to load creations")
		return
	}
	c.JSON(http.StatusOK, response)
}

// ListPublishedCreations 返回社区公开的图片创作
func (h *HTTPHandler) ListPublishedCreations(c *gin.Context) {
	var query entity.CreationQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "invalid query parameters")
		return
	}
	clampPagination(&query.BaseParams)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	response, err := h.creationService.ListPublishedCreations(ctx, &query)
	if err != nil {
		logrus.WithError(err).Error("failed to list published creations")
		InternalError(c, "failed to load community creations")
		return
	}
	c.JSON(http.StatusOK, response)
}

// ToggleCreationLike 切换当前用户对一条公开创作的点赞
func (h *HTTPHandler) ToggleCreationLike(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}

	idValue, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || idValue == 0 {
		BadRequest(c, ErrCodeInvalidRequest, "invalid creation id")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	likeCount, err := h.creationService.ToggleLike(ctx, user.ID, uint(idValue))
	if err != nil {
		if errors.Is(err, service.ErrCreationNotFound) {
			NotFound(c, ErrCodeCreationNotFound, "creation not found")
			return
		}
		logrus.WithError(err).WithFields(logrus.Fields{
			"user_id":     user.ID,
			"creation_id": idValue,
		}).Error("failed to toggle like")
		InternalError(c, "failed to update like")
		return
	}

	c.JSON(http.StatusOK, gin.H{"likes": likeCount})
}

func clampPagination(params *entity.BaseParams) {
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.PageSize <= 0 {
		params.PageSize = 20
	}
	if params.PageSize > 100 {
		params.PageSize = 100
	}
}
