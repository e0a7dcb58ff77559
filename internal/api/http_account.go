package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"quickai/internal/entity"
)

// UpdateMyPlan 切换当前账户的套餐。计费集成完成前由客户端在支付回调后调用。
func (h *HTTPHandler) UpdateMyPlan(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}

	var req entity.PlanUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "invalid plan payload")
		return
	}

	plan := strings.ToLower(strings.TrimSpace(req.Plan))
	if plan != entity.PlanFree && plan != entity.PlanPremium {
		BadRequest(c, ErrCodeInvalidRequest, "plan must be free or premium")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.UpdateUserPlan(ctx, user.ID, plan); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"user_id": user.ID,
			"plan":    plan,
		}).Error("failed to update plan")
		InternalError(c, "failed to update plan")
		return
	}

	dbUser, err := h.repo.GetUserByID(ctx, user.ID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Error("failed to reload user after plan change")
		InternalError(c, "failed to load profile")
		return
	}

	c.JSON(http.StatusOK, makeUserSummary(dbUser))
}
