package controller

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-document-service/utils"
)

func (ctrl *Controller) GetDashboardStats(c *gin.Context) {
	ctx := c.Request.Context()
	userID, _, ok := currentUser(c)
	if !ok {
		utils.JSON401(c, "Unauthorized: user_id not found")
		return
	}

	// Optional per-call capacity override; defaults to the configured quota.
	var capacity int64
	if capacityStr := c.Query("capacity"); capacityStr != "" {
		parsed, err := strconv.ParseInt(capacityStr, 10, 64)
		if err != nil || parsed <= 0 {
			utils.JSON400(c, "Invalid capacity value")
			return
		}
		capacity = parsed
	}

	stats, err := ctrl.Service.DashboardStats(ctx, userID, capacity)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Dashboard] Failed to compute stats for user %s", userID)
		respondServiceError(c, err)
		return
	}

	utils.JSON200(c, stats)
}
