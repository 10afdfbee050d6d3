package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tnqbao/gau-document-service/utils"
)

func (ctrl *Controller) ToggleFavourite(c *gin.Context) {
	ctx := c.Request.Context()
	userID, _, ok := currentUser(c)
	if !ok {
		utils.JSON401(c, "Unauthorized: user_id not found")
		return
	}

	documentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.JSON400(c, "Invalid document id format")
		return
	}

	status, err := ctrl.Service.ToggleFavourite(ctx, userID, documentID)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Favourite] Failed to toggle favourite %s for user %s", documentID, userID)
		respondServiceError(c, err)
		return
	}

	message := "Document removed from favourites"
	if status.IsFavourite {
		message = "Document marked as favourite"
	}
	utils.JSON200(c, gin.H{
		"message":     message,
		"document_id": status.DocumentID,
		"isFavourite": status.IsFavourite,
	})
}

func (ctrl *Controller) ListFavourites(c *gin.Context) {
	ctx := c.Request.Context()
	userID, _, ok := currentUser(c)
	if !ok {
		utils.JSON401(c, "Unauthorized: user_id not found")
		return
	}

	list, err := ctrl.Service.ListFavourites(ctx, userID)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Favourite] Failed to list favourites for user %s", userID)
		respondServiceError(c, err)
		return
	}

	utils.JSON200(c, list)
}
