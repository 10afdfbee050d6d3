package controller

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-document-service/service"
	"github.com/tnqbao/gau-document-service/utils"
)

// respondServiceError translates a service error kind into a transport
// response. The service itself never sees HTTP.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		utils.JSON400(c, err.Error())
	case errors.Is(err, service.ErrInvalidParent):
		utils.JSON400(c, err.Error())
	case errors.Is(err, service.ErrNotFound):
		utils.JSON404(c, err.Error())
	case errors.Is(err, service.ErrParentNotFound):
		utils.JSON404(c, err.Error())
	case errors.Is(err, service.ErrDuplicateName):
		utils.JSON409(c, err.Error())
	case errors.Is(err, service.ErrPhysicalStore):
		utils.JSON500(c, "Storage backend failed, please try again")
	default:
		utils.JSON500(c, "Internal server error")
	}
}
