package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-document-service/http/controller"
	middlewares "github.com/tnqbao/gau-document-service/http/middleware"
)

func SetupRouter(ctrl *controller.Controller) *gin.Engine {
	r := gin.Default()
	middles, err := middlewares.NewMiddlewares(ctrl)
	if err != nil {
		panic(err)
	}

	r.Use(middles.CORSMiddleware)

	apiRoutes := r.Group("/api/v1/documents")
	{
		apiRoutes.Use(middles.AuthMiddleware)

		apiRoutes.POST("/folder", ctrl.CreateFolder)
		apiRoutes.POST("/upload", ctrl.UploadFile)
		apiRoutes.POST("/text", ctrl.CreateTextFile)
		apiRoutes.GET("/", ctrl.ListDocuments)
		apiRoutes.GET("/dashboard", ctrl.GetDashboardStats)
		apiRoutes.GET("/favourites", ctrl.ListFavourites)

		apiRoutes.POST("/:id/favourite", ctrl.ToggleFavourite)
		apiRoutes.POST("/:id/duplicate", ctrl.DuplicateDocument)
		apiRoutes.POST("/:id/copy", ctrl.CopyToFolder)
		apiRoutes.PUT("/:id/rename", ctrl.RenameDocument)
		apiRoutes.DELETE("/:id", ctrl.DeleteDocument)
	}
	return r
}
