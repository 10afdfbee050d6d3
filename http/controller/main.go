package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tnqbao/gau-document-service/config"
	"github.com/tnqbao/gau-document-service/infra"
	"github.com/tnqbao/gau-document-service/repository"
	"github.com/tnqbao/gau-document-service/service"
)

type Controller struct {
	Config     *config.Config
	Infra      *infra.Infra
	Repository *repository.Repository
	Service    *service.DocumentService
}

func NewController(config *config.Config, infra *infra.Infra, repo *repository.Repository) *Controller {
	if repo == nil {
		panic("Failed to initialize Repository")
	}

	documentService := service.NewDocumentService(
		config.EnvConfig,
		repo,
		infra.Minio,
		infra.Redis,
		infra.Produce.EmailService,
	)

	return &Controller{
		Config:     config,
		Infra:      infra,
		Repository: repo,
		Service:    documentService,
	}
}

// currentUser pulls the authenticated identity out of the gin context.
func currentUser(c *gin.Context) (uuid.UUID, string, bool) {
	userIDStr := c.GetString("user_id")
	if userIDStr == "" {
		return uuid.Nil, "", false
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, "", false
	}
	return userID, c.GetString("user_email"), true
}

// parseOptionalID parses an optional uuid field; empty means absent.
func parseOptionalID(value string) (*uuid.UUID, bool) {
	if value == "" {
		return nil, true
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return nil, false
	}
	return &id, true
}
