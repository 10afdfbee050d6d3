package controller

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tnqbao/gau-document-service/http/controller/dto"
	"github.com/tnqbao/gau-document-service/service"
	"github.com/tnqbao/gau-document-service/utils"
)

func (ctrl *Controller) CreateFolder(c *gin.Context) {
	ctx := c.Request.Context()
	userID, _, ok := currentUser(c)
	if !ok {
		utils.JSON401(c, "Unauthorized: user_id not found")
		return
	}

	var req dto.CreateFolderRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSON400(c, "Invalid request body: "+err.Error())
		return
	}

	parentID, ok := parseOptionalID(req.ParentID)
	if !ok {
		utils.JSON400(c, "Invalid parent_id format")
		return
	}

	folder, err := ctrl.Service.CreateFolder(ctx, userID, req.Name, parentID)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Document] Failed to create folder '%s' for user %s", req.Name, userID)
		respondServiceError(c, err)
		return
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Document] Created folder '%s' (%s) for user %s", folder.Name, folder.ID, userID)
	utils.JSON201(c, folder)
}

func (ctrl *Controller) UploadFile(c *gin.Context) {
	ctx := c.Request.Context()
	userID, email, ok := currentUser(c)
	if !ok {
		utils.JSON401(c, "Unauthorized: user_id not found")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.JSON400(c, "Failed to get file: "+err.Error())
		return
	}

	parentID, ok := parseOptionalID(c.PostForm("parent_id"))
	if !ok {
		utils.JSON400(c, "Invalid parent_id format")
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		utils.JSON400(c, "Failed to open uploaded file")
		return
	}
	defer src.Close()

	contentType := fileHeader.Header.Get("Content-Type")

	// The bytes go to durable storage before the tree sees the file. The key
	// carries a unique suffix so concurrent uploads of the same name never
	// clobber each other.
	ext := filepath.Ext(fileHeader.Filename)
	key := fmt.Sprintf("%s/file-%d%s", service.UserPrefix(email), time.Now().UnixNano(), ext)
	if err := ctrl.Infra.Minio.WriteObject(ctx, key, src, fileHeader.Size, contentType); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Document] Failed to store upload '%s' for user %s", fileHeader.Filename, userID)
		utils.JSON500(c, "Failed to store uploaded file")
		return
	}

	document, err := ctrl.Service.RegisterUpload(ctx, userID, email, service.UploadedFile{
		OriginalName: fileHeader.Filename,
		Size:         fileHeader.Size,
		Location:     key,
	}, parentID)
	if err != nil {
		_ = ctrl.Infra.Minio.RemoveObject(ctx, key)
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Document] Failed to register upload '%s' for user %s", fileHeader.Filename, userID)
		respondServiceError(c, err)
		return
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Document] Uploaded file '%s' (%d bytes) for user %s", document.Name, document.Size, userID)
	utils.JSON201(c, document)
}

func (ctrl *Controller) CreateTextFile(c *gin.Context) {
	ctx := c.Request.Context()
	userID, email, ok := currentUser(c)
	if !ok {
		utils.JSON401(c, "Unauthorized: user_id not found")
		return
	}

	var req dto.CreateTextFileRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSON400(c, "Invalid request body: "+err.Error())
		return
	}

	parentID, ok := parseOptionalID(req.ParentID)
	if !ok {
		utils.JSON400(c, "Invalid parent_id format")
		return
	}

	document, err := ctrl.Service.CreateTextFile(ctx, userID, email, req.Name, req.Content, parentID)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Document] Failed to create text file '%s' for user %s", req.Name, userID)
		respondServiceError(c, err)
		return
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Document] Created text file '%s' (%s) for user %s", document.Name, document.ID, userID)
	utils.JSON201(c, document)
}

func (ctrl *Controller) ListDocuments(c *gin.Context) {
	ctx := c.Request.Context()
	userID, _, ok := currentUser(c)
	if !ok {
		utils.JSON401(c, "Unauthorized: user_id not found")
		return
	}

	parentID, ok := parseOptionalID(c.Query("parent_id"))
	if !ok {
		utils.JSON400(c, "Invalid parent_id format")
		return
	}

	list, err := ctrl.Service.ListDocuments(ctx, userID, service.ListFilter{
		ParentID:  parentID,
		Kind:      c.Query("kind"),
		Extension: c.Query("extension"),
		Category:  c.Query("category"),
	})
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Document] Failed to list documents for user %s", userID)
		respondServiceError(c, err)
		return
	}

	utils.JSON200(c, list)
}

func (ctrl *Controller) RenameDocument(c *gin.Context) {
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

	var req dto.RenameDocumentRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSON400(c, "Invalid request body: "+err.Error())
		return
	}

	document, err := ctrl.Service.Rename(ctx, userID, documentID, req.Name)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Document] Failed to rename document %s for user %s", documentID, userID)
		respondServiceError(c, err)
		return
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Document] Renamed document %s to '%s' for user %s", documentID, document.Name, userID)
	utils.JSON200(c, document)
}

func (ctrl *Controller) DuplicateDocument(c *gin.Context) {
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

	document, err := ctrl.Service.Duplicate(ctx, userID, documentID, nil)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Document] Failed to duplicate document %s for user %s", documentID, userID)
		respondServiceError(c, err)
		return
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Document] Duplicated document %s into '%s' for user %s", documentID, document.Name, userID)
	utils.JSON201(c, document)
}

func (ctrl *Controller) CopyToFolder(c *gin.Context) {
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

	var req dto.CopyToFolderRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSON400(c, "Invalid request body: "+err.Error())
		return
	}

	targetID, err := uuid.Parse(req.TargetFolderID)
	if err != nil {
		utils.JSON400(c, "Invalid target_folder_id format")
		return
	}

	document, err := ctrl.Service.Duplicate(ctx, userID, documentID, &targetID)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Document] Failed to copy document %s to folder %s for user %s", documentID, targetID, userID)
		respondServiceError(c, err)
		return
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Document] Copied document %s into folder %s for user %s", documentID, targetID, userID)
	utils.JSON201(c, document)
}

func (ctrl *Controller) DeleteDocument(c *gin.Context) {
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

	if err := ctrl.Service.Delete(ctx, userID, documentID); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Document] Failed to delete document %s for user %s", documentID, userID)
		respondServiceError(c, err)
		return
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Document] Deleted document %s for user %s", documentID, userID)
	utils.JSON200(c, gin.H{
		"message":     "Document deleted successfully",
		"document_id": documentID,
	})
}
