package dto

type CreateFolderRequestDTO struct {
	Name     string `json:"name" binding:"required,min=1,max=512"`
	ParentID string `json:"parent_id"`
}

type CreateTextFileRequestDTO struct {
	Name     string `json:"name" binding:"required,min=1,max=512"`
	Content  string `json:"content"`
	ParentID string `json:"parent_id"`
}

type RenameDocumentRequestDTO struct {
	Name string `json:"name" binding:"required,min=1,max=512"`
}

type CopyToFolderRequestDTO struct {
	TargetFolderID string `json:"target_folder_id" binding:"required"`
}
