package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	KindFolder = "folder"
	KindFile   = "file"
)

// Document is a node in a user's storage tree. ParentID == uuid.Nil means the
// node sits at the virtual root; there is no materialized root folder row.
type Document struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name         string    `json:"name" gorm:"type:varchar(512);not null;uniqueIndex:idx_documents_owner_parent_kind_name"`
	Kind         string    `json:"kind" gorm:"type:varchar(16);not null;uniqueIndex:idx_documents_owner_parent_kind_name"`
	ParentID     uuid.UUID `json:"parent_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_documents_owner_parent_kind_name"`
	OwnerID      uuid.UUID `json:"owner_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_documents_owner_parent_kind_name"`
	Extension    string    `json:"extension" gorm:"type:varchar(32)"`
	Size         int64     `json:"size"`
	Location     string    `json:"location" gorm:"type:varchar(1024)"` // object key in the document bucket
	Content      string    `json:"content,omitempty" gorm:"type:text"`
	CreatedAt    time.Time `json:"created_at" gorm:"not null;autoCreateTime"`
	LastModified time.Time `json:"last_modified" gorm:"autoUpdateTime"`
}

func (d *Document) IsFolder() bool {
	return d.Kind == KindFolder
}

func (d *Document) IsFile() bool {
	return d.Kind == KindFile
}
