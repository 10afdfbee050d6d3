package entity

import (
	"time"

	"github.com/google/uuid"
)

type Favourite struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID     uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_favourites_user_document"`
	DocumentID uuid.UUID `json:"document_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_favourites_user_document"`
	CreatedAt  time.Time `json:"created_at" gorm:"not null;autoCreateTime"`
}
