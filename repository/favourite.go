package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/tnqbao/gau-document-service/entity"
	"gorm.io/gorm"
)

type FavouriteRepository struct {
	db *gorm.DB
}

func NewFavouriteRepository(db *gorm.DB) *FavouriteRepository {
	return &FavouriteRepository{db: db}
}

func (r *FavouriteRepository) Create(ctx context.Context, favourite *entity.Favourite) error {
	return r.db.WithContext(ctx).Create(favourite).Error
}

func (r *FavouriteRepository) FindByUserAndDocument(ctx context.Context, userID, documentID uuid.UUID) (*entity.Favourite, error) {
	var favourite entity.Favourite
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND document_id = ?", userID, documentID).
		First(&favourite).Error
	if err != nil {
		return nil, err
	}
	return &favourite, nil
}

func (r *FavouriteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Favourite{}, "id = ?", id).Error
}

// FindDocumentsByUser returns the documents the user has marked as favourite.
func (r *FavouriteRepository) FindDocumentsByUser(ctx context.Context, userID uuid.UUID) ([]entity.Document, error) {
	var documents []entity.Document
	err := r.db.WithContext(ctx).Model(&entity.Document{}).
		Joins("JOIN favourites ON favourites.document_id = documents.id").
		Where("favourites.user_id = ?", userID).
		Order("documents.name asc").
		Find(&documents).Error
	if err != nil {
		return nil, err
	}
	return documents, nil
}

// DeleteByDocumentIDs removes favourite marks for deleted documents,
// regardless of which user placed them.
func (r *FavouriteRepository) DeleteByDocumentIDs(ctx context.Context, documentIDs []uuid.UUID) error {
	if len(documentIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Delete(&entity.Favourite{}, "document_id IN ?", documentIDs).Error
}
