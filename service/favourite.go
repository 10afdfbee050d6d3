package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/tnqbao/gau-document-service/entity"
	"gorm.io/gorm"
)

type FavouriteStatus struct {
	DocumentID  uuid.UUID `json:"document_id"`
	IsFavourite bool      `json:"isFavourite"`
}

// ToggleFavourite flips the (user, document) favourite mark. The document
// must exist, but it does not have to belong to the toggling user; that
// matches the historical behavior and is deliberate.
func (s *DocumentService) ToggleFavourite(ctx context.Context, userID, documentID uuid.UUID) (*FavouriteStatus, error) {
	if _, err := s.repo.DocumentRepo.FindByID(ctx, documentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	existing, err := s.repo.FavouriteRepo.FindByUserAndDocument(ctx, userID, documentID)
	if err == nil {
		if err := s.repo.FavouriteRepo.Delete(ctx, existing.ID); err != nil {
			return nil, err
		}
		return &FavouriteStatus{DocumentID: documentID, IsFavourite: false}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	favourite := &entity.Favourite{
		ID:         uuid.New(),
		UserID:     userID,
		DocumentID: documentID,
	}
	if err := s.repo.FavouriteRepo.Create(ctx, favourite); err != nil {
		// A concurrent toggle won the race; the mark exists either way.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return &FavouriteStatus{DocumentID: documentID, IsFavourite: true}, nil
		}
		return nil, err
	}

	return &FavouriteStatus{DocumentID: documentID, IsFavourite: true}, nil
}

// ListFavourites returns the documents the user has marked as favourite.
func (s *DocumentService) ListFavourites(ctx context.Context, userID uuid.UUID) (*DocumentList, error) {
	documents, err := s.repo.FavouriteRepo.FindDocumentsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &DocumentList{
		TotalItems: len(documents),
		Content:    documents,
	}, nil
}
