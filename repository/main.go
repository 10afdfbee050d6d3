package repository

import (
	"github.com/tnqbao/gau-document-service/infra"
	"gorm.io/gorm"
)

type Repository struct {
	DocumentRepo  *DocumentRepository
	FavouriteRepo *FavouriteRepository

	db *gorm.DB
}

var repository *Repository

func InitRepository(infra *infra.Infra) *Repository {
	repository = NewRepository(infra.Postgres.DB)
	return repository
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		DocumentRepo:  NewDocumentRepository(db),
		FavouriteRepo: NewFavouriteRepository(db),
		db:            db,
	}
}

func GetRepository() *Repository {
	if repository == nil {
		panic("repository not initialized")
	}
	return repository
}

func (r *Repository) BeginTransaction() *gorm.DB {
	return r.db.Begin()
}

func (r *Repository) WithTransaction(tx *gorm.DB) *Repository {
	return &Repository{
		DocumentRepo:  NewDocumentRepository(tx),
		FavouriteRepo: NewFavouriteRepository(tx),
		db:            tx,
	}
}
