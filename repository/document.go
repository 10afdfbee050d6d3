package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/tnqbao/gau-document-service/entity"
	"gorm.io/gorm"
)

type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// ChildFilter narrows a direct-children query. Zero values mean "no filter".
type ChildFilter struct {
	Kind       string
	Extensions []string
}

// ExtensionUsage is one row of the per-extension usage aggregation.
type ExtensionUsage struct {
	Extension string
	Count     int64
	Bytes     int64
}

func (r *DocumentRepository) Create(ctx context.Context, document *entity.Document) error {
	return r.db.WithContext(ctx).Create(document).Error
}

func (r *DocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Document, error) {
	var document entity.Document
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&document).Error
	if err != nil {
		return nil, err
	}
	return &document, nil
}

func (r *DocumentRepository) FindByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*entity.Document, error) {
	var document entity.Document
	err := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).First(&document).Error
	if err != nil {
		return nil, err
	}
	return &document, nil
}

// FindChildren returns the direct children of parentID (uuid.Nil = virtual
// root) for one owner. Listing is never recursive.
func (r *DocumentRepository) FindChildren(ctx context.Context, ownerID, parentID uuid.UUID, filter ChildFilter) ([]entity.Document, error) {
	query := r.db.WithContext(ctx).
		Where("owner_id = ? AND parent_id = ?", ownerID, parentID)

	if filter.Kind != "" {
		query = query.Where("kind = ?", filter.Kind)
	}
	if len(filter.Extensions) > 0 {
		query = query.Where("extension IN ?", filter.Extensions)
	}

	var documents []entity.Document
	err := query.Order("kind desc, name asc").Find(&documents).Error
	if err != nil {
		return nil, err
	}
	return documents, nil
}

// ExistsByName reports whether a sibling of the same kind already carries the
// name. This is a best-effort pre-check; the composite unique index is the
// hard guarantee.
func (r *DocumentRepository) ExistsByName(ctx context.Context, ownerID, parentID uuid.UUID, kind, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Document{}).
		Where("owner_id = ? AND parent_id = ? AND kind = ? AND name = ?", ownerID, parentID, kind, name).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateRename commits a rename: the display name, the extension derived from
// it, and the object key when the bytes moved. Folders carry empty location
// and extension.
func (r *DocumentRepository) UpdateRename(ctx context.Context, id uuid.UUID, name, location, extension string) error {
	return r.db.WithContext(ctx).Model(&entity.Document{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"name":      name,
			"location":  location,
			"extension": extension,
		}).Error
}

func (r *DocumentRepository) UpdateParent(ctx context.Context, id, parentID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&entity.Document{}).
		Where("id = ?", id).
		Update("parent_id", parentID).Error
}

func (r *DocumentRepository) DeleteByIDs(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Delete(&entity.Document{}, "id IN ?", ids).Error
}

// FileUsageByExtension groups the owner's files by extension with count and
// byte sum. The dashboard folds these rows into categories.
func (r *DocumentRepository) FileUsageByExtension(ctx context.Context, ownerID uuid.UUID) ([]ExtensionUsage, error) {
	var rows []ExtensionUsage
	err := r.db.WithContext(ctx).Model(&entity.Document{}).
		Select("extension, COUNT(*) AS count, COALESCE(SUM(size), 0) AS bytes").
		Where("owner_id = ? AND kind = ?", ownerID, entity.KindFile).
		Group("extension").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *DocumentRepository) CountFolders(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Document{}).
		Where("owner_id = ? AND kind = ?", ownerID, entity.KindFolder).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
