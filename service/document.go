package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/tnqbao/gau-document-service/entity"
	"github.com/tnqbao/gau-document-service/repository"
	"gorm.io/gorm"
)

// UploadedFile describes a file whose bytes were already written to the
// document bucket by the upload handler before the service is invoked.
type UploadedFile struct {
	OriginalName string
	Size         int64
	Location     string
}

// ListFilter narrows a listing to one parent (nil = virtual root) and an
// optional kind, extension or category facet.
type ListFilter struct {
	ParentID  *uuid.UUID
	Kind      string
	Extension string
	Category  string
}

type DocumentList struct {
	TotalItems int               `json:"totalItems"`
	Content    []entity.Document `json:"content"`
}

// CreateFolder registers a folder under the given parent. There is no lazily
// created root folder: a zero parent id is the virtual root.
func (s *DocumentService) CreateFolder(ctx context.Context, ownerID uuid.UUID, name string, parentID *uuid.UUID) (*entity.Document, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: folder name is required", ErrValidation)
	}

	parent, err := s.resolveParent(ctx, ownerID, parentID)
	if err != nil {
		return nil, err
	}

	if err := s.checkSiblingName(ctx, ownerID, parent, entity.KindFolder, name); err != nil {
		return nil, err
	}

	folder := &entity.Document{
		ID:       uuid.New(),
		Name:     name,
		Kind:     entity.KindFolder,
		ParentID: parent,
		OwnerID:  ownerID,
	}

	if err := s.repo.DocumentRepo.Create(ctx, folder); err != nil {
		return nil, translateCreateError(err)
	}

	s.invalidateStats(ctx, ownerID)
	return folder, nil
}

// RegisterUpload records a file whose bytes are already durable. The parent,
// when given, must be a folder owned by the caller.
func (s *DocumentService) RegisterUpload(ctx context.Context, ownerID uuid.UUID, email string, upload UploadedFile, parentID *uuid.UUID) (*entity.Document, error) {
	name := strings.TrimSpace(upload.OriginalName)
	if name == "" {
		return nil, fmt.Errorf("%w: file name is required", ErrValidation)
	}
	if upload.Location == "" {
		return nil, fmt.Errorf("%w: file location is required", ErrValidation)
	}
	if upload.Size < 0 {
		return nil, fmt.Errorf("%w: file size cannot be negative", ErrValidation)
	}

	parent, err := s.resolveParent(ctx, ownerID, parentID)
	if err != nil {
		return nil, err
	}

	if err := s.checkSiblingName(ctx, ownerID, parent, entity.KindFile, name); err != nil {
		return nil, err
	}

	file := &entity.Document{
		ID:        uuid.New(),
		Name:      name,
		Kind:      entity.KindFile,
		ParentID:  parent,
		OwnerID:   ownerID,
		Extension: normalizeExtension(filepath.Ext(name)),
		Size:      upload.Size,
		Location:  upload.Location,
	}

	if err := s.repo.DocumentRepo.Create(ctx, file); err != nil {
		return nil, translateCreateError(err)
	}

	s.invalidateStats(ctx, ownerID)
	s.warnOnLowStorage(ctx, ownerID, email)
	return file, nil
}

// CreateTextFile persists the content through the physical store first; a
// failed write aborts before any metadata exists.
func (s *DocumentService) CreateTextFile(ctx context.Context, ownerID uuid.UUID, email, name, content string, parentID *uuid.UUID) (*entity.Document, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: file name is required", ErrValidation)
	}
	if !strings.HasSuffix(strings.ToLower(name), ".txt") {
		name += ".txt"
	}

	parent, err := s.resolveParent(ctx, ownerID, parentID)
	if err != nil {
		return nil, err
	}

	if err := s.checkSiblingName(ctx, ownerID, parent, entity.KindFile, name); err != nil {
		return nil, err
	}

	id := uuid.New()
	location := UserPrefix(email) + "/" + id.String() + ".txt"
	size := int64(len(content))
	if err := s.store.WriteObject(ctx, location, strings.NewReader(content), size, "text/plain"); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPhysicalStore, err)
	}

	file := &entity.Document{
		ID:        id,
		Name:      name,
		Kind:      entity.KindFile,
		ParentID:  parent,
		OwnerID:   ownerID,
		Extension: ".txt",
		Size:      size,
		Location:  location,
		Content:   content,
	}

	if err := s.repo.DocumentRepo.Create(ctx, file); err != nil {
		// The bytes are orphaned otherwise; removal is best effort.
		_ = s.store.RemoveObject(ctx, location)
		return nil, translateCreateError(err)
	}

	s.invalidateStats(ctx, ownerID)
	s.warnOnLowStorage(ctx, ownerID, email)
	return file, nil
}

// ListDocuments returns the direct children of one parent, owner-scoped.
func (s *DocumentService) ListDocuments(ctx context.Context, ownerID uuid.UUID, filter ListFilter) (*DocumentList, error) {
	parent := uuid.Nil
	if filter.ParentID != nil {
		parent = *filter.ParentID
	}

	kind := strings.ToLower(strings.TrimSpace(filter.Kind))
	if kind != "" && kind != entity.KindFolder && kind != entity.KindFile {
		return nil, fmt.Errorf("%w: unknown kind %q", ErrValidation, filter.Kind)
	}

	var extensions []string
	if ext := normalizeExtension(filter.Extension); ext != "" {
		extensions = []string{ext}
	}

	if category := strings.ToLower(strings.TrimSpace(filter.Category)); category != "" {
		switch category {
		case entity.CategoryAll:
			// no constraint
		case entity.CategoryFolder:
			kind = entity.KindFolder
		default:
			set := entity.CategoryExtensions(category)
			if set == nil {
				return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, filter.Category)
			}
			kind = entity.KindFile
			extensions = set
		}
	}

	documents, err := s.repo.DocumentRepo.FindChildren(ctx, ownerID, parent, repository.ChildFilter{
		Kind:       kind,
		Extensions: extensions,
	})
	if err != nil {
		return nil, err
	}

	return &DocumentList{
		TotalItems: len(documents),
		Content:    documents,
	}, nil
}

// Rename updates a document's display name. For files with a physical object
// the byte store is renamed first; a missing object degrades to a
// logical-only rename, any other store failure aborts without touching the
// row.
func (s *DocumentService) Rename(ctx context.Context, ownerID, id uuid.UUID, newName string) (*entity.Document, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return nil, fmt.Errorf("%w: new name is required", ErrValidation)
	}

	document, err := s.repo.DocumentRepo.FindByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if document.IsFile() && filepath.Ext(newName) == "" {
		newName += document.Extension
	}
	if newName == document.Name {
		return document, nil
	}

	if err := s.checkSiblingName(ctx, ownerID, document.ParentID, document.Kind, newName); err != nil {
		return nil, err
	}

	newExtension := document.Extension
	if document.IsFile() {
		newExtension = normalizeExtension(filepath.Ext(newName))
	}

	// Keys are id-based, so the physical object only moves when the extension
	// changes.
	newLocation := document.Location
	renamedPhysical := false
	if document.IsFile() && document.Location != "" {
		candidate := objectLocation(document.Location, document.ID, newExtension)
		if candidate != document.Location {
			exists, err := s.store.ObjectExists(ctx, document.Location)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrPhysicalStore, err)
			}
			if exists {
				if err := s.store.RenameObject(ctx, document.Location, candidate); err != nil {
					return nil, fmt.Errorf("%w: %v", ErrPhysicalStore, err)
				}
				newLocation = candidate
				renamedPhysical = true
			}
			// Missing object: already consistent, rename logically only.
		}
	}

	if err := s.repo.DocumentRepo.UpdateRename(ctx, document.ID, newName, newLocation, newExtension); err != nil {
		if renamedPhysical {
			// Put the bytes back so store and tree stay aligned.
			_ = s.store.RenameObject(ctx, newLocation, document.Location)
		}
		return nil, translateCreateError(err)
	}

	document.Name = newName
	document.Location = newLocation
	document.Extension = newExtension
	return document, nil
}

// Delete removes a document. Folders cascade: the whole subtree, its
// favourite marks and its rows go in one transaction, then the physical
// objects are removed best effort.
func (s *DocumentService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	document, err := s.repo.DocumentRepo.FindByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	ids := []uuid.UUID{document.ID}
	var locations []string
	if document.IsFile() && document.Location != "" {
		locations = append(locations, document.Location)
	}

	// Worklist traversal; folders of arbitrary depth stay off the call stack.
	folders := []uuid.UUID{}
	if document.IsFolder() {
		folders = append(folders, document.ID)
	}
	for len(folders) > 0 {
		folderID := folders[0]
		folders = folders[1:]

		children, err := s.repo.DocumentRepo.FindChildren(ctx, ownerID, folderID, repository.ChildFilter{})
		if err != nil {
			return err
		}
		for _, child := range children {
			ids = append(ids, child.ID)
			if child.IsFolder() {
				folders = append(folders, child.ID)
			} else if child.Location != "" {
				locations = append(locations, child.Location)
			}
		}
	}

	tx := s.repo.BeginTransaction()
	if tx.Error != nil {
		return tx.Error
	}
	txRepo := s.repo.WithTransaction(tx)

	if err := txRepo.FavouriteRepo.DeleteByDocumentIDs(ctx, ids); err != nil {
		tx.Rollback()
		return err
	}
	if err := txRepo.DocumentRepo.DeleteByIDs(ctx, ids); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit().Error; err != nil {
		return err
	}

	// Physical cleanup after the logical delete commits; leftover objects are
	// tolerated drift.
	for _, location := range locations {
		_ = s.store.RemoveObject(ctx, location)
	}

	s.invalidateStats(ctx, ownerID)
	return nil
}
