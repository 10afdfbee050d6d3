package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/tnqbao/gau-document-service/entity"
	"github.com/tnqbao/gau-document-service/repository"
	"gorm.io/gorm"
)

// copyTask is one node of the duplication worklist: clone src under
// targetParent.
type copyTask struct {
	src          *entity.Document
	targetParent uuid.UUID
}

// Duplicate clones a document subtree. A nil target parent duplicates in
// place; an explicit target copies into that folder. Traversal is an explicit
// worklist in pre-order, so the parent row is always committed before its
// children and tree depth never grows the call stack.
//
// All rows are created in one transaction: a failed physical copy rolls the
// logical clone back entirely, and copied bytes are removed best effort.
// Missing source bytes are the one tolerated drift: the logical clone is
// still created.
func (s *DocumentService) Duplicate(ctx context.Context, ownerID, id uuid.UUID, targetParentID *uuid.UUID) (*entity.Document, error) {
	source, err := s.repo.DocumentRepo.FindByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	targetParent := source.ParentID
	if targetParentID != nil && *targetParentID != uuid.Nil {
		targetParent, err = s.resolveParent(ctx, ownerID, targetParentID)
		if err != nil {
			return nil, err
		}
	}

	// Copying a folder into its own subtree would feed the worklist forever.
	if source.IsFolder() {
		inside, err := s.isWithinSubtree(ctx, ownerID, targetParent, source.ID)
		if err != nil {
			return nil, err
		}
		if inside {
			return nil, fmt.Errorf("%w: cannot copy a folder into itself", ErrInvalidParent)
		}
	}

	tx := s.repo.BeginTransaction()
	if tx.Error != nil {
		return nil, tx.Error
	}
	txRepo := s.repo.WithTransaction(tx)

	var copiedKeys []string
	rollback := func() {
		tx.Rollback()
		for _, key := range copiedKeys {
			_ = s.store.RemoveObject(ctx, key)
		}
	}

	var root *entity.Document
	worklist := []copyTask{{src: source, targetParent: targetParent}}
	for len(worklist) > 0 {
		task := worklist[0]
		worklist = worklist[1:]

		clone, err := s.cloneNode(ctx, txRepo, task, &copiedKeys)
		if err != nil {
			rollback()
			return nil, err
		}
		if root == nil {
			root = clone
		}

		if task.src.IsFolder() {
			children, err := txRepo.DocumentRepo.FindChildren(ctx, ownerID, task.src.ID, repository.ChildFilter{})
			if err != nil {
				rollback()
				return nil, err
			}
			for i := range children {
				worklist = append(worklist, copyTask{src: &children[i], targetParent: clone.ID})
			}
		}
	}

	if err := tx.Commit().Error; err != nil {
		for _, key := range copiedKeys {
			_ = s.store.RemoveObject(ctx, key)
		}
		return nil, translateCreateError(err)
	}

	s.invalidateStats(ctx, ownerID)
	return root, nil
}

// cloneNode creates one copy with a collision-avoided name and, for files
// with stored bytes, duplicates the physical object.
func (s *DocumentService) cloneNode(ctx context.Context, txRepo *repository.Repository, task copyTask, copiedKeys *[]string) (*entity.Document, error) {
	src := task.src

	name, err := s.nextCopyName(ctx, txRepo, src, task.targetParent)
	if err != nil {
		return nil, err
	}

	cloneID := uuid.New()
	location := ""
	if src.IsFile() && src.Location != "" {
		location = objectLocation(src.Location, cloneID, src.Extension)
		exists, err := s.store.ObjectExists(ctx, src.Location)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPhysicalStore, err)
		}
		if exists {
			if err := s.store.CopyObject(ctx, src.Location, location); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrPhysicalStore, err)
			}
			*copiedKeys = append(*copiedKeys, location)
		}
		// Source bytes gone: keep the logical clone, tolerate the drift.
	}

	clone := &entity.Document{
		ID:        cloneID,
		Name:      name,
		Kind:      src.Kind,
		ParentID:  task.targetParent,
		OwnerID:   src.OwnerID,
		Extension: src.Extension,
		Size:      src.Size,
		Location:  location,
		Content:   src.Content,
	}

	if err := txRepo.DocumentRepo.Create(ctx, clone); err != nil {
		return nil, translateCreateError(err)
	}

	return clone, nil
}

// nextCopyName appends "_copy" to the stem, then "_copy_1", "_copy_2", ...
// until the name is free under the target parent. The counter strictly
// increases, so the loop terminates.
func (s *DocumentService) nextCopyName(ctx context.Context, txRepo *repository.Repository, src *entity.Document, targetParent uuid.UUID) (string, error) {
	ext := ""
	stem := src.Name
	if src.IsFile() {
		ext = src.Extension
		stem = strings.TrimSuffix(src.Name, ext)
	}

	candidate := stem + "_copy" + ext
	for counter := 1; ; counter++ {
		exists, err := txRepo.DocumentRepo.ExistsByName(ctx, src.OwnerID, targetParent, src.Kind, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s_copy_%d%s", stem, counter, ext)
	}
}

// isWithinSubtree walks the parent chain from nodeID and reports whether it
// passes through rootID.
func (s *DocumentService) isWithinSubtree(ctx context.Context, ownerID, nodeID, rootID uuid.UUID) (bool, error) {
	current := nodeID
	for current != uuid.Nil {
		if current == rootID {
			return true, nil
		}
		node, err := s.repo.DocumentRepo.FindByIDAndOwner(ctx, current, ownerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return false, nil
			}
			return false, err
		}
		current = node.ParentID
	}
	return false, nil
}
