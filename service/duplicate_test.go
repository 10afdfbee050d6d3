package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/tnqbao/gau-document-service/entity"
	"github.com/tnqbao/gau-document-service/repository"
)

func TestDuplicateFileNaming(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := uuid.New()

	file, err := env.svc.CreateTextFile(ctx, owner, "user@example.com", "report", "hello", nil)
	if err != nil {
		t.Fatalf("CreateTextFile failed: %v", err)
	}

	want := []string{"report_copy.txt", "report_copy_1.txt", "report_copy_2.txt"}
	for _, name := range want {
		clone, err := env.svc.Duplicate(ctx, owner, file.ID, nil)
		if err != nil {
			t.Fatalf("Duplicate failed: %v", err)
		}
		if clone.Name != name {
			t.Fatalf("expected copy name %q, got %q", name, clone.Name)
		}
		if clone.ParentID != file.ParentID {
			t.Errorf("copy should stay under the source parent, got %s", clone.ParentID)
		}
		if !env.store.has(clone.Location) {
			t.Errorf("expected copied bytes at %q", clone.Location)
		}
	}
}

func TestDuplicateCopiesMetadata(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := uuid.New()

	file, err := env.svc.CreateTextFile(ctx, owner, "user@example.com", "report", "hello", nil)
	if err != nil {
		t.Fatalf("CreateTextFile failed: %v", err)
	}

	clone, err := env.svc.Duplicate(ctx, owner, file.ID, nil)
	if err != nil {
		t.Fatalf("Duplicate failed: %v", err)
	}
	if clone.ID == file.ID {
		t.Error("copy must get its own id")
	}
	if clone.Kind != file.Kind || clone.Extension != file.Extension || clone.Size != file.Size {
		t.Errorf("copy should carry kind, extension and size: got %+v", clone)
	}
	if clone.Content != file.Content {
		t.Errorf("copy should carry the inline content, got %q", clone.Content)
	}
}

func TestDuplicateFolderRecursive(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := uuid.New()
	email := "user@example.com"

	outer, err := env.svc.CreateFolder(ctx, owner, "Projects", nil)
	if err != nil {
		t.Fatalf("CreateFolder failed: %v", err)
	}
	inner, err := env.svc.CreateFolder(ctx, owner, "Drafts", &outer.ID)
	if err != nil {
		t.Fatalf("CreateFolder failed: %v", err)
	}
	file, err := env.svc.CreateTextFile(ctx, owner, email, "notes", "hello", &inner.ID)
	if err != nil {
		t.Fatalf("CreateTextFile failed: %v", err)
	}

	clone, err := env.svc.Duplicate(ctx, owner, outer.ID, nil)
	if err != nil {
		t.Fatalf("Duplicate failed: %v", err)
	}
	if clone.Name != "Projects_copy" {
		t.Fatalf("expected copy name Projects_copy, got %q", clone.Name)
	}

	children, err := env.repo.DocumentRepo.FindChildren(ctx, owner, clone.ID, repository.ChildFilter{})
	if err != nil {
		t.Fatalf("FindChildren failed: %v", err)
	}
	if len(children) != 1 || children[0].Name != "Drafts_copy" || !children[0].IsFolder() {
		t.Fatalf("expected one folder child Drafts_copy, got %+v", children)
	}

	grandchildren, err := env.repo.DocumentRepo.FindChildren(ctx, owner, children[0].ID, repository.ChildFilter{})
	if err != nil {
		t.Fatalf("FindChildren failed: %v", err)
	}
	if len(grandchildren) != 1 || grandchildren[0].Name != "notes_copy.txt" || !grandchildren[0].IsFile() {
		t.Fatalf("expected one file grandchild notes_copy.txt, got %+v", grandchildren)
	}
	if !env.store.has(grandchildren[0].Location) {
		t.Error("expected nested file bytes to be copied")
	}

	// Source subtree is untouched.
	if _, err := env.repo.DocumentRepo.FindByID(ctx, file.ID); err != nil {
		t.Errorf("source file should survive duplication: %v", err)
	}
	if !env.store.has(file.Location) {
		t.Error("source bytes should survive duplication")
	}
}

func TestDuplicateIntoTargetFolder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := uuid.New()

	file, err := env.svc.CreateTextFile(ctx, owner, "user@example.com", "report", "hello", nil)
	if err != nil {
		t.Fatalf("CreateTextFile failed: %v", err)
	}
	target, err := env.svc.CreateFolder(ctx, owner, "Archive", nil)
	if err != nil {
		t.Fatalf("CreateFolder failed: %v", err)
	}

	clone, err := env.svc.Duplicate(ctx, owner, file.ID, &target.ID)
	if err != nil {
		t.Fatalf("Duplicate failed: %v", err)
	}
	if clone.ParentID != target.ID {
		t.Errorf("expected copy under target folder, got parent %s", clone.ParentID)
	}
	if clone.Name != "report_copy.txt" {
		t.Errorf("expected copy name report_copy.txt, got %q", clone.Name)
	}
}

func TestDuplicateFolderIntoOwnSubtree(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := uuid.New()

	outer, err := env.svc.CreateFolder(ctx, owner, "Projects", nil)
	if err != nil {
		t.Fatalf("CreateFolder failed: %v", err)
	}
	inner, err := env.svc.CreateFolder(ctx, owner, "Drafts", &outer.ID)
	if err != nil {
		t.Fatalf("CreateFolder failed: %v", err)
	}

	if _, err := env.svc.Duplicate(ctx, owner, outer.ID, &outer.ID); !errors.Is(err, ErrInvalidParent) {
		t.Errorf("copy into itself: expected ErrInvalidParent, got %v", err)
	}
	if _, err := env.svc.Duplicate(ctx, owner, outer.ID, &inner.ID); !errors.Is(err, ErrInvalidParent) {
		t.Errorf("copy into own child: expected ErrInvalidParent, got %v", err)
	}
}

func TestDuplicateMissingSourceBytes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := uuid.New()

	file, err := env.svc.CreateTextFile(ctx, owner, "user@example.com", "report", "hello", nil)
	if err != nil {
		t.Fatalf("CreateTextFile failed: %v", err)
	}
	if err := env.store.RemoveObject(ctx, file.Location); err != nil {
		t.Fatalf("RemoveObject failed: %v", err)
	}

	clone, err := env.svc.Duplicate(ctx, owner, file.ID, nil)
	if err != nil {
		t.Fatalf("duplicate with missing source bytes should succeed: %v", err)
	}
	if clone.Name != "report_copy.txt" {
		t.Errorf("expected copy name report_copy.txt, got %q", clone.Name)
	}
	if env.store.len() != 0 {
		t.Errorf("no bytes should appear out of thin air, store has %d objects", env.store.len())
	}
}

func TestDuplicatePhysicalCopyFailureRollsBack(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := uuid.New()
	email := "user@example.com"

	folder, err := env.svc.CreateFolder(ctx, owner, "Projects", nil)
	if err != nil {
		t.Fatalf("CreateFolder failed: %v", err)
	}
	if _, err := env.svc.CreateTextFile(ctx, owner, email, "notes", "hello", &folder.ID); err != nil {
		t.Fatalf("CreateTextFile failed: %v", err)
	}
	env.store.failCopy = errors.New("minio is down")

	if _, err := env.svc.Duplicate(ctx, owner, folder.ID, nil); !errors.Is(err, ErrPhysicalStore) {
		t.Fatalf("expected ErrPhysicalStore, got %v", err)
	}

	list, err := env.svc.ListDocuments(ctx, owner, ListFilter{})
	if err != nil {
		t.Fatalf("ListDocuments failed: %v", err)
	}
	if list.TotalItems != 1 {
		t.Errorf("failed duplication must not leave partial rows, root has %d entries", list.TotalItems)
	}
	if env.store.len() != 1 {
		t.Errorf("failed duplication must not leave copied bytes, store has %d objects", env.store.len())
	}
}

func TestDuplicateNotFound(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.svc.Duplicate(ctx, uuid.New(), uuid.New(), nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDuplicateKeepsKindForFolders(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := uuid.New()

	folder, err := env.svc.CreateFolder(ctx, owner, "Projects", nil)
	if err != nil {
		t.Fatalf("CreateFolder failed: %v", err)
	}
	clone, err := env.svc.Duplicate(ctx, owner, folder.ID, nil)
	if err != nil {
		t.Fatalf("Duplicate failed: %v", err)
	}
	if clone.Kind != entity.KindFolder {
		t.Errorf("expected folder copy, got kind %q", clone.Kind)
	}
	if clone.Location != "" {
		t.Errorf("folder copy should carry no location, got %q", clone.Location)
	}
}
