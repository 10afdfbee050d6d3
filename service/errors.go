package service

import "errors"

var (
	// ErrValidation marks missing or malformed input fields.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a document that does not exist or is not owned by the
	// caller.
	ErrNotFound = errors.New("document not found")

	// ErrParentNotFound marks a parent id that does not resolve to a document
	// owned by the caller.
	ErrParentNotFound = errors.New("parent folder not found")

	// ErrInvalidParent marks a parent that exists but cannot hold children.
	ErrInvalidParent = errors.New("parent is not a folder")

	// ErrDuplicateName marks a sibling name collision, whether caught by the
	// pre-check or surfaced from the unique index at commit time.
	ErrDuplicateName = errors.New("a document with this name already exists")

	// ErrPhysicalStore marks a failure of the underlying byte store.
	ErrPhysicalStore = errors.New("physical store operation failed")
)
