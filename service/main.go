package service

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tnqbao/gau-document-service/config"
	"github.com/tnqbao/gau-document-service/repository"
	"gorm.io/gorm"
)

// ObjectStorage is the physical byte store behind file documents. Implemented
// by infra.MinioClient; tests use an in-memory fake.
type ObjectStorage interface {
	WriteObject(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	CopyObject(ctx context.Context, srcKey, dstKey string) error
	RenameObject(ctx context.Context, oldKey, newKey string) error
	ObjectExists(ctx context.Context, key string) (bool, error)
	RemoveObject(ctx context.Context, key string) error
}

// Cache holds short-lived derived data: the dashboard aggregates and the
// storage-warning cooldown marker. Implemented by infra.RedisClient. May be
// nil.
type Cache interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error)
}

// Notifier publishes asynchronous user notifications. Implemented by
// produce.EmailService. May be nil.
type Notifier interface {
	SendEmailWarning(ctx context.Context, email, recipientName, subject, content, actionUrl string) error
}

type DocumentService struct {
	cfg      *config.EnvConfig
	repo     *repository.Repository
	store    ObjectStorage
	cache    Cache
	notifier Notifier
}

func NewDocumentService(cfg *config.EnvConfig, repo *repository.Repository, store ObjectStorage, cache Cache, notifier Notifier) *DocumentService {
	if repo == nil {
		panic("Failed to initialize DocumentService: repository is nil")
	}
	if store == nil {
		panic("Failed to initialize DocumentService: object storage is nil")
	}
	return &DocumentService{
		cfg:      cfg,
		repo:     repo,
		store:    store,
		cache:    cache,
		notifier: notifier,
	}
}

// UserPrefix is the per-user key namespace in the document bucket. The service
// never builds a key outside of it.
func UserPrefix(email string) string {
	return "users/" + strings.ToLower(strings.TrimSpace(email))
}

// objectLocation derives a physical key in the same namespace directory as an
// existing key. Keys carry the entry id, never the display name: names may
// legally repeat across parents, ids cannot, so two entries never share bytes.
func objectLocation(location string, id uuid.UUID, ext string) string {
	return path.Dir(location) + "/" + id.String() + ext
}

// resolveParent validates an optional parent reference. A nil or zero id is
// the virtual root. The parent must exist, belong to the owner and be a
// folder.
func (s *DocumentService) resolveParent(ctx context.Context, ownerID uuid.UUID, parentID *uuid.UUID) (uuid.UUID, error) {
	if parentID == nil || *parentID == uuid.Nil {
		return uuid.Nil, nil
	}

	parent, err := s.repo.DocumentRepo.FindByIDAndOwner(ctx, *parentID, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, ErrParentNotFound
		}
		return uuid.Nil, err
	}
	if !parent.IsFolder() {
		return uuid.Nil, ErrInvalidParent
	}

	return parent.ID, nil
}

// checkSiblingName runs the best-effort duplicate pre-check. The composite
// unique index remains the hard guarantee under concurrency.
func (s *DocumentService) checkSiblingName(ctx context.Context, ownerID, parentID uuid.UUID, kind, name string) error {
	exists, err := s.repo.DocumentRepo.ExistsByName(ctx, ownerID, parentID, kind, name)
	if err != nil {
		return err
	}
	if exists {
		return ErrDuplicateName
	}
	return nil
}

// translateCreateError maps a store-level constraint violation to the
// duplicate-name error, regardless of what the pre-check computed.
func translateCreateError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateName
	}
	return err
}

func (s *DocumentService) invalidateStats(ctx context.Context, ownerID uuid.UUID) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Delete(ctx, statsCacheKey(ownerID))
}

func normalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

func (s *DocumentService) defaultCapacity() int64 {
	if s.cfg != nil && s.cfg.Storage.DefaultCapacity > 0 {
		return s.cfg.Storage.DefaultCapacity
	}
	return 5 * 1024 * 1024 * 1024
}

func (s *DocumentService) warnThreshold() float64 {
	if s.cfg != nil && s.cfg.Storage.WarnThreshold > 0 {
		return s.cfg.Storage.WarnThreshold
	}
	return 0.9
}
