package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/tnqbao/gau-document-service/config"
	"github.com/tnqbao/gau-document-service/entity"
	"github.com/tnqbao/gau-document-service/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// memoryStore is an in-memory ObjectStorage used by the service tests.
type memoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte

	failWrite  error
	failCopy   error
	failRename error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{objects: map[string][]byte{}}
}

func (m *memoryStore) WriteObject(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	if m.failWrite != nil {
		return m.failWrite
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return nil
}

func (m *memoryStore) CopyObject(ctx context.Context, srcKey, dstKey string) error {
	if m.failCopy != nil {
		return m.failCopy
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[srcKey]
	if !ok {
		return errors.New("source object does not exist")
	}
	m.objects[dstKey] = bytes.Clone(data)
	return nil
}

func (m *memoryStore) RenameObject(ctx context.Context, oldKey, newKey string) error {
	if m.failRename != nil {
		return m.failRename
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[oldKey]
	if !ok {
		return errors.New("source object does not exist")
	}
	m.objects[newKey] = data
	delete(m.objects, oldKey)
	return nil
}

func (m *memoryStore) ObjectExists(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok, nil
}

func (m *memoryStore) RemoveObject(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *memoryStore) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok
}

func (m *memoryStore) get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	return string(data), ok
}

func (m *memoryStore) put(key string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
}

func (m *memoryStore) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

// memoryCache is a TTL-less Cache fake; entries live until deleted.
type memoryCache struct {
	mu     sync.Mutex
	values map[string][]byte
}

var errCacheMiss = errors.New("cache miss")

func newMemoryCache() *memoryCache {
	return &memoryCache{values: map[string][]byte{}}
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = data
	return nil
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	data, ok := c.values[key]
	c.mu.Unlock()
	if !ok {
		return errCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (c *memoryCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.values, key)
	}
	return nil
}

func (c *memoryCache) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return false, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.values[key]; ok {
		return false, nil
	}
	c.values[key] = data
	return true, nil
}

// recordingNotifier captures storage warnings instead of publishing them.
type recordingNotifier struct {
	mu       sync.Mutex
	warnings []string
}

func (n *recordingNotifier) SendEmailWarning(ctx context.Context, email, recipientName, subject, content, actionUrl string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.warnings = append(n.warnings, email)
	return nil
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.warnings)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	// A second pooled connection would see a different in-memory database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access test database: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&entity.Document{}, &entity.Favourite{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func testConfig() *config.EnvConfig {
	cfg := &config.EnvConfig{}
	cfg.Storage.DefaultCapacity = 5 * 1024 * 1024 * 1024
	cfg.Storage.WarnThreshold = 0.9
	return cfg
}

type testEnv struct {
	svc      *DocumentService
	store    *memoryStore
	cache    *memoryCache
	notifier *recordingNotifier
	repo     *repository.Repository
	cfg      *config.EnvConfig
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	repo := repository.NewRepository(newTestDB(t))
	store := newMemoryStore()
	cache := newMemoryCache()
	notifier := &recordingNotifier{}
	cfg := testConfig()

	return &testEnv{
		svc:      NewDocumentService(cfg, repo, store, cache, notifier),
		store:    store,
		cache:    cache,
		notifier: notifier,
		repo:     repo,
		cfg:      cfg,
	}
}
