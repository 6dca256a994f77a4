package options

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"blog-toolkit/excerpt"
	"blog-toolkit/listing"
	"blog-toolkit/logger"
	"blog-toolkit/sitecode"
	"blog-toolkit/utils"
)

// Manager reads and writes the settings record through a Store, caching
// the decoded record in Redis when available.
type Manager struct {
	store Store
	now   func() time.Time
}

func NewManager(store Store) *Manager {
	return &Manager{store: store, now: time.Now}
}

func cacheKey() string {
	return utils.BuildCacheKey(utils.CachePrefixOptions, OptionKey)
}

// Load returns the full settings. A missing record yields the defaults.
func (m *Manager) Load(ctx context.Context) (Options, error) {
	var opts Options
	if err := utils.CacheGet(ctx, cacheKey(), &opts); err == nil {
		return opts, nil
	}

	data, err := m.store.Load(ctx)
	if errors.Is(err, ErrNotFound) {
		return Defaults(), nil
	}
	if err != nil {
		return Defaults(), err
	}

	opts, err = Decode(data)
	if err != nil {
		logger.L().Warn("Stored options are corrupt, using defaults", logger.Err(err))
		return Defaults(), nil
	}
	opts.CustomCode = sitecode.Normalize(opts.CustomCode, m.now())

	if err := utils.CacheSet(ctx, cacheKey(), opts, utils.CacheTTLOptions); err != nil && !errors.Is(err, utils.ErrCacheUnavailable) {
		logger.L().Warn("Failed to cache options", logger.Err(err))
	}
	return opts, nil
}

// Save writes the full settings and evicts the cache.
func (m *Manager) Save(ctx context.Context, opts Options) error {
	data, err := opts.Encode()
	if err != nil {
		return fmt.Errorf("encode options: %w", err)
	}
	if err := m.store.Save(ctx, data); err != nil {
		return err
	}
	if err := utils.CacheDelete(ctx, cacheKey()); err != nil {
		logger.L().Warn("Failed to evict options cache", logger.Err(err))
	}
	return nil
}

// GetByKey returns one subkey as JSON.
func (m *Manager) GetByKey(ctx context.Context, key string) (json.RawMessage, error) {
	opts, err := m.Load(ctx)
	if err != nil {
		return nil, err
	}
	return opts.Get(key)
}

// SetByKey replaces one subkey and saves the record.
func (m *Manager) SetByKey(ctx context.Context, key string, raw json.RawMessage) (json.RawMessage, error) {
	opts, err := m.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := opts.Set(key, raw); err != nil {
		return nil, err
	}
	if key == KeyCustomCode {
		opts.CustomCode = sitecode.Normalize(opts.CustomCode, m.now())
	}
	if err := m.Save(ctx, opts); err != nil {
		return nil, err
	}
	return opts.Get(key)
}

// DeleteAll removes the stored record; later reads return the defaults.
func (m *Manager) DeleteAll(ctx context.Context) error {
	if err := m.store.Delete(ctx); err != nil {
		return err
	}
	return utils.CacheDelete(ctx, cacheKey())
}

// Excerpt returns the excerpt settings as an engine config.
func (m *Manager) Excerpt(ctx context.Context) (excerpt.Config, error) {
	opts, err := m.Load(ctx)
	return opts.Excerpt, err
}

func (m *Manager) RelatedList(ctx context.Context) (listing.RelatedOptions, error) {
	opts, err := m.Load(ctx)
	return opts.RelatedList, err
}

func (m *Manager) MetaInfo(ctx context.Context) (sitecode.MetaInfo, error) {
	opts, err := m.Load(ctx)
	return opts.MetaInfo, err
}

func (m *Manager) CustomCode(ctx context.Context) ([]sitecode.Snippet, error) {
	opts, err := m.Load(ctx)
	return opts.CustomCode, err
}

// UpsertSnippet adds or replaces a custom code snippet.
func (m *Manager) UpsertSnippet(ctx context.Context, s sitecode.Snippet) (sitecode.Snippet, error) {
	opts, err := m.Load(ctx)
	if err != nil {
		return s, err
	}
	list, saved, err := sitecode.Upsert(opts.CustomCode, s, m.now())
	if err != nil {
		return s, err
	}
	opts.CustomCode = list
	return saved, m.Save(ctx, opts)
}

// RemoveSnippet deletes a custom code snippet.
func (m *Manager) RemoveSnippet(ctx context.Context, id string) error {
	opts, err := m.Load(ctx)
	if err != nil {
		return err
	}
	list, err := sitecode.Remove(opts.CustomCode, id)
	if err != nil {
		return err
	}
	opts.CustomCode = list
	return m.Save(ctx, opts)
}

var (
	defaultMu      sync.RWMutex
	defaultManager = NewManager(NewMemoryStore())
)

// SetDefault installs the process-wide manager.
func SetDefault(m *Manager) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultManager = m
}

// Default returns the process-wide manager.
func Default() *Manager {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultManager
}
