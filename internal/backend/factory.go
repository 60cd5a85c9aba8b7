package backend

import (
	"context"
	"fmt"

	"lifedeck/internal/cache"
	"lifedeck/internal/kv"
	"lifedeck/internal/kv/memory"
	applog "lifedeck/internal/log"
	"lifedeck/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *applog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *applog.Logger) Factory {
	if logger == nil {
		logger = applog.Default(applog.ComponentBackend)
	}
	return &DefaultFactory{
		logger: logger.WithComponent(applog.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		result *BackendResult
		err    error
	)
	switch config.Type {
	case SQLiteBackend:
		result, err = f.createSQLiteBackend(ctx, config)
	case MemoryBackend:
		result, err = f.createMemoryBackend(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}

	if config.CacheSize > 0 {
		f.wrapWithCache(result, config)
	}
	return result, nil
}

func (f *DefaultFactory) createSQLiteBackend(ctx context.Context, config Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}
	if err := repo.Ping(ctx); err != nil {
		_ = repo.Close()
		return nil, fmt.Errorf("SQLite repository not reachable: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)

	return &BackendResult{
		Store:   repo,
		Cleanup: repo.Close,
	}, nil
}

func (f *DefaultFactory) createMemoryBackend(config Config) (*BackendResult, error) {
	var store *memory.Store
	if config.SeedDir != "" {
		store = memory.NewFromFiles(config.SeedDir)
	} else {
		store = memory.New()
	}

	f.logger.Info("Initialized memory backend", "seed_directory", config.SeedDir)

	return &BackendResult{
		Store: store,
	}, nil
}

// wrapWithCache puts a read-through cache in front of the store and hands
// its expiry to a cache.Manager stopped by the result's cleanup.
func (f *DefaultFactory) wrapWithCache(result *BackendResult, config Config) {
	cached := kv.NewCached(result.Store, config.CacheSize, config.CacheTTL)

	manager := cache.NewManager(f.logger)
	manager.Register(cached.Cleaner())
	manager.StartCleanup(config.CacheTTL)

	inner := result.Cleanup
	result.Store = cached
	result.Cached = cached
	result.Cleanup = func() error {
		manager.Stop()
		if inner == nil {
			return nil
		}
		return inner()
	}

	f.logger.Info("Enabled slot cache", "size", config.CacheSize, "ttl", config.CacheTTL)
}

// Close runs the cleanup of a result, tolerating a nil result or func.
func (r *BackendResult) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}
