package factory

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mikey/moodiary/internal/adapters/store"
	"github.com/mikey/moodiary/internal/config"
	"github.com/mikey/moodiary/internal/core"
	"go.uber.org/zap"
)

// StoreFactory creates entry repositories based on configuration
type StoreFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewStoreFactory creates a new store factory
func NewStoreFactory(cfg *config.Config, logger *zap.Logger) *StoreFactory {
	return &StoreFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateEntryRepository creates an entry repository based on the configuration
func (f *StoreFactory) CreateEntryRepository() (core.EntryRepository, error) {
	storeCfg := f.cfg.GetStore()

	switch storeCfg.Type {
	case "memory":
		return store.NewMemoryStore(f.logger), nil
	case "sqlite":
		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(storeCfg.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		return store.NewSQLiteStore(storeCfg.SQLitePath, f.logger)
	case "mysql":
		return store.NewMySQLStore(storeCfg.MySQLDSN, f.logger)
	default:
		return nil, fmt.Errorf("%w: unsupported store type: %s", core.ErrConfiguration, storeCfg.Type)
	}
}
