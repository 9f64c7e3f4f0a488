package spentbook

import (
	"path/filepath"

	"github.com/pkg/errors"

	"notemint/config"
	"notemint/db"
)

// Backend names accepted in spentbook configuration.
const (
	BackendMemory   = "memory"
	BackendLevelDB  = "leveldb"
	BackendBolt     = "bolt"
	BackendPostgres = "postgres"
)

// Validate checks a spentbook configuration before any backend is
// touched.
func Validate(cfg *config.SpentbookConfig) error {
	if cfg == nil {
		return errors.New("spentbook config cannot be nil")
	}
	switch cfg.Backend {
	case "", BackendMemory:
		return nil
	case BackendLevelDB, BackendBolt:
		if cfg.Directory == "" {
			return errors.Errorf("%s backend needs a directory", cfg.Backend)
		}
		return nil
	case BackendPostgres:
		if cfg.PostgresDSN == "" {
			return errors.New("postgres backend needs a dsn")
		}
		return nil
	default:
		return errors.Errorf("unsupported spentbook backend: %s", cfg.Backend)
	}
}

// Open creates the spentbook the configuration asks for. An empty
// backend means memory.
func Open(cfg *config.SpentbookConfig) (Spentbook, error) {
	if err := Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	switch cfg.Backend {
	case "", BackendMemory:
		return NewMemorySpentbook(), nil

	case BackendLevelDB:
		provider, err := db.NewLevelDBProvider(filepath.Join(cfg.Directory, "spentbook"))
		if err != nil {
			return nil, errors.Wrap(err, "failed to create provider")
		}
		return NewStoredSpentbook(provider), nil

	case BackendBolt:
		provider, err := db.NewBoltProvider(filepath.Join(cfg.Directory, "spentbook.db"))
		if err != nil {
			return nil, errors.Wrap(err, "failed to create provider")
		}
		return NewStoredSpentbook(provider), nil

	default: // postgres; Validate already rejected everything else
		return NewPostgresSpentbook(cfg.PostgresDSN)
	}
}
