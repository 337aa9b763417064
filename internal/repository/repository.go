package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joseph-ayodele/menu-extractor/internal/common"
	"github.com/joseph-ayodele/menu-extractor/internal/entity"
)

// ListFilter narrows List. An empty Category or "all" matches every row; an
// empty Search disables text matching.
type ListFilter struct {
	Category string
	Search   string
}

// MenuItemRepository persists menu items.
type MenuItemRepository interface {
	// EnsureSchema creates the table and indexes when absent. Idempotent.
	EnsureSchema(ctx context.Context) error
	// WriteBatch stores all items in one transaction. Rows with an existing id are overwritten.
	WriteBatch(ctx context.Context, items []entity.MenuItem) error
	// List returns matching items, newest first.
	List(ctx context.Context, f ListFilter) ([]entity.MenuItem, error)
	// Delete removes the item with id. A missing id is not an error.
	Delete(ctx context.Context, id string) error
	// ListCategories returns the distinct non-null categories, sorted.
	ListCategories(ctx context.Context) ([]string, error)
	Ping(ctx context.Context) error
	Close()
}

// OpenStore opens the backend selected by cfg.Driver.
func OpenStore(ctx context.Context, cfg common.DatabaseConfig, logger *slog.Logger) (MenuItemRepository, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch cfg.Driver {
	case "", "postgres":
		pool, err := Open(ctx, Config{
			DSN:              cfg.DSN,
			MaxConns:         cfg.MaxConns,
			MinConns:         cfg.MinConns,
			MaxConnLifetime:  cfg.MaxConnLifetime,
			MaxConnIdleTime:  cfg.MaxConnIdleTime,
			DialTimeout:      cfg.DialTimeout,
			StatementTimeout: cfg.StatementTimeout,
		}, logger)
		if err != nil {
			return nil, common.WrapError(err, "open postgres store")
		}
		return NewPostgresRepository(pool, logger), nil
	case "sqlite":
		store, err := OpenSQLite(ctx, cfg.SQLitePath, logger)
		if err != nil {
			return nil, common.WrapError(err, "open sqlite store")
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}
}
