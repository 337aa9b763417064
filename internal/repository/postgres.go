package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joseph-ayodele/menu-extractor/internal/entity"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS menu_items (
  id           TEXT PRIMARY KEY,
  name         TEXT NOT NULL,
  description  TEXT,
  price        TEXT,
  category     TEXT,
  ingredients  TEXT[],
  dietary_info TEXT[],
  availability TEXT,
  created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_menu_items_category ON menu_items (category);
CREATE INDEX IF NOT EXISTS idx_menu_items_created_at ON menu_items (created_at DESC);
`

// PostgresRepository stores menu items in Postgres through a pgx pool.
type PostgresRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewPostgresRepository(pool *pgxpool.Pool, logger *slog.Logger) *PostgresRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresRepository{pool: pool, log: logger}
}

type pgMenuItemRow struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Description  *string   `db:"description"`
	Price        *string   `db:"price"`
	Category     *string   `db:"category"`
	Ingredients  []string  `db:"ingredients"`
	DietaryInfo  []string  `db:"dietary_info"`
	Availability *string   `db:"availability"`
	CreatedAt    time.Time `db:"created_at"`
}

func (r pgMenuItemRow) toEntity() entity.MenuItem {
	return entity.MenuItem{
		ID:           r.ID,
		Name:         r.Name,
		Description:  r.Description,
		Price:        r.Price,
		Category:     r.Category,
		Ingredients:  emptyToNil(r.Ingredients),
		DietaryInfo:  emptyToNil(r.DietaryInfo),
		Availability: r.Availability,
		CreatedAt:    r.CreatedAt.UTC(),
	}
}

func (p *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (p *PostgresRepository) WriteBatch(ctx context.Context, items []entity.MenuItem) error {
	if len(items) == 0 {
		return nil
	}
	if err := p.EnsureSchema(ctx); err != nil {
		return err
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, part := range chunk(items, insertChunkSize) {
		rows := make([][]any, 0, len(part))
		for _, it := range part {
			rows = append(rows, []any{
				it.ID,
				it.Name,
				optional(it.Description),
				optional(it.Price),
				optional(it.Category),
				it.Ingredients,
				it.DietaryInfo,
				optional(it.Availability),
				it.CreatedAt,
			})
		}
		query, args, err := buildInsert(dialect.Postgres, rows)
		if err != nil {
			return fmt.Errorf("build insert: %w", err)
		}
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("insert menu items: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	p.log.Debug("repository.write_batch.ok", "driver", "postgres", "count", len(items))
	return nil
}

func (p *PostgresRepository) List(ctx context.Context, f ListFilter) ([]entity.MenuItem, error) {
	query, args := buildList(dialect.Postgres, f, entsql.ContainsFold, postgresIngredientMatch)
	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query menu items: %w", err)
	}
	recs, err := pgx.CollectRows(rows, pgx.RowToStructByName[pgMenuItemRow])
	if err != nil {
		return nil, fmt.Errorf("scan menu items: %w", err)
	}
	out := make([]entity.MenuItem, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.toEntity())
	}
	return out, nil
}

func (p *PostgresRepository) Delete(ctx context.Context, id string) error {
	query, args := buildDelete(dialect.Postgres, id)
	tag, err := p.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete menu item: %w", err)
	}
	p.log.Debug("repository.delete", "driver", "postgres", "id", id, "rows", tag.RowsAffected())
	return nil
}

func (p *PostgresRepository) ListCategories(ctx context.Context) ([]string, error) {
	query, args := buildCategories(dialect.Postgres)
	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	cats, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan categories: %w", err)
	}
	return cats, nil
}

func (p *PostgresRepository) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *PostgresRepository) Close() {
	p.log.Info("closing database connections")
	p.pool.Close()
}

func postgresIngredientMatch(pattern string) *entsql.Predicate {
	return entsql.P(func(b *entsql.Builder) {
		b.WriteString("EXISTS (SELECT 1 FROM unnest(").
			Ident("ingredients").
			WriteString(") AS ingredient WHERE ingredient ILIKE ").
			Arg(pattern).
			WriteString(")")
	})
}

func emptyToNil(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}
