package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"modernc.org/sqlite"

	"github.com/joseph-ayodele/menu-extractor/internal/entity"
)

// MemoryPath opens a private in-memory SQLite database.
const MemoryPath = ":memory:"

// sqliteTimeLayout is fixed width so text ordering matches time ordering.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS menu_items (
  id           TEXT PRIMARY KEY,
  name         TEXT NOT NULL,
  description  TEXT,
  price        TEXT,
  category     TEXT,
  ingredients  TEXT,
  dietary_info TEXT,
  availability TEXT,
  created_at   TEXT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_menu_items_category ON menu_items (category)`,
	`CREATE INDEX IF NOT EXISTS idx_menu_items_created_at ON menu_items (created_at)`,
}

// SQLiteRepository stores menu items in SQLite. List columns hold JSON arrays.
type SQLiteRepository struct {
	drv *entsql.Driver
	log *slog.Logger
}

// OpenSQLite opens (creating when needed) the database at path and ensures the schema.
func OpenSQLite(ctx context.Context, path string, logger *slog.Logger) (*SQLiteRepository, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if path == "" {
		path = MemoryPath
	}
	inMemory := path == MemoryPath
	if !inMemory {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}

	if err := registerFold(); err != nil {
		return nil, fmt.Errorf("register fold function: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if inMemory {
		// each connection would get its own empty database
		db.SetMaxOpenConns(1)
	} else if _, err := db.ExecContext(ctx, `PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable wal: %w", err)
	}
	if _, err := db.ExecContext(ctx, `PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	r := &SQLiteRepository{drv: entsql.OpenDB(dialect.SQLite, db), log: logger}
	if err := r.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	logger.Info("sqlite store ready", "path", path)
	return r, nil
}

func (s *SQLiteRepository) EnsureSchema(ctx context.Context) error {
	for _, stmt := range sqliteSchema {
		if err := s.drv.Exec(ctx, stmt, []any{}, nil); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func (s *SQLiteRepository) WriteBatch(ctx context.Context, items []entity.MenuItem) (err error) {
	if len(items) == 0 {
		return nil
	}
	if err := s.EnsureSchema(ctx); err != nil {
		return err
	}

	tx, err := s.drv.Tx(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, part := range chunk(items, insertChunkSize) {
		rows := make([][]any, 0, len(part))
		for _, it := range part {
			ingredients, err := encodeList(it.Ingredients)
			if err != nil {
				return err
			}
			dietary, err := encodeList(it.DietaryInfo)
			if err != nil {
				return err
			}
			rows = append(rows, []any{
				it.ID,
				it.Name,
				optional(it.Description),
				optional(it.Price),
				optional(it.Category),
				ingredients,
				dietary,
				optional(it.Availability),
				it.CreatedAt.UTC().Format(sqliteTimeLayout),
			})
		}
		query, args, err := buildInsert(dialect.SQLite, rows)
		if err != nil {
			return fmt.Errorf("build insert: %w", err)
		}
		if err := tx.Exec(ctx, query, args, nil); err != nil {
			return fmt.Errorf("insert menu items: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.log.Debug("repository.write_batch.ok", "driver", "sqlite", "count", len(items))
	return nil
}

func (s *SQLiteRepository) List(ctx context.Context, f ListFilter) ([]entity.MenuItem, error) {
	query, args := buildList(dialect.SQLite, f, sqliteTextMatch, sqliteIngredientMatch)
	var rows entsql.Rows
	if err := s.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query menu items: %w", err)
	}
	defer rows.Close()

	var out []entity.MenuItem
	for rows.Next() {
		var (
			it                    entity.MenuItem
			desc, price, category sql.NullString
			ingredients, dietary  sql.NullString
			availability          sql.NullString
			createdAt             string
		)
		if err := rows.Scan(&it.ID, &it.Name, &desc, &price, &category,
			&ingredients, &dietary, &availability, &createdAt); err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		it.Description = nullString(desc)
		it.Price = nullString(price)
		it.Category = nullString(category)
		it.Availability = nullString(availability)

		var err error
		if it.Ingredients, err = decodeList(ingredients); err != nil {
			return nil, fmt.Errorf("decode ingredients of %s: %w", it.ID, err)
		}
		if it.DietaryInfo, err = decodeList(dietary); err != nil {
			return nil, fmt.Errorf("decode dietary info of %s: %w", it.ID, err)
		}
		if it.CreatedAt, err = time.Parse(sqliteTimeLayout, createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at of %s: %w", it.ID, err)
		}
		it.CreatedAt = it.CreatedAt.UTC()
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate menu items: %w", err)
	}
	return out, nil
}

func (s *SQLiteRepository) Delete(ctx context.Context, id string) error {
	query, args := buildDelete(dialect.SQLite, id)
	if err := s.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("delete menu item: %w", err)
	}
	s.log.Debug("repository.delete", "driver", "sqlite", "id", id)
	return nil
}

func (s *SQLiteRepository) ListCategories(ctx context.Context) ([]string, error) {
	query, args := buildCategories(dialect.SQLite)
	var rows entsql.Rows
	if err := s.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLiteRepository) Ping(ctx context.Context) error {
	return s.drv.DB().PingContext(ctx)
}

func (s *SQLiteRepository) Close() {
	if err := s.drv.Close(); err != nil {
		s.log.Error("failed to close sqlite", "error", err)
	}
}

// SQLite's LOWER folds ASCII only, so matching goes through fold, which
// lowercases with the same rules likePattern applies to the search text.
func sqliteTextMatch(column, search string) *entsql.Predicate {
	return entsql.P(func(b *entsql.Builder) {
		b.WriteString(foldFunc + "(").
			Ident(column).
			WriteString(") LIKE ").
			Arg(likePattern(search)).
			WriteString(` ESCAPE '\'`)
	})
}

func sqliteIngredientMatch(pattern string) *entsql.Predicate {
	return entsql.P(func(b *entsql.Builder) {
		b.WriteString("EXISTS (SELECT 1 FROM json_each(").
			Ident("ingredients").
			WriteString(") WHERE " + foldFunc + "(json_each.value) LIKE ").
			Arg(pattern).
			WriteString(` ESCAPE '\')`)
	})
}

const foldFunc = "fold"

var registerFold = sync.OnceValue(func() error {
	return sqlite.RegisterDeterministicScalarFunction(foldFunc, 1,
		func(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
			switch v := args[0].(type) {
			case nil:
				return nil, nil
			case string:
				return strings.ToLower(v), nil
			case []byte:
				return strings.ToLower(string(v)), nil
			default:
				return v, nil
			}
		})
})

func encodeList(v []string) (any, error) {
	if len(v) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode list: %w", err)
	}
	return string(b), nil
}

func decodeList(v sql.NullString) ([]string, error) {
	if !v.Valid || strings.TrimSpace(v.String) == "" {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(v.String), &out); err != nil {
		return nil, err
	}
	return emptyToNil(out), nil
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
