package repository

import (
	"strings"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/joseph-ayodele/menu-extractor/constants"
)

const menuItemsTable = "menu_items"

// insertChunkSize keeps multi-row inserts well under the Postgres bind limit.
const insertChunkSize = 500

var menuItemColumns = []string{
	"id",
	"name",
	"description",
	"price",
	"category",
	"ingredients",
	"dietary_info",
	"availability",
	"created_at",
}

// ingredientMatcher returns a predicate that is true when any ingredient
// matches the LIKE pattern. Array storage differs per backend.
type ingredientMatcher func(pattern string) *entsql.Predicate

func buildInsert(dialectName string, rows [][]any) (string, []any, error) {
	ins := entsql.Dialect(dialectName).
		Insert(menuItemsTable).
		Columns(menuItemColumns...)
	for _, r := range rows {
		ins.Values(r...)
	}
	ins.OnConflict(
		entsql.ConflictColumns("id"),
		entsql.ResolveWithNewValues(),
	)
	return ins.QueryErr()
}

// textMatcher returns a predicate that is true when column contains search,
// ignoring case. entsql.ContainsFold satisfies it.
type textMatcher func(column, search string) *entsql.Predicate

func buildList(dialectName string, f ListFilter, matchText textMatcher, matchIngredient ingredientMatcher) (string, []any) {
	b := entsql.Dialect(dialectName)
	sel := b.Select(menuItemColumns...).From(b.Table(menuItemsTable))

	var preds []*entsql.Predicate
	if !constants.IsAllCategories(f.Category) {
		preds = append(preds, entsql.EQ("category", strings.TrimSpace(f.Category)))
	}
	if f.Search != "" {
		preds = append(preds, entsql.Or(
			matchText("name", f.Search),
			matchText("description", f.Search),
			matchIngredient(likePattern(f.Search)),
		))
	}
	if len(preds) > 0 {
		sel.Where(entsql.And(preds...))
	}
	sel.OrderBy(entsql.Desc("created_at"), entsql.Asc("id"))
	return sel.Query()
}

func buildDelete(dialectName, id string) (string, []any) {
	return entsql.Dialect(dialectName).
		Delete(menuItemsTable).
		Where(entsql.EQ("id", id)).
		Query()
}

func buildCategories(dialectName string) (string, []any) {
	b := entsql.Dialect(dialectName)
	return b.Select("category").
		Distinct().
		From(b.Table(menuItemsTable)).
		Where(entsql.NotNull("category")).
		OrderBy(entsql.Asc("category")).
		Query()
}

// likePattern lowercases s, escapes LIKE wildcards with '\' and wraps it in '%'.
func likePattern(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('%')
	for _, r := range strings.ToLower(s) {
		if r == '%' || r == '_' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('%')
	return b.String()
}

func optional(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func chunk[T any](items []T, size int) [][]T {
	var out [][]T
	for size < len(items) {
		items, out = items[size:], append(out, items[:size])
	}
	if len(items) > 0 {
		out = append(out, items)
	}
	return out
}
