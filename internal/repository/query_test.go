package repository

import (
	"testing"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildList_Postgres(t *testing.T) {
	t.Parallel()

	query, args := buildList(dialect.Postgres, ListFilter{Category: " dessert ", Search: "Cake"}, entsql.ContainsFold, postgresIngredientMatch)

	assert.Contains(t, query, `FROM "menu_items"`)
	assert.Contains(t, query, `"category" = $1`)
	assert.Contains(t, query, `"name" ILIKE $2`)
	assert.Contains(t, query, `"description" ILIKE $3`)
	assert.Contains(t, query, `EXISTS (SELECT 1 FROM unnest("ingredients") AS ingredient WHERE ingredient ILIKE $4)`)
	assert.Contains(t, query, `ORDER BY "created_at" DESC, "id" ASC`)
	assert.Equal(t, []any{"dessert", "%cake%", "%cake%", "%cake%"}, args)
}

func TestBuildList_SQLiteFoldsInGo(t *testing.T) {
	t.Parallel()

	query, args := buildList(dialect.SQLite, ListFilter{Search: "CRÈME"}, sqliteTextMatch, sqliteIngredientMatch)

	assert.Contains(t, query, "fold(`name`) LIKE ? ESCAPE '\\'")
	assert.Contains(t, query, "fold(`description`) LIKE ? ESCAPE '\\'")
	assert.Contains(t, query, "WHERE fold(json_each.value) LIKE ? ESCAPE '\\'")
	assert.NotContains(t, query, "LOWER(")
	assert.Equal(t, []any{"%crème%", "%crème%", "%crème%"}, args)
}

func TestBuildList_NoFilters(t *testing.T) {
	t.Parallel()

	for _, category := range []string{"", "all", "All"} {
		query, args := buildList(dialect.Postgres, ListFilter{Category: category}, entsql.ContainsFold, postgresIngredientMatch)
		assert.NotContains(t, query, "WHERE")
		assert.Empty(t, args)
	}
}

func TestBuildInsert_Postgres(t *testing.T) {
	t.Parallel()

	now := time.Now()
	rows := [][]any{
		{"item-1-0", "Soup", nil, "$4", nil, []string{"leek"}, nil, nil, now},
		{"item-1-1", "Bread", nil, nil, nil, nil, nil, nil, now},
	}
	query, args, err := buildInsert(dialect.Postgres, rows)
	require.NoError(t, err)

	assert.Contains(t, query, `INSERT INTO "menu_items" ("id", "name", "description", "price", "category", "ingredients", "dietary_info", "availability", "created_at")`)
	assert.Contains(t, query, `ON CONFLICT ("id") DO UPDATE SET`)
	assert.Contains(t, query, `"name" = "excluded"."name"`)
	// nil values are inlined as NULL literals
	assert.Len(t, args, 8)
}

func TestBuildDeleteAndCategories(t *testing.T) {
	t.Parallel()

	query, args := buildDelete(dialect.Postgres, "item-1-0")
	assert.Equal(t, `DELETE FROM "menu_items" WHERE "id" = $1`, query)
	assert.Equal(t, []any{"item-1-0"}, args)

	query, _ = buildCategories(dialect.SQLite)
	assert.Equal(t, "SELECT DISTINCT `category` FROM `menu_items` WHERE `category` IS NOT NULL ORDER BY `category` ASC", query)
}

func TestLikePattern(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "%lettuce%", likePattern("Lettuce"))
	assert.Equal(t, `%50\% off\_now\\%`, likePattern(`50% off_now\`))
}

func TestChunk(t *testing.T) {
	t.Parallel()

	assert.Nil(t, chunk([]int{}, 3))
	assert.Equal(t, [][]int{{1, 2, 3}, {4, 5}}, chunk([]int{1, 2, 3, 4, 5}, 3))
	assert.Equal(t, [][]int{{1, 2}}, chunk([]int{1, 2}, 2))
}
