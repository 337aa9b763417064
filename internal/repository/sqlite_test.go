package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/menu-extractor/internal/entity"
)

func strPtr(s string) *string { return &s }

func newSQLite(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := OpenSQLite(context.Background(), MemoryPath, nil)
	require.NoError(t, err)
	t.Cleanup(repo.Close)
	return repo
}

func seedItems(batchAt time.Time) []entity.MenuItem {
	id := func(i int) string { return fmt.Sprintf("item-%d-%d", batchAt.UnixMilli(), i) }
	return []entity.MenuItem{
		{
			ID: id(0), Name: "Caesar Salad", Description: strPtr("Crisp romaine with parmesan"),
			Price: strPtr("$9"), Category: strPtr("appetizer"),
			Ingredients: []string{"Lettuce", "Parmesan"}, DietaryInfo: []string{"vegetarian"},
			Availability: strPtr("lunch"), CreatedAt: batchAt,
		},
		{
			ID: id(1), Name: "Spaghetti Carbonara", Description: strPtr("Classic pasta with egg"),
			Category: strPtr("main course"), Ingredients: []string{"spaghetti", "egg", "pancetta"},
			CreatedAt: batchAt,
		},
		{
			ID: id(2), Name: "Tiramisu", Category: strPtr("dessert"), CreatedAt: batchAt,
		},
		{
			ID: id(3), Name: "Unknown Item", CreatedAt: batchAt,
		},
	}
}

func names(items []entity.MenuItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Name)
	}
	return out
}

func TestSQLite_WriteAndListRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newSQLite(t)
	batchAt := time.Date(2024, 3, 1, 10, 30, 0, 123456789, time.UTC)
	items := seedItems(batchAt)

	require.NoError(t, repo.WriteBatch(ctx, items))

	got, err := repo.List(ctx, ListFilter{})
	require.NoError(t, err)
	require.Len(t, got, len(items))

	byID := map[string]entity.MenuItem{}
	for _, it := range got {
		byID[it.ID] = it
	}
	first := byID[items[0].ID]
	assert.Equal(t, "Caesar Salad", first.Name)
	assert.Equal(t, "Crisp romaine with parmesan", *first.Description)
	assert.Equal(t, "$9", *first.Price)
	assert.Equal(t, []string{"Lettuce", "Parmesan"}, first.Ingredients)
	assert.Equal(t, []string{"vegetarian"}, first.DietaryInfo)
	assert.Equal(t, "lunch", *first.Availability)
	assert.True(t, first.CreatedAt.Equal(batchAt))

	bare := byID[items[3].ID]
	assert.Nil(t, bare.Description)
	assert.Nil(t, bare.Category)
	assert.Nil(t, bare.Ingredients)
	assert.Nil(t, bare.DietaryInfo)
}

func TestSQLite_ListFilters(t *testing.T) {
	ctx := context.Background()
	repo := newSQLite(t)
	require.NoError(t, repo.WriteBatch(ctx, seedItems(time.Now())))
	require.NoError(t, repo.WriteBatch(ctx, []entity.MenuItem{{
		ID: "item-fr-0", Name: "CRÈME BRÛLÉE", Description: strPtr("Crémeuse À LA VANILLE"),
		Ingredients: []string{"ŒUFS", "Sucre"}, CreatedAt: time.Now(),
	}}))

	cases := []struct {
		name   string
		filter ListFilter
		want   []string
	}{
		{name: "ingredient match", filter: ListFilter{Search: "lettuce"}, want: []string{"Caesar Salad"}},
		{name: "case-insensitive description", filter: ListFilter{Search: "PASTA"}, want: []string{"Spaghetti Carbonara"}},
		{name: "name match", filter: ListFilter{Search: "tira"}, want: []string{"Tiramisu"}},
		{name: "category", filter: ListFilter{Category: "dessert"}, want: []string{"Tiramisu"}},
		{name: "category with search", filter: ListFilter{Category: "appetizer", Search: "egg"}, want: []string{}},
		{name: "unknown category", filter: ListFilter{Category: "brunch"}, want: []string{}},
		{name: "wildcards are literal", filter: ListFilter{Search: "%"}, want: []string{}},
		{name: "underscore is literal", filter: ListFilter{Search: "_"}, want: []string{}},
		{name: "accented name", filter: ListFilter{Search: "crème brûlée"}, want: []string{"CRÈME BRÛLÉE"}},
		{name: "accented description", filter: ListFilter{Search: "à la vanille"}, want: []string{"CRÈME BRÛLÉE"}},
		{name: "accented ingredient", filter: ListFilter{Search: "œufs"}, want: []string{"CRÈME BRÛLÉE"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := repo.List(ctx, tc.filter)
			require.NoError(t, err)
			assert.ElementsMatch(t, tc.want, names(got))
		})
	}

	all, err := repo.List(ctx, ListFilter{Category: "all"})
	require.NoError(t, err)
	assert.Len(t, all, 5)
	all, err = repo.List(ctx, ListFilter{Category: "ALL"})
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestSQLite_OrderNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := newSQLite(t)
	older := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := older.Add(time.Minute)

	require.NoError(t, repo.WriteBatch(ctx, []entity.MenuItem{{ID: "item-a-0", Name: "Old", CreatedAt: older}}))
	require.NoError(t, repo.WriteBatch(ctx, []entity.MenuItem{
		{ID: "item-b-0", Name: "New 0", CreatedAt: newer},
		{ID: "item-b-1", Name: "New 1", CreatedAt: newer},
	}))

	got, err := repo.List(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"New 0", "New 1", "Old"}, names(got))
}

func TestSQLite_WriteBatchOverwritesSameID(t *testing.T) {
	ctx := context.Background()
	repo := newSQLite(t)
	now := time.Now()

	require.NoError(t, repo.WriteBatch(ctx, []entity.MenuItem{{ID: "item-1-0", Name: "First", CreatedAt: now}}))
	require.NoError(t, repo.WriteBatch(ctx, []entity.MenuItem{{ID: "item-1-0", Name: "Second", Price: strPtr("4"), CreatedAt: now}}))

	got, err := repo.List(ctx, ListFilter{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Second", got[0].Name)
	assert.Equal(t, "4", *got[0].Price)
}

func TestSQLite_WriteBatchIsAtomic(t *testing.T) {
	ctx := context.Background()
	repo := newSQLite(t)
	require.NoError(t, repo.drv.Exec(ctx, `CREATE TRIGGER reject_boom BEFORE INSERT ON menu_items
WHEN NEW.name = 'boom' BEGIN SELECT RAISE(ABORT, 'rejected'); END`, []any{}, nil))

	// the failing row lands in the second insert chunk
	now := time.Now()
	items := make([]entity.MenuItem, insertChunkSize+1)
	for i := range items {
		items[i] = entity.MenuItem{ID: fmt.Sprintf("item-1-%d", i), Name: "ok", CreatedAt: now}
	}
	items[insertChunkSize].Name = "boom"

	require.Error(t, repo.WriteBatch(ctx, items))

	got, err := repo.List(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSQLite_DeleteAndCategories(t *testing.T) {
	ctx := context.Background()
	repo := newSQLite(t)
	items := seedItems(time.Now())
	require.NoError(t, repo.WriteBatch(ctx, items))

	cats, err := repo.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"appetizer", "dessert", "main course"}, cats)

	require.NoError(t, repo.Delete(ctx, items[2].ID))
	require.NoError(t, repo.Delete(ctx, "item-does-not-exist"))

	got, err := repo.List(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.NotContains(t, names(got), "Tiramisu")
}

func TestSQLite_EmptyBatchAndPing(t *testing.T) {
	ctx := context.Background()
	repo := newSQLite(t)
	require.NoError(t, repo.WriteBatch(ctx, nil))
	require.NoError(t, repo.EnsureSchema(ctx))
	require.NoError(t, repo.Ping(ctx))

	got, err := repo.List(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSQLite_FileBackedStore(t *testing.T) {
	ctx := context.Background()
	path := t.TempDir() + "/nested/menu.db"

	repo, err := OpenSQLite(ctx, path, nil)
	require.NoError(t, err)
	require.NoError(t, repo.WriteBatch(ctx, seedItems(time.Now())))
	repo.Close()

	reopened, err := OpenSQLite(ctx, path, nil)
	require.NoError(t, err)
	defer reopened.Close()
	got, err := reopened.List(ctx, ListFilter{Search: "carbonara"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Spaghetti Carbonara"}, names(got))
}
