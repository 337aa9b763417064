package llm

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMenuPrompt_EmbedsTextAndFields(t *testing.T) {
	t.Parallel()

	p := BuildMenuPrompt("Caesar Salad - $9\nRomaine, parmesan")
	assert.Contains(t, p, "Caesar Salad - $9\nRomaine, parmesan")
	for _, f := range MenuItemFields {
		assert.Contains(t, p, "- "+f.Name+": ")
		assert.Contains(t, p, `"`+f.Name+`"`)
	}
	assert.Contains(t, p, "Return only the JSON array")
}

func TestExampleArray_FollowsFieldOrder(t *testing.T) {
	t.Parallel()
	ex := exampleArray()

	var parsed []map[string]any
	require.NoError(t, json.Unmarshal([]byte(ex), &parsed))
	require.Len(t, parsed, 1)
	assert.Len(t, parsed[0], len(MenuItemFields))

	last := -1
	for _, f := range MenuItemFields {
		idx := strings.Index(ex, `"`+f.Name+`"`)
		require.GreaterOrEqual(t, idx, 0, f.Name)
		assert.Greater(t, idx, last, f.Name)
		last = idx
	}
	assert.True(t, strings.HasPrefix(ex, "[\n  {\n    \"name\": \"Item Name\""), ex)
}

func TestMenuSchemas(t *testing.T) {
	t.Parallel()

	items, err := CompileSchema(BuildMenuArrayJSONSchema())
	require.NoError(t, err)
	_, err = items.Decode([]byte(`[{"name":"Soup","price":null,"ingredients":["leek"]}]`))
	require.NoError(t, err)
	_, err = items.Decode([]byte(`[{"description":"no name"}]`))
	assert.ErrorIs(t, err, ErrSchemaMismatch)
	assert.ErrorIs(t, items.Validate([]any{map[string]any{"name": 14.0}}), ErrSchemaMismatch)

	arrays, err := CompileSchema(ArrayOnlySchema())
	require.NoError(t, err)
	_, err = arrays.Decode([]byte(`[1, "x", null]`))
	assert.NoError(t, err)
	_, err = arrays.Decode([]byte(`{"items":[]}`))
	assert.ErrorIs(t, err, ErrSchemaMismatch)
	_, err = arrays.Decode([]byte(`[1,`))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSchemaMismatch)

	gs := BuildGeminiResponseSchema()
	b, err := json.Marshal(gs)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"type":"ARRAY"`)
	assert.Contains(t, string(b), `"propertyOrdering":["name","description","price","category","ingredients","dietaryInfo","availability"]`)
}
