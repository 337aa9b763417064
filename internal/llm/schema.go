package llm

// FieldKind is the JSON shape of an extracted field.
type FieldKind int

const (
	KindString FieldKind = iota
	KindStringList
)

// Field describes one attribute the model is asked to extract.
type Field struct {
	Name string
	Kind FieldKind
	Hint string
}

// MenuItemFields is the target record, in prompt order.
var MenuItemFields = []Field{
	{Name: "name", Kind: KindString, Hint: "The name of the food item"},
	{Name: "description", Kind: KindString, Hint: "A brief description of the item"},
	{Name: "price", Kind: KindString, Hint: "The price (if mentioned)"},
	{Name: "category", Kind: KindString, Hint: "The category (appetizer, main course, dessert, beverage, etc.)"},
	{Name: "ingredients", Kind: KindStringList, Hint: "List of main ingredients"},
	{Name: "dietaryInfo", Kind: KindStringList, Hint: "Dietary information (vegetarian, vegan, gluten-free, etc.)"},
	{Name: "availability", Kind: KindString, Hint: "When the item is available (breakfast, lunch, dinner, etc.)"},
}

// BuildMenuArrayJSONSchema returns a JSON-Schema (draft 2020-12 subset) for the
// extraction result: an array of menu item objects. Only "name" is required and
// every field is nullable, matching what the prompt allows.
func BuildMenuArrayJSONSchema() map[string]any {
	props := map[string]any{}
	for _, f := range MenuItemFields {
		switch f.Kind {
		case KindStringList:
			props[f.Name] = map[string]any{
				"type":  []any{"array", "null"},
				"items": map[string]any{"type": "string"},
			}
		default:
			props[f.Name] = map[string]any{"type": []any{"string", "null"}}
		}
	}
	return map[string]any{
		"type": "array",
		"items": map[string]any{
			"type":       "object",
			"properties": props,
			"required":   []string{"name"},
		},
	}
}

// ArrayOnlySchema accepts any JSON array. Extraction uses it to reject
// non-array documents without validating the elements.
func ArrayOnlySchema() map[string]any {
	return map[string]any{"type": "array"}
}

// BuildGeminiResponseSchema expresses the same array in the OpenAPI subset the
// Gemini generateContent API accepts as responseSchema.
func BuildGeminiResponseSchema() map[string]any {
	props := map[string]any{}
	order := make([]string, 0, len(MenuItemFields))
	for _, f := range MenuItemFields {
		order = append(order, f.Name)
		switch f.Kind {
		case KindStringList:
			props[f.Name] = map[string]any{
				"type":     "ARRAY",
				"items":    map[string]any{"type": "STRING"},
				"nullable": true,
			}
		default:
			props[f.Name] = map[string]any{"type": "STRING", "nullable": f.Name != "name"}
		}
	}
	return map[string]any{
		"type": "ARRAY",
		"items": map[string]any{
			"type":             "OBJECT",
			"properties":       props,
			"required":         []string{"name"},
			"propertyOrdering": order,
		},
	}
}
