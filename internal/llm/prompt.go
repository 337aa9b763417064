package llm

import (
	"encoding/json"
	"strings"
)

// BuildMenuPrompt embeds the uploaded text in the fixed extraction instructions.
func BuildMenuPrompt(text string) string {
	var b strings.Builder
	b.WriteString("You are an expert at extracting food menu information from text files. ")
	b.WriteString("Please analyze the following text and extract all food menu items with their details.\n\n")
	b.WriteString("Extract the following information for each menu item:\n")
	for _, f := range MenuItemFields {
		b.WriteString("- ")
		b.WriteString(f.Name)
		b.WriteString(": ")
		b.WriteString(f.Hint)
		b.WriteString("\n")
	}
	b.WriteString("\nReturn the data as a JSON array with this exact structure:\n")
	b.WriteString(exampleArray())
	b.WriteString("\n\nText to analyze:\n")
	b.WriteString(text)
	b.WriteString("\n\nPlease be thorough and extract all food-related items. ")
	b.WriteString("If information is not available, use null for that field. ")
	b.WriteString("Return only the JSON array, no other text.")
	return b.String()
}

var exampleValues = map[string]any{
	"name":         "Item Name",
	"description":  "Item description",
	"price":        "Price if available",
	"category":     "Category name",
	"ingredients":  []string{"ingredient1", "ingredient2"},
	"dietaryInfo":  []string{"vegetarian", "gluten-free"},
	"availability": "breakfast, lunch, dinner",
}

// exampleArray renders one example item with keys in MenuItemFields order.
// Marshaling a map would sort them.
func exampleArray() string {
	var b strings.Builder
	b.WriteString("[\n  {\n")
	for i, f := range MenuItemFields {
		k, _ := json.Marshal(f.Name)
		v, _ := json.Marshal(exampleValues[f.Name])
		b.WriteString("    ")
		b.Write(k)
		b.WriteString(": ")
		b.Write(v)
		if i < len(MenuItemFields)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("  }\n]")
	return b.String()
}
