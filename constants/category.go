package constants

import "strings"

// CategoryAll is the filter value that disables category filtering.
const CategoryAll = "all"

// UnknownItemName replaces a missing or blank item name.
const UnknownItemName = "Unknown Item"

// IsAllCategories reports whether a category filter should match every row.
func IsAllCategories(category string) bool {
	c := strings.TrimSpace(category)
	return c == "" || strings.EqualFold(c, CategoryAll)
}
