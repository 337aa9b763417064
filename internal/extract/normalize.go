package extract

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joseph-ayodele/menu-extractor/constants"
	"github.com/joseph-ayodele/menu-extractor/internal/entity"
)

// Normalize converts candidates into menu items. It never fails: unusable
// values are dropped and a missing name becomes constants.UnknownItemName.
// Every item of the batch shares batchAt as its creation time and gets an id
// of the form item-<batchAt unix millis>-<index>.
func Normalize(raw []Candidate, batchAt time.Time) []entity.MenuItem {
	batchAt = batchAt.UTC()
	millis := batchAt.UnixMilli()

	items := make([]entity.MenuItem, 0, len(raw))
	for i, c := range raw {
		name := itemName(c["name"])
		items = append(items, entity.MenuItem{
			ID:           fmt.Sprintf("item-%d-%d", millis, i),
			Name:         name,
			Description:  optionalText(c["description"]),
			Price:        optionalText(c["price"]),
			Category:     optionalText(c["category"]),
			Ingredients:  stringList(c["ingredients"]),
			DietaryInfo:  stringList(c["dietaryInfo"]),
			Availability: optionalText(c["availability"]),
			CreatedAt:    batchAt,
		})
	}
	return items
}

// Categories returns the distinct categories of items in first-seen order.
func Categories(items []entity.MenuItem) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, it := range items {
		if it.Category == nil {
			continue
		}
		if _, ok := seen[*it.Category]; ok {
			continue
		}
		seen[*it.Category] = struct{}{}
		out = append(out, *it.Category)
	}
	return out
}

// itemName accepts only a non-blank string; numbers and other JSON types
// fall back to constants.UnknownItemName.
func itemName(v any) string {
	if s, ok := v.(string); ok {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return constants.UnknownItemName
}

func optionalText(v any) *string {
	var s string
	switch x := v.(type) {
	case string:
		s = strings.TrimSpace(x)
	case float64:
		s = strconv.FormatFloat(x, 'f', -1, 64)
	case json.Number:
		s = x.String()
	default:
		return nil
	}
	if s == "" {
		return nil
	}
	return &s
}

// stringList keeps a value only when it is a non-empty list of strings.
func stringList(v any) []string {
	arr, ok := v.([]any)
	if !ok || len(arr) == 0 {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, el := range arr {
		s, ok := el.(string)
		if !ok {
			return nil
		}
		out = append(out, s)
	}
	return out
}
