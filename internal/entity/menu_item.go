package entity

import "time"

// MenuItem is the canonical, normalized menu entry stored and served by the API.
// Optional fields are nil when the extractor did not supply a usable value.
type MenuItem struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  *string   `json:"description,omitempty"`
	Price        *string   `json:"price,omitempty"`
	Category     *string   `json:"category,omitempty"`
	Ingredients  []string  `json:"ingredients,omitempty"`
	DietaryInfo  []string  `json:"dietaryInfo,omitempty"`
	Availability *string   `json:"availability,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}
