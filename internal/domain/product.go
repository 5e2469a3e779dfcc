package domain

import (
	"time"
)

// Sort field constants accepted by the product listing.
const (
	SortByRating    = "rating"
	SortByName      = "name"
	SortByPrice     = "price"
	SortByCreatedAt = "created_at"
)

// Sort direction constants.
const (
	DirectionAsc  = "asc"
	DirectionDesc = "desc"
)

// Product represents a product in the catalog. Rating is a derived field:
// it always holds the arithmetic mean of the product's review ratings
// (rounded to two decimal places), or zero when no reviews exist. Price is
// in minor currency units (cents).
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CategoryID  *string   `json:"category_id,omitempty"`
	Price       int64     `json:"price"`
	Currency    string    `json:"currency"`
	Rating      float64   `json:"rating"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ValidSortFields returns the set of sort fields the listing accepts.
func ValidSortFields() []string {
	return []string{SortByRating, SortByName, SortByPrice, SortByCreatedAt}
}

// IsValidSortField checks whether the given field can be sorted on.
func IsValidSortField(field string) bool {
	for _, f := range ValidSortFields() {
		if f == field {
			return true
		}
	}
	return false
}

// IsValidDirection checks whether the given sort direction is valid.
func IsValidDirection(dir string) bool {
	return dir == DirectionAsc || dir == DirectionDesc
}
