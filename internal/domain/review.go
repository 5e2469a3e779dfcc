package domain

import (
	"time"
)

// Review rating bounds, inclusive.
const (
	MinRating = 0.0
	MaxRating = 5.0
)

// Review represents a product review submitted by a user. At most one review
// exists per (product, user) pair; a repeat submission overwrites the first.
type Review struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	UserID    string    `json:"user_id"`
	Rating    float64   `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsValidRating checks whether the rating is within [MinRating, MaxRating].
func IsValidRating(rating float64) bool {
	return rating >= MinRating && rating <= MaxRating
}

// ReviewSummary contains aggregate review statistics for a product.
type ReviewSummary struct {
	AverageRating float64 `json:"average_rating"`
	TotalCount    int     `json:"total_count"`
}
