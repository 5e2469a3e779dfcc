package repository

import (
	"context"

	"github.com/nexocart/catalog-service/internal/domain"
)

// ProductFilter defines filter, sort, and window criteria for listing
// products. Nil filter fields impose no constraint. All provided predicates
// must hold (conjunctive filtering).
type ProductFilter struct {
	// CategoryName matches case-insensitively as a substring against the
	// related category's name.
	CategoryName *string
	// CategoryID is an exact match against the product's category reference.
	CategoryID *string
	// ProductName matches case-insensitively as a substring against the
	// product's name.
	ProductName *string

	// OrderBy is one of domain.ValidSortFields; unrecognized values fall
	// back to rating. Direction is asc or desc.
	OrderBy   string
	Direction string

	Offset int
	Limit  int
}

// ProductRepository defines the interface for product persistence operations.
type ProductRepository interface {
	// Create inserts a new product into the store.
	Create(ctx context.Context, product *domain.Product) error

	// GetByID retrieves a product by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// GetByName retrieves a product by its exact name.
	GetByName(ctx context.Context, name string) (*domain.Product, error)

	// List returns products matching the given filter along with the total
	// count over the full filtered set.
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, int, error)

	// Update modifies an existing product in the store.
	Update(ctx context.Context, product *domain.Product) error

	// UpdateRating persists a recomputed derived rating onto a product.
	UpdateRating(ctx context.Context, id string, rating float64) error

	// Delete removes a product from the store by its identifier.
	Delete(ctx context.Context, id string) error
}

// ReviewRepository defines the interface for review persistence operations.
type ReviewRepository interface {
	// Upsert inserts a review or, if one already exists for the same
	// (product, user) pair, overwrites its rating and comment in place.
	// The returned review reflects the persisted row.
	Upsert(ctx context.Context, review *domain.Review) (*domain.Review, error)

	// ListByProductID returns paginated reviews for a product along with
	// the total count.
	ListByProductID(ctx context.Context, productID string, offset, limit int) ([]domain.Review, int, error)

	// AverageRating returns the arithmetic mean of all review ratings for a
	// product, or zero when no reviews exist.
	AverageRating(ctx context.Context, productID string) (float64, error)

	// Summary returns the average rating and total review count for a product.
	Summary(ctx context.Context, productID string) (*domain.ReviewSummary, error)
}

// CategoryRepository defines the interface for category persistence operations.
type CategoryRepository interface {
	// Create inserts a new category into the store.
	Create(ctx context.Context, category *domain.Category) error

	// GetByID retrieves a category by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Category, error)

	// ListAll returns all categories ordered by name.
	ListAll(ctx context.Context) ([]domain.Category, error)
}

// UserRepository defines the interface for user persistence operations.
type UserRepository interface {
	// Create inserts a new user into the store.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a user by email address.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// UpdateRole changes a user's role.
	UpdateRole(ctx context.Context, id, role string) error
}
