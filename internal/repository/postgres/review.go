package postgres

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/jackc/pgx/v5"

	"github.com/nexocart/catalog-service/internal/domain"
	"github.com/nexocart/catalog-service/pkg/database"
	apperrors "github.com/nexocart/catalog-service/pkg/errors"
)

const reviewColumns = `id, product_id, user_id, rating, comment, created_at, updated_at`

// ReviewRepository implements repository.ReviewRepository using PostgreSQL.
type ReviewRepository struct {
	pool database.DBTX
}

// NewReviewRepository creates a new PostgreSQL-backed review repository.
func NewReviewRepository(pool database.DBTX) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

// Upsert inserts a review, or replaces the rating and comment when the user
// has already reviewed the product. The stored row is returned so callers
// observe the id and timestamps the database settled on.
func (r *ReviewRepository) Upsert(ctx context.Context, rv *domain.Review) (*domain.Review, error) {
	query := fmt.Sprintf(`
		INSERT INTO product_reviews (id, product_id, user_id, rating, comment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (product_id, user_id)
		DO UPDATE SET rating = EXCLUDED.rating, comment = EXCLUDED.comment, updated_at = EXCLUDED.updated_at
		RETURNING %s`, reviewColumns)

	var stored domain.Review

	err := r.pool.QueryRow(ctx, query,
		rv.ID,
		rv.ProductID,
		rv.UserID,
		rv.Rating,
		rv.Comment,
		rv.CreatedAt,
		rv.UpdatedAt,
	).Scan(
		&stored.ID,
		&stored.ProductID,
		&stored.UserID,
		&stored.Rating,
		&stored.Comment,
		&stored.CreatedAt,
		&stored.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, apperrors.NotFound("product", rv.ProductID)
		}
		return nil, fmt.Errorf("upsert review: %w", err)
	}

	return &stored, nil
}

// ListByProductID returns reviews for a product, newest first, with the
// total count over the full set.
func (r *ReviewRepository) ListByProductID(ctx context.Context, productID string, offset, limit int) ([]domain.Review, int, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT id, product_id, user_id, rating, comment, created_at, updated_at,
		       count(*) OVER() AS total_count
		FROM product_reviews
		WHERE product_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, productID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var (
		reviews    []domain.Review
		totalCount int
	)

	for rows.Next() {
		var rv domain.Review

		if err := rows.Scan(
			&rv.ID,
			&rv.ProductID,
			&rv.UserID,
			&rv.Rating,
			&rv.Comment,
			&rv.CreatedAt,
			&rv.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan review row: %w", err)
		}

		reviews = append(reviews, rv)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate review rows: %w", err)
	}

	if reviews == nil {
		reviews = []domain.Review{}
	}

	return reviews, totalCount, nil
}

// AverageRating computes the mean review rating for a product, rounded to
// two decimals. Products with no reviews average to zero.
func (r *ReviewRepository) AverageRating(ctx context.Context, productID string) (float64, error) {
	query := `SELECT COALESCE(AVG(rating), 0) FROM product_reviews WHERE product_id = $1`

	var avg float64
	if err := r.pool.QueryRow(ctx, query, productID).Scan(&avg); err != nil {
		return 0, fmt.Errorf("average rating: %w", err)
	}

	return math.Round(avg*100) / 100, nil
}

// Summary returns the average rating and review count for a product in one query.
func (r *ReviewRepository) Summary(ctx context.Context, productID string) (*domain.ReviewSummary, error) {
	query := `SELECT COALESCE(AVG(rating), 0), count(*) FROM product_reviews WHERE product_id = $1`

	var s domain.ReviewSummary
	err := r.pool.QueryRow(ctx, query, productID).Scan(&s.AverageRating, &s.TotalCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &domain.ReviewSummary{}, nil
		}
		return nil, fmt.Errorf("review summary: %w", err)
	}

	s.AverageRating = math.Round(s.AverageRating*100) / 100

	return &s, nil
}
