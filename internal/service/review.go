package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nexocart/catalog-service/internal/domain"
	"github.com/nexocart/catalog-service/internal/event"
	"github.com/nexocart/catalog-service/internal/repository"
	apperrors "github.com/nexocart/catalog-service/pkg/errors"
)

// AddReviewInput holds the parameters for adding a review.
type AddReviewInput struct {
	ProductID string
	UserID    string
	Rating    float64
	Comment   string
}

// ReviewListResult contains reviews and their aggregate summary.
type ReviewListResult struct {
	Reviews    []domain.Review       `json:"reviews"`
	Summary    *domain.ReviewSummary `json:"summary"`
	TotalCount int                   `json:"total_count"`
	Offset     int                   `json:"offset"`
	Limit      int                   `json:"limit"`
}

// ReviewService implements the business logic for review operations.
// Review writes recompute the owning product's aggregate rating.
type ReviewService struct {
	reviews  repository.ReviewRepository
	products repository.ProductRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(reviews repository.ReviewRepository, products repository.ProductRepository, producer *event.Producer, logger *slog.Logger) *ReviewService {
	return &ReviewService{
		reviews:  reviews,
		products: products,
		producer: producer,
		logger:   logger,
	}
}

// AddReview records a review for a product and refreshes the product's
// stored rating from the full review set. A second review by the same
// user replaces their earlier one.
func (s *ReviewService) AddReview(ctx context.Context, input *AddReviewInput) (*domain.Review, error) {
	if input.ProductID == "" {
		return nil, apperrors.InvalidInput("product_id is required")
	}
	if input.UserID == "" {
		return nil, apperrors.InvalidInput("user_id is required")
	}
	if !domain.IsValidRating(input.Rating) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("rating must be between %g and %g", domain.MinRating, domain.MaxRating))
	}

	if _, err := s.products.GetByID(ctx, input.ProductID); err != nil {
		return nil, fmt.Errorf("get product for review: %w", err)
	}

	now := time.Now().UTC()
	review := &domain.Review{
		ID:        uuid.New().String(),
		ProductID: input.ProductID,
		UserID:    input.UserID,
		Rating:    input.Rating,
		Comment:   input.Comment,
		CreatedAt: now,
		UpdatedAt: now,
	}

	stored, err := s.reviews.Upsert(ctx, review)
	if err != nil {
		return nil, fmt.Errorf("save review: %w", err)
	}

	rating, err := s.reviews.AverageRating(ctx, input.ProductID)
	if err != nil {
		return nil, fmt.Errorf("recompute product rating: %w", err)
	}

	if err := s.products.UpdateRating(ctx, input.ProductID, rating); err != nil {
		return nil, fmt.Errorf("store product rating: %w", err)
	}

	if err := s.producer.PublishReviewCreated(ctx, stored, rating); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish review.created event",
			slog.String("review_id", stored.ID),
			slog.String("product_id", stored.ProductID),
			slog.String("error", err.Error()),
		)
		// Do not fail the operation if event publishing fails.
	}

	s.logger.InfoContext(ctx, "review saved",
		slog.String("review_id", stored.ID),
		slog.String("product_id", stored.ProductID),
		slog.String("user_id", stored.UserID),
		slog.Float64("rating", stored.Rating),
		slog.Float64("product_rating", rating),
	)

	return stored, nil
}

// ListReviews returns paginated reviews for a product along with the
// aggregate summary.
func (s *ReviewService) ListReviews(ctx context.Context, productID string, offset, limit int) (*ReviewListResult, error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, fmt.Errorf("get product for reviews: %w", err)
	}

	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	reviews, total, err := s.reviews.ListByProductID(ctx, productID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	summary, err := s.reviews.Summary(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("get review summary: %w", err)
	}

	return &ReviewListResult{
		Reviews:    reviews,
		Summary:    summary,
		TotalCount: total,
		Offset:     offset,
		Limit:      limit,
	}, nil
}
