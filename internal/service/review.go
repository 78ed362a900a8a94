package service

import (
	"context"
	"fmt"
	"math"

	"shop-service/internal/models"
	"shop-service/internal/util"

	"go.uber.org/zap"
)

// ReviewStore is the storage surface the review service needs
type ReviewStore interface {
	CreateReview(ctx context.Context, review *models.Review) error
	GetReviewByID(ctx context.Context, id int64) (*models.Review, error)
	ListReviewsByProduct(ctx context.Context, productID int64) ([]models.Review, error)
	UpdateReview(ctx context.Context, id int64, rating int, comment string) error
	DeleteReview(ctx context.Context, id int64) error
	ListRatings(ctx context.Context, productID int64) ([]int, error)
	UpdateProductRating(ctx context.Context, productID int64, rating float64) error
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)

	CreateReviewComment(ctx context.Context, comment *models.ReviewComment) error
	GetReviewCommentByID(ctx context.Context, id int64) (*models.ReviewComment, error)
	ListCommentsByReview(ctx context.Context, reviewID int64) ([]models.ReviewComment, error)
	UpdateReviewComment(ctx context.Context, id int64, text string) error
	DeleteReviewComment(ctx context.Context, id int64) error
}

// ReviewService handles reviews, review comments and the derived product
// star rating
type ReviewService struct {
	store  ReviewStore
	cache  ProductCache
	logger *zap.Logger
}

// NewReviewService creates a new review service. cache may be nil.
func NewReviewService(store ReviewStore, cache ProductCache) *ReviewService {
	return &ReviewService{
		store:  store,
		cache:  cache,
		logger: util.GetLogger(),
	}
}

// CreateReviewRequest rates a product, optionally with comment text
type CreateReviewRequest struct {
	ProductID int64  `json:"product_id" binding:"required"`
	Rating    int    `json:"rating" binding:"required"`
	Comment   string `json:"comment,omitempty"`
}

// UpdateReviewRequest replaces a review's rating and comment
type UpdateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment,omitempty"`
}

// ReviewCommentRequest carries free-text comment body
type ReviewCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

func checkRating(rating int) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("rating must be an integer between 1 and 5: %w", ErrInvalidInput)
	}
	return nil
}

// Create adds a review. A second review by the same user for the same
// product is rejected.
func (s *ReviewService) Create(ctx context.Context, userID int64, req *CreateReviewRequest) (*models.Review, error) {
	ctx, span := util.StartSpan(ctx, "ReviewService.Create")
	defer span.End()

	if err := checkRating(req.Rating); err != nil {
		return nil, err
	}
	if _, err := s.store.GetProductByID(ctx, req.ProductID); err != nil {
		return nil, err
	}

	review := &models.Review{
		UserID:    userID,
		ProductID: req.ProductID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := s.store.CreateReview(ctx, review); err != nil {
		return nil, err
	}

	util.ReviewsWrittenTotal.Inc()
	if err := s.recomputeRating(ctx, req.ProductID); err != nil {
		s.logger.Error("Failed to recompute product rating",
			zap.Int64("product_id", req.ProductID), zap.Error(err))
	}
	return review, nil
}

// ListByProduct returns a product's reviews, newest first
func (s *ReviewService) ListByProduct(ctx context.Context, productID int64) ([]models.Review, error) {
	return s.store.ListReviewsByProduct(ctx, productID)
}

// Update replaces a review's rating and comment. Only the owner or an
// admin may update.
func (s *ReviewService) Update(ctx context.Context, userID int64, role string, reviewID int64, req *UpdateReviewRequest) error {
	if err := checkRating(req.Rating); err != nil {
		return err
	}

	review, err := s.store.GetReviewByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if review.UserID != userID && role != models.RoleAdmin {
		return fmt.Errorf("review %d belongs to another user: %w", reviewID, ErrForbidden)
	}

	if err := s.store.UpdateReview(ctx, reviewID, req.Rating, req.Comment); err != nil {
		return err
	}
	return s.recomputeRating(ctx, review.ProductID)
}

// Delete removes a review. Only the owner or an admin may delete.
func (s *ReviewService) Delete(ctx context.Context, userID int64, role string, reviewID int64) error {
	review, err := s.store.GetReviewByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if review.UserID != userID && role != models.RoleAdmin {
		return fmt.Errorf("review %d belongs to another user: %w", reviewID, ErrForbidden)
	}

	if err := s.store.DeleteReview(ctx, reviewID); err != nil {
		return err
	}
	return s.recomputeRating(ctx, review.ProductID)
}

// recomputeRating writes back the average of a product's review ratings,
// rounded to one decimal, or zero when none remain. The cached product
// is dropped so catalog reads pick up the new rating.
func (s *ReviewService) recomputeRating(ctx context.Context, productID int64) error {
	ratings, err := s.store.ListRatings(ctx, productID)
	if err != nil {
		return err
	}

	var avg float64
	if len(ratings) > 0 {
		sum := 0
		for _, r := range ratings {
			sum += r
		}
		avg = math.Round(float64(sum)/float64(len(ratings))*10) / 10
	}
	if err := s.store.UpdateProductRating(ctx, productID, avg); err != nil {
		return err
	}

	if s.cache != nil {
		if err := s.cache.InvalidateProduct(ctx, productID); err != nil {
			s.logger.Debug("Failed to invalidate product cache", zap.Int64("product_id", productID), zap.Error(err))
		}
	}
	return nil
}

// CreateComment adds a comment to a review
func (s *ReviewService) CreateComment(ctx context.Context, userID, reviewID int64, req *ReviewCommentRequest) (*models.ReviewComment, error) {
	if _, err := s.store.GetReviewByID(ctx, reviewID); err != nil {
		return nil, err
	}

	comment := &models.ReviewComment{
		ReviewID: reviewID,
		UserID:   userID,
		Text:     req.Text,
	}
	if err := s.store.CreateReviewComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// ListComments returns a review's comments, oldest first
func (s *ReviewService) ListComments(ctx context.Context, reviewID int64) ([]models.ReviewComment, error) {
	return s.store.ListCommentsByReview(ctx, reviewID)
}

// UpdateComment edits a comment. Only the owner or an admin may edit.
func (s *ReviewService) UpdateComment(ctx context.Context, userID int64, role string, commentID int64, req *ReviewCommentRequest) error {
	comment, err := s.store.GetReviewCommentByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.UserID != userID && role != models.RoleAdmin {
		return fmt.Errorf("comment %d belongs to another user: %w", commentID, ErrForbidden)
	}
	return s.store.UpdateReviewComment(ctx, commentID, req.Text)
}

// DeleteComment removes a comment. Only the owner or an admin may delete.
func (s *ReviewService) DeleteComment(ctx context.Context, userID int64, role string, commentID int64) error {
	comment, err := s.store.GetReviewCommentByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.UserID != userID && role != models.RoleAdmin {
		return fmt.Errorf("comment %d belongs to another user: %w", commentID, ErrForbidden)
	}
	return s.store.DeleteReviewComment(ctx, commentID)
}
