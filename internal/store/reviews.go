package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shop-service/internal/models"
)

// CreateReview inserts a review. A second review by the same user for the
// same product returns ErrConflict.
func (s *Store) CreateReview(ctx context.Context, review *models.Review) error {
	query := `
		INSERT INTO reviews (user_id, product_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	err := s.db.GetContext(ctx, review, query,
		review.UserID, review.ProductID, review.Rating, review.Comment)
	if isUniqueViolation(err) {
		return fmt.Errorf("product %d already reviewed: %w", review.ProductID, ErrConflict)
	}
	return err
}

// GetReviewByID retrieves a review by ID
func (s *Store) GetReviewByID(ctx context.Context, id int64) (*models.Review, error) {
	var review models.Review
	err := s.db.GetContext(ctx, &review,
		"SELECT id, user_id, product_id, rating, comment, created_at, updated_at FROM reviews WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("review %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// ListReviewsByProduct retrieves a product's reviews with the reviewer's
// name, newest first
func (s *Store) ListReviewsByProduct(ctx context.Context, productID int64) ([]models.Review, error) {
	reviews := []models.Review{}
	err := s.db.SelectContext(ctx, &reviews, `
		SELECT r.id, r.user_id, r.product_id, r.rating, r.comment, r.created_at, r.updated_at,
		       u.name AS user_name
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		WHERE r.product_id = $1
		ORDER BY r.created_at DESC`, productID)
	return reviews, err
}

// UpdateReview sets a review's rating and comment
func (s *Store) UpdateReview(ctx context.Context, id int64, rating int, comment string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE reviews SET rating = $1, comment = $2, updated_at = NOW() WHERE id = $3",
		rating, comment, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("review %d: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteReview removes a review and its comments
func (s *Store) DeleteReview(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM reviews WHERE id = $1", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("review %d: %w", id, ErrNotFound)
	}
	return nil
}

// ListRatings returns the ratings of all reviews for a product
func (s *Store) ListRatings(ctx context.Context, productID int64) ([]int, error) {
	ratings := []int{}
	err := s.db.SelectContext(ctx, &ratings,
		"SELECT rating FROM reviews WHERE product_id = $1", productID)
	return ratings, err
}

// CreateReviewComment inserts a comment on a review
func (s *Store) CreateReviewComment(ctx context.Context, comment *models.ReviewComment) error {
	query := `
		INSERT INTO review_comments (review_id, user_id, text)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`

	return s.db.GetContext(ctx, comment, query,
		comment.ReviewID, comment.UserID, comment.Text)
}

// GetReviewCommentByID retrieves a review comment by ID
func (s *Store) GetReviewCommentByID(ctx context.Context, id int64) (*models.ReviewComment, error) {
	var comment models.ReviewComment
	err := s.db.GetContext(ctx, &comment, "SELECT * FROM review_comments WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("review comment %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListCommentsByReview retrieves a review's comments, oldest first
func (s *Store) ListCommentsByReview(ctx context.Context, reviewID int64) ([]models.ReviewComment, error) {
	comments := []models.ReviewComment{}
	err := s.db.SelectContext(ctx, &comments,
		"SELECT * FROM review_comments WHERE review_id = $1 ORDER BY created_at", reviewID)
	return comments, err
}

// UpdateReviewComment sets a comment's text
func (s *Store) UpdateReviewComment(ctx context.Context, id int64, text string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE review_comments SET text = $1, updated_at = NOW() WHERE id = $2", text, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("review comment %d: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteReviewComment removes a comment
func (s *Store) DeleteReviewComment(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM review_comments WHERE id = $1", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("review comment %d: %w", id, ErrNotFound)
	}
	return nil
}
