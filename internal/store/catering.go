package store

import (
	"context"
	"fmt"

	"shop-service/internal/models"
)

// CreateCateringRequest inserts a catering inquiry
func (s *Store) CreateCateringRequest(ctx context.Context, req *models.CateringRequest) error {
	query := `
		INSERT INTO catering_requests (user_id, event_date, headcount, phone, notes, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	return s.db.GetContext(ctx, req, query,
		req.UserID, req.EventDate, req.Headcount, req.Phone, req.Notes, req.Status)
}

// ListCateringRequestsByUser retrieves a user's catering requests, newest first
func (s *Store) ListCateringRequestsByUser(ctx context.Context, userID int64) ([]models.CateringRequest, error) {
	reqs := []models.CateringRequest{}
	err := s.db.SelectContext(ctx, &reqs,
		"SELECT * FROM catering_requests WHERE user_id = $1 ORDER BY created_at DESC", userID)
	return reqs, err
}

// ListCateringRequests retrieves all catering requests, newest first
func (s *Store) ListCateringRequests(ctx context.Context) ([]models.CateringRequest, error) {
	reqs := []models.CateringRequest{}
	err := s.db.SelectContext(ctx, &reqs,
		"SELECT * FROM catering_requests ORDER BY created_at DESC")
	return reqs, err
}

// UpdateCateringStatus sets the status of a catering request
func (s *Store) UpdateCateringStatus(ctx context.Context, id int64, status string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE catering_requests SET status = $1 WHERE id = $2", status, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("catering request %d: %w", id, ErrNotFound)
	}
	return nil
}
