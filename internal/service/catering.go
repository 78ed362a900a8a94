package service

import (
	"context"
	"fmt"
	"time"

	"shop-service/internal/models"
	"shop-service/internal/util"

	"go.uber.org/zap"
)

// CateringStore is the storage surface the catering service needs
type CateringStore interface {
	CreateCateringRequest(ctx context.Context, req *models.CateringRequest) error
	ListCateringRequestsByUser(ctx context.Context, userID int64) ([]models.CateringRequest, error)
	ListCateringRequests(ctx context.Context) ([]models.CateringRequest, error)
	UpdateCateringStatus(ctx context.Context, id int64, status string) error
}

// CateringService handles catered-event inquiries
type CateringService struct {
	store  CateringStore
	logger *zap.Logger
}

// NewCateringService creates a new catering service
func NewCateringService(store CateringStore) *CateringService {
	return &CateringService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// CreateCateringRequest submits a catered-event inquiry
type CreateCateringRequest struct {
	EventDate time.Time `json:"event_date" binding:"required"`
	Headcount int       `json:"headcount" binding:"required"`
	Phone     string    `json:"phone" binding:"required"`
	Notes     string    `json:"notes,omitempty"`
}

// UpdateCateringRequest sets the status of an inquiry
type UpdateCateringRequest struct {
	Status string `json:"status" binding:"required"`
}

// Create submits a catering inquiry in Pending status
func (s *CateringService) Create(ctx context.Context, userID int64, req *CreateCateringRequest) (*models.CateringRequest, error) {
	if req.Headcount < 1 {
		return nil, fmt.Errorf("headcount must be at least 1: %w", ErrInvalidInput)
	}

	catering := &models.CateringRequest{
		UserID:    userID,
		EventDate: req.EventDate,
		Headcount: req.Headcount,
		Phone:     req.Phone,
		Notes:     req.Notes,
		Status:    models.CateringStatusPending,
	}
	if err := s.store.CreateCateringRequest(ctx, catering); err != nil {
		return nil, err
	}

	s.logger.Info("Catering request submitted",
		zap.Int64("request_id", catering.ID), zap.Int64("user_id", userID))
	return catering, nil
}

// ListMine returns the caller's catering requests, newest first
func (s *CateringService) ListMine(ctx context.Context, userID int64) ([]models.CateringRequest, error) {
	return s.store.ListCateringRequestsByUser(ctx, userID)
}

// ListAll returns all catering requests, newest first
func (s *CateringService) ListAll(ctx context.Context) ([]models.CateringRequest, error) {
	return s.store.ListCateringRequests(ctx)
}

// UpdateStatus sets the status of a catering request
func (s *CateringService) UpdateStatus(ctx context.Context, id int64, req *UpdateCateringRequest) error {
	if !models.ValidCateringStatus(req.Status) {
		return fmt.Errorf("unknown catering status %q: %w", req.Status, ErrInvalidInput)
	}
	return s.store.UpdateCateringStatus(ctx, id, req.Status)
}
