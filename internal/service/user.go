package service

import (
	"context"
	"errors"
	"fmt"

	"shop-service/internal/auth"
	"shop-service/internal/models"
	"shop-service/internal/store"
	"shop-service/internal/util"

	"go.uber.org/zap"
)

// UserStore is the storage surface the user service needs
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	UpdateUserProfile(ctx context.Context, id int64, u store.UserProfileUpdate) error
	UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error
	RevokeToken(ctx context.Context, token string) error
}

// UserService handles registration, login/logout and profile maintenance
type UserService struct {
	store      UserStore
	tokens     *auth.TokenIssuer
	bcryptCost int
	logger     *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(store UserStore, tokens *auth.TokenIssuer, bcryptCost int) *UserService {
	return &UserService{
		store:      store,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		logger:     util.GetLogger(),
	}
}

// RegisterRequest creates an account
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
}

// LoginRequest exchanges credentials for a bearer token
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest carries optional profile fields; omitted fields are
// preserved
type UpdateProfileRequest struct {
	Name    *string `json:"name,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}

// ChangePasswordRequest replaces the caller's password
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// Register creates a customer account. A duplicate email returns
// store.ErrConflict; a weak password returns ErrInvalidInput.
func (s *UserService) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	if err := auth.CheckPasswordStrength(req.Password); err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrInvalidInput)
	}

	hash, err := auth.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		Phone:        req.Phone,
		Address:      req.Address,
		Role:         models.RoleCustomer,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User registered", zap.Int64("user_id", user.ID))
	return user, nil
}

// Login verifies credentials and mints a bearer token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, req *LoginRequest) (string, *models.User, error) {
	user, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			util.LoginsTotal.WithLabelValues("failure").Inc()
			return "", nil, ErrUnauthenticated
		}
		return "", nil, err
	}

	if !auth.VerifyPassword(req.Password, user.PasswordHash) {
		util.LoginsTotal.WithLabelValues("failure").Inc()
		return "", nil, ErrUnauthenticated
	}

	token, err := s.tokens.Generate(user.ID, user.Email, user.Role)
	if err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}

	util.LoginsTotal.WithLabelValues("success").Inc()
	s.logger.Info("User logged in", zap.Int64("user_id", user.ID))
	return token, user, nil
}

// Logout revokes the presented token
func (s *UserService) Logout(ctx context.Context, token string) error {
	if err := s.store.RevokeToken(ctx, token); err != nil {
		return err
	}
	util.TokenRevocationsTotal.Inc()
	return nil
}

// GetProfile returns the caller's account
func (s *UserService) GetProfile(ctx context.Context, userID int64) (*models.User, error) {
	return s.store.GetUserByID(ctx, userID)
}

// UpdateProfile applies the supplied profile fields
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, req *UpdateProfileRequest) (*models.User, error) {
	err := s.store.UpdateUserProfile(ctx, userID, store.UserProfileUpdate{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		return nil, err
	}
	return s.store.GetUserByID(ctx, userID)
}

// ChangePassword replaces the caller's password after verifying the old one
func (s *UserService) ChangePassword(ctx context.Context, userID int64, req *ChangePasswordRequest) error {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if !auth.VerifyPassword(req.OldPassword, user.PasswordHash) {
		return fmt.Errorf("old password does not match: %w", ErrUnauthenticated)
	}
	if err := auth.CheckPasswordStrength(req.NewPassword); err != nil {
		return fmt.Errorf("%v: %w", err, ErrInvalidInput)
	}

	hash, err := auth.HashPassword(req.NewPassword, s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.store.UpdateUserPassword(ctx, userID, hash)
}
