package service

import (
	"context"
	"testing"
	"time"

	"shop-service/internal/auth"
	"shop-service/internal/models"
	"shop-service/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type mockUserStore struct {
	users   map[int64]*models.User
	revoked map[string]bool
	nextID  int64
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{
		users:   make(map[int64]*models.User),
		revoked: make(map[string]bool),
		nextID:  1,
	}
}

func (m *mockUserStore) CreateUser(ctx context.Context, user *models.User) error {
	for _, u := range m.users {
		if u.Email == user.Email {
			return store.ErrConflict
		}
	}
	user.ID = m.nextID
	m.nextID++
	m.users[user.ID] = user
	return nil
}

func (m *mockUserStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *mockUserStore) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return u, nil
}

func (m *mockUserStore) UpdateUserProfile(ctx context.Context, id int64, u store.UserProfileUpdate) error {
	user, ok := m.users[id]
	if !ok {
		return store.ErrNotFound
	}
	if u.Name != nil {
		user.Name = *u.Name
	}
	if u.Phone != nil {
		user.Phone = *u.Phone
	}
	if u.Address != nil {
		user.Address = *u.Address
	}
	return nil
}

func (m *mockUserStore) UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error {
	user, ok := m.users[id]
	if !ok {
		return store.ErrNotFound
	}
	user.PasswordHash = passwordHash
	return nil
}

func (m *mockUserStore) RevokeToken(ctx context.Context, token string) error {
	m.revoked[token] = true
	return nil
}

func newTestUserService(st UserStore) *UserService {
	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	return NewUserService(st, tokens, bcrypt.MinCost)
}

func TestRegisterAndLogin(t *testing.T) {
	st := newMockUserStore()
	svc := newTestUserService(st)

	user, err := svc.Register(context.Background(), &RegisterRequest{
		Email:    "alex@example.com",
		Password: "passw0rd99",
		Name:     "Alex",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, user.Role)
	assert.NotEqual(t, "passw0rd99", user.PasswordHash)

	token, logged, err := svc.Login(context.Background(), &LoginRequest{
		Email:    "alex@example.com",
		Password: "passw0rd99",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, logged.ID)
}

func TestRegisterWeakPassword(t *testing.T) {
	svc := newTestUserService(newMockUserStore())

	for _, pw := range []string{"short1", "lettersonly", "12345678"} {
		_, err := svc.Register(context.Background(), &RegisterRequest{
			Email: "a@b.com", Password: pw, Name: "A",
		})
		assert.ErrorIs(t, err, ErrInvalidInput, "password %q", pw)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestUserService(newMockUserStore())

	_, err := svc.Register(context.Background(), &RegisterRequest{
		Email: "a@b.com", Password: "passw0rd99", Name: "A",
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), &RegisterRequest{
		Email: "a@b.com", Password: "passw0rd99", Name: "B",
	})
	assert.ErrorIs(t, err, store.ErrConflict)
}

func TestLoginBadCredentials(t *testing.T) {
	st := newMockUserStore()
	svc := newTestUserService(st)

	_, err := svc.Register(context.Background(), &RegisterRequest{
		Email: "a@b.com", Password: "passw0rd99", Name: "A",
	})
	require.NoError(t, err)

	// wrong password and unknown email must look identical to the caller
	_, _, err = svc.Login(context.Background(), &LoginRequest{Email: "a@b.com", Password: "wrong1234"})
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, _, err = svc.Login(context.Background(), &LoginRequest{Email: "nobody@b.com", Password: "passw0rd99"})
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestLogoutRevokesToken(t *testing.T) {
	st := newMockUserStore()
	svc := newTestUserService(st)

	require.NoError(t, svc.Logout(context.Background(), "some.jwt.token"))
	assert.True(t, st.revoked["some.jwt.token"])
}

func TestUpdateProfilePartial(t *testing.T) {
	st := newMockUserStore()
	svc := newTestUserService(st)

	user, err := svc.Register(context.Background(), &RegisterRequest{
		Email: "a@b.com", Password: "passw0rd99", Name: "A", Phone: "123",
	})
	require.NoError(t, err)

	phone := "555-0100"
	updated, err := svc.UpdateProfile(context.Background(), user.ID, &UpdateProfileRequest{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "555-0100", updated.Phone)
	assert.Equal(t, "A", updated.Name)
}

func TestChangePassword(t *testing.T) {
	st := newMockUserStore()
	svc := newTestUserService(st)

	user, err := svc.Register(context.Background(), &RegisterRequest{
		Email: "a@b.com", Password: "passw0rd99", Name: "A",
	})
	require.NoError(t, err)

	err = svc.ChangePassword(context.Background(), user.ID, &ChangePasswordRequest{
		OldPassword: "wrong", NewPassword: "newpass99",
	})
	assert.ErrorIs(t, err, ErrUnauthenticated)

	err = svc.ChangePassword(context.Background(), user.ID, &ChangePasswordRequest{
		OldPassword: "passw0rd99", NewPassword: "weak",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	err = svc.ChangePassword(context.Background(), user.ID, &ChangePasswordRequest{
		OldPassword: "passw0rd99", NewPassword: "newpass99",
	})
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), &LoginRequest{Email: "a@b.com", Password: "newpass99"})
	assert.NoError(t, err)
}
