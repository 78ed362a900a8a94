package service

import (
	"context"
	"testing"
	"time"

	"shop-service/internal/models"
	"shop-service/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockCateringStore struct {
	requests map[int64]*models.CateringRequest
	nextID   int64
}

func newMockCateringStore() *mockCateringStore {
	return &mockCateringStore{requests: make(map[int64]*models.CateringRequest), nextID: 1}
}

func (m *mockCateringStore) CreateCateringRequest(ctx context.Context, req *models.CateringRequest) error {
	req.ID = m.nextID
	m.nextID++
	m.requests[req.ID] = req
	return nil
}

func (m *mockCateringStore) ListCateringRequestsByUser(ctx context.Context, userID int64) ([]models.CateringRequest, error) {
	var out []models.CateringRequest
	for _, r := range m.requests {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *mockCateringStore) ListCateringRequests(ctx context.Context) ([]models.CateringRequest, error) {
	var out []models.CateringRequest
	for _, r := range m.requests {
		out = append(out, *r)
	}
	return out, nil
}

func (m *mockCateringStore) UpdateCateringStatus(ctx context.Context, id int64, status string) error {
	r, ok := m.requests[id]
	if !ok {
		return store.ErrNotFound
	}
	r.Status = status
	return nil
}

func TestCateringCreateStartsPending(t *testing.T) {
	st := newMockCateringStore()
	svc := NewCateringService(st)

	req, err := svc.Create(context.Background(), 7, &CreateCateringRequest{
		EventDate: time.Now().Add(72 * time.Hour),
		Headcount: 40,
		Phone:     "555-0100",
		Notes:     "office lunch",
	})
	require.NoError(t, err)
	assert.Equal(t, models.CateringStatusPending, req.Status)
	assert.Equal(t, int64(7), req.UserID)
}

func TestCateringHeadcountValidation(t *testing.T) {
	svc := NewCateringService(newMockCateringStore())

	_, err := svc.Create(context.Background(), 7, &CreateCateringRequest{
		EventDate: time.Now(),
		Headcount: 0,
		Phone:     "555-0100",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCateringStatusUpdate(t *testing.T) {
	st := newMockCateringStore()
	svc := NewCateringService(st)

	req, err := svc.Create(context.Background(), 7, &CreateCateringRequest{
		EventDate: time.Now(),
		Headcount: 10,
		Phone:     "555-0100",
	})
	require.NoError(t, err)

	err = svc.UpdateStatus(context.Background(), req.ID, &UpdateCateringRequest{Status: models.CateringStatusApproved})
	require.NoError(t, err)
	assert.Equal(t, models.CateringStatusApproved, st.requests[req.ID].Status)

	err = svc.UpdateStatus(context.Background(), req.ID, &UpdateCateringRequest{Status: "Maybe"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCateringListMine(t *testing.T) {
	st := newMockCateringStore()
	svc := NewCateringService(st)

	_, err := svc.Create(context.Background(), 7, &CreateCateringRequest{EventDate: time.Now(), Headcount: 5, Phone: "x"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), 8, &CreateCateringRequest{EventDate: time.Now(), Headcount: 5, Phone: "x"})
	require.NoError(t, err)

	mine, err := svc.ListMine(context.Background(), 7)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	all, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
