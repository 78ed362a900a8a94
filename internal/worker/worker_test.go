package worker

import (
	"context"
	"errors"
	"testing"

	"shop-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockEventStore struct {
	processed map[string]string
}

func newMockEventStore() *mockEventStore {
	return &mockEventStore{processed: make(map[string]string)}
}

func (m *mockEventStore) IsEventProcessed(ctx context.Context, eventID string) (bool, error) {
	_, ok := m.processed[eventID]
	return ok, nil
}

func (m *mockEventStore) MarkEventProcessed(ctx context.Context, eventID, eventType string) error {
	m.processed[eventID] = eventType
	return nil
}

type mockMailer struct {
	sent []string
	err  error
}

func (m *mockMailer) SendOrderConfirmation(to string, event *models.OrderPlacedEvent) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, to)
	return nil
}

func placedEvent(id string) *models.OrderPlacedEvent {
	return &models.OrderPlacedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   id,
			EventType: models.EventTypeOrderPlaced,
		},
		OrderID:   1,
		UserID:    7,
		UserEmail: "buyer@example.com",
	}
}

func TestHandleOrderPlacedSendsOnce(t *testing.T) {
	st := newMockEventStore()
	mailer := &mockMailer{}
	w := NewNotificationWorker(nil, st, mailer)

	event := placedEvent("evt-1")
	require.NoError(t, w.HandleOrderPlaced(context.Background(), event))
	assert.Equal(t, []string{"buyer@example.com"}, mailer.sent)

	// redelivery of the same event is a no-op
	require.NoError(t, w.HandleOrderPlaced(context.Background(), event))
	assert.Len(t, mailer.sent, 1)
}

func TestHandleOrderPlacedSendFailureNotMarked(t *testing.T) {
	st := newMockEventStore()
	mailer := &mockMailer{err: errors.New("smtp down")}
	w := NewNotificationWorker(nil, st, mailer)

	err := w.HandleOrderPlaced(context.Background(), placedEvent("evt-2"))
	assert.Error(t, err)

	// the event stays unprocessed so a redelivery can retry
	processed, _ := st.IsEventProcessed(context.Background(), "evt-2")
	assert.False(t, processed)
}

func TestHandleOrderPlacedMissingEmail(t *testing.T) {
	st := newMockEventStore()
	mailer := &mockMailer{}
	w := NewNotificationWorker(nil, st, mailer)

	event := placedEvent("evt-3")
	event.UserEmail = ""
	require.NoError(t, w.HandleOrderPlaced(context.Background(), event))

	assert.Empty(t, mailer.sent)
	processed, _ := st.IsEventProcessed(context.Background(), "evt-3")
	assert.True(t, processed)
}
