package notification

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/bookswap/bookswap/internal/domain/notification"
)

// MockRepository is a mock implementation of notification.Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, n *notification.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockRepository) ListByRecipient(ctx context.Context, recipientID uuid.UUID, limit, offset int) ([]*notification.Notification, error) {
	args := m.Called(ctx, recipientID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*notification.Notification), args.Error(1)
}

func (m *MockRepository) SentSince(ctx context.Context, recipientID, entityID uuid.UUID, kind notification.Kind, since time.Time) (bool, error) {
	args := m.Called(ctx, recipientID, entityID, kind, since)
	return args.Bool(0), args.Error(1)
}

// MockHub is a mock implementation of PushHub
type MockHub struct {
	mock.Mock
}

func (m *MockHub) BroadcastToUser(userID uuid.UUID, message *notification.PushMessage) {
	m.Called(userID, message)
}

func TestService_Dispatch(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.Nop()
	event := notification.Event{
		Kind:        notification.KindSwapAccepted,
		EntityID:    uuid.New(),
		ActorID:     uuid.New(),
		RecipientID: uuid.New(),
	}

	t.Run("persists and pushes a fresh event", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockHub := new(MockHub)
		svc := NewService(mockRepo, mockHub, logger)

		mockRepo.On("SentSince", ctx, event.RecipientID, event.EntityID, event.Kind, mock.AnythingOfType("time.Time")).Return(false, nil)
		mockRepo.On("Create", ctx, mock.AnythingOfType("*notification.Notification")).Return(nil)
		mockHub.On("BroadcastToUser", event.RecipientID, mock.AnythingOfType("*notification.PushMessage")).Return()

		svc.Dispatch(ctx, event)

		mockRepo.AssertExpectations(t)
		mockHub.AssertExpectations(t)
	})

	t.Run("drops a repeat inside the dedupe window", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockHub := new(MockHub)
		svc := NewService(mockRepo, mockHub, logger)

		mockRepo.On("SentSince", ctx, event.RecipientID, event.EntityID, event.Kind, mock.AnythingOfType("time.Time")).Return(true, nil)

		svc.Dispatch(ctx, event)

		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		mockHub.AssertNotCalled(t, "BroadcastToUser", mock.Anything, mock.Anything)
	})

	t.Run("window lower bound tracks the dedupe window", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockHub := new(MockHub)
		svc := NewService(mockRepo, mockHub, logger)
		fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		svc.now = func() time.Time { return fixed }

		mockRepo.On("SentSince", ctx, event.RecipientID, event.EntityID, event.Kind, fixed.Add(-notification.DedupeWindow)).Return(true, nil)

		svc.Dispatch(ctx, event)

		mockRepo.AssertExpectations(t)
	})

	t.Run("a failed dedupe lookup drops the event rather than storming", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockHub := new(MockHub)
		svc := NewService(mockRepo, mockHub, logger)

		mockRepo.On("SentSince", ctx, event.RecipientID, event.EntityID, event.Kind, mock.AnythingOfType("time.Time")).Return(false, assert.AnError)

		svc.Dispatch(ctx, event)

		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("a failed persist skips the push", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockHub := new(MockHub)
		svc := NewService(mockRepo, mockHub, logger)

		mockRepo.On("SentSince", ctx, event.RecipientID, event.EntityID, event.Kind, mock.AnythingOfType("time.Time")).Return(false, nil)
		mockRepo.On("Create", ctx, mock.AnythingOfType("*notification.Notification")).Return(assert.AnError)

		svc.Dispatch(ctx, event)

		mockHub.AssertNotCalled(t, "BroadcastToUser", mock.Anything, mock.Anything)
	})
}
