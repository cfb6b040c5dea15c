package alert

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bookswap/bookswap/internal/domain/alert"
	"github.com/bookswap/bookswap/internal/domain/book"
	"github.com/bookswap/bookswap/internal/domain/notification"
)

// MockRepository is a mock implementation of alert.Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, a *alert.Alert) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, alertID uuid.UUID) (*alert.Alert, error) {
	args := m.Called(ctx, alertID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*alert.Alert), args.Error(1)
}

func (m *MockRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*alert.Alert, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*alert.Alert), args.Error(1)
}

func (m *MockRepository) ListEnabled(ctx context.Context) ([]*alert.Alert, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*alert.Alert), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, alertID uuid.UUID) error {
	args := m.Called(ctx, alertID)
	return args.Error(0)
}

// MockDispatcher is a mock implementation of notification.Dispatcher
type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Dispatch(ctx context.Context, event notification.Event) {
	m.Called(ctx, event)
}

func enabledAlert(userID uuid.UUID, expression string) *alert.Alert {
	return &alert.Alert{
		AlertID:    uuid.New(),
		UserID:     userID,
		Name:       "sci-fi watch",
		Expression: expression,
		Enabled:    true,
	}
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.Nop()

	t.Run("accepts a parseable expression", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, new(MockDispatcher), logger)

		mockRepo.On("Create", ctx, mock.AnythingOfType("*alert.Alert")).Return(nil)

		created, err := svc.Create(ctx, uuid.New(), "sci-fi watch", `genre == "sci-fi" && available == true`)

		require.NoError(t, err)
		assert.True(t, created.Enabled)
		mockRepo.AssertExpectations(t)
	})

	t.Run("rejects a malformed expression", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, new(MockDispatcher), logger)

		_, err := svc.Create(ctx, uuid.New(), "broken", `genre == &&`)

		assert.ErrorIs(t, err, alert.ErrValidation)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.Nop()

	t.Run("only the owner may delete", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, new(MockDispatcher), logger)
		a := enabledAlert(uuid.New(), `genre == "sci-fi"`)

		mockRepo.On("GetByID", ctx, a.AlertID).Return(a, nil)

		err := svc.Delete(ctx, a.AlertID, uuid.New())
		assert.ErrorIs(t, err, alert.ErrNotFound)
		mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestService_EvaluateBook(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.Nop()
	genre := "sci-fi"
	listed := &book.Book{
		BookID:    uuid.New(),
		OwnerID:   uuid.New(),
		Title:     "Solaris",
		Author:    "Stanislaw Lem",
		Genre:     &genre,
		Condition: book.ConditionGood,
		Available: true,
	}

	t.Run("notifies watchers whose expression matches", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockDispatcher := new(MockDispatcher)
		svc := NewService(mockRepo, mockDispatcher, logger)
		watcher := enabledAlert(uuid.New(), `genre == "sci-fi" && available == true`)

		mockRepo.On("ListEnabled", ctx).Return([]*alert.Alert{watcher}, nil)
		mockDispatcher.On("Dispatch", ctx, mock.MatchedBy(func(e notification.Event) bool {
			return e.Kind == notification.KindBookMatch &&
				e.EntityID == listed.BookID &&
				e.RecipientID == watcher.UserID
		})).Return()

		svc.EvaluateBook(ctx, listed)

		mockDispatcher.AssertExpectations(t)
	})

	t.Run("skips non-matching expressions", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockDispatcher := new(MockDispatcher)
		svc := NewService(mockRepo, mockDispatcher, logger)
		watcher := enabledAlert(uuid.New(), `genre == "poetry"`)

		mockRepo.On("ListEnabled", ctx).Return([]*alert.Alert{watcher}, nil)

		svc.EvaluateBook(ctx, listed)

		mockDispatcher.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
	})

	t.Run("never notifies the book's own lister", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockDispatcher := new(MockDispatcher)
		svc := NewService(mockRepo, mockDispatcher, logger)
		own := enabledAlert(listed.OwnerID, `available == true`)

		mockRepo.On("ListEnabled", ctx).Return([]*alert.Alert{own}, nil)

		svc.EvaluateBook(ctx, listed)

		mockDispatcher.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
	})

	t.Run("a stored expression that fails to evaluate is skipped", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockDispatcher := new(MockDispatcher)
		svc := NewService(mockRepo, mockDispatcher, logger)
		// references a parameter that does not exist
		broken := enabledAlert(uuid.New(), `price < 10`)
		good := enabledAlert(uuid.New(), `condition == "GOOD"`)

		mockRepo.On("ListEnabled", ctx).Return([]*alert.Alert{broken, good}, nil)
		mockDispatcher.On("Dispatch", ctx, mock.MatchedBy(func(e notification.Event) bool {
			return e.RecipientID == good.UserID
		})).Return()

		svc.EvaluateBook(ctx, listed)

		mockDispatcher.AssertExpectations(t)
		mockDispatcher.AssertNumberOfCalls(t, "Dispatch", 1)
	})
}
