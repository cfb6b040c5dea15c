package notification

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Kind represents the notification event kind.
type Kind string

const (
	KindSwapRequest      Kind = "SWAP_REQUEST"
	KindSwapAccepted     Kind = "SWAP_ACCEPTED"
	KindSwapCounterOffer Kind = "SWAP_COUNTER_OFFER"
	KindSwapCancelled    Kind = "SWAP_CANCELLED"
	KindSwapCompleted    Kind = "SWAP_COMPLETED"
	KindBookMatch        Kind = "BOOK_MATCH"
)

// DedupeWindow is the rolling window inside which a repeat
// (recipient, entity, kind) send is dropped.
const DedupeWindow = 4 * 24 * time.Hour

var (
	ErrClientNotFound = errors.New("push client not found")
	ErrChannelFull    = errors.New("push message channel full")
)

// Event is emitted after a committed transition. EntityID is the swap for
// swap kinds and the matched book for BOOK_MATCH.
type Event struct {
	Kind        Kind
	EntityID    uuid.UUID
	ActorID     uuid.UUID
	RecipientID uuid.UUID
}

// Dispatcher delivers events to recipients. Dispatch is fire-and-forget:
// delivery failures are handled internally and never surface to the
// transition that emitted the event.
type Dispatcher interface {
	Dispatch(ctx context.Context, event Event)
}

// Notification is a persisted delivery record addressed to one recipient.
type Notification struct {
	ID             int64           `json:"id"`
	NotificationID uuid.UUID       `json:"notificationId"`
	RecipientID    uuid.UUID       `json:"recipientId"`
	Kind           Kind            `json:"kind"`
	EntityID       uuid.UUID       `json:"entityId"`
	Payload        json.RawMessage `json:"payload"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// DedupeKey identifies a send for storm suppression.
func (n *Notification) DedupeKey() string {
	return n.RecipientID.String() + ":" + n.EntityID.String() + ":" + string(n.Kind)
}

// PushClient represents an active notification stream connection.
type PushClient struct {
	ClientID    string
	UserID      uuid.UUID
	ConnectedAt time.Time
	MessageChan chan *PushMessage
}

// NewPushClient creates a new push client.
func NewPushClient(clientID string, userID uuid.UUID) *PushClient {
	return &PushClient{
		ClientID:    clientID,
		UserID:      userID,
		ConnectedAt: time.Now().UTC(),
		MessageChan: make(chan *PushMessage, 100),
	}
}

// Close closes the client's message channel.
func (c *PushClient) Close() {
	close(c.MessageChan)
}

// PushMessage is a message sent over the notification stream.
type PushMessage struct {
	ID        string          `json:"id"`
	Event     string          `json:"event"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewPushMessage creates a new push message.
func NewPushMessage(event string, data json.RawMessage) *PushMessage {
	return &PushMessage{
		ID:        uuid.New().String(),
		Event:     event,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
}
