package postevent

import (
	"context"
	"errors"
	"time"
	"timelium/internal/core/postevent"

	"github.com/gofrs/uuid"
)

type OutboxRepository interface {
	Create(ctx context.Context, evt *postevent.PostEvent) (*postevent.PostEvent, error)
	GetPending(ctx context.Context, limit int) ([]*postevent.PostEvent, error)
	MarkDone(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID) error
}

// ErrUnencodable the event can never be published; retrying will not help.
var ErrUnencodable = errors.New("event payload cannot be encoded")

// Publisher ships one event to the message broker. Encoding failures wrap
// ErrUnencodable; any other error is treated as transient.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
	Close() error
}

// Message wire form of an outbox row
type Message struct {
	EventID    string         `json:"event_id"`
	Type       postevent.Type `json:"type"`
	PostID     string         `json:"post_id"`
	ActorID    string         `json:"actor_id"`
	OccurredAt time.Time      `json:"occurred_at"`
}

func ToMessage(evt *postevent.PostEvent) Message {
	return Message{
		EventID:    evt.ID.String(),
		Type:       evt.Type,
		PostID:     evt.PostID.String(),
		ActorID:    evt.ActorID.String(),
		OccurredAt: evt.CreatedAt,
	}
}
