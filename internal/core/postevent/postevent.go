package postevent

import (
	"time"

	"github.com/gofrs/uuid"
)

type Type string

const (
	TypeCreated Type = "post.created"
	TypeLiked   Type = "post.liked"
	TypeUnliked Type = "post.unliked"
	TypeDeleted Type = "post.deleted"
)

const (
	StatusPending = "pending"
	StatusDone    = "done"
	StatusFailed  = "failed"
)

// PostEvent outbox row; the relay worker publishes pending rows and marks them done.
type PostEvent struct {
	ID          uuid.UUID  `gorm:"primary_key;type:char(36)"`
	PostID      uuid.UUID  `gorm:"type:char(36);not null;index"`
	ActorID     uuid.UUID  `gorm:"type:char(36);not null"`
	Type        Type       `gorm:"type:varchar(32);not null"`
	Status      string     `gorm:"type:varchar(20);not null;index"` // pending, done, failed
	CreatedAt   time.Time  `gorm:"autoCreateTime;index"`
	ProcessedAt *time.Time `gorm:"index"`
}

func New(t Type, postID, actorID uuid.UUID) *PostEvent {
	return &PostEvent{
		ID:      uuid.Must(uuid.NewV4()),
		PostID:  postID,
		ActorID: actorID,
		Type:    t,
		Status:  StatusPending,
	}
}
