package database

import (
	"context"
	"time"
	"timelium/internal/core/postevent"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// OutboxRepositoryDatabase post_events outbox backed by gorm
type OutboxRepositoryDatabase struct {
	db *gorm.DB
}

func NewOutboxRepositoryDatabase(db *gorm.DB) *OutboxRepositoryDatabase {
	return &OutboxRepositoryDatabase{db: db}
}

func (repo *OutboxRepositoryDatabase) Create(ctx context.Context, evt *postevent.PostEvent) (*postevent.PostEvent, error) {
	if err := repo.db.WithContext(ctx).Create(evt).Error; err != nil {
		return nil, err
	}
	return evt, nil
}

// GetPending oldest pending events first
func (repo *OutboxRepositoryDatabase) GetPending(ctx context.Context, limit int) ([]*postevent.PostEvent, error) {
	events := []*postevent.PostEvent{}
	if err := repo.db.WithContext(ctx).
		Where("status = ?", postevent.StatusPending).
		Order("created_at").Order("id").
		Limit(limit).
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (repo *OutboxRepositoryDatabase) MarkDone(ctx context.Context, id uuid.UUID) error {
	return repo.setStatus(ctx, id, postevent.StatusDone)
}

func (repo *OutboxRepositoryDatabase) MarkFailed(ctx context.Context, id uuid.UUID) error {
	return repo.setStatus(ctx, id, postevent.StatusFailed)
}

func (repo *OutboxRepositoryDatabase) setStatus(ctx context.Context, id uuid.UUID, status string) error {
	now := time.Now()
	return repo.db.WithContext(ctx).Model(&postevent.PostEvent{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "processed_at": &now}).Error
}

