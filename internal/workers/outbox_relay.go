package workers

import (
	"context"
	"errors"
	"time"
	"timelium/internal/core/postevent"
	eventPort "timelium/internal/ports/postevent"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

// OutboxRelay polls pending post events and publishes them to the broker
type OutboxRelay struct {
	OutboxRepo   eventPort.OutboxRepository
	Publisher    eventPort.Publisher
	BatchSize    int // rows fetched per tick
	PollInterval time.Duration
	Logger       *zap.Logger
}

func NewOutboxRelay(
	outboxRepo eventPort.OutboxRepository,
	publisher eventPort.Publisher,
	batchSize int,
	pollInterval time.Duration,
	logger *zap.Logger,
) *OutboxRelay {
	if batchSize <= 0 {
		batchSize = 100
	}
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OutboxRelay{
		OutboxRepo:   outboxRepo,
		Publisher:    publisher,
		BatchSize:    batchSize,
		PollInterval: pollInterval,
		Logger:       logger,
	}
}

// Run relays until ctx is cancelled
func (w *OutboxRelay) Run(ctx context.Context) {
	w.Logger.Info("🚀 OutboxRelay started", zap.Int("batchSize", w.BatchSize), zap.Duration("interval", w.PollInterval))
	ticker := time.NewTicker(w.PollInterval)
	defer ticker.Stop()

	for {
		if _, err := w.RelayOnce(ctx); err != nil && ctx.Err() == nil {
			w.Logger.Error("❌ Error fetching pending events", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			w.Logger.Info("🛑 OutboxRelay stopped")
			return
		case <-ticker.C:
		}
	}
}

// RelayOnce publishes one batch of pending events and returns how many were published.
// A broker failure stops the batch so later events of the same post are not sent first;
// an event that cannot be encoded is marked failed and skipped.
func (w *OutboxRelay) RelayOnce(ctx context.Context) (int, error) {
	pending, err := w.OutboxRepo.GetPending(ctx, w.BatchSize)
	if err != nil {
		return 0, err
	}

	published := 0
	for _, evt := range pending {
		if evt == nil {
			continue
		}
		if !w.valid(evt) {
			if err := w.OutboxRepo.MarkFailed(ctx, evt.ID); err != nil {
				w.Logger.Warn("⚠️ Warning: could not mark event failed", zap.Error(err))
			}
			continue
		}

		err := w.Publisher.Publish(ctx, eventPort.ToMessage(evt))
		if errors.Is(err, eventPort.ErrUnencodable) {
			w.Logger.Error("❌ Dropping unencodable event", zap.String("eventID", evt.ID.String()), zap.Error(err))
			if err := w.OutboxRepo.MarkFailed(ctx, evt.ID); err != nil {
				w.Logger.Warn("⚠️ Warning: could not mark event failed", zap.Error(err))
			}
			continue
		}
		if err != nil {
			w.Logger.Error("❌ Error publishing event, will retry",
				zap.String("eventID", evt.ID.String()), zap.Error(err))
			return published, nil
		}

		if err := w.OutboxRepo.MarkDone(ctx, evt.ID); err != nil {
			w.Logger.Warn("⚠️ Warning: could not mark event done", zap.String("eventID", evt.ID.String()), zap.Error(err))
			continue
		}
		published++
	}

	if published > 0 {
		w.Logger.Info("✅ Relayed post events", zap.Int("count", published))
	}
	return published, nil
}

func (w *OutboxRelay) valid(evt *postevent.PostEvent) bool {
	if evt.PostID == uuid.Nil || evt.ActorID == uuid.Nil {
		w.Logger.Error("❌ Invalid outbox record", zap.Any("record", evt))
		return false
	}
	switch evt.Type {
	case postevent.TypeCreated, postevent.TypeLiked, postevent.TypeUnliked, postevent.TypeDeleted:
		return true
	}
	w.Logger.Error("❌ Unknown event type", zap.String("type", string(evt.Type)))
	return false
}
