package notify

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/01moynul/marketd/internal/models"
	"github.com/01moynul/marketd/internal/store"
)

// InboxSink writes each effect to the notifications table.
type InboxSink struct {
	Store *store.Store
}

func (s *InboxSink) Name() string { return "inbox" }

func (s *InboxSink) Deliver(ctx context.Context, e Effect) error {
	var payload sql.NullString
	if len(e.Payload) > 0 {
		b, err := json.Marshal(e.Payload)
		if err != nil {
			return fmt.Errorf("failed to encode payload: %w", err)
		}
		payload = sql.NullString{String: string(b), Valid: true}
	}

	n := &models.Notification{
		UserID:    e.UserID,
		EventType: string(e.Event),
		Message:   e.Message,
		Payload:   payload,
		CreatedAt: e.At,
	}
	if err := s.Store.InsertNotification(ctx, s.Store.DB(), n); err != nil {
		return fmt.Errorf("failed to add notification: %w", err)
	}
	return nil
}

// Publisher is the slice of the redis client RedisSink needs.
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisSink publishes each effect as JSON on a pub/sub channel so push
// gateways can fan it out to devices.
type RedisSink struct {
	Client  Publisher
	Channel string
}

func (s *RedisSink) Name() string { return "redis" }

func (s *RedisSink) Deliver(ctx context.Context, e Effect) error {
	b, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to encode effect: %w", err)
	}
	return s.Client.Publish(ctx, s.Channel, b).Err()
}
