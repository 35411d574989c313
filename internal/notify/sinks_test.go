package notify

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/01moynul/marketd/internal/store"
)

type fakePublisher struct {
	channel string
	message []byte
	err     error
}

func (p *fakePublisher) Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd {
	p.channel = channel
	p.message, _ = message.([]byte)
	cmd := redis.NewIntCmd(ctx)
	if p.err != nil {
		cmd.SetErr(p.err)
	} else {
		cmd.SetVal(1)
	}
	return cmd
}

func TestRedisSink(t *testing.T) {
	pub := &fakePublisher{}
	sink := &RedisSink{Client: pub, Channel: "market.notifications"}

	e := Effect{UserID: 11, Event: EventRiderAssigned, Message: "You have been assigned order #5", Payload: map[string]interface{}{"orderId": 5}}
	require.NoError(t, sink.Deliver(context.Background(), e))
	assert.Equal(t, "market.notifications", pub.channel)

	var decoded Effect
	require.NoError(t, json.Unmarshal(pub.message, &decoded))
	assert.Equal(t, int64(11), decoded.UserID)
	assert.Equal(t, EventRiderAssigned, decoded.Event)

	pub.err = errors.New("connection refused")
	assert.Error(t, sink.Deliver(context.Background(), e))
}

func TestInboxSink(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sink := &InboxSink{Store: store.New(sqlx.NewDb(db, "mysql"))}
	at := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO notifications")).
		WithArgs(int64(7), "order.status_changed", "Order #5 is now delivered", `{"orderId":5}`, at).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = sink.Deliver(context.Background(), Effect{
		UserID:  7,
		Event:   EventStatusChanged,
		Message: "Order #5 is now delivered",
		Payload: map[string]interface{}{"orderId": 5},
		At:      at,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
