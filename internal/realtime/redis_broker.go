package realtime

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"jobportal/internal/domain/chat"
)

const eventTopicPrefix = "chat:events:"

// RedisBroker fans chat events out across instances over Redis pub/sub, one
// topic per chat channel.
type RedisBroker struct {
	rdb    *redis.Client
	sub    *redis.PubSub
	events chan chat.Event
	logger *slog.Logger
}

func NewRedisBroker(ctx context.Context, rdb *redis.Client, logger *slog.Logger) *RedisBroker {
	b := &RedisBroker{
		rdb:    rdb,
		sub:    rdb.PSubscribe(ctx, eventTopicPrefix+"*"),
		events: make(chan chat.Event, 256),
		logger: logger,
	}
	go b.receiveLoop()
	return b
}

func (b *RedisBroker) Publish(ctx context.Context, ev chat.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, eventTopicPrefix+ev.ChannelID.String(), payload).Err()
}

func (b *RedisBroker) Events() <-chan chat.Event {
	return b.events
}

func (b *RedisBroker) Close() error {
	err := b.sub.Close()
	return err
}

func (b *RedisBroker) receiveLoop() {
	defer close(b.events)
	for msg := range b.sub.Channel() {
		var ev chat.Event
		if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
			b.logger.Warn("dropping malformed chat event", "topic", msg.Channel, "err", err)
			continue
		}
		select {
		case b.events <- ev:
		default:
			b.logger.Warn("chat event buffer full, dropping event", "topic", msg.Channel)
		}
	}
}
