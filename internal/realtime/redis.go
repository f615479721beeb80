package realtime

import (
	"context"
	"encoding/json"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
)

// notificationsChannel is the Redis pub/sub channel shared by all instances
const notificationsChannel = "ideanest:notifications"

// redisMessage carries a push across instances
type redisMessage struct {
	Recipient string          `json:"recipient"`
	Payload   json.RawMessage `json:"payload"`
}

// RedisBridge is a Pusher for multi-instance deployments. A push is
// published to a shared channel and every instance forwards it to its own
// in-memory hub, so a dispatch on instance A reaches a recipient whose
// socket lives on instance B. Delivery semantics stay best effort.
type RedisBridge struct {
	rdb *redis.Client
	hub *Hub
	log zerolog.Logger
}

// NewRedisBridge creates a bridge publishing through rdb and delivering
// locally through hub
func NewRedisBridge(rdb *redis.Client, hub *Hub, log zerolog.Logger) *RedisBridge {
	return &RedisBridge{
		rdb: rdb,
		hub: hub,
		log: log.With().Str("component", "redis-bridge").Logger(),
	}
}

// Push publishes the payload for the recipient. Returns false when the
// publish fails; whether any instance actually delivers is unknowable here,
// matching the fire-and-forget contract.
func (b *RedisBridge) Push(userID string, payload interface{}) bool {
	raw, err := json.Marshal(payload)
	if err != nil {
		b.log.Error().Err(err).Msg("marshal push payload")
		return false
	}

	msg, err := json.Marshal(redisMessage{Recipient: userID, Payload: raw})
	if err != nil {
		b.log.Error().Err(err).Msg("marshal pub/sub message")
		return false
	}

	if err := b.rdb.Publish(context.Background(), notificationsChannel, msg).Err(); err != nil {
		b.log.Warn().Err(err).Str("user", userID).Msg("publish failed, delivery lost")
		return false
	}
	return true
}

// Run subscribes to the shared channel and forwards messages to the local
// hub until ctx is cancelled. Meant to be started once per instance.
func (b *RedisBridge) Run(ctx context.Context) {
	sub := b.rdb.Subscribe(ctx, notificationsChannel)
	defer sub.Close()

	b.log.Info().Str("channel", notificationsChannel).Msg("subscribed")

	for {
		select {
		case <-ctx.Done():
			return
		case m, ok := <-sub.Channel():
			if !ok {
				return
			}
			var msg redisMessage
			if err := json.Unmarshal([]byte(m.Payload), &msg); err != nil {
				b.log.Warn().Err(err).Msg("malformed pub/sub message")
				continue
			}
			b.hub.Push(msg.Recipient, msg.Payload)
		}
	}
}
