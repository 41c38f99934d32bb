// Package events announces site activity to anything listening on Redis.
// Publishing is best effort: a failed publish is logged and never fails the
// request that caused it.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

type Type string

const (
	ContactSubmitted Type = "contact_submitted"
	ProjectCreated   Type = "project_created"
	ProjectDeleted   Type = "project_deleted"
)

type Event struct {
	Type Type      `json:"type"`
	ID   string    `json:"id"`
	At   time.Time `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event)
}

// redisPublisher is the subset of the redis client used for publishing.
type redisPublisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

type RedisPublisher struct {
	client  redisPublisher
	channel string
}

func NewRedisPublisher(client redisPublisher, channel string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel}
}

func (p *RedisPublisher) Publish(ctx context.Context, event Event) {
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("type", string(event.Type)).Msg("failed to encode event")
		return
	}
	if err := p.client.Publish(ctx, p.channel, data).Err(); err != nil {
		log.Warn().Err(err).Str("type", string(event.Type)).Str("id", event.ID).Msg("failed to publish event")
		return
	}
	log.Debug().Str("type", string(event.Type)).Str("id", event.ID).Msg("event published")
}

// NopPublisher drops every event. Used when REDIS_URL is unset.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) {}
