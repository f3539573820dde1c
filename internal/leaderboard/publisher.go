package leaderboard

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/thesrcielos/LernCasino/websocket/transport"
	"go.uber.org/zap"
)

const (
	UpdateMessageType = "LEADERBOARD_UPDATE"
	updatesChannel    = "leaderboard"
)

type Publisher interface {
	Publish(ctx context.Context, msg transport.OutgoingMessage) error
}

// RedisPublisher fans messages out to every server instance through a
// Redis channel. Each instance runs Relay to hand them to its local hub.
type RedisPublisher struct {
	client *redis.Client
}

func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

func (p *RedisPublisher) Publish(ctx context.Context, msg transport.OutgoingMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, updatesChannel, data).Err()
}

// Relay forwards channel messages to sink until ctx is cancelled.
func Relay(ctx context.Context, client *redis.Client, sink Publisher, log *zap.Logger) error {
	sub := client.Subscribe(ctx, updatesChannel)
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return fmt.Errorf("error subscribing: %w", err)
	}
	log.Info("subscribed to leaderboard channel")

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-ch:
				if !ok {
					return
				}
				forward(ctx, m.Payload, sink, log)
			}
		}
	}()
	return nil
}

func forward(ctx context.Context, payload string, sink Publisher, log *zap.Logger) {
	var msg transport.OutgoingMessage
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		log.Warn("error decoding leaderboard message", zap.Error(err))
		return
	}
	if err := sink.Publish(ctx, msg); err != nil {
		log.Warn("error relaying leaderboard message", zap.Error(err))
	}
}
