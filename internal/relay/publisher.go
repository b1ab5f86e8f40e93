// Package relay fans dispatched actions out over Redis pub/sub so another
// process can mirror the store.
package relay

import (
	"context"
	"fmt"
	"time"

	"blog-client/internal/action"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultChannel is the pub/sub channel actions travel on.
const DefaultChannel = "blog:actions"

const publishTimeout = 2 * time.Second

// Dial connects to Redis and checks the connection.
func Dial(ctx context.Context, addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return rdb, nil
}

// Publisher dispatches locally first, then publishes the action envelope.
type Publisher struct {
	rdb     *redis.Client
	channel string
	next    action.Dispatcher
	logger  *zap.Logger
}

var _ action.Dispatcher = (*Publisher)(nil)

func NewPublisher(rdb *redis.Client, channel string, next action.Dispatcher, logger *zap.Logger) *Publisher {
	if channel == "" {
		channel = DefaultChannel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{
		rdb:     rdb,
		channel: channel,
		next:    next,
		logger:  logger,
	}
}

// Dispatch never fails: a publish error only costs remote mirrors an update.
func (p *Publisher) Dispatch(a action.Action) {
	p.next.Dispatch(a)

	data, err := action.Encode(a)
	if err != nil {
		p.logger.Warn("Not publishing action", zap.String("kind", string(a.Kind())), zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := p.rdb.Publish(ctx, p.channel, data).Err(); err != nil {
		p.logger.Error("Publish failed", zap.String("channel", p.channel), zap.Error(err))
		return
	}
	p.logger.Debug("Action published", zap.String("kind", string(a.Kind())))
}
