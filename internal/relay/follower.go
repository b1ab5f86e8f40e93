package relay

import (
	"context"
	"fmt"

	"blog-client/internal/action"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Follower replays actions published on a channel into a local dispatcher.
type Follower struct {
	rdb     *redis.Client
	channel string
	target  action.Dispatcher
	logger  *zap.Logger
	ready   chan struct{}
}

func NewFollower(rdb *redis.Client, channel string, target action.Dispatcher, logger *zap.Logger) *Follower {
	if channel == "" {
		channel = DefaultChannel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Follower{
		rdb:     rdb,
		channel: channel,
		target:  target,
		logger:  logger,
		ready:   make(chan struct{}),
	}
}

// Ready is closed once the subscription is confirmed by Redis.
func (f *Follower) Ready() <-chan struct{} { return f.ready }

// Start runs the follow loop until ctx ends. Start must be called once.
func (f *Follower) Start(ctx context.Context) error {
	sub := f.rdb.Subscribe(ctx, f.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("subscribe %s: %w", f.channel, err)
	}
	close(f.ready)
	f.logger.Info("Follower started. Waiting for actions...", zap.String("channel", f.channel))

	msgs := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			f.logger.Info("Follower shutting down")
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("subscription to %s closed", f.channel)
			}
			f.apply(msg)
		}
	}
}

func (f *Follower) apply(msg *redis.Message) {
	a, err := action.Decode([]byte(msg.Payload))
	if err != nil {
		f.logger.Warn("Dropping undecodable message", zap.Error(err))
		return
	}
	f.logger.Debug("Applying remote action", zap.String("kind", string(a.Kind())))
	f.target.Dispatch(a)
}
