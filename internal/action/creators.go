package action

import (
	"context"
	"fmt"

	"blog-client/internal/model"

	"go.uber.org/zap"
)

// PostsAPI is the remote posts resource the creators talk to.
type PostsAPI interface {
	ListPosts(ctx context.Context) ([]model.Post, error)
	GetPost(ctx context.Context, id model.PostID) (model.Post, error)
	CreatePost(ctx context.Context, fields model.Fields) (model.Post, error)
	DeletePost(ctx context.Context, id model.PostID) error
}

// Creators turns view intents into API calls and dispatches the outcome.
type Creators struct {
	api      PostsAPI
	dispatch Dispatcher
	logger   *zap.Logger
}

func NewCreators(api PostsAPI, d Dispatcher, logger *zap.Logger) *Creators {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Creators{
		api:      api,
		dispatch: d,
		logger:   logger,
	}
}

// FetchPosts loads every post and dispatches PostsListFetched.
func (c *Creators) FetchPosts(ctx context.Context) *Pending {
	return c.run(ctx, OpList, "", func(ctx context.Context) (Action, error) {
		posts, err := c.api.ListPosts(ctx)
		if err != nil {
			return nil, err
		}
		return PostsListFetched{Posts: posts}, nil
	}, nil)
}

// FetchPost loads one post and dispatches PostFetched.
func (c *Creators) FetchPost(ctx context.Context, id model.PostID) *Pending {
	return c.run(ctx, OpFetch, id, func(ctx context.Context) (Action, error) {
		post, err := c.api.GetPost(ctx, id)
		if err != nil {
			return nil, err
		}
		return PostFetched{Post: post}, nil
	}, nil)
}

// CreatePost submits fields, dispatches PostCreated with the server's record
// and then calls each of then.
func (c *Creators) CreatePost(ctx context.Context, fields model.Fields, then ...func()) *Pending {
	return c.run(ctx, OpCreate, "", func(ctx context.Context) (Action, error) {
		post, err := c.api.CreatePost(ctx, fields)
		if err != nil {
			return nil, err
		}
		return PostCreated{Post: post}, nil
	}, then)
}

// DeletePost removes a post, dispatches PostDeleted with the id and then
// calls each of then.
func (c *Creators) DeletePost(ctx context.Context, id model.PostID, then ...func()) *Pending {
	return c.run(ctx, OpDelete, id, func(ctx context.Context) (Action, error) {
		if err := c.api.DeletePost(ctx, id); err != nil {
			return nil, err
		}
		return PostDeleted{ID: id}, nil
	}, then)
}

func (c *Creators) run(ctx context.Context, op Op, id model.PostID, call func(context.Context) (Action, error), then []func()) *Pending {
	p := newPending()
	logger := c.logger.With(zap.String("op", string(op)))
	if id != "" {
		logger = logger.With(zap.String("id", id.String()))
	}

	go func() {
		a, err := call(ctx)
		if err != nil {
			err = fmt.Errorf("%s post: %w", op, err)
			// A cancelled caller has gone away; nobody is left to show the failure.
			if ctx.Err() == nil {
				logger.Warn("Request failed", zap.Error(err))
				c.dispatch.Dispatch(RequestFailed{Op: op, ID: id, Message: err.Error()})
			} else {
				logger.Debug("Request abandoned", zap.Error(err))
			}
			p.resolve(nil, err)
			return
		}

		logger.Debug("Request done", zap.String("kind", string(a.Kind())))
		c.dispatch.Dispatch(a)
		for _, fn := range then {
			if fn != nil {
				fn()
			}
		}
		p.resolve(a, nil)
	}()

	return p
}
