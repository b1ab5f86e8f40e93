package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"blog-client/internal/action"
	"blog-client/internal/model"
	"blog-client/internal/relay"
	"blog-client/internal/state"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var errInvalidPost = errors.New("post is incomplete")

// run adapts a command body to cobra and releases the app afterwards.
func run(current func() *app, fn func(ctx context.Context, a *app, out io.Writer, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a := current()
		defer a.Close()
		return fn(cmd.Context(), a, cmd.OutOrStdout(), args)
	}
}

// showIndex is the "/" route: fetch every post and list it.
func showIndex(ctx context.Context, a *app, out io.Writer) error {
	if _, err := a.creators.FetchPosts(ctx).Wait(ctx); err != nil {
		return err
	}
	renderIndex(out, a.store.GetState().Posts)
	return nil
}

func newListCmd(current func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every post",
		Args:  cobra.NoArgs,
		RunE: run(current, func(ctx context.Context, a *app, out io.Writer, _ []string) error {
			return showIndex(ctx, a, out)
		}),
	}
}

func newShowCmd(current func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Show one post",
		Args:  cobra.ExactArgs(1),
		RunE: run(current, func(ctx context.Context, a *app, out io.Writer, args []string) error {
			result, err := a.creators.FetchPost(ctx, model.PostID(args[0])).Wait(ctx)
			if err != nil {
				return err
			}
			// The server's id is the store key; "007" may come back as "7".
			fetched, _ := result.(action.PostFetched)
			post, ok := a.store.GetState().Posts.Get(fetched.Post.ID)
			if !ok {
				fmt.Fprintln(out, "Loading...")
				return nil
			}
			renderPost(out, post)
			return nil
		}),
	}
}

func newNewCmd(current func() *app) *cobra.Command {
	var fields model.Fields

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a post, then list every post",
		Args:  cobra.NoArgs,
		RunE: run(current, func(ctx context.Context, a *app, out io.Writer, _ []string) error {
			if errs := model.Validate(fields); !errs.Valid() {
				renderErrors(out, errs)
				return errInvalidPost
			}

			result, err := a.creators.CreatePost(ctx, fields).Wait(ctx)
			if err != nil {
				return err
			}
			if created, ok := result.(action.PostCreated); ok {
				a.logger.Info("Post created", zap.String("id", created.Post.ID.String()))
				fmt.Fprintf(out, "Created post %s\n\n", created.Post.ID)
			}
			return showIndex(ctx, a, out)
		}),
	}

	cmd.Flags().StringVar(&fields.Title, "title", "", "Title for post")
	cmd.Flags().StringVar(&fields.Categories, "categories", "", "Categories")
	cmd.Flags().StringVar(&fields.Content, "content", "", "Post content")
	return cmd
}

func newDeleteCmd(current func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a post, then list every post",
		Args:  cobra.ExactArgs(1),
		RunE: run(current, func(ctx context.Context, a *app, out io.Writer, args []string) error {
			id := model.PostID(args[0])
			if _, err := a.creators.DeletePost(ctx, id).Wait(ctx); err != nil {
				return err
			}
			a.logger.Info("Post deleted", zap.String("id", id.String()))
			fmt.Fprintf(out, "Deleted post %s\n\n", id)
			return showIndex(ctx, a, out)
		}),
	}
}

func newWatchCmd(current func() *app) *cobra.Command {
	var fetch bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Mirror the posts of every client relaying through Redis",
		Args:  cobra.NoArgs,
		RunE: run(current, func(ctx context.Context, a *app, out io.Writer, _ []string) error {
			if a.rdb == nil {
				return errors.New("watch needs --redis")
			}

			var mu sync.Mutex
			unsubscribe := a.store.Subscribe(func(s *state.State) {
				mu.Lock()
				defer mu.Unlock()
				if s.Failure != nil {
					renderFailure(out, s.Failure)
				}
				renderIndex(out, s.Posts)
			})
			defer unsubscribe()

			// The follower feeds the local store directly; republishing would echo.
			follower := relay.NewFollower(a.rdb, a.cfg.Channel, a.store, a.logger.Named("follower"))
			errCh := make(chan error, 1)
			go func() { errCh <- follower.Start(ctx) }()

			select {
			case <-follower.Ready():
			case err := <-errCh:
				return err
			}

			if fetch {
				local := action.NewCreators(a.client, a.store, a.logger.Named("actions"))
				if _, err := local.FetchPosts(ctx).Wait(ctx); err != nil {
					a.logger.Warn("Initial fetch failed", zap.Error(err))
				}
			}

			// main cancels ctx on SIGINT/SIGTERM.
			err := <-errCh
			a.logger.Info("Shutting down...")
			return err
		}),
	}

	cmd.Flags().BoolVar(&fetch, "fetch", false, "Fetch every post once the watch is running")
	return cmd
}
