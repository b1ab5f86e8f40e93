package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"blog-client/internal/action"
	"blog-client/internal/api"
	"blog-client/internal/config"
	"blog-client/internal/relay"
	"blog-client/internal/store"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// app is everything a command needs, built once flags are parsed.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	store    *store.Store
	client   *api.Client
	creators *action.Creators
	rdb      *redis.Client
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

func newApp(ctx context.Context, v *viper.Viper) (*app, error) {
	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg.Verbose)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	client, err := api.NewClient(cfg.APIURL,
		api.WithAPIKey(cfg.APIKey),
		api.WithTimeout(cfg.Timeout),
		api.WithLogger(logger.Named("api")))
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:    cfg,
		logger: logger,
		client: client,
		store:  store.New(store.WithLogger(logger.Named("store"))),
	}

	var dispatcher action.Dispatcher = a.store
	if cfg.RedisAddr != "" {
		a.rdb, err = relay.Dial(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, err
		}
		dispatcher = relay.NewPublisher(a.rdb, cfg.Channel, a.store, logger.Named("relay"))
	}
	a.creators = action.NewCreators(client, dispatcher, logger.Named("actions"))

	return a, nil
}

func (a *app) Close() {
	if a.rdb != nil {
		a.rdb.Close()
	}
	_ = a.logger.Sync()
}

func newRootCmd() *cobra.Command {
	v := config.New()
	var a *app

	rootCmd := &cobra.Command{
		Use:           "blog",
		Short:         "blog - list, read, write and delete posts on a remote blog API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			a, err = newApp(cmd.Context(), v)
			return err
		},
	}
	if err := config.RegisterFlags(v, rootCmd.PersistentFlags()); err != nil {
		panic(err)
	}

	current := func() *app { return a }
	rootCmd.AddCommand(
		newListCmd(current),
		newShowCmd(current),
		newNewCmd(current),
		newDeleteCmd(current),
		newWatchCmd(current),
	)
	return rootCmd
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// SIGINT/SIGTERM cancel every command, including a running watch.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
