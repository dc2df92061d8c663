package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Merci306/minimalloc-merci/internal/server"
	"github.com/Merci306/minimalloc-merci/pkg/cache"
	"github.com/Merci306/minimalloc-merci/pkg/pipeline"
	"github.com/Merci306/minimalloc-merci/pkg/store"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		redisAddr string
		mongoURI  string
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Run the minimalloc HTTP API server.

The server accepts allocation problems as JSON, runs the sweep pipeline,
and archives completed runs. By default runs are kept in memory and sweep
results are cached on disk; configure Redis and MongoDB backends via
flags or the config file for production deployments.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, redisAddr, mongoURI, noCache)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", c.Config.Server.Addr, "listen address")
	cmd.Flags().StringVar(&redisAddr, "redis", c.Config.Server.Redis.Addr, "Redis address for the result cache")
	cmd.Flags().StringVar(&mongoURI, "mongo", c.Config.Server.Mongo.URI, "MongoDB URI for the run archive")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable result caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr, redisAddr, mongoURI string, noCache bool) error {
	cch, err := c.newServeCache(ctx, redisAddr, noCache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}

	st, err := c.newServeStore(ctx, mongoURI)
	if err != nil {
		_ = cch.Close()
		return fmt.Errorf("initialize store: %w", err)
	}
	defer func() { _ = st.Close(context.Background()) }()

	runner := pipeline.NewRunner(cch, c.Logger)
	defer runner.Close()

	srv := server.New(server.Config{
		Addr:   addr,
		Runner: runner,
		Store:  st,
		Logger: c.Logger,
	})
	return srv.ListenAndServe(ctx)
}

func (c *CLI) newServeCache(ctx context.Context, redisAddr string, noCache bool) (cache.Cache, error) {
	if redisAddr != "" && !noCache {
		c.Logger.Info("using Redis cache", "addr", redisAddr)
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     redisAddr,
			Password: c.Config.Server.Redis.Password,
			DB:       c.Config.Server.Redis.DB,
		})
	}
	return c.newCache(noCache)
}

func (c *CLI) newServeStore(ctx context.Context, mongoURI string) (store.Store, error) {
	if mongoURI != "" {
		c.Logger.Info("using MongoDB archive", "database", c.Config.Server.Mongo.Database)
		return store.NewMongoStore(ctx, store.MongoConfig{
			URI:      mongoURI,
			Database: c.Config.Server.Mongo.Database,
		})
	}
	return store.NewMemoryStore(), nil
}
