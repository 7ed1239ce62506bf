package cli

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/masonry/internal/api"
	"github.com/matzehuels/masonry/pkg/cache"
	"github.com/matzehuels/masonry/pkg/observability"
	"github.com/matzehuels/masonry/pkg/pipeline"
	"github.com/matzehuels/masonry/pkg/store"
)

const shutdownTimeout = 10 * time.Second

// redisKeyPrefix namespaces cache keys in a Redis shared with other apps.
const redisKeyPrefix = appName + ":"

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		redisURL string
		mongoURI string
		dataDir  string
		maxItems int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the packing HTTP API",
		Long: `Run the packing HTTP API.

Layouts are kept in memory unless --data-dir (one JSON file per layout)
or --mongo (a MongoDB collection) is given. Packing and rendering results
are cached in the local cache directory, or in Redis with --redis so that
several replicas share one cache.

Routes:
  POST   /v1/pack
  GET    /v1/layouts
  GET    /v1/layouts/{id}
  DELETE /v1/layouts/{id}
  GET    /v1/layouts/{id}/render/{format}
  GET    /healthz`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.Config.Server
			fs := cmd.Flags()
			if fs.Changed("addr") || cfg.Addr == "" {
				cfg.Addr = addr
			}
			if fs.Changed("redis") {
				cfg.Redis = redisURL
			}
			if fs.Changed("mongo") {
				cfg.Mongo = mongoURI
			}
			if fs.Changed("data-dir") {
				cfg.DataDir = dataDir
			}
			if fs.Changed("max-items") {
				cfg.MaxItems = maxItems
			}
			return c.runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	cmd.Flags().StringVar(&redisURL, "redis", "", "Redis URL for the shared cache (e.g. redis://localhost:6379/0)")
	cmd.Flags().StringVar(&mongoURI, "mongo", "", "MongoDB URI for layout storage")
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "directory for file-based layout storage")
	cmd.Flags().IntVar(&maxItems, "max-items", api.DefaultMaxItems, "largest item count accepted per request")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg ServerConfig) error {
	logger := loggerFromContext(ctx)

	hooks := observability.NewLogHooks(logger)
	observability.SetPackHooks(hooks)
	observability.SetCacheHooks(hooks)
	observability.SetHTTPHooks(hooks)
	defer observability.Reset()

	ch, keyer, err := c.serverCache(ctx, cfg)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(ch, keyer, logger)
	defer runner.Close()

	st, err := serverStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := st.Close(closeCtx); err != nil {
			logger.Warn("close store", "err", err)
		}
	}()

	srv := &http.Server{
		Addr: cfg.Addr,
		Handler: api.New(api.Config{
			Runner:   runner,
			Store:    st,
			Logger:   logger,
			Defaults: c.Config.Options(),
			MaxItems: cfg.MaxItems,
		}).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

// serverCache picks Redis when configured, otherwise the local file cache.
// Redis keys are prefixed with the app name; the connection is retried
// while the server is unreachable.
func (c *CLI) serverCache(ctx context.Context, cfg ServerConfig) (cache.Cache, cache.Keyer, error) {
	if cfg.Redis == "" {
		fc, err := newCache(false)
		return fc, nil, err
	}
	var rc *cache.RedisCache
	err := cache.RetryWithBackoff(ctx, func() error {
		var err error
		rc, err = cache.NewRedisCache(ctx, cfg.Redis)
		if err != nil {
			c.Logger.Warn("redis not ready", "url", redactURL(cfg.Redis), "err", err)
		}
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	c.Logger.Info("using redis cache", "url", redactURL(cfg.Redis), "prefix", redisKeyPrefix)
	return rc, cache.NewScopedKeyer(cache.NewDefaultKeyer(), redisKeyPrefix), nil
}

// serverStore picks MongoDB, then the file store, then memory.
func serverStore(ctx context.Context, cfg ServerConfig) (store.Store, error) {
	switch {
	case cfg.Mongo != "":
		return store.NewMongoStore(ctx, store.MongoConfig{URI: cfg.Mongo})
	case cfg.DataDir != "":
		return store.NewFileStore(cfg.DataDir)
	default:
		return store.NewMemoryStore(), nil
	}
}

// redactURL hides the password of a connection URL for logging.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<invalid url>"
	}
	return u.Redacted()
}
