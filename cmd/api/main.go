package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/01moynul/marketd/internal/auth"
	"github.com/01moynul/marketd/internal/config"
	"github.com/01moynul/marketd/internal/database"
	"github.com/01moynul/marketd/internal/handlers"
	"github.com/01moynul/marketd/internal/middleware"
	"github.com/01moynul/marketd/internal/notify"
	"github.com/01moynul/marketd/internal/orders"
	"github.com/01moynul/marketd/internal/routes"
	"github.com/01moynul/marketd/internal/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	app := &cli.App{
		Name:  "marketd",
		Usage: "marketplace order placement and fulfillment API",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API and the notification worker",
				Action: serve,
			},
			{
				Name:  "migrate",
				Usage: "apply database migrations",
				Subcommands: []*cli.Command{
					{Name: "up", Usage: "apply all pending migrations", Action: migrateAction(database.Up)},
					{Name: "down", Usage: "roll back all migrations", Action: migrateAction(database.Down)},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.ConfigureLogging(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func migrateAction(dir database.Direction) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := database.OpenDB(c.Context, cfg.DBDSN)
		if err != nil {
			return err
		}
		defer db.Close()
		return database.Migrate(db, dir)
	}
}

func serve(c *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. --- Main Database Connection (Read/Write) ---
	db, err := database.OpenDB(ctx, cfg.DBDSN)
	if err != nil {
		return err
	}
	defer db.Close()
	st := store.New(db)

	// 2. --- Notification sinks ---
	sinks := []notify.Sink{&notify.InboxSink{Store: st}}
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.WithError(err).WithField("addr", cfg.RedisAddr).Warn("redis unreachable, notifications will retry on publish")
		}
		sinks = append(sinks, &notify.RedisSink{Client: rdb, Channel: cfg.RedisChannel})
	}
	dispatcher := notify.NewDispatcher(cfg.NotifyQueueSize, cfg.NotifyRetries, sinks...)

	// 3. --- Application Setup ---
	app := &handlers.Handlers{
		Store:    st,
		Orders:   orders.NewService(st),
		Notifier: dispatcher,
		Tokens:   auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL),
	}

	gin.SetMode(gin.ReleaseMode)
	router := routes.SetupRouter(app, routes.Options{
		CORSOrigin: cfg.CORSOrigin,
		Limiter:    middleware.NewRateLimiter(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst),
	})
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// 4. --- Run server and worker until a signal arrives ---
	// The worker outlives the server so effects of in-flight requests are delivered.
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return dispatcher.Run(workerCtx)
	})
	g.Go(func() error {
		log.WithField("addr", cfg.HTTPAddr).Info("starting marketd API server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "http server")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		defer stopWorker()
		log.Info("shutting down")
		return errors.Wrap(srv.Shutdown(shutdownCtx), "http shutdown")
	})
	return g.Wait()
}
