package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/campushq/analytics/api"
	"github.com/campushq/analytics/internal/business"
	"github.com/campushq/analytics/internal/cache"
	"github.com/campushq/analytics/internal/config"
	"github.com/campushq/analytics/internal/database"
	"github.com/campushq/analytics/internal/logging"
	"github.com/campushq/analytics/internal/queue"
	"github.com/campushq/analytics/internal/worker"
	"github.com/campushq/analytics/pkg/controller"
	"github.com/campushq/analytics/pkg/cron"
	"github.com/campushq/analytics/pkg/services"
)

func NewRun() *cobra.Command {
	var cfg config.ServerCmdConfig
	loader := config.NewConfigLoader()
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start Analytics Server",
		Run: func(cmd *cobra.Command, args []string) {
			runApplication(cmd.Context(), &cfg)
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loader.InitializeConfig(cmd); err != nil {
				return err
			}
			return loader.Load(&cfg)
		},
	}
	config.AddCommonFlags(cmd.Flags(), &cfg)
	return cmd
}

func runApplication(ctx context.Context, conf *config.ServerCmdConfig) {
	lvl, err := zapcore.ParseLevel(conf.Log.Level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	logging.SetConfig(&logging.Config{
		Level:    lvl,
		FilePath: conf.Log.File,
	})

	logger := logging.DefaultLogger()

	lg := logger.Sugar()

	defer lg.Sync()

	db, err := database.NewDatabase(&conf.DB, lg)

	if err != nil {
		lg.Fatalw("failed to create database", "err", err)
	}

	err = database.MigrateDB(db)

	if err != nil {
		lg.Fatalw("failed to migrate database", "err", err)
	}

	cacher := cache.NewCache(ctx, &conf.Cache)

	var queueClient *redis.Client
	if conf.Queue.RedisAddr != "" {
		queueClient = redis.NewClient(&redis.Options{
			Addr:     conf.Queue.RedisAddr,
			Password: conf.Queue.RedisPass,
		})
	}
	notifier := queue.NewNotifier(queueClient, conf.Queue.Name, logger)

	pool := worker.NewPool(ctx, conf.Workers.Count, conf.Workers.BufferSize, logger)
	defer pool.Shutdown()

	if conf.Business.Addr != "" {
		businessClient, err := business.NewClient(conf.Business.Addr, conf.Business.Timeout)
		if err != nil {
			lg.Fatalw("failed to connect to business service", "err", err)
		}
		defer businessClient.Close()
		lg.Infow("connected to business service", "addr", conf.Business.Addr)
	}

	processor := services.NewProcessorService(db, lg)
	eventService := services.NewEventService(db, processor, pool, notifier, lg)
	analyticsService := services.NewAnalyticsService(db, cacher, lg)

	ctrl := controller.NewController(eventService, analyticsService)

	gin.SetMode(gin.ReleaseMode)

	router := api.InitRouter(logger, ctrl)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", conf.Server.Port),
		Handler:           router,
		ReadTimeout:       conf.Server.ReadTimeout,
		WriteTimeout:      conf.Server.WriteTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	if conf.CronJobs.Enable {
		scheduler := gocron.NewScheduler(time.UTC)
		cron.StartCronJobs(ctx, scheduler, processor, &conf.CronJobs)
		defer scheduler.Stop()
	}

	go func() {
		lg.Infof("Server started at http://localhost:%d", conf.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			lg.Errorw("failed to start server", "err", err)
		}
	}()

	<-ctx.Done()

	lg.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), conf.Server.GracefulShutdown)

	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Errorw("server shutdown failed", "err", err)
	}

	lg.Info("Server stopped")
}
