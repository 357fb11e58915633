// Package main is the entry point for the transitlog sink.
// Its sole responsibility is wiring dependencies together and running the
// bus consumers until a shutdown signal arrives.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/pkordes/transitlog-sink/internal/bus"
	"github.com/pkordes/transitlog-sink/internal/config"
	"github.com/pkordes/transitlog-sink/internal/db"
	"github.com/pkordes/transitlog-sink/internal/health"
	"github.com/pkordes/transitlog-sink/internal/ingest"
	"github.com/pkordes/transitlog-sink/internal/repo"
	"github.com/pkordes/transitlog-sink/internal/sqlbind"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// pipelines selects which event families this process subscribes to.
type pipelines struct {
	alerts        bool
	cancellations bool
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "transitlog-sink",
		Short: "Persist service alerts and trip cancellations from the bus into Postgres",
		// Errors are logged as structured JSON by run; cobra's plain-text
		// copy would only duplicate them.
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file (optional)")

	add := func(use, short string, p pipelines) {
		root.AddCommand(&cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return run(cmd.Context(), configPath, p)
			},
		})
	}
	add("alerts", "Consume service alerts into the alert table", pipelines{alerts: true})
	add("cancellations", "Consume trip cancellations into the trip table", pipelines{cancellations: true})
	add("all", "Consume both event families, one consumer each", pipelines{alerts: true, cancellations: true})

	return root
}

func run(ctx context.Context, configPath string, p pipelines) error {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load(configPath)
	if err != nil {
		// The default logger writes plain text before ours is configured.
		slog.Error("configuration error", "error", err)
		return err
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	if err := cfg.RequireTopics(p.alerts, p.cancellations); err != nil {
		logger.Error("configuration error", "error", err)
		return err
	}

	zone, err := sqlbind.LoadZone(cfg.DB.Timezone)
	if err != nil {
		logger.Error("configuration error", "error", err)
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Database and subscriptions ---------------------------------------
	var (
		pools      []*pgxpool.Pool
		subs       []*bus.Subscription
		deps       = map[string]health.Pinger{}
		deadLetter *bus.KafkaDeadLetter
	)
	cleanup := func() {
		// Database first, then the bus, so no ack races a closing pool.
		for _, pool := range pools {
			db.Close(pool, logger)
		}
		for _, s := range subs {
			if err := s.Consumer.Close(); err != nil {
				logger.Error("failed to close consumer", "subscription", s.Name, "error", err)
			}
		}
		if deadLetter != nil {
			if err := deadLetter.Close(); err != nil {
				logger.Error("failed to close dead letter writer", "error", err)
			}
		}
	}

	kafkaFor := func(topic string) bus.KafkaConfig {
		return bus.KafkaConfig{
			Brokers:        cfg.Kafka.Brokers,
			Topic:          topic,
			GroupID:        cfg.Kafka.GroupID,
			CommitInterval: cfg.Kafka.CommitInterval,
		}
	}

	if p.alerts {
		pool, err := db.Connect(ctx, cfg.DB.ConnectionString, db.Credentials{}, logger)
		if err != nil {
			logger.Error("failed to connect to database", "subscription", "alerts", "error", err)
			cleanup()
			return err
		}
		pools = append(pools, pool)
		deps["alerts_db"] = pool
		subs = append(subs, &bus.Subscription{
			Name:     "alerts",
			Consumer: bus.NewKafkaConsumer(kafkaFor(cfg.Kafka.AlertsTopic), logger),
			Handler:  ingest.NewDispatcher(repo.NewAlertRepo(pool, zone, logger), nil, logger),
		})
	}

	if p.cancellations {
		creds := db.Credentials{Username: cfg.DB.Username, Password: cfg.DB.Password}
		pool, err := db.Connect(ctx, cfg.DB.ConnectionString, creds, logger)
		if err != nil {
			logger.Error("failed to connect to database", "subscription", "cancellations", "error", err)
			cleanup()
			return err
		}
		pools = append(pools, pool)
		deps["cancellations_db"] = pool
		subs = append(subs, &bus.Subscription{
			Name:     "cancellations",
			Consumer: bus.NewKafkaConsumer(kafkaFor(cfg.Kafka.CancellationsTopic), logger),
			Handler:  ingest.NewDispatcher(nil, repo.NewTripRepo(pool, zone, logger), logger),
		})
	}

	for _, s := range subs {
		deps[s.Name+"_consumer"] = s
	}

	// --- Health server ----------------------------------------------------
	var srv *http.Server
	if cfg.Health.Addr != "" {
		srv = health.NewServer(cfg.Health.Addr, deps, logger)
		go func() {
			logger.Info("health server starting", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("health server error", "error", err)
			}
		}()
	}

	// --- Consumers --------------------------------------------------------
	// One goroutine per subscription; each handles its messages strictly in
	// order. A subscription that gives up does not stop the others.
	policy := bus.RedeliveryPolicy{
		MaxAttempts:    cfg.Redelivery.MaxAttempts,
		InitialBackoff: cfg.Redelivery.InitialBackoff,
		Retryable:      ingest.Retryable,
	}
	if cfg.Kafka.DeadLetterTopic != "" {
		deadLetter = bus.NewKafkaDeadLetter(cfg.Kafka.Brokers, cfg.Kafka.DeadLetterTopic, logger)
		policy.DeadLetter = deadLetter
	}
	runErr := bus.RunAll(ctx, subs, policy, logger)

	if ctx.Err() != nil {
		logger.Info("shutdown signal received")
	}

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("health server shutdown error", "error", err)
		}
	}

	cleanup()

	if runErr != nil {
		logger.Error("consumer failed", "error", runErr)
		return runErr
	}
	logger.Info("stopped")
	return nil
}
