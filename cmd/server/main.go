package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/playsafe-labs/breakgate/config"
	"github.com/playsafe-labs/breakgate/internal/controls"
	httpDelivery "github.com/playsafe-labs/breakgate/internal/delivery/http"
	"github.com/playsafe-labs/breakgate/internal/delivery/kafka/consumer"
	"github.com/playsafe-labs/breakgate/internal/delivery/kafka/producer"
	"github.com/playsafe-labs/breakgate/internal/infra/redis"
	"github.com/playsafe-labs/breakgate/internal/platform"
	repo "github.com/playsafe-labs/breakgate/internal/repository/redis"
	"github.com/playsafe-labs/breakgate/internal/scheduler"
	pkgKafka "github.com/playsafe-labs/breakgate/pkg/kafka"
	pkgLog "github.com/playsafe-labs/breakgate/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	l := pkgLog.InitializeZapLogger(pkgLog.ZapConfig{
		Level:    cfg.Log.Level,
		Mode:     cfg.Log.Mode,
		Encoding: cfg.Log.Encoding,
	})

	redisCli, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		l.Fatalf(ctx, "Failed to connect to Redis: %v", err)
	}
	defer redis.Disconnect(redisCli)

	counterRepo := repo.NewRedisCounterRepository(redisCli, l)

	// Kafka is optional: without it the service degrades to local gating with
	// no platform round-trip.
	var prod producer.Producer
	var consGr *consumer.Consumer

	if cfg.Kafka.Enabled {
		kafkaSyncProd, err := pkgKafka.NewProducer(pkgKafka.ProducerConfig{
			Brokers:      cfg.Kafka.Brokers,
			RetryMax:     cfg.Kafka.ProducerRetryMax,
			RequiredAcks: cfg.Kafka.ProducerRequiredAcks,
		})
		if err != nil {
			l.Fatalf(ctx, "Failed to initialize Kafka producer: %v", err)
		}
		prod = producer.NewProducer(kafkaSyncProd, l)
		defer prod.Close()
	} else {
		l.Warn(ctx, "Kafka disabled, platform notifications will not flow")
	}

	adapter := platform.NewAdapter(cfg.Break.NaturalInterval, prod, l)
	notifier := producer.NewCountdownNotifier(prod, l)

	sched := scheduler.New(cfg.Break, adapter, notifier, counterRepo, l)
	sched.RegisterController(controls.New("movement", l))
	sched.RegisterController(controls.New("camera", l))
	sched.RegisterController(controls.New("hotbar", l))

	if cfg.Kafka.Enabled {
		kafkaConsGr, err := pkgKafka.NewConsumer(pkgKafka.ConsumerConfig{
			Brokers: cfg.Kafka.Brokers,
			GroupID: cfg.Kafka.ConsumerGroupID,
		})
		if err != nil {
			l.Fatalf(ctx, "Failed to initialize Kafka consumer: %v", err)
		}

		consGr = consumer.NewConsumer(kafkaConsGr, sched, adapter, l)
		if err := consGr.Start(ctx); err != nil {
			l.Fatalf(ctx, "Failed to start Kafka consumer: %v", err)
		}
		defer consGr.Close()
	}

	if err := sched.Start(ctx); err != nil {
		l.Fatalf(ctx, "Failed to start break scheduler: %v", err)
	}
	defer sched.Stop()

	handler := httpDelivery.NewHTTPHandler(sched, l)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:      handler.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		l.Infof(gCtx, "HTTP server is listening on port: %d", cfg.Server.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		l.Errorf(ctx, "Server error: %v", err)
	}

	l.Info(ctx, "Server exited")
}
