package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ariefcatur/go-detail-market.git/internal/config"
	kafkax "github.com/ariefcatur/go-detail-market.git/internal/kafka"
	"github.com/ariefcatur/go-detail-market.git/internal/notifier"
	"github.com/ariefcatur/go-detail-market.git/internal/orders"
	"github.com/ariefcatur/go-detail-market.git/internal/redisx"
)

func mustAtoi(s, def string) int {
	if s == "" {
		s = def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return i
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	zl, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zl.Sync()
	logger := zl.Sugar()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &notifier.Service{
		Redis:       rdb,
		Log:         logger,
		ServiceName: cfg.ServiceName + "-notifier",
	}

	group := getenv("NOTIFIER_GROUP", "notifier-svc")
	workers := mustAtoi(os.Getenv("NOTIFIER_WORKERS"), "8")

	consOrders := kafkax.NewConsumer(cfg.KafkaBrokers, group, orders.TopicOrderEvents, workers, logger)
	consLeads := kafkax.NewConsumer(cfg.KafkaBrokers, group+"-leads", orders.TopicLeadEvents, workers, logger)

	go func() {
		logger.Infow("order consumer started", "group", group, "topic", orders.TopicOrderEvents, "workers", workers)
		if err := consOrders.Start(ctx, svc.HandleOrderEvent); err != nil {
			logger.Errorw("order consumer exit", "err", err)
			cancel()
		}
	}()
	go func() {
		logger.Infow("lead consumer started", "group", group+"-leads", "topic", orders.TopicLeadEvents, "workers", workers)
		if err := consLeads.Start(ctx, svc.HandleLeadEvent); err != nil {
			logger.Errorw("lead consumer exit", "err", err)
			cancel()
		}
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}
	logger.Info("shutting down consumers...")
	cancel()
	time.Sleep(500 * time.Millisecond)
}
