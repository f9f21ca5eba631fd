package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ariefcatur/go-detail-market.git/internal/auth"
	"github.com/ariefcatur/go-detail-market.git/internal/config"
	"github.com/ariefcatur/go-detail-market.git/internal/httpx"
	kafkax "github.com/ariefcatur/go-detail-market.git/internal/kafka"
	"github.com/ariefcatur/go-detail-market.git/internal/leads"
	"github.com/ariefcatur/go-detail-market.git/internal/orders"
	"github.com/ariefcatur/go-detail-market.git/internal/postgres"
	"github.com/ariefcatur/go-detail-market.git/internal/redisx"
)

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

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()
	if err := postgres.InitSchema(ctx, db); err != nil {
		log.Fatalf("db schema: %v", err)
	}

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producers
	prodOrders := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderEvents, 1024, logger)
	prodOrders.Start(ctx)
	prodLeads := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicLeadEvents, 1024, logger)
	prodLeads.Start(ctx)

	// Repos & services
	orderRepo := &orders.Repo{DB: db}
	leadRepo := &leads.Repo{DB: db}
	engine := &orders.Engine{
		Store:   orderRepo,
		Events:  prodOrders,
		Log:     logger,
		Service: cfg.ServiceName,
	}
	leadSvc := &leads.Service{
		Store:   leadRepo,
		Events:  prodLeads,
		Log:     logger,
		Service: cfg.ServiceName,
	}
	authSvc := &auth.Service{DB: db}

	// Router & handlers
	router := httpx.NewRouter()
	(&httpx.AuthHandler{Svc: authSvc, Secret: cfg.JWTSecret}).Register(router)
	(&httpx.OrdersHandler{
		Repo:     orderRepo,
		Engine:   engine,
		Leads:    leadSvc,
		Producer: prodOrders,
		Redis:    rdb,
		Log:      logger,
		Service:  cfg.ServiceName,
	}).Register(router, cfg.JWTSecret)
	(&httpx.LeadsHandler{Svc: leadSvc, Log: logger}).Register(router, cfg.JWTSecret)

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	// graceful shutdown
	go func() {
		logger.Infow("HTTP listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prodOrders.Close() // tutup inbox -> flush & close writer
	prodLeads.Close()
	cancel() // stop producer loop
	prodOrders.WaitClosed()
	prodLeads.WaitClosed()
}
