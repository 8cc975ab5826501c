package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/ariefcatur/go-shop-api.git/internal/catalog"
	"github.com/ariefcatur/go-shop-api.git/internal/config"
	kafkax "github.com/ariefcatur/go-shop-api.git/internal/kafka"
	"github.com/ariefcatur/go-shop-api.git/internal/orders"
	"github.com/ariefcatur/go-shop-api.git/internal/postgres"
	"github.com/ariefcatur/go-shop-api.git/internal/redisx"
	"github.com/ariefcatur/go-shop-api.git/internal/stockwatch"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &stockwatch.Service{
		Catalog:     &catalog.Repo{DB: db},
		Redis:       rdb,
		LowStock:    atoi(getenv("LOW_STOCK_THRESHOLD", "5")),
		ServiceName: cfg.ServiceName + "-stockwatch",
	}

	group := getenv("STOCKWATCH_GROUP", "stockwatch")
	workers := atoi(getenv("STOCKWATCH_WORKERS", "4"))
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, orders.TopicOrderPlaced, workers)

	go func() {
		log.Printf("stockwatch consumer started: group=%s topic=%s workers=%d", group, orders.TopicOrderPlaced, workers)
		if err := cons.Start(ctx, svc.HandleOrderPlaced); err != nil {
			log.Printf("consumer exit: %v", err)
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down consumer...")
	cancel()
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoi(s string) int {
	i, err := strconv.Atoi(s)
	if err != nil || i < 1 {
		return 1
	}
	return i
}
