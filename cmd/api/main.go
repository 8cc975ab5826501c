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

	"github.com/ariefcatur/go-shop-api.git/internal/auth"
	"github.com/ariefcatur/go-shop-api.git/internal/catalog"
	"github.com/ariefcatur/go-shop-api.git/internal/config"
	"github.com/ariefcatur/go-shop-api.git/internal/httpx"
	kafkax "github.com/ariefcatur/go-shop-api.git/internal/kafka"
	"github.com/ariefcatur/go-shop-api.git/internal/orders"
	"github.com/ariefcatur/go-shop-api.git/internal/postgres"
	"github.com/ariefcatur/go-shop-api.git/internal/redisx"
	"github.com/ariefcatur/go-shop-api.git/internal/reviews"
	"github.com/ariefcatur/go-shop-api.git/internal/users"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producer
	prod := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderPlaced, 1024)
	prod.Start(ctx)

	// Stores & services
	userStore := &users.Repo{DB: db}
	catalogStore := catalog.NewCachedStore(&catalog.Repo{DB: db}, rdb)
	orderStore := &orders.Repo{DB: db}
	tokens := &auth.RedisTokenStore{RDB: rdb}

	am := &httpx.AuthMiddleware{Tokens: tokens, Users: userStore}
	router := httpx.NewRouter(am.Handler)

	(&httpx.ProductsHandler{Catalog: catalogStore}).Register(router)
	(&httpx.CategoriesHandler{Catalog: catalogStore}).Register(router)
	(&httpx.OrdersHandler{
		Service:  orders.NewService(orderStore),
		Store:    orderStore,
		Producer: prod,
		Name:     cfg.ServiceName,
	}).Register(router)
	(&httpx.ReviewsHandler{
		Reviews: reviews.NewService(&reviews.Repo{DB: db}),
		Catalog: catalogStore,
	}).Register(router)
	(&httpx.UsersHandler{Users: userStore, Tokens: tokens}).Register(router)

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prod.Close() // stop accepting -> flush & close writer
	prod.WaitClosed()
}
