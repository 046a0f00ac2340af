package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Arsh369/thekitabart/internal/cart"
	"github.com/Arsh369/thekitabart/internal/checkout"
	"github.com/Arsh369/thekitabart/internal/events"
	"github.com/Arsh369/thekitabart/internal/gateway"
	h "github.com/Arsh369/thekitabart/internal/http"
	"github.com/Arsh369/thekitabart/internal/storage"
	"github.com/redis/go-redis/v9"
)

type Config struct {
	HTTPPort        string
	BackendURL      string
	RedisAddr       string
	RedisPassword   string
	KafkaBrokers    string
	OrderTopic      string
	DefaultUserID   string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		BackendURL:      getEnv("BACKEND_URL", "http://localhost:5000"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		KafkaBrokers:    getEnv("KAFKA_BROKERS", ""),
		OrderTopic:      getEnv("ORDER_TOPIC", "storefront.orders.placed"),
		DefaultUserID:   getEnv("DEFAULT_USER_ID", "guest"),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	log.Println("storefront starting...")

	cfg := loadConfig()
	ctx := context.Background()

	// Cart persistence. Storage faults are non-fatal: the session
	// continues in memory only.
	var kv storage.KeyValueStore
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Printf("redis unreachable, cart will not survive restarts: %v", err)
		kv = storage.NewMemoryStore()
	} else {
		log.Printf("connected to redis at %s", cfg.RedisAddr)
		kv = storage.NewRedisStore(redisClient)
	}
	defer redisClient.Close()

	cartStore := cart.NewStore(kv)
	cartStore.Load(ctx)
	log.Printf("cart restored with %d items", cartStore.Len())

	catalog := gateway.NewCatalogGateway(cfg.BackendURL, cfg.RequestTimeout)
	orders := gateway.NewOrderGateway(cfg.BackendURL, cfg.RequestTimeout)

	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.KafkaBrokers != "" {
		kafkaPublisher := events.NewKafkaPublisher(cfg.OrderTopic, strings.Split(cfg.KafkaBrokers, ",")...)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		log.Printf("publishing order events to %s", cfg.KafkaBrokers)
	}

	coordinator := checkout.NewCoordinator(cartStore, orders, publisher)

	router := h.NewRouter(h.RouterConfig{
		RequestTimeout: cfg.RequestTimeout,
		DefaultUserID:  cfg.DefaultUserID,
	},
		h.NewCartHandler(cartStore, catalog),
		h.NewBookHandler(catalog),
		h.NewCheckoutHandler(coordinator),
		h.NewOrdersHandler(orders),
	)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("storefront listening on port %s", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down storefront...")
	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	log.Println("storefront stopped")
}
