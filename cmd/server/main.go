package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/nexus-commerce/storefront/internal/admin"
	"github.com/nexus-commerce/storefront/internal/cart"
	"github.com/nexus-commerce/storefront/internal/catalog"
	"github.com/nexus-commerce/storefront/internal/checkout"
	"github.com/nexus-commerce/storefront/internal/consumer"
	h "github.com/nexus-commerce/storefront/internal/http"
	"github.com/nexus-commerce/storefront/internal/kv"
	"github.com/nexus-commerce/storefront/internal/orders"
	"github.com/nexus-commerce/storefront/internal/payments"
	"github.com/nexus-commerce/storefront/internal/pricing"
	"github.com/nexus-commerce/storefront/internal/publisher"
	"github.com/nexus-commerce/storefront/internal/wishlist"
)

type Config struct {
	HTTPPort          string
	RedisAddr         string
	CatalogDBPath     string
	CatalogMigrations string
	PostgresHost      string
	PostgresPort      int
	PostgresUser      string
	PostgresPassword  string
	PostgresDB        string
	OrdersMigrations  string
	MongoURI          string
	MongoDatabase     string
	KafkaBrokers      []string
	RequestTimeout    time.Duration
	ShutdownTimeout   time.Duration
}

func loadConfig() *Config {
	pgPort, err := strconv.Atoi(getEnv("POSTGRES_PORT", "5432"))
	if err != nil {
		log.Fatalf("invalid POSTGRES_PORT: %v", err)
	}

	return &Config{
		HTTPPort:          getEnv("HTTP_PORT", "8080"),
		RedisAddr:         getEnv("REDIS_ADDR", ""),
		CatalogDBPath:     getEnv("CATALOG_DB_PATH", "./storefront.db"),
		CatalogMigrations: getEnv("CATALOG_MIGRATIONS_PATH", "./internal/catalog/migrations"),
		PostgresHost:      getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:      pgPort,
		PostgresUser:      getEnv("POSTGRES_USER", "postgres"),
		PostgresPassword:  getEnv("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:        getEnv("POSTGRES_DB", "storefront"),
		OrdersMigrations:  getEnv("ORDERS_MIGRATIONS_PATH", "./internal/orders/migrations"),
		MongoURI:          getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:     getEnv("MONGO_DATABASE", "storefront"),
		KafkaBrokers:      strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		RequestTimeout:    30 * time.Second,
		ShutdownTimeout:   10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Cart persistence: Redis when configured, in-process memory otherwise.
	var kvStore kv.Store
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			log.Fatalf("failed to ping redis: %v", err)
		}
		defer client.Close()
		kvStore = kv.NewRedisStore(client)
		log.Printf("cart state persisted to redis at %s", cfg.RedisAddr)
	} else {
		kvStore = kv.NewMemoryStore()
		log.Println("REDIS_ADDR not set, cart state kept in process memory")
	}
	cartManager := cart.NewManager(kvStore)

	// Product catalog on sqlite.
	catalogRepo, err := catalog.NewRepository(cfg.CatalogDBPath)
	if err != nil {
		log.Fatalf("failed to open catalog database: %v", err)
	}
	defer catalogRepo.Close()
	if err := catalogRepo.RunMigrations(cfg.CatalogMigrations); err != nil {
		log.Fatalf("failed to run catalog migrations: %v", err)
	}

	// Orders on postgres.
	creds := &orders.Credentials{
		Host:              cfg.PostgresHost,
		Port:              cfg.PostgresPort,
		User:              cfg.PostgresUser,
		Password:          cfg.PostgresPassword,
		DBName:            cfg.PostgresDB,
		MigrationsDirPath: cfg.OrdersMigrations,
	}
	ordersRepo, err := orders.NewRepository(creds)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer ordersRepo.Close()
	if err := ordersRepo.RunMigrations(creds); err != nil {
		log.Fatalf("failed to run orders migrations: %v", err)
	}

	// Wishlists on mongo.
	mongoDB, err := wishlist.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Fatalf("failed to connect to MongoDB: %v", err)
	}
	wishlistRepo := wishlist.NewMongoRepository(mongoDB)

	checkoutSvc := checkout.NewService(cartManager, ordersRepo, pricing.DefaultConfig())
	paymentsSvc := payments.NewService(payments.NewMockProvider())
	adminSvc := admin.NewService(ordersRepo, catalogRepo)

	// Outbox poller publishes OrderPlaced events; the consumer clears carts
	// when those events come back around.
	poller := publisher.NewOutboxPoller(ordersRepo, cfg.KafkaBrokers...)
	defer poller.Close()
	go poller.Run(ctx)

	cartConsumer := consumer.NewCartConsumer(cartManager, cfg.KafkaBrokers...)
	defer cartConsumer.Close()
	go cartConsumer.Run(ctx)

	router := h.NewRouter(h.Handlers{
		Cart:     h.NewCartHandler(cartManager, catalogRepo, pricing.DefaultConfig()),
		Products: h.NewProductHandler(catalogRepo),
		Orders:   h.NewOrdersHandler(checkoutSvc, ordersRepo),
		Payments: h.NewPaymentHandler(paymentsSvc),
		Admin:    h.NewAdminHandler(adminSvc),
		Wishlist: h.NewWishlistHandler(wishlistRepo, catalogRepo),
		Users:    h.NewUserHandler(cartManager),
	}, cfg.RequestTimeout)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "storefront"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("storefront starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()

	log.Println("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
