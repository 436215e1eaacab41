package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront-backend/config"
	"storefront-backend/controllers"
	"storefront-backend/database"
	"storefront-backend/kafka"
	"storefront-backend/logger"
	"storefront-backend/middleware"
	"storefront-backend/models"
	"storefront-backend/repository"
	"storefront-backend/routes"
	"storefront-backend/services"
)

func main() {
	cfg := config.Load()

	zapLogger, err := logger.New(cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	// Cart persistence: Redis when reachable, in-process otherwise
	var cartStore database.CartStore
	if redisClient, err := database.NewRedisClient(cfg.RedisURL); err != nil {
		zapLogger.Warn("Redis unavailable, carts held in memory", zap.Error(err))
		cartStore = database.NewMemoryCartStore()
	} else {
		zapLogger.Info("Connected to Redis")
		cartStore = database.NewRedisCartStore(redisClient, cfg.CartTTL)
	}

	producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic, zapLogger)
	defer producer.Close()

	orderRepo := repository.NewMemoryOrderRepository()
	productRepo := repository.NewMemoryProductRepository()
	quoteRepo := repository.NewMemoryQuoteRepository()

	if cfg.ProductSeedFile != "" {
		if err := seedProducts(productRepo, cfg.ProductSeedFile); err != nil {
			zapLogger.Warn("Failed to seed product catalog", zap.Error(err))
		}
	}

	orderService := services.NewOrderService(orderRepo, productRepo, producer, services.NewTimestampIDGenerator(), zapLogger)
	paymentService := services.NewPaymentService(orderRepo, producer, cfg.PaymentDelay, zapLogger)
	defer paymentService.Close()
	cartService := services.NewCartService(cartStore, zapLogger)
	cartService.SetChangeObserver(func(userID string, count int) {
		zapLogger.Debug("cart updated", zap.String("user", userID), zap.Int("count", count))
	})
	productService := services.NewProductService(productRepo, zapLogger)
	quoteService := services.NewQuoteService(quoteRepo, zapLogger)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger(zapLogger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middleware.RateLimitMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "storefront-backend"})
	})

	routes.Register(r,
		controllers.NewOrderController(orderService),
		controllers.NewPaymentController(paymentService),
		controllers.NewCartController(cartService),
		controllers.NewProductController(productService),
		controllers.NewQuoteController(quoteService),
	)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	zapLogger.Info("Storefront backend started", zap.String("port", cfg.Port))
	<-quit
	zapLogger.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	zapLogger.Info("Server exited cleanly")
}

// seedProducts loads the catalog from a JSON array of products.
func seedProducts(repo repository.ProductRepository, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var products []models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return err
	}

	for _, p := range products {
		if err := repo.Upsert(context.Background(), p); err != nil {
			return err
		}
	}
	return nil
}
