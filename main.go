package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/KeshavX3/ERP-2/controllers"
	"github.com/KeshavX3/ERP-2/database"
	"github.com/KeshavX3/ERP-2/kafka"
	"github.com/KeshavX3/ERP-2/logger"
	"github.com/KeshavX3/ERP-2/repository"
	"github.com/KeshavX3/ERP-2/routes"
	"github.com/KeshavX3/ERP-2/services"
)

const cartTTL = 30 * 24 * time.Hour

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		zap.NewExample().Fatal("Failed to load configuration", zap.Error(err))
	}

	logger.Initialize(cfg.Env)
	defer logger.Log.Sync()

	if err := database.Connect(cfg.MongoURI, cfg.MongoDB); err != nil {
		zap.L().Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer database.Close()

	bootCtx, bootCancel := context.WithTimeout(context.Background(), 15*time.Second)
	if err := database.EnsureIndexes(bootCtx, database.DB); err != nil {
		zap.L().Fatal("Failed to create indexes", zap.Error(err))
	}
	bootCancel()

	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		zap.L().Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()

	// Repositories
	orderRepo := repository.NewMongoOrderRepository(database.DB)
	productRepo := repository.NewMongoProductRepository(database.DB)
	categoryRepo := repository.NewMongoCategoryRepository(database.DB)
	brandRepo := repository.NewMongoBrandRepository(database.DB)
	userRepo := repository.NewMongoUserRepository(database.DB)
	cartStore := repository.NewRedisCartStore(redisClient, cartTTL)

	// Order events are best-effort; without brokers the producer is nil
	// and the order service skips publishing.
	var producer kafka.ProducerAPI
	if len(cfg.KafkaBrokers) > 0 {
		p := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer p.Close()
		producer = p
	} else {
		zap.L().Info("KAFKA_BROKERS not set, order events disabled")
	}

	// Services
	tokens := services.NewTokenService(cfg.JWTSecret)
	mailer := services.NewMailer(services.EmailConfig{
		Host:       cfg.SMTPHost,
		Port:       cfg.SMTPPort,
		User:       cfg.SMTPUser,
		Pass:       cfg.SMTPPass,
		SenderName: cfg.SenderName,
	})
	authService := services.NewAuthService(userRepo, cartStore, tokens, mailer)
	googleService := services.NewGoogleAuthService(userRepo, tokens, cfg.GoogleClientID)
	productService := services.NewProductService(productRepo, categoryRepo, brandRepo)
	categoryService := services.NewCategoryService(categoryRepo)
	brandService := services.NewBrandService(brandRepo)
	cartService := services.NewCartService(cartStore, productService)
	orderService := services.NewOrderService(orderRepo, cartStore, producer)

	ctrls := routes.Controllers{
		Auth:     controllers.NewAuthController(authService, googleService),
		Product:  controllers.NewProductController(productService),
		Category: controllers.NewCategoryController(categoryService),
		Brand:    controllers.NewBrandController(brandService),
		Cart:     controllers.NewCartController(cartService),
		Order:    controllers.NewOrderController(orderService),
	}

	if cfg.S3Bucket != "" {
		uploadService, err := services.NewUploadService(context.Background(), cfg.S3Bucket, cfg.S3Region)
		if err != nil {
			zap.L().Warn("Uploads disabled", zap.Error(err))
		} else {
			ctrls.Upload = controllers.NewUploadController(uploadService)
		}
	} else {
		zap.L().Info("S3_BUCKET not set, uploads disabled")
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(logger.RequestLogger(), gin.Recovery())
	routes.Register(r, tokens, ctrls)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		zap.L().Info("Server starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.L().Fatal("Server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zap.L().Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("Forced shutdown", zap.Error(err))
	}
}
