package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"restaurant-service/config"
	"restaurant-service/database"
	"restaurant-service/logger"
	awspkg "restaurant-service/pkg/aws"
	"restaurant-service/repository"
	"restaurant-service/routes"
	"restaurant-service/services"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("[RestaurantService] ❌ Failed to load config: ", err)
	}

	zl, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatal("[RestaurantService] ❌ ", err)
	}
	defer zl.Sync()

	if cfg.SecretsFallback != nil {
		zl.Warn("Secrets Manager unavailable, using environment values", zap.Error(cfg.SecretsFallback))
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	storeCtx, stopReconnect := context.WithCancel(context.Background())
	store, mongoClients := openStore(storeCtx, cfg, zl, database.Connect)
	defer func() {
		stopReconnect()
		select {
		case client := <-mongoClients:
			if err := database.Close(client); err != nil {
				zl.Warn("MongoDB disconnect failed", zap.Error(err))
			}
		default:
		}
	}()

	var events awspkg.SNSPublisher
	if cfg.PaymentTopicARN != "" {
		awsCfg, err := awspkg.LoadAWSConfig(context.Background())
		if err != nil {
			zl.Warn("AWS config init failed, payment events disabled (non-fatal)", zap.Error(err))
		} else {
			events = awspkg.NewSNSClient(awsCfg)
		}
	}

	router := routes.NewRouter(routes.Dependencies{
		Store:          store,
		Tokens:         services.NewTokenService(cfg.AccessTokenSecret),
		Payments:       services.NewStripeService(cfg.PaymentSecretKey, ""),
		Checkout:       services.NewCheckoutService(store, events, cfg.PaymentTopicARN, zl),
		Currency:       cfg.PaymentCurrency,
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         zl,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		zl.Info("server is running", zap.String("port", cfg.Port), zap.String("db_driver", cfg.DBDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("Server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zl.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zl.Error("Server forced to shutdown", zap.Error(err))
	}
	zl.Info("Server exited cleanly")
}

type connectFunc func(mongoURL, dbName string, logger *zap.Logger) (*mongo.Client, *mongo.Database, error)

var reconnectInterval = 10 * time.Second

// openStore picks the store backend. When MongoDB cannot be reached the
// service still starts: store calls fail (500) and the connect is retried
// every reconnectInterval until it succeeds or ctx is done. The connected
// client is delivered on the returned channel for shutdown.
func openStore(ctx context.Context, cfg *config.Config, zl *zap.Logger, connect connectFunc) (*repository.Store, <-chan *mongo.Client) {
	clients := make(chan *mongo.Client, 1)

	if cfg.DBDriver == config.DriverMemory {
		zl.Warn("Using in-memory store, data is lost on restart")
		return repository.NewMemoryStore(), clients
	}

	client, db, err := connect(cfg.MongoURI, cfg.DBName, zl)
	if err == nil {
		clients <- client
		return repository.NewMongoStore(db), clients
	}

	zl.Error("MongoDB unreachable at startup, serving without a database", zap.Error(err))
	store, pending := repository.NewPendingStore(err)
	interval := reconnectInterval

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			if ctx.Err() != nil {
				return
			}

			client, db, err := connect(cfg.MongoURI, cfg.DBName, zl)
			if err != nil {
				zl.Warn("MongoDB reconnect failed", zap.Error(err))
				pending.Fail(err)
				continue
			}
			pending.Bind(db)
			clients <- client
			zl.Info("MongoDB connected after retry", zap.String("database", cfg.DBName))
			return
		}
	}()

	return store, clients
}
