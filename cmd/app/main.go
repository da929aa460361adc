package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"
	dbadapter "timelium/internal/adapters/database"
	"timelium/internal/adapters/httpapi"
	kafkaadapter "timelium/internal/adapters/kafka"
	redisadapter "timelium/internal/adapters/redis"
	"timelium/internal/config"
	feedapp "timelium/internal/core/feed/service"
	"timelium/internal/core/post"
	postapp "timelium/internal/core/post/service"
	"timelium/internal/core/postevent"
	"timelium/internal/core/user"
	userapp "timelium/internal/core/user/service"
	"timelium/internal/workers"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Init()
	logger := config.InitLogger(modeOf(cfg))
	defer logger.Sync()
	if err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	db, err := config.InitDB(cfg.DBDSN)
	if err != nil {
		logger.Fatal("Error connecting to the database", zap.Error(err))
	}
	if err := db.AutoMigrate(
		&user.User{},
		&post.Post{},
		&postevent.PostEvent{},
	); err != nil {
		logger.Fatal("Error during migrations", zap.Error(err))
	}
	logger.Info("✅ Database migrations completed")

	redisClient, err := config.InitRedis(cfg)
	if err != nil {
		logger.Fatal("Error connecting to Redis", zap.Error(err))
	}

	publisher, err := kafkaadapter.NewPublisher(kafkaadapter.Config{
		Brokers:      cfg.KafkaBrokers,
		Topic:        cfg.KafkaTopic,
		WriteTimeout: cfg.KafkaWriteTimeout,
	})
	if err != nil {
		logger.Fatal("Error creating Kafka publisher", zap.Error(err))
	}
	defer closeResources(logger, db, redisClient, publisher)

	// outbound adapters
	userRepo := redisadapter.NewUserRepositoryCache(dbadapter.NewUserRepositoryDatabase(db), redisClient, cfg.UserCacheTTL, logger)
	postRepo := dbadapter.NewPostRepositoryDatabase(db)
	outboxRepo := dbadapter.NewOutboxRepositoryDatabase(db)

	// use cases
	userSvc := userapp.NewUserService(userRepo, logger)
	postSvc := postapp.NewPostService(postRepo, userRepo, outboxRepo, logger)
	feedSvc := feedapp.NewFeedService(postRepo, userRepo, logger)

	r := httpapi.SetupRoutes(userSvc, postSvc, feedSvc, []byte(cfg.JWTSecret), logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.SeedDemo {
		seedDemo(ctx, logger, userSvc, postSvc)
	}

	relay := workers.NewOutboxRelay(outboxRepo, publisher, cfg.OutboxBatchSize, cfg.OutboxPollInterval, logger)
	relayDone := make(chan struct{})
	go func() {
		relay.Run(ctx)
		close(relayDone)
	}()

	srv := &http.Server{Addr: ":" + cfg.AppPort, Handler: r}
	go func() {
		logger.Info("App is running...", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("🛑 Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error shutting down server", zap.Error(err))
	}
	<-relayDone
}

func modeOf(cfg *config.Config) string {
	if cfg == nil {
		return "development"
	}
	return cfg.LogMode
}

// closeResources closes Kafka, Redis and the database connection
func closeResources(logger *zap.Logger, db *gorm.DB, redisClient *redis.Client, publisher *kafkaadapter.Publisher) {
	if err := publisher.Close(); err != nil {
		logger.Error("Error closing Kafka writer", zap.Error(err))
	}

	if err := redisClient.Close(); err != nil {
		logger.Error("Error closing Redis connection", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("Error getting raw DB", zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Error("Error closing database connection", zap.Error(err))
	}
}
