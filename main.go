package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"bookie/config"
	"bookie/database"
	"bookie/events"
	"bookie/jobs"
	"bookie/logger"
	"bookie/metrics"
	"bookie/providers/feed"
	"bookie/routes"
	"bookie/services"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using process environment")
	}

	cfg := config.Load()

	l, err := logger.New("bookie", cfg.Env)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer l.Sync()
	zap.ReplaceGlobals(l)

	database.Connect()

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			zap.L().Fatal("failed to connect to redis", zap.Error(err))
		}
		zap.L().Info("connected to redis", zap.String("addr", cfg.RedisAddr))
	}

	publisher := events.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopicBetSettled)
	defer publisher.Close()

	engine := services.NewEngine(database.DB, publisher)
	feedClient := feed.NewClient(cfg.FeedAPIURL, cfg.FeedAPIKey, rdb)

	app := fiber.New()
	routes.Setup(app, engine, feedClient)

	if feedClient.Configured() {
		settler := services.NewAutoSettler(database.DB, engine, feedClient)
		jobs.StartAutoSettleScheduler(settler, rdb, cfg.AutoSettleInterval)
		zap.L().Info("auto-settle scheduler started", zap.Duration("interval", cfg.AutoSettleInterval))
	} else {
		zap.L().Info("no odds feed configured, auto-settle disabled")
	}

	metricsSrv := metrics.StartServer(cfg.MetricsPort, func(ctx context.Context) error {
		sqlDB, err := database.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	})

	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)
	go func() {
		zap.L().Info("server listening", zap.String("addr", addr))
		if err := app.Listen(addr); err != nil {
			zap.L().Fatal("failed to start server", zap.Error(err))
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	zap.L().Info("shutting down")
	if err := app.Shutdown(); err != nil {
		zap.L().Error("server forced to shutdown", zap.Error(err))
	}
	_ = metricsSrv.Shutdown(context.Background())
	zap.L().Info("server exited")
}
