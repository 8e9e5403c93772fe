package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"parcel-logistics/config"
	"parcel-logistics/database"
	"parcel-logistics/logger"
	"parcel-logistics/middleware"
	"parcel-logistics/routes"
	"parcel-logistics/services/cache"
	"parcel-logistics/services/image_store"
	"parcel-logistics/services/ledger"
	"parcel-logistics/services/notification"
	"parcel-logistics/services/parcel_event"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	goredis "github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading configuration:", err)
		os.Exit(1)
	}

	appLog, err := logger.Init(logger.Options{Mode: cfg.AppEnv, Directory: cfg.LogDir})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing logger:", err)
		os.Exit(1)
	}
	defer logger.Close()

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		logger.Error("Failed to connect to the database", err)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.JWTSecret == "" {
		logger.Warning("JWT_SECRET is not set, every protected route will answer 401")
	}

	opts := ledger.Options{DB: db, Log: appLog, TimeZone: cfg.TimeZone}

	// Redis, Kafka and RabbitMQ are optional. Without them the ledger falls back to no-op collaborators.
	var rdb *goredis.Client
	if cfg.RedisAddr != "" {
		rdb, err = cache.NewRedisClient(ctx, cfg.RedisAddr)
		if err != nil {
			logger.Warning("Redis unavailable, response cache disabled: " + err.Error())
		} else {
			defer rdb.Close()
			opts.Invalidator = cache.NewRedisInvalidator(rdb)
			logger.Success("Connected to Redis at " + cfg.RedisAddr)
		}
	}

	if cfg.Brokers.KafkaBroker != "" {
		producer := parcel_event.NewKafkaProducer(cfg.Brokers.KafkaBroker, cfg.Brokers.KafkaTopic)
		defer producer.Close()
		opts.Events = producer
		logger.Success("Publishing parcel events to topic " + cfg.Brokers.KafkaTopic)
	}

	if cfg.Brokers.RabbitMQURL != "" {
		client, err := notification.NewClient(cfg.Brokers.RabbitMQURL)
		if err != nil {
			logger.Warning("RabbitMQ unavailable, notifications disabled: " + err.Error())
		} else {
			defer client.Close()
			queue, err := notification.NewRabbitQueue(client)
			if err != nil {
				logger.Warning("Failed to declare notification queue: " + err.Error())
			} else {
				opts.Notifier = queue
				logger.Success("Queueing customer notifications on " + notification.QueueName)
			}
		}
	}

	asyncLogger := logger.NewAsyncLogger(db, appLog)
	go asyncLogger.ProcessLog()
	defer asyncLogger.Close()

	app := fiber.New(fiber.Config{
		ReadBufferSize:  32768, // 32KB read buffer
		WriteBufferSize: 32768, // 32KB write buffer
		ReadTimeout:     time.Second * 30,
		WriteTimeout:    time.Second * 30,
		BodyLimit:       50 * 1024 * 1024, // 50MB body limit
		ErrorHandler:    middleware.ErrorHandler,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowMethods:     "GET,POST,PATCH,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: cfg.FrontendURL != "*",
	}))
	app.Static("/"+cfg.UploadDir, cfg.UploadDir)

	routes.SetupRoutes(app, routes.Dependencies{
		Ledger:      ledger.New(opts),
		Images:      image_store.NewDiskStore(cfg.UploadDir),
		AsyncLogger: asyncLogger,
		Auth:        middleware.NewAuth(cfg.JWTSecret),
		Cache:       middleware.NewResponseCache(rdb, appLog),
	})

	go func() {
		<-ctx.Done()
		logger.Info("Shutting down server")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Error("Server shutdown failed", err)
		}
	}()

	logger.Success("Server is running on ip: " + cfg.AppHost + " port: " + cfg.AppPort)
	if err := app.Listen(cfg.AppHost + ":" + cfg.AppPort); err != nil {
		logger.Error("Server stopped", err)
	}
}
