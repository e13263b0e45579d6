package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	goredis "github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"ms-checkin/internal/batch"
	batchdb "ms-checkin/internal/batch/db"
	"ms-checkin/internal/checkin"
	"ms-checkin/internal/checkin/checkin_api"
	checkindb "ms-checkin/internal/checkin/db"
	checkinredis "ms-checkin/internal/checkin/redis"
	"ms-checkin/internal/config"
	"ms-checkin/internal/database/migrations"
	"ms-checkin/internal/kafka"
	"ms-checkin/internal/logger"
	"ms-checkin/internal/notify"
	"ms-checkin/internal/qr"
	"ms-checkin/internal/share"
	sharedb "ms-checkin/internal/share/db"
	"ms-checkin/internal/share/share_api"
	"ms-checkin/internal/sse"
)

func openDatabase(cfg *config.Config, log *logger.Logger) *bun.DB {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.Database.Username, cfg.Database.Password,
		cfg.Database.Host, cfg.Database.Port, cfg.Database.Database)

	sqldb, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Failed to open Postgres: %v", err))
	}
	sqldb.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqldb.SetConnMaxLifetime(cfg.Database.MaxLifetime)

	if err := sqldb.Ping(); err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Failed to connect to Postgres: %v", err))
	}
	log.Info("DATABASE", "Postgres connection successful")

	return bun.NewDB(sqldb, pgdialect.New())
}

func main() {
	_ = godotenv.Load() // Loads .env file if present

	cfg := config.Load()
	log := logger.NewLogger()
	defer log.Close()

	bunDB := openDatabase(cfg, log)
	defer bunDB.Close()

	runner := migrations.NewRunner(bunDB, migrations.DefaultOptions())
	if err := runner.MigrateUp(); err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Migration failed: %v", err))
	}

	redisClient := goredis.NewClient(&goredis.Options{Addr: cfg.Redis.Addr})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatal("REDIS", fmt.Sprintf("Failed to connect to Redis: %v", err))
	}
	log.Info("REDIS", "Redis connection successful")

	codec, err := qr.NewCodec(qr.CodecConfig{
		Salt:      cfg.QR.Salt,
		MinLength: cfg.QR.TokenMinLength,
	})
	if err != nil {
		log.Fatal("QR", fmt.Sprintf("Codec init failed: %v", err))
	}
	validator := qr.NewValidator(codec)

	var producer *kafka.Producer
	var scanPublisher checkin.ScanPublisher
	if cfg.Kafka.Enabled {
		producer = kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topics.ScanEvents)
		defer producer.Close()
		scanPublisher = producer
	}

	emitter := sse.NewScanEventEmitter()
	scanLock := checkinredis.NewRedis(redisClient)

	checkService := checkin.NewService(
		&checkindb.DB{Bun: bunDB}, validator, scanLock, scanPublisher, emitter, log)
	checkHandler := checkin_api.NewHandler(checkService, emitter, log)

	shareService := share.NewService(&sharedb.DB{Bun: bunDB}, log)
	shareHandler := &share_api.Handler{ShareService: shareService}

	registry := notify.NewRegistry()
	registry.Register(notify.ChannelEmail, notify.NewEmailDispatcher(cfg.Email))

	issuer := batch.NewIssuer(
		&batchdb.DB{Bun: bunDB}, codec, registry, log, cfg.QR, cfg.Batch.LeadTime)
	scheduler := batch.NewScheduler(log)
	if err := scheduler.RegisterIssuer(cfg.Batch.CronSpec, issuer); err != nil {
		log.Fatal("BATCH", fmt.Sprintf("Scheduler init failed: %v", err))
	}
	scheduler.Start()

	r := chi.NewRouter()
	r.Route("/api/qr", func(r chi.Router) {
		r.Post("/check-in", checkHandler.CheckIn)
		r.Post("/check-out", checkHandler.CheckOut)
		r.Post("/admin/force-check", checkHandler.AdminForceCheck)
		r.Get("/resolve", checkHandler.Resolve)
		r.Get("/events/{eventID}/scans/stream", checkHandler.StreamScans)
	})
	r.Route("/api/share", func(r chi.Router) {
		r.Post("/{shareTicketID}/guests", shareHandler.RegisterGuest)
		r.Get("/{shareTicketID}/guests", shareHandler.ListGuests)
	})

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("SERVER", fmt.Sprintf("Check-in service on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("SERVER", fmt.Sprintf("HTTP error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	scheduler.Stop()

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(ctxShutdown)
	log.Info("SERVER", "Check-in service shutdown complete")
}
