package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"givemap/internal/auth"
	"givemap/internal/cache"
	"givemap/internal/config"
	"givemap/internal/events"
	"givemap/internal/job"
	"givemap/internal/logger"
	"givemap/internal/notify"
	"givemap/internal/routes"
	"givemap/internal/services"
	"givemap/internal/storage"
)

func main() {
	cfg := config.Load()
	logger.Setup(cfg.LogFile, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := config.InitDB(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("database setup failed")
	}

	store, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logrus.WithError(err).Fatal("cache setup failed")
	}
	defer store.Close()

	var mailer notify.Mailer = notify.LogMailer{}
	if cfg.SMTPHost != "" {
		mailer = notify.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom, cfg.MailTimeout)
	}
	dispatcher := notify.NewDispatcher(db, mailer, cfg.MailMaxAttempts)

	hub := events.NewHub()
	sinks := []events.Publisher{hub}
	var kafka *events.KafkaSink
	if len(cfg.KafkaBrokers) > 0 {
		kafka, err = events.NewKafkaSink(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			logrus.WithError(err).Fatal("kafka setup failed")
		}
		sinks = append(sinks, kafka)
	}
	bus := events.NewBus(sinks...)

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.TokenTTL)
	authService := services.NewAuthService(db, tokens, dispatcher, cfg.AppURL)
	locationService := services.NewLocationService(db, bus, dispatcher)

	scheduler := cron.New()
	if err := job.Schedule(scheduler, dispatcher, authService); err != nil {
		logrus.WithError(err).Fatal("scheduling jobs failed")
	}
	scheduler.Start()

	router := routes.SetupRouter(routes.Dependencies{
		DB:                 db,
		Tokens:             tokens,
		Auth:               authService,
		Locations:          locationService,
		Feedback:           services.NewFeedbackService(db),
		Reports:            services.NewReportService(db, store),
		Users:              services.NewUserService(db),
		Images:             storage.NewImageStore(cfg.UploadDir, "uploads"),
		Hub:                hub,
		Redis:              store.Client(),
		AllowedOrigins:     cfg.AllowedOrigins,
		RequestTimeout:     cfg.RequestTimeout,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	})

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logrus.WithField("addr", srv.Addr).Info("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	logrus.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Warn("http shutdown")
	}
	<-scheduler.Stop().Done()
	dispatcher.Wait()
	hub.Close()
	if kafka != nil {
		if err := kafka.Close(); err != nil {
			logrus.WithError(err).Warn("kafka close")
		}
	}
}
