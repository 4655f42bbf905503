package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/Wamwod10/hotel-backend/config"
	"github.com/Wamwod10/hotel-backend/handlers"
	"github.com/Wamwod10/hotel-backend/logging"
	"github.com/Wamwod10/hotel-backend/mailer"
	"github.com/Wamwod10/hotel-backend/monitoring"
	"github.com/Wamwod10/hotel-backend/service"
)

func main() {
	// Load configuration
	cfg, cfgErr := config.Load()

	// Initialize structured logging
	logOpts := logging.Options{ServiceName: "hotel-payments"}
	if cfg != nil {
		logOpts.ServiceName = cfg.ServiceName
		if cfg.OTELEnabled {
			logOpts.OTLPEndpoint = cfg.OTELEndpoint
		}
	}
	if err := logging.InitLogger(logOpts); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logging.Sync()
	defer func() {
		if err := logging.Shutdown(context.Background()); err != nil {
			logging.Error("Error shutting down logger provider", zap.Error(err))
		}
	}()

	if cfgErr != nil {
		logging.Fatal("Invalid configuration", zap.Error(cfgErr))
	}

	// Initialize OpenTelemetry
	tracer := otel.Tracer(cfg.ServiceName)
	metricsEndpoint := ""
	if cfg.OTELEnabled {
		tp, t, err := monitoring.InitTracer(cfg.ServiceName, cfg.OTELEndpoint)
		if err != nil {
			logging.Fatal("Failed to initialize tracer", zap.Error(err))
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logging.Error("Error shutting down tracer provider", zap.Error(err))
			}
		}()
		tracer = t
		metricsEndpoint = cfg.OTELEndpoint
	}

	mp, _, err := monitoring.InitMeter(cfg.ServiceName, metricsEndpoint)
	if err != nil {
		logging.Fatal("Failed to initialize meter", zap.Error(err))
	}
	defer func() {
		if err := mp.Shutdown(context.Background()); err != nil {
			logging.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	// Mail
	smtpMailer := mailer.NewSMTPMailer(cfg.Mail)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Mail.Timeout)
		defer cancel()
		if err := smtpMailer.Verify(ctx); err != nil {
			logging.Error("SMTP verification failed", zap.Error(err), zap.String("host", cfg.Mail.Host))
			return
		}
		logging.Info("SMTP connection verified", zap.String("host", cfg.Mail.Host))
	}()
	mailService := mailer.NewService(smtpMailer, cfg.Mail.User, cfg.Mail.FromName, cfg.Mail.Timeout)

	// Initialize service layer
	paymentService := service.NewPaymentService(tracer, cfg)
	notificationService := service.NewNotificationService(
		tracer,
		mailService,
		service.NewConverter(cfg.ExchangeRate),
		cfg.Mail.AdminAddress,
		service.DefaultTemplates(cfg.Mail.FromName),
	)

	// Initialize handlers
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	notificationHandler := handlers.NewNotificationHandler(notificationService, mailService, cfg.NotifyTrigger)

	gin.SetMode(gin.ReleaseMode)
	r := handlers.NewRouter(handlers.RouterConfig{
		ServiceName:    cfg.ServiceName,
		AllowedOrigins: cfg.AllowedOrigins,
		MetricsHandler: monitoring.Handler(),
	}, paymentHandler, notificationHandler)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logging.Info("Hotel payments service starting",
			zap.String("port", cfg.Port),
			zap.String("base_url", cfg.BaseURL),
			zap.String("notify_trigger", cfg.NotifyTrigger),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logging.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error("Server shutdown failed", zap.Error(err))
	}
}
