package main

import (
	bookinghandler "hotelbooking/internal/bookings/handler"
	bookingrepo "hotelbooking/internal/bookings/repository"
	bookingservice "hotelbooking/internal/bookings/service"
	"hotelbooking/internal/bookings/validator"
	sessionhandler "hotelbooking/internal/sessions/handler"
	sessionrepo "hotelbooking/internal/sessions/repository"
	sessionservice "hotelbooking/internal/sessions/service"
	"hotelbooking/internal/verification"
	"hotelbooking/pkg/app"
	"hotelbooking/pkg/config"
	"hotelbooking/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const ServiceName = "booking-intake"

func main() {
	cfg := config.Load(ServiceName)
	cfg.Log.Info("Starting booking intake service")

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(metrics.Namespace, reg)

	serverApp := app.NewApplication(cfg, ServiceName, m)
	handlers := initHandlers(cfg, serverApp, m)
	serverApp.SetApp(handlers...)
	serverApp.Run()
}

func initHandlers(cfg *config.Config, serverApp *app.Application, m *metrics.Metrics) []app.Handler {
	reporter := serverApp.Reporter()

	var verifier verification.Verifier = verification.Disabled{}
	if cfg.VerificationEnabled {
		verifier = verification.NewRecaptchaVerifier(
			cfg.RecaptchaVerifyURL,
			cfg.RecaptchaSecretKey,
			cfg.RecaptchaMinScore,
			cfg.RecaptchaTimeout,
		)
		cfg.Log.Info("Bot verification enabled", "min_score", cfg.RecaptchaMinScore)
	} else {
		cfg.Log.Warn("Bot verification disabled, bookings are accepted without a token")
	}

	bookingRepo := bookingrepo.NewMongoBookingRepository(cfg)
	serverApp.OnConnect(bookingRepo.EnsureIndexes)
	bookingService := bookingservice.NewBookingService(
		bookingRepo,
		validator.NewBookingValidator(cfg.Log),
		verifier,
		reporter,
		m,
		cfg,
	)
	handlers := []app.Handler{bookinghandler.NewBookingHandler(bookingService, cfg.Log)}
	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)

	if cfg.SessionLoggingEnabled {
		sessionRepo := sessionrepo.NewMongoVisitorSessionRepository(cfg)
		serverApp.OnConnect(sessionRepo.EnsureIndexes)
		sessionService := sessionservice.NewVisitorSessionService(sessionRepo, reporter, m, cfg)
		handlers = append(handlers, sessionhandler.NewVisitorSessionHandler(sessionService, cfg.Log))
		cfg.Log.Info("Visitor session logging enabled")
	}

	return handlers
}
