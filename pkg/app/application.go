package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	healthhandler "hotelbooking/internal/health/handler"
	"hotelbooking/pkg/config"
	apperrors "hotelbooking/pkg/errors"
	httputil "hotelbooking/pkg/http"
	"hotelbooking/pkg/metrics"
	"hotelbooking/pkg/middleware"
	"hotelbooking/pkg/telemetry"

	"github.com/julienschmidt/httprouter"
)

const (
	connectFailureFlushTimeout = 5 * time.Second
	unmatchedRoute             = "unmatched"
)

// Handler is implemented by every API handler mounted on the application router.
type Handler interface {
	RegisterRoutes(*httprouter.Router)
}

// PlainTextRoutes is implemented by handlers whose routes also accept
// text/plain bodies carrying JSON.
type PlainTextRoutes interface {
	PlainTextPaths() []string
}

// ConnectHook runs once after the store connection is established.
type ConnectHook func(ctx context.Context) error

type Application struct {
	cfg            *config.Config
	service        string
	server         *http.Server
	metrics        *metrics.Metrics
	dispatcher     *telemetry.Dispatcher
	reporter       telemetry.Reporter
	rateLimiter    *middleware.ClientRateLimiter
	healthHandler  http.Handler
	appHttpHandler http.Handler
	onConnect      []ConnectHook
}

// NewApplication builds the telemetry pipeline up front so that services
// created afterwards can report through Reporter.
func NewApplication(cfg *config.Config, service string, m *metrics.Metrics) *Application {
	a := &Application{
		cfg:     cfg,
		service: service,
		metrics: m,
	}
	a.dispatcher = newDispatcher(cfg, service, m)
	if a.dispatcher != nil {
		a.reporter = a.dispatcher
	} else {
		a.reporter = telemetry.Nop{}
	}
	return a
}

func (a *Application) Reporter() telemetry.Reporter {
	return a.reporter
}

func (a *Application) OnConnect(hook ConnectHook) {
	a.onConnect = append(a.onConnect, hook)
}

func (a *Application) SetApp(handlers ...Handler) {
	a.setHealthHandler()
	a.setAppHandler(handlers)
	a.setAppServer()
}

// Handler returns the root handler serving both probes and the API.
func (a *Application) Handler() http.Handler {
	return a.server.Handler
}

func (a *Application) setHealthHandler() {
	healthRouter := httprouter.New()
	healthHandler := healthhandler.NewHealthHandler(a.cfg.Client, a.metrics.Handler(), a.cfg.Log)
	healthHandler.RegisterRoutes(healthRouter)

	var healthHTTPHandler http.Handler = healthRouter
	healthHTTPHandler = middleware.RequestLogging(a.cfg.Log)(healthHTTPHandler)
	healthHTTPHandler = middleware.Recovery(a.cfg.Log, a.reporter)(healthHTTPHandler)
	a.healthHandler = healthHTTPHandler
	a.cfg.Log.Info("Health endpoints configured with minimal middleware (Recovery + Logging only)")
}

func (a *Application) setAppHandler(handlers []Handler) {
	appRouter := httprouter.New()
	var plainTextPaths []string
	for _, h := range handlers {
		h.RegisterRoutes(appRouter)
		if pt, ok := h.(PlainTextRoutes); ok {
			plainTextPaths = append(plainTextPaths, pt.PlainTextPaths()...)
		}
	}
	appRouter.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = httputil.WriteError(w, apperrors.NotFound("Not found"))
	})

	a.rateLimiter = middleware.NewClientRateLimiter(
		a.cfg.RateLimitRequests,
		a.cfg.RateLimitWindow,
		httputil.PeerIP,
		a.cfg.Log,
		a.metrics,
	)

	var appHttpHandler http.Handler = appRouter
	appHttpHandler = middleware.RequestTimeout(a.cfg.RequestTimeout)(appHttpHandler)
	appHttpHandler = middleware.RateLimit(a.rateLimiter)(appHttpHandler)
	appHttpHandler = middleware.ContentTypeValidation(a.cfg.Log, plainTextPaths...)(appHttpHandler)
	appHttpHandler = middleware.MaxRequestSize(int64(a.cfg.MaxRequestSize))(appHttpHandler)
	appHttpHandler = middleware.Metrics(a.metrics, routeLabel(appRouter))(appHttpHandler)
	appHttpHandler = middleware.RequestLogging(a.cfg.Log)(appHttpHandler)
	appHttpHandler = middleware.CORS(a.cfg.CORSAllowedOrigins)(appHttpHandler)
	appHttpHandler = middleware.Recovery(a.cfg.Log, a.reporter)(appHttpHandler)
	a.appHttpHandler = appHttpHandler
	a.cfg.Log.Info("Application endpoints configured with full middleware stack",
		"cors_unrestricted", a.cfg.CORSUnrestricted(),
	)
}

// routeLabel keeps metric cardinality bounded by labelling unknown paths.
func routeLabel(router *httprouter.Router) middleware.RouteFunc {
	return func(r *http.Request) string {
		if handle, _, _ := router.Lookup(r.Method, r.URL.Path); handle != nil {
			return r.URL.Path
		}
		return unmatchedRoute
	}
}

func (a *Application) setAppServer() {
	mux := http.NewServeMux()
	mux.Handle("GET /{$}", a.healthHandler)
	mux.Handle("/health", a.healthHandler)
	mux.Handle("/ready", a.healthHandler)
	mux.Handle("/metrics", a.healthHandler)
	mux.Handle("/", a.appHttpHandler)

	a.server = &http.Server{
		Addr:         ":" + a.cfg.Port,
		Handler:      mux,
		ReadTimeout:  a.cfg.ReadTimeout,
		WriteTimeout: a.cfg.WriteTimeout,
		IdleTimeout:  a.cfg.IdleTimeout,
	}

	a.cfg.Log.Info("HTTP server configured", "port", a.cfg.Port)
}

// connectStore connects to MongoDB and runs the connect hooks. Requests
// arriving before it succeeds are answered with 503.
func (a *Application) connectStore(ctx context.Context) error {
	if err := a.cfg.SetMongo(ctx); err != nil {
		a.reporter.CaptureError(ctx, "mongo.connect", err, nil)
		return err
	}

	for _, hook := range a.onConnect {
		if err := hook(ctx); err != nil {
			a.cfg.Log.Error("Post-connect hook failed", "error", err)
			a.reporter.CaptureError(ctx, "mongo.post_connect", err, nil)
		}
	}
	return nil
}

func (a *Application) Run() {
	serverErrors := make(chan error, 1)
	storeErrors := make(chan error, 1)

	go func() {
		a.cfg.Log.Info("Starting HTTP server", "address", a.server.Addr)
		serverErrors <- a.server.ListenAndServe()
	}()

	go func() {
		if err := a.connectStore(context.Background()); err != nil {
			storeErrors <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			a.flushTelemetry()
			a.cfg.Log.Fatal("HTTP server failed", "error", err)
		}

	case err := <-storeErrors:
		a.flushTelemetry()
		a.cfg.Log.Fatal("MongoDB connection failed", "error", err)

	case sig := <-shutdown:
		a.cfg.Log.Info("Shutdown signal received", "signal", sig)
		a.gracefulShutdown()
	}
}

func (a *Application) flushTelemetry() {
	if a.dispatcher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), connectFailureFlushTimeout)
	defer cancel()
	if err := a.dispatcher.Flush(ctx); err != nil {
		a.cfg.Log.Warn("Telemetry flush incomplete", "error", err)
	}
}

func (a *Application) gracefulShutdown() {
	a.cfg.Log.Info("Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.cfg.Log.Error("Server shutdown failed", "error", err)
		if err := a.server.Close(); err != nil {
			a.cfg.Log.Error("Could not stop server gracefully", "error", err)
		}
	}

	a.cfg.Log.Info("Stopping background workers...")
	a.rateLimiter.Stop()
	if a.dispatcher != nil {
		if err := a.dispatcher.Close(ctx); err != nil {
			a.cfg.Log.Warn("Telemetry dispatcher did not drain", "error", err)
		}
	}
	a.cfg.Log.Info("Background workers stopped")

	a.cfg.GracefulShutdown(ctx)
	a.cfg.Log.Info("Server stopped gracefully")
}
