package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"hrpayroll/internal/domain/employee"
	"hrpayroll/internal/domain/payroll"
	"hrpayroll/internal/platform/config"
	"hrpayroll/internal/platform/db"
	"hrpayroll/internal/platform/logger"
	"hrpayroll/internal/platform/metrics"
	employeehandler "hrpayroll/internal/transport/http/handlers/employee"
	payrollhandler "hrpayroll/internal/transport/http/handlers/payroll"
	"hrpayroll/internal/transport/http/middleware"
)

type App struct {
	Config config.Config
	DB     *pgxpool.Pool
	Router http.Handler
	Logger *zap.Logger
}

// Deps is everything the router needs. Keeping it separate from App lets
// tests build a router without a database.
type Deps struct {
	Config    config.Config
	Logger    *zap.Logger
	Employees employeehandler.Service
	Payroll   payrollhandler.Service
	Importer  payrollhandler.Importer
	Metrics   *metrics.Collector
	Gatherer  prometheus.Gatherer
	Ready     func(ctx context.Context) error
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
		log.Info("migrations applied")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.New(registry)

	employees := employee.NewService(employee.NewStore(pool))
	policy := payroll.Policy{ShiftHours: cfg.StandardShiftHours}
	payrollStore := payroll.NewStore(pool)

	router := NewRouter(Deps{
		Config:    cfg,
		Logger:    log,
		Employees: employees,
		Payroll:   payroll.NewService(payrollStore, employees, policy, collector),
		Importer:  payroll.NewImporter(payrollStore, employees, policy, collector, log.Named("import")),
		Metrics:   collector,
		Gatherer:  registry,
		Ready:     pool.Ping,
	})

	return &App{Config: cfg, DB: pool, Router: router, Logger: log}, nil
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID(log))
	router.Use(middleware.AccessLog)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Metrics(deps.Metrics))
	router.Use(middleware.SecureHeaders(cfg.IsProduction()))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if deps.Ready != nil {
			if err := deps.Ready(ctx); err != nil {
				http.Error(w, "db not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled && deps.Gatherer != nil {
		router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimitPerMinute))
		r.Use(middleware.BodyLimit(cfg.MaxBodyBytes, cfg.MaxUploadBytes))

		employeehandler.NewHandler(deps.Employees).RegisterRoutes(r)

		company := payroll.Company{Name: cfg.CompanyName, Details: cfg.CompanyDetails}
		payrollhandler.NewHandler(deps.Payroll, deps.Importer, company).RegisterRoutes(r)
	})

	return router
}

func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
	}
}

// Run loads configuration, serves until SIGINT/SIGTERM and then drains
// in-flight requests for up to SHUTDOWN_TIMEOUT.
func Run() error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}
	log, flush := logger.FromConfig(cfg)
	defer flush()
	zap.ReplaceGlobals(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer app.Close()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("payroll server listening", zap.String("addr", cfg.Addr), zap.String("env", cfg.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("payroll server stopped")
	return nil
}
