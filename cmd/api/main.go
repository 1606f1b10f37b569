package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	appanalytics "github.com/jhoicas/sigra-api/internal/application/analytics"
	"github.com/jhoicas/sigra-api/internal/application/auth"
	"github.com/jhoicas/sigra-api/internal/application/catalog"
	"github.com/jhoicas/sigra-api/internal/application/reports"
	"github.com/jhoicas/sigra-api/internal/application/usecase"
	infracache "github.com/jhoicas/sigra-api/internal/infrastructure/cache"
	infrapdf "github.com/jhoicas/sigra-api/internal/infrastructure/pdf"
	"github.com/jhoicas/sigra-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/sigra-api/internal/interfaces/http"
	"github.com/jhoicas/sigra-api/pkg/config"
	"github.com/jhoicas/sigra-api/pkg/logger"
	"github.com/jhoicas/sigra-api/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	healthChecks := map[string]httpRouter.HealthCheck{
		"postgres": pool.Ping,
	}

	// Redis es opcional: sin REDIS_URL, o si no responde, los catálogos se leen siempre de PostgreSQL.
	var catalogCache catalog.Cache
	if cfg.Redis.URL != "" {
		rdb, err := infracache.NewRedis(ctx, cfg.Redis.URL)
		if err != nil {
			log.Warn().Err(err).Msg("redis no disponible, catálogos sin caché")
		} else {
			defer func(c *redis.Client) { _ = c.Close() }(rdb)
			catalogCache = infracache.NewCatalogCache(rdb, cfg.Redis.CatalogCacheTTL)
			healthChecks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		}
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	workerRepo := postgres.NewWorkerRepository(pool)
	reportRepo := postgres.NewReportRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)
	catalogRepo := postgres.NewCatalogRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	authUC := auth.NewAuthUseCase(workerRepo, txRunner, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, m)
	workerUC := usecase.NewWorkerUseCase(workerRepo)
	catalogUC := catalog.NewUseCase(catalogRepo, catalogCache, m, log.Component("catalog"))
	ledgerUC := reports.NewLedgerUseCase(reportRepo, auditRepo, m)
	transitionUC := reports.NewTransitionUseCase(reportRepo, catalogRepo, txRunner, m)
	dashboardUC := appanalytics.NewDashboardUseCase(postgres.NewDashboardRepository(pool))

	// PDF: ficha imprimible del reporte con su bitácora
	sheetUC := reports.NewSheetUseCase(reportRepo, auditRepo, infrapdf.NewReportSheetGenerator())

	app := httpRouter.NewApp(log, cfg.App.Name)

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "SIGRA API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		WorkerUC:       workerUC,
		CatalogUC:      catalogUC,
		Ledger:         ledgerUC,
		Transition:     transitionUC,
		Sheet:          sheetUC,
		DashboardUC:    dashboardUC,
		Resolver:       authUC,
		ServiceName:    cfg.App.Name,
		HealthChecks:   healthChecks,
		LoginRateLimit: cfg.HTTP.LoginRateLimit,
		Gatherer:       prometheus.DefaultGatherer,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
