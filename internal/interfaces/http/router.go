package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appanalytics "github.com/jhoicas/sigra-api/internal/application/analytics"
	"github.com/jhoicas/sigra-api/internal/application/auth"
	"github.com/jhoicas/sigra-api/internal/application/catalog"
	"github.com/jhoicas/sigra-api/internal/application/dto"
	"github.com/jhoicas/sigra-api/internal/application/reports"
	"github.com/jhoicas/sigra-api/internal/application/usecase"
	"github.com/jhoicas/sigra-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	WorkerUC     *usecase.WorkerUseCase
	CatalogUC    *catalog.UseCase
	Ledger       *reports.LedgerUseCase
	Transition   *reports.TransitionUseCase
	Sheet        *reports.SheetUseCase
	DashboardUC  *appanalytics.DashboardUseCase
	Resolver     TokenResolver
	ServiceName  string
	HealthChecks map[string]HealthCheck
	// Intentos de login por minuto por IP. 0 desactiva el límite.
	LoginRateLimit int
	// Si es nil no se expone /metrics.
	Gatherer prometheus.Gatherer
}

// NewApp crea la app Fiber con el manejo de errores y los middlewares comunes.
func NewApp(log *logger.Logger, name string) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      name,
		ErrorHandler: ErrorHandler(log),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	})
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(RequestLogger(log))
	return app
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", HealthHandler(deps.ServiceName, deps.HealthChecks))
	if deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api")
	authenticated := AuthMiddleware(deps.Resolver)
	adminOnly := RequireAdmin()

	// Auth
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", loginLimiter(deps.LoginRateLimit), authHandler.Login)
	authGroup.Post("/cambiar-password", authHandler.ChangePassword)

	// Gestión de trabajadores (solo administrador)
	workerHandler := NewWorkerHandler(deps.WorkerUC)
	workers := authGroup.Group("/usuarios", authenticated, adminOnly)
	workers.Post("/", workerHandler.Create)
	workers.Get("/", workerHandler.List)
	workers.Patch("/:rut/estado", workerHandler.UpdateStatus)

	// Reportes. Los catálogos son públicos y las rutas fijas van antes de /:id.
	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	reportHandler := NewReportHandler(deps.Ledger, deps.Transition, deps.Sheet)
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	rep := api.Group("/reportes")
	rep.Get("/catalogos", catalogHandler.All)
	rep.Get("/catalogos/areas", catalogHandler.Areas)
	rep.Get("/catalogos/severidad", catalogHandler.Severities)
	rep.Get("/catalogos/estados", catalogHandler.States)

	rep.Post("/", authenticated, reportHandler.Create)
	rep.Get("/", authenticated, adminOnly, reportHandler.List)
	rep.Get("/mios", authenticated, reportHandler.ListMine)
	rep.Get("/resumen", authenticated, adminOnly, dashboardHandler.GetSummary)
	rep.Get("/:id", authenticated, reportHandler.GetByID)
	rep.Put("/:id/estado", authenticated, adminOnly, reportHandler.UpdateState)
	rep.Get("/:id/bitacora", authenticated, reportHandler.History)
	rep.Get("/:id/transiciones", authenticated, adminOnly, reportHandler.AllowedTransitions)
	rep.Get("/:id/pdf", authenticated, reportHandler.DownloadPDF)
}

func loginLimiter(max int) fiber.Handler {
	if max <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Code:    "RATE_LIMITED",
				Message: "demasiados intentos de inicio de sesión, reintente en un minuto",
			})
		},
	})
}
