package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/rentability-pro/internal/application/analytics"
	"github.com/jhoicas/rentability-pro/internal/application/auth"
	"github.com/jhoicas/rentability-pro/internal/application/billing"
	"github.com/jhoicas/rentability-pro/internal/application/projects"
	"github.com/jhoicas/rentability-pro/internal/application/state"
	"github.com/jhoicas/rentability-pro/internal/application/usecase"
	"github.com/jhoicas/rentability-pro/internal/domain/entity"
	"github.com/jhoicas/rentability-pro/internal/infrastructure/cache"
	infrapdf "github.com/jhoicas/rentability-pro/internal/infrastructure/pdf"
	"github.com/jhoicas/rentability-pro/internal/infrastructure/storage"
	infraxlsx "github.com/jhoicas/rentability-pro/internal/infrastructure/xlsx"
	httpRouter "github.com/jhoicas/rentability-pro/internal/interfaces/http"
	"github.com/jhoicas/rentability-pro/pkg/config"
	"github.com/jhoicas/rentability-pro/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		App:   "api",
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("nombre", cfg.App.Name).
		Str("storage", cfg.App.Storage).
		Msg("iniciando aplicación")

	ctx := context.Background()
	repos, err := storage.Open(ctx, cfg, log.Component("storage"))
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacenamiento")
	}
	defer repos.Close()

	// Estado espejado: se hidrata una vez al arrancar y luego se actualiza con cada escritura.
	store := state.NewStore(log.Component("state"))
	loader := state.RepoLoader{
		Clients:  repos.Clients,
		Services: repos.Services,
		Quotes:   repos.Quotes,
		Projects: repos.Projects,
		Settings: repos.Settings,
	}
	if err := store.Hydrate(ctx, loader); err != nil {
		log.Fatal().Err(err).Msg("hidratar estado")
	}

	clientUC := usecase.NewClientUseCase(repos.Clients, store, log.Component("clientes"))
	serviceUC := usecase.NewServiceUseCase(repos.Services, store, log.Component("servicios"))
	categoryUC := usecase.NewExpenseCategoryUseCase(repos.Categories)
	settingsUC := usecase.NewSettingsUseCase(repos.Settings, store, loader, log.Component("configuracion")).
		WithRepricer(serviceUC)

	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	quoteUC := billing.NewQuoteUseCase(repos.Tx, repos.Quotes, repos.Services, store, log.Component("cotizaciones"))
	quotePDFUC := billing.NewPDFUseCase(repos.Quotes, repos.Clients, repos.Services, store, pdfGenerator)

	projectUC := projects.NewProjectUseCase(repos.Projects, repos.Plans, repos.Payments, repos.Disbursements, store, log.Component("proyectos"))
	ledgerUC := projects.NewLedgerUseCase(repos.Tx, repos.Projects, repos.Plans, repos.Payments, repos.Disbursements, log.Component("pagos"))

	company := func() entity.CompanyProfile { return store.Snapshot().Settings.Company }
	reportUC := analytics.NewReportUseCase(repos.Reports, repos.Payments, repos.Disbursements, company,
		pdfGenerator, infraxlsx.NewExcelGenerator())
	dashboardUC := analytics.NewDashboardUseCase(repos.Reports)

	// Caché del dashboard en Redis (opcional).
	var dashboardCache *cache.RedisCache
	if cfg.Redis.CacheTTL > 0 {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis no disponible; dashboard sin caché")
		} else {
			dashboardCache = cache.NewRedisCache(rdb, time.Duration(cfg.Redis.CacheTTL)*time.Second)
			dashboardUC.WithCache(dashboardCache)
			log.Info().Int("ttl_s", cfg.Redis.CacheTTL).Msg("caché del dashboard activa")
		}
	}

	authUC := auth.NewAuthUseCase(auth.JWTConfig{
		Secret:   cfg.Auth.JWTSecret,
		Issuer:   cfg.Auth.Issuer,
		Audience: cfg.Auth.Audience,
	}, log.Component("auth"))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
		Immutable:    true,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.ReplaceAll(cfg.HTTP.CORSOrigins, " ", ""),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(httpRouter.AccessLog(log.Component("http")))
	if dashboardCache != nil {
		app.Use(httpRouter.InvalidateOnWrite(dashboardCache, log.Component("cache")))
	}

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Rentability Pro API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AppName:     cfg.App.Name,
		AuthUC:      authUC,
		ClientUC:    clientUC,
		ServiceUC:   serviceUC,
		CategoryUC:  categoryUC,
		SettingsUC:  settingsUC,
		QuoteUC:     quoteUC,
		QuotePDF:    quotePDFUC,
		ProjectUC:   projectUC,
		LedgerUC:    ledgerUC,
		DashboardUC: dashboardUC,
		ReportUC:    reportUC,
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
