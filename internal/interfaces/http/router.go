package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/rentability-pro/internal/application/analytics"
	"github.com/jhoicas/rentability-pro/internal/application/auth"
	"github.com/jhoicas/rentability-pro/internal/application/billing"
	"github.com/jhoicas/rentability-pro/internal/application/projects"
	"github.com/jhoicas/rentability-pro/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AppName     string
	AuthUC      *auth.AuthUseCase
	ClientUC    *usecase.ClientUseCase
	ServiceUC   *usecase.ServiceUseCase
	CategoryUC  *usecase.ExpenseCategoryUseCase
	SettingsUC  *usecase.SettingsUseCase
	QuoteUC     *billing.QuoteUseCase
	QuotePDF    *billing.PDFUseCase
	ProjectUC   *projects.ProjectUseCase
	LedgerUC    *projects.LedgerUseCase
	DashboardUC *analytics.DashboardUseCase
	ReportUC    *analytics.ReportUseCase
}

// Router registra las rutas de la API. Todo /api requiere Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})

	v := NewRequestValidator()
	api := app.Group("/api", AuthMiddleware(deps.AuthUC))

	authHandler := NewAuthHandler(deps.AuthUC)
	api.Get("/me", authHandler.Me)
	api.Post("/auth/logout", authHandler.Logout)

	// Clientes
	clientHandler := NewClientHandler(deps.ClientUC, v)
	clients := api.Group("/clientes")
	clients.Get("/", clientHandler.List)
	clients.Post("/", clientHandler.Create)
	clients.Get("/:id", clientHandler.GetByID)
	clients.Put("/:id", clientHandler.Update)
	clients.Delete("/:id", clientHandler.Delete)

	// Servicios (las rutas fijas van antes de /:id)
	serviceHandler := NewServiceHandler(deps.ServiceUC, v)
	services := api.Group("/servicios")
	services.Get("/", serviceHandler.List)
	services.Post("/", serviceHandler.Create)
	services.Post("/calcular-precio", serviceHandler.CalculatePrice)
	services.Post("/recalcular", serviceHandler.RecalculateAll)
	services.Get("/:id", serviceHandler.GetByID)
	services.Put("/:id", serviceHandler.Update)
	services.Delete("/:id", serviceHandler.Delete)

	// Cotizaciones
	quoteHandler := NewQuoteHandler(deps.QuoteUC, deps.QuotePDF, v)
	quotes := api.Group("/cotizaciones")
	quotes.Get("/", quoteHandler.List)
	quotes.Post("/", quoteHandler.Create)
	quotes.Get("/:id", quoteHandler.GetByID)
	quotes.Put("/:id", quoteHandler.Update)
	quotes.Delete("/:id", quoteHandler.Delete)
	quotes.Post("/:id/enviar", quoteHandler.Send)
	quotes.Post("/:id/borrador", quoteHandler.BackToDraft)
	quotes.Post("/:id/aprobar", quoteHandler.Approve)
	quotes.Post("/:id/rechazar", quoteHandler.Reject)
	quotes.Get("/:id/pdf", quoteHandler.PDF)

	// Proyectos, plan de pagos y pagos
	projectHandler := NewProjectHandler(deps.ProjectUC, v)
	ledgerHandler := NewLedgerHandler(deps.LedgerUC, v)
	proj := api.Group("/proyectos")
	proj.Get("/", projectHandler.List)
	proj.Get("/:id", projectHandler.Get)
	proj.Put("/:id", projectHandler.Update)
	proj.Put("/:id/progreso", projectHandler.SetProgress)
	proj.Get("/:id/resumen", projectHandler.Summary)
	proj.Post("/:id/pausar", projectHandler.Pause)
	proj.Post("/:id/reanudar", projectHandler.Resume)
	proj.Post("/:id/completar", projectHandler.Complete)
	proj.Post("/:id/cancelar", projectHandler.Cancel)
	proj.Get("/:id/plan-pagos", ledgerHandler.ListPlans)
	proj.Put("/:id/plan-pagos", ledgerHandler.SavePlan)
	proj.Post("/:id/plan-pagos/plantilla", ledgerHandler.ApplyTemplate)
	proj.Get("/:id/pagos", ledgerHandler.ListPayments)

	api.Put("/plan-pagos/:id", ledgerHandler.UpdatePlan)
	api.Delete("/plan-pagos/:id", ledgerHandler.DeletePlan)
	api.Post("/pagos", ledgerHandler.RegisterPayment)
	api.Delete("/pagos/:id", ledgerHandler.DeletePayment)

	// Desembolsos
	categoryHandler := NewCategoryHandler(deps.CategoryUC, v)
	categories := api.Group("/categorias-desembolso")
	categories.Get("/", categoryHandler.List)
	categories.Post("/", categoryHandler.Create)
	categories.Put("/:id", categoryHandler.Update)
	categories.Delete("/:id", categoryHandler.Delete)

	disb := api.Group("/desembolsos")
	disb.Get("/", ledgerHandler.ListDisbursements)
	disb.Post("/", ledgerHandler.CreateDisbursement)
	disb.Put("/:id", ledgerHandler.UpdateDisbursement)
	disb.Put("/:id/estado", ledgerHandler.ChangeDisbursementStatus)
	disb.Delete("/:id", ledgerHandler.DeleteDisbursement)

	// Configuración (las rutas fijas van antes de /:mapa)
	settingsHandler := NewSettingsHandler(deps.SettingsUC, v)
	cfg := api.Group("/configuracion")
	cfg.Get("/", settingsHandler.Get)
	cfg.Put("/empresa", settingsHandler.SaveCompany)
	cfg.Put("/cotizaciones", settingsHandler.SaveQuoteDefaults)
	cfg.Post("/sincronizar", settingsHandler.Sync)
	cfg.Put("/:mapa/:clave", settingsHandler.SetEntry)
	cfg.Delete("/:mapa/:clave", settingsHandler.RemoveEntry)
	cfg.Put("/:mapa", settingsHandler.ReplaceMap)

	// Reportes
	reportHandler := NewReportHandler(deps.DashboardUC, deps.ReportUC)
	reports := api.Group("/reportes")
	reports.Get("/dashboard", reportHandler.Dashboard)
	reports.Get("/rentabilidad", reportHandler.Profitability)
	reports.Get("/rentabilidad.pdf", reportHandler.ProfitabilityPDF)
	reports.Get("/rentabilidad.xlsx", reportHandler.ProfitabilityXLSX)
	reports.Get("/flujo-caja", reportHandler.CashFlow)
}
