package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/rentability-pro/internal/application/analytics"
)

const mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler dashboard, rentabilidad por proyecto y flujo de caja.
type ReportHandler struct {
	dashboard *analytics.DashboardUseCase
	reports   *analytics.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(dashboard *analytics.DashboardUseCase, reports *analytics.ReportUseCase) *ReportHandler {
	return &ReportHandler{dashboard: dashboard, reports: reports}
}

// Dashboard godoc
// @Summary      Resumen del negocio del mes en curso
// @Tags         reportes
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.DashboardResponse
// @Router       /api/reportes/dashboard [get]
func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	out, err := h.dashboard.GetSummary(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Profitability godoc
// @Summary      Rentabilidad por proyecto
// @Tags         reportes
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.ProfitabilityReport
// @Router       /api/reportes/rentabilidad [get]
func (h *ReportHandler) Profitability(c *fiber.Ctx) error {
	out, err := h.reports.Profitability(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ProfitabilityPDF godoc
// @Summary      Rentabilidad por proyecto en PDF
// @Tags         reportes
// @Produce      application/pdf
// @Security     BearerAuth
// @Success      200  {file}  binary
// @Router       /api/reportes/rentabilidad.pdf [get]
func (h *ReportHandler) ProfitabilityPDF(c *fiber.Ctx) error {
	data, err := h.reports.ProfitabilityPDF(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return sendFile(c, data, h.reports.Filename("pdf"), "application/pdf")
}

// ProfitabilityXLSX godoc
// @Summary      Rentabilidad por proyecto en Excel
// @Tags         reportes
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Success      200  {file}  binary
// @Router       /api/reportes/rentabilidad.xlsx [get]
func (h *ReportHandler) ProfitabilityXLSX(c *fiber.Ctx) error {
	data, err := h.reports.ProfitabilityXLSX(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return sendFile(c, data, h.reports.Filename("xlsx"), mimeXLSX)
}

// CashFlow godoc
// @Summary      Flujo de caja mensual
// @Tags         reportes
// @Produce      json
// @Security     BearerAuth
// @Param        meses  query  int  false  "meses hacia atrás (1..24, por defecto 6)"
// @Success      200  {object}  dto.CashFlowResponse
// @Router       /api/reportes/flujo-caja [get]
func (h *ReportHandler) CashFlow(c *fiber.Ctx) error {
	out, err := h.reports.CashFlow(c.Context(), c.QueryInt("meses", analytics.DefaultCashFlowMonths))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
