package dto

import "github.com/shopspring/decimal"

// DashboardResponse respuesta de GET /api/reportes/dashboard.
type DashboardResponse struct {
	Period           string           `json:"periodo"` // ej: "Marzo 2025"
	ProjectsByStatus map[string]int   `json:"proyectos_por_estado"`
	ActiveProjects   int              `json:"proyectos_activos"`
	MonthIncome      decimal.Decimal  `json:"ingresos_mes"`
	MonthExpenses    decimal.Decimal  `json:"egresos_mes"`
	MonthNet         decimal.Decimal  `json:"flujo_neto_mes"`
	Receivable       decimal.Decimal  `json:"por_cobrar"`
	OverdueCount     int              `json:"cuotas_vencidas"`
	OverdueAmount    decimal.Decimal  `json:"monto_vencido"`
	Quotes           QuoteStatsDTO    `json:"cotizaciones"`
	TopServices      []ServiceRankDTO `json:"servicios_top"`
}

// QuoteStatsDTO conteos de cotizaciones y tasa de conversión (aprobadas / decididas × 100).
type QuoteStatsDTO struct {
	Draft          int             `json:"borrador"`
	Sent           int             `json:"enviadas"`
	Expired        int             `json:"vencidas"`
	Approved       int             `json:"aprobadas"`
	Rejected       int             `json:"rechazadas"`
	ConversionRate decimal.Decimal `json:"tasa_conversion"`
	ApprovedValue  decimal.Decimal `json:"valor_aprobado"`
}

// ServiceRankDTO servicio en el ranking.
type ServiceRankDTO struct {
	ServiceID   string          `json:"servicio_id"`
	Name        string          `json:"nombre"`
	Category    string          `json:"categoria,omitempty"`
	TimesQuoted int             `json:"veces_cotizado"`
	TimesSold   int             `json:"veces_vendido"`
	SoldRevenue decimal.Decimal `json:"ingreso_vendido"`
}

// ProfitabilityRow rentabilidad de un proyecto.
type ProfitabilityRow struct {
	ProjectID           string          `json:"proyecto_id"`
	ProjectName         string          `json:"proyecto"`
	ClientName          string          `json:"cliente"`
	Status              string          `json:"estado"`
	TotalValue          decimal.Decimal `json:"valor_total"`
	EstimatedCost       decimal.Decimal `json:"costo_estimado"`
	EstimatedProfit     decimal.Decimal `json:"rentabilidad_estimada"`
	Planned             decimal.Decimal `json:"total_planificado"`
	Received            decimal.Decimal `json:"total_recibido"`
	Spent               decimal.Decimal `json:"total_gastado"`
	Pending             decimal.Decimal `json:"pendiente_cobro"`
	ActualProfit        decimal.Decimal `json:"rentabilidad_actual"`
	ActualMarginPercent decimal.Decimal `json:"margen_actual"`
	PercentPaid         decimal.Decimal `json:"porcentaje_cobrado"`
}

// ProfitabilityReport respuesta de GET /api/reportes/rentabilidad.
type ProfitabilityReport struct {
	GeneratedAt string             `json:"generado"`
	Rows        []ProfitabilityRow `json:"proyectos"`
	Totals      ProfitabilityRow   `json:"totales"`
}

// CashFlowMonth un mes de la serie de flujo de caja.
type CashFlowMonth struct {
	Month    string          `json:"mes"` // YYYY-MM
	Income   decimal.Decimal `json:"ingresos"`
	Expenses decimal.Decimal `json:"egresos"`
	Net      decimal.Decimal `json:"neto"`
}

// CashFlowResponse respuesta de GET /api/reportes/flujo-caja.
type CashFlowResponse struct {
	Months        []CashFlowMonth `json:"meses"`
	TotalIncome   decimal.Decimal `json:"total_ingresos"`
	TotalExpenses decimal.Decimal `json:"total_egresos"`
	TotalNet      decimal.Decimal `json:"total_neto"`
}
