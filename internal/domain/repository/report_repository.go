package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// QuoteStatsResult conteo de cotizaciones por estado. Expired se cuenta aparte de Sent.
type QuoteStatsResult struct {
	Draft         int
	Sent          int
	Expired       int
	Approved      int
	Rejected      int
	ApprovedValue decimal.Decimal
}

// ProjectFinanceRow fila cruda del reporte de rentabilidad; el use case completa los derivados.
type ProjectFinanceRow struct {
	ProjectID     string
	ProjectName   string
	ClientName    string
	Status        string
	TotalValue    decimal.Decimal
	EstimatedCost decimal.Decimal
	Planned       decimal.Decimal
	Received      decimal.Decimal
	Spent         decimal.Decimal // solo desembolsos pagados
}

// ServiceRankRow posición de un servicio en el ranking de uso.
type ServiceRankRow struct {
	ServiceID   string
	Name        string
	Category    string
	TimesQuoted int
	TimesSold   int
	SoldRevenue decimal.Decimal // Σ subtotal de ítems en cotizaciones aprobadas
}

// OverdueSummary cuotas vencidas agregadas.
type OverdueSummary struct {
	Count  int
	Amount decimal.Decimal
}

// ReportRepository consultas de solo lectura para dashboard y reportes.
type ReportRepository interface {
	// ProjectCounts proyectos por estado.
	ProjectCounts(ctx context.Context) (map[string]int, error)

	// QuoteStats cotizaciones por estado; las enviadas con validez anterior a today cuentan como vencidas.
	QuoteStats(ctx context.Context, today time.Time) (QuoteStatsResult, error)

	// CashTotals ingresos (pagos) y egresos (desembolsos pagados) en [from, to).
	CashTotals(ctx context.Context, from, to time.Time) (income, expenses decimal.Decimal, err error)

	// Receivables planificado y recibido de proyectos no cancelados.
	Receivables(ctx context.Context) (planned, received decimal.Decimal, err error)

	// Overdue cuotas pendientes vencidas a today.
	Overdue(ctx context.Context, today time.Time) (OverdueSummary, error)

	// ProjectFinances una fila por proyecto, ordenadas por fecha de inicio descendente.
	ProjectFinances(ctx context.Context) ([]ProjectFinanceRow, error)

	// ServiceRanking los limit servicios más vendidos (y luego más cotizados).
	ServiceRanking(ctx context.Context, limit int) ([]ServiceRankRow, error)
}
