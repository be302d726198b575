// Package analytics contiene los casos de uso del dashboard y de los reportes de
// rentabilidad y flujo de caja.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/rentability-pro/internal/application/dto"
	"github.com/jhoicas/rentability-pro/internal/domain/repository"
)

const dashboardTopServices = 5 // servicios en el widget del dashboard

var hundred = decimal.NewFromInt(100)

// DashboardUseCase genera el resumen del negocio para el mes en curso.
//
// Fuente de datos: ReportRepository (consultas read-only).
type DashboardUseCase struct {
	reports repository.ReportRepository
	cache   ResponseCache
	now     func() time.Time
}

// ResponseCache caché opcional de respuestas serializadas (Redis en producción).
type ResponseCache interface {
	FetchJSON(ctx context.Context, name string, dest any, loader func(context.Context) (any, error)) error
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(reports repository.ReportRepository) *DashboardUseCase {
	return &DashboardUseCase{reports: reports, now: time.Now}
}

// WithCache activa la caché del resumen. Un cache nil la deja desactivada.
func (uc *DashboardUseCase) WithCache(c ResponseCache) *DashboardUseCase {
	uc.cache = c
	return uc
}

// monthRange [día 1 del mes, día 1 del mes siguiente).
func monthRange(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 1, 0)
}

// ConversionRate aprobadas / (aprobadas + rechazadas) × 100, con dos decimales. 0 si no hay decididas.
func ConversionRate(approved, rejected int) decimal.Decimal {
	decided := approved + rejected
	if decided == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(approved)).Mul(hundred).Div(decimal.NewFromInt(int64(decided))).Round(2)
}

// GetSummary construye el DashboardResponse.
//
// Las consultas corren en paralelo; la primera que falle cancela el resto.
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardResponse, error) {
	now := uc.now()
	if uc.cache == nil {
		return uc.build(ctx, now)
	}
	var out dto.DashboardResponse
	key := "dashboard:" + now.Format("2006-01-02")
	err := uc.cache.FetchJSON(ctx, key, &out, func(ctx context.Context) (any, error) {
		return uc.build(ctx, now)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (uc *DashboardUseCase) build(ctx context.Context, now time.Time) (*dto.DashboardResponse, error) {
	monthStart, monthEnd := monthRange(now)

	var (
		counts            map[string]int
		quotes            repository.QuoteStatsResult
		income, expenses  decimal.Decimal
		planned, received decimal.Decimal
		overdue           repository.OverdueSummary
		ranking           []repository.ServiceRankRow
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		counts, err = uc.reports.ProjectCounts(gctx)
		return wrap("proyectos por estado", err)
	})
	g.Go(func() (err error) {
		quotes, err = uc.reports.QuoteStats(gctx, now)
		return wrap("cotizaciones", err)
	})
	g.Go(func() (err error) {
		income, expenses, err = uc.reports.CashTotals(gctx, monthStart, monthEnd)
		return wrap("flujo del mes", err)
	})
	g.Go(func() (err error) {
		planned, received, err = uc.reports.Receivables(gctx)
		return wrap("cartera", err)
	})
	g.Go(func() (err error) {
		overdue, err = uc.reports.Overdue(gctx, now)
		return wrap("cuotas vencidas", err)
	})
	g.Go(func() (err error) {
		ranking, err = uc.reports.ServiceRanking(gctx, dashboardTopServices)
		return wrap("ranking de servicios", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &dto.DashboardResponse{
		Period:           monthLabel(now),
		ProjectsByStatus: counts,
		ActiveProjects:   counts["activo"],
		MonthIncome:      income,
		MonthExpenses:    expenses,
		MonthNet:         income.Sub(expenses),
		Receivable:       planned.Sub(received),
		OverdueCount:     overdue.Count,
		OverdueAmount:    overdue.Amount,
		Quotes:           newQuoteStats(quotes),
		TopServices:      newRanking(ranking),
	}
	if out.ProjectsByStatus == nil {
		out.ProjectsByStatus = map[string]int{}
	}
	return out, nil
}

func wrap(what string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("dashboard: %s: %w", what, err)
}

func newQuoteStats(q repository.QuoteStatsResult) dto.QuoteStatsDTO {
	return dto.QuoteStatsDTO{
		Draft:          q.Draft,
		Sent:           q.Sent,
		Expired:        q.Expired,
		Approved:       q.Approved,
		Rejected:       q.Rejected,
		ConversionRate: ConversionRate(q.Approved, q.Rejected),
		ApprovedValue:  q.ApprovedValue,
	}
}

func newRanking(rows []repository.ServiceRankRow) []dto.ServiceRankDTO {
	out := make([]dto.ServiceRankDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.ServiceRankDTO{
			ServiceID:   r.ServiceID,
			Name:        r.Name,
			Category:    r.Category,
			TimesQuoted: r.TimesQuoted,
			TimesSold:   r.TimesSold,
			SoldRevenue: r.SoldRevenue,
		})
	}
	return out
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Marzo 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
