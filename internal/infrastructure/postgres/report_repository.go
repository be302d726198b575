package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/rentability-pro/internal/domain/entity"
	"github.com/jhoicas/rentability-pro/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de solo lectura para dashboard y reportes de rentabilidad.
type ReportRepo struct {
	pool *pgxpool.Pool
}

// NewReportRepository construye el adaptador de reportes.
func NewReportRepository(pool *pgxpool.Pool) *ReportRepo {
	return &ReportRepo{pool: pool}
}

// ProjectCounts proyectos agrupados por estado.
func (r *ReportRepo) ProjectCounts(ctx context.Context) (map[string]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT estado, COUNT(*) FROM proyectos GROUP BY estado`)
	if err != nil {
		return nil, fmt.Errorf("reports.ProjectCounts: %w", err)
	}
	defer rows.Close()
	out := map[string]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("reports.ProjectCounts scan: %w", err)
		}
		out[status] = n
	}
	return out, rows.Err()
}

// QuoteStats conteos por estado; "vencida" sale de las enviadas con fecha_validez < today.
func (r *ReportRepo) QuoteStats(ctx context.Context, today time.Time) (repository.QuoteStatsResult, error) {
	const query = `
	SELECT
	    COUNT(*) FILTER (WHERE estado = 'borrador')                              AS borrador,
	    COUNT(*) FILTER (WHERE estado = 'enviada' AND fecha_validez >= $1)       AS enviada,
	    COUNT(*) FILTER (WHERE estado = 'enviada' AND fecha_validez <  $1)       AS vencida,
	    COUNT(*) FILTER (WHERE estado = 'aprobada')                              AS aprobada,
	    COUNT(*) FILTER (WHERE estado = 'rechazada')                             AS rechazada,
	    COALESCE(SUM(total) FILTER (WHERE estado = 'aprobada'), 0)               AS valor_aprobado
	FROM cotizaciones`

	var res repository.QuoteStatsResult
	err := r.pool.QueryRow(ctx, query, entity.DateOnly(today)).Scan(
		&res.Draft, &res.Sent, &res.Expired, &res.Approved, &res.Rejected, &res.ApprovedValue,
	)
	if err != nil {
		return res, fmt.Errorf("reports.QuoteStats: %w", err)
	}
	return res, nil
}

// CashTotals ingresos y egresos pagados en [from, to).
func (r *ReportRepo) CashTotals(ctx context.Context, from, to time.Time) (income, expenses decimal.Decimal, err error) {
	const query = `
	SELECT
	    (SELECT COALESCE(SUM(monto), 0) FROM pagos WHERE fecha >= $1 AND fecha < $2),
	    (SELECT COALESCE(SUM(monto), 0) FROM desembolsos WHERE estado = 'pagado' AND fecha >= $1 AND fecha < $2)`
	if err := r.pool.QueryRow(ctx, query, from, to).Scan(&income, &expenses); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("reports.CashTotals: %w", err)
	}
	return income, expenses, nil
}

// Receivables totales planificado y recibido de proyectos no cancelados.
func (r *ReportRepo) Receivables(ctx context.Context) (planned, received decimal.Decimal, err error) {
	const query = `
	SELECT
	    (SELECT COALESCE(SUM(pp.monto), 0) FROM plan_pagos pp
	       JOIN proyectos p ON p.id = pp.proyecto_id WHERE p.estado <> 'cancelado'),
	    (SELECT COALESCE(SUM(pg.monto), 0) FROM pagos pg
	       JOIN proyectos p ON p.id = pg.proyecto_id WHERE p.estado <> 'cancelado')`
	if err := r.pool.QueryRow(ctx, query).Scan(&planned, &received); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("reports.Receivables: %w", err)
	}
	return planned, received, nil
}

// Overdue cuotas pendientes con vencimiento anterior a today.
func (r *ReportRepo) Overdue(ctx context.Context, today time.Time) (repository.OverdueSummary, error) {
	const query = `
	SELECT COUNT(*), COALESCE(SUM(pp.monto), 0)
	FROM plan_pagos pp
	JOIN proyectos p ON p.id = pp.proyecto_id
	WHERE pp.estado = 'pendiente' AND pp.fecha_vencimiento < $1 AND p.estado <> 'cancelado'`
	var res repository.OverdueSummary
	if err := r.pool.QueryRow(ctx, query, entity.DateOnly(today)).Scan(&res.Count, &res.Amount); err != nil {
		return res, fmt.Errorf("reports.Overdue: %w", err)
	}
	return res, nil
}

// ProjectFinances planificado, recibido y gastado por proyecto.
// Los agregados se calculan en subconsultas para no multiplicar filas entre pagos y desembolsos.
func (r *ReportRepo) ProjectFinances(ctx context.Context) ([]repository.ProjectFinanceRow, error) {
	const query = `
	SELECT
	    p.id,
	    p.nombre,
	    COALESCE(NULLIF(c.empresa, ''), c.nombre)                                         AS cliente,
	    p.estado,
	    p.valor_total,
	    p.costo_estimado,
	    COALESCE((SELECT SUM(monto) FROM plan_pagos  WHERE proyecto_id = p.id), 0)          AS planificado,
	    COALESCE((SELECT SUM(monto) FROM pagos       WHERE proyecto_id = p.id), 0)          AS recibido,
	    COALESCE((SELECT SUM(monto) FROM desembolsos WHERE proyecto_id = p.id
	                                               AND estado = 'pagado'), 0)             AS gastado
	FROM proyectos p
	JOIN clientes  c ON c.id = p.cliente_id
	ORDER BY p.fecha_inicio DESC, p.created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("reports.ProjectFinances: %w", err)
	}
	defer rows.Close()

	results := make([]repository.ProjectFinanceRow, 0)
	for rows.Next() {
		var row repository.ProjectFinanceRow
		if err := rows.Scan(
			&row.ProjectID,
			&row.ProjectName,
			&row.ClientName,
			&row.Status,
			&row.TotalValue,
			&row.EstimatedCost,
			&row.Planned,
			&row.Received,
			&row.Spent,
		); err != nil {
			return nil, fmt.Errorf("reports.ProjectFinances scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// ServiceRanking servicios ordenados por ventas y luego por veces cotizado.
func (r *ReportRepo) ServiceRanking(ctx context.Context, limit int) ([]repository.ServiceRankRow, error) {
	if limit <= 0 {
		limit = 10
	}
	const query = `
	SELECT
	    s.id,
	    s.nombre,
	    COALESCE(s.categoria, ''),
	    s.veces_cotizado,
	    s.veces_vendido,
	    COALESCE(SUM(i.subtotal) FILTER (WHERE q.estado = 'aprobada'), 0)       AS ingreso_vendido
	FROM servicios s
	LEFT JOIN items_cotizacion i ON i.servicio_id = s.id
	LEFT JOIN cotizaciones     q ON q.id          = i.cotizacion_id
	GROUP BY s.id, s.nombre, s.categoria, s.veces_cotizado, s.veces_vendido
	ORDER BY s.veces_vendido DESC, s.veces_cotizado DESC, s.nombre
	LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("reports.ServiceRanking: %w", err)
	}
	defer rows.Close()

	results := make([]repository.ServiceRankRow, 0)
	for rows.Next() {
		var row repository.ServiceRankRow
		if err := rows.Scan(&row.ServiceID, &row.Name, &row.Category, &row.TimesQuoted, &row.TimesSold, &row.SoldRevenue); err != nil {
			return nil, fmt.Errorf("reports.ServiceRanking scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}
