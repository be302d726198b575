package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/rentability-pro/internal/domain"
	"github.com/jhoicas/rentability-pro/internal/domain/entity"
	"github.com/jhoicas/rentability-pro/internal/domain/repository"
)

var _ repository.PaymentPlanRepository = (*PaymentPlanRepo)(nil)

// PaymentPlanRepo implementación de PaymentPlanRepository.
type PaymentPlanRepo struct {
	q Querier
}

// NewPaymentPlanRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPaymentPlanRepository(q Querier) *PaymentPlanRepo {
	return &PaymentPlanRepo{q: q}
}

const planColumns = `id, proyecto_id, numero_cuota, fecha_vencimiento, monto, tipo, porcentaje, estado,
	COALESCE(descripcion, ''), created_at, updated_at`

func scanPlan(row pgx.Row) (*entity.PaymentPlan, error) {
	var p entity.PaymentPlan
	err := row.Scan(&p.ID, &p.ProjectID, &p.Number, &p.DueDate, &p.Amount, &p.Type, &p.Percent, &p.Status,
		&p.Description, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentPlanRepo) list(ctx context.Context, query string, args ...any) ([]*entity.PaymentPlan, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list plan de pagos: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.PaymentPlan, 0)
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cuota: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// GetByID obtiene una cuota.
func (r *PaymentPlanRepo) GetByID(ctx context.Context, id string) (*entity.PaymentPlan, error) {
	p, err := scanPlan(r.q.QueryRow(ctx, `SELECT `+planColumns+` FROM plan_pagos WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cuota: %w", err)
	}
	return p, nil
}

// ListByProject cuotas del proyecto por número.
func (r *PaymentPlanRepo) ListByProject(ctx context.Context, projectID string) ([]*entity.PaymentPlan, error) {
	return r.list(ctx, `SELECT `+planColumns+` FROM plan_pagos WHERE proyecto_id = $1 ORDER BY numero_cuota`, projectID)
}

// ListOverdue cuotas pendientes vencidas de proyectos vigentes.
func (r *PaymentPlanRepo) ListOverdue(ctx context.Context, today time.Time) ([]*entity.PaymentPlan, error) {
	query := `SELECT ` + planColumns + ` FROM plan_pagos pp
		WHERE pp.estado = 'pendiente' AND pp.fecha_vencimiento < $1
		  AND EXISTS (SELECT 1 FROM proyectos p WHERE p.id = pp.proyecto_id AND p.estado <> 'cancelado')
		ORDER BY pp.fecha_vencimiento`
	return r.list(ctx, query, entity.DateOnly(today))
}

// ReplaceForProject borra e inserta el plan completo. Debe correr dentro de una tx.
// Los pagos que apuntaban a cuotas borradas quedan sin cuota (ON DELETE SET NULL).
func (r *PaymentPlanRepo) ReplaceForProject(ctx context.Context, projectID string, plans []*entity.PaymentPlan) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM plan_pagos WHERE proyecto_id = $1`, projectID); err != nil {
		return fmt.Errorf("delete plan de pagos: %w", err)
	}
	query := `
		INSERT INTO plan_pagos (id, proyecto_id, numero_cuota, fecha_vencimiento, monto, tipo, porcentaje, estado,
		       descripcion, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	for _, p := range plans {
		p.ProjectID = projectID
		_, err := r.q.Exec(ctx, query,
			p.ID, p.ProjectID, p.Number, p.DueDate, p.Amount, p.Type, p.Percent, p.Status,
			nullIfEmpty(p.Description), p.CreatedAt, p.UpdatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: cuota número %d repetida", domain.ErrDuplicate, p.Number)
			}
			if isForeignKeyViolation(err) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("insert cuota: %w", err)
		}
	}
	return nil
}

// Update actualiza una cuota.
func (r *PaymentPlanRepo) Update(ctx context.Context, p *entity.PaymentPlan) error {
	query := `
		UPDATE plan_pagos SET numero_cuota = $2, fecha_vencimiento = $3, monto = $4, tipo = $5, porcentaje = $6,
		       estado = $7, descripcion = $8, updated_at = $9
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		p.ID, p.Number, p.DueDate, p.Amount, p.Type, p.Percent, p.Status, nullIfEmpty(p.Description), p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: cuota número %d repetida", domain.ErrDuplicate, p.Number)
		}
		return fmt.Errorf("update cuota: %w", err)
	}
	if wantOne(tag) != nil {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStatus cambia solo el estado (conciliación con pagos).
func (r *PaymentPlanRepo) UpdateStatus(ctx context.Context, id string, status entity.InstallmentStatus, at time.Time) error {
	tag, err := r.q.Exec(ctx, `UPDATE plan_pagos SET estado = $2, updated_at = $3 WHERE id = $1`, id, status, at)
	if err != nil {
		return fmt.Errorf("update estado cuota: %w", err)
	}
	if wantOne(tag) != nil {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina una cuota.
func (r *PaymentPlanRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM plan_pagos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete cuota: %w", err)
	}
	if wantOne(tag) != nil {
		return domain.ErrNotFound
	}
	return nil
}
