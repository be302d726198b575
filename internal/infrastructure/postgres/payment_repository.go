package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/rentability-pro/internal/domain"
	"github.com/jhoicas/rentability-pro/internal/domain/entity"
	"github.com/jhoicas/rentability-pro/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo implementación de PaymentRepository.
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

const paymentColumns = `id, proyecto_id, COALESCE(plan_pago_id::text, ''), fecha, monto, metodo_pago,
	COALESCE(referencia, ''), COALESCE(notas, ''), COALESCE(created_by::text, ''), created_at`

func scanPayment(row pgx.Row) (*entity.Payment, error) {
	var p entity.Payment
	err := row.Scan(&p.ID, &p.ProjectID, &p.PaymentPlanID, &p.Date, &p.Amount, &p.Method,
		&p.Reference, &p.Notes, &p.CreatedBy, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Payment, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list pagos: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pago: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Create registra un pago.
func (r *PaymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	query := `
		INSERT INTO pagos (id, proyecto_id, plan_pago_id, fecha, monto, metodo_pago, referencia, notas,
		       created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.ProjectID, nullIfEmpty(p.PaymentPlanID), p.Date, p.Amount, p.Method,
		nullIfEmpty(p.Reference), nullIfEmpty(p.Notes), nullIfEmpty(p.CreatedBy), p.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: proyecto o cuota inexistente", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert pago: %w", err)
	}
	return nil
}

// GetByID obtiene un pago.
func (r *PaymentRepo) GetByID(ctx context.Context, id string) (*entity.Payment, error) {
	p, err := scanPayment(r.q.QueryRow(ctx, `SELECT `+paymentColumns+` FROM pagos WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get pago: %w", err)
	}
	return p, nil
}

// ListByProject pagos del proyecto, más recientes primero.
func (r *PaymentRepo) ListByProject(ctx context.Context, projectID string) ([]*entity.Payment, error) {
	return r.list(ctx, `SELECT `+paymentColumns+` FROM pagos WHERE proyecto_id = $1 ORDER BY fecha DESC, created_at DESC`, projectID)
}

// ListBetween pagos con fecha en [from, to).
func (r *PaymentRepo) ListBetween(ctx context.Context, from, to time.Time) ([]*entity.Payment, error) {
	return r.list(ctx, `SELECT `+paymentColumns+` FROM pagos WHERE fecha >= $1 AND fecha < $2 ORDER BY fecha`, from, to)
}

// SumByPlan total pagado contra una cuota.
func (r *PaymentRepo) SumByPlan(ctx context.Context, planID string) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.q.QueryRow(ctx, `SELECT COALESCE(SUM(monto), 0) FROM pagos WHERE plan_pago_id = $1`, planID).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum pagos por cuota: %w", err)
	}
	return sum, nil
}

// Delete elimina un pago (corrección).
func (r *PaymentRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM pagos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete pago: %w", err)
	}
	if wantOne(tag) != nil {
		return domain.ErrNotFound
	}
	return nil
}
