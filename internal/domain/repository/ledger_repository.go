package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/rentability-pro/internal/domain/entity"
)

// PaymentPlanRepository define el puerto de persistencia para PlanPago.
type PaymentPlanRepository interface {
	GetByID(ctx context.Context, id string) (*entity.PaymentPlan, error)
	ListByProject(ctx context.Context, projectID string) ([]*entity.PaymentPlan, error)
	// ReplaceForProject borra el plan actual del proyecto e inserta el nuevo.
	ReplaceForProject(ctx context.Context, projectID string, plans []*entity.PaymentPlan) error
	Update(ctx context.Context, p *entity.PaymentPlan) error
	UpdateStatus(ctx context.Context, id string, status entity.InstallmentStatus, at time.Time) error
	Delete(ctx context.Context, id string) error
	// ListOverdue cuotas pendientes con vencimiento anterior a today, de proyectos no cancelados.
	ListOverdue(ctx context.Context, today time.Time) ([]*entity.PaymentPlan, error)
}

// PaymentRepository define el puerto de persistencia para Pago (solo alta, consulta y borrado).
type PaymentRepository interface {
	Create(ctx context.Context, p *entity.Payment) error
	GetByID(ctx context.Context, id string) (*entity.Payment, error)
	ListByProject(ctx context.Context, projectID string) ([]*entity.Payment, error)
	// ListBetween pagos con fecha en [from, to).
	ListBetween(ctx context.Context, from, to time.Time) ([]*entity.Payment, error)
	// SumByPlan total pagado contra una cuota.
	SumByPlan(ctx context.Context, planID string) (decimal.Decimal, error)
	Delete(ctx context.Context, id string) error
}

// ExpenseCategoryRepository define el puerto de persistencia para CategoriaDesembolso.
type ExpenseCategoryRepository interface {
	Create(ctx context.Context, c *entity.ExpenseCategory) error
	GetByID(ctx context.Context, id string) (*entity.ExpenseCategory, error)
	List(ctx context.Context, activeOnly bool) ([]*entity.ExpenseCategory, error)
	Update(ctx context.Context, c *entity.ExpenseCategory) error
	// Delete devuelve domain.ErrConflict si la categoría tiene desembolsos.
	Delete(ctx context.Context, id string) error
}

// DisbursementFilter filtros de listado de desembolsos.
// GeneralOnly limita a gastos sin proyecto; ProjectID tiene prioridad.
type DisbursementFilter struct {
	ProjectID   string
	CategoryID  string
	Status      entity.DisbursementStatus
	GeneralOnly bool
}

// DisbursementRepository define el puerto de persistencia para Desembolso.
type DisbursementRepository interface {
	Create(ctx context.Context, d *entity.Disbursement) error
	GetByID(ctx context.Context, id string) (*entity.Disbursement, error)
	List(ctx context.Context, f DisbursementFilter) ([]*entity.Disbursement, error)
	// ListBetween desembolsos con fecha en [from, to).
	ListBetween(ctx context.Context, from, to time.Time) ([]*entity.Disbursement, error)
	Update(ctx context.Context, d *entity.Disbursement) error
	Delete(ctx context.Context, id string) error
}
