package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InstallmentType tipo de cuota del plan de pagos.
type InstallmentType string

const (
	InstallmentAdvance     InstallmentType = "anticipo"
	InstallmentInstallment InstallmentType = "cuota"
	InstallmentFinal       InstallmentType = "final"
	InstallmentMilestone   InstallmentType = "hito"
)

// InstallmentStatus estado de una cuota. InstallmentOverdue solo se usa como vista.
type InstallmentStatus string

const (
	InstallmentPending InstallmentStatus = "pendiente"
	InstallmentPaid    InstallmentStatus = "pagado"
	InstallmentOverdue InstallmentStatus = "vencido"
	InstallmentPartial InstallmentStatus = "parcial"
)

// PaymentPlan cuota planificada (PlanPago) de un proyecto.
type PaymentPlan struct {
	ID          string
	ProjectID   string
	Number      int
	DueDate     time.Time
	Amount      decimal.Decimal
	Type        InstallmentType
	Percent     decimal.Decimal
	Status      InstallmentStatus
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsOverdue: pendiente y con fecha de vencimiento anterior a hoy.
func (p *PaymentPlan) IsOverdue(today time.Time) bool {
	return p.Status == InstallmentPending && DateOnly(p.DueDate).Before(DateOnly(today))
}

// EffectiveStatus devuelve "vencido" cuando aplica, sin modificar el estado almacenado.
func (p *PaymentPlan) EffectiveStatus(today time.Time) InstallmentStatus {
	if p.IsOverdue(today) {
		return InstallmentOverdue
	}
	return p.Status
}
