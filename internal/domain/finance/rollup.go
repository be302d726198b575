// Package finance cálculos financieros de un proyecto: resumen, cuotas vencidas, plantillas
// del plan de pagos y conciliación de pagos contra cuotas.
package finance

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/rentability-pro/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// Summary resumen financiero de un proyecto; se recalcula en cada lectura.
type Summary struct {
	TotalPlanned   decimal.Decimal
	TotalReceived  decimal.Decimal
	TotalSpent     decimal.Decimal
	PendingBalance decimal.Decimal
	ActualProfit   decimal.Decimal
	PercentPaid    decimal.Decimal // 0..100+, dos decimales
	Overdue        []entity.PaymentPlan
}

// Rollup calcula el resumen a partir del conjunto completo de cuotas, pagos y desembolsos del proyecto.
// Solo los desembolsos pagados cuentan como gasto.
func Rollup(plans []entity.PaymentPlan, payments []entity.Payment, disbursements []entity.Disbursement, today time.Time) Summary {
	var s Summary
	for _, p := range plans {
		s.TotalPlanned = s.TotalPlanned.Add(p.Amount)
	}
	for _, p := range payments {
		s.TotalReceived = s.TotalReceived.Add(p.Amount)
	}
	for _, d := range disbursements {
		if d.Status == entity.DisbursementPaid {
			s.TotalSpent = s.TotalSpent.Add(d.Amount)
		}
	}
	s.PendingBalance = s.TotalPlanned.Sub(s.TotalReceived)
	s.ActualProfit = s.TotalReceived.Sub(s.TotalSpent)
	if s.TotalPlanned.IsPositive() {
		s.PercentPaid = s.TotalReceived.Div(s.TotalPlanned).Mul(hundred).Round(2)
	}
	s.Overdue = Overdue(plans, today)
	return s
}

// Overdue cuotas pendientes con vencimiento anterior a hoy, en el orden recibido.
func Overdue(plans []entity.PaymentPlan, today time.Time) []entity.PaymentPlan {
	out := make([]entity.PaymentPlan, 0)
	for _, p := range plans {
		if p.IsOverdue(today) {
			out = append(out, p)
		}
	}
	return out
}
