package finance

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/rentability-pro/internal/domain"
	"github.com/jhoicas/rentability-pro/internal/domain/entity"
)

// InstallmentStatusFor estado de una cuota según lo pagado contra ella.
func InstallmentStatusFor(amount, paid decimal.Decimal) entity.InstallmentStatus {
	switch {
	case paid.IsPositive() && paid.GreaterThanOrEqual(amount):
		return entity.InstallmentPaid
	case paid.IsPositive():
		return entity.InstallmentPartial
	default:
		return entity.InstallmentPending
	}
}

// ValidatePayment valida un pago antes de registrarlo.
func ValidatePayment(p *entity.Payment) error {
	var v domain.Validation
	v.Check(strings.TrimSpace(p.ProjectID) != "", "El pago debe estar asociado a un proyecto")
	v.Check(p.Amount.IsPositive(), "El monto debe ser mayor a 0")
	v.Check(!p.Date.IsZero(), "La fecha del pago es obligatoria")
	v.Check(entity.ValidMethods[p.Method], fmt.Sprintf("Método de pago inválido %q", p.Method))
	return v.Err()
}

// ValidateDisbursement valida un desembolso; el proyecto es opcional (gasto general).
func ValidateDisbursement(d *entity.Disbursement) error {
	var v domain.Validation
	v.Check(strings.TrimSpace(d.CategoryID) != "", "Debe seleccionar una categoría")
	v.Check(strings.TrimSpace(d.Description) != "", "La descripción es obligatoria")
	v.Check(d.Amount.IsPositive(), "El monto debe ser mayor a 0")
	v.Check(!d.Date.IsZero(), "La fecha es obligatoria")
	v.Check(d.Method == "" || entity.ValidMethods[d.Method], fmt.Sprintf("Método de pago inválido %q", d.Method))
	switch d.Status {
	case entity.DisbursementPending, entity.DisbursementApproved, entity.DisbursementPaid:
	default:
		v.Add(fmt.Sprintf("Estado inválido %q", d.Status))
	}
	return v.Err()
}

var disbursementOrder = map[entity.DisbursementStatus]int{
	entity.DisbursementPending:  0,
	entity.DisbursementApproved: 1,
	entity.DisbursementPaid:     2,
}

// AdvanceDisbursement cambia el estado de un desembolso solo hacia adelante.
func AdvanceDisbursement(d *entity.Disbursement, to entity.DisbursementStatus) error {
	next, ok := disbursementOrder[to]
	if !ok {
		return fmt.Errorf("%w: estado de desembolso %q", domain.ErrInvalidInput, to)
	}
	if next <= disbursementOrder[d.Status] {
		return fmt.Errorf("%w: %s → %s", domain.ErrInvalidTransition, d.Status, to)
	}
	d.Status = to
	return nil
}

// MonthFlow ingresos y egresos de un mes calendario.
type MonthFlow struct {
	Month    string // YYYY-MM
	Income   decimal.Decimal
	Expenses decimal.Decimal
	Net      decimal.Decimal
}

// CashFlow serie mensual de los últimos n meses (incluido el actual), en orden cronológico.
// Solo los desembolsos pagados cuentan como egreso.
func CashFlow(payments []entity.Payment, disbursements []entity.Disbursement, months int, today time.Time) []MonthFlow {
	if months <= 0 {
		months = 6
	}
	first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location()).AddDate(0, -(months - 1), 0)
	index := make(map[string]int, months)
	out := make([]MonthFlow, months)
	for i := 0; i < months; i++ {
		key := first.AddDate(0, i, 0).Format("2006-01")
		out[i].Month = key
		index[key] = i
	}
	for _, p := range payments {
		if i, ok := index[p.Date.Format("2006-01")]; ok {
			out[i].Income = out[i].Income.Add(p.Amount)
		}
	}
	for _, d := range disbursements {
		if d.Status != entity.DisbursementPaid {
			continue
		}
		if i, ok := index[d.Date.Format("2006-01")]; ok {
			out[i].Expenses = out[i].Expenses.Add(d.Amount)
		}
	}
	for i := range out {
		out[i].Net = out[i].Income.Sub(out[i].Expenses)
	}
	return out
}

// SortPlans ordena por número de cuota.
func SortPlans(plans []entity.PaymentPlan) {
	sort.SliceStable(plans, func(i, j int) bool { return plans[i].Number < plans[j].Number })
}
