package finance

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/rentability-pro/internal/domain"
	"github.com/jhoicas/rentability-pro/internal/domain/entity"
)

// Plantillas de plan de pagos.
const (
	Template5050   = "50-50"
	Template404020 = "40-40-20"
)

// CodePercentMismatch código de la advertencia cuando los porcentajes no suman 100.
const CodePercentMismatch = "PERCENT_MISMATCH"

type templateRow struct {
	kind    entity.InstallmentType
	percent int64
	at      func(start, end time.Time) time.Time
	label   string
}

func atStart(start, _ time.Time) time.Time { return start }
func atEnd(_, end time.Time) time.Time     { return end }
func atMiddle(start, end time.Time) time.Time {
	return start.Add(end.Sub(start) / 2)
}

var templates = map[string][]templateRow{
	Template5050: {
		{entity.InstallmentAdvance, 50, atStart, "Anticipo 50%"},
		{entity.InstallmentFinal, 50, atEnd, "Pago final 50%"},
	},
	Template404020: {
		{entity.InstallmentAdvance, 40, atStart, "Anticipo 40%"},
		{entity.InstallmentInstallment, 40, atMiddle, "Segundo pago 40%"},
		{entity.InstallmentFinal, 20, atEnd, "Pago final 20%"},
	},
}

// TemplateNames plantillas disponibles.
func TemplateNames() []string { return []string{Template5050, Template404020} }

// FromTemplate genera las cuotas de una plantilla. start y end vacíos o invertidos
// se reemplazan por hoy y hoy+30 días. El monto de cada cuota es round(total × pct/100)
// sin ajustar el residuo.
func FromTemplate(name string, total decimal.Decimal, start time.Time, end *time.Time, today time.Time) ([]entity.PaymentPlan, error) {
	rows, ok := templates[name]
	if !ok {
		return nil, fmt.Errorf("%w: plantilla desconocida %q (disponibles: %s)",
			domain.ErrInvalidInput, name, strings.Join(TemplateNames(), ", "))
	}
	s := entity.DateOnly(today)
	if !start.IsZero() {
		s = entity.DateOnly(start)
	}
	e := s.AddDate(0, 0, 30)
	if end != nil && !end.IsZero() && end.After(s) {
		e = entity.DateOnly(*end)
	}
	// el anticipo siempre vence hoy
	first := entity.DateOnly(today)

	out := make([]entity.PaymentPlan, 0, len(rows))
	for i, r := range rows {
		pct := decimal.NewFromInt(r.percent)
		due := entity.DateOnly(r.at(s, e))
		if r.kind == entity.InstallmentAdvance {
			due = first
		}
		out = append(out, entity.PaymentPlan{
			Number:      i + 1,
			DueDate:     due,
			Amount:      total.Mul(pct).Div(hundred).Round(0),
			Type:        r.kind,
			Percent:     pct,
			Status:      entity.InstallmentPending,
			Description: r.label,
		})
	}
	return out, nil
}

// PercentTotal suma de porcentajes de las cuotas.
func PercentTotal(plans []entity.PaymentPlan) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range plans {
		sum = sum.Add(p.Percent)
	}
	return sum
}

// CheckPercentages devuelve un *domain.WarningError si los porcentajes no suman 100.
// Es una advertencia: con confirmación el plan se guarda tal cual, sin normalizar.
func CheckPercentages(plans []entity.PaymentPlan) error {
	sum := PercentTotal(plans)
	if sum.Equal(hundred) {
		return nil
	}
	return &domain.WarningError{
		Code:    CodePercentMismatch,
		Message: fmt.Sprintf("Los porcentajes suman %s%%, no 100%%. ¿Desea guardar de todas formas?", sum.String()),
	}
}

// ValidatePlan valida cada cuota del lote (no los porcentajes).
func ValidatePlan(plans []entity.PaymentPlan) error {
	var v domain.Validation
	seen := make(map[int]bool, len(plans))
	for i, p := range plans {
		n := i + 1
		v.Check(p.Number > 0, fmt.Sprintf("Cuota %d: el número debe ser mayor a 0", n))
		v.Check(!seen[p.Number], fmt.Sprintf("Cuota %d: número de cuota repetido (%d)", n, p.Number))
		seen[p.Number] = true
		v.Check(!p.DueDate.IsZero(), fmt.Sprintf("Cuota %d: la fecha de vencimiento es obligatoria", n))
		v.Check(p.Amount.IsPositive(), fmt.Sprintf("Cuota %d: el monto debe ser mayor a 0", n))
		v.Check(!p.Percent.IsNegative(), fmt.Sprintf("Cuota %d: el porcentaje no puede ser negativo", n))
		v.Check(validType(p.Type), fmt.Sprintf("Cuota %d: tipo inválido %q", n, p.Type))
		v.Check(validStoredStatus(p.Status), fmt.Sprintf("Cuota %d: estado inválido %q", n, p.Status))
	}
	return v.Err()
}

func validType(t entity.InstallmentType) bool {
	switch t {
	case entity.InstallmentAdvance, entity.InstallmentInstallment, entity.InstallmentFinal, entity.InstallmentMilestone:
		return true
	}
	return false
}

// vencido es solo vista; no se almacena.
func validStoredStatus(s entity.InstallmentStatus) bool {
	switch s {
	case entity.InstallmentPending, entity.InstallmentPaid, entity.InstallmentPartial:
		return true
	}
	return false
}

// NormalizeType convierte la entrada del cliente; vacío equivale a cuota.
func NormalizeType(s string) entity.InstallmentType {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return entity.InstallmentInstallment
	}
	return entity.InstallmentType(s)
}
