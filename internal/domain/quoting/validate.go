package quoting

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/rentability-pro/internal/domain"
	"github.com/jhoicas/rentability-pro/internal/domain/entity"
)

func inPercentRange(p decimal.Decimal) bool {
	return !p.IsNegative() && p.LessThanOrEqual(hundred)
}

// Validate revisa la cotización antes de cualquier escritura y devuelve un *domain.ValidationError
// con un mensaje por campo o ítem inválido.
func Validate(q *entity.Quote) error {
	var v domain.Validation
	v.Check(strings.TrimSpace(q.ClientID) != "", "Debe seleccionar un cliente")
	v.Check(len(q.Items) > 0, "Debe agregar al menos un ítem")
	v.Check(inPercentRange(q.DiscountPercent), "El descuento general debe estar entre 0 y 100")
	v.Check(!q.VATPercent.IsNegative(), "El IVA no puede ser negativo")
	if !q.ValidUntil.IsZero() && !q.IssueDate.IsZero() {
		v.Check(!entity.DateOnly(q.ValidUntil).Before(entity.DateOnly(q.IssueDate)),
			"La fecha de validez no puede ser anterior a la fecha de emisión")
	}

	for i, it := range q.Items {
		n := i + 1
		v.Check(strings.TrimSpace(it.ServiceID) != "", fmt.Sprintf("Ítem %d: debe seleccionar un servicio", n))
		v.Check(it.Quantity.IsPositive(), fmt.Sprintf("Ítem %d: la cantidad debe ser mayor a 0", n))
		v.Check(it.UnitPrice.IsPositive(), fmt.Sprintf("Ítem %d: el precio unitario debe ser mayor a 0", n))
		v.Check(inPercentRange(it.DiscountPercent), fmt.Sprintf("Ítem %d: el descuento debe estar entre 0 y 100", n))
	}
	return v.Err()
}
