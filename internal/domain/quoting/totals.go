// Package quoting reúne las reglas de negocio de las cotizaciones: totales, validación y estados.
package quoting

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/rentability-pro/internal/domain/entity"
)

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
)

// Totals resultado del cálculo de una cotización. Los valores de cabecera son enteros (COP).
type Totals struct {
	Subtotal      decimal.Decimal
	DiscountValue decimal.Decimal
	VATValue      decimal.Decimal
	Total         decimal.Decimal
}

// ItemSubtotal cantidad × precio × (1 − descuento/100), sin redondear.
func ItemSubtotal(qty, unitPrice, discountPct decimal.Decimal) decimal.Decimal {
	return qty.Mul(unitPrice).Mul(one.Sub(discountPct.Div(hundred)))
}

// Calculate calcula los totales sobre los ítems. El total se obtiene de los valores sin redondear
// y se redondea una sola vez, de modo que total == round((Σ subtotal − descuento) × (1 + IVA/100)).
func Calculate(items []entity.QuoteItem, discountPct, vatPct decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(ItemSubtotal(it.Quantity, it.UnitPrice, it.DiscountPercent))
	}
	discount := subtotal.Mul(discountPct).Div(hundred)
	discounted := subtotal.Sub(discount)
	vat := discounted.Mul(vatPct).Div(hundred)

	return Totals{
		Subtotal:      subtotal.Round(0),
		DiscountValue: discount.Round(0),
		VATValue:      vat.Round(0),
		Total:         discounted.Add(vat).Round(0),
	}
}

// Apply recalcula subtotales de ítems y totales de la cotización in-place.
func Apply(q *entity.Quote) {
	for i := range q.Items {
		q.Items[i].Subtotal = ItemSubtotal(q.Items[i].Quantity, q.Items[i].UnitPrice, q.Items[i].DiscountPercent).Round(2)
		q.Items[i].Position = i + 1
	}
	t := Calculate(q.Items, q.DiscountPercent, q.VATPercent)
	q.Subtotal = t.Subtotal
	q.DiscountValue = t.DiscountValue
	q.VATValue = t.VATValue
	q.Total = t.Total
}
