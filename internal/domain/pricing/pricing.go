// Package pricing calcula el precio sugerido de un servicio del catálogo.
//
//	costo_total        = costo_base + gastos_fijos
//	costo_con_generales = costo_total × (1 + Σ gastos_generales / 100)
//	precio             = round(costo_con_generales × (1 + margen / 100))
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/rentability-pro/internal/domain"
	"github.com/jhoicas/rentability-pro/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// Breakdown desglose del cálculo, útil para la vista previa del formulario.
type Breakdown struct {
	TotalCost        decimal.Decimal
	OverheadPercent  decimal.Decimal
	OverheadValue    decimal.Decimal
	CostWithOverhead decimal.Decimal
	MarginValue      decimal.Decimal
	Price            decimal.Decimal // entero
}

// Validate rechaza entradas negativas.
func Validate(baseCost, fixedOverhead, margin decimal.Decimal) error {
	var v domain.Validation
	v.Check(!baseCost.IsNegative(), "costo_base no puede ser negativo")
	v.Check(!fixedOverhead.IsNegative(), "gastos_fijos no puede ser negativo")
	v.Check(!margin.IsNegative(), "margen no puede ser negativo")
	return v.Err()
}

// Calculate aplica la fórmula completa. Los porcentajes de gastos generales ya vienen validados como no negativos.
func Calculate(baseCost, fixedOverhead, margin decimal.Decimal, overhead entity.AmountMap) Breakdown {
	totalCost := baseCost.Add(fixedOverhead)
	pct := overhead.Sum()
	withOverhead := totalCost.Mul(decimal.NewFromInt(1).Add(pct.Div(hundred)))
	raw := withOverhead.Mul(decimal.NewFromInt(1).Add(margin.Div(hundred)))
	return Breakdown{
		TotalCost:        totalCost,
		OverheadPercent:  pct,
		OverheadValue:    withOverhead.Sub(totalCost),
		CostWithOverhead: withOverhead,
		MarginValue:      raw.Sub(withOverhead),
		Price:            raw.Round(0),
	}
}

// SuggestedPrice atajo que devuelve solo el precio redondeado.
func SuggestedPrice(baseCost, fixedOverhead, margin decimal.Decimal, overhead entity.AmountMap) decimal.Decimal {
	return Calculate(baseCost, fixedOverhead, margin, overhead).Price
}

// Apply recalcula el precio sugerido del servicio. Si el precio de lista estaba atado al sugerido
// (o vacío), se mueve con él.
func Apply(s *entity.Service, overhead entity.AmountMap) {
	prev := s.SuggestedPrice
	s.SuggestedPrice = SuggestedPrice(s.BaseCost, s.FixedOverhead, s.Margin, overhead)
	if s.Price.IsZero() || s.Price.Equal(prev) {
		s.Price = s.SuggestedPrice
	}
}
