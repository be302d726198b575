package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/rentability-pro/internal/domain"
	"github.com/jhoicas/rentability-pro/internal/domain/entity"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestCalculate_Formula(t *testing.T) {
	overhead := entity.AmountMap{"administracion": d(10), "arriendo": d(5)}
	b := Calculate(d(100000), d(20000), d(30), overhead)

	// 120000 × 1.15 = 138000; × 1.30 = 179400
	assert.True(t, b.TotalCost.Equal(d(120000)))
	assert.True(t, b.OverheadPercent.Equal(d(15)))
	assert.True(t, b.CostWithOverhead.Equal(d(138000)))
	assert.True(t, b.Price.Equal(d(179400)), b.Price.String())
	assert.True(t, b.MarginValue.Equal(d(41400)))
}

func TestCalculate_RedondeaAEntero(t *testing.T) {
	p := SuggestedPrice(decimal.RequireFromString("1000.40"), decimal.Zero, d(0), entity.AmountMap{})
	assert.Equal(t, "1000", p.String())

	p = SuggestedPrice(decimal.RequireFromString("1000.50"), decimal.Zero, d(0), entity.AmountMap{})
	assert.Equal(t, "1001", p.String())

	p = SuggestedPrice(d(333), d(0), decimal.RequireFromString("33.3"), entity.AmountMap{"x": decimal.RequireFromString("7.7")})
	assert.True(t, p.Equal(p.Round(0)), "siempre entero")
}

func TestCalculate_Monotono(t *testing.T) {
	overhead := entity.AmountMap{"a": d(12)}
	base := []int64{0, 1, 50, 999, 100000}
	for i := 1; i < len(base); i++ {
		lo := SuggestedPrice(d(base[i-1]), d(500), d(25), overhead)
		hi := SuggestedPrice(d(base[i]), d(500), d(25), overhead)
		assert.True(t, hi.GreaterThanOrEqual(lo), "costo_base")

		lo = SuggestedPrice(d(1000), d(base[i-1]), d(25), overhead)
		hi = SuggestedPrice(d(1000), d(base[i]), d(25), overhead)
		assert.True(t, hi.GreaterThanOrEqual(lo), "gastos_fijos")

		lo = SuggestedPrice(d(1000), d(500), d(base[i-1]), overhead)
		hi = SuggestedPrice(d(1000), d(500), d(base[i]), overhead)
		assert.True(t, hi.GreaterThanOrEqual(lo), "margen")
	}
}

func TestValidate_Negativos(t *testing.T) {
	err := Validate(d(-1), d(-1), d(-1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	var ve *domain.ValidationError
	assert.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Errors, 3)

	assert.NoError(t, Validate(d(0), d(0), d(0)))
}

func TestApply_MuevePrecioAtado(t *testing.T) {
	s := &entity.Service{BaseCost: d(1000), Margin: d(10)}
	Apply(s, entity.AmountMap{})
	assert.True(t, s.Price.Equal(d(1100)))

	s.BaseCost = d(2000)
	Apply(s, entity.AmountMap{})
	assert.True(t, s.Price.Equal(d(2200)), "precio de lista sigue al sugerido")

	s.Price = d(5000) // precio manual
	s.BaseCost = d(3000)
	Apply(s, entity.AmountMap{})
	assert.True(t, s.SuggestedPrice.Equal(d(3300)))
	assert.True(t, s.Price.Equal(d(5000)), "precio manual se respeta")
}
