package quoting

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/rentability-pro/internal/domain"
	"github.com/jhoicas/rentability-pro/internal/domain/entity"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func item(svc, qty, price, disc string) entity.QuoteItem {
	return entity.QuoteItem{ServiceID: svc, Quantity: d(qty), UnitPrice: d(price), DiscountPercent: d(disc)}
}

func TestCalculate_EjemploBasico(t *testing.T) {
	items := []entity.QuoteItem{item("s1", "2", "100000", "10")}
	tot := Calculate(items, d("0"), d("19"))

	assert.Equal(t, "180000", tot.Subtotal.String())
	assert.Equal(t, "0", tot.DiscountValue.String())
	assert.Equal(t, "34200", tot.VATValue.String())
	assert.Equal(t, "214200", tot.Total.String())
}

func TestCalculate_ConDescuentoGeneral(t *testing.T) {
	items := []entity.QuoteItem{
		item("s1", "1", "500000", "0"),
		item("s2", "3", "120000", "5"),
	}
	// 500000 + 342000 = 842000; desc 10% = 84200; 757800 × 1.19 = 901782
	tot := Calculate(items, d("10"), d("19"))
	assert.Equal(t, "842000", tot.Subtotal.String())
	assert.Equal(t, "84200", tot.DiscountValue.String())
	assert.Equal(t, "143982", tot.VATValue.String())
	assert.Equal(t, "901782", tot.Total.String())
}

func TestCalculate_TotalSeRedondeaUnaVez(t *testing.T) {
	items := []entity.QuoteItem{item("s1", "1.5", "33333", "3.3")}
	disc, vat := d("7.5"), d("19")
	tot := Calculate(items, disc, vat)

	sub := ItemSubtotal(d("1.5"), d("33333"), d("3.3"))
	discValue := sub.Mul(disc).Div(hundred)
	want := sub.Sub(discValue).Mul(one.Add(vat.Div(hundred))).Round(0)
	assert.True(t, want.Equal(tot.Total), "%s != %s", want, tot.Total)
	assert.True(t, tot.Total.Equal(tot.Total.Round(0)))
}

func TestCalculate_SinItems(t *testing.T) {
	tot := Calculate(nil, d("10"), d("19"))
	assert.True(t, tot.Total.IsZero())
}

func TestApply_AsignaSubtotalesYOrden(t *testing.T) {
	q := &entity.Quote{
		VATPercent: d("19"),
		Items:      []entity.QuoteItem{item("a", "2", "100000", "10"), item("b", "1", "50000", "0")},
	}
	Apply(q)
	assert.Equal(t, "180000", q.Items[0].Subtotal.String())
	assert.Equal(t, 1, q.Items[0].Position)
	assert.Equal(t, 2, q.Items[1].Position)
	assert.Equal(t, "230000", q.Subtotal.String())
	assert.Equal(t, "273700", q.Total.String())
}

func TestValidate(t *testing.T) {
	ok := &entity.Quote{ClientID: "c1", Items: []entity.QuoteItem{item("s1", "1", "1000", "0")}, VATPercent: d("19")}
	require.NoError(t, Validate(ok))

	tests := []struct {
		name  string
		quote *entity.Quote
		want  []string
	}{
		{
			name:  "sin cliente ni ítems",
			quote: &entity.Quote{},
			want:  []string{"Debe seleccionar un cliente", "Debe agregar al menos un ítem"},
		},
		{
			name: "ítems inválidos",
			quote: &entity.Quote{ClientID: "c1", Items: []entity.QuoteItem{
				item("", "0", "1000", "0"),
				item("s2", "1", "0", "120"),
			}},
			want: []string{
				"Ítem 1: debe seleccionar un servicio",
				"Ítem 1: la cantidad debe ser mayor a 0",
				"Ítem 2: el precio unitario debe ser mayor a 0",
				"Ítem 2: el descuento debe estar entre 0 y 100",
			},
		},
		{
			name: "descuento general fuera de rango",
			quote: &entity.Quote{ClientID: "c1", DiscountPercent: d("-1"),
				Items: []entity.QuoteItem{item("s1", "1", "1000", "0")}},
			want: []string{"El descuento general debe estar entre 0 y 100"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.quote)
			require.ErrorIs(t, err, domain.ErrInvalidInput)
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.want, ve.Errors)
		})
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to entity.QuoteStatus
		want     bool
	}{
		{entity.QuoteStatusDraft, entity.QuoteStatusSent, true},
		{entity.QuoteStatusSent, entity.QuoteStatusDraft, true},
		{entity.QuoteStatusSent, entity.QuoteStatusApproved, true},
		{entity.QuoteStatusSent, entity.QuoteStatusRejected, true},
		{entity.QuoteStatusDraft, entity.QuoteStatusApproved, false},
		{entity.QuoteStatusDraft, entity.QuoteStatusRejected, false},
		{entity.QuoteStatusApproved, entity.QuoteStatusApproved, false},
		{entity.QuoteStatusApproved, entity.QuoteStatusDraft, false},
		{entity.QuoteStatusRejected, entity.QuoteStatusSent, false},
		{entity.QuoteStatusSent, entity.QuoteStatusExpired, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransition(tt.from, tt.to), "%s → %s", tt.from, tt.to)
	}
}

func TestApprove_SoloUnaVez(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	q := &entity.Quote{Status: entity.QuoteStatusSent}

	require.NoError(t, Approve(q, now))
	assert.Equal(t, entity.QuoteStatusApproved, q.Status)
	require.NotNil(t, q.ApprovedAt)

	err := Approve(q, now)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestReject_MotivoObligatorio(t *testing.T) {
	now := time.Now()
	q := &entity.Quote{Status: entity.QuoteStatusSent}

	err := Reject(q, "   ", now)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, entity.QuoteStatusSent, q.Status, "sin cambios")

	require.NoError(t, Reject(q, "  precio alto ", now))
	assert.Equal(t, entity.QuoteStatusRejected, q.Status)
	assert.Equal(t, "precio alto", q.RejectionReason)
	assert.NotNil(t, q.RejectedAt)

	assert.ErrorIs(t, Send(q), domain.ErrInvalidTransition)
}

func TestSendAndBackToDraft(t *testing.T) {
	q := &entity.Quote{Status: entity.QuoteStatusDraft}
	require.NoError(t, EnsureEditable(q))
	require.NoError(t, Send(q))
	assert.ErrorIs(t, EnsureEditable(q), domain.ErrInvalidTransition)
	assert.ErrorIs(t, Send(q), domain.ErrInvalidTransition)
	require.NoError(t, BackToDraft(q))
	assert.Equal(t, entity.QuoteStatusDraft, q.Status)
}

func TestEffectiveStatus_Vencida(t *testing.T) {
	today := time.Date(2025, 5, 1, 15, 0, 0, 0, time.UTC)
	q := &entity.Quote{Status: entity.QuoteStatusSent, ValidUntil: time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, entity.QuoteStatusExpired, q.EffectiveStatus(today))

	q.ValidUntil = time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, entity.QuoteStatusSent, q.EffectiveStatus(today), "vence al día siguiente")

	q.Status = entity.QuoteStatusDraft
	q.ValidUntil = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, entity.QuoteStatusDraft, q.EffectiveStatus(today))
}
