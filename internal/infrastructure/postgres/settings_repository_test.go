package postgres

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/rentability-pro/internal/domain/entity"
)

func TestQuoteDefaultsKV(t *testing.T) {
	in := entity.QuoteDefaults{ValidityDays: 15, VATPercent: decimal.NewFromInt(5), NumberPrefix: "PRO", NumberPadding: 6, Terms: "50% anticipo"}
	kv := map[string]string{}
	for _, e := range quoteDefaultsToKV(in) {
		kv[e[0]] = e[1]
	}
	out := quoteDefaultsFromKV(kv, entity.DefaultSettings().QuoteDefaults)
	assert.Equal(t, in.ValidityDays, out.ValidityDays)
	assert.True(t, in.VATPercent.Equal(out.VATPercent))
	assert.Equal(t, "PRO", out.NumberPrefix)
	assert.Equal(t, 6, out.NumberPadding)
	assert.Equal(t, "50% anticipo", out.Terms)
}

func TestQuoteDefaultsFromKV_ValoresInvalidosUsanDefecto(t *testing.T) {
	def := entity.DefaultSettings().QuoteDefaults
	out := quoteDefaultsFromKV(map[string]string{"validez_dias": "abc", "iva": "", "prefijo": ""}, def)
	assert.Equal(t, 30, out.ValidityDays)
	assert.Equal(t, "19", out.VATPercent.String())
	assert.Equal(t, "COT", out.NumberPrefix)
}

func TestCompanyKV(t *testing.T) {
	c := entity.CompanyProfile{Name: "Estudio Norte", NIT: "900123456-8", City: "Medellín", Website: "https://norte.co"}
	kv := map[string]string{}
	for _, e := range companyToKV(c) {
		kv[e[0]] = e[1]
	}
	assert.Equal(t, c, companyFromKV(kv))
}
