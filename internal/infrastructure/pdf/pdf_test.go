package pdf

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/rentability-pro/internal/application/analytics"
	"github.com/jhoicas/rentability-pro/internal/application/billing"
	"github.com/jhoicas/rentability-pro/internal/application/dto"
	"github.com/jhoicas/rentability-pro/internal/domain/entity"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestMoney(t *testing.T) {
	cases := map[string]string{
		"0":          "$0",
		"950":        "$950",
		"25000":      "$25.000",
		"1000000":    "$1.000.000",
		"357000.4":   "$357.000",
		"-1234567":   "-$1.234.567",
		"1234567.50": "$1.234.568",
	}
	for in, want := range cases {
		assert.Equal(t, want, money(dec(in)), in)
	}
}

func TestFormatQuantity(t *testing.T) {
	assert.Equal(t, "2", formatQuantity(dec("2.00")))
	assert.Equal(t, "1,5", formatQuantity(dec("1.5")))
}

func TestGenerateQuotePDF(t *testing.T) {
	issue := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	doc := billing.QuoteDocument{
		Quote: &entity.Quote{
			Number: "COT-0001", Title: "Portal corporativo", IssueDate: issue, ValidUntil: issue.AddDate(0, 0, 30),
			EstimatedDays: 45, DiscountPercent: dec("10"), VATPercent: dec("19"),
			Subtotal: dec("300000"), DiscountValue: dec("30000"), VATValue: dec("51300"), Total: dec("321300"),
			Terms: "Pago 50% anticipado.", Notes: "Incluye hosting el primer año.",
		},
		Client:  &entity.Client{Name: "Ana", Company: "Acme SAS", TaxID: "900123456-8"},
		Company: entity.CompanyProfile{Name: "Estudio Creativo", NIT: "900123456-8", Website: "https://example.co"},
		Lines: []billing.QuoteLineForPDF{{
			QuoteItem:   entity.QuoteItem{Quantity: dec("2"), UnitPrice: dec("150000"), Subtotal: dec("300000"), Description: "Diseño y desarrollo"},
			ServiceName: "Sitio web",
			Unit:        "und",
		}},
	}

	b, err := NewMarotoPDFGenerator().GenerateQuotePDF(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(b[:4]))

	_, err = NewMarotoPDFGenerator().GenerateQuotePDF(context.Background(), billing.QuoteDocument{})
	assert.Error(t, err)
}

func TestGenerateProfitabilityPDF(t *testing.T) {
	report := &dto.ProfitabilityReport{
		GeneratedAt: "2026-03-10",
		Rows: []dto.ProfitabilityRow{
			{ProjectName: "Portal", ClientName: "Acme SAS", Status: "activo", TotalValue: dec("1000000"), Received: dec("400000")},
			{ProjectName: "App", ClientName: "Beta", Status: "completado", TotalValue: dec("500000"), Received: dec("500000")},
		},
		Totals: dto.ProfitabilityRow{ProjectName: "Total", TotalValue: dec("1500000"), Received: dec("900000")},
	}
	b, err := NewMarotoPDFGenerator().GenerateProfitabilityPDF(context.Background(), analytics.ReportDocument{Report: report})
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(b[:4]))
}
