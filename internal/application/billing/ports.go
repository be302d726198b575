package billing

import (
	"context"

	"github.com/jhoicas/rentability-pro/internal/domain/entity"
)

// QuoteLineForPDF ítem de cotización enriquecido con el nombre del servicio.
type QuoteLineForPDF struct {
	entity.QuoteItem
	ServiceName string
	Unit        string
}

// QuoteDocument todo lo que necesita la representación impresa de una cotización.
type QuoteDocument struct {
	Quote   *entity.Quote
	Client  *entity.Client
	Company entity.CompanyProfile
	Lines   []QuoteLineForPDF
}

// QuotePDFGenerator genera el PDF de una cotización.
type QuotePDFGenerator interface {
	GenerateQuotePDF(ctx context.Context, doc QuoteDocument) ([]byte, error)
}
