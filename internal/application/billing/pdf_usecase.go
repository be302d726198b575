package billing

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/rentability-pro/internal/application/state"
	"github.com/jhoicas/rentability-pro/internal/domain"
	"github.com/jhoicas/rentability-pro/internal/domain/repository"
)

// PDFUseCase genera el documento imprimible de una cotización.
type PDFUseCase struct {
	quotes    repository.QuoteRepository
	clients   repository.ClientRepository
	services  repository.ServiceRepository
	store     *state.Store
	generator QuotePDFGenerator
}

// NewPDFUseCase construye el caso de uso inyectando todas sus dependencias.
func NewPDFUseCase(
	quotes repository.QuoteRepository,
	clients repository.ClientRepository,
	services repository.ServiceRepository,
	store *state.Store,
	generator QuotePDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{quotes: quotes, clients: clients, services: services, store: store, generator: generator}
}

// DownloadQuotePDF arma el documento con empresa, cliente, ítems, totales y términos.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la cotización no existe.
func (uc *PDFUseCase) DownloadQuotePDF(ctx context.Context, quoteID string) (pdfBytes []byte, filename string, err error) {
	q, err := uc.quotes.GetByID(ctx, quoteID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener cotización: %w", err)
	}
	if q == nil {
		return nil, "", domain.ErrNotFound
	}

	client, err := uc.clients.GetByID(ctx, q.ClientID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener cliente: %w", err)
	}
	if client == nil {
		return nil, "", fmt.Errorf("pdf: cliente %s: %w", q.ClientID, domain.ErrNotFound)
	}

	ids := make([]string, 0, len(q.Items))
	for _, it := range q.Items {
		ids = append(ids, it.ServiceID)
	}
	services, err := uc.services.GetByIDs(ctx, ids)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener servicios: %w", err)
	}

	lines := make([]QuoteLineForPDF, 0, len(q.Items))
	for _, it := range q.Items {
		line := QuoteLineForPDF{QuoteItem: it, ServiceName: "Servicio " + it.ServiceID}
		if s, ok := services[it.ServiceID]; ok {
			line.ServiceName, line.Unit = s.Name, s.Unit
		}
		lines = append(lines, line)
	}

	doc := QuoteDocument{
		Quote:   q,
		Client:  client,
		Company: uc.store.Snapshot().Settings.Company,
		Lines:   lines,
	}
	pdfBytes, err = uc.generator.GenerateQuotePDF(ctx, doc)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, QuoteFilename(q.Number), nil
}

// QuoteFilename "cotizacion_<numero>.pdf": se quitan tildes y todo carácter no alfanumérico pasa a "_".
func QuoteFilename(number string) string {
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, number)
	if err != nil {
		folded = number
	}
	var b strings.Builder
	for _, r := range folded {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return "cotizacion_" + b.String() + ".pdf"
}
