// Package pdf genera con Maroto v2 la cotización impresa y el reporte de rentabilidad.
//
// Layout de la cotización (A4 vertical):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa + NIT        │  COTIZACIÓN N° + fechas      │
//	│  Dirección / Tel / Email / Web                               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: Nombre / Empresa + NIT + contacto                  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Servicio | P.Unit | Desc% | Subtotal          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Descuento / IVA / TOTAL                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TÉRMINOS Y NOTAS                                            │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/rentability-pro/internal/application/billing"
	"github.com/jhoicas/rentability-pro/internal/domain/entity"
	"github.com/jhoicas/rentability-pro/pkg/nit"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorHeader  = &props.Color{Red: 0, Green: 70, Blue: 127}
)

const dateLayout = "02/01/2006"

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa billing.QuotePDFGenerator y analytics.ReportPDFGenerator.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateQuotePDF genera el PDF de la cotización y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateQuotePDF(_ context.Context, doc billing.QuoteDocument) ([]byte, error) {
	if doc.Quote == nil {
		return nil, fmt.Errorf("pdf: cotización vacía")
	}
	q := doc.Quote
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Cotización "+q.Number, true).
		WithAuthor(nonEmpty(doc.Company.Name, "Rentability Pro"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(q, doc.Company))
	m.AddRows(companyContactRow(doc.Company))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(clientRow(doc.Client))
	if q.Title != "" {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New(q.Title, props.Text{Style: fontstyle.Bold, Size: 11, Top: 2}),
		)))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(doc.Lines)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(q))

	m.AddRows(line.NewRow(3))
	m.AddRows(notesRows(q)...)
	if doc.Company.Website != "" {
		m.AddRows(websiteRow(doc.Company.Website))
	}

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: empresa + NIT (izq) y número + fechas (der).
func headerRow(q *entity.Quote, company entity.CompanyProfile) core.Row {
	left := []core.Component{
		text.New(nonEmpty(company.Name, "Rentability Pro"), props.Text{
			Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
		}),
	}
	if company.NIT != "" {
		left = append(left, text.New("NIT: "+nit.Format(company.NIT), props.Text{
			Size: 9, Top: 9, Color: colorGray,
		}))
	}
	return row.New(22).Add(
		col.New(7).Add(left...),
		col.New(5).Add(
			text.New("COTIZACIÓN", props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(q.Number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 6,
			}),
			text.New("Fecha: "+formatDate(q.IssueDate), props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
			text.New("Válida hasta: "+formatDate(q.ValidUntil), props.Text{
				Size: 8, Align: align.Right, Top: 17, Color: colorGray,
			}),
		),
	)
}

// companyContactRow: datos de contacto del emisor.
func companyContactRow(c entity.CompanyProfile) core.Row {
	address := strings.TrimSpace(strings.Join(nonBlank(c.Address, c.City), ", "))
	return row.New(8).Add(
		col.New(12).Add(
			text.New(fmt.Sprintf("Dirección: %s   |   Tel: %s   |   Email: %s",
				nonEmpty(address, "-"),
				nonEmpty(c.Phone, "-"),
				nonEmpty(c.Email, "-"),
			), props.Text{Size: 8, Top: 2, Color: colorGray}),
		),
	)
}

// clientRow: datos del cliente.
func clientRow(c *entity.Client) core.Row {
	if c == nil {
		c = &entity.Client{Name: "-"}
	}
	title := c.Name
	if c.Company != "" {
		title = c.Company
	}
	detail := fmt.Sprintf("NIT/CC: %s   |   Contacto: %s   |   Email: %s   |   Tel: %s",
		nonEmpty(c.TaxID, "-"),
		nonEmpty(nonEmpty(c.ContactName, c.Name), "-"),
		nonEmpty(c.Email, "-"),
		nonEmpty(c.Phone, "-"),
	)
	return row.New(18).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(detail, props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de ítems con fondo de color.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Servicio / descripción", 5, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("Desc.", 1, align.Center),
		h("Subtotal", 3, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorHeader})
}

// tableDetailRows: una fila por ítem; la descripción va debajo del nombre del servicio.
func tableDetailRows(lines []billing.QuoteLineForPDF) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		name := nonEmpty(l.ServiceName, l.Description)
		height := 7.0
		desc := []core.Component{text.New(name, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})}
		if l.Description != "" && l.Description != name {
			desc = append(desc, text.New(l.Description, props.Text{Size: 7, Top: 5, Left: 1, Color: colorGray}))
			height = 11
		}
		qty := formatQuantity(l.Quantity)
		if l.Unit != "" {
			qty += " " + l.Unit
		}
		result = append(result, row.New(height).Add(
			col.New(1).Add(text.New(qty, props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(5).Add(desc...),
			col.New(2).Add(text.New(money(l.UnitPrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(percent(l.DiscountPercent), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(3).Add(text.New(money(l.Subtotal), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(q *entity.Quote) core.Row {
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	grand := func(s string, right float64) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: right, Top: 18,
		})
	}

	return row.New(26).Add(
		col.New(6),
		col.New(3).Add(
			label("Subtotal:", 1),
			label("Descuento ("+percent(q.DiscountPercent)+"):", 6),
			label("IVA ("+percent(q.VATPercent)+"):", 11),
			grand("TOTAL:", 2),
		),
		col.New(3).Add(
			value(money(q.Subtotal), 1),
			value("-"+money(q.DiscountValue), 6),
			value(money(q.VATValue), 11),
			grand(money(q.Total), 1),
		),
	)
}

// notesRows: términos y notas, cada bloque con alto proporcional a su largo.
func notesRows(q *entity.Quote) []core.Row {
	var rows []core.Row
	add := func(title, body string) {
		body = strings.TrimSpace(body)
		if body == "" {
			return
		}
		rows = append(rows, row.New(6).Add(col.New(12).Add(
			text.New(title, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
		)))
		rows = append(rows, row.New(textHeight(body, 120, 4)).Add(col.New(12).Add(
			text.New(body, props.Text{Size: 8, Top: 1, Color: colorGray}),
		)))
	}
	if q.EstimatedDays > 0 {
		add("TIEMPO ESTIMADO", fmt.Sprintf("%d días calendario a partir de la aprobación.", q.EstimatedDays))
	}
	add("TÉRMINOS Y CONDICIONES", q.Terms)
	add("NOTAS", q.Notes)
	return rows
}

// websiteRow: QR con el sitio web de la empresa.
func websiteRow(url string) core.Row {
	return row.New(30).Add(
		col.New(3).Add(code.NewQr(url, props.Rect{Percent: 90, Center: true})),
		col.New(9).Add(text.New(url, props.Text{Size: 8, Top: 12, Left: 3, Color: colorGray})),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func nonBlank(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, strings.TrimSpace(v))
		}
	}
	return out
}

// textHeight alto aproximado de un bloque de texto de perLine caracteres por renglón.
func textHeight(s string, perLine int, lineHeight float64) float64 {
	lines := 0
	for _, p := range strings.Split(s, "\n") {
		lines += len([]rune(p))/perLine + 1
	}
	return float64(lines)*lineHeight + 2
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(dateLayout)
}

// money pesos colombianos sin decimales: 1234567 → "$1.234.567".
func money(d decimal.Decimal) string {
	s := formatMoney(d.Abs().StringFixed(0))
	if d.Round(0).IsNegative() {
		return "-$" + s
	}
	return "$" + s
}

func percent(d decimal.Decimal) string {
	return d.String() + "%"
}

func formatQuantity(d decimal.Decimal) string {
	if d.Equal(d.Truncate(0)) {
		return d.StringFixed(0)
	}
	return strings.Replace(d.String(), ".", ",", 1)
}

// formatMoney inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func formatMoney(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
