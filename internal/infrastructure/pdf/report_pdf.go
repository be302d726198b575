package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/rentability-pro/internal/application/analytics"
	"github.com/jhoicas/rentability-pro/internal/application/dto"
)

var colorZebra = &props.Color{Red: 240, Green: 244, Blue: 248}

type reportColumn struct {
	title string
	size  int
	align align.Type
	value func(r dto.ProfitabilityRow) string
}

var reportColumns = []reportColumn{
	{"Proyecto", 2, align.Left, func(r dto.ProfitabilityRow) string { return r.ProjectName }},
	{"Cliente", 2, align.Left, func(r dto.ProfitabilityRow) string { return r.ClientName }},
	{"Estado", 1, align.Center, func(r dto.ProfitabilityRow) string { return r.Status }},
	{"Valor", 1, align.Right, func(r dto.ProfitabilityRow) string { return money(r.TotalValue) }},
	{"Recibido", 1, align.Right, func(r dto.ProfitabilityRow) string { return money(r.Received) }},
	{"Gastado", 1, align.Right, func(r dto.ProfitabilityRow) string { return money(r.Spent) }},
	{"Por cobrar", 1, align.Right, func(r dto.ProfitabilityRow) string { return money(r.Pending) }},
	{"Rent. real", 1, align.Right, func(r dto.ProfitabilityRow) string { return money(r.ActualProfit) }},
	{"Margen", 1, align.Right, func(r dto.ProfitabilityRow) string { return percent(r.ActualMarginPercent) }},
	{"% cobrado", 1, align.Right, func(r dto.ProfitabilityRow) string { return percent(r.PercentPaid) }},
}

// GenerateProfitabilityPDF reporte de rentabilidad por proyecto en A4 horizontal.
func (g *MarotoPDFGenerator) GenerateProfitabilityPDF(_ context.Context, doc analytics.ReportDocument) ([]byte, error) {
	if doc.Report == nil {
		return nil, fmt.Errorf("pdf: reporte vacío")
	}
	company := nonEmpty(doc.Company.Name, "Rentability Pro")
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle("Reporte de rentabilidad", true).
		WithAuthor(company, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(row.New(14).Add(
		col.New(8).Add(
			text.New(company, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New("Rentabilidad por proyecto", props.Text{Size: 9, Top: 8, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("Generado: "+doc.Report.GeneratedAt, props.Text{Size: 8, Align: align.Right, Top: 8, Color: colorGray}),
		),
	))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	header := row.New(8)
	for _, c := range reportColumns {
		header.Add(col.New(c.size).Add(text.New(c.title, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: c.align, Color: colorWhite, Top: 2, Left: 1, Right: 1,
		})))
	}
	m.AddRows(header.WithStyle(&props.Cell{BackgroundColor: colorHeader}))

	for i, r := range doc.Report.Rows {
		m.AddRows(reportRow(r, i%2 == 1, false))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(reportRow(doc.Report.Totals, false, true))

	if len(doc.Report.Rows) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("No hay proyectos registrados.", props.Text{Size: 9, Align: align.Center, Top: 3, Color: colorGray}),
		)))
	}

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar reporte: %w", err)
	}
	return out.GetBytes(), nil
}

func reportRow(r dto.ProfitabilityRow, zebra, bold bool) core.Row {
	style := fontstyle.Normal
	if bold {
		style = fontstyle.Bold
	}
	rw := row.New(7)
	for _, c := range reportColumns {
		rw.Add(col.New(c.size).Add(text.New(c.value(r), props.Text{
			Size: 8, Style: style, Align: c.align, Top: 1.5, Left: 1, Right: 1,
		})))
	}
	if zebra {
		rw.WithStyle(&props.Cell{BackgroundColor: colorZebra})
	}
	return rw
}
