// Package xlsx exporta reportes a Excel con excelize.
package xlsx

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/rentability-pro/internal/application/analytics"
	"github.com/jhoicas/rentability-pro/internal/application/dto"
)

// SheetProfitability nombre de la hoja del reporte de rentabilidad.
const SheetProfitability = "Rentabilidad"

// Formatos numéricos integrados de Excel.
const (
	numFmtThousands = 3 // #,##0
	numFmtDecimals  = 4 // #,##0.00
)

type column struct {
	title string
	width float64
	value func(r dto.ProfitabilityRow) any
	money bool
}

func amount(d decimal.Decimal) any { return d.InexactFloat64() }

var columns = []column{
	{"Proyecto", 32, func(r dto.ProfitabilityRow) any { return r.ProjectName }, false},
	{"Cliente", 28, func(r dto.ProfitabilityRow) any { return r.ClientName }, false},
	{"Estado", 12, func(r dto.ProfitabilityRow) any { return r.Status }, false},
	{"Valor total", 16, func(r dto.ProfitabilityRow) any { return amount(r.TotalValue) }, true},
	{"Costo estimado", 16, func(r dto.ProfitabilityRow) any { return amount(r.EstimatedCost) }, true},
	{"Rentabilidad estimada", 20, func(r dto.ProfitabilityRow) any { return amount(r.EstimatedProfit) }, true},
	{"Planificado", 16, func(r dto.ProfitabilityRow) any { return amount(r.Planned) }, true},
	{"Recibido", 16, func(r dto.ProfitabilityRow) any { return amount(r.Received) }, true},
	{"Gastado", 16, func(r dto.ProfitabilityRow) any { return amount(r.Spent) }, true},
	{"Por cobrar", 16, func(r dto.ProfitabilityRow) any { return amount(r.Pending) }, true},
	{"Rentabilidad real", 18, func(r dto.ProfitabilityRow) any { return amount(r.ActualProfit) }, true},
	{"Margen real %", 14, func(r dto.ProfitabilityRow) any { return amount(r.ActualMarginPercent) }, false},
	{"% cobrado", 12, func(r dto.ProfitabilityRow) any { return amount(r.PercentPaid) }, false},
}

// ExcelGenerator implementa analytics.ReportXLSXGenerator.
type ExcelGenerator struct{}

// NewExcelGenerator construye el generador.
func NewExcelGenerator() *ExcelGenerator { return &ExcelGenerator{} }

type styles struct {
	header, money, percent, totalMoney, totalText, totalPercent int
}

func newStyles(f *excelize.File) (styles, error) {
	var s styles
	var err error
	border := []excelize.Border{{Type: "top", Color: "00467F", Style: 2}}
	defs := []struct {
		dst *int
		st  *excelize.Style
	}{
		{&s.header, &excelize.Style{
			Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
			Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"00467F"}},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		}},
		{&s.money, &excelize.Style{NumFmt: numFmtThousands}},
		{&s.percent, &excelize.Style{NumFmt: numFmtDecimals}},
		{&s.totalMoney, &excelize.Style{NumFmt: numFmtThousands, Font: &excelize.Font{Bold: true}, Border: border}},
		{&s.totalText, &excelize.Style{Font: &excelize.Font{Bold: true}, Border: border}},
		{&s.totalPercent, &excelize.Style{NumFmt: numFmtDecimals, Font: &excelize.Font{Bold: true}, Border: border}},
	}
	for _, d := range defs {
		if *d.dst, err = f.NewStyle(d.st); err != nil {
			return s, err
		}
	}
	return s, nil
}

// GenerateProfitabilityXLSX una fila por proyecto más la fila de totales.
func (g *ExcelGenerator) GenerateProfitabilityXLSX(_ context.Context, doc analytics.ReportDocument) ([]byte, error) {
	if doc.Report == nil {
		return nil, fmt.Errorf("xlsx: reporte vacío")
	}
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetProfitability); err != nil {
		return nil, fmt.Errorf("xlsx: hoja: %w", err)
	}
	st, err := newStyles(f)
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilos: %w", err)
	}

	sheet := SheetProfitability
	title := "Rentabilidad por proyecto"
	if doc.Company.Name != "" {
		title = doc.Company.Name + " · " + title
	}
	_ = f.SetCellValue(sheet, "A1", title)
	_ = f.SetCellValue(sheet, "A2", "Generado: "+doc.Report.GeneratedAt)

	const headerRow = 4
	for i, c := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		_ = f.SetCellValue(sheet, cell, c.title)
		name, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(sheet, name, name, c.width)
	}
	first, _ := excelize.CoordinatesToCellName(1, headerRow)
	last, _ := excelize.CoordinatesToCellName(len(columns), headerRow)
	_ = f.SetCellStyle(sheet, first, last, st.header)

	write := func(rowIdx int, r dto.ProfitabilityRow, total bool) {
		for i, c := range columns {
			cell, _ := excelize.CoordinatesToCellName(i+1, rowIdx)
			_ = f.SetCellValue(sheet, cell, c.value(r))
			style := 0
			switch {
			case c.money && total:
				style = st.totalMoney
			case c.money:
				style = st.money
			case i >= len(columns)-2 && total:
				style = st.totalPercent
			case i >= len(columns)-2:
				style = st.percent
			case total:
				style = st.totalText
			}
			if style != 0 {
				_ = f.SetCellStyle(sheet, cell, cell, style)
			}
		}
	}

	rowIdx := headerRow + 1
	for _, r := range doc.Report.Rows {
		write(rowIdx, r, false)
		rowIdx++
	}
	write(rowIdx, doc.Report.Totals, true)
	_ = f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: headerRow, TopLeftCell: "A5", ActivePane: "bottomLeft"})

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: escribir: %w", err)
	}
	return buf.Bytes(), nil
}
