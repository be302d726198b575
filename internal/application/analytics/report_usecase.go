package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/rentability-pro/internal/application/dto"
	"github.com/jhoicas/rentability-pro/internal/domain/entity"
	"github.com/jhoicas/rentability-pro/internal/domain/finance"
	"github.com/jhoicas/rentability-pro/internal/domain/repository"
)

// Límites de la serie de flujo de caja.
const (
	DefaultCashFlowMonths = 6
	MaxCashFlowMonths     = 24
)

// ReportDocument lo que recibe un exportador: el reporte ya calculado y el encabezado de empresa.
type ReportDocument struct {
	Company entity.CompanyProfile
	Report  *dto.ProfitabilityReport
}

// ReportPDFGenerator puerto del generador de PDF del reporte de rentabilidad.
type ReportPDFGenerator interface {
	GenerateProfitabilityPDF(ctx context.Context, doc ReportDocument) ([]byte, error)
}

// ReportXLSXGenerator puerto del generador de hoja de cálculo del reporte de rentabilidad.
type ReportXLSXGenerator interface {
	GenerateProfitabilityXLSX(ctx context.Context, doc ReportDocument) ([]byte, error)
}

// CompanySource devuelve el perfil de empresa vigente (lo provee el store de estado).
type CompanySource func() entity.CompanyProfile

// ReportUseCase reporte de rentabilidad por proyecto, flujo de caja y exportaciones.
type ReportUseCase struct {
	reports       repository.ReportRepository
	payments      repository.PaymentRepository
	disbursements repository.DisbursementRepository
	company       CompanySource
	pdf           ReportPDFGenerator
	xlsx          ReportXLSXGenerator
	now           func() time.Time
}

// NewReportUseCase construye el caso de uso. pdf y xlsx pueden ser nil si no se exporta.
func NewReportUseCase(
	reports repository.ReportRepository,
	payments repository.PaymentRepository,
	disbursements repository.DisbursementRepository,
	company CompanySource,
	pdf ReportPDFGenerator,
	xlsx ReportXLSXGenerator,
) *ReportUseCase {
	return &ReportUseCase{
		reports:       reports,
		payments:      payments,
		disbursements: disbursements,
		company:       company,
		pdf:           pdf,
		xlsx:          xlsx,
		now:           time.Now,
	}
}

func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred).Round(2)
}

func completeRow(r *dto.ProfitabilityRow) {
	r.EstimatedProfit = r.TotalValue.Sub(r.EstimatedCost)
	r.Pending = r.Planned.Sub(r.Received)
	r.ActualProfit = r.Received.Sub(r.Spent)
	r.ActualMarginPercent = percentOf(r.ActualProfit, r.Received)
	r.PercentPaid = percentOf(r.Received, r.Planned)
}

// Profitability una fila por proyecto con estimado vs. real, más la fila de totales.
func (uc *ReportUseCase) Profitability(ctx context.Context) (*dto.ProfitabilityReport, error) {
	rows, err := uc.reports.ProjectFinances(ctx)
	if err != nil {
		return nil, fmt.Errorf("reporte de rentabilidad: %w", err)
	}
	out := &dto.ProfitabilityReport{
		GeneratedAt: dto.FormatDate(uc.now()),
		Rows:        make([]dto.ProfitabilityRow, 0, len(rows)),
		Totals:      dto.ProfitabilityRow{ProjectName: "Total"},
	}
	t := &out.Totals
	for _, r := range rows {
		row := dto.ProfitabilityRow{
			ProjectID:     r.ProjectID,
			ProjectName:   r.ProjectName,
			ClientName:    r.ClientName,
			Status:        r.Status,
			TotalValue:    r.TotalValue,
			EstimatedCost: r.EstimatedCost,
			Planned:       r.Planned,
			Received:      r.Received,
			Spent:         r.Spent,
		}
		completeRow(&row)
		out.Rows = append(out.Rows, row)

		t.TotalValue = t.TotalValue.Add(r.TotalValue)
		t.EstimatedCost = t.EstimatedCost.Add(r.EstimatedCost)
		t.Planned = t.Planned.Add(r.Planned)
		t.Received = t.Received.Add(r.Received)
		t.Spent = t.Spent.Add(r.Spent)
	}
	completeRow(t)
	return out, nil
}

// ProfitabilityPDF reporte de rentabilidad en PDF.
func (uc *ReportUseCase) ProfitabilityPDF(ctx context.Context) ([]byte, error) {
	if uc.pdf == nil {
		return nil, fmt.Errorf("exportación PDF no configurada")
	}
	doc, err := uc.document(ctx)
	if err != nil {
		return nil, err
	}
	return uc.pdf.GenerateProfitabilityPDF(ctx, doc)
}

// ProfitabilityXLSX reporte de rentabilidad en Excel.
func (uc *ReportUseCase) ProfitabilityXLSX(ctx context.Context) ([]byte, error) {
	if uc.xlsx == nil {
		return nil, fmt.Errorf("exportación XLSX no configurada")
	}
	doc, err := uc.document(ctx)
	if err != nil {
		return nil, err
	}
	return uc.xlsx.GenerateProfitabilityXLSX(ctx, doc)
}

func (uc *ReportUseCase) document(ctx context.Context) (ReportDocument, error) {
	r, err := uc.Profitability(ctx)
	if err != nil {
		return ReportDocument{}, err
	}
	doc := ReportDocument{Report: r}
	if uc.company != nil {
		doc.Company = uc.company()
	}
	return doc, nil
}

// ReportFilename nombre de archivo del reporte para la fecha dada, ej: rentabilidad_2026-03-10.pdf.
func ReportFilename(day time.Time, ext string) string {
	return fmt.Sprintf("rentabilidad_%s.%s", day.Format(dto.DateLayout), ext)
}

// Filename nombre del reporte exportado hoy.
func (uc *ReportUseCase) Filename(ext string) string {
	return ReportFilename(uc.now(), ext)
}

// CashFlow serie mensual de ingresos y egresos de los últimos months meses (incluido el actual).
func (uc *ReportUseCase) CashFlow(ctx context.Context, months int) (*dto.CashFlowResponse, error) {
	if months <= 0 {
		months = DefaultCashFlowMonths
	}
	if months > MaxCashFlowMonths {
		months = MaxCashFlowMonths
	}
	now := uc.now()
	_, to := monthRange(now)
	from := to.AddDate(0, -months, 0)

	var (
		payments      []*entity.Payment
		disbursements []*entity.Disbursement
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		payments, err = uc.payments.ListBetween(gctx, from, to)
		return err
	})
	g.Go(func() (err error) {
		disbursements, err = uc.disbursements.ListBetween(gctx, from, to)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("flujo de caja: %w", err)
	}

	series := finance.CashFlow(deref(payments), deref(disbursements), months, now)
	out := &dto.CashFlowResponse{Months: make([]dto.CashFlowMonth, 0, len(series))}
	for _, m := range series {
		out.Months = append(out.Months, dto.CashFlowMonth{Month: m.Month, Income: m.Income, Expenses: m.Expenses, Net: m.Net})
		out.TotalIncome = out.TotalIncome.Add(m.Income)
		out.TotalExpenses = out.TotalExpenses.Add(m.Expenses)
	}
	out.TotalNet = out.TotalIncome.Sub(out.TotalExpenses)
	return out, nil
}

func deref[T any](list []*T) []T {
	out := make([]T, 0, len(list))
	for _, v := range list {
		out = append(out, *v)
	}
	return out
}

// Digest resumen diario de pendientes que consume el worker.
type Digest struct {
	Date          time.Time
	OverdueCount  int
	OverdueAmount decimal.Decimal
	ExpiredQuotes int
	SentQuotes    int
	Receivable    decimal.Decimal
}

// DailyDigest cuotas vencidas, cotizaciones vencidas y cartera al día de hoy. No escribe nada.
func (uc *ReportUseCase) DailyDigest(ctx context.Context) (*Digest, error) {
	now := uc.now()
	overdue, err := uc.reports.Overdue(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("resumen diario: %w", err)
	}
	quotes, err := uc.reports.QuoteStats(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("resumen diario: %w", err)
	}
	planned, received, err := uc.reports.Receivables(ctx)
	if err != nil {
		return nil, fmt.Errorf("resumen diario: %w", err)
	}
	return &Digest{
		Date:          entity.DateOnly(now),
		OverdueCount:  overdue.Count,
		OverdueAmount: overdue.Amount,
		ExpiredQuotes: quotes.Expired,
		SentQuotes:    quotes.Sent,
		Receivable:    planned.Sub(received),
	}, nil
}
