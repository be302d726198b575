package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/rentability-pro/internal/application/dto"
	"github.com/jhoicas/rentability-pro/internal/domain/entity"
	"github.com/jhoicas/rentability-pro/internal/domain/repository"
	"github.com/jhoicas/rentability-pro/internal/infrastructure/cache"
	"github.com/jhoicas/rentability-pro/internal/infrastructure/memory"
)

var today = time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(s string) time.Time {
	t, _ := time.Parse(dto.DateLayout, s)
	return t
}

func decEq(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, got.Equal(dec(want)), "esperado %s, obtenido %s", want, got)
}

// seed: un proyecto activo y uno cancelado con cuotas, pagos, desembolsos y cotizaciones.
func seed(t *testing.T) *memory.DB {
	t.Helper()
	ctx := context.Background()
	db := memory.New()

	require.NoError(t, memory.NewClientRepository(db).Create(ctx, &entity.Client{ID: "c1", Name: "Ana", Company: "Acme SAS"}))
	services := memory.NewServiceRepository(db)
	require.NoError(t, services.Create(ctx, &entity.Service{ID: "s1", Name: "Sitio web", TimesQuoted: 3, TimesSold: 1, Active: true}))
	require.NoError(t, services.Create(ctx, &entity.Service{ID: "s2", Name: "Auditoría", TimesQuoted: 5, Active: true}))

	projects := memory.NewProjectRepository(db)
	require.NoError(t, projects.Create(ctx, &entity.Project{
		ID: "p1", QuoteID: "q1", ClientID: "c1", Name: "Portal", StartDate: day("2026-02-01"),
		Status: entity.ProjectStatusActive, TotalValue: dec("1000000"), EstimatedCost: dec("600000"),
	}))
	require.NoError(t, projects.Create(ctx, &entity.Project{
		ID: "p2", QuoteID: "q0", ClientID: "c1", Name: "App", StartDate: day("2026-01-10"),
		Status: entity.ProjectStatusCancelled, TotalValue: dec("500000"), EstimatedCost: dec("200000"),
	}))

	plans := memory.NewPaymentPlanRepository(db)
	require.NoError(t, plans.ReplaceForProject(ctx, "p1", []*entity.PaymentPlan{
		{ID: "pl1", Number: 1, DueDate: day("2026-03-01"), Amount: dec("400000"), Status: entity.InstallmentPending},
		{ID: "pl2", Number: 2, DueDate: day("2026-04-30"), Amount: dec("600000"), Status: entity.InstallmentPending},
	}))
	require.NoError(t, plans.ReplaceForProject(ctx, "p2", []*entity.PaymentPlan{
		{ID: "pl3", Number: 1, DueDate: day("2026-02-01"), Amount: dec("500000"), Status: entity.InstallmentPending},
	}))

	payments := memory.NewPaymentRepository(db)
	for _, p := range []entity.Payment{
		{ID: "pay1", ProjectID: "p1", Date: day("2026-03-05"), Amount: dec("300000"), Method: entity.MethodTransfer},
		{ID: "pay2", ProjectID: "p1", Date: day("2026-01-15"), Amount: dec("100000"), Method: entity.MethodCash},
		{ID: "pay3", ProjectID: "p2", Date: day("2026-02-10"), Amount: dec("50000"), Method: entity.MethodCash},
	} {
		p := p
		require.NoError(t, payments.Create(ctx, &p))
	}

	require.NoError(t, memory.NewExpenseCategoryRepository(db).Create(ctx, &entity.ExpenseCategory{ID: "cat1", Name: "Software", Active: true}))
	disbursements := memory.NewDisbursementRepository(db)
	for _, d := range []entity.Disbursement{
		{ID: "d1", ProjectID: "p1", CategoryID: "cat1", Date: day("2026-03-06"), Amount: dec("120000"), Status: entity.DisbursementPaid},
		{ID: "d2", ProjectID: "p1", CategoryID: "cat1", Date: day("2026-03-07"), Amount: dec("999"), Status: entity.DisbursementPending},
		{ID: "d3", CategoryID: "cat1", Date: day("2026-02-20"), Amount: dec("80000"), Status: entity.DisbursementPaid},
	} {
		d := d
		require.NoError(t, disbursements.Create(ctx, &d))
	}

	quotes := memory.NewQuoteRepository(db)
	for _, q := range []entity.Quote{
		{ID: "q1", Number: "COT-0001", ClientID: "c1", Status: entity.QuoteStatusApproved, Total: dec("1000000"), ValidUntil: day("2026-02-28")},
		{ID: "q2", Number: "COT-0002", ClientID: "c1", Status: entity.QuoteStatusRejected, ValidUntil: day("2026-03-20")},
		{ID: "q3", Number: "COT-0003", ClientID: "c1", Status: entity.QuoteStatusSent, ValidUntil: day("2026-03-01")},
		{ID: "q4", Number: "COT-0004", ClientID: "c1", Status: entity.QuoteStatusSent, ValidUntil: day("2026-04-01")},
		{ID: "q5", Number: "COT-0005", ClientID: "c1", Status: entity.QuoteStatusDraft, ValidUntil: day("2026-04-01")},
	} {
		q := q
		require.NoError(t, quotes.Create(ctx, &q))
	}
	return db
}

func TestConversionRate(t *testing.T) {
	decEq(t, "0", ConversionRate(0, 0))
	decEq(t, "50", ConversionRate(1, 1))
	decEq(t, "66.67", ConversionRate(2, 1))
	decEq(t, "100", ConversionRate(3, 0))
}

func TestDashboard_GetSummary(t *testing.T) {
	db := seed(t)
	uc := NewDashboardUseCase(memory.NewReportRepository(db))
	uc.now = func() time.Time { return today }

	got, err := uc.GetSummary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Marzo 2026", got.Period)
	assert.Equal(t, map[string]int{"activo": 1, "cancelado": 1}, got.ProjectsByStatus)
	assert.Equal(t, 1, got.ActiveProjects)
	decEq(t, "300000", got.MonthIncome)
	decEq(t, "120000", got.MonthExpenses)
	decEq(t, "180000", got.MonthNet)
	decEq(t, "600000", got.Receivable)
	assert.Equal(t, 1, got.OverdueCount)
	decEq(t, "400000", got.OverdueAmount)

	assert.Equal(t, 1, got.Quotes.Draft)
	assert.Equal(t, 1, got.Quotes.Sent)
	assert.Equal(t, 1, got.Quotes.Expired)
	assert.Equal(t, 1, got.Quotes.Approved)
	assert.Equal(t, 1, got.Quotes.Rejected)
	decEq(t, "50", got.Quotes.ConversionRate)

	require.Len(t, got.TopServices, 2)
	assert.Equal(t, "s1", got.TopServices[0].ServiceID)
}

type failingReports struct{ repository.ReportRepository }

func (failingReports) ProjectCounts(context.Context) (map[string]int, error) {
	return nil, errors.New("db caída")
}

func TestDashboard_PropagaErrores(t *testing.T) {
	db := seed(t)
	uc := NewDashboardUseCase(failingReports{memory.NewReportRepository(db)})
	_, err := uc.GetSummary(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "proyectos por estado")
}

type countingReports struct {
	repository.ReportRepository
	calls *int
}

func (r countingReports) ProjectCounts(ctx context.Context) (map[string]int, error) {
	*r.calls++
	return r.ReportRepository.ProjectCounts(ctx)
}

func TestDashboard_UsaCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	calls := 0
	uc := NewDashboardUseCase(countingReports{memory.NewReportRepository(seed(t)), &calls}).
		WithCache(cache.NewRedisCache(client, time.Minute))
	uc.now = func() time.Time { return today }

	first, err := uc.GetSummary(context.Background())
	require.NoError(t, err)
	second, err := uc.GetSummary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, first.Period, second.Period)
	decEq(t, "600000", second.Receivable)
	assert.Equal(t, first.ProjectsByStatus, second.ProjectsByStatus)
}

func newReports(db *memory.DB, pdf ReportPDFGenerator, xlsx ReportXLSXGenerator) *ReportUseCase {
	uc := NewReportUseCase(memory.NewReportRepository(db), memory.NewPaymentRepository(db), memory.NewDisbursementRepository(db),
		func() entity.CompanyProfile { return entity.CompanyProfile{Name: "Rentability SAS"} }, pdf, xlsx)
	uc.now = func() time.Time { return today }
	return uc
}

func TestProfitability(t *testing.T) {
	uc := newReports(seed(t), nil, nil)
	got, err := uc.Profitability(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "2026-03-10", got.GeneratedAt)
	require.Len(t, got.Rows, 2)

	p1 := got.Rows[0]
	assert.Equal(t, "p1", p1.ProjectID)
	assert.Equal(t, "Acme SAS", p1.ClientName)
	decEq(t, "400000", p1.EstimatedProfit)
	decEq(t, "1000000", p1.Planned)
	decEq(t, "400000", p1.Received)
	decEq(t, "120000", p1.Spent)
	decEq(t, "600000", p1.Pending)
	decEq(t, "280000", p1.ActualProfit)
	decEq(t, "70", p1.ActualMarginPercent)
	decEq(t, "40", p1.PercentPaid)

	p2 := got.Rows[1]
	assert.Equal(t, "cancelado", p2.Status)
	decEq(t, "10", p2.PercentPaid)

	tot := got.Totals
	decEq(t, "1500000", tot.TotalValue)
	decEq(t, "450000", tot.Received)
	decEq(t, "330000", tot.ActualProfit)
	decEq(t, "30", tot.PercentPaid)
}

func TestCashFlow(t *testing.T) {
	uc := newReports(seed(t), nil, nil)
	ctx := context.Background()

	got, err := uc.CashFlow(ctx, 3)
	require.NoError(t, err)
	require.Len(t, got.Months, 3)
	assert.Equal(t, "2026-01", got.Months[0].Month)
	decEq(t, "100000", got.Months[0].Income)
	decEq(t, "-30000", got.Months[1].Net)
	decEq(t, "300000", got.Months[2].Income)
	decEq(t, "120000", got.Months[2].Expenses)
	decEq(t, "450000", got.TotalIncome)
	decEq(t, "200000", got.TotalExpenses)
	decEq(t, "250000", got.TotalNet)

	def, err := uc.CashFlow(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, def.Months, DefaultCashFlowMonths)

	capped, err := uc.CashFlow(ctx, 100)
	require.NoError(t, err)
	assert.Len(t, capped.Months, MaxCashFlowMonths)
}

type fakeExporter struct{ got ReportDocument }

func (f *fakeExporter) GenerateProfitabilityPDF(_ context.Context, doc ReportDocument) ([]byte, error) {
	f.got = doc
	return []byte("%PDF"), nil
}

func (f *fakeExporter) GenerateProfitabilityXLSX(_ context.Context, doc ReportDocument) ([]byte, error) {
	f.got = doc
	return []byte("PK"), nil
}

func TestExports(t *testing.T) {
	fx := &fakeExporter{}
	uc := newReports(seed(t), fx, fx)
	ctx := context.Background()

	b, err := uc.ProfitabilityPDF(ctx)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(b))
	assert.Equal(t, "Rentability SAS", fx.got.Company.Name)
	require.NotNil(t, fx.got.Report)
	assert.Len(t, fx.got.Report.Rows, 2)

	b, err = uc.ProfitabilityXLSX(ctx)
	require.NoError(t, err)
	assert.Equal(t, "PK", string(b))

	_, err = newReports(seed(t), nil, nil).ProfitabilityPDF(ctx)
	assert.Error(t, err)

	assert.Equal(t, "rentabilidad_2026-03-10.xlsx", ReportFilename(today, "xlsx"))
	assert.Equal(t, "rentabilidad_2026-03-10.pdf", uc.Filename("pdf"))
}

func TestDailyDigest(t *testing.T) {
	uc := newReports(seed(t), nil, nil)
	d, err := uc.DailyDigest(context.Background())
	require.NoError(t, err)
	assert.True(t, d.Date.Equal(day("2026-03-10")))
	assert.Equal(t, 1, d.OverdueCount)
	decEq(t, "400000", d.OverdueAmount)
	assert.Equal(t, 1, d.ExpiredQuotes)
	assert.Equal(t, 1, d.SentQuotes)
	decEq(t, "600000", d.Receivable)
}
