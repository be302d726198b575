package projects

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/rentability-pro/internal/application/dto"
	"github.com/jhoicas/rentability-pro/internal/application/state"
	"github.com/jhoicas/rentability-pro/internal/domain"
	"github.com/jhoicas/rentability-pro/internal/domain/entity"
	"github.com/jhoicas/rentability-pro/internal/domain/repository"
	"github.com/jhoicas/rentability-pro/internal/infrastructure/memory"
)

var today = time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(s string) time.Time {
	t, _ := time.Parse(dto.DateLayout, s)
	return t
}

type fixture struct {
	db       *memory.DB
	store    *state.Store
	projects *ProjectUseCase
	ledger   *LedgerUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	db := memory.New()
	require.NoError(t, memory.NewClientRepository(db).Create(ctx, &entity.Client{ID: "c1", Name: "Acme"}))
	end := day("2026-04-30")
	for _, p := range []entity.Project{
		{ID: "p1", QuoteID: "q1", ClientID: "c1", Name: "Portal", StartDate: day("2026-03-01"), EstimatedEndDate: &end, Status: entity.ProjectStatusActive, TotalValue: dec("1000000")},
		{ID: "p2", QuoteID: "q2", ClientID: "c1", Name: "App", StartDate: day("2026-03-01"), Status: entity.ProjectStatusActive, TotalValue: dec("500000")},
	} {
		p := p
		require.NoError(t, memory.NewProjectRepository(db).Create(ctx, &p))
	}
	require.NoError(t, memory.NewExpenseCategoryRepository(db).Create(ctx, &entity.ExpenseCategory{ID: "cat1", Name: "Materiales", Active: true}))

	store := state.NewStore(zerolog.Nop())
	now := func() time.Time { return today }

	pu := NewProjectUseCase(memory.NewProjectRepository(db), memory.NewPaymentPlanRepository(db),
		memory.NewPaymentRepository(db), memory.NewDisbursementRepository(db), store, zerolog.Nop())
	pu.now = now
	lu := NewLedgerUseCase(memory.NewTxRunner(db), memory.NewProjectRepository(db), memory.NewPaymentPlanRepository(db),
		memory.NewPaymentRepository(db), memory.NewDisbursementRepository(db), zerolog.Nop())
	lu.now = now
	return &fixture{db: db, store: store, projects: pu, ledger: lu}
}

func halfAndHalf(confirm bool, second string) dto.SavePlanRequest {
	return dto.SavePlanRequest{
		Confirm: confirm,
		Items: []dto.PaymentPlanItemRequest{
			{DueDate: "2026-03-15", Amount: dec("500000"), Type: "anticipo", Percent: dec("50")},
			{DueDate: "2026-04-30", Amount: dec("500000"), Type: "final", Percent: dec(second)},
		},
	}
}

func TestSavePlan_PorcentajesDistintosDe100RequierenConfirmacion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.ledger.SavePlan(ctx, "p1", halfAndHalf(false, "40"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNeedsConfirmation)
	var w *domain.WarningError
	require.ErrorAs(t, err, &w)
	assert.Equal(t, "PERCENT_MISMATCH", w.Code)

	list, err := f.ledger.ListPlans(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, list.Items)

	saved, err := f.ledger.SavePlan(ctx, "p1", halfAndHalf(true, "40"))
	require.NoError(t, err)
	require.Len(t, saved.Items, 2)
	assert.True(t, saved.PercentTotal.Equal(dec("90")))
	assert.NotEmpty(t, saved.Warning)
	assert.Equal(t, 1, saved.Items[0].Number)
	assert.Equal(t, "pendiente", saved.Items[0].Status)
}

func TestSavePlan_ReemplazaElPlanAnterior(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.ledger.SavePlan(ctx, "p1", halfAndHalf(false, "50"))
	require.NoError(t, err)
	_, err = f.ledger.SavePlan(ctx, "p1", dto.SavePlanRequest{Items: []dto.PaymentPlanItemRequest{
		{DueDate: "2026-03-20", Amount: dec("1000000"), Percent: dec("100")},
	}})
	require.NoError(t, err)

	list, err := f.ledger.ListPlans(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "cuota", list.Items[0].Type)
	assert.Empty(t, list.Warning)
}

func TestSavePlan_ErroresPorCuota(t *testing.T) {
	f := newFixture(t)
	_, err := f.ledger.SavePlan(context.Background(), "p1", dto.SavePlanRequest{Items: []dto.PaymentPlanItemRequest{
		{DueDate: "2026-03-20", Amount: dec("0"), Percent: dec("50"), Type: "bono"},
		{DueDate: "20/03/2026", Amount: dec("10"), Percent: dec("50")},
	}})
	require.Error(t, err)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Errors, "Cuota 2: fecha_vencimiento debe tener formato YYYY-MM-DD")
}

func TestSavePlan_ProyectoInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.ledger.SavePlan(context.Background(), "nope", halfAndHalf(true, "50"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApplyTemplate_VistaPreviaYGuardado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	preview, err := f.ledger.ApplyTemplate(ctx, "p1", dto.PlanTemplateRequest{Template: "40-40-20"})
	require.NoError(t, err)
	require.Len(t, preview.Items, 3)
	assert.Equal(t, "2026-03-10", preview.Items[0].DueDate)
	assert.Equal(t, "2026-03-31", preview.Items[1].DueDate)
	assert.Equal(t, "2026-04-30", preview.Items[2].DueDate)
	assert.True(t, preview.Items[0].Amount.Equal(dec("400000")))
	assert.True(t, preview.Items[2].Amount.Equal(dec("200000")))
	assert.True(t, preview.PercentTotal.Equal(dec("100")))

	list, err := f.ledger.ListPlans(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, list.Items)

	_, err = f.ledger.ApplyTemplate(ctx, "p1", dto.PlanTemplateRequest{Template: "40-40-20", Save: true})
	require.NoError(t, err)
	list, err = f.ledger.ListPlans(ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, list.Items, 3)
}

func TestApplyTemplate_SinFechaFinUsaTreintaDias(t *testing.T) {
	f := newFixture(t)
	out, err := f.ledger.ApplyTemplate(context.Background(), "p2", dto.PlanTemplateRequest{Template: "50-50"})
	require.NoError(t, err)
	require.Len(t, out.Items, 2)
	assert.Equal(t, "2026-03-31", out.Items[1].DueDate)
	assert.True(t, out.Items[1].Amount.Equal(dec("250000")))
}

func TestApplyTemplate_Desconocida(t *testing.T) {
	f := newFixture(t)
	_, err := f.ledger.ApplyTemplate(context.Background(), "p1", dto.PlanTemplateRequest{Template: "30-70"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func firstPlanID(t *testing.T, f *fixture, projectID string) string {
	t.Helper()
	list, err := f.ledger.ListPlans(context.Background(), projectID)
	require.NoError(t, err)
	require.NotEmpty(t, list.Items)
	return list.Items[0].ID
}

func planStatus(t *testing.T, f *fixture, id string) entity.InstallmentStatus {
	t.Helper()
	p, err := memory.NewPaymentPlanRepository(f.db).GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Status
}

func TestRegisterPayment_ConciliaLaCuota(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.ledger.SavePlan(ctx, "p1", halfAndHalf(false, "50"))
	require.NoError(t, err)
	planID := firstPlanID(t, f, "p1")

	_, err = f.ledger.RegisterPayment(ctx, "u1", dto.PaymentRequest{
		ProjectID: "p1", PaymentPlanID: planID, Amount: dec("200000"), Method: "transferencia",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.InstallmentPartial, planStatus(t, f, planID))

	second, err := f.ledger.RegisterPayment(ctx, "u1", dto.PaymentRequest{
		ProjectID: "p1", PaymentPlanID: planID, Amount: dec("300000"), Method: "Efectivo", Date: "2026-03-09",
	})
	require.NoError(t, err)
	assert.Equal(t, "2026-03-09", second.Date)
	assert.Equal(t, "efectivo", second.Method)
	assert.Equal(t, entity.InstallmentPaid, planStatus(t, f, planID))

	require.NoError(t, f.ledger.DeletePayment(ctx, second.ID))
	assert.Equal(t, entity.InstallmentPartial, planStatus(t, f, planID))

	payments, err := f.ledger.ListPayments(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, "2026-03-10", payments[0].Date)
}

func TestRegisterPayment_Validaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.ledger.SavePlan(ctx, "p2", dto.SavePlanRequest{Items: []dto.PaymentPlanItemRequest{
		{DueDate: "2026-03-20", Amount: dec("500000"), Percent: dec("100")},
	}})
	require.NoError(t, err)
	foreign := firstPlanID(t, f, "p2")

	_, err = f.ledger.RegisterPayment(ctx, "u1", dto.PaymentRequest{ProjectID: "p1", PaymentPlanID: foreign, Amount: dec("10"), Method: "efectivo"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.ledger.RegisterPayment(ctx, "u1", dto.PaymentRequest{ProjectID: "p1", Amount: dec("-1"), Method: "bitcoin"})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Errors, 2)

	_, err = f.ledger.RegisterPayment(ctx, "u1", dto.PaymentRequest{ProjectID: "zzz", Amount: dec("10"), Method: "efectivo"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDeletePayment_Inexistente(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.ledger.DeletePayment(context.Background(), "nope"), domain.ErrNotFound)
}

func TestDisbursements_EstadoSoloAvanza(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	d, err := f.ledger.CreateDisbursement(ctx, "u1", dto.DisbursementRequest{
		ProjectID: "p1", CategoryID: "cat1", Description: "Licencias", Amount: dec("150000"),
	})
	require.NoError(t, err)
	assert.Equal(t, "pendiente", d.Status)
	assert.Equal(t, "2026-03-10", d.Date)

	d, err = f.ledger.ChangeDisbursementStatus(ctx, d.ID, "pagado")
	require.NoError(t, err)
	assert.Equal(t, "pagado", d.Status)

	_, err = f.ledger.ChangeDisbursementStatus(ctx, d.ID, "aprobado")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	upd, err := f.ledger.UpdateDisbursement(ctx, d.ID, dto.DisbursementRequest{
		ProjectID: "p1", CategoryID: "cat1", Description: "Licencias anuales", Amount: dec("160000"), Status: "pendiente",
	})
	require.NoError(t, err)
	assert.Equal(t, "pagado", upd.Status)
	assert.Equal(t, "Licencias anuales", upd.Description)
}

func TestDisbursements_GeneralesYValidacion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.ledger.CreateDisbursement(ctx, "u1", dto.DisbursementRequest{CategoryID: "cat1", Description: "Arriendo", Amount: dec("900000")})
	require.NoError(t, err)
	_, err = f.ledger.CreateDisbursement(ctx, "u1", dto.DisbursementRequest{ProjectID: "p1", CategoryID: "cat1", Description: "Cable", Amount: dec("5000")})
	require.NoError(t, err)

	general, err := f.ledger.ListDisbursements(ctx, repository.DisbursementFilter{GeneralOnly: true})
	require.NoError(t, err)
	require.Len(t, general, 1)
	assert.Equal(t, "Arriendo", general[0].Description)

	_, err = f.ledger.CreateDisbursement(ctx, "u1", dto.DisbursementRequest{Amount: dec("0")})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Errors, 3)

	_, err = f.ledger.CreateDisbursement(ctx, "u1", dto.DisbursementRequest{CategoryID: "ghost", Description: "x", Amount: dec("1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProjectSummary_Rollup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.ledger.SavePlan(ctx, "p1", dto.SavePlanRequest{Items: []dto.PaymentPlanItemRequest{
		{DueDate: "2026-03-05", Amount: dec("400000"), Type: "anticipo", Percent: dec("40")},
		{DueDate: "2026-04-30", Amount: dec("600000"), Type: "final", Percent: dec("60")},
	}})
	require.NoError(t, err)

	_, err = f.ledger.RegisterPayment(ctx, "u1", dto.PaymentRequest{ProjectID: "p1", Amount: dec("400000"), Method: "transferencia"})
	require.NoError(t, err)
	paid, err := f.ledger.CreateDisbursement(ctx, "u1", dto.DisbursementRequest{ProjectID: "p1", CategoryID: "cat1", Description: "Hosting", Amount: dec("150000"), Status: "pagado"})
	require.NoError(t, err)
	_, err = f.ledger.CreateDisbursement(ctx, "u1", dto.DisbursementRequest{ProjectID: "p1", CategoryID: "cat1", Description: "Dominio", Amount: dec("50000")})
	require.NoError(t, err)
	require.Equal(t, "pagado", paid.Status)

	s, err := f.projects.Summary(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, s.TotalPlanned.Equal(dec("1000000")))
	assert.True(t, s.TotalReceived.Equal(dec("400000")))
	assert.True(t, s.TotalSpent.Equal(dec("150000")))
	assert.True(t, s.PendingBalance.Equal(dec("600000")))
	assert.True(t, s.ActualProfit.Equal(dec("250000")))
	assert.True(t, s.PercentPaid.Equal(dec("40")))
	// el pago no se asoció a la cuota: sigue pendiente y vencida
	require.Len(t, s.Overdue, 1)
	assert.Equal(t, "vencido", s.Overdue[0].Status)

	got, err := f.projects.Get(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, got.Summary)

	done, err := f.projects.Complete(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "completado", done.Status)
	assert.Equal(t, 100, done.Progress)
	assert.Equal(t, "2026-03-10", done.ActualEndDate)
	assert.True(t, done.ActualCost.Equal(dec("150000")))
	assert.True(t, done.ActualProfitability.Equal(dec("250000")))

	cached, ok := f.store.Snapshot().Projects["p1"]
	require.True(t, ok)
	assert.Equal(t, entity.ProjectStatusCompleted, cached.Status)
}

func TestProjectLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.projects.Pause(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "pausado", p.Status)

	_, err = f.projects.Pause(ctx, "p1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	p, err = f.projects.Resume(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "activo", p.Status)

	p, err = f.projects.Cancel(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "cancelado", p.Status)

	_, err = f.projects.Complete(ctx, "p1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = f.projects.SetProgress(ctx, "p1", 50)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = f.projects.Pause(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSetProgress_LimitaYNoCompleta(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.projects.SetProgress(ctx, "p1", 150)
	require.NoError(t, err)
	assert.Equal(t, 100, p.Progress)
	assert.Equal(t, "activo", p.Status)

	p, err = f.projects.SetProgress(ctx, "p1", -5)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Progress)
}

func TestUpdateProject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.projects.Update(ctx, "p1", dto.UpdateProjectRequest{
		Name: "Portal v2", StartDate: "2026-03-02", EstimatedEndDate: "2026-05-15", Notes: "fase 2",
	})
	require.NoError(t, err)
	assert.Equal(t, "Portal v2", p.Name)
	assert.Equal(t, "2026-05-15", p.EstimatedEndDate)
	assert.True(t, p.TotalValue.Equal(dec("1000000")))

	_, err = f.projects.Update(ctx, "p1", dto.UpdateProjectRequest{Name: "x", StartDate: "2026-06-01", EstimatedEndDate: "2026-05-01"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.projects.Update(ctx, "p1", dto.UpdateProjectRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.projects.Update(ctx, "p1", dto.UpdateProjectRequest{Name: "   "})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Errors, "El nombre del proyecto es obligatorio")

	p, err = f.projects.Update(ctx, "p1", dto.UpdateProjectRequest{Name: "  Portal v3  ", StartDate: "2026-03-02"})
	require.NoError(t, err)
	assert.Equal(t, "Portal v3", p.Name)

	list, err := f.projects.List(ctx, "activo", "c1")
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
