package usecase

import (
	"context"
	"errors"
	"testing"

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

type fixture struct {
	db     *memory.DB
	store  *state.Store
	loader state.RepoLoader
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := memory.New()
	f := &fixture{
		db:    db,
		store: state.NewStore(zerolog.Nop()),
		loader: state.RepoLoader{
			Clients:  memory.NewClientRepository(db),
			Services: memory.NewServiceRepository(db),
			Quotes:   memory.NewQuoteRepository(db),
			Projects: memory.NewProjectRepository(db),
			Settings: memory.NewSettingsRepository(db),
		},
	}
	require.NoError(t, f.store.Hydrate(context.Background(), f.loader))
	return f
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func (f *fixture) settings() *SettingsUseCase {
	return NewSettingsUseCase(memory.NewSettingsRepository(f.db), f.store, f.loader, zerolog.Nop())
}

func TestClientUseCase_CrearYBorrar(t *testing.T) {
	f := newFixture(t)
	uc := NewClientUseCase(memory.NewClientRepository(f.db), f.store, zerolog.Nop())
	ctx := context.Background()

	_, err := uc.Create(ctx, "u1", dto.ClientRequest{Name: "  "})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Errors, "El nombre del cliente es obligatorio")

	_, err = uc.Create(ctx, "u1", dto.ClientRequest{Name: "Acme", TaxID: "900123456-1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	c, err := uc.Create(ctx, "u1", dto.ClientRequest{Name: " Acme ", TaxID: "900123456-8"})
	require.NoError(t, err)
	assert.Equal(t, "Acme", c.Name)
	assert.Contains(t, f.store.Snapshot().Clients, c.ID)

	list, err := uc.List(ctx, "acm", dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, uc.Delete(ctx, c.ID))
	assert.NotContains(t, f.store.Snapshot().Clients, c.ID)

	_, err = uc.GetByID(ctx, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestServiceUseCase_PrecioConGastosGenerales(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.settings().ReplaceMap(ctx, entity.MapOverhead, map[string]decimal.Decimal{"administracion": dec("10"), "ventas": dec("5")})
	require.NoError(t, err)

	uc := NewServiceUseCase(memory.NewServiceRepository(f.db), f.store, zerolog.Nop())
	s, err := uc.Create(ctx, dto.ServiceRequest{
		Name: "Sitio web", BaseCost: dec("100000"), FixedOverhead: dec("20000"), Margin: dec("30"),
	})
	require.NoError(t, err)
	assert.True(t, s.SuggestedPrice.Equal(dec("179400")), s.SuggestedPrice.String())
	assert.True(t, s.Price.Equal(s.SuggestedPrice))
	assert.True(t, s.Active)

	calc, err := uc.CalculatePrice(dto.PriceCalcRequest{BaseCost: dec("100000"), FixedOverhead: dec("20000"), Margin: dec("30")})
	require.NoError(t, err)
	assert.True(t, calc.SuggestedPrice.Equal(dec("179400")))
	assert.True(t, calc.OverheadPercent.Equal(dec("15")))

	_, err = uc.CalculatePrice(dto.PriceCalcRequest{BaseCost: dec("-1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestServiceUseCase_RecalcularTrasCambioDeGastos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := NewServiceUseCase(memory.NewServiceRepository(f.db), f.store, zerolog.Nop())

	atado, err := uc.Create(ctx, dto.ServiceRequest{Name: "A", BaseCost: dec("1000"), Margin: dec("0")})
	require.NoError(t, err)
	custom := dec("5000")
	fijo, err := uc.Create(ctx, dto.ServiceRequest{Name: "B", BaseCost: dec("1000"), Margin: dec("0"), Price: &custom})
	require.NoError(t, err)

	_, err = f.settings().SetEntry(ctx, entity.MapOverhead, "admin", dec("10"))
	require.NoError(t, err)

	res, err := uc.RecalculateAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, 2, res.Updated)

	got, _ := uc.GetByID(ctx, atado.ID)
	assert.True(t, got.SuggestedPrice.Equal(dec("1100")))
	assert.True(t, got.Price.Equal(dec("1100")))

	got, _ = uc.GetByID(ctx, fijo.ID)
	assert.True(t, got.SuggestedPrice.Equal(dec("1100")))
	assert.True(t, got.Price.Equal(custom))

	res, err = uc.RecalculateAll(ctx)
	require.NoError(t, err)
	assert.Zero(t, res.Updated)
}

func TestSettingsUseCase_GastosGeneralesRecalculanPrecios(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	services := NewServiceUseCase(memory.NewServiceRepository(f.db), f.store, zerolog.Nop())
	settings := f.settings().WithRepricer(services)

	s, err := services.Create(ctx, dto.ServiceRequest{Name: "Logo", BaseCost: dec("100000"), Margin: dec("0")})
	require.NoError(t, err)
	require.True(t, s.SuggestedPrice.Equal(dec("100000")))

	_, err = settings.SetEntry(ctx, entity.MapOverhead, "admin", dec("50"))
	require.NoError(t, err)
	got, err := services.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, got.SuggestedPrice.Equal(dec("150000")), got.SuggestedPrice.String())
	assert.True(t, got.Price.Equal(dec("150000")))

	_, err = settings.ReplaceMap(ctx, entity.MapOverhead, map[string]decimal.Decimal{"admin": dec("20")})
	require.NoError(t, err)
	got, _ = services.GetByID(ctx, s.ID)
	assert.True(t, got.SuggestedPrice.Equal(dec("120000")))

	_, err = settings.RemoveEntry(ctx, entity.MapOverhead, "admin")
	require.NoError(t, err)
	got, _ = services.GetByID(ctx, s.ID)
	assert.True(t, got.SuggestedPrice.Equal(dec("100000")))

	_, err = settings.SetEntry(ctx, entity.MapFixedCosts, "arriendo", dec("900000"))
	require.NoError(t, err)
	got, _ = services.GetByID(ctx, s.ID)
	assert.True(t, got.SuggestedPrice.Equal(dec("100000")))
}

func TestSettingsUseCase_Mapas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := f.settings()

	_, err := uc.SetEntry(ctx, "desconocido", "x", dec("1"))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.SetEntry(ctx, entity.MapFixedCosts, " arriendo ", dec("-5"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	out, err := uc.SetEntry(ctx, entity.MapFixedCosts, " arriendo ", dec("1500000"))
	require.NoError(t, err)
	assert.True(t, out.FixedCosts["arriendo"].Equal(dec("1500000")))

	out, err = uc.ReplaceMap(ctx, entity.MapFixedCosts, map[string]decimal.Decimal{"internet": dec("120000")})
	require.NoError(t, err)
	assert.NotContains(t, out.FixedCosts, "arriendo")
	assert.True(t, out.FixedTotal.Equal(dec("120000")))

	stored, err := memory.NewSettingsRepository(f.db).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"internet"}, stored.FixedCosts.Keys())

	_, err = uc.RemoveEntry(ctx, entity.MapFixedCosts, "arriendo")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	out, err = uc.RemoveEntry(ctx, entity.MapFixedCosts, "internet")
	require.NoError(t, err)
	assert.Empty(t, out.FixedCosts)
}

type failingSettings struct {
	repository.SettingsRepository
}

func (failingSettings) UpsertEntries(context.Context, string, entity.AmountMap) error {
	return errors.New("conexión perdida")
}

func TestSettingsUseCase_RehidrataTrasFallo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.Dispatch(state.MapEntrySet{Map: entity.MapTools, Key: "fantasma", Value: dec("1")})

	uc := NewSettingsUseCase(failingSettings{memory.NewSettingsRepository(f.db)}, f.store, f.loader, zerolog.Nop())
	_, err := uc.SetEntry(ctx, entity.MapTools, "figma", dec("60000"))
	require.Error(t, err)

	tools := f.store.Snapshot().Settings.Tools
	assert.NotContains(t, tools, "fantasma")
	assert.NotContains(t, tools, "figma")
}

func TestSettingsUseCase_EmpresaYCotizaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := f.settings()

	_, err := uc.SaveCompany(ctx, dto.CompanyProfileDTO{Name: "Estudio", NIT: "900123456-0"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	out, err := uc.SaveCompany(ctx, dto.CompanyProfileDTO{Name: "Estudio", NIT: "900123456-8"})
	require.NoError(t, err)
	assert.Equal(t, "900.123.456-8", out.Company.NIT)

	out, err = uc.SaveQuoteDefaults(ctx, dto.QuoteDefaultsDTO{ValidityDays: 15, VATPercent: dec("19"), NumberPrefix: "Q", NumberPadding: 3})
	require.NoError(t, err)
	assert.Equal(t, "Q", out.QuoteDefaults.NumberPrefix)
	assert.Equal(t, "Q-007", f.store.Snapshot().Settings.QuoteDefaults.FormatNumber(7))

	sync, err := uc.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 15, sync.Settings.QuoteDefaults.ValidityDays)
}

func TestExpenseCategoryUseCase(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := NewExpenseCategoryUseCase(memory.NewExpenseCategoryRepository(f.db))

	c, err := uc.Create(ctx, dto.ExpenseCategoryRequest{Name: "Hosting", Color: "#112233"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.ExpenseCategoryRequest{Name: "Hosting"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	off := false
	upd, err := uc.Update(ctx, c.ID, dto.ExpenseCategoryRequest{Name: "Hosting", Active: &off})
	require.NoError(t, err)
	assert.False(t, upd.Active)

	active, err := uc.List(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, active)

	require.NoError(t, uc.Delete(ctx, c.ID))
	assert.ErrorIs(t, uc.Delete(ctx, c.ID), domain.ErrNotFound)
}
