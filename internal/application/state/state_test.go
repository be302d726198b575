package state

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/rentability-pro/internal/domain/entity"
)

func TestReduce_Entidades(t *testing.T) {
	s0 := Empty()
	s1 := Reduce(s0, ClientSaved{Client: entity.Client{ID: "c1", Name: "Acme"}})

	assert.Len(t, s0.Clients, 0, "el estado anterior no cambia")
	assert.Equal(t, "Acme", s1.Clients["c1"].Name)
	assert.Equal(t, uint64(1), s1.Version)

	s2 := Reduce(s1, ClientDeleted{ID: "c1"})
	assert.Len(t, s2.Clients, 0)
	assert.Len(t, s1.Clients, 1)

	s3 := Reduce(s2, QuoteSaved{Quote: entity.Quote{ID: "q1", Items: []entity.QuoteItem{{ID: "i1"}}}})
	assert.Nil(t, s3.Quotes["q1"].Items, "solo cabeceras")

	s4 := Reduce(s3, ProjectSaved{Project: entity.Project{ID: "p1", Status: entity.ProjectStatusActive}})
	assert.Equal(t, entity.ProjectStatusActive, s4.Projects["p1"].Status)
	assert.Equal(t, uint64(4), s4.Version)
}

func TestReduce_ConfiguracionMergeLocal(t *testing.T) {
	s0 := Empty()
	s1 := Reduce(s0, MapEntrySet{Map: entity.MapOverhead, Key: "arriendo", Value: decimal.NewFromInt(8)})
	s2 := Reduce(s1, MapEntrySet{Map: entity.MapOverhead, Key: "servicios", Value: decimal.NewFromInt(4)})

	assert.Len(t, s0.Settings.Overhead, 0)
	assert.Len(t, s1.Settings.Overhead, 1)
	assert.Equal(t, "12", s2.Settings.Overhead.Sum().String())

	s3 := Reduce(s2, MapEntryRemoved{Map: entity.MapOverhead, Key: "arriendo"})
	assert.Equal(t, []string{"servicios"}, s3.Settings.Overhead.Keys())
	assert.Len(t, s2.Settings.Overhead, 2)

	s4 := Reduce(s3, MapReplaced{Map: entity.MapTools, Values: entity.AmountMap{"laptop": decimal.NewFromInt(5000000)}})
	assert.Equal(t, []string{"laptop"}, s4.Settings.Tools.Keys())

	s5 := Reduce(s4, CompanyUpdated{Company: entity.CompanyProfile{Name: "Estudio"}})
	s6 := Reduce(s5, QuoteDefaultsUpdated{Defaults: entity.QuoteDefaults{ValidityDays: 10, NumberPrefix: "PRO"}})
	assert.Equal(t, "Estudio", s6.Settings.Company.Name)
	assert.Equal(t, "PRO", s6.Settings.QuoteDefaults.NumberPrefix)
}

func TestReduce_MapaDesconocidoNoHaceNada(t *testing.T) {
	s := Reduce(Empty(), MapEntrySet{Map: "otro", Key: "x", Value: decimal.NewFromInt(1)})
	assert.Len(t, s.Settings.Overhead, 0)
}

type fakeLoader struct {
	h   Hydrated
	err error
}

func (f fakeLoader) Load(context.Context) (Hydrated, error) { return f.h, f.err }

func TestStore_Hydrate(t *testing.T) {
	st := NewStore(zerolog.New(io.Discard))
	st.Dispatch(ClientSaved{Client: entity.Client{ID: "viejo"}})

	settings := entity.DefaultSettings()
	settings.Overhead["admin"] = decimal.NewFromInt(10)
	err := st.Hydrate(context.Background(), fakeLoader{h: Hydrated{
		Clients:  []*entity.Client{{ID: "c1"}, {ID: "c2"}},
		Services: []*entity.Service{{ID: "s1"}},
		Settings: settings,
		At:       time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}})
	require.NoError(t, err)

	snap := st.Snapshot()
	assert.Len(t, snap.Clients, 2)
	assert.NotContains(t, snap.Clients, "viejo")
	assert.Len(t, snap.Services, 1)
	assert.Equal(t, "10", snap.Settings.Overhead.Sum().String())

	settings.Overhead["admin"] = decimal.NewFromInt(99)
	assert.Equal(t, "10", st.Snapshot().Settings.Overhead["admin"].String(), "el store no comparte mapas con el loader")
}

func TestStore_HydrateError(t *testing.T) {
	st := NewStore(zerolog.New(io.Discard))
	st.Dispatch(ClientSaved{Client: entity.Client{ID: "c1"}})

	err := st.Hydrate(context.Background(), fakeLoader{err: errors.New("db caída")})
	require.Error(t, err)
	assert.Len(t, st.Snapshot().Clients, 1, "estado intacto")
}
