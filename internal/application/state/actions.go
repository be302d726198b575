package state

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/rentability-pro/internal/domain/entity"
)

// Action cambio confirmado por el almacén de datos. Solo se despacha después de un round trip exitoso.
type Action interface {
	actionName() string
}

// Hydrated reemplaza todo el estado (arranque, sincronización o recuperación de errores).
type Hydrated struct {
	Clients  []*entity.Client
	Services []*entity.Service
	Quotes   []*entity.Quote
	Projects []*entity.Project
	Settings entity.Settings
	At       time.Time
}

type ClientSaved struct{ Client entity.Client }
type ClientDeleted struct{ ID string }
type ServiceSaved struct{ Service entity.Service }
type ServiceDeleted struct{ ID string }
type QuoteSaved struct{ Quote entity.Quote }
type QuoteDeleted struct{ ID string }
type ProjectSaved struct{ Project entity.Project }

// MapEntrySet alta o cambio de una clave de un mapa de configuración.
type MapEntrySet struct {
	Map   string
	Key   string
	Value decimal.Decimal
}

// MapEntryRemoved baja de una clave.
type MapEntryRemoved struct {
	Map string
	Key string
}

// MapReplaced reemplazo completo de un mapa.
type MapReplaced struct {
	Map    string
	Values entity.AmountMap
}

type CompanyUpdated struct{ Company entity.CompanyProfile }
type QuoteDefaultsUpdated struct{ Defaults entity.QuoteDefaults }

func (Hydrated) actionName() string             { return "hydrated" }
func (ClientSaved) actionName() string          { return "client_saved" }
func (ClientDeleted) actionName() string        { return "client_deleted" }
func (ServiceSaved) actionName() string         { return "service_saved" }
func (ServiceDeleted) actionName() string       { return "service_deleted" }
func (QuoteSaved) actionName() string           { return "quote_saved" }
func (QuoteDeleted) actionName() string         { return "quote_deleted" }
func (ProjectSaved) actionName() string         { return "project_saved" }
func (MapEntrySet) actionName() string          { return "map_entry_set" }
func (MapEntryRemoved) actionName() string      { return "map_entry_removed" }
func (MapReplaced) actionName() string          { return "map_replaced" }
func (CompanyUpdated) actionName() string       { return "company_updated" }
func (QuoteDefaultsUpdated) actionName() string { return "quote_defaults_updated" }
