package dto

import "github.com/shopspring/decimal"

// SettingsResponse configuración completa para GET /api/configuracion.
type SettingsResponse struct {
	Overhead      map[string]decimal.Decimal `json:"gastos_generales"`
	FixedCosts    map[string]decimal.Decimal `json:"costos_fijos"`
	Tools         map[string]decimal.Decimal `json:"herramientas"`
	OverheadTotal decimal.Decimal            `json:"total_gastos_generales"`
	FixedTotal    decimal.Decimal            `json:"total_costos_fijos"`
	ToolsTotal    decimal.Decimal            `json:"total_herramientas"`
	Company       CompanyProfileDTO          `json:"empresa"`
	QuoteDefaults QuoteDefaultsDTO           `json:"cotizaciones"`
}

// CompanyProfileDTO body y respuesta de /api/configuracion/empresa.
type CompanyProfileDTO struct {
	Name    string `json:"nombre" validate:"required,max=200"`
	NIT     string `json:"nit,omitempty" validate:"max=20"`
	Address string `json:"direccion,omitempty"`
	City    string `json:"ciudad,omitempty"`
	Phone   string `json:"telefono,omitempty"`
	Email   string `json:"email,omitempty" validate:"omitempty,email"`
	Website string `json:"sitio_web,omitempty" validate:"omitempty,url"`
	LogoURL string `json:"logo_url,omitempty" validate:"omitempty,url"`
}

// QuoteDefaultsDTO body y respuesta de /api/configuracion/cotizaciones.
type QuoteDefaultsDTO struct {
	ValidityDays  int             `json:"validez_dias" validate:"gte=1,lte=365"`
	VATPercent    decimal.Decimal `json:"iva"`
	NumberPrefix  string          `json:"prefijo" validate:"required,max=10"`
	NumberPadding int             `json:"relleno" validate:"gte=1,lte=10"`
	Terms         string          `json:"terminos,omitempty"`
}

// MapEntryRequest body para PUT /api/configuracion/:mapa/:clave.
type MapEntryRequest struct {
	Value decimal.Decimal `json:"valor"`
}

// ReplaceMapRequest body para PUT /api/configuracion/:mapa.
type ReplaceMapRequest struct {
	Values map[string]decimal.Decimal `json:"valores"`
}

// SyncResponse resultado de POST /api/configuracion/sincronizar.
type SyncResponse struct {
	Settings SettingsResponse `json:"configuracion"`
	Clients  int              `json:"clientes"`
	Services int              `json:"servicios"`
	Quotes   int              `json:"cotizaciones"`
	Projects int              `json:"proyectos"`
}
