package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ServiceRequest body para POST/PUT /api/servicios.
// Precio es opcional: si se omite, el precio de lista sigue al sugerido.
type ServiceRequest struct {
	Name          string           `json:"nombre" validate:"required,max=200"`
	Category      string           `json:"categoria,omitempty" validate:"max=100"`
	Description   string           `json:"descripcion,omitempty"`
	Unit          string           `json:"unidad,omitempty" validate:"max=50"`
	BaseCost      decimal.Decimal  `json:"costo_base"`
	FixedOverhead decimal.Decimal  `json:"gastos_fijos"`
	Margin        decimal.Decimal  `json:"margen"`
	Price         *decimal.Decimal `json:"precio,omitempty"`
	Active        *bool            `json:"activo,omitempty"`
}

// ServiceResponse servicio del catálogo.
type ServiceResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"nombre"`
	Category       string          `json:"categoria,omitempty"`
	Description    string          `json:"descripcion,omitempty"`
	Unit           string          `json:"unidad,omitempty"`
	BaseCost       decimal.Decimal `json:"costo_base"`
	FixedOverhead  decimal.Decimal `json:"gastos_fijos"`
	Margin         decimal.Decimal `json:"margen"`
	SuggestedPrice decimal.Decimal `json:"precio_sugerido"`
	Price          decimal.Decimal `json:"precio"`
	TimesQuoted    int             `json:"veces_cotizado"`
	TimesSold      int             `json:"veces_vendido"`
	Active         bool            `json:"activo"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// PriceCalcRequest body para POST /api/servicios/calcular-precio (vista previa, no persiste).
type PriceCalcRequest struct {
	BaseCost      decimal.Decimal `json:"costo_base"`
	FixedOverhead decimal.Decimal `json:"gastos_fijos"`
	Margin        decimal.Decimal `json:"margen"`
}

// PriceCalcResponse desglose del precio sugerido.
type PriceCalcResponse struct {
	TotalCost        decimal.Decimal `json:"costo_total"`
	OverheadPercent  decimal.Decimal `json:"porcentaje_gastos_generales"`
	OverheadValue    decimal.Decimal `json:"gastos_generales"`
	CostWithOverhead decimal.Decimal `json:"costo_con_gastos"`
	MarginValue      decimal.Decimal `json:"margen_valor"`
	SuggestedPrice   decimal.Decimal `json:"precio_sugerido"`
}

// RecalculateResponse resultado de POST /api/servicios/recalcular.
type RecalculateResponse struct {
	Updated int `json:"actualizados"`
	Total   int `json:"total"`
}
