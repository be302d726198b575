package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Service representa un servicio vendible del catálogo.
// SuggestedPrice se recalcula cada vez que cambian BaseCost, FixedOverhead, Margin o los gastos generales.
type Service struct {
	ID             string
	Name           string
	Category       string
	Description    string
	Unit           string // hora, proyecto, mes...
	BaseCost       decimal.Decimal
	FixedOverhead  decimal.Decimal // gastos fijos asignados al servicio
	Margin         decimal.Decimal // porcentaje de margen deseado
	SuggestedPrice decimal.Decimal
	Price          decimal.Decimal // precio de lista; por defecto el sugerido
	TimesQuoted    int
	TimesSold      int
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
