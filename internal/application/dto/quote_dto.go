package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuoteRequest body para POST/PUT /api/cotizaciones.
// Fechas, IVA y términos vacíos toman los valores por defecto de la configuración.
type QuoteRequest struct {
	ClientID        string             `json:"cliente_id"`
	Title           string             `json:"titulo,omitempty" validate:"max=200"`
	IssueDate       string             `json:"fecha_emision,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ValidUntil      string             `json:"fecha_validez,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EstimatedDays   int                `json:"duracion_estimada" validate:"gte=0"`
	DiscountPercent decimal.Decimal    `json:"descuento"`
	VATPercent      *decimal.Decimal   `json:"iva,omitempty"`
	Notes           string             `json:"notas,omitempty"`
	Terms           string             `json:"terminos,omitempty"`
	Items           []QuoteItemRequest `json:"items"`
}

// QuoteItemRequest línea de cotización.
type QuoteItemRequest struct {
	ServiceID       string          `json:"servicio_id"`
	Description     string          `json:"descripcion,omitempty"`
	Quantity        decimal.Decimal `json:"cantidad"`
	UnitPrice       decimal.Decimal `json:"precio_unitario"`
	DiscountPercent decimal.Decimal `json:"descuento"`
}

// QuoteItemResponse línea con su subtotal calculado.
type QuoteItemResponse struct {
	ID              string          `json:"id"`
	ServiceID       string          `json:"servicio_id"`
	ServiceName     string          `json:"servicio_nombre,omitempty"`
	Description     string          `json:"descripcion,omitempty"`
	Quantity        decimal.Decimal `json:"cantidad"`
	UnitPrice       decimal.Decimal `json:"precio_unitario"`
	DiscountPercent decimal.Decimal `json:"descuento"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Position        int             `json:"orden"`
}

// QuoteResponse cotización. Status es el estado efectivo (incluye "vencida").
type QuoteResponse struct {
	ID              string              `json:"id"`
	Number          string              `json:"numero"`
	ClientID        string              `json:"cliente_id"`
	ClientName      string              `json:"cliente_nombre,omitempty"`
	Title           string              `json:"titulo,omitempty"`
	IssueDate       string              `json:"fecha_emision"`
	ValidUntil      string              `json:"fecha_validez"`
	EstimatedDays   int                 `json:"duracion_estimada"`
	Status          string              `json:"estado"`
	StoredStatus    string              `json:"estado_almacenado"`
	DiscountPercent decimal.Decimal     `json:"descuento"`
	VATPercent      decimal.Decimal     `json:"iva"`
	Subtotal        decimal.Decimal     `json:"subtotal"`
	DiscountValue   decimal.Decimal     `json:"descuento_valor"`
	VATValue        decimal.Decimal     `json:"iva_valor"`
	Total           decimal.Decimal     `json:"total"`
	Notes           string              `json:"notas,omitempty"`
	Terms           string              `json:"terminos,omitempty"`
	ApprovedAt      string              `json:"fecha_aprobacion,omitempty"`
	RejectedAt      string              `json:"fecha_rechazo,omitempty"`
	RejectionReason string              `json:"motivo_rechazo,omitempty"`
	ProjectID       string              `json:"proyecto_id,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
	Items           []QuoteItemResponse `json:"items,omitempty"`
}

// ApproveQuoteRequest body para POST /api/cotizaciones/:id/aprobar.
type ApproveQuoteRequest struct {
	Confirm bool `json:"confirmar"`
}

// RejectQuoteRequest body para POST /api/cotizaciones/:id/rechazar.
type RejectQuoteRequest struct {
	Reason string `json:"motivo"`
}

// ApproveQuoteResponse cotización aprobada y el proyecto creado.
type ApproveQuoteResponse struct {
	Quote   QuoteResponse   `json:"cotizacion"`
	Project ProjectResponse `json:"proyecto"`
}
