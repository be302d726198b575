package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuoteStatus estado almacenado de una cotización.
type QuoteStatus string

// Estados de una cotización. QuoteStatusExpired nunca se persiste: es una vista derivada.
const (
	QuoteStatusDraft    QuoteStatus = "borrador"
	QuoteStatusSent     QuoteStatus = "enviada"
	QuoteStatusApproved QuoteStatus = "aprobada"
	QuoteStatusRejected QuoteStatus = "rechazada"
	QuoteStatusExpired  QuoteStatus = "vencida"
)

// Quote cabecera de una cotización con sus totales calculados.
type Quote struct {
	ID              string
	Number          string
	Sequence        int
	ClientID        string
	Title           string
	IssueDate       time.Time
	ValidUntil      time.Time
	EstimatedDays   int
	Status          QuoteStatus
	DiscountPercent decimal.Decimal
	VATPercent      decimal.Decimal
	Subtotal        decimal.Decimal
	DiscountValue   decimal.Decimal
	VATValue        decimal.Decimal
	Total           decimal.Decimal
	Notes           string
	Terms           string
	ApprovedAt      *time.Time
	RejectedAt      *time.Time
	RejectionReason string
	ProjectID       string
	CreatedBy       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Items           []QuoteItem
}

// EffectiveStatus devuelve "vencida" si la cotización sigue enviada y su validez ya pasó.
func (q *Quote) EffectiveStatus(today time.Time) QuoteStatus {
	if q.Status == QuoteStatusSent && !q.ValidUntil.IsZero() && DateOnly(q.ValidUntil).Before(DateOnly(today)) {
		return QuoteStatusExpired
	}
	return q.Status
}

// QuoteItem línea de una cotización.
type QuoteItem struct {
	ID              string
	QuoteID         string
	ServiceID       string
	Description     string
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
	Subtotal        decimal.Decimal
	Position        int
}

// DateOnly trunca t a medianoche en su propia zona horaria.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
