package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Medios de pago aceptados para pagos y desembolsos.
const (
	MethodCash     = "efectivo"
	MethodTransfer = "transferencia"
	MethodCard     = "tarjeta"
	MethodCheck    = "cheque"
	MethodOther    = "otro"
)

// ValidMethods medios de pago válidos.
var ValidMethods = map[string]bool{
	MethodCash: true, MethodTransfer: true, MethodCard: true, MethodCheck: true, MethodOther: true,
}

// Payment pago recibido de un cliente (append-only).
type Payment struct {
	ID            string
	ProjectID     string
	PaymentPlanID string // opcional
	Date          time.Time
	Amount        decimal.Decimal
	Method        string
	Reference     string
	Notes         string
	CreatedBy     string
	CreatedAt     time.Time
}
