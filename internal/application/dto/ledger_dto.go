package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentPlanItemRequest cuota en el guardado por lote o en PUT /api/plan-pagos/:id.
type PaymentPlanItemRequest struct {
	Number      int             `json:"numero_cuota"`
	DueDate     string          `json:"fecha_vencimiento" validate:"required,datetime=2006-01-02"`
	Amount      decimal.Decimal `json:"monto"`
	Type        string          `json:"tipo,omitempty" validate:"omitempty,oneof=anticipo cuota final hito"`
	Percent     decimal.Decimal `json:"porcentaje"`
	Status      string          `json:"estado,omitempty" validate:"omitempty,oneof=pendiente pagado parcial"`
	Description string          `json:"descripcion,omitempty"`
}

// SavePlanRequest body para PUT /api/proyectos/:id/plan-pagos.
// Si los porcentajes no suman 100 se requiere confirmar=true.
type SavePlanRequest struct {
	Confirm bool                     `json:"confirmar"`
	Items   []PaymentPlanItemRequest `json:"cuotas" validate:"dive"`
}

// PlanTemplateRequest body para POST /api/proyectos/:id/plan-pagos/plantilla.
// Sin guardar=true solo devuelve la vista previa.
type PlanTemplateRequest struct {
	Template string `json:"plantilla" validate:"required,oneof=50-50 40-40-20"`
	Save     bool   `json:"guardar"`
}

// PaymentPlanResponse cuota. Status es el estado efectivo (incluye "vencido").
type PaymentPlanResponse struct {
	ID          string          `json:"id,omitempty"`
	ProjectID   string          `json:"proyecto_id"`
	Number      int             `json:"numero_cuota"`
	DueDate     string          `json:"fecha_vencimiento"`
	Amount      decimal.Decimal `json:"monto"`
	Type        string          `json:"tipo"`
	Percent     decimal.Decimal `json:"porcentaje"`
	Status      string          `json:"estado"`
	Description string          `json:"descripcion,omitempty"`
}

// PaymentPlanListResponse plan completo con la suma de porcentajes.
type PaymentPlanListResponse struct {
	Items        []PaymentPlanResponse `json:"cuotas"`
	PercentTotal decimal.Decimal       `json:"porcentaje_total"`
	AmountTotal  decimal.Decimal       `json:"monto_total"`
	Warning      string                `json:"advertencia,omitempty"`
}

// PaymentRequest body para POST /api/pagos.
type PaymentRequest struct {
	ProjectID     string          `json:"proyecto_id" validate:"required"`
	PaymentPlanID string          `json:"plan_pago_id,omitempty"`
	Date          string          `json:"fecha,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Amount        decimal.Decimal `json:"monto"`
	Method        string          `json:"metodo_pago" validate:"required"`
	Reference     string          `json:"referencia,omitempty" validate:"max=100"`
	Notes         string          `json:"notas,omitempty"`
}

// PaymentResponse pago registrado.
type PaymentResponse struct {
	ID            string          `json:"id"`
	ProjectID     string          `json:"proyecto_id"`
	PaymentPlanID string          `json:"plan_pago_id,omitempty"`
	Date          string          `json:"fecha"`
	Amount        decimal.Decimal `json:"monto"`
	Method        string          `json:"metodo_pago"`
	Reference     string          `json:"referencia,omitempty"`
	Notes         string          `json:"notas,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ExpenseCategoryRequest body para POST/PUT /api/categorias-desembolso.
type ExpenseCategoryRequest struct {
	Name        string `json:"nombre" validate:"required,max=100"`
	Description string `json:"descripcion,omitempty"`
	Color       string `json:"color,omitempty" validate:"omitempty,hexcolor"`
	Active      *bool  `json:"activo,omitempty"`
}

// ExpenseCategoryResponse categoría de desembolso.
type ExpenseCategoryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"nombre"`
	Description string `json:"descripcion,omitempty"`
	Color       string `json:"color,omitempty"`
	Active      bool   `json:"activo"`
}

// DisbursementRequest body para POST/PUT /api/desembolsos. Sin proyecto_id es un gasto general.
type DisbursementRequest struct {
	ProjectID     string          `json:"proyecto_id,omitempty"`
	CategoryID    string          `json:"categoria_id" validate:"required"`
	Date          string          `json:"fecha,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Description   string          `json:"descripcion"`
	Amount        decimal.Decimal `json:"monto"`
	Vendor        string          `json:"proveedor,omitempty" validate:"max=200"`
	InvoiceNumber string          `json:"numero_factura,omitempty" validate:"max=50"`
	Method        string          `json:"metodo_pago,omitempty"`
	Status        string          `json:"estado,omitempty" validate:"omitempty,oneof=pendiente aprobado pagado"`
	Notes         string          `json:"notas,omitempty"`
}

// DisbursementStatusRequest body para PUT /api/desembolsos/:id/estado.
type DisbursementStatusRequest struct {
	Status string `json:"estado" validate:"required,oneof=pendiente aprobado pagado"`
}

// DisbursementResponse desembolso.
type DisbursementResponse struct {
	ID            string          `json:"id"`
	ProjectID     string          `json:"proyecto_id,omitempty"`
	CategoryID    string          `json:"categoria_id"`
	Date          string          `json:"fecha"`
	Description   string          `json:"descripcion"`
	Amount        decimal.Decimal `json:"monto"`
	Vendor        string          `json:"proveedor,omitempty"`
	InvoiceNumber string          `json:"numero_factura,omitempty"`
	Method        string          `json:"metodo_pago,omitempty"`
	Status        string          `json:"estado"`
	Notes         string          `json:"notas,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
