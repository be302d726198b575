package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProjectResponse proyecto. Summary solo se incluye en GET /api/proyectos/:id.
type ProjectResponse struct {
	ID                     string          `json:"id"`
	QuoteID                string          `json:"cotizacion_id"`
	ClientID               string          `json:"cliente_id"`
	Name                   string          `json:"nombre"`
	Description            string          `json:"descripcion,omitempty"`
	StartDate              string          `json:"fecha_inicio"`
	EstimatedEndDate       string          `json:"fecha_fin_estimada,omitempty"`
	ActualEndDate          string          `json:"fecha_fin_real,omitempty"`
	Status                 string          `json:"estado"`
	Progress               int             `json:"progreso"`
	TotalValue             decimal.Decimal `json:"valor_total"`
	EstimatedCost          decimal.Decimal `json:"costo_estimado"`
	ActualCost             decimal.Decimal `json:"costo_real"`
	EstimatedProfitability decimal.Decimal `json:"rentabilidad_estimada"`
	ActualProfitability    decimal.Decimal `json:"rentabilidad_real"`
	Notes                  string          `json:"notas,omitempty"`
	CreatedAt              time.Time       `json:"created_at"`
	UpdatedAt              time.Time       `json:"updated_at"`
	Summary                *ProjectSummary `json:"resumen,omitempty"`
}

// UpdateProjectRequest body para PUT /api/proyectos/:id (solo campos editables).
type UpdateProjectRequest struct {
	Name             string `json:"nombre" validate:"required,max=200"`
	Description      string `json:"descripcion,omitempty"`
	StartDate        string `json:"fecha_inicio,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EstimatedEndDate string `json:"fecha_fin_estimada,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Notes            string `json:"notas,omitempty"`
}

// ProgressRequest body para PUT /api/proyectos/:id/progreso. Se limita a 0..100.
type ProgressRequest struct {
	Progress int `json:"progreso"`
}

// ProjectSummary resumen financiero recalculado en cada lectura.
type ProjectSummary struct {
	TotalPlanned   decimal.Decimal       `json:"total_planificado"`
	TotalReceived  decimal.Decimal       `json:"total_recibido"`
	TotalSpent     decimal.Decimal       `json:"total_gastado"`
	PendingBalance decimal.Decimal       `json:"pendiente_cobro"`
	ActualProfit   decimal.Decimal       `json:"rentabilidad_actual"`
	PercentPaid    decimal.Decimal       `json:"porcentaje_cobrado"`
	Overdue        []PaymentPlanResponse `json:"cuotas_vencidas"`
}
