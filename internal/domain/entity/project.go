package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProjectStatus estado de un proyecto.
type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "activo"
	ProjectStatusPaused    ProjectStatus = "pausado"
	ProjectStatusCompleted ProjectStatus = "completado"
	ProjectStatusCancelled ProjectStatus = "cancelado"
)

// Project se crea únicamente al aprobar una cotización.
type Project struct {
	ID                     string
	QuoteID                string
	ClientID               string
	Name                   string
	Description            string
	StartDate              time.Time
	EstimatedEndDate       *time.Time
	ActualEndDate          *time.Time
	Status                 ProjectStatus
	Progress               int // 0..100
	TotalValue             decimal.Decimal
	EstimatedCost          decimal.Decimal
	ActualCost             decimal.Decimal
	EstimatedProfitability decimal.Decimal
	ActualProfitability    decimal.Decimal
	Notes                  string
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// IsClosed indica si el proyecto ya no admite cambios de estado.
func (p *Project) IsClosed() bool {
	return p.Status == ProjectStatusCompleted || p.Status == ProjectStatusCancelled
}
