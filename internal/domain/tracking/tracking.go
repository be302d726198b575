// Package tracking ciclo de vida de los proyectos: creación desde una cotización aprobada,
// avance y cambios de estado.
package tracking

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/rentability-pro/internal/domain"
	"github.com/jhoicas/rentability-pro/internal/domain/entity"
)

// ClampProgress limita el avance a 0..100.
func ClampProgress(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// FromQuote sintetiza el proyecto de una cotización recién aprobada.
// unitCosts: costo con gastos generales por servicio; el costo estimado es Σ cantidad × costo.
func FromQuote(q *entity.Quote, unitCosts map[string]decimal.Decimal, today time.Time) *entity.Project {
	estimatedCost := decimal.Zero
	for _, it := range q.Items {
		if c, ok := unitCosts[it.ServiceID]; ok {
			estimatedCost = estimatedCost.Add(it.Quantity.Mul(c))
		}
	}
	estimatedCost = estimatedCost.Round(0)

	start := entity.DateOnly(today)
	p := &entity.Project{
		QuoteID:                q.ID,
		ClientID:               q.ClientID,
		Name:                   q.Title,
		Description:            q.Notes,
		StartDate:              start,
		Status:                 entity.ProjectStatusActive,
		TotalValue:             q.Total,
		EstimatedCost:          estimatedCost,
		EstimatedProfitability: q.Total.Sub(estimatedCost),
	}
	if p.Name == "" {
		p.Name = "Proyecto " + q.Number
	}
	if q.EstimatedDays > 0 {
		end := start.AddDate(0, 0, q.EstimatedDays)
		p.EstimatedEndDate = &end
	}
	return p
}

func invalid(p *entity.Project, action string) error {
	return fmt.Errorf("%w: no se puede %s un proyecto %s", domain.ErrInvalidTransition, action, p.Status)
}

// Pause activo → pausado.
func Pause(p *entity.Project) error {
	if p.Status != entity.ProjectStatusActive {
		return invalid(p, "pausar")
	}
	p.Status = entity.ProjectStatusPaused
	return nil
}

// Resume pausado → activo.
func Resume(p *entity.Project) error {
	if p.Status != entity.ProjectStatusPaused {
		return invalid(p, "reanudar")
	}
	p.Status = entity.ProjectStatusActive
	return nil
}

// Complete cierra el proyecto congelando costo y rentabilidad reales a partir del resumen financiero.
func Complete(p *entity.Project, actualCost, actualProfit decimal.Decimal, now time.Time) error {
	if p.IsClosed() {
		return invalid(p, "completar")
	}
	end := entity.DateOnly(now)
	p.Status = entity.ProjectStatusCompleted
	p.Progress = 100
	p.ActualEndDate = &end
	p.ActualCost = actualCost
	p.ActualProfitability = actualProfit
	return nil
}

// Cancel activo|pausado → cancelado.
func Cancel(p *entity.Project) error {
	if p.IsClosed() {
		return invalid(p, "cancelar")
	}
	p.Status = entity.ProjectStatusCancelled
	return nil
}
