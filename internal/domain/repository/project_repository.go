package repository

import (
	"context"

	"github.com/jhoicas/rentability-pro/internal/domain/entity"
)

// ProjectFilter filtros de listado de proyectos.
type ProjectFilter struct {
	Status   entity.ProjectStatus
	ClientID string
}

// ProjectRepository define el puerto de persistencia para Proyecto.
// No hay alta directa desde la API: Create solo lo usa la aprobación de cotizaciones.
type ProjectRepository interface {
	Create(ctx context.Context, p *entity.Project) error
	GetByID(ctx context.Context, id string) (*entity.Project, error)
	GetByQuoteID(ctx context.Context, quoteID string) (*entity.Project, error)
	List(ctx context.Context, f ProjectFilter) ([]*entity.Project, error)
	Update(ctx context.Context, p *entity.Project) error
}
