package repository

import (
	"context"

	"github.com/jhoicas/rentability-pro/internal/domain/entity"
)

// ClientFilter filtros de listado de clientes.
type ClientFilter struct {
	Search string // nombre, empresa o NIT
	Limit  int
	Offset int
}

// ClientRepository define el puerto de persistencia para Cliente.
// GetByID devuelve (nil, nil) si no existe.
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	GetByID(ctx context.Context, id string) (*entity.Client, error)
	List(ctx context.Context, f ClientFilter) ([]*entity.Client, error)
	Update(ctx context.Context, client *entity.Client) error
	// Delete devuelve domain.ErrConflict si el cliente tiene cotizaciones o proyectos.
	Delete(ctx context.Context, id string) error
}
