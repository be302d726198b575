package repository

import (
	"context"

	"github.com/jhoicas/rentability-pro/internal/domain/entity"
)

// ServiceFilter filtros de listado del catálogo.
type ServiceFilter struct {
	Search     string
	Category   string
	ActiveOnly bool
}

// ServiceRepository define el puerto de persistencia para Servicio.
type ServiceRepository interface {
	Create(ctx context.Context, s *entity.Service) error
	GetByID(ctx context.Context, id string) (*entity.Service, error)
	// GetByIDs devuelve los servicios encontrados indexados por ID.
	GetByIDs(ctx context.Context, ids []string) (map[string]*entity.Service, error)
	List(ctx context.Context, f ServiceFilter) ([]*entity.Service, error)
	Update(ctx context.Context, s *entity.Service) error
	Delete(ctx context.Context, id string) error
	// IncrementQuoted suma 1 a veces_cotizado de cada servicio.
	IncrementQuoted(ctx context.Context, ids []string) error
	// IncrementSold suma 1 a veces_vendido de cada servicio.
	IncrementSold(ctx context.Context, ids []string) error
}
