package repository

import (
	"context"

	"github.com/jhoicas/rentability-pro/internal/domain/entity"
)

// QuoteFilter filtros de listado de cotizaciones. Status admite los estados almacenados.
type QuoteFilter struct {
	Status   entity.QuoteStatus
	ClientID string
	Limit    int
	Offset   int
}

// QuoteRepository define el puerto de persistencia para Cotizacion e ItemCotizacion.
type QuoteRepository interface {
	// NextSequence devuelve el siguiente consecutivo de numeración.
	NextSequence(ctx context.Context) (int, error)
	// Create inserta la cabecera y sus ítems.
	Create(ctx context.Context, q *entity.Quote) error
	// GetByID devuelve la cotización con ítems ordenados por posición.
	GetByID(ctx context.Context, id string) (*entity.Quote, error)
	// GetForUpdate igual que GetByID pero bloquea la fila (SELECT ... FOR UPDATE) dentro de una tx.
	GetForUpdate(ctx context.Context, id string) (*entity.Quote, error)
	// List devuelve cabeceras sin ítems.
	List(ctx context.Context, f QuoteFilter) ([]*entity.Quote, error)
	// Update reemplaza cabecera e ítems.
	Update(ctx context.Context, q *entity.Quote) error
	// UpdateStatus persiste estado, sellos de aprobación/rechazo, motivo y proyecto creado.
	UpdateStatus(ctx context.Context, q *entity.Quote) error
	Delete(ctx context.Context, id string) error
}
