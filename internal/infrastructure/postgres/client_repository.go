package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/rentability-pro/internal/domain"
	"github.com/jhoicas/rentability-pro/internal/domain/entity"
	"github.com/jhoicas/rentability-pro/internal/domain/repository"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)

// ClientRepo implementación de ClientRepository (usable con pool o tx).
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

const clientColumns = `id, nombre, COALESCE(empresa, ''), COALESCE(nit, ''), COALESCE(contacto, ''),
	COALESCE(email, ''), COALESCE(telefono, ''), COALESCE(direccion, ''), COALESCE(ciudad, ''),
	COALESCE(notas, ''), COALESCE(created_by::text, ''), created_at, updated_at`

func scanClient(row pgx.Row) (*entity.Client, error) {
	var c entity.Client
	err := row.Scan(&c.ID, &c.Name, &c.Company, &c.TaxID, &c.ContactName, &c.Email, &c.Phone,
		&c.Address, &c.City, &c.Notes, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create persiste un nuevo cliente.
func (r *ClientRepo) Create(ctx context.Context, c *entity.Client) error {
	query := `
		INSERT INTO clientes (id, nombre, empresa, nit, contacto, email, telefono, direccion, ciudad, notas,
		                      created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.Name, nullIfEmpty(c.Company), nullIfEmpty(c.TaxID), nullIfEmpty(c.ContactName),
		nullIfEmpty(c.Email), nullIfEmpty(c.Phone), nullIfEmpty(c.Address), nullIfEmpty(c.City),
		nullIfEmpty(c.Notes), nullIfEmpty(c.CreatedBy), c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert cliente: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID.
func (r *ClientRepo) GetByID(ctx context.Context, id string) (*entity.Client, error) {
	c, err := scanClient(r.q.QueryRow(ctx, `SELECT `+clientColumns+` FROM clientes WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cliente: %w", err)
	}
	return c, nil
}

// List lista clientes por nombre, con búsqueda opcional.
func (r *ClientRepo) List(ctx context.Context, f repository.ClientFilter) ([]*entity.Client, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 500
	}
	query := `SELECT ` + clientColumns + ` FROM clientes
		WHERE ($1 = '' OR nombre ILIKE '%' || $1 || '%' OR empresa ILIKE '%' || $1 || '%' OR nit ILIKE '%' || $1 || '%')
		ORDER BY nombre LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, f.Search, limit, f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list clientes: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Client, 0)
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cliente: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Update actualiza un cliente.
func (r *ClientRepo) Update(ctx context.Context, c *entity.Client) error {
	query := `
		UPDATE clientes SET nombre = $2, empresa = $3, nit = $4, contacto = $5, email = $6, telefono = $7,
		       direccion = $8, ciudad = $9, notas = $10, updated_at = $11
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		c.ID, c.Name, nullIfEmpty(c.Company), nullIfEmpty(c.TaxID), nullIfEmpty(c.ContactName),
		nullIfEmpty(c.Email), nullIfEmpty(c.Phone), nullIfEmpty(c.Address), nullIfEmpty(c.City),
		nullIfEmpty(c.Notes), c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update cliente: %w", err)
	}
	if wantOne(tag) != nil {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un cliente. Falla con ErrConflict si tiene cotizaciones o proyectos.
func (r *ClientRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM clientes WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: el cliente tiene cotizaciones o proyectos asociados", domain.ErrConflict)
		}
		return fmt.Errorf("delete cliente: %w", err)
	}
	if wantOne(tag) != nil {
		return domain.ErrNotFound
	}
	return nil
}
