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

var _ repository.ServiceRepository = (*ServiceRepo)(nil)

// ServiceRepo implementación de ServiceRepository.
type ServiceRepo struct {
	q Querier
}

// NewServiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewServiceRepository(q Querier) *ServiceRepo {
	return &ServiceRepo{q: q}
}

const serviceColumns = `id, nombre, COALESCE(categoria, ''), COALESCE(descripcion, ''), COALESCE(unidad, ''),
	costo_base, gastos_fijos, margen, precio_sugerido, precio, veces_cotizado, veces_vendido, activo,
	created_at, updated_at`

func scanService(row pgx.Row) (*entity.Service, error) {
	var s entity.Service
	err := row.Scan(&s.ID, &s.Name, &s.Category, &s.Description, &s.Unit,
		&s.BaseCost, &s.FixedOverhead, &s.Margin, &s.SuggestedPrice, &s.Price,
		&s.TimesQuoted, &s.TimesSold, &s.Active, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create persiste un servicio.
func (r *ServiceRepo) Create(ctx context.Context, s *entity.Service) error {
	query := `
		INSERT INTO servicios (id, nombre, categoria, descripcion, unidad, costo_base, gastos_fijos, margen,
		                       precio_sugerido, precio, veces_cotizado, veces_vendido, activo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.Name, nullIfEmpty(s.Category), nullIfEmpty(s.Description), nullIfEmpty(s.Unit),
		s.BaseCost, s.FixedOverhead, s.Margin, s.SuggestedPrice, s.Price,
		s.TimesQuoted, s.TimesSold, s.Active, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert servicio: %w", err)
	}
	return nil
}

// GetByID obtiene un servicio.
func (r *ServiceRepo) GetByID(ctx context.Context, id string) (*entity.Service, error) {
	s, err := scanService(r.q.QueryRow(ctx, `SELECT `+serviceColumns+` FROM servicios WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get servicio: %w", err)
	}
	return s, nil
}

// GetByIDs obtiene varios servicios en una sola consulta.
func (r *ServiceRepo) GetByIDs(ctx context.Context, ids []string) (map[string]*entity.Service, error) {
	out := make(map[string]*entity.Service, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.q.Query(ctx, `SELECT `+serviceColumns+` FROM servicios WHERE id::text = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("get servicios: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("scan servicio: %w", err)
		}
		out[s.ID] = s
	}
	return out, rows.Err()
}

// List lista el catálogo ordenado por categoría y nombre.
func (r *ServiceRepo) List(ctx context.Context, f repository.ServiceFilter) ([]*entity.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM servicios
		WHERE ($1 = '' OR nombre ILIKE '%' || $1 || '%' OR descripcion ILIKE '%' || $1 || '%')
		  AND ($2 = '' OR categoria = $2)
		  AND (NOT $3 OR activo)
		ORDER BY categoria NULLS LAST, nombre`
	rows, err := r.q.Query(ctx, query, f.Search, f.Category, f.ActiveOnly)
	if err != nil {
		return nil, fmt.Errorf("list servicios: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Service, 0)
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("scan servicio: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// Update actualiza los campos editables y los precios (los contadores no se tocan).
func (r *ServiceRepo) Update(ctx context.Context, s *entity.Service) error {
	query := `
		UPDATE servicios SET nombre = $2, categoria = $3, descripcion = $4, unidad = $5, costo_base = $6,
		       gastos_fijos = $7, margen = $8, precio_sugerido = $9, precio = $10, activo = $11, updated_at = $12
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		s.ID, s.Name, nullIfEmpty(s.Category), nullIfEmpty(s.Description), nullIfEmpty(s.Unit),
		s.BaseCost, s.FixedOverhead, s.Margin, s.SuggestedPrice, s.Price, s.Active, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update servicio: %w", err)
	}
	if wantOne(tag) != nil {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un servicio. Falla con ErrConflict si ya fue cotizado.
func (r *ServiceRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM servicios WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: el servicio está en cotizaciones; desactívelo en su lugar", domain.ErrConflict)
		}
		return fmt.Errorf("delete servicio: %w", err)
	}
	if wantOne(tag) != nil {
		return domain.ErrNotFound
	}
	return nil
}

// IncrementQuoted suma uno a veces_cotizado.
func (r *ServiceRepo) IncrementQuoted(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.q.Exec(ctx, `UPDATE servicios SET veces_cotizado = veces_cotizado + 1 WHERE id::text = ANY($1)`, ids)
	if err != nil {
		return fmt.Errorf("incrementar veces_cotizado: %w", err)
	}
	return nil
}

// IncrementSold suma uno a veces_vendido.
func (r *ServiceRepo) IncrementSold(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.q.Exec(ctx, `UPDATE servicios SET veces_vendido = veces_vendido + 1 WHERE id::text = ANY($1)`, ids)
	if err != nil {
		return fmt.Errorf("incrementar veces_vendido: %w", err)
	}
	return nil
}
