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

var _ repository.ProjectRepository = (*ProjectRepo)(nil)

// ProjectRepo implementación de ProjectRepository.
type ProjectRepo struct {
	q Querier
}

// NewProjectRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProjectRepository(q Querier) *ProjectRepo {
	return &ProjectRepo{q: q}
}

const projectColumns = `id, cotizacion_id, cliente_id, nombre, COALESCE(descripcion, ''), fecha_inicio,
	fecha_fin_estimada, fecha_fin_real, estado, progreso, valor_total, costo_estimado, costo_real,
	rentabilidad_estimada, rentabilidad_real, COALESCE(notas, ''), created_at, updated_at`

func scanProject(row pgx.Row) (*entity.Project, error) {
	var p entity.Project
	err := row.Scan(&p.ID, &p.QuoteID, &p.ClientID, &p.Name, &p.Description, &p.StartDate,
		&p.EstimatedEndDate, &p.ActualEndDate, &p.Status, &p.Progress, &p.TotalValue, &p.EstimatedCost,
		&p.ActualCost, &p.EstimatedProfitability, &p.ActualProfitability, &p.Notes, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un proyecto. Una cotización solo puede tener un proyecto (UNIQUE cotizacion_id).
func (r *ProjectRepo) Create(ctx context.Context, p *entity.Project) error {
	query := `
		INSERT INTO proyectos (id, cotizacion_id, cliente_id, nombre, descripcion, fecha_inicio, fecha_fin_estimada,
		       fecha_fin_real, estado, progreso, valor_total, costo_estimado, costo_real, rentabilidad_estimada,
		       rentabilidad_real, notas, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.QuoteID, p.ClientID, p.Name, nullIfEmpty(p.Description), p.StartDate, p.EstimatedEndDate,
		p.ActualEndDate, p.Status, p.Progress, p.TotalValue, p.EstimatedCost, p.ActualCost,
		p.EstimatedProfitability, p.ActualProfitability, nullIfEmpty(p.Notes), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: la cotización ya tiene un proyecto", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert proyecto: %w", err)
	}
	return nil
}

// GetByID obtiene un proyecto.
func (r *ProjectRepo) GetByID(ctx context.Context, id string) (*entity.Project, error) {
	return r.getOne(ctx, `SELECT `+projectColumns+` FROM proyectos WHERE id = $1`, id)
}

// GetByQuoteID obtiene el proyecto creado a partir de una cotización.
func (r *ProjectRepo) GetByQuoteID(ctx context.Context, quoteID string) (*entity.Project, error) {
	return r.getOne(ctx, `SELECT `+projectColumns+` FROM proyectos WHERE cotizacion_id = $1`, quoteID)
}

func (r *ProjectRepo) getOne(ctx context.Context, query, arg string) (*entity.Project, error) {
	p, err := scanProject(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get proyecto: %w", err)
	}
	return p, nil
}

// List lista proyectos, más recientes primero.
func (r *ProjectRepo) List(ctx context.Context, f repository.ProjectFilter) ([]*entity.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM proyectos
		WHERE ($1 = '' OR estado = $1) AND ($2 = '' OR cliente_id::text = $2)
		ORDER BY fecha_inicio DESC, created_at DESC`
	rows, err := r.q.Query(ctx, query, string(f.Status), f.ClientID)
	if err != nil {
		return nil, fmt.Errorf("list proyectos: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan proyecto: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Update persiste todos los campos mutables.
func (r *ProjectRepo) Update(ctx context.Context, p *entity.Project) error {
	query := `
		UPDATE proyectos SET nombre = $2, descripcion = $3, fecha_inicio = $4, fecha_fin_estimada = $5,
		       fecha_fin_real = $6, estado = $7, progreso = $8, costo_real = $9, rentabilidad_real = $10,
		       notas = $11, updated_at = $12
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		p.ID, p.Name, nullIfEmpty(p.Description), p.StartDate, p.EstimatedEndDate, p.ActualEndDate,
		p.Status, p.Progress, p.ActualCost, p.ActualProfitability, nullIfEmpty(p.Notes), p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update proyecto: %w", err)
	}
	if wantOne(tag) != nil {
		return domain.ErrNotFound
	}
	return nil
}
