package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/rentability-pro/internal/domain"
	"github.com/jhoicas/rentability-pro/internal/domain/entity"
	"github.com/jhoicas/rentability-pro/internal/domain/repository"
)

var (
	_ repository.ExpenseCategoryRepository = (*ExpenseCategoryRepo)(nil)
	_ repository.DisbursementRepository    = (*DisbursementRepo)(nil)
)

// ExpenseCategoryRepo implementación de ExpenseCategoryRepository.
type ExpenseCategoryRepo struct {
	q Querier
}

// NewExpenseCategoryRepository construye el adaptador.
func NewExpenseCategoryRepository(q Querier) *ExpenseCategoryRepo {
	return &ExpenseCategoryRepo{q: q}
}

const categoryColumns = `id, nombre, COALESCE(descripcion, ''), COALESCE(color, ''), activo, created_at`

func scanCategory(row pgx.Row) (*entity.ExpenseCategory, error) {
	var c entity.ExpenseCategory
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Color, &c.Active, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// Create persiste una categoría.
func (r *ExpenseCategoryRepo) Create(ctx context.Context, c *entity.ExpenseCategory) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO categorias_desembolso (id, nombre, descripcion, color, activo, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.Name, nullIfEmpty(c.Description), nullIfEmpty(c.Color), c.Active, c.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: ya existe la categoría %q", domain.ErrDuplicate, c.Name)
		}
		return fmt.Errorf("insert categoría: %w", err)
	}
	return nil
}

// GetByID obtiene una categoría.
func (r *ExpenseCategoryRepo) GetByID(ctx context.Context, id string) (*entity.ExpenseCategory, error) {
	c, err := scanCategory(r.q.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categorias_desembolso WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get categoría: %w", err)
	}
	return c, nil
}

// List lista categorías por nombre.
func (r *ExpenseCategoryRepo) List(ctx context.Context, activeOnly bool) ([]*entity.ExpenseCategory, error) {
	rows, err := r.q.Query(ctx, `SELECT `+categoryColumns+` FROM categorias_desembolso
		WHERE (NOT $1 OR activo) ORDER BY nombre`, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list categorías: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.ExpenseCategory, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan categoría: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Update actualiza una categoría.
func (r *ExpenseCategoryRepo) Update(ctx context.Context, c *entity.ExpenseCategory) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE categorias_desembolso SET nombre = $2, descripcion = $3, color = $4, activo = $5 WHERE id = $1`,
		c.ID, c.Name, nullIfEmpty(c.Description), nullIfEmpty(c.Color), c.Active,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: ya existe la categoría %q", domain.ErrDuplicate, c.Name)
		}
		return fmt.Errorf("update categoría: %w", err)
	}
	if wantOne(tag) != nil {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina una categoría sin desembolsos.
func (r *ExpenseCategoryRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM categorias_desembolso WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: la categoría tiene desembolsos; desactívela en su lugar", domain.ErrConflict)
		}
		return fmt.Errorf("delete categoría: %w", err)
	}
	if wantOne(tag) != nil {
		return domain.ErrNotFound
	}
	return nil
}

// DisbursementRepo implementación de DisbursementRepository.
type DisbursementRepo struct {
	q Querier
}

// NewDisbursementRepository construye el adaptador.
func NewDisbursementRepository(q Querier) *DisbursementRepo {
	return &DisbursementRepo{q: q}
}

const disbursementColumns = `id, COALESCE(proyecto_id::text, ''), categoria_id, fecha, descripcion, monto,
	COALESCE(proveedor, ''), COALESCE(numero_factura, ''), COALESCE(metodo_pago, ''), estado, COALESCE(notas, ''),
	COALESCE(created_by::text, ''), created_at, updated_at`

func scanDisbursement(row pgx.Row) (*entity.Disbursement, error) {
	var d entity.Disbursement
	err := row.Scan(&d.ID, &d.ProjectID, &d.CategoryID, &d.Date, &d.Description, &d.Amount, &d.Vendor,
		&d.InvoiceNumber, &d.Method, &d.Status, &d.Notes, &d.CreatedBy, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DisbursementRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Disbursement, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list desembolsos: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Disbursement, 0)
	for rows.Next() {
		d, err := scanDisbursement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan desembolso: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

// Create persiste un desembolso.
func (r *DisbursementRepo) Create(ctx context.Context, d *entity.Disbursement) error {
	query := `
		INSERT INTO desembolsos (id, proyecto_id, categoria_id, fecha, descripcion, monto, proveedor, numero_factura,
		       metodo_pago, estado, notas, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		d.ID, nullIfEmpty(d.ProjectID), d.CategoryID, d.Date, d.Description, d.Amount, nullIfEmpty(d.Vendor),
		nullIfEmpty(d.InvoiceNumber), nullIfEmpty(d.Method), d.Status, nullIfEmpty(d.Notes),
		nullIfEmpty(d.CreatedBy), d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: proyecto o categoría inexistente", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert desembolso: %w", err)
	}
	return nil
}

// GetByID obtiene un desembolso.
func (r *DisbursementRepo) GetByID(ctx context.Context, id string) (*entity.Disbursement, error) {
	d, err := scanDisbursement(r.q.QueryRow(ctx, `SELECT `+disbursementColumns+` FROM desembolsos WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get desembolso: %w", err)
	}
	return d, nil
}

// List lista desembolsos con filtros, más recientes primero.
func (r *DisbursementRepo) List(ctx context.Context, f repository.DisbursementFilter) ([]*entity.Disbursement, error) {
	query := `SELECT ` + disbursementColumns + ` FROM desembolsos
		WHERE ($1 = '' OR proyecto_id::text = $1)
		  AND ($1 <> '' OR NOT $2 OR proyecto_id IS NULL)
		  AND ($3 = '' OR categoria_id::text = $3)
		  AND ($4 = '' OR estado = $4)
		ORDER BY fecha DESC, created_at DESC`
	return r.list(ctx, query, f.ProjectID, f.GeneralOnly, f.CategoryID, string(f.Status))
}

// ListBetween desembolsos con fecha en [from, to).
func (r *DisbursementRepo) ListBetween(ctx context.Context, from, to time.Time) ([]*entity.Disbursement, error) {
	return r.list(ctx, `SELECT `+disbursementColumns+` FROM desembolsos WHERE fecha >= $1 AND fecha < $2 ORDER BY fecha`, from, to)
}

// Update actualiza un desembolso, incluido el estado.
func (r *DisbursementRepo) Update(ctx context.Context, d *entity.Disbursement) error {
	query := `
		UPDATE desembolsos SET proyecto_id = $2, categoria_id = $3, fecha = $4, descripcion = $5, monto = $6,
		       proveedor = $7, numero_factura = $8, metodo_pago = $9, estado = $10, notas = $11, updated_at = $12
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		d.ID, nullIfEmpty(d.ProjectID), d.CategoryID, d.Date, d.Description, d.Amount, nullIfEmpty(d.Vendor),
		nullIfEmpty(d.InvoiceNumber), nullIfEmpty(d.Method), d.Status, nullIfEmpty(d.Notes), d.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: proyecto o categoría inexistente", domain.ErrInvalidInput)
		}
		return fmt.Errorf("update desembolso: %w", err)
	}
	if wantOne(tag) != nil {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un desembolso.
func (r *DisbursementRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM desembolsos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete desembolso: %w", err)
	}
	if wantOne(tag) != nil {
		return domain.ErrNotFound
	}
	return nil
}
