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

var _ repository.QuoteRepository = (*QuoteRepo)(nil)

// QuoteRepo implementación de QuoteRepository (cabecera + ítems).
type QuoteRepo struct {
	q Querier
}

// NewQuoteRepository construye el adaptador. Pasar pool o tx (Querier).
// Create y Update escriben varias tablas; fuera de una tx no son atómicos.
func NewQuoteRepository(q Querier) *QuoteRepo {
	return &QuoteRepo{q: q}
}

const quoteColumns = `id, numero, consecutivo, cliente_id, COALESCE(titulo, ''), fecha_emision, fecha_validez,
	duracion_estimada, estado, descuento, iva, subtotal, descuento_valor, iva_valor, total,
	COALESCE(notas, ''), COALESCE(terminos, ''), fecha_aprobacion, fecha_rechazo, COALESCE(motivo_rechazo, ''),
	COALESCE(proyecto_id::text, ''), COALESCE(created_by::text, ''), created_at, updated_at`

func scanQuote(row pgx.Row) (*entity.Quote, error) {
	var q entity.Quote
	err := row.Scan(&q.ID, &q.Number, &q.Sequence, &q.ClientID, &q.Title, &q.IssueDate, &q.ValidUntil,
		&q.EstimatedDays, &q.Status, &q.DiscountPercent, &q.VATPercent, &q.Subtotal, &q.DiscountValue,
		&q.VATValue, &q.Total, &q.Notes, &q.Terms, &q.ApprovedAt, &q.RejectedAt, &q.RejectionReason,
		&q.ProjectID, &q.CreatedBy, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// NextSequence toma el siguiente valor de la secuencia de numeración.
func (r *QuoteRepo) NextSequence(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT nextval('cotizaciones_consecutivo_seq')::int`).Scan(&n); err != nil {
		return 0, fmt.Errorf("consecutivo cotización: %w", err)
	}
	return n, nil
}

// Create persiste la cabecera y los ítems.
func (r *QuoteRepo) Create(ctx context.Context, q *entity.Quote) error {
	query := `
		INSERT INTO cotizaciones (id, numero, consecutivo, cliente_id, titulo, fecha_emision, fecha_validez,
		       duracion_estimada, estado, descuento, iva, subtotal, descuento_valor, iva_valor, total,
		       notas, terminos, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
	_, err := r.q.Exec(ctx, query,
		q.ID, q.Number, q.Sequence, q.ClientID, nullIfEmpty(q.Title), q.IssueDate, q.ValidUntil,
		q.EstimatedDays, q.Status, q.DiscountPercent, q.VATPercent, q.Subtotal, q.DiscountValue,
		q.VATValue, q.Total, nullIfEmpty(q.Notes), nullIfEmpty(q.Terms), nullIfEmpty(q.CreatedBy),
		q.CreatedAt, q.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: número de cotización %s", domain.ErrDuplicate, q.Number)
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: el cliente no existe", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert cotización: %w", err)
	}
	return r.insertItems(ctx, q)
}

func (r *QuoteRepo) insertItems(ctx context.Context, q *entity.Quote) error {
	query := `
		INSERT INTO items_cotizacion (id, cotizacion_id, servicio_id, descripcion, cantidad, precio_unitario,
		       descuento, subtotal, orden)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for i := range q.Items {
		it := &q.Items[i]
		it.QuoteID = q.ID
		_, err := r.q.Exec(ctx, query,
			it.ID, it.QuoteID, it.ServiceID, nullIfEmpty(it.Description), it.Quantity, it.UnitPrice,
			it.DiscountPercent, it.Subtotal, it.Position,
		)
		if err != nil {
			if isForeignKeyViolation(err) {
				return fmt.Errorf("%w: ítem %d: el servicio no existe", domain.ErrInvalidInput, i+1)
			}
			return fmt.Errorf("insert ítem cotización: %w", err)
		}
	}
	return nil
}

func (r *QuoteRepo) loadItems(ctx context.Context, q *entity.Quote) error {
	query := `
		SELECT id, cotizacion_id, servicio_id, COALESCE(descripcion, ''), cantidad, precio_unitario,
		       descuento, subtotal, orden
		FROM items_cotizacion WHERE cotizacion_id = $1 ORDER BY orden`
	rows, err := r.q.Query(ctx, query, q.ID)
	if err != nil {
		return fmt.Errorf("list ítems cotización: %w", err)
	}
	defer rows.Close()
	q.Items = make([]entity.QuoteItem, 0)
	for rows.Next() {
		var it entity.QuoteItem
		if err := rows.Scan(&it.ID, &it.QuoteID, &it.ServiceID, &it.Description, &it.Quantity,
			&it.UnitPrice, &it.DiscountPercent, &it.Subtotal, &it.Position); err != nil {
			return fmt.Errorf("scan ítem: %w", err)
		}
		q.Items = append(q.Items, it)
	}
	return rows.Err()
}

func (r *QuoteRepo) get(ctx context.Context, query, id string) (*entity.Quote, error) {
	q, err := scanQuote(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cotización: %w", err)
	}
	if err := r.loadItems(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

// GetByID obtiene la cotización con sus ítems.
func (r *QuoteRepo) GetByID(ctx context.Context, id string) (*entity.Quote, error) {
	return r.get(ctx, `SELECT `+quoteColumns+` FROM cotizaciones WHERE id = $1`, id)
}

// GetForUpdate bloquea la fila hasta el fin de la transacción.
func (r *QuoteRepo) GetForUpdate(ctx context.Context, id string) (*entity.Quote, error) {
	return r.get(ctx, `SELECT `+quoteColumns+` FROM cotizaciones WHERE id = $1 FOR UPDATE`, id)
}

// List lista cabeceras, más recientes primero.
func (r *QuoteRepo) List(ctx context.Context, f repository.QuoteFilter) ([]*entity.Quote, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 200
	}
	query := `SELECT ` + quoteColumns + ` FROM cotizaciones
		WHERE ($1 = '' OR estado = $1) AND ($2 = '' OR cliente_id::text = $2)
		ORDER BY consecutivo DESC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, string(f.Status), f.ClientID, limit, f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list cotizaciones: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Quote, 0)
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cotización: %w", err)
		}
		list = append(list, q)
	}
	return list, rows.Err()
}

// Update reescribe la cabecera y reemplaza los ítems.
func (r *QuoteRepo) Update(ctx context.Context, q *entity.Quote) error {
	query := `
		UPDATE cotizaciones SET cliente_id = $2, titulo = $3, fecha_emision = $4, fecha_validez = $5,
		       duracion_estimada = $6, descuento = $7, iva = $8, subtotal = $9, descuento_valor = $10,
		       iva_valor = $11, total = $12, notas = $13, terminos = $14, updated_at = $15
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		q.ID, q.ClientID, nullIfEmpty(q.Title), q.IssueDate, q.ValidUntil, q.EstimatedDays,
		q.DiscountPercent, q.VATPercent, q.Subtotal, q.DiscountValue, q.VATValue, q.Total,
		nullIfEmpty(q.Notes), nullIfEmpty(q.Terms), q.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: el cliente no existe", domain.ErrInvalidInput)
		}
		return fmt.Errorf("update cotización: %w", err)
	}
	if wantOne(tag) != nil {
		return domain.ErrNotFound
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM items_cotizacion WHERE cotizacion_id = $1`, q.ID); err != nil {
		return fmt.Errorf("delete ítems cotización: %w", err)
	}
	return r.insertItems(ctx, q)
}

// UpdateStatus persiste el cambio de estado y sus sellos.
func (r *QuoteRepo) UpdateStatus(ctx context.Context, q *entity.Quote) error {
	query := `
		UPDATE cotizaciones SET estado = $2, fecha_aprobacion = $3, fecha_rechazo = $4, motivo_rechazo = $5,
		       proyecto_id = $6, updated_at = $7
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		q.ID, q.Status, q.ApprovedAt, q.RejectedAt, nullIfEmpty(q.RejectionReason), nullIfEmpty(q.ProjectID), q.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update estado cotización: %w", err)
	}
	if wantOne(tag) != nil {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la cotización (los ítems caen en cascada).
func (r *QuoteRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM cotizaciones WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: la cotización tiene un proyecto asociado", domain.ErrConflict)
		}
		return fmt.Errorf("delete cotización: %w", err)
	}
	if wantOne(tag) != nil {
		return domain.ErrNotFound
	}
	return nil
}
