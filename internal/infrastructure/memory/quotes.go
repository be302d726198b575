package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/rentability-pro/internal/domain"
	"github.com/jhoicas/rentability-pro/internal/domain/entity"
	"github.com/jhoicas/rentability-pro/internal/domain/repository"
)

var (
	_ repository.QuoteRepository   = (*QuoteRepo)(nil)
	_ repository.ProjectRepository = (*ProjectRepo)(nil)
)

// QuoteRepo cotizaciones en memoria.
type QuoteRepo struct {
	db   *DB
	inTx bool
}

// NewQuoteRepository construye el repositorio.
func NewQuoteRepository(db *DB) *QuoteRepo { return &QuoteRepo{db: db} }

func cloneQuote(q entity.Quote) *entity.Quote {
	q.Items = append([]entity.QuoteItem(nil), q.Items...)
	return &q
}

// checkRefs valida cliente y servicios como lo harían las llaves foráneas. Requiere db.mu tomado.
func (r *QuoteRepo) checkRefs(q *entity.Quote) error {
	if _, ok := r.db.clients[q.ClientID]; !ok {
		return fmt.Errorf("%w: el cliente no existe", domain.ErrInvalidInput)
	}
	for i := range q.Items {
		if _, ok := r.db.services[q.Items[i].ServiceID]; !ok {
			return fmt.Errorf("%w: ítem %d: el servicio no existe", domain.ErrInvalidInput, i+1)
		}
		q.Items[i].QuoteID = q.ID
	}
	return nil
}

func (r *QuoteRepo) NextSequence(_ context.Context) (int, error) {
	defer r.db.lock(r.inTx)()
	r.db.seq++
	return r.db.seq, nil
}

func (r *QuoteRepo) Create(_ context.Context, q *entity.Quote) error {
	defer r.db.lock(r.inTx)()
	for _, other := range r.db.quotes {
		if other.Number == q.Number || other.ID == q.ID {
			return fmt.Errorf("%w: número de cotización %s", domain.ErrDuplicate, q.Number)
		}
	}
	if err := r.checkRefs(q); err != nil {
		return err
	}
	r.db.quotes[q.ID] = *cloneQuote(*q)
	return nil
}

func (r *QuoteRepo) GetByID(_ context.Context, id string) (*entity.Quote, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	q, ok := r.db.quotes[id]
	if !ok {
		return nil, nil
	}
	return cloneQuote(q), nil
}

// GetForUpdate no bloquea: TxRunner ya serializa las transacciones.
func (r *QuoteRepo) GetForUpdate(ctx context.Context, id string) (*entity.Quote, error) {
	return r.GetByID(ctx, id)
}

func (r *QuoteRepo) List(_ context.Context, f repository.QuoteFilter) ([]*entity.Quote, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	list := make([]*entity.Quote, 0, len(r.db.quotes))
	for _, q := range r.db.quotes {
		if f.Status != "" && q.Status != f.Status {
			continue
		}
		if f.ClientID != "" && q.ClientID != f.ClientID {
			continue
		}
		q.Items = nil
		q := q
		list = append(list, &q)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Sequence > list[j].Sequence })
	return page(list, f.Limit, f.Offset), nil
}

func (r *QuoteRepo) Update(_ context.Context, q *entity.Quote) error {
	defer r.db.lock(r.inTx)()
	old, ok := r.db.quotes[q.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if err := r.checkRefs(q); err != nil {
		return err
	}
	next := *cloneQuote(*q)
	next.Number, next.Sequence, next.Status = old.Number, old.Sequence, old.Status
	next.ApprovedAt, next.RejectedAt, next.RejectionReason = old.ApprovedAt, old.RejectedAt, old.RejectionReason
	next.ProjectID, next.CreatedBy, next.CreatedAt = old.ProjectID, old.CreatedBy, old.CreatedAt
	r.db.quotes[q.ID] = next
	return nil
}

func (r *QuoteRepo) UpdateStatus(_ context.Context, q *entity.Quote) error {
	defer r.db.lock(r.inTx)()
	old, ok := r.db.quotes[q.ID]
	if !ok {
		return domain.ErrNotFound
	}
	old.Status, old.ApprovedAt, old.RejectedAt = q.Status, q.ApprovedAt, q.RejectedAt
	old.RejectionReason, old.ProjectID, old.UpdatedAt = q.RejectionReason, q.ProjectID, q.UpdatedAt
	r.db.quotes[q.ID] = old
	return nil
}

func (r *QuoteRepo) Delete(_ context.Context, id string) error {
	defer r.db.lock(r.inTx)()
	if _, ok := r.db.quotes[id]; !ok {
		return domain.ErrNotFound
	}
	for _, p := range r.db.projects {
		if p.QuoteID == id {
			return fmt.Errorf("%w: la cotización tiene un proyecto asociado", domain.ErrConflict)
		}
	}
	delete(r.db.quotes, id)
	return nil
}

// ProjectRepo proyectos en memoria.
type ProjectRepo struct {
	db   *DB
	inTx bool
}

// NewProjectRepository construye el repositorio.
func NewProjectRepository(db *DB) *ProjectRepo { return &ProjectRepo{db: db} }

func (r *ProjectRepo) Create(_ context.Context, p *entity.Project) error {
	defer r.db.lock(r.inTx)()
	for _, other := range r.db.projects {
		if other.QuoteID == p.QuoteID {
			return fmt.Errorf("%w: la cotización ya tiene un proyecto", domain.ErrDuplicate)
		}
	}
	if _, ok := r.db.clients[p.ClientID]; !ok {
		return fmt.Errorf("%w: el cliente no existe", domain.ErrInvalidInput)
	}
	r.db.projects[p.ID] = *p
	return nil
}

func (r *ProjectRepo) GetByID(_ context.Context, id string) (*entity.Project, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	p, ok := r.db.projects[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *ProjectRepo) GetByQuoteID(_ context.Context, quoteID string) (*entity.Project, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, p := range r.db.projects {
		if p.QuoteID == quoteID {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *ProjectRepo) List(_ context.Context, f repository.ProjectFilter) ([]*entity.Project, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	list := make([]*entity.Project, 0, len(r.db.projects))
	for _, p := range r.db.projects {
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		if f.ClientID != "" && p.ClientID != f.ClientID {
			continue
		}
		p := p
		list = append(list, &p)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].StartDate.Equal(list[j].StartDate) {
			return list[i].StartDate.After(list[j].StartDate)
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

func (r *ProjectRepo) Update(_ context.Context, p *entity.Project) error {
	defer r.db.lock(r.inTx)()
	old, ok := r.db.projects[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	p.QuoteID, p.ClientID, p.CreatedAt = old.QuoteID, old.ClientID, old.CreatedAt
	p.TotalValue, p.EstimatedCost, p.EstimatedProfitability = old.TotalValue, old.EstimatedCost, old.EstimatedProfitability
	r.db.projects[p.ID] = *p
	return nil
}
