package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/rentability-pro/internal/domain"
	"github.com/jhoicas/rentability-pro/internal/domain/entity"
	"github.com/jhoicas/rentability-pro/internal/domain/repository"
)

var (
	_ repository.ClientRepository  = (*ClientRepo)(nil)
	_ repository.ServiceRepository = (*ServiceRepo)(nil)
)

func contains(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return list[:0]
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

// ClientRepo clientes en memoria.
type ClientRepo struct{ db *DB }

// NewClientRepository construye el repositorio.
func NewClientRepository(db *DB) *ClientRepo { return &ClientRepo{db: db} }

func (r *ClientRepo) Create(_ context.Context, c *entity.Client) error {
	defer r.db.lock(false)()
	if _, ok := r.db.clients[c.ID]; ok {
		return domain.ErrDuplicate
	}
	r.db.clients[c.ID] = *c
	return nil
}

func (r *ClientRepo) GetByID(_ context.Context, id string) (*entity.Client, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	c, ok := r.db.clients[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *ClientRepo) List(_ context.Context, f repository.ClientFilter) ([]*entity.Client, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	list := make([]*entity.Client, 0, len(r.db.clients))
	for _, c := range r.db.clients {
		if f.Search != "" && !contains(c.Name, f.Search) && !contains(c.Company, f.Search) && !contains(c.TaxID, f.Search) {
			continue
		}
		c := c
		list = append(list, &c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return page(list, f.Limit, f.Offset), nil
}

func (r *ClientRepo) Update(_ context.Context, c *entity.Client) error {
	defer r.db.lock(false)()
	old, ok := r.db.clients[c.ID]
	if !ok {
		return domain.ErrNotFound
	}
	c.CreatedAt, c.CreatedBy = old.CreatedAt, old.CreatedBy
	r.db.clients[c.ID] = *c
	return nil
}

func (r *ClientRepo) Delete(_ context.Context, id string) error {
	defer r.db.lock(false)()
	if _, ok := r.db.clients[id]; !ok {
		return domain.ErrNotFound
	}
	for _, q := range r.db.quotes {
		if q.ClientID == id {
			return fmt.Errorf("%w: el cliente tiene cotizaciones o proyectos asociados", domain.ErrConflict)
		}
	}
	for _, p := range r.db.projects {
		if p.ClientID == id {
			return fmt.Errorf("%w: el cliente tiene cotizaciones o proyectos asociados", domain.ErrConflict)
		}
	}
	delete(r.db.clients, id)
	return nil
}

// ServiceRepo catálogo en memoria.
type ServiceRepo struct {
	db   *DB
	inTx bool
}

// NewServiceRepository construye el repositorio.
func NewServiceRepository(db *DB) *ServiceRepo { return &ServiceRepo{db: db} }

func (r *ServiceRepo) Create(_ context.Context, s *entity.Service) error {
	defer r.db.lock(r.inTx)()
	if _, ok := r.db.services[s.ID]; ok {
		return domain.ErrDuplicate
	}
	r.db.services[s.ID] = *s
	return nil
}

func (r *ServiceRepo) GetByID(_ context.Context, id string) (*entity.Service, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	s, ok := r.db.services[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *ServiceRepo) GetByIDs(_ context.Context, ids []string) (map[string]*entity.Service, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := make(map[string]*entity.Service, len(ids))
	for _, id := range ids {
		if s, ok := r.db.services[id]; ok {
			s := s
			out[id] = &s
		}
	}
	return out, nil
}

func (r *ServiceRepo) List(_ context.Context, f repository.ServiceFilter) ([]*entity.Service, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	list := make([]*entity.Service, 0, len(r.db.services))
	for _, s := range r.db.services {
		if f.Search != "" && !contains(s.Name, f.Search) && !contains(s.Description, f.Search) {
			continue
		}
		if f.Category != "" && s.Category != f.Category {
			continue
		}
		if f.ActiveOnly && !s.Active {
			continue
		}
		s := s
		list = append(list, &s)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Category != list[j].Category {
			return list[i].Category < list[j].Category
		}
		return list[i].Name < list[j].Name
	})
	return list, nil
}

func (r *ServiceRepo) Update(_ context.Context, s *entity.Service) error {
	defer r.db.lock(r.inTx)()
	old, ok := r.db.services[s.ID]
	if !ok {
		return domain.ErrNotFound
	}
	s.TimesQuoted, s.TimesSold, s.CreatedAt = old.TimesQuoted, old.TimesSold, old.CreatedAt
	r.db.services[s.ID] = *s
	return nil
}

func (r *ServiceRepo) Delete(_ context.Context, id string) error {
	defer r.db.lock(r.inTx)()
	if _, ok := r.db.services[id]; !ok {
		return domain.ErrNotFound
	}
	for _, q := range r.db.quotes {
		for _, it := range q.Items {
			if it.ServiceID == id {
				return fmt.Errorf("%w: el servicio está en cotizaciones; desactívelo en su lugar", domain.ErrConflict)
			}
		}
	}
	delete(r.db.services, id)
	return nil
}

func (r *ServiceRepo) bump(ids []string, fn func(*entity.Service)) {
	defer r.db.lock(r.inTx)()
	for _, id := range ids {
		if s, ok := r.db.services[id]; ok {
			fn(&s)
			r.db.services[id] = s
		}
	}
}

func (r *ServiceRepo) IncrementQuoted(_ context.Context, ids []string) error {
	r.bump(ids, func(s *entity.Service) { s.TimesQuoted++ })
	return nil
}

func (r *ServiceRepo) IncrementSold(_ context.Context, ids []string) error {
	r.bump(ids, func(s *entity.Service) { s.TimesSold++ })
	return nil
}
