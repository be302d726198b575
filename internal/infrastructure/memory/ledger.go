package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/rentability-pro/internal/domain"
	"github.com/jhoicas/rentability-pro/internal/domain/entity"
	"github.com/jhoicas/rentability-pro/internal/domain/repository"
)

var (
	_ repository.PaymentPlanRepository     = (*PaymentPlanRepo)(nil)
	_ repository.PaymentRepository         = (*PaymentRepo)(nil)
	_ repository.ExpenseCategoryRepository = (*ExpenseCategoryRepo)(nil)
	_ repository.DisbursementRepository    = (*DisbursementRepo)(nil)
)

func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}

// PaymentPlanRepo cuotas en memoria.
type PaymentPlanRepo struct {
	db   *DB
	inTx bool
}

// NewPaymentPlanRepository construye el repositorio.
func NewPaymentPlanRepository(db *DB) *PaymentPlanRepo { return &PaymentPlanRepo{db: db} }

func (r *PaymentPlanRepo) GetByID(_ context.Context, id string) (*entity.PaymentPlan, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	p, ok := r.db.plans[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *PaymentPlanRepo) ListByProject(_ context.Context, projectID string) ([]*entity.PaymentPlan, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	list := []*entity.PaymentPlan{}
	for _, p := range r.db.plans {
		if p.ProjectID == projectID {
			p := p
			list = append(list, &p)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Number < list[j].Number })
	return list, nil
}

func (r *PaymentPlanRepo) ListOverdue(_ context.Context, today time.Time) ([]*entity.PaymentPlan, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	list := []*entity.PaymentPlan{}
	for _, p := range r.db.plans {
		if proj, ok := r.db.projects[p.ProjectID]; !ok || proj.Status == entity.ProjectStatusCancelled {
			continue
		}
		if p.IsOverdue(today) {
			p := p
			list = append(list, &p)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].DueDate.Before(list[j].DueDate) })
	return list, nil
}

func (r *PaymentPlanRepo) ReplaceForProject(_ context.Context, projectID string, plans []*entity.PaymentPlan) error {
	defer r.db.lock(r.inTx)()
	if _, ok := r.db.projects[projectID]; !ok {
		return domain.ErrNotFound
	}
	seen := map[int]bool{}
	for _, p := range plans {
		if seen[p.Number] {
			return fmt.Errorf("%w: cuota número %d repetida", domain.ErrDuplicate, p.Number)
		}
		seen[p.Number] = true
	}
	for id, p := range r.db.plans {
		if p.ProjectID != projectID {
			continue
		}
		delete(r.db.plans, id)
		for pid, pay := range r.db.payments {
			if pay.PaymentPlanID == id {
				pay.PaymentPlanID = ""
				r.db.payments[pid] = pay
			}
		}
	}
	for _, p := range plans {
		p.ProjectID = projectID
		r.db.plans[p.ID] = *p
	}
	return nil
}

func (r *PaymentPlanRepo) Update(_ context.Context, p *entity.PaymentPlan) error {
	defer r.db.lock(r.inTx)()
	old, ok := r.db.plans[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	for id, other := range r.db.plans {
		if id != p.ID && other.ProjectID == old.ProjectID && other.Number == p.Number {
			return fmt.Errorf("%w: cuota número %d repetida", domain.ErrDuplicate, p.Number)
		}
	}
	p.ProjectID, p.CreatedAt = old.ProjectID, old.CreatedAt
	r.db.plans[p.ID] = *p
	return nil
}

func (r *PaymentPlanRepo) UpdateStatus(_ context.Context, id string, status entity.InstallmentStatus, at time.Time) error {
	defer r.db.lock(r.inTx)()
	p, ok := r.db.plans[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Status, p.UpdatedAt = status, at
	r.db.plans[id] = p
	return nil
}

func (r *PaymentPlanRepo) Delete(_ context.Context, id string) error {
	defer r.db.lock(r.inTx)()
	if _, ok := r.db.plans[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.db.plans, id)
	for pid, pay := range r.db.payments {
		if pay.PaymentPlanID == id {
			pay.PaymentPlanID = ""
			r.db.payments[pid] = pay
		}
	}
	return nil
}

// PaymentRepo pagos en memoria.
type PaymentRepo struct {
	db   *DB
	inTx bool
}

// NewPaymentRepository construye el repositorio.
func NewPaymentRepository(db *DB) *PaymentRepo { return &PaymentRepo{db: db} }

func sortPayments(list []*entity.Payment, desc bool) {
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date) == desc
		}
		return a.CreatedAt.After(b.CreatedAt) == desc
	})
}

func (r *PaymentRepo) Create(_ context.Context, p *entity.Payment) error {
	defer r.db.lock(r.inTx)()
	if _, ok := r.db.projects[p.ProjectID]; !ok {
		return fmt.Errorf("%w: proyecto o cuota inexistente", domain.ErrInvalidInput)
	}
	if p.PaymentPlanID != "" {
		if _, ok := r.db.plans[p.PaymentPlanID]; !ok {
			return fmt.Errorf("%w: proyecto o cuota inexistente", domain.ErrInvalidInput)
		}
	}
	r.db.payments[p.ID] = *p
	return nil
}

func (r *PaymentRepo) GetByID(_ context.Context, id string) (*entity.Payment, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	p, ok := r.db.payments[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *PaymentRepo) ListByProject(_ context.Context, projectID string) ([]*entity.Payment, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	list := []*entity.Payment{}
	for _, p := range r.db.payments {
		if p.ProjectID == projectID {
			p := p
			list = append(list, &p)
		}
	}
	sortPayments(list, true)
	return list, nil
}

func (r *PaymentRepo) ListBetween(_ context.Context, from, to time.Time) ([]*entity.Payment, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	list := []*entity.Payment{}
	for _, p := range r.db.payments {
		if inRange(p.Date, from, to) {
			p := p
			list = append(list, &p)
		}
	}
	sortPayments(list, false)
	return list, nil
}

func (r *PaymentRepo) SumByPlan(_ context.Context, planID string) (decimal.Decimal, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	sum := decimal.Zero
	for _, p := range r.db.payments {
		if p.PaymentPlanID == planID {
			sum = sum.Add(p.Amount)
		}
	}
	return sum, nil
}

func (r *PaymentRepo) Delete(_ context.Context, id string) error {
	defer r.db.lock(r.inTx)()
	if _, ok := r.db.payments[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.db.payments, id)
	return nil
}

// ExpenseCategoryRepo categorías de desembolso en memoria.
type ExpenseCategoryRepo struct{ db *DB }

// NewExpenseCategoryRepository construye el repositorio.
func NewExpenseCategoryRepository(db *DB) *ExpenseCategoryRepo { return &ExpenseCategoryRepo{db: db} }

func (r *ExpenseCategoryRepo) nameTaken(id, name string) bool {
	for _, c := range r.db.categories {
		if c.ID != id && c.Name == name {
			return true
		}
	}
	return false
}

func (r *ExpenseCategoryRepo) Create(_ context.Context, c *entity.ExpenseCategory) error {
	defer r.db.lock(false)()
	if r.nameTaken(c.ID, c.Name) {
		return fmt.Errorf("%w: ya existe la categoría %q", domain.ErrDuplicate, c.Name)
	}
	r.db.categories[c.ID] = *c
	return nil
}

func (r *ExpenseCategoryRepo) GetByID(_ context.Context, id string) (*entity.ExpenseCategory, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	c, ok := r.db.categories[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *ExpenseCategoryRepo) List(_ context.Context, activeOnly bool) ([]*entity.ExpenseCategory, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	list := []*entity.ExpenseCategory{}
	for _, c := range r.db.categories {
		if activeOnly && !c.Active {
			continue
		}
		c := c
		list = append(list, &c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (r *ExpenseCategoryRepo) Update(_ context.Context, c *entity.ExpenseCategory) error {
	defer r.db.lock(false)()
	old, ok := r.db.categories[c.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if r.nameTaken(c.ID, c.Name) {
		return fmt.Errorf("%w: ya existe la categoría %q", domain.ErrDuplicate, c.Name)
	}
	c.CreatedAt = old.CreatedAt
	r.db.categories[c.ID] = *c
	return nil
}

func (r *ExpenseCategoryRepo) Delete(_ context.Context, id string) error {
	defer r.db.lock(false)()
	if _, ok := r.db.categories[id]; !ok {
		return domain.ErrNotFound
	}
	for _, d := range r.db.disbursements {
		if d.CategoryID == id {
			return fmt.Errorf("%w: la categoría tiene desembolsos; desactívela en su lugar", domain.ErrConflict)
		}
	}
	delete(r.db.categories, id)
	return nil
}

// DisbursementRepo desembolsos en memoria.
type DisbursementRepo struct{ db *DB }

// NewDisbursementRepository construye el repositorio.
func NewDisbursementRepository(db *DB) *DisbursementRepo { return &DisbursementRepo{db: db} }

func (r *DisbursementRepo) checkRefs(d *entity.Disbursement) error {
	if d.ProjectID != "" {
		if _, ok := r.db.projects[d.ProjectID]; !ok {
			return fmt.Errorf("%w: proyecto o categoría inexistente", domain.ErrInvalidInput)
		}
	}
	if d.CategoryID != "" {
		if _, ok := r.db.categories[d.CategoryID]; !ok {
			return fmt.Errorf("%w: proyecto o categoría inexistente", domain.ErrInvalidInput)
		}
	}
	return nil
}

func sortDisbursements(list []*entity.Disbursement, desc bool) {
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date) == desc
		}
		return a.CreatedAt.After(b.CreatedAt) == desc
	})
}

func (r *DisbursementRepo) Create(_ context.Context, d *entity.Disbursement) error {
	defer r.db.lock(false)()
	if err := r.checkRefs(d); err != nil {
		return err
	}
	r.db.disbursements[d.ID] = *d
	return nil
}

func (r *DisbursementRepo) GetByID(_ context.Context, id string) (*entity.Disbursement, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	d, ok := r.db.disbursements[id]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (r *DisbursementRepo) List(_ context.Context, f repository.DisbursementFilter) ([]*entity.Disbursement, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	list := []*entity.Disbursement{}
	for _, d := range r.db.disbursements {
		switch {
		case f.ProjectID != "" && d.ProjectID != f.ProjectID:
			continue
		case f.ProjectID == "" && f.GeneralOnly && d.ProjectID != "":
			continue
		case f.CategoryID != "" && d.CategoryID != f.CategoryID:
			continue
		case f.Status != "" && d.Status != f.Status:
			continue
		}
		d := d
		list = append(list, &d)
	}
	sortDisbursements(list, true)
	return list, nil
}

func (r *DisbursementRepo) ListBetween(_ context.Context, from, to time.Time) ([]*entity.Disbursement, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	list := []*entity.Disbursement{}
	for _, d := range r.db.disbursements {
		if inRange(d.Date, from, to) {
			d := d
			list = append(list, &d)
		}
	}
	sortDisbursements(list, false)
	return list, nil
}

func (r *DisbursementRepo) Update(_ context.Context, d *entity.Disbursement) error {
	defer r.db.lock(false)()
	old, ok := r.db.disbursements[d.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if err := r.checkRefs(d); err != nil {
		return err
	}
	d.CreatedBy, d.CreatedAt = old.CreatedBy, old.CreatedAt
	r.db.disbursements[d.ID] = *d
	return nil
}

func (r *DisbursementRepo) Delete(_ context.Context, id string) error {
	defer r.db.lock(false)()
	if _, ok := r.db.disbursements[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.db.disbursements, id)
	return nil
}
