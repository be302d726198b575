package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/rentability-pro/internal/domain/entity"
	"github.com/jhoicas/rentability-pro/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo agregados calculados recorriendo las tablas en memoria.
type ReportRepo struct{ db *DB }

// NewReportRepository construye el repositorio.
func NewReportRepository(db *DB) *ReportRepo { return &ReportRepo{db: db} }

func (r *ReportRepo) ProjectCounts(_ context.Context) (map[string]int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := map[string]int{}
	for _, p := range r.db.projects {
		out[string(p.Status)]++
	}
	return out, nil
}

func (r *ReportRepo) QuoteStats(_ context.Context, today time.Time) (repository.QuoteStatsResult, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	res := repository.QuoteStatsResult{ApprovedValue: decimal.Zero}
	for _, q := range r.db.quotes {
		switch q.EffectiveStatus(today) {
		case entity.QuoteStatusDraft:
			res.Draft++
		case entity.QuoteStatusSent:
			res.Sent++
		case entity.QuoteStatusExpired:
			res.Expired++
		case entity.QuoteStatusApproved:
			res.Approved++
			res.ApprovedValue = res.ApprovedValue.Add(q.Total)
		case entity.QuoteStatusRejected:
			res.Rejected++
		}
	}
	return res, nil
}

func (r *ReportRepo) CashTotals(_ context.Context, from, to time.Time) (income, expenses decimal.Decimal, err error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	income, expenses = decimal.Zero, decimal.Zero
	for _, p := range r.db.payments {
		if inRange(p.Date, from, to) {
			income = income.Add(p.Amount)
		}
	}
	for _, d := range r.db.disbursements {
		if d.Status == entity.DisbursementPaid && inRange(d.Date, from, to) {
			expenses = expenses.Add(d.Amount)
		}
	}
	return income, expenses, nil
}

func (r *ReportRepo) live(projectID string) bool {
	p, ok := r.db.projects[projectID]
	return ok && p.Status != entity.ProjectStatusCancelled
}

func (r *ReportRepo) Receivables(_ context.Context) (planned, received decimal.Decimal, err error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	planned, received = decimal.Zero, decimal.Zero
	for _, p := range r.db.plans {
		if r.live(p.ProjectID) {
			planned = planned.Add(p.Amount)
		}
	}
	for _, p := range r.db.payments {
		if r.live(p.ProjectID) {
			received = received.Add(p.Amount)
		}
	}
	return planned, received, nil
}

func (r *ReportRepo) Overdue(_ context.Context, today time.Time) (repository.OverdueSummary, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	res := repository.OverdueSummary{Amount: decimal.Zero}
	for _, p := range r.db.plans {
		if r.live(p.ProjectID) && p.IsOverdue(today) {
			res.Count++
			res.Amount = res.Amount.Add(p.Amount)
		}
	}
	return res, nil
}

func (r *ReportRepo) ProjectFinances(_ context.Context) ([]repository.ProjectFinanceRow, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	projects := make([]entity.Project, 0, len(r.db.projects))
	for _, p := range r.db.projects {
		projects = append(projects, p)
	}
	sort.Slice(projects, func(i, j int) bool {
		if !projects[i].StartDate.Equal(projects[j].StartDate) {
			return projects[i].StartDate.After(projects[j].StartDate)
		}
		return projects[i].CreatedAt.After(projects[j].CreatedAt)
	})

	rows := make([]repository.ProjectFinanceRow, 0, len(projects))
	for _, p := range projects {
		row := repository.ProjectFinanceRow{
			ProjectID:     p.ID,
			ProjectName:   p.Name,
			Status:        string(p.Status),
			TotalValue:    p.TotalValue,
			EstimatedCost: p.EstimatedCost,
			Planned:       decimal.Zero,
			Received:      decimal.Zero,
			Spent:         decimal.Zero,
		}
		if c, ok := r.db.clients[p.ClientID]; ok {
			row.ClientName = c.Company
			if row.ClientName == "" {
				row.ClientName = c.Name
			}
		}
		for _, pl := range r.db.plans {
			if pl.ProjectID == p.ID {
				row.Planned = row.Planned.Add(pl.Amount)
			}
		}
		for _, pay := range r.db.payments {
			if pay.ProjectID == p.ID {
				row.Received = row.Received.Add(pay.Amount)
			}
		}
		for _, d := range r.db.disbursements {
			if d.ProjectID == p.ID && d.Status == entity.DisbursementPaid {
				row.Spent = row.Spent.Add(d.Amount)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (r *ReportRepo) ServiceRanking(_ context.Context, limit int) ([]repository.ServiceRankRow, error) {
	if limit <= 0 {
		limit = 10
	}
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	revenue := map[string]decimal.Decimal{}
	for _, q := range r.db.quotes {
		if q.Status != entity.QuoteStatusApproved {
			continue
		}
		for _, it := range q.Items {
			revenue[it.ServiceID] = revenue[it.ServiceID].Add(it.Subtotal)
		}
	}
	rows := make([]repository.ServiceRankRow, 0, len(r.db.services))
	for _, s := range r.db.services {
		rows = append(rows, repository.ServiceRankRow{
			ServiceID:   s.ID,
			Name:        s.Name,
			Category:    s.Category,
			TimesQuoted: s.TimesQuoted,
			TimesSold:   s.TimesSold,
			SoldRevenue: revenue[s.ID],
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.TimesSold != b.TimesSold {
			return a.TimesSold > b.TimesSold
		}
		if a.TimesQuoted != b.TimesQuoted {
			return a.TimesQuoted > b.TimesQuoted
		}
		return a.Name < b.Name
	})
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}
