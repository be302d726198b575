package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/rentability-pro/internal/domain"
	"github.com/jhoicas/rentability-pro/internal/domain/entity"
	"github.com/jhoicas/rentability-pro/internal/domain/repository"
)

func seedQuote(t *testing.T, db *DB) *entity.Quote {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, NewClientRepository(db).Create(ctx, &entity.Client{ID: "c1", Name: "Acme"}))
	require.NoError(t, NewServiceRepository(db).Create(ctx, &entity.Service{ID: "s1", Name: "Web", Active: true}))
	q := &entity.Quote{
		ID: "q1", Number: "COT-0001", Sequence: 1, ClientID: "c1", Status: entity.QuoteStatusSent,
		Items: []entity.QuoteItem{{ID: "i1", ServiceID: "s1", Quantity: decimal.NewFromInt(1), Subtotal: decimal.NewFromInt(100)}},
	}
	require.NoError(t, NewQuoteRepository(db).Create(ctx, q))
	return q
}

func TestTxRunner_RollbackEnError(t *testing.T) {
	db := New()
	seedQuote(t, db)
	boom := errors.New("boom")

	err := NewTxRunner(db).Run(context.Background(), func(tx repository.TxRepos) error {
		q, err := tx.Quotes.GetForUpdate(context.Background(), "q1")
		require.NoError(t, err)
		q.Status = entity.QuoteStatusApproved
		require.NoError(t, tx.Quotes.UpdateStatus(context.Background(), q))
		require.NoError(t, tx.Projects.Create(context.Background(), &entity.Project{ID: "p1", QuoteID: "q1", ClientID: "c1"}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	q, _ := NewQuoteRepository(db).GetByID(context.Background(), "q1")
	assert.Equal(t, entity.QuoteStatusSent, q.Status)
	p, _ := NewProjectRepository(db).GetByQuoteID(context.Background(), "q1")
	assert.Nil(t, p)
}

func TestTxRunner_RollbackConservaEscriturasAjenas(t *testing.T) {
	db := New()
	seedQuote(t, db)
	ctx := context.Background()
	boom := errors.New("boom")

	var (
		wg        sync.WaitGroup
		createErr error
	)
	err := NewTxRunner(db).Run(ctx, func(tx repository.TxRepos) error {
		require.NoError(t, tx.Projects.Create(ctx, &entity.Project{ID: "p1", QuoteID: "q1", ClientID: "c1"}))
		wg.Add(1)
		go func() {
			defer wg.Done()
			createErr = NewClientRepository(db).Create(ctx, &entity.Client{ID: "ajeno", Name: "Otro cliente"})
		}()
		time.Sleep(20 * time.Millisecond)
		return boom
	})
	require.ErrorIs(t, err, boom)
	wg.Wait()
	require.NoError(t, createErr)

	c, err := NewClientRepository(db).GetByID(ctx, "ajeno")
	require.NoError(t, err)
	assert.NotNil(t, c)
	p, _ := NewProjectRepository(db).GetByID(ctx, "p1")
	assert.Nil(t, p)
}

func TestProjectRepo_UnProyectoPorCotizacion(t *testing.T) {
	db := New()
	seedQuote(t, db)
	repo := NewProjectRepository(db)
	require.NoError(t, repo.Create(context.Background(), &entity.Project{ID: "p1", QuoteID: "q1", ClientID: "c1"}))
	err := repo.Create(context.Background(), &entity.Project{ID: "p2", QuoteID: "q1", ClientID: "c1"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestDeletes_RespetanReferencias(t *testing.T) {
	db := New()
	seedQuote(t, db)
	ctx := context.Background()

	assert.ErrorIs(t, NewClientRepository(db).Delete(ctx, "c1"), domain.ErrConflict)
	assert.ErrorIs(t, NewServiceRepository(db).Delete(ctx, "s1"), domain.ErrConflict)
	assert.ErrorIs(t, NewClientRepository(db).Delete(ctx, "nope"), domain.ErrNotFound)
}

func TestQuoteRepo_GetDevuelveCopia(t *testing.T) {
	db := New()
	seedQuote(t, db)
	repo := NewQuoteRepository(db)

	q, err := repo.GetByID(context.Background(), "q1")
	require.NoError(t, err)
	q.Items[0].Quantity = decimal.NewFromInt(99)

	again, _ := repo.GetByID(context.Background(), "q1")
	assert.True(t, again.Items[0].Quantity.Equal(decimal.NewFromInt(1)))
}

func TestPaymentPlanRepo_ReplaceDesvinculaPagos(t *testing.T) {
	db := New()
	seedQuote(t, db)
	ctx := context.Background()
	require.NoError(t, NewProjectRepository(db).Create(ctx, &entity.Project{ID: "p1", QuoteID: "q1", ClientID: "c1"}))

	plans := NewPaymentPlanRepository(db)
	require.NoError(t, plans.ReplaceForProject(ctx, "p1", []*entity.PaymentPlan{{ID: "pp1", Number: 1, Amount: decimal.NewFromInt(50)}}))
	pays := NewPaymentRepository(db)
	require.NoError(t, pays.Create(ctx, &entity.Payment{ID: "pay1", ProjectID: "p1", PaymentPlanID: "pp1", Amount: decimal.NewFromInt(50)}))

	err := plans.ReplaceForProject(ctx, "p1", []*entity.PaymentPlan{{ID: "a", Number: 1}, {ID: "b", Number: 1}})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	require.NoError(t, plans.ReplaceForProject(ctx, "p1", []*entity.PaymentPlan{{ID: "pp2", Number: 1}}))
	pay, _ := pays.GetByID(ctx, "pay1")
	assert.Empty(t, pay.PaymentPlanID)
}

func TestReportRepo_QuoteStatsCuentaVencidas(t *testing.T) {
	db := New()
	seedQuote(t, db)
	ctx := context.Background()
	today := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	q, _ := NewQuoteRepository(db).GetByID(ctx, "q1")
	q.ValidUntil = today.AddDate(0, 0, -1)
	require.NoError(t, NewQuoteRepository(db).Update(ctx, q))

	stats, err := NewReportRepository(db).QuoteStats(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Expired)
	assert.Equal(t, 0, stats.Sent)
}

func TestSeedDefaults(t *testing.T) {
	db := New()
	db.SeedDefaults(time.Now())
	cats, err := NewExpenseCategoryRepository(db).List(context.Background(), true)
	require.NoError(t, err)
	assert.Len(t, cats, 5)
	assert.Equal(t, "Mano de obra", cats[0].Name)
}
