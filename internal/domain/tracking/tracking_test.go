package tracking

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/rentability-pro/internal/domain"
	"github.com/jhoicas/rentability-pro/internal/domain/entity"
)

func TestClampProgress(t *testing.T) {
	assert.Equal(t, 0, ClampProgress(-5))
	assert.Equal(t, 42, ClampProgress(42))
	assert.Equal(t, 100, ClampProgress(150))
}

func TestFromQuote(t *testing.T) {
	today := time.Date(2025, 6, 2, 14, 30, 0, 0, time.UTC)
	q := &entity.Quote{
		ID: "q1", Number: "COT-0003", ClientID: "c1", Title: "Sitio web",
		EstimatedDays: 45, Total: decimal.NewFromInt(2380000),
		Items: []entity.QuoteItem{
			{ServiceID: "s1", Quantity: decimal.NewFromInt(2)},
			{ServiceID: "s2", Quantity: decimal.NewFromInt(1)},
			{ServiceID: "s3", Quantity: decimal.NewFromInt(1)}, // sin costo conocido
		},
	}
	costs := map[string]decimal.Decimal{"s1": decimal.NewFromInt(300000), "s2": decimal.NewFromInt(400000)}

	p := FromQuote(q, costs, today)
	assert.Equal(t, "q1", p.QuoteID)
	assert.Equal(t, "c1", p.ClientID)
	assert.Equal(t, "Sitio web", p.Name)
	assert.Equal(t, entity.ProjectStatusActive, p.Status)
	assert.Equal(t, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), p.StartDate)
	require.NotNil(t, p.EstimatedEndDate)
	assert.Equal(t, time.Date(2025, 7, 17, 0, 0, 0, 0, time.UTC), *p.EstimatedEndDate)
	assert.Equal(t, "1000000", p.EstimatedCost.String())
	assert.Equal(t, "1380000", p.EstimatedProfitability.String())
	assert.Equal(t, 0, p.Progress)
}

func TestFromQuote_SinTitulo(t *testing.T) {
	p := FromQuote(&entity.Quote{Number: "COT-0009"}, nil, time.Now())
	assert.Equal(t, "Proyecto COT-0009", p.Name)
	assert.Nil(t, p.EstimatedEndDate)
}

func TestLifecycle(t *testing.T) {
	p := &entity.Project{Status: entity.ProjectStatusActive, Progress: 60}

	assert.ErrorIs(t, Resume(p), domain.ErrInvalidTransition)
	require.NoError(t, Pause(p))
	assert.ErrorIs(t, Pause(p), domain.ErrInvalidTransition)
	require.NoError(t, Resume(p))

	now := time.Date(2025, 9, 1, 18, 0, 0, 0, time.UTC)
	require.NoError(t, Complete(p, decimal.NewFromInt(700000), decimal.NewFromInt(300000), now))
	assert.Equal(t, entity.ProjectStatusCompleted, p.Status)
	assert.Equal(t, 100, p.Progress)
	require.NotNil(t, p.ActualEndDate)
	assert.Equal(t, "300000", p.ActualProfitability.String())

	assert.ErrorIs(t, Cancel(p), domain.ErrInvalidTransition)
	assert.ErrorIs(t, Complete(p, decimal.Zero, decimal.Zero, now), domain.ErrInvalidTransition)
}

func TestCancel_DesdePausado(t *testing.T) {
	p := &entity.Project{Status: entity.ProjectStatusPaused}
	require.NoError(t, Cancel(p))
	assert.Equal(t, entity.ProjectStatusCancelled, p.Status)
	assert.ErrorIs(t, Pause(p), domain.ErrInvalidTransition)
}
