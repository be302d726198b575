// Package storage arma el conjunto de repositorios según APP_STORAGE (postgres o memory).
package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/rentability-pro/internal/domain/repository"
	"github.com/jhoicas/rentability-pro/internal/infrastructure/memory"
	"github.com/jhoicas/rentability-pro/internal/infrastructure/postgres"
	"github.com/jhoicas/rentability-pro/pkg/config"
)

const (
	KindPostgres = "postgres"
	KindMemory   = "memory"
)

// Repos repositorios compartidos por la API y el worker.
type Repos struct {
	Kind          string
	Clients       repository.ClientRepository
	Services      repository.ServiceRepository
	Quotes        repository.QuoteRepository
	Projects      repository.ProjectRepository
	Plans         repository.PaymentPlanRepository
	Payments      repository.PaymentRepository
	Categories    repository.ExpenseCategoryRepository
	Disbursements repository.DisbursementRepository
	Settings      repository.SettingsRepository
	Reports       repository.ReportRepository
	Tx            repository.TxRunner

	close func()
}

// Close libera el pool (no hace nada en modo memoria).
func (r *Repos) Close() {
	if r != nil && r.close != nil {
		r.close()
	}
}

// Open conecta el backend configurado.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Repos, error) {
	switch kind := strings.ToLower(strings.TrimSpace(cfg.App.Storage)); kind {
	case "", KindPostgres:
		return openPostgres(ctx, cfg.DB, log)
	case KindMemory:
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		return NewMemory(time.Now()), nil
	default:
		return nil, fmt.Errorf("storage: tipo desconocido %q", kind)
	}
}

func openPostgres(ctx context.Context, cfg config.DBConfig, log zerolog.Logger) (*Repos, error) {
	pool, err := postgres.NewPool(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	return &Repos{
		Kind:          KindPostgres,
		Clients:       postgres.NewClientRepository(pool),
		Services:      postgres.NewServiceRepository(pool),
		Quotes:        postgres.NewQuoteRepository(pool),
		Projects:      postgres.NewProjectRepository(pool),
		Plans:         postgres.NewPaymentPlanRepository(pool),
		Payments:      postgres.NewPaymentRepository(pool),
		Categories:    postgres.NewExpenseCategoryRepository(pool),
		Disbursements: postgres.NewDisbursementRepository(pool),
		Settings:      postgres.NewSettingsRepository(pool),
		Reports:       postgres.NewReportRepository(pool),
		Tx:            postgres.NewTxRunner(pool),
		close:         pool.Close,
	}, nil
}

// NewMemory repositorios en memoria con las categorías de desembolso iniciales.
func NewMemory(now time.Time) *Repos {
	db := memory.New()
	db.SeedDefaults(now)
	return &Repos{
		Kind:          KindMemory,
		Clients:       memory.NewClientRepository(db),
		Services:      memory.NewServiceRepository(db),
		Quotes:        memory.NewQuoteRepository(db),
		Projects:      memory.NewProjectRepository(db),
		Plans:         memory.NewPaymentPlanRepository(db),
		Payments:      memory.NewPaymentRepository(db),
		Categories:    memory.NewExpenseCategoryRepository(db),
		Disbursements: memory.NewDisbursementRepository(db),
		Settings:      memory.NewSettingsRepository(db),
		Reports:       memory.NewReportRepository(db),
		Tx:            memory.NewTxRunner(db),
	}
}
