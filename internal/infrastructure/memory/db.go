// Package memory almacén en memoria con la misma semántica que el adaptador PostgreSQL
// (llaves foráneas, unicidad, cascadas). Se usa con APP_STORAGE=memory y en pruebas.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/rentability-pro/internal/domain/entity"
	"github.com/jhoicas/rentability-pro/internal/domain/repository"
)

// DB contiene todas las tablas.
type DB struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	clients       map[string]entity.Client
	services      map[string]entity.Service
	quotes        map[string]entity.Quote
	projects      map[string]entity.Project
	plans         map[string]entity.PaymentPlan
	payments      map[string]entity.Payment
	categories    map[string]entity.ExpenseCategory
	disbursements map[string]entity.Disbursement
	settings      entity.Settings
	seq           int
}

// New crea una base vacía con la configuración por defecto.
func New() *DB {
	return &DB{
		clients:       map[string]entity.Client{},
		services:      map[string]entity.Service{},
		quotes:        map[string]entity.Quote{},
		projects:      map[string]entity.Project{},
		plans:         map[string]entity.PaymentPlan{},
		payments:      map[string]entity.Payment{},
		categories:    map[string]entity.ExpenseCategory{},
		disbursements: map[string]entity.Disbursement{},
		settings:      entity.DefaultSettings(),
	}
}

func copyMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

type snapshot struct {
	clients       map[string]entity.Client
	services      map[string]entity.Service
	quotes        map[string]entity.Quote
	projects      map[string]entity.Project
	plans         map[string]entity.PaymentPlan
	payments      map[string]entity.Payment
	categories    map[string]entity.ExpenseCategory
	disbursements map[string]entity.Disbursement
	settings      entity.Settings
	seq           int
}

func (db *DB) snapshot() snapshot {
	db.mu.RLock()
	defer db.mu.RUnlock()
	quotes := make(map[string]entity.Quote, len(db.quotes))
	for k, q := range db.quotes {
		q.Items = append([]entity.QuoteItem(nil), q.Items...)
		quotes[k] = q
	}
	return snapshot{
		clients: copyMap(db.clients), services: copyMap(db.services), quotes: quotes,
		projects: copyMap(db.projects), plans: copyMap(db.plans), payments: copyMap(db.payments),
		categories: copyMap(db.categories), disbursements: copyMap(db.disbursements),
		settings: db.settings.Clone(), seq: db.seq,
	}
}

func (db *DB) restore(s snapshot) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.clients, db.services, db.quotes, db.projects = s.clients, s.services, s.quotes, s.projects
	db.plans, db.payments, db.categories, db.disbursements = s.plans, s.payments, s.categories, s.disbursements
	db.settings, db.seq = s.settings, s.seq
}

// lock toma el candado de escritura. Fuera de una transacción espera también a que termine
// la transacción abierta, de modo que un rollback solo descarta lo escrito por esa transacción.
func (db *DB) lock(inTx bool) func() {
	if !inTx {
		db.txMu.Lock()
	}
	db.mu.Lock()
	return func() {
		db.mu.Unlock()
		if !inTx {
			db.txMu.Unlock()
		}
	}
}

// TxRunner serializa las transacciones y revierte todos los cambios si fn falla.
// Las escrituras fuera de transacción esperan a que termine la transacción en curso.
type TxRunner struct {
	db *DB
}

var _ repository.TxRunner = (*TxRunner)(nil)

// NewTxRunner construye el runner.
func NewTxRunner(db *DB) *TxRunner { return &TxRunner{db: db} }

// Run ejecuta fn con los repositorios en memoria.
func (r *TxRunner) Run(ctx context.Context, fn func(repository.TxRepos) error) error {
	r.db.txMu.Lock()
	defer r.db.txMu.Unlock()

	before := r.db.snapshot()
	err := fn(repository.TxRepos{
		Quotes:   &QuoteRepo{db: r.db, inTx: true},
		Projects: &ProjectRepo{db: r.db, inTx: true},
		Services: &ServiceRepo{db: r.db, inTx: true},
		Plans:    &PaymentPlanRepo{db: r.db, inTx: true},
		Payments: &PaymentRepo{db: r.db, inTx: true},
	})
	if err != nil {
		r.db.restore(before)
		return err
	}
	return nil
}
