package repository

import "context"

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Quotes   QuoteRepository
	Projects ProjectRepository
	Services ServiceRepository
	Plans    PaymentPlanRepository
	Payments PaymentRepository
}

// TxRunner ejecuta fn dentro de una transacción: commit si fn devuelve nil, rollback en otro caso.
type TxRunner interface {
	Run(ctx context.Context, fn func(TxRepos) error) error
}
