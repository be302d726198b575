package state

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/rentability-pro/internal/domain/entity"
	"github.com/jhoicas/rentability-pro/internal/domain/repository"
)

// RepoLoader implementa Loader consultando los repositorios en paralelo.
type RepoLoader struct {
	Clients  repository.ClientRepository
	Services repository.ServiceRepository
	Quotes   repository.QuoteRepository
	Projects repository.ProjectRepository
	Settings repository.SettingsRepository
}

// Load lee todas las entidades espejadas y la configuración.
func (l RepoLoader) Load(ctx context.Context) (Hydrated, error) {
	var h Hydrated
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		h.Clients, err = l.Clients.List(ctx, repository.ClientFilter{Limit: 10000})
		return err
	})
	g.Go(func() (err error) {
		h.Services, err = l.Services.List(ctx, repository.ServiceFilter{})
		return err
	})
	g.Go(func() (err error) {
		h.Quotes, err = l.Quotes.List(ctx, repository.QuoteFilter{Limit: 10000})
		return err
	})
	g.Go(func() (err error) {
		h.Projects, err = l.Projects.List(ctx, repository.ProjectFilter{})
		return err
	})
	var settings *entity.Settings
	g.Go(func() (err error) {
		settings, err = l.Settings.Load(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Hydrated{}, err
	}
	h.Settings = *settings
	h.At = time.Now()
	return h, nil
}
