// Package state estado compartido de la aplicación: un espejo en memoria de clientes, servicios,
// cotizaciones, proyectos y configuración. Reduce es el único punto de mutación.
package state

import (
	"time"

	"github.com/jhoicas/rentability-pro/internal/domain/entity"
)

// State es inmutable por convención: Reduce devuelve una copia y solo clona el mapa que cambia.
type State struct {
	Clients    map[string]entity.Client
	Services   map[string]entity.Service
	Quotes     map[string]entity.Quote // cabeceras, sin ítems
	Projects   map[string]entity.Project
	Settings   entity.Settings
	Version    uint64
	HydratedAt time.Time
}

// Empty estado inicial antes de hidratar.
func Empty() State {
	return State{
		Clients:  map[string]entity.Client{},
		Services: map[string]entity.Service{},
		Quotes:   map[string]entity.Quote{},
		Projects: map[string]entity.Project{},
		Settings: entity.DefaultSettings(),
	}
}

func cloneMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Reduce aplica la acción sobre s y devuelve el nuevo estado.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case Hydrated:
		next := Empty()
		for _, c := range a.Clients {
			next.Clients[c.ID] = *c
		}
		for _, sv := range a.Services {
			next.Services[sv.ID] = *sv
		}
		for _, q := range a.Quotes {
			h := *q
			h.Items = nil
			next.Quotes[q.ID] = h
		}
		for _, p := range a.Projects {
			next.Projects[p.ID] = *p
		}
		next.Settings = a.Settings.Clone()
		next.HydratedAt = a.At
		s = next

	case ClientSaved:
		s.Clients = cloneMap(s.Clients)
		s.Clients[a.Client.ID] = a.Client
	case ClientDeleted:
		s.Clients = cloneMap(s.Clients)
		delete(s.Clients, a.ID)

	case ServiceSaved:
		s.Services = cloneMap(s.Services)
		s.Services[a.Service.ID] = a.Service
	case ServiceDeleted:
		s.Services = cloneMap(s.Services)
		delete(s.Services, a.ID)

	case QuoteSaved:
		h := a.Quote
		h.Items = nil
		s.Quotes = cloneMap(s.Quotes)
		s.Quotes[h.ID] = h
	case QuoteDeleted:
		s.Quotes = cloneMap(s.Quotes)
		delete(s.Quotes, a.ID)

	case ProjectSaved:
		s.Projects = cloneMap(s.Projects)
		s.Projects[a.Project.ID] = a.Project

	case MapEntrySet:
		s.Settings = s.Settings.Clone()
		if m, ok := s.Settings.Map(a.Map); ok {
			m[a.Key] = a.Value
		}
	case MapEntryRemoved:
		s.Settings = s.Settings.Clone()
		if m, ok := s.Settings.Map(a.Map); ok {
			delete(m, a.Key)
		}
	case MapReplaced:
		s.Settings = s.Settings.Clone()
		s.Settings.SetMap(a.Map, a.Values.Clone())
	case CompanyUpdated:
		s.Settings = s.Settings.Clone()
		s.Settings.Company = a.Company
	case QuoteDefaultsUpdated:
		s.Settings = s.Settings.Clone()
		s.Settings.QuoteDefaults = a.Defaults

	default:
		return s
	}
	s.Version++
	return s
}
