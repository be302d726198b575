package state

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Loader lee el estado completo desde el almacén de datos.
type Loader interface {
	Load(ctx context.Context) (Hydrated, error)
}

// Store contenedor del estado. Lo crea cmd/api y se inyecta en los casos de uso.
type Store struct {
	mu    sync.RWMutex
	state State
	log   zerolog.Logger
}

// NewStore crea el store con el estado vacío.
func NewStore(log zerolog.Logger) *Store {
	return &Store{state: Empty(), log: log}
}

// Dispatch aplica la acción y devuelve el estado resultante.
func (s *Store) Dispatch(a Action) State {
	s.mu.Lock()
	s.state = Reduce(s.state, a)
	next := s.state
	s.mu.Unlock()

	s.log.Debug().Str("action", a.actionName()).Uint64("version", next.Version).Msg("state dispatch")
	return next
}

// Snapshot devuelve el estado actual. Los mapas no deben modificarse.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Hydrate recarga todo desde el almacén. Solo se usa al arrancar, al sincronizar y tras un error de escritura.
func (s *Store) Hydrate(ctx context.Context, loader Loader) error {
	h, err := loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("hidratar estado: %w", err)
	}
	if h.At.IsZero() {
		h.At = time.Now()
	}
	st := s.Dispatch(h)
	s.log.Info().
		Int("clientes", len(st.Clients)).
		Int("servicios", len(st.Services)).
		Int("cotizaciones", len(st.Quotes)).
		Int("proyectos", len(st.Projects)).
		Msg("estado hidratado")
	return nil
}
