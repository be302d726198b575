package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/rentability-pro/internal/application/dto"
	"github.com/jhoicas/rentability-pro/internal/application/state"
	"github.com/jhoicas/rentability-pro/internal/domain"
	"github.com/jhoicas/rentability-pro/internal/domain/entity"
	"github.com/jhoicas/rentability-pro/internal/domain/repository"
	"github.com/jhoicas/rentability-pro/pkg/nit"
)

// ClientUseCase CRUD de clientes.
type ClientUseCase struct {
	repo  repository.ClientRepository
	store *state.Store
	log   zerolog.Logger
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(repo repository.ClientRepository, store *state.Store, log zerolog.Logger) *ClientUseCase {
	return &ClientUseCase{repo: repo, store: store, log: log}
}

func validateClient(in dto.ClientRequest) error {
	var v domain.Validation
	v.Check(strings.TrimSpace(in.Name) != "", "El nombre del cliente es obligatorio")
	if in.TaxID != "" {
		if err := nit.Validate(in.TaxID); err != nil {
			v.Add("NIT inválido: " + err.Error())
		}
	}
	return v.Err()
}

func applyClient(c *entity.Client, in dto.ClientRequest) {
	c.Name = strings.TrimSpace(in.Name)
	c.Company = strings.TrimSpace(in.Company)
	c.TaxID = strings.TrimSpace(in.TaxID)
	c.ContactName = in.ContactName
	c.Email = strings.TrimSpace(in.Email)
	c.Phone = in.Phone
	c.Address = in.Address
	c.City = in.City
	c.Notes = in.Notes
}

// Create registra un cliente.
func (uc *ClientUseCase) Create(ctx context.Context, userID string, in dto.ClientRequest) (*dto.ClientResponse, error) {
	if err := validateClient(in); err != nil {
		return nil, err
	}
	now := time.Now()
	c := &entity.Client{ID: uuid.New().String(), CreatedBy: userID, CreatedAt: now, UpdatedAt: now}
	applyClient(c, in)
	if err := uc.repo.Create(ctx, c); err != nil {
		uc.log.Error().Err(err).Msg("crear cliente")
		return nil, err
	}
	uc.store.Dispatch(state.ClientSaved{Client: *c})
	out := dto.NewClientResponse(c)
	return &out, nil
}

// GetByID devuelve domain.ErrNotFound si no existe.
func (uc *ClientUseCase) GetByID(ctx context.Context, id string) (*dto.ClientResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	out := dto.NewClientResponse(c)
	return &out, nil
}

// List busca por nombre, empresa o NIT.
func (uc *ClientUseCase) List(ctx context.Context, search string, page dto.PageRequest) ([]dto.ClientResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, repository.ClientFilter{Search: strings.TrimSpace(search), Limit: page.Limit, Offset: page.Offset})
	if err != nil {
		return nil, err
	}
	out := make([]dto.ClientResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.NewClientResponse(c))
	}
	return out, nil
}

// Update reemplaza los datos de contacto.
func (uc *ClientUseCase) Update(ctx context.Context, id string, in dto.ClientRequest) (*dto.ClientResponse, error) {
	if err := validateClient(in); err != nil {
		return nil, err
	}
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	applyClient(c, in)
	c.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, c); err != nil {
		uc.log.Error().Err(err).Str("cliente_id", id).Msg("actualizar cliente")
		return nil, err
	}
	uc.store.Dispatch(state.ClientSaved{Client: *c})
	out := dto.NewClientResponse(c)
	return &out, nil
}

// Delete falla con domain.ErrConflict si el cliente tiene cotizaciones o proyectos.
func (uc *ClientUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.store.Dispatch(state.ClientDeleted{ID: id})
	return nil
}
