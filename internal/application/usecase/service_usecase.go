package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/rentability-pro/internal/application/dto"
	"github.com/jhoicas/rentability-pro/internal/application/state"
	"github.com/jhoicas/rentability-pro/internal/domain"
	"github.com/jhoicas/rentability-pro/internal/domain/entity"
	"github.com/jhoicas/rentability-pro/internal/domain/pricing"
	"github.com/jhoicas/rentability-pro/internal/domain/repository"
)

// ServiceUseCase catálogo de servicios con cálculo de precio sugerido.
// Los porcentajes de gastos generales se leen del store de configuración.
type ServiceUseCase struct {
	repo  repository.ServiceRepository
	store *state.Store
	log   zerolog.Logger
}

// NewServiceUseCase construye el caso de uso.
func NewServiceUseCase(repo repository.ServiceRepository, store *state.Store, log zerolog.Logger) *ServiceUseCase {
	return &ServiceUseCase{repo: repo, store: store, log: log}
}

func (uc *ServiceUseCase) overhead() entity.AmountMap {
	return uc.store.Snapshot().Settings.Overhead
}

func validateService(in dto.ServiceRequest) error {
	var v domain.Validation
	v.Check(strings.TrimSpace(in.Name) != "", "El nombre del servicio es obligatorio")
	if err := pricing.Validate(in.BaseCost, in.FixedOverhead, in.Margin); err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			for _, m := range ve.Errors {
				v.Add(m)
			}
		}
	}
	if in.Price != nil {
		v.Check(!in.Price.IsNegative(), "precio no puede ser negativo")
	}
	return v.Err()
}

// Create registra el servicio con su precio sugerido; sin precio explícito el de lista es el sugerido.
func (uc *ServiceUseCase) Create(ctx context.Context, in dto.ServiceRequest) (*dto.ServiceResponse, error) {
	if err := validateService(in); err != nil {
		return nil, err
	}
	now := time.Now()
	s := &entity.Service{
		ID:            uuid.New().String(),
		Name:          strings.TrimSpace(in.Name),
		Category:      strings.TrimSpace(in.Category),
		Description:   in.Description,
		Unit:          in.Unit,
		BaseCost:      in.BaseCost,
		FixedOverhead: in.FixedOverhead,
		Margin:        in.Margin,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if in.Active != nil {
		s.Active = *in.Active
	}
	pricing.Apply(s, uc.overhead())
	if in.Price != nil && !in.Price.IsZero() {
		s.Price = *in.Price
	}
	if err := uc.repo.Create(ctx, s); err != nil {
		uc.log.Error().Err(err).Msg("crear servicio")
		return nil, err
	}
	uc.store.Dispatch(state.ServiceSaved{Service: *s})
	out := dto.NewServiceResponse(s)
	return &out, nil
}

// GetByID devuelve domain.ErrNotFound si no existe.
func (uc *ServiceUseCase) GetByID(ctx context.Context, id string) (*dto.ServiceResponse, error) {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	out := dto.NewServiceResponse(s)
	return &out, nil
}

// List filtra por texto, categoría y activos.
func (uc *ServiceUseCase) List(ctx context.Context, f repository.ServiceFilter) ([]dto.ServiceResponse, error) {
	list, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ServiceResponse, 0, len(list))
	for _, s := range list {
		out = append(out, dto.NewServiceResponse(s))
	}
	return out, nil
}

// Update reemplaza los campos editables y recalcula el precio sugerido.
func (uc *ServiceUseCase) Update(ctx context.Context, id string, in dto.ServiceRequest) (*dto.ServiceResponse, error) {
	if err := validateService(in); err != nil {
		return nil, err
	}
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	s.Name = strings.TrimSpace(in.Name)
	s.Category = strings.TrimSpace(in.Category)
	s.Description = in.Description
	s.Unit = in.Unit
	s.BaseCost = in.BaseCost
	s.FixedOverhead = in.FixedOverhead
	s.Margin = in.Margin
	if in.Active != nil {
		s.Active = *in.Active
	}
	pricing.Apply(s, uc.overhead())
	if in.Price != nil {
		// precio 0 vuelve a atar el precio de lista al sugerido
		s.Price = *in.Price
		if s.Price.IsZero() {
			s.Price = s.SuggestedPrice
		}
	}
	s.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, s); err != nil {
		uc.log.Error().Err(err).Str("servicio_id", id).Msg("actualizar servicio")
		return nil, err
	}
	uc.store.Dispatch(state.ServiceSaved{Service: *s})
	out := dto.NewServiceResponse(s)
	return &out, nil
}

// Delete falla con domain.ErrConflict si el servicio aparece en cotizaciones.
func (uc *ServiceUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.store.Dispatch(state.ServiceDeleted{ID: id})
	return nil
}

// CalculatePrice vista previa del desglose sin persistir.
func (uc *ServiceUseCase) CalculatePrice(in dto.PriceCalcRequest) (*dto.PriceCalcResponse, error) {
	if err := pricing.Validate(in.BaseCost, in.FixedOverhead, in.Margin); err != nil {
		return nil, err
	}
	b := pricing.Calculate(in.BaseCost, in.FixedOverhead, in.Margin, uc.overhead())
	return &dto.PriceCalcResponse{
		TotalCost:        b.TotalCost,
		OverheadPercent:  b.OverheadPercent,
		OverheadValue:    b.OverheadValue.Round(2),
		CostWithOverhead: b.CostWithOverhead.Round(2),
		MarginValue:      b.MarginValue.Round(2),
		SuggestedPrice:   b.Price,
	}, nil
}

// RecalculateAll recalcula el precio sugerido de todo el catálogo con los gastos generales vigentes.
// Solo persiste los servicios cuyo precio cambió.
func (uc *ServiceUseCase) RecalculateAll(ctx context.Context) (*dto.RecalculateResponse, error) {
	list, err := uc.repo.List(ctx, repository.ServiceFilter{})
	if err != nil {
		return nil, err
	}
	overhead := uc.overhead()
	now := time.Now()
	res := &dto.RecalculateResponse{Total: len(list)}
	for _, s := range list {
		prevSuggested, prevPrice := s.SuggestedPrice, s.Price
		pricing.Apply(s, overhead)
		if s.SuggestedPrice.Equal(prevSuggested) && s.Price.Equal(prevPrice) {
			continue
		}
		s.UpdatedAt = now
		if err := uc.repo.Update(ctx, s); err != nil {
			uc.log.Error().Err(err).Str("servicio_id", s.ID).Msg("recalcular servicio")
			return nil, err
		}
		uc.store.Dispatch(state.ServiceSaved{Service: *s})
		res.Updated++
	}
	uc.log.Info().Int("actualizados", res.Updated).Int("total", res.Total).Msg("precios recalculados")
	return res, nil
}
