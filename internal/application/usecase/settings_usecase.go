package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/rentability-pro/internal/application/dto"
	"github.com/jhoicas/rentability-pro/internal/application/state"
	"github.com/jhoicas/rentability-pro/internal/domain"
	"github.com/jhoicas/rentability-pro/internal/domain/entity"
	"github.com/jhoicas/rentability-pro/internal/domain/repository"
	"github.com/jhoicas/rentability-pro/pkg/nit"
)

// SettingsUseCase almacén de configuración. Las lecturas salen del store; las escrituras van al
// repositorio por diferencia y, si tienen éxito, se fusionan localmente.
type SettingsUseCase struct {
	repo     repository.SettingsRepository
	store    *state.Store
	loader   state.Loader
	repricer Repricer
	log      zerolog.Logger
}

// Repricer recalcula el precio sugerido de todos los servicios (ServiceUseCase).
type Repricer interface {
	RecalculateAll(ctx context.Context) (*dto.RecalculateResponse, error)
}

// NewSettingsUseCase construye el caso de uso. loader se usa para sincronizar y para recuperarse de escrituras fallidas.
func NewSettingsUseCase(repo repository.SettingsRepository, store *state.Store, loader state.Loader, log zerolog.Logger) *SettingsUseCase {
	return &SettingsUseCase{repo: repo, store: store, loader: loader, log: log}
}

// WithRepricer recalcula los precios de los servicios después de cada cambio en gastos generales.
func (uc *SettingsUseCase) WithRepricer(r Repricer) *SettingsUseCase {
	uc.repricer = r
	return uc
}

// reprice se ejecuta con la configuración ya guardada. Si falla, el cambio de configuración se conserva
// y los precios quedan pendientes de POST /api/servicios/recalcular.
func (uc *SettingsUseCase) reprice(ctx context.Context, mapName string) {
	if mapName != entity.MapOverhead || uc.repricer == nil {
		return
	}
	if _, err := uc.repricer.RecalculateAll(ctx); err != nil {
		uc.log.Warn().Err(err).Msg("no se pudieron recalcular los precios tras cambiar gastos generales")
	}
}

// Get configuración actual.
func (uc *SettingsUseCase) Get() dto.SettingsResponse {
	return dto.NewSettingsResponse(uc.store.Snapshot().Settings)
}

func (uc *SettingsUseCase) mapByName(name string) (entity.AmountMap, error) {
	if !entity.ValidMaps[name] {
		return nil, fmt.Errorf("%w: mapa de configuración desconocido %q", domain.ErrNotFound, name)
	}
	settings := uc.store.Snapshot().Settings
	m, _ := settings.Map(name)
	return m, nil
}

// recover re-hidrata el store tras una escritura fallida para no quedar con un espejo desalineado.
func (uc *SettingsUseCase) recover(ctx context.Context, cause error) {
	uc.log.Error().Err(cause).Msg("escritura de configuración fallida; re-hidratando estado")
	if err := uc.store.Hydrate(ctx, uc.loader); err != nil {
		uc.log.Error().Err(err).Msg("no se pudo re-hidratar el estado")
	}
}

// SetEntry agrega o actualiza una clave del mapa.
func (uc *SettingsUseCase) SetEntry(ctx context.Context, mapName, key string, value decimal.Decimal) (*dto.SettingsResponse, error) {
	current, err := uc.mapByName(mapName)
	if err != nil {
		return nil, err
	}
	next := current.Clone()
	if err := next.Set(key, value); err != nil {
		return nil, domain.NewValidationError([]string{err.Error()})
	}
	key = strings.TrimSpace(key)
	if err := uc.repo.UpsertEntries(ctx, mapName, entity.AmountMap{key: value}); err != nil {
		uc.recover(ctx, err)
		return nil, err
	}
	uc.store.Dispatch(state.MapEntrySet{Map: mapName, Key: key, Value: value})
	uc.reprice(ctx, mapName)
	out := uc.Get()
	return &out, nil
}

// RemoveEntry elimina una clave; domain.ErrNotFound si no existía.
func (uc *SettingsUseCase) RemoveEntry(ctx context.Context, mapName, key string) (*dto.SettingsResponse, error) {
	current, err := uc.mapByName(mapName)
	if err != nil {
		return nil, err
	}
	key = strings.TrimSpace(key)
	if _, ok := current[key]; !ok {
		return nil, fmt.Errorf("%w: la clave %q no existe en %s", domain.ErrNotFound, key, mapName)
	}
	if err := uc.repo.DeleteEntries(ctx, mapName, []string{key}); err != nil {
		uc.recover(ctx, err)
		return nil, err
	}
	uc.store.Dispatch(state.MapEntryRemoved{Map: mapName, Key: key})
	uc.reprice(ctx, mapName)
	out := uc.Get()
	return &out, nil
}

// ReplaceMap reemplaza el mapa completo persistiendo solo la diferencia.
func (uc *SettingsUseCase) ReplaceMap(ctx context.Context, mapName string, values map[string]decimal.Decimal) (*dto.SettingsResponse, error) {
	current, err := uc.mapByName(mapName)
	if err != nil {
		return nil, err
	}
	next := entity.AmountMap{}
	var v domain.Validation
	for k, val := range values {
		trimmed := strings.TrimSpace(k)
		if _, dup := next[trimmed]; dup {
			v.Add(fmt.Sprintf("la clave %q está repetida", trimmed))
			continue
		}
		if err := next.Set(k, val); err != nil {
			v.Add(err.Error())
		}
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	upserts, removals := current.Diff(next)
	if len(upserts) > 0 {
		if err := uc.repo.UpsertEntries(ctx, mapName, upserts); err != nil {
			uc.recover(ctx, err)
			return nil, err
		}
	}
	if len(removals) > 0 {
		if err := uc.repo.DeleteEntries(ctx, mapName, removals); err != nil {
			uc.recover(ctx, err)
			return nil, err
		}
	}
	uc.log.Debug().Str("mapa", mapName).Int("upserts", len(upserts)).Int("borrados", len(removals)).Msg("mapa de configuración guardado")
	uc.store.Dispatch(state.MapReplaced{Map: mapName, Values: next})
	uc.reprice(ctx, mapName)
	out := uc.Get()
	return &out, nil
}

// SaveCompany guarda el perfil de la empresa; el NIT, si viene, debe ser válido.
func (uc *SettingsUseCase) SaveCompany(ctx context.Context, in dto.CompanyProfileDTO) (*dto.SettingsResponse, error) {
	var v domain.Validation
	v.Check(strings.TrimSpace(in.Name) != "", "El nombre de la empresa es obligatorio")
	if in.NIT != "" {
		if err := nit.Validate(in.NIT); err != nil {
			v.Add("NIT inválido: " + err.Error())
		}
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	profile := entity.CompanyProfile{
		Name:    strings.TrimSpace(in.Name),
		NIT:     nit.Format(strings.TrimSpace(in.NIT)),
		Address: in.Address,
		City:    in.City,
		Phone:   in.Phone,
		Email:   in.Email,
		Website: in.Website,
		LogoURL: in.LogoURL,
	}
	if err := uc.repo.SaveCompany(ctx, profile); err != nil {
		uc.recover(ctx, err)
		return nil, err
	}
	uc.store.Dispatch(state.CompanyUpdated{Company: profile})
	out := uc.Get()
	return &out, nil
}

// SaveQuoteDefaults guarda validez, IVA, numeración y términos por defecto.
func (uc *SettingsUseCase) SaveQuoteDefaults(ctx context.Context, in dto.QuoteDefaultsDTO) (*dto.SettingsResponse, error) {
	var v domain.Validation
	v.Check(in.ValidityDays > 0, "Los días de validez deben ser mayores a 0")
	v.Check(!in.VATPercent.IsNegative(), "El IVA no puede ser negativo")
	v.Check(strings.TrimSpace(in.NumberPrefix) != "", "El prefijo de numeración es obligatorio")
	v.Check(in.NumberPadding > 0, "El relleno de numeración debe ser mayor a 0")
	if err := v.Err(); err != nil {
		return nil, err
	}
	d := entity.QuoteDefaults{
		ValidityDays:  in.ValidityDays,
		VATPercent:    in.VATPercent,
		NumberPrefix:  strings.TrimSpace(in.NumberPrefix),
		NumberPadding: in.NumberPadding,
		Terms:         in.Terms,
	}
	if err := uc.repo.SaveQuoteDefaults(ctx, d); err != nil {
		uc.recover(ctx, err)
		return nil, err
	}
	uc.store.Dispatch(state.QuoteDefaultsUpdated{Defaults: d})
	out := uc.Get()
	return &out, nil
}

// Sync re-hidrata todo el estado desde el almacén de datos.
func (uc *SettingsUseCase) Sync(ctx context.Context) (*dto.SyncResponse, error) {
	if err := uc.store.Hydrate(ctx, uc.loader); err != nil {
		return nil, err
	}
	st := uc.store.Snapshot()
	return &dto.SyncResponse{
		Settings: dto.NewSettingsResponse(st.Settings),
		Clients:  len(st.Clients),
		Services: len(st.Services),
		Quotes:   len(st.Quotes),
		Projects: len(st.Projects),
	}, nil
}
