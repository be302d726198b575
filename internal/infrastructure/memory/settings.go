package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/rentability-pro/internal/domain/entity"
	"github.com/jhoicas/rentability-pro/internal/domain/repository"
)

var _ repository.SettingsRepository = (*SettingsRepo)(nil)

// SettingsRepo configuración en memoria.
type SettingsRepo struct{ db *DB }

// NewSettingsRepository construye el repositorio.
func NewSettingsRepository(db *DB) *SettingsRepo { return &SettingsRepo{db: db} }

func (r *SettingsRepo) Load(_ context.Context) (*entity.Settings, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	s := r.db.settings.Clone()
	return &s, nil
}

func (r *SettingsRepo) UpsertEntries(_ context.Context, mapName string, entries entity.AmountMap) error {
	defer r.db.lock(false)()
	m, ok := r.db.settings.Map(mapName)
	if !ok {
		return fmt.Errorf("mapa de configuración desconocido: %s", mapName)
	}
	m = m.Clone()
	for k, v := range entries {
		m[k] = v
	}
	r.db.settings.SetMap(mapName, m)
	return nil
}

func (r *SettingsRepo) DeleteEntries(_ context.Context, mapName string, keys []string) error {
	defer r.db.lock(false)()
	m, ok := r.db.settings.Map(mapName)
	if !ok {
		return fmt.Errorf("mapa de configuración desconocido: %s", mapName)
	}
	m = m.Clone()
	for _, k := range keys {
		delete(m, k)
	}
	r.db.settings.SetMap(mapName, m)
	return nil
}

func (r *SettingsRepo) SaveCompany(_ context.Context, c entity.CompanyProfile) error {
	defer r.db.lock(false)()
	r.db.settings.Company = c
	return nil
}

func (r *SettingsRepo) SaveQuoteDefaults(_ context.Context, d entity.QuoteDefaults) error {
	defer r.db.lock(false)()
	r.db.settings.QuoteDefaults = d
	return nil
}

// SeedDefaults carga las categorías de desembolso iniciales (las mismas de la migración).
func (db *DB) SeedDefaults(now time.Time) {
	db.mu.Lock()
	defer db.mu.Unlock()
	seed := []entity.ExpenseCategory{
		{Name: "Materiales", Description: "Insumos y materiales del proyecto", Color: "#0ea5e9"},
		{Name: "Mano de obra", Description: "Contratistas y freelancers", Color: "#f59e0b"},
		{Name: "Transporte", Description: "Desplazamientos y envíos", Color: "#10b981"},
		{Name: "Software", Description: "Licencias y suscripciones", Color: "#8b5cf6"},
		{Name: "Otros", Description: "Gastos varios", Color: "#64748b"},
	}
	for _, c := range seed {
		c.ID = uuid.New().String()
		c.Active = true
		c.CreatedAt = now
		db.categories[c.ID] = c
	}
}
