package repository

import (
	"context"

	"github.com/jhoicas/rentability-pro/internal/domain/entity"
)

// SettingsRepository almacén de configuración clave/valor por espacio de nombres.
// Las escrituras de mapas son por diferencia: upsert de claves nuevas o cambiadas y borrado de las removidas.
type SettingsRepository interface {
	// Load lee toda la configuración; los campos ausentes toman los valores por defecto.
	Load(ctx context.Context) (*entity.Settings, error)
	UpsertEntries(ctx context.Context, mapName string, entries entity.AmountMap) error
	DeleteEntries(ctx context.Context, mapName string, keys []string) error
	SaveCompany(ctx context.Context, c entity.CompanyProfile) error
	SaveQuoteDefaults(ctx context.Context, d entity.QuoteDefaults) error
}
