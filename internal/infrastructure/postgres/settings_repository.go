package postgres

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/rentability-pro/internal/domain/entity"
	"github.com/jhoicas/rentability-pro/internal/domain/repository"
)

var _ repository.SettingsRepository = (*SettingsRepo)(nil)

// Categorías de texto de la tabla configuracion.
const (
	categoryCompany = "empresa"
	categoryQuotes  = "cotizaciones"
)

// SettingsRepo implementación de SettingsRepository sobre la tabla configuracion (categoria, clave, valor).
type SettingsRepo struct {
	q Querier
}

// NewSettingsRepository construye el adaptador.
func NewSettingsRepository(q Querier) *SettingsRepo {
	return &SettingsRepo{q: q}
}

// Load lee todas las filas y las reparte en mapas, perfil de empresa y valores por defecto.
// Los valores numéricos que no se pueden interpretar se ignoran.
func (r *SettingsRepo) Load(ctx context.Context) (*entity.Settings, error) {
	rows, err := r.q.Query(ctx, `SELECT categoria, clave, valor FROM configuracion ORDER BY categoria, clave`)
	if err != nil {
		return nil, fmt.Errorf("load configuración: %w", err)
	}
	defer rows.Close()

	s := entity.DefaultSettings()
	company := map[string]string{}
	quotes := map[string]string{}
	for rows.Next() {
		var cat, key, val string
		if err := rows.Scan(&cat, &key, &val); err != nil {
			return nil, fmt.Errorf("scan configuración: %w", err)
		}
		switch cat {
		case categoryCompany:
			company[key] = val
		case categoryQuotes:
			quotes[key] = val
		default:
			m, ok := s.Map(cat)
			if !ok {
				continue
			}
			if d, err := decimal.NewFromString(val); err == nil {
				m[key] = d
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	s.Company = companyFromKV(company)
	s.QuoteDefaults = quoteDefaultsFromKV(quotes, s.QuoteDefaults)
	return &s, nil
}

// UpsertEntries escribe las claves del mapa (nuevas o cambiadas).
func (r *SettingsRepo) UpsertEntries(ctx context.Context, mapName string, entries entity.AmountMap) error {
	for _, k := range entries.Keys() {
		if err := r.upsert(ctx, mapName, k, entries[k].String()); err != nil {
			return err
		}
	}
	return nil
}

// DeleteEntries borra claves del mapa.
func (r *SettingsRepo) DeleteEntries(ctx context.Context, mapName string, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := r.q.Exec(ctx, `DELETE FROM configuracion WHERE categoria = $1 AND clave = ANY($2)`, mapName, keys)
	if err != nil {
		return fmt.Errorf("delete configuración %s: %w", mapName, err)
	}
	return nil
}

// SaveCompany reescribe el perfil de la empresa.
func (r *SettingsRepo) SaveCompany(ctx context.Context, c entity.CompanyProfile) error {
	return r.saveKV(ctx, categoryCompany, companyToKV(c))
}

// SaveQuoteDefaults reescribe los valores por defecto de cotizaciones.
func (r *SettingsRepo) SaveQuoteDefaults(ctx context.Context, d entity.QuoteDefaults) error {
	return r.saveKV(ctx, categoryQuotes, quoteDefaultsToKV(d))
}

func (r *SettingsRepo) saveKV(ctx context.Context, cat string, kv [][2]string) error {
	for _, e := range kv {
		if err := r.upsert(ctx, cat, e[0], e[1]); err != nil {
			return err
		}
	}
	return nil
}

func (r *SettingsRepo) upsert(ctx context.Context, cat, key, val string) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO configuracion (categoria, clave, valor, updated_at) VALUES ($1, $2, $3, $4)
		ON CONFLICT (categoria, clave) DO UPDATE SET valor = EXCLUDED.valor, updated_at = EXCLUDED.updated_at`,
		cat, key, val, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("upsert configuración %s.%s: %w", cat, key, err)
	}
	return nil
}

func companyToKV(c entity.CompanyProfile) [][2]string {
	return [][2]string{
		{"nombre", c.Name}, {"nit", c.NIT}, {"direccion", c.Address}, {"ciudad", c.City},
		{"telefono", c.Phone}, {"email", c.Email}, {"sitio_web", c.Website}, {"logo_url", c.LogoURL},
	}
}

func companyFromKV(kv map[string]string) entity.CompanyProfile {
	return entity.CompanyProfile{
		Name: kv["nombre"], NIT: kv["nit"], Address: kv["direccion"], City: kv["ciudad"],
		Phone: kv["telefono"], Email: kv["email"], Website: kv["sitio_web"], LogoURL: kv["logo_url"],
	}
}

func quoteDefaultsToKV(d entity.QuoteDefaults) [][2]string {
	return [][2]string{
		{"validez_dias", strconv.Itoa(d.ValidityDays)},
		{"iva", d.VATPercent.String()},
		{"prefijo", d.NumberPrefix},
		{"relleno", strconv.Itoa(d.NumberPadding)},
		{"terminos", d.Terms},
	}
}

func quoteDefaultsFromKV(kv map[string]string, def entity.QuoteDefaults) entity.QuoteDefaults {
	out := def
	if n, err := strconv.Atoi(kv["validez_dias"]); err == nil {
		out.ValidityDays = n
	}
	if d, err := decimal.NewFromString(kv["iva"]); err == nil {
		out.VATPercent = d
	}
	if v, ok := kv["prefijo"]; ok && v != "" {
		out.NumberPrefix = v
	}
	if n, err := strconv.Atoi(kv["relleno"]); err == nil {
		out.NumberPadding = n
	}
	if v, ok := kv["terminos"]; ok {
		out.Terms = v
	}
	return out
}
