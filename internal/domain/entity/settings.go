package entity

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Mapas de configuración clave→valor.
const (
	MapOverhead   = "gastos_generales" // porcentajes
	MapFixedCosts = "costos_fijos"     // montos mensuales
	MapTools      = "herramientas"     // montos
)

// ValidMaps nombres de mapas admitidos por el almacén de configuración.
var ValidMaps = map[string]bool{MapOverhead: true, MapFixedCosts: true, MapTools: true}

// AmountMap mapa clave→valor no negativo con alta/baja explícitas.
type AmountMap map[string]decimal.Decimal

// Set agrega o reemplaza una clave. La clave se normaliza con TrimSpace.
func (m AmountMap) Set(key string, value decimal.Decimal) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("la clave no puede estar vacía")
	}
	if value.IsNegative() {
		return fmt.Errorf("el valor de %q no puede ser negativo", key)
	}
	m[key] = value
	return nil
}

// Add agrega una clave nueva; falla si ya existe.
func (m AmountMap) Add(key string, value decimal.Decimal) error {
	if _, ok := m[strings.TrimSpace(key)]; ok {
		return fmt.Errorf("la clave %q ya existe", strings.TrimSpace(key))
	}
	return m.Set(key, value)
}

// Remove elimina la clave; devuelve false si no existía.
func (m AmountMap) Remove(key string) bool {
	key = strings.TrimSpace(key)
	if _, ok := m[key]; !ok {
		return false
	}
	delete(m, key)
	return true
}

// Sum suma todos los valores.
func (m AmountMap) Sum() decimal.Decimal {
	total := decimal.Zero
	for _, v := range m {
		total = total.Add(v)
	}
	return total
}

// Keys devuelve las claves ordenadas.
func (m AmountMap) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone copia superficial.
func (m AmountMap) Clone() AmountMap {
	out := make(AmountMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Diff compara m (anterior) con next y devuelve las claves a escribir (nuevas o cambiadas) y a borrar.
func (m AmountMap) Diff(next AmountMap) (upserts AmountMap, removals []string) {
	upserts = AmountMap{}
	for k, v := range next {
		if old, ok := m[k]; !ok || !old.Equal(v) {
			upserts[k] = v
		}
	}
	for _, k := range m.Keys() {
		if _, ok := next[k]; !ok {
			removals = append(removals, k)
		}
	}
	return upserts, removals
}

// CompanyProfile datos de la empresa para encabezados de documentos.
type CompanyProfile struct {
	Name    string
	NIT     string
	Address string
	City    string
	Phone   string
	Email   string
	Website string
	LogoURL string
}

// QuoteDefaults valores por defecto de las cotizaciones.
type QuoteDefaults struct {
	ValidityDays  int
	VATPercent    decimal.Decimal
	NumberPrefix  string
	NumberPadding int
	Terms         string
}

// FormatNumber construye el consecutivo visible, ej. "COT-0007".
func (d QuoteDefaults) FormatNumber(seq int) string {
	pad := d.NumberPadding
	if pad <= 0 {
		pad = 4
	}
	prefix := d.NumberPrefix
	if prefix == "" {
		prefix = "COT"
	}
	return fmt.Sprintf("%s-%0*d", prefix, pad, seq)
}

// Settings configuración completa (Configuracion).
type Settings struct {
	Overhead      AmountMap
	FixedCosts    AmountMap
	Tools         AmountMap
	Company       CompanyProfile
	QuoteDefaults QuoteDefaults
}

// DefaultSettings valores iniciales cuando la tabla está vacía (IVA Colombia 19%).
func DefaultSettings() Settings {
	return Settings{
		Overhead:   AmountMap{},
		FixedCosts: AmountMap{},
		Tools:      AmountMap{},
		QuoteDefaults: QuoteDefaults{
			ValidityDays:  30,
			VATPercent:    decimal.NewFromInt(19),
			NumberPrefix:  "COT",
			NumberPadding: 4,
		},
	}
}

// Map devuelve el mapa por nombre.
func (s *Settings) Map(name string) (AmountMap, bool) {
	switch name {
	case MapOverhead:
		return s.Overhead, true
	case MapFixedCosts:
		return s.FixedCosts, true
	case MapTools:
		return s.Tools, true
	}
	return nil, false
}

// SetMap reemplaza el mapa por nombre.
func (s *Settings) SetMap(name string, m AmountMap) {
	switch name {
	case MapOverhead:
		s.Overhead = m
	case MapFixedCosts:
		s.FixedCosts = m
	case MapTools:
		s.Tools = m
	}
}

// Clone copia profunda de los mapas.
func (s Settings) Clone() Settings {
	out := s
	out.Overhead = s.Overhead.Clone()
	out.FixedCosts = s.FixedCosts.Clone()
	out.Tools = s.Tools.Clone()
	return out
}
