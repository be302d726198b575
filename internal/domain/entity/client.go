package entity

import "time"

// Client representa un cliente del negocio (registro de contacto, sin ciclo de vida).
type Client struct {
	ID          string
	Name        string
	Company     string
	TaxID       string // NIT o cédula, opcional
	ContactName string
	Email       string
	Phone       string
	Address     string
	City        string
	Notes       string
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
