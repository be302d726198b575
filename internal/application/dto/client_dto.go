package dto

import "time"

// ClientRequest body para POST/PUT /api/clientes.
type ClientRequest struct {
	Name        string `json:"nombre" validate:"required,max=200"`
	Company     string `json:"empresa,omitempty" validate:"max=200"`
	TaxID       string `json:"nit,omitempty" validate:"max=20"`
	ContactName string `json:"contacto,omitempty" validate:"max=200"`
	Email       string `json:"email,omitempty" validate:"omitempty,email"`
	Phone       string `json:"telefono,omitempty" validate:"max=50"`
	Address     string `json:"direccion,omitempty"`
	City        string `json:"ciudad,omitempty"`
	Notes       string `json:"notas,omitempty"`
}

// ClientResponse cliente en respuestas.
type ClientResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"nombre"`
	Company     string    `json:"empresa,omitempty"`
	TaxID       string    `json:"nit,omitempty"`
	ContactName string    `json:"contacto,omitempty"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"telefono,omitempty"`
	Address     string    `json:"direccion,omitempty"`
	City        string    `json:"ciudad,omitempty"`
	Notes       string    `json:"notas,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
