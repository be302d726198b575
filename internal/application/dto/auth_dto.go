package dto

// MeResponse usuario actual según el token del proveedor de identidad.
type MeResponse struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
	Role  string `json:"rol,omitempty"`
}
