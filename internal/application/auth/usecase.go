// Package auth verificación de la sesión emitida por el proveedor de identidad (Supabase Auth).
// La API no registra usuarios ni emite tokens.
package auth

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jhoicas/rentability-pro/internal/application/dto"
	"github.com/jhoicas/rentability-pro/internal/domain"
	"github.com/jhoicas/rentability-pro/pkg/jwt"
)

// JWTConfig parámetros de verificación del access token.
type JWTConfig struct {
	Secret   string
	Issuer   string
	Audience string
}

// AuthUseCase valida tokens y expone el usuario actual.
type AuthUseCase struct {
	jwtCfg JWTConfig
	log    zerolog.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(jwtCfg JWTConfig, log zerolog.Logger) *AuthUseCase {
	return &AuthUseCase{jwtCfg: jwtCfg, log: log}
}

// Authenticate valida el header Authorization ("Bearer <token>") y devuelve la identidad.
// Cualquier fallo se reporta como domain.ErrUnauthorized.
func (uc *AuthUseCase) Authenticate(header string) (*jwt.Identity, error) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return nil, fmt.Errorf("%w: falta el token Bearer", domain.ErrUnauthorized)
	}
	id, err := jwt.Parse(uc.jwtCfg.Secret, strings.TrimSpace(parts[1]), jwt.VerifyOptions{
		Issuer:   uc.jwtCfg.Issuer,
		Audience: uc.jwtCfg.Audience,
	})
	if err != nil {
		uc.log.Debug().Err(err).Msg("token rechazado")
		return nil, fmt.Errorf("%w: token inválido o expirado", domain.ErrUnauthorized)
	}
	return id, nil
}

// Me usuario actual.
func (uc *AuthUseCase) Me(id *jwt.Identity) (*dto.MeResponse, error) {
	if id == nil {
		return nil, domain.ErrUnauthorized
	}
	return &dto.MeResponse{ID: id.UserID, Email: id.Email, Role: id.Role}, nil
}

// Logout acuse opaco: la sesión se revoca en el proveedor, la API no guarda estado.
func (uc *AuthUseCase) Logout(id *jwt.Identity) dto.MessageResponse {
	if id != nil {
		uc.log.Info().Str("user_id", id.UserID).Msg("cierre de sesión")
	}
	return dto.MessageResponse{Message: "Sesión cerrada"}
}
