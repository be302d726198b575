package auth

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/rentability-pro/internal/domain"
	"github.com/jhoicas/rentability-pro/pkg/jwt"
)

const secret = "super-secret-jwt-token-with-at-least-32-characters"

func newAuth() *AuthUseCase {
	return NewAuthUseCase(JWTConfig{Secret: secret, Audience: "authenticated"}, zerolog.Nop())
}

func TestAuthenticate(t *testing.T) {
	tok, err := jwt.Generate(secret, "user-1", "ana@example.com", "authenticated", 5)
	require.NoError(t, err)

	id, err := newAuth().Authenticate("Bearer " + tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", id.UserID)

	me, err := newAuth().Me(id)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", me.Email)
	assert.Equal(t, "authenticated", me.Role)
}

func TestAuthenticate_Rechazos(t *testing.T) {
	expired, err := jwt.Generate(secret, "user-1", "", "authenticated", -1)
	require.NoError(t, err)
	anon, err := jwt.Generate(secret, "user-1", "", "anon", 5)
	require.NoError(t, err)

	for name, header := range map[string]string{
		"vacío":          "",
		"sin bearer":     expired,
		"expirado":       "Bearer " + expired,
		"otra audiencia": "Bearer " + anon,
		"basura":         "Bearer abc.def.ghi",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := newAuth().Authenticate(header)
			assert.ErrorIs(t, err, domain.ErrUnauthorized)
		})
	}
}

func TestLogout(t *testing.T) {
	out := newAuth().Logout(&jwt.Identity{UserID: "user-1"})
	assert.Equal(t, "Sesión cerrada", out.Message)

	_, err := newAuth().Me(nil)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
