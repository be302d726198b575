package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/rentability-pro/pkg/jwt"
)

const (
	testSecret = "test-secret-key-for-unit-tests"
	testUserID = "00000000-0000-0000-0000-000000000001"
)

func TestGenerateAndParse(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testUserID, "ana@example.com", "authenticated", 60)
	require.NoError(t, err)

	id, err := pkgjwt.Parse(testSecret, tok, pkgjwt.VerifyOptions{Audience: "authenticated"})
	require.NoError(t, err)
	assert.Equal(t, testUserID, id.UserID)
	assert.Equal(t, "ana@example.com", id.Email)
	assert.Equal(t, "authenticated", id.Role)
}

func TestParse_TokenExpirado(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testUserID, "", "", -1)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testSecret, tok, pkgjwt.VerifyOptions{})
	assert.Error(t, err)
}

func TestParse_SecretIncorrecto(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testUserID, "", "", 60)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secret", tok, pkgjwt.VerifyOptions{})
	assert.Error(t, err)
}

func TestParse_AudienceDistinta(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testUserID, "", "anon", 60)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testSecret, tok, pkgjwt.VerifyOptions{Audience: "authenticated"})
	assert.Error(t, err)
}

func TestParse_SinSubject(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, "", "", "", 60)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testSecret, tok, pkgjwt.VerifyOptions{})
	assert.Error(t, err)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", testUserID, "", "", 60)
	assert.Error(t, err)
}
