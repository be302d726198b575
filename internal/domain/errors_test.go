package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError_EsErrInvalidInput(t *testing.T) {
	var v Validation
	v.Check(false, "ítem 1: cantidad debe ser mayor a 0")
	v.Check(true, "no aparece")
	v.Add("cliente requerido")

	err := v.Err()
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorIs(t, fmt.Errorf("crear: %w", err), ErrInvalidInput)

	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))
	assert.Equal(t, []string{"ítem 1: cantidad debe ser mayor a 0", "cliente requerido"}, ve.Errors)
}

func TestValidation_SinErrores(t *testing.T) {
	var v Validation
	v.Check(true, "x")
	assert.NoError(t, v.Err())
}

func TestWarningError(t *testing.T) {
	err := &WarningError{Code: "PERCENT_MISMATCH", Message: "suma 95%"}
	assert.ErrorIs(t, err, ErrNeedsConfirmation)
	assert.NotErrorIs(t, err, ErrInvalidInput)
}
