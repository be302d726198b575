package domain

import (
	"errors"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInvalidTransition = errors.New("transición de estado no permitida")
	ErrNeedsConfirmation = errors.New("se requiere confirmación")
)

// ValidationError lista detallada de errores de validación (uno por campo o ítem).
// errors.Is(err, ErrInvalidInput) es verdadero para cualquier ValidationError.
type ValidationError struct {
	Errors []string
}

// NewValidationError construye el error; devuelve nil si la lista está vacía.
func NewValidationError(msgs []string) error {
	if len(msgs) == 0 {
		return nil
	}
	return &ValidationError{Errors: msgs}
}

func (e *ValidationError) Error() string {
	return "validación: " + strings.Join(e.Errors, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Validation acumula mensajes de validación en orden.
type Validation struct {
	msgs []string
}

// Check agrega msg si cond es falso.
func (v *Validation) Check(cond bool, msg string) {
	if !cond {
		v.msgs = append(v.msgs, msg)
	}
}

// Add agrega un mensaje sin condición.
func (v *Validation) Add(msg string) {
	v.msgs = append(v.msgs, msg)
}

// Err devuelve un *ValidationError o nil.
func (v *Validation) Err() error {
	return NewValidationError(v.msgs)
}

// WarningError advertencia no bloqueante: la operación procede si el usuario confirma.
type WarningError struct {
	Code    string
	Message string
}

func (e *WarningError) Error() string { return e.Message }

func (e *WarningError) Is(target error) bool {
	return target == ErrNeedsConfirmation
}
