package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/rentability-pro/internal/domain"
)

// RequestValidator valida los DTOs de entrada con las etiquetas `validate`.
// Los campos se nombran por su etiqueta json para que los mensajes coincidan con el body.
type RequestValidator struct {
	v *validator.Validate
}

// NewRequestValidator construye el validador.
func NewRequestValidator() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return &RequestValidator{v: v}
}

// Validate devuelve un *domain.ValidationError con un mensaje por campo, o nil.
func (rv *RequestValidator) Validate(s any) error {
	err := rv.v.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, message(fe))
	}
	return domain.NewValidationError(msgs)
}

// bind parsea el body JSON y lo valida.
func (rv *RequestValidator) bind(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return errBadBody
	}
	return rv.Validate(out)
}

// fieldPath quita el nombre del struct raíz: "cuotas[0].fecha_vencimiento".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	field := fieldPath(fe)
	switch fe.Tag() {
	case "required":
		return field + " es requerido"
	case "max":
		return fmt.Sprintf("%s no debe superar %s caracteres", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s debe ser al menos %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s debe ser mayor o igual a %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s debe ser menor o igual a %s", field, fe.Param())
	case "email":
		return field + " debe ser un email válido"
	case "url":
		return field + " debe ser una URL válida"
	case "datetime":
		return field + " debe tener formato YYYY-MM-DD"
	case "oneof":
		return fmt.Sprintf("%s debe ser uno de: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "hexcolor":
		return field + " debe ser un color hexadecimal"
	}
	return field + " no es válido"
}

// bindOptional igual que bind pero acepta un body vacío.
func (rv *RequestValidator) bindOptional(c *fiber.Ctx, out any) error {
	if len(c.Body()) == 0 {
		return rv.Validate(out)
	}
	return rv.bind(c, out)
}
