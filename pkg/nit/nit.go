// Package nit valida y formatea el NIT colombiano (Número de Identificación Tributaria).
package nit

import (
	"fmt"
	"strings"
	"unicode"
)

// pesos del dígito de verificación (módulo 11 DIAN), aplicados de derecha a izquierda sobre la base.
var weights = [15]int{3, 7, 13, 17, 19, 23, 29, 37, 41, 43, 47, 53, 59, 67, 71}

// CheckDigit calcula el dígito de verificación de la base numérica (sin DV).
func CheckDigit(base string) (byte, error) {
	digits := onlyDigits(base)
	if len(digits) == 0 || len(digits) > len(weights) {
		return 0, fmt.Errorf("nit: base inválida %q", base)
	}
	sum := 0
	for i := 0; i < len(digits); i++ {
		d := int(digits[len(digits)-1-i] - '0')
		sum += d * weights[i]
	}
	r := sum % 11
	if r > 1 {
		r = 11 - r
	}
	return byte('0' + r), nil
}

// Validate acepta "900123456-7", "900.123.456-7" o solo la base "900123456".
// Cuando viene con guion, el dígito de verificación debe coincidir.
func Validate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("nit: vacío")
	}
	base, dv, hasDV := strings.Cut(s, "-")
	digits := onlyDigits(base)
	if len(digits) < 6 || len(digits) > 10 {
		return fmt.Errorf("nit: la base debe tener entre 6 y 10 dígitos, se encontraron %d", len(digits))
	}
	if !hasDV {
		return nil
	}
	dv = strings.TrimSpace(dv)
	if len(dv) != 1 || !unicode.IsDigit(rune(dv[0])) {
		return fmt.Errorf("nit: dígito de verificación inválido %q", dv)
	}
	expected, err := CheckDigit(digits)
	if err != nil {
		return err
	}
	if dv[0] != expected {
		return fmt.Errorf("nit: dígito de verificación esperado %c, recibido %c", expected, dv[0])
	}
	return nil
}

// Format devuelve el NIT con puntos de miles y DV: "900.123.456-7".
// Si la entrada no es un NIT válido se devuelve sin cambios.
func Format(s string) string {
	if Validate(s) != nil {
		return s
	}
	base, _, _ := strings.Cut(s, "-")
	digits := onlyDigits(base)
	dv, _ := CheckDigit(digits)
	return groupThousands(digits) + "-" + string(dv)
}

func groupThousands(d string) string {
	n := len(d)
	var b strings.Builder
	for i := 0; i < n; i++ {
		if i > 0 && (n-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteByte(d[i])
	}
	return b.String()
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
