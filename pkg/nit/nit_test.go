package nit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/rentability-pro/pkg/nit"
)

func TestCheckDigit_NITsConocidos(t *testing.T) {
	cases := map[string]byte{
		"800197268": '4', // DIAN
		"860002964": '4',
		"900123456": '8',
	}
	for base, want := range cases {
		got, err := nit.CheckDigit(base)
		require.NoError(t, err, base)
		assert.Equal(t, string(want), string(got), base)
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, nit.Validate("800.197.268-4"))
	assert.NoError(t, nit.Validate("800197268"))
	assert.Error(t, nit.Validate("800197268-5"))
	assert.Error(t, nit.Validate("123"))
	assert.Error(t, nit.Validate(""))
	assert.Error(t, nit.Validate("800197268-x"))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "800.197.268-4", nit.Format("800197268"))
	assert.Equal(t, "900.123.456-8", nit.Format("900123456-8"))
	assert.Equal(t, "abc", nit.Format("abc"))
}
