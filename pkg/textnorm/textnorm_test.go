package textnorm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/pkg/textnorm"
)

func TestToASCII(t *testing.T) {
	cases := map[string]string{
		"Ácido Cítrico":   "Acido Citrico",
		"Azúcar refinada": "Azucar refinada",
		"Piña 500g":       "Pina 500g",
		"MP-0001":         "MP-0001",
		"Envase 1L ★":     "Envase 1L ?",
	}
	for in, want := range cases {
		assert.Equal(t, want, textnorm.ToASCII(in), in)
	}
}

func TestEncode_Windows1252(t *testing.T) {
	out, err := textnorm.Encode("windows-1252", "Año")
	require.NoError(t, err)
	assert.Equal(t, []byte{'A', 0xF1, 'o'}, out)
}

func TestEncode_CP850(t *testing.T) {
	out, err := textnorm.Encode("cp850", "ñ")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xA4}, out)
}

func TestEncode_PaginaDesconocida(t *testing.T) {
	_, err := textnorm.Encode("ebcdic", "x")
	assert.Error(t, err)
}
