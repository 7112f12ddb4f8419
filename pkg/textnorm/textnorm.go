// Package textnorm normaliza texto para impresoras: plegado a ASCII para simbologías lineales
// y codificación a la página de códigos de la impresora para etiquetas de texto crudo.
package textnorm

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ToASCII quita diacríticos ("Ácido Cítrico" -> "Acido Citrico") y reemplaza por '?' lo que
// siga fuera de ASCII imprimible. CODE128/CODE39 no admiten otros caracteres.
func ToASCII(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		switch {
		case r == 'ñ':
			b.WriteRune('n')
		case r == 'Ñ':
			b.WriteRune('N')
		case r >= 0x20 && r < 0x7f:
			b.WriteRune(r)
		default:
			b.WriteRune('?')
		}
	}
	return b.String()
}

// CodePage devuelve el encoding para el nombre de página de códigos configurado.
func CodePage(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	case "cp850", "ibm850":
		return charmap.CodePage850, nil
	case "cp437", "ibm437":
		return charmap.CodePage437, nil
	case "iso-8859-1", "latin1":
		return charmap.ISO8859_1, nil
	case "utf-8", "utf8":
		return encoding.Nop, nil
	default:
		return nil, fmt.Errorf("textnorm: página de códigos no soportada: %q", name)
	}
}

// Encode convierte s a la página de códigos indicada. Los caracteres sin representación
// se sustituyen en lugar de fallar.
func Encode(codePage, s string) ([]byte, error) {
	enc, err := CodePage(codePage)
	if err != nil {
		return nil, err
	}
	out, _, err := transform.Bytes(encoding.ReplaceUnsupported(enc.NewEncoder()), []byte(s))
	if err != nil {
		return nil, fmt.Errorf("textnorm: codificar %s: %w", codePage, err)
	}
	return out, nil
}
