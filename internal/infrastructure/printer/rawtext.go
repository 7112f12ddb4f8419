package printer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/pkg/textnorm"
)

// puntos por carácter de la fuente residente típica de las térmicas (8x12 a 203 dpi).
const dotsPerChar = 12

const minColumns = 16

// RawTextLabel genera etiquetas de texto plano en la página de códigos de la impresora,
// para térmicas que imprimen texto crudo enviado con `print /D:`.
type RawTextLabel struct {
	CodePage string
}

// NewRawTextLabel crea el renderizador de texto crudo.
func NewRawTextLabel(codePage string) *RawTextLabel {
	return &RawTextLabel{CodePage: codePage}
}

// Extension del archivo generado.
func (r *RawTextLabel) Extension() string { return ".txt" }

// RenderLabel arma el texto centrado al ancho de la etiqueta, con CRLF y salto de página al final.
func (r *RawTextLabel) RenderLabel(data entity.LabelData, _ entity.BarcodeOptions, cfg entity.PrinterConfig) ([]byte, error) {
	if strings.TrimSpace(data.Code) == "" {
		return nil, fmt.Errorf("etiqueta sin código")
	}
	cols := Columns(cfg)

	lines := []string{center(strings.ToUpper(data.Title), cols), center("*"+data.Code+"*", cols)}
	if data.Subtitle != "" {
		lines = append(lines, center(data.Subtitle, cols))
	}
	for _, l := range data.Lines {
		lines = append(lines, center(l, cols))
	}
	if data.UnidadMedida != "" && !data.Quantity.IsZero() {
		lines = append(lines, center(data.Quantity.String()+" "+data.UnidadMedida, cols))
	}
	text := strings.Join(lines, "\r\n") + "\r\n\f"
	return textnorm.Encode(r.CodePage, text)
}

// Columns estima cuántos caracteres caben a lo ancho de la etiqueta.
func Columns(cfg entity.PrinterConfig) int {
	dpi := cfg.DPI
	if dpi <= 0 {
		dpi = 203
	}
	cols := int(cfg.LabelWidthMM/25.4*float64(dpi)) / dotsPerChar
	if cols < minColumns {
		return minColumns
	}
	return cols
}

func center(s string, width int) string {
	s = strings.TrimSpace(s)
	n := utf8.RuneCountInString(s)
	if n >= width {
		return string([]rune(s)[:width])
	}
	return strings.Repeat(" ", (width-n)/2) + s
}
