// Package pdf genera etiquetas de materia prima en PDF con Maroto v2, con el tamaño
// físico de la etiqueta de la impresora.
//
// Layout (50x25 mm por defecto):
//
//	┌──────────────────────────────┐
//	│ NOMBRE DEL MATERIAL          │
//	│ ║│║║│║│║║│║║│║│║║│║  (barras) │
//	│ 7501234567890                │
//	│ Marca · Cad: 2027-01-31      │
//	└──────────────────────────────┘
package pdf

import (
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/barcode"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

const labelMarginMM = 2

var colorGray = &props.Color{Red: 90, Green: 90, Blue: 90}

// pngRenderer genera la imagen de los formatos que Maroto no dibuja (CODE39).
type pngRenderer interface {
	RenderPNG(value string, opts entity.BarcodeOptions) ([]byte, int, int, error)
}

// LabelGenerator implementa printing.LabelRenderer usando Maroto v2.
type LabelGenerator struct {
	png pngRenderer
}

// NewLabelGenerator construye el generador. png puede ser nil si no se usará CODE39.
func NewLabelGenerator(png pngRenderer) *LabelGenerator {
	return &LabelGenerator{png: png}
}

// RenderLabel genera una etiqueta de una página y devuelve los bytes del PDF.
func (g *LabelGenerator) RenderLabel(data entity.LabelData, opts entity.BarcodeOptions, cfg entity.PrinterConfig) ([]byte, error) {
	if strings.TrimSpace(data.Code) == "" {
		return nil, fmt.Errorf("pdf: etiqueta sin código")
	}
	if cfg.LabelWidthMM <= 2*labelMarginMM || cfg.LabelHeightMM <= 2*labelMarginMM {
		cfg = entity.DefaultPrinterConfig(cfg.Name)
	}
	opts = opts.WithDefaults()

	mcfg := config.NewBuilder().
		WithDimensions(cfg.LabelWidthMM, cfg.LabelHeightMM).
		WithLeftMargin(labelMarginMM).WithRightMargin(labelMarginMM).
		WithTopMargin(labelMarginMM).WithBottomMargin(labelMarginMM).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 6}).
		WithTitle(data.Title, true).
		Build()
	m := maroto.New(mcfg)

	usable := cfg.LabelHeightMM - 2*labelMarginMM
	titleH := usable * 0.18
	codeTextH := usable * 0.14
	infoH := 0.0
	info := labelInfo(data)
	if info != "" {
		infoH = usable * 0.14
	}
	barH := usable - titleH - codeTextH - infoH

	m.AddRows(row.New(titleH).Add(col.New(12).Add(
		text.New(data.Title, props.Text{Style: fontstyle.Bold, Size: fontFor(titleH), Align: align.Center}),
	)))

	bar, err := g.barcodeRow(barH, data.Code, opts)
	if err != nil {
		return nil, err
	}
	m.AddRows(bar)

	if opts.Format != entity.BarcodeQR {
		m.AddRows(row.New(codeTextH).Add(col.New(12).Add(
			text.New(data.Code, props.Text{Size: fontFor(codeTextH), Align: align.Center}),
		)))
	}
	if info != "" {
		m.AddRows(row.New(infoH).Add(col.New(12).Add(
			text.New(info, props.Text{Size: fontFor(infoH), Align: align.Center, Color: colorGray}),
		)))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar etiqueta: %w", err)
	}
	return doc.GetBytes(), nil
}

// Extension del archivo generado.
func (g *LabelGenerator) Extension() string { return ".pdf" }

func (g *LabelGenerator) barcodeRow(height float64, value string, opts entity.BarcodeOptions) (core.Row, error) {
	switch opts.Format {
	case entity.BarcodeQR:
		return row.New(height).Add(col.New(12).Add(
			code.NewQr(value, props.Rect{Percent: 100, Center: true}),
		)), nil
	case entity.BarcodeEAN13:
		return code.NewBarRow(height, value, props.Barcode{Percent: 100, Center: true, Type: barcode.EAN}), nil
	case entity.BarcodeCODE39:
		if g.png == nil {
			return nil, fmt.Errorf("pdf: CODE39 requiere renderizador de imágenes")
		}
		opts.DisplayValue = false
		opts.Margin = 0
		img, _, _, err := g.png.RenderPNG(value, opts)
		if err != nil {
			return nil, fmt.Errorf("pdf: %w", err)
		}
		return image.NewFromBytesRow(height, img, extension.Png, props.Rect{Percent: 100, Center: true}), nil
	default:
		return code.NewBarRow(height, value, props.Barcode{Percent: 100, Center: true, Type: barcode.Code128}), nil
	}
}

// labelInfo une marca/modelo, existencias y demás líneas en un solo renglón.
func labelInfo(d entity.LabelData) string {
	parts := make([]string, 0, len(d.Lines)+2)
	if d.Subtitle != "" {
		parts = append(parts, d.Subtitle)
	}
	parts = append(parts, d.Lines...)
	if d.UnidadMedida != "" && !d.Quantity.IsZero() {
		parts = append(parts, d.Quantity.String()+" "+d.UnidadMedida)
	}
	return strings.Join(parts, " · ")
}

// fontFor convierte el alto de fila (mm) a puntos tipográficos, acotado a 4..12.
func fontFor(rowMM float64) float64 {
	pt := rowMM * 2.2
	if pt < 4 {
		return 4
	}
	if pt > 12 {
		return 12
	}
	return pt
}
