// Package barcode genera imágenes de códigos de barras con boombuler/barcode.
package barcode

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/boombuler/barcode/code39"
	"github.com/boombuler/barcode/ean"
	"github.com/boombuler/barcode/qr"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/pkg/textnorm"
)

// alto de la fuente base (basicfont 7x13); el texto se escala en múltiplos enteros.
const baseFontHeight = 13

// Renderer implementa printing.BarcodeRenderer.
type Renderer struct{}

// NewRenderer crea el renderizador.
func NewRenderer() *Renderer { return &Renderer{} }

// Encode codifica value en el formato pedido sin escalar.
func (r *Renderer) Encode(value string, format string) (barcode.Barcode, error) {
	switch strings.ToUpper(format) {
	case "", entity.BarcodeCODE128:
		return code128.Encode(textnorm.ToASCII(value))
	case entity.BarcodeCODE39:
		return code39.Encode(strings.ToUpper(textnorm.ToASCII(value)), false, false)
	case entity.BarcodeEAN13:
		if len(value) != 12 && len(value) != 13 {
			return nil, fmt.Errorf("EAN13 requiere 12 o 13 dígitos, recibió %d", len(value))
		}
		for _, c := range value {
			if c < '0' || c > '9' {
				return nil, fmt.Errorf("EAN13 solo admite dígitos")
			}
		}
		return ean.Encode(value)
	case entity.BarcodeQR:
		return qr.Encode(value, qr.M, qr.Auto)
	default:
		return nil, fmt.Errorf("formato %q no soportado", format)
	}
}

// Render produce la imagen final: barras escaladas, margen y, si se pide, el texto legible.
func (r *Renderer) Render(value string, opts entity.BarcodeOptions) (image.Image, error) {
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	bc, err := r.Encode(value, opts.Format)
	if err != nil {
		return nil, err
	}

	modules := bc.Bounds().Dx()
	w, h := modules*opts.Width, opts.Height
	if opts.Format == entity.BarcodeQR {
		side := modules * opts.Width
		if opts.Height > side {
			side = opts.Height
		}
		w, h = side, side
	}
	scaled, err := barcode.Scale(bc, w, h)
	if err != nil {
		return nil, fmt.Errorf("escalar código: %w", err)
	}

	var text image.Image
	if opts.DisplayValue && opts.Format != entity.BarcodeQR {
		text = renderText(bc.Content(), opts.FontSize)
	}

	m := opts.Margin
	canvasW := w + 2*m
	canvasH := h + 2*m
	if text != nil {
		tb := text.Bounds()
		if tb.Dx()+2*m > canvasW {
			canvasW = tb.Dx() + 2*m
		}
		canvasH += tb.Dy() + m/2
	}

	canvas := image.NewRGBA(image.Rect(0, 0, canvasW, canvasH))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	barsX := (canvasW - w) / 2
	draw.Draw(canvas, image.Rect(barsX, m, barsX+w, m+h), scaled, image.Point{}, draw.Src)
	if text != nil {
		tb := text.Bounds()
		tx := (canvasW - tb.Dx()) / 2
		ty := m + h + m/2
		draw.Draw(canvas, image.Rect(tx, ty, tx+tb.Dx(), ty+tb.Dy()), text, tb.Min, draw.Over)
	}
	return canvas, nil
}

// RenderPNG implementa printing.BarcodeRenderer.
func (r *Renderer) RenderPNG(value string, opts entity.BarcodeOptions) ([]byte, int, int, error) {
	img, err := r.Render(value, opts)
	if err != nil {
		return nil, 0, 0, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, 0, 0, fmt.Errorf("png: %w", err)
	}
	b := img.Bounds()
	return buf.Bytes(), b.Dx(), b.Dy(), nil
}

// renderText dibuja s con basicfont y lo amplía a fontSize px de alto (múltiplo entero).
func renderText(s string, fontSize int) image.Image {
	s = textnorm.ToASCII(s)
	face := basicfont.Face7x13
	d := &font.Drawer{Face: face}
	width := d.MeasureString(s).Ceil()
	if width == 0 {
		return nil
	}
	small := image.NewRGBA(image.Rect(0, 0, width, baseFontHeight))
	d.Dst = small
	d.Src = image.Black
	d.Dot = fixed.P(0, face.Ascent)
	d.DrawString(s)

	factor := fontSize / baseFontHeight
	if factor < 1 {
		factor = 1
	}
	if factor == 1 {
		return small
	}
	big := image.NewRGBA(image.Rect(0, 0, width*factor, baseFontHeight*factor))
	draw.NearestNeighbor.Scale(big, big.Bounds(), small, small.Bounds(), draw.Src, nil)
	return big
}
