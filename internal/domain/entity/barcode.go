package entity

import (
	"fmt"

	"github.com/jhoicas/almacen-api/internal/domain"
)

// Formatos de código de barras soportados.
const (
	BarcodeCODE128 = "CODE128"
	BarcodeEAN13   = "EAN13"
	BarcodeCODE39  = "CODE39"
	BarcodeQR      = "QR"
)

// Límites de renderizado: acotan el tamaño de la imagen que se reserva en memoria.
const (
	MaxBarcodeWidth    = 10
	MaxBarcodeHeight   = 1000
	MaxBarcodeMargin   = 100
	MaxBarcodeFontSize = 96
)

// BarcodeOptions parámetros de renderizado de un código de barras.
type BarcodeOptions struct {
	Format       string `json:"format"`
	Width        int    `json:"width"`  // ancho de módulo (px por barra mínima)
	Height       int    `json:"height"` // alto de las barras en px
	DisplayValue bool   `json:"display_value"`
	FontSize     int    `json:"font_size"`
	Margin       int    `json:"margin"`
}

// DefaultBarcodeOptions valores por defecto (CODE128, módulo 2px, 100px de alto).
func DefaultBarcodeOptions() BarcodeOptions {
	return BarcodeOptions{
		Format:       BarcodeCODE128,
		Width:        2,
		Height:       100,
		DisplayValue: true,
		FontSize:     20,
		Margin:       10,
	}
}

// WithDefaults completa los campos en cero con los valores por defecto.
func (o BarcodeOptions) WithDefaults() BarcodeOptions {
	d := DefaultBarcodeOptions()
	if o.Format == "" {
		o.Format = d.Format
	}
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	if o.FontSize <= 0 {
		o.FontSize = d.FontSize
	}
	if o.Margin < 0 {
		o.Margin = d.Margin
	}
	return o
}

// IsValidBarcodeFormat verifica la pertenencia al enum de formatos.
func IsValidBarcodeFormat(f string) bool {
	switch f {
	case BarcodeCODE128, BarcodeEAN13, BarcodeCODE39, BarcodeQR:
		return true
	}
	return false
}

// Validate rechaza dimensiones fuera de rango. Se aplica después de WithDefaults.
func (o BarcodeOptions) Validate() error {
	switch {
	case o.Width < 1 || o.Width > MaxBarcodeWidth:
		return fmt.Errorf("%w: width debe estar entre 1 y %d", domain.ErrInvalidInput, MaxBarcodeWidth)
	case o.Height < 1 || o.Height > MaxBarcodeHeight:
		return fmt.Errorf("%w: height debe estar entre 1 y %d", domain.ErrInvalidInput, MaxBarcodeHeight)
	case o.Margin < 0 || o.Margin > MaxBarcodeMargin:
		return fmt.Errorf("%w: margin debe estar entre 0 y %d", domain.ErrInvalidInput, MaxBarcodeMargin)
	case o.FontSize < 1 || o.FontSize > MaxBarcodeFontSize:
		return fmt.Errorf("%w: font_size debe estar entre 1 y %d", domain.ErrInvalidInput, MaxBarcodeFontSize)
	}
	return nil
}
