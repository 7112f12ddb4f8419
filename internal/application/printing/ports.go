package printing

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// BarcodeRenderer genera la imagen PNG de un código de barras.
type BarcodeRenderer interface {
	RenderPNG(value string, opts entity.BarcodeOptions) (png []byte, width, height int, err error)
}

// LabelRenderer genera una etiqueta de material con el tamaño de la impresora
// (PDF o texto crudo, según Extension).
type LabelRenderer interface {
	RenderLabel(data entity.LabelData, opts entity.BarcodeOptions, cfg entity.PrinterConfig) ([]byte, error)
	Extension() string
}

// PrinterDriver abstrae las impresoras del sistema operativo.
// PrintFile devuelve *entity.CopiesError si falla después de entregar alguna copia.
type PrinterDriver interface {
	Discover(ctx context.Context) ([]entity.Printer, error)
	Default(ctx context.Context) (*entity.Printer, error)
	PrintFile(ctx context.Context, printer, path string, copies int) error
}

// Spool guarda temporalmente el archivo renderizado mientras se envía a la impresora.
type Spool interface {
	Write(name string, data []byte) (path string, err error)
	Remove(path string)
}

// Notifier despierta a los workers cuando llega un trabajo nuevo.
type Notifier interface {
	Notify()
}
