package printer

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

// UnixDriver usa CUPS (lpstat / lp).
type UnixDriver struct {
	run Runner
	log *logger.Logger
}

// NewUnixDriver crea el driver CUPS.
func NewUnixDriver(run Runner, log *logger.Logger) *UnixDriver {
	if log == nil {
		log = logger.Nop()
	}
	return &UnixDriver{run: run, log: log.Component("printer")}
}

// Discover lista las impresoras de CUPS.
func (d *UnixDriver) Discover(ctx context.Context) ([]entity.Printer, error) {
	out, err := d.run.Run(ctx, Command{Name: "lpstat", Args: []string{"-p"}})
	if err != nil {
		return nil, fmt.Errorf("descubrir impresoras: %w", err)
	}
	// Sin predeterminada lpstat -d sale con error; no es fatal.
	def, err := d.run.Run(ctx, Command{Name: "lpstat", Args: []string{"-d"}})
	if err != nil {
		d.log.Debug().Err(err).Msg("lpstat -d sin impresora predeterminada")
	}
	return parseLpstat(out, def), nil
}

// Default devuelve la impresora predeterminada; (nil, nil) si no hay.
func (d *UnixDriver) Default(ctx context.Context) (*entity.Printer, error) {
	printers, err := d.Discover(ctx)
	if err != nil {
		return nil, err
	}
	return pickDefault(printers), nil
}

// PrintFile envía el archivo con lp. Sin impresora usa el destino predeterminado de CUPS.
func (d *UnixDriver) PrintFile(ctx context.Context, printer, path string, copies int) error {
	if copies < 1 {
		copies = 1
	}
	args := []string{"-n", strconv.Itoa(copies)}
	if printer != "" {
		args = append(args, "-d", printer)
	}
	args = append(args, "--", path)
	if _, err := d.run.Run(ctx, Command{Name: "lp", Args: args}); err != nil {
		return fmt.Errorf("lp: %w", err)
	}
	return nil
}
