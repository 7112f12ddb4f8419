package printer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

// Variables de entorno con las que los scripts reciben archivo e impresora.
const (
	envFile    = "ALMACEN_PRINT_FILE"
	envPrinter = "ALMACEN_PRINTER"
)

const (
	psDiscoverScript = "Get-CimInstance -ClassName Win32_Printer | " +
		"Select-Object Name,DriverName,PortName,PrinterStatus,Shared,Default | " +
		"ConvertTo-Xml -As String -NoTypeInformation"
	psPrintToScript = "Start-Process -FilePath $env:" + envFile +
		" -Verb PrintTo -ArgumentList ('\"' + $env:" + envPrinter + " + '\"') -WindowStyle Hidden -Wait"
	psPrintDefaultScript = "Start-Process -FilePath $env:" + envFile + " -Verb Print -WindowStyle Hidden -Wait"
)

// cmd.exe vuelve a interpretar su línea de comandos: estos caracteres no pueden ir en /D:.
const cmdUnsafeChars = "&|<>^\"%!\r\n"

func powershell(script string, env ...string) Command {
	return Command{
		Name: "powershell.exe",
		Args: []string{"-NoProfile", "-NonInteractive", "-ExecutionPolicy", "Bypass", "-Command", script},
		Env:  env,
	}
}

// WindowsDriver descubre impresoras con PowerShell (wmic como respaldo) e imprime con la
// cadena PowerShell impresora indicada -> PowerShell predeterminada -> CMD print.
type WindowsDriver struct {
	run Runner
	log *logger.Logger
}

// NewWindowsDriver crea el driver de Windows.
func NewWindowsDriver(run Runner, log *logger.Logger) *WindowsDriver {
	if log == nil {
		log = logger.Nop()
	}
	return &WindowsDriver{run: run, log: log.Component("printer")}
}

// Discover lista las impresoras instaladas.
func (d *WindowsDriver) Discover(ctx context.Context) ([]entity.Printer, error) {
	out, psErr := d.run.Run(ctx, powershell(psDiscoverScript))
	if psErr == nil {
		printers, err := parsePowerShellXML(out)
		if err == nil {
			return printers, nil
		}
		psErr = err
	}
	d.log.Warn().Err(psErr).Msg("descubrimiento con PowerShell falló, usando wmic")

	out, err := d.run.Run(ctx, Command{
		Name: "wmic",
		Args: []string{"printer", "get", "Default,DriverName,Name,PortName,Shared", "/format:csv"},
	})
	if err != nil {
		return nil, fmt.Errorf("descubrir impresoras: %w", errors.Join(psErr, err))
	}
	return parseWmicCSV(out)
}

// Default devuelve la impresora predeterminada del sistema; (nil, nil) si no hay.
func (d *WindowsDriver) Default(ctx context.Context) (*entity.Printer, error) {
	printers, err := d.Discover(ctx)
	if err != nil {
		return nil, err
	}
	return pickDefault(printers), nil
}

// PrintFile envía path a la impresora copies veces, una orden por copia.
// Si falla tras imprimir alguna devuelve *entity.CopiesError con las ya entregadas.
func (d *WindowsDriver) PrintFile(ctx context.Context, printer, path string, copies int) error {
	if copies < 1 {
		copies = 1
	}
	for i := 0; i < copies; i++ {
		if err := d.printOnce(ctx, printer, path); err != nil {
			if i > 0 {
				return &entity.CopiesError{Printed: i, Err: err}
			}
			return err
		}
	}
	return nil
}

func (d *WindowsDriver) printOnce(ctx context.Context, printer, path string) error {
	var errs []error

	if printer != "" {
		_, err := d.run.Run(ctx, powershell(psPrintToScript, envFile+"="+path, envPrinter+"="+printer))
		if err == nil {
			return nil
		}
		errs = append(errs, fmt.Errorf("powershell PrintTo: %w", err))
		d.log.Warn().Err(err).Str("printer", printer).Msg("PrintTo falló, probando impresora predeterminada")
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	_, err := d.run.Run(ctx, powershell(psPrintDefaultScript, envFile+"="+path))
	if err == nil {
		return nil
	}
	errs = append(errs, fmt.Errorf("powershell Print: %w", err))
	d.log.Warn().Err(err).Msg("impresión con PowerShell falló, probando CMD print")
	if ctx.Err() != nil {
		return ctx.Err()
	}

	args := []string{"/C", "print"}
	if printer != "" {
		if strings.ContainsAny(printer, cmdUnsafeChars) {
			errs = append(errs, fmt.Errorf("cmd print: nombre de impresora no admitido: %q", printer))
			return errors.Join(errs...)
		}
		args = append(args, "/D:"+printer)
	}
	if strings.ContainsAny(path, cmdUnsafeChars) {
		errs = append(errs, fmt.Errorf("cmd print: ruta no admitida: %q", path))
		return errors.Join(errs...)
	}
	args = append(args, path)
	if _, err := d.run.Run(ctx, Command{Name: "cmd.exe", Args: args}); err != nil {
		errs = append(errs, fmt.Errorf("cmd print: %w", err))
		return errors.Join(errs...)
	}
	return nil
}

func pickDefault(printers []entity.Printer) *entity.Printer {
	for i := range printers {
		if printers[i].IsDefault {
			p := printers[i]
			return &p
		}
	}
	return nil
}
