// Command printctl opera las impresoras del puesto sin pasar por la API:
// descubre impresoras, genera códigos de barras y manda archivos o etiquetas directo al spooler.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jhoicas/almacen-api/internal/application/printing"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/infrastructure/barcode"
	infrapdf "github.com/jhoicas/almacen-api/internal/infrastructure/pdf"
	"github.com/jhoicas/almacen-api/internal/infrastructure/printer"
	"github.com/jhoicas/almacen-api/pkg/config"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

// env dependencias compartidas por los subcomandos.
type env struct {
	defaultPrinter string
	driver         printing.PrinterDriver
	barcodes       printing.BarcodeRenderer
	labels         printing.LabelRenderer
	spool          printing.Spool
	label          entity.PrinterConfig
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd(setup).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// setup arma el entorno real a partir de la configuración (.env / variables PRINT_*).
func setup(debug bool) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logger.Nop()
	if debug {
		log = logger.New(logger.Config{Env: "development", Level: "debug", Out: os.Stderr})
	}

	spool, err := printer.NewDirSpool(cfg.Print.SpoolDir, log)
	if err != nil {
		return nil, err
	}
	barcodes := barcode.NewRenderer()
	var labels printing.LabelRenderer = infrapdf.NewLabelGenerator(barcodes)
	if cfg.Print.LabelMode == "text" {
		labels = printer.NewRawTextLabel(cfg.Print.CodePage)
	}

	label := entity.DefaultPrinterConfig(cfg.Print.DefaultPrinter)
	label.LabelWidthMM = float64(cfg.Print.LabelWidthMM)
	label.LabelHeightMM = float64(cfg.Print.LabelHeightMM)
	label.DPI = cfg.Print.LabelDPI

	return &env{
		defaultPrinter: cfg.Print.DefaultPrinter,
		driver:         printer.NewDriver(printer.NewExecRunner(cfg.Print.CommandTimeout), log),
		barcodes:       barcodes,
		labels:         labels,
		spool:          spool,
		label:          label,
	}, nil
}

func newRootCmd(build func(debug bool) (*env, error)) *cobra.Command {
	var (
		debug bool
		e     *env
	)

	cmd := &cobra.Command{
		Use:          "printctl",
		Short:        "Impresoras y etiquetas del almacén",
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			var err error
			e, err = build(debug)
			return err
		},
	}
	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "log detallado en stderr (comandos del sistema ejecutados)")

	get := func() *env { return e }
	cmd.AddCommand(
		printersCmd(get),
		barcodeCmd(get),
		printFileCmd(get),
		labelCmd(get),
	)
	return cmd
}
