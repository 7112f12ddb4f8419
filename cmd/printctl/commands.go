package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

const maxCopies = 100

func printersCmd(get func() *env) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "printers",
		Short: "Lista las impresoras del sistema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			printers, err := get().driver.Discover(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(printers)
			}
			if len(printers) == 0 {
				fmt.Fprintln(out, "(sin impresoras)")
				return nil
			}
			return writePrinters(out, printers)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "salida en JSON")
	return cmd
}

func writePrinters(out io.Writer, printers []entity.Printer) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\tNOMBRE\tESTADO\tPUERTO\tDRIVER")
	for _, p := range printers {
		mark := ""
		if p.IsDefault {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", mark, p.Name, p.Status, p.Port, p.Driver)
	}
	return tw.Flush()
}

func barcodeCmd(get func() *env) *cobra.Command {
	var (
		output string
		opts   = entity.DefaultBarcodeOptions()
		noText bool
	)

	cmd := &cobra.Command{
		Use:   "barcode VALOR",
		Short: "Genera el PNG de un código de barras",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Format = strings.ToUpper(opts.Format)
			if !entity.IsValidBarcodeFormat(opts.Format) {
				return fmt.Errorf("%w: formato %q no soportado", domain.ErrInvalidInput, opts.Format)
			}
			opts.DisplayValue = !noText
			png, w, h, err := get().barcodes.RenderPNG(args[0], opts)
			if err != nil {
				return err
			}
			if output == "-" {
				_, err = cmd.OutOrStdout().Write(png)
				return err
			}
			if err := os.WriteFile(output, png, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s (%dx%d px)\n", output, w, h)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "barcode.png", "archivo de salida (- para stdout)")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", opts.Format, "CODE128, EAN13, CODE39 o QR")
	cmd.Flags().IntVar(&opts.Width, "width", opts.Width, "ancho de módulo en px")
	cmd.Flags().IntVar(&opts.Height, "height", opts.Height, "alto de las barras en px")
	cmd.Flags().IntVar(&opts.Margin, "margin", opts.Margin, "margen en px")
	cmd.Flags().BoolVar(&noText, "no-text", false, "sin el valor legible bajo las barras")
	return cmd
}

func printFileCmd(get func() *env) *cobra.Command {
	var (
		printerName string
		copies      int
	)

	cmd := &cobra.Command{
		Use:   "print ARCHIVO",
		Short: "Envía un archivo (PDF, PNG, texto) a la impresora",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkCopies(copies); err != nil {
				return err
			}
			if _, err := os.Stat(args[0]); err != nil {
				return err
			}
			e := get()
			name, err := resolvePrinter(cmd.Context(), e, printerName)
			if err != nil {
				return err
			}
			if err := e.driver.PrintFile(cmd.Context(), name, args[0], copies); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "enviado a %s (%d copias)\n", name, copies)
			return nil
		},
	}

	cmd.Flags().StringVarP(&printerName, "printer", "p", "", "impresora destino (vacío = predeterminada)")
	cmd.Flags().IntVarP(&copies, "copies", "n", 1, "número de copias")
	return cmd
}

func labelCmd(get func() *env) *cobra.Command {
	var (
		printerName string
		copies      int
		title       string
		subtitle    string
		lines       []string
		format      string
	)

	cmd := &cobra.Command{
		Use:   "label CODIGO",
		Short: "Imprime una etiqueta de material sin pasar por la cola",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkCopies(copies); err != nil {
				return err
			}
			e := get()
			name, err := resolvePrinter(cmd.Context(), e, printerName)
			if err != nil {
				return err
			}

			opts := entity.DefaultBarcodeOptions()
			opts.Format = strings.ToUpper(format)
			if !entity.IsValidBarcodeFormat(opts.Format) {
				return fmt.Errorf("%w: formato %q no soportado", domain.ErrInvalidInput, format)
			}
			cfg := e.label
			cfg.Name = name

			data := entity.LabelData{Title: title, Code: args[0], Subtitle: subtitle, Lines: lines}
			out, err := e.labels.RenderLabel(data, opts, cfg)
			if err != nil {
				return err
			}
			path, err := e.spool.Write("etiqueta"+e.labels.Extension(), out)
			if err != nil {
				return err
			}
			defer e.spool.Remove(path)

			if err := e.driver.PrintFile(cmd.Context(), name, path, copies); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "etiqueta %s enviada a %s (%d copias)\n", args[0], name, copies)
			return nil
		},
	}

	cmd.Flags().StringVarP(&printerName, "printer", "p", "", "impresora destino (vacío = predeterminada)")
	cmd.Flags().IntVarP(&copies, "copies", "n", 1, "número de copias")
	cmd.Flags().StringVarP(&title, "title", "t", "", "nombre del material")
	cmd.Flags().StringVar(&subtitle, "subtitle", "", "presentación o marca")
	cmd.Flags().StringArrayVar(&lines, "line", nil, "línea adicional (repetible)")
	cmd.Flags().StringVarP(&format, "format", "f", entity.BarcodeCODE128, "formato del código")
	return cmd
}

func checkCopies(n int) error {
	if n < 1 || n > maxCopies {
		return fmt.Errorf("%w: copias 1..%d", domain.ErrInvalidInput, maxCopies)
	}
	return nil
}

// resolvePrinter usa la impresora pedida, luego PRINT_DEFAULT_PRINTER y por último la del sistema.
func resolvePrinter(ctx context.Context, e *env, name string) (string, error) {
	if name != "" {
		return name, nil
	}
	if e.defaultPrinter != "" {
		return e.defaultPrinter, nil
	}
	p, err := e.driver.Default(ctx)
	if err != nil {
		return "", err
	}
	if p == nil || p.Name == "" {
		return "", domain.ErrNoPrinter
	}
	return p.Name, nil
}
