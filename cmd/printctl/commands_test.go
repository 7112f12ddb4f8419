package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/infrastructure/barcode"
	"github.com/jhoicas/almacen-api/internal/infrastructure/printer"
)

type printCall struct {
	printer string
	path    string
	copies  int
	data    []byte
}

type stubDriver struct {
	printers []entity.Printer
	err      error
	calls    []printCall
}

func (d *stubDriver) Discover(context.Context) ([]entity.Printer, error) {
	return d.printers, d.err
}

func (d *stubDriver) Default(context.Context) (*entity.Printer, error) {
	if d.err != nil {
		return nil, d.err
	}
	for i := range d.printers {
		if d.printers[i].IsDefault {
			return &d.printers[i], nil
		}
	}
	return nil, nil
}

func (d *stubDriver) PrintFile(_ context.Context, name, path string, copies int) error {
	data, _ := os.ReadFile(path)
	d.calls = append(d.calls, printCall{printer: name, path: path, copies: copies, data: data})
	return d.err
}

func newTestEnv(t *testing.T, driver *stubDriver) *env {
	t.Helper()
	spool, err := printer.NewDirSpool(t.TempDir(), nil)
	require.NoError(t, err)
	return &env{
		driver:   driver,
		barcodes: barcode.NewRenderer(),
		labels:   printer.NewRawTextLabel("windows-1252"),
		spool:    spool,
		label:    entity.DefaultPrinterConfig(""),
	}
}

func run(t *testing.T, e *env, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(func(bool) (*env, error) { return e, nil })
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestPrinters_Tabla(t *testing.T) {
	d := &stubDriver{printers: []entity.Printer{
		{Name: "Zebra GK420t", Status: "idle", Port: "USB001", IsDefault: true},
		{Name: "HP LaserJet", Status: "idle"},
	}}
	out, err := run(t, newTestEnv(t, d), "printers")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "NOMBRE")
	assert.True(t, strings.HasPrefix(lines[1], "*"))
	assert.Contains(t, lines[1], "Zebra GK420t")
	assert.Contains(t, lines[2], "HP LaserJet")
}

func TestPrinters_JSON(t *testing.T) {
	d := &stubDriver{printers: []entity.Printer{{Name: "Zebra", IsDefault: true, Source: "lpstat"}}}
	out, err := run(t, newTestEnv(t, d), "printers", "--json")
	require.NoError(t, err)

	var got []entity.Printer
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, d.printers, got)
}

func TestPrinters_Vacio(t *testing.T) {
	out, err := run(t, newTestEnv(t, &stubDriver{}), "printers")
	require.NoError(t, err)
	assert.Contains(t, out, "sin impresoras")
}

func TestBarcode_EscribePNG(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "mp.png")
	_, err := run(t, newTestEnv(t, &stubDriver{}), "barcode", "MP-0001", "-o", dest)
	require.NoError(t, err)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
}

func TestBarcode_FormatoInvalido(t *testing.T) {
	_, err := run(t, newTestEnv(t, &stubDriver{}), "barcode", "123", "-f", "PDF417", "-o", filepath.Join(t.TempDir(), "x.png"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPrint_UsaPredeterminada(t *testing.T) {
	d := &stubDriver{printers: []entity.Printer{{Name: "Zebra", IsDefault: true}}}
	file := filepath.Join(t.TempDir(), "doc.pdf")
	require.NoError(t, os.WriteFile(file, []byte("%PDF-1.4"), 0o600))

	out, err := run(t, newTestEnv(t, d), "print", file, "-n", "2")
	require.NoError(t, err)
	require.Len(t, d.calls, 1)
	assert.Equal(t, "Zebra", d.calls[0].printer)
	assert.Equal(t, file, d.calls[0].path)
	assert.Equal(t, 2, d.calls[0].copies)
	assert.Contains(t, out, "enviado a Zebra")
}

func TestPrint_PrioridadDeImpresora(t *testing.T) {
	d := &stubDriver{printers: []entity.Printer{{Name: "Zebra", IsDefault: true}}}
	e := newTestEnv(t, d)
	e.defaultPrinter = "Bodega"
	file := filepath.Join(t.TempDir(), "doc.txt")
	require.NoError(t, os.WriteFile(file, []byte("hola"), 0o600))

	_, err := run(t, e, "print", file)
	require.NoError(t, err)
	_, err = run(t, e, "print", file, "-p", "HP")
	require.NoError(t, err)

	require.Len(t, d.calls, 2)
	assert.Equal(t, "Bodega", d.calls[0].printer)
	assert.Equal(t, "HP", d.calls[1].printer)
}

func TestPrint_SinImpresora(t *testing.T) {
	file := filepath.Join(t.TempDir(), "doc.txt")
	require.NoError(t, os.WriteFile(file, []byte("hola"), 0o600))

	_, err := run(t, newTestEnv(t, &stubDriver{}), "print", file)
	assert.ErrorIs(t, err, domain.ErrNoPrinter)
}

func TestPrint_CopiasFueraDeRango(t *testing.T) {
	d := &stubDriver{printers: []entity.Printer{{Name: "Zebra", IsDefault: true}}}
	file := filepath.Join(t.TempDir(), "doc.txt")
	require.NoError(t, os.WriteFile(file, []byte("hola"), 0o600))

	_, err := run(t, newTestEnv(t, d), "print", file, "-n", "0")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, d.calls)
}

func TestPrint_ArchivoInexistente(t *testing.T) {
	d := &stubDriver{printers: []entity.Printer{{Name: "Zebra", IsDefault: true}}}
	_, err := run(t, newTestEnv(t, d), "print", filepath.Join(t.TempDir(), "nada.pdf"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Empty(t, d.calls)
}

func TestLabel_ImprimeYLimpiaSpool(t *testing.T) {
	d := &stubDriver{printers: []entity.Printer{{Name: "Zebra", IsDefault: true}}}
	e := newTestEnv(t, d)

	out, err := run(t, e, "label", "MP-0001", "-t", "Azúcar refinada", "--line", "Lote 7")
	require.NoError(t, err)
	assert.Contains(t, out, "etiqueta MP-0001 enviada a Zebra")

	require.Len(t, d.calls, 1)
	call := d.calls[0]
	assert.Equal(t, ".txt", filepath.Ext(call.path))
	assert.Contains(t, string(call.data), "MP-0001")
	assert.Contains(t, string(call.data), "AZ\xdaCAR REFINADA")

	_, statErr := os.Stat(call.path)
	assert.True(t, errors.Is(statErr, os.ErrNotExist), "el archivo del spool debe borrarse")
}

func TestLabel_ErrorDeImpresoraSePropaga(t *testing.T) {
	boom := errors.New("spooler detenido")
	d := &stubDriver{printers: []entity.Printer{{Name: "Zebra", IsDefault: true}}}
	e := newTestEnv(t, d)
	e.defaultPrinter = "Zebra"
	d.err = boom

	_, err := run(t, e, "label", "MP-0001")
	assert.ErrorIs(t, err, boom)
}

func TestSetupError(t *testing.T) {
	cmd := newRootCmd(func(bool) (*env, error) { return nil, errors.New("config rota") })
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"printers"})
	assert.EqualError(t, cmd.Execute(), "config rota")
}
