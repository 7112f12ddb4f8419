package printer

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// Valores de Win32_Printer.PrinterStatus.
var win32Status = map[string]string{
	"1": "other",
	"2": "unknown",
	"3": "idle",
	"4": "printing",
	"5": "warmup",
	"6": "stopped",
	"7": "offline",
}

// parsePowerShellXML lee la salida de `... | ConvertTo-Xml -As String -NoTypeInformation`:
//
//	<Objects><Object><Property Name="Name">Zebra</Property>...</Object></Objects>
func parsePowerShellXML(out []byte) ([]entity.Printer, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(bytes.TrimSpace(out)); err != nil {
		return nil, fmt.Errorf("xml de powershell: %w", err)
	}
	root := doc.SelectElement("Objects")
	if root == nil {
		return nil, fmt.Errorf("xml de powershell: falta <Objects>")
	}
	var printers []entity.Printer
	for _, obj := range root.SelectElements("Object") {
		props := map[string]string{}
		for _, p := range obj.SelectElements("Property") {
			props[p.SelectAttrValue("Name", "")] = strings.TrimSpace(p.Text())
		}
		name := props["Name"]
		if name == "" {
			continue
		}
		status := props["PrinterStatus"]
		if s, ok := win32Status[status]; ok {
			status = s
		}
		printers = append(printers, entity.Printer{
			Name:      name,
			Driver:    props["DriverName"],
			Port:      props["PortName"],
			Status:    status,
			IsDefault: strings.EqualFold(props["Default"], "true"),
			Shared:    strings.EqualFold(props["Shared"], "true"),
			Source:    "powershell",
		})
	}
	return printers, nil
}

// parseWmicCSV lee `wmic printer get Default,DriverName,Name,PortName,Shared /format:csv`.
// wmic separa renglones con \r\r\n y antepone una línea vacía.
func parseWmicCSV(out []byte) ([]entity.Printer, error) {
	clean := strings.ReplaceAll(string(out), "\r", "")
	var lines []string
	for _, l := range strings.Split(clean, "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) == 0 {
		return nil, nil
	}
	r := csv.NewReader(strings.NewReader(strings.Join(lines, "\n")))
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("csv de wmic: %w", err)
	}
	idx := map[string]int{}
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}
	field := func(rec []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}
	var printers []entity.Printer
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv de wmic: %w", err)
		}
		name := field(rec, "Name")
		if name == "" {
			continue
		}
		printers = append(printers, entity.Printer{
			Name:      name,
			Driver:    field(rec, "DriverName"),
			Port:      field(rec, "PortName"),
			IsDefault: strings.EqualFold(field(rec, "Default"), "TRUE"),
			Shared:    strings.EqualFold(field(rec, "Shared"), "TRUE"),
			Source:    "wmic",
		})
	}
	return printers, nil
}

// parseLpstat lee `lpstat -p` ("printer NOMBRE is idle.  enabled since ...") y marca
// la predeterminada a partir de `lpstat -d` ("system default destination: NOMBRE").
func parseLpstat(printersOut, defaultOut []byte) []entity.Printer {
	def := ""
	if i := bytes.LastIndexByte(defaultOut, ':'); i >= 0 && bytes.Contains(defaultOut, []byte("default destination")) {
		def = strings.TrimSpace(string(defaultOut[i+1:]))
	}
	var printers []entity.Printer
	sc := bufio.NewScanner(bytes.NewReader(printersOut))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 3 || fields[0] != "printer" {
			continue
		}
		status := "unknown"
		rest := strings.Join(fields[2:], " ")
		switch {
		case strings.HasPrefix(rest, "is idle"):
			status = "idle"
		case strings.HasPrefix(rest, "now printing"):
			status = "printing"
		case strings.HasPrefix(rest, "disabled"):
			status = "stopped"
		}
		printers = append(printers, entity.Printer{
			Name:      fields[1],
			Status:    status,
			IsDefault: fields[1] == def,
			Source:    "lpstat",
		})
	}
	return printers
}
