package entity

// Tipos de impresora.
const (
	PrinterThermal = "thermal"
	PrinterLaser   = "laser"
	PrinterInkjet  = "inkjet"
)

// PrinterConfig configuración de impresión de etiquetas para una impresora.
type PrinterConfig struct {
	Name          string  `json:"name"`
	Type          string  `json:"type"`
	LabelWidthMM  float64 `json:"label_width_mm"`
	LabelHeightMM float64 `json:"label_height_mm"`
	DPI           int     `json:"dpi"`
	Copies        int     `json:"copies"`
}

// DefaultPrinterConfig etiqueta térmica 50x25 mm a 203 dpi.
func DefaultPrinterConfig(name string) PrinterConfig {
	return PrinterConfig{
		Name:          name,
		Type:          PrinterThermal,
		LabelWidthMM:  50,
		LabelHeightMM: 25,
		DPI:           203,
		Copies:        1,
	}
}

// Printer impresora descubierta en el sistema operativo.
type Printer struct {
	Name      string `json:"name"`
	Driver    string `json:"driver,omitempty"`
	Port      string `json:"port,omitempty"`
	Status    string `json:"status,omitempty"`
	IsDefault bool   `json:"is_default"`
	Shared    bool   `json:"shared"`
	Source    string `json:"source"` // powershell, wmic, lpstat
}
