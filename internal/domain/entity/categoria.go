package entity

import "time"

// Categoria agrupa materiales (ej. "Químicos", "Empaque").
type Categoria struct {
	ID          string
	Nombre      string // único
	Descripcion string
	Activo      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
