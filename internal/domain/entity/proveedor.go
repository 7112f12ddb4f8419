package entity

import "time"

// Proveedor representa un proveedor de materia prima.
type Proveedor struct {
	ID        string
	Nombre    string
	RFC       string // identificador fiscal, único
	Telefono  string
	Email     string
	Direccion string
	Contacto  string
	Activo    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
