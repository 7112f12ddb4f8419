package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoriaRequest entrada para crear o reemplazar una categoría.
type CategoriaRequest struct {
	Nombre      string `json:"nombre" validate:"required,min=1,max=120"`
	Descripcion string `json:"descripcion"`
	Activo      *bool  `json:"activo"`
}

// CategoriaResponse salida de una categoría.
type CategoriaResponse struct {
	ID          string    `json:"id"`
	Nombre      string    `json:"nombre"`
	Descripcion string    `json:"descripcion"`
	Activo      bool      `json:"activo"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PresentacionRequest entrada para crear o reemplazar una presentación.
type PresentacionRequest struct {
	Nombre       string          `json:"nombre" validate:"required,min=1,max=120"`
	Descripcion  string          `json:"descripcion"`
	Cantidad     decimal.Decimal `json:"cantidad"`
	UnidadMedida string          `json:"unidad_medida"`
	Activo       *bool           `json:"activo"`
}

// PresentacionResponse salida de una presentación.
type PresentacionResponse struct {
	ID           string          `json:"id"`
	Nombre       string          `json:"nombre"`
	Descripcion  string          `json:"descripcion"`
	Cantidad     decimal.Decimal `json:"cantidad"`
	UnidadMedida string          `json:"unidad_medida"`
	Activo       bool            `json:"activo"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ProveedorRequest entrada para crear o reemplazar un proveedor.
type ProveedorRequest struct {
	Nombre    string `json:"nombre" validate:"required,min=1,max=200"`
	RFC       string `json:"rfc" validate:"required,min=12,max=13"`
	Telefono  string `json:"telefono"`
	Email     string `json:"email" validate:"omitempty,email"`
	Direccion string `json:"direccion"`
	Contacto  string `json:"contacto"`
	Activo    *bool  `json:"activo"`
}

// ProveedorResponse salida de un proveedor.
type ProveedorResponse struct {
	ID        string    `json:"id"`
	Nombre    string    `json:"nombre"`
	RFC       string    `json:"rfc"`
	Telefono  string    `json:"telefono"`
	Email     string    `json:"email"`
	Direccion string    `json:"direccion"`
	Contacto  string    `json:"contacto"`
	Activo    bool      `json:"activo"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
