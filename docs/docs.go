// Package docs registra la especificación OpenAPI de la API para swag.
// El middleware de swagger sirve ./docs/swagger.json; este paquete la expone además
// por swag.ReadDoc para herramientas que la lean en proceso.
package docs

import (
	_ "embed"

	"github.com/swaggo/swag"
)

//go:embed swagger.json
var docTemplate string

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Almacén API",
	Description:      "API de almacén de materia prima: catálogo, kardex, aprobaciones, códigos de barras y cola de impresión.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
