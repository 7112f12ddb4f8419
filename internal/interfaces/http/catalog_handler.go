package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
)

// CatalogHandler maneja categorías, presentaciones y proveedores (protegido).
type CatalogHandler struct {
	categorias     *usecase.CategoriaUseCase
	presentaciones *usecase.PresentacionUseCase
	proveedores    *usecase.ProveedorUseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(
	categorias *usecase.CategoriaUseCase,
	presentaciones *usecase.PresentacionUseCase,
	proveedores *usecase.ProveedorUseCase,
) *CatalogHandler {
	return &CatalogHandler{categorias: categorias, presentaciones: presentaciones, proveedores: proveedores}
}

// ── Categorías ───────────────────────────────────────────────────────────────

// CreateCategoria godoc
// @Summary      Crear categoría
// @Tags         categorias
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CategoriaRequest  true  "nombre, descripcion"
// @Success      201   {object}  dto.CategoriaResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/categorias [post]
func (h *CatalogHandler) CreateCategoria(c *fiber.Ctx) error {
	var in dto.CategoriaRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.categorias.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetCategoria godoc
// @Summary      Obtener categoría
// @Tags         categorias
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.CategoriaResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/categorias/{id} [get]
func (h *CatalogHandler) GetCategoria(c *fiber.Ctx) error {
	out, err := h.categorias.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "categoría")
	}
	return c.JSON(out)
}

// ListCategorias godoc
// @Summary      Listar categorías
// @Tags         categorias
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {array}  dto.CategoriaResponse
// @Router       /api/categorias [get]
func (h *CatalogHandler) ListCategorias(c *fiber.Ctx) error {
	page := pageFrom(c)
	out, err := h.categorias.List(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateCategoria godoc
// @Summary      Actualizar categoría
// @Tags         categorias
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "ID"
// @Param        body  body  dto.CategoriaRequest  true  "nombre, descripcion, activo"
// @Success      200   {object}  dto.CategoriaResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/categorias/{id} [put]
func (h *CatalogHandler) UpdateCategoria(c *fiber.Ctx) error {
	var in dto.CategoriaRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.categorias.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "categoría")
	}
	return c.JSON(out)
}

// DeleteCategoria godoc
// @Summary      Eliminar categoría sin materiales
// @Tags         categorias
// @Security     Bearer
// @Param        id   path  string  true  "ID"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/categorias/{id} [delete]
func (h *CatalogHandler) DeleteCategoria(c *fiber.Ctx) error {
	if err := h.categorias.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ── Presentaciones ───────────────────────────────────────────────────────────

// CreatePresentacion godoc
// @Summary      Crear presentación
// @Tags         presentaciones
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PresentacionRequest  true  "nombre, cantidad, unidad_medida"
// @Success      201   {object}  dto.PresentacionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/presentaciones [post]
func (h *CatalogHandler) CreatePresentacion(c *fiber.Ctx) error {
	var in dto.PresentacionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.presentaciones.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetPresentacion godoc
// @Summary      Obtener presentación
// @Tags         presentaciones
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.PresentacionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/presentaciones/{id} [get]
func (h *CatalogHandler) GetPresentacion(c *fiber.Ctx) error {
	out, err := h.presentaciones.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "presentación")
	}
	return c.JSON(out)
}

// ListPresentaciones godoc
// @Summary      Listar presentaciones
// @Tags         presentaciones
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {array}  dto.PresentacionResponse
// @Router       /api/presentaciones [get]
func (h *CatalogHandler) ListPresentaciones(c *fiber.Ctx) error {
	page := pageFrom(c)
	out, err := h.presentaciones.List(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdatePresentacion godoc
// @Summary      Actualizar presentación
// @Tags         presentaciones
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID"
// @Param        body  body  dto.PresentacionRequest  true  "Datos"
// @Success      200   {object}  dto.PresentacionResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/presentaciones/{id} [put]
func (h *CatalogHandler) UpdatePresentacion(c *fiber.Ctx) error {
	var in dto.PresentacionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.presentaciones.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "presentación")
	}
	return c.JSON(out)
}

// DeletePresentacion godoc
// @Summary      Eliminar presentación sin materiales
// @Tags         presentaciones
// @Security     Bearer
// @Param        id   path  string  true  "ID"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/presentaciones/{id} [delete]
func (h *CatalogHandler) DeletePresentacion(c *fiber.Ctx) error {
	if err := h.presentaciones.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ── Proveedores ──────────────────────────────────────────────────────────────

// CreateProveedor godoc
// @Summary      Crear proveedor
// @Tags         proveedores
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ProveedorRequest  true  "nombre, rfc, contacto"
// @Success      201   {object}  dto.ProveedorResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/proveedores [post]
func (h *CatalogHandler) CreateProveedor(c *fiber.Ctx) error {
	var in dto.ProveedorRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.proveedores.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetProveedor godoc
// @Summary      Obtener proveedor
// @Tags         proveedores
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.ProveedorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/proveedores/{id} [get]
func (h *CatalogHandler) GetProveedor(c *fiber.Ctx) error {
	out, err := h.proveedores.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "proveedor")
	}
	return c.JSON(out)
}

// ListProveedores godoc
// @Summary      Listar proveedores
// @Tags         proveedores
// @Security     Bearer
// @Produce      json
// @Param        search  query  string  false  "Nombre o RFC"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {array}  dto.ProveedorResponse
// @Router       /api/proveedores [get]
func (h *CatalogHandler) ListProveedores(c *fiber.Ctx) error {
	page := pageFrom(c)
	out, err := h.proveedores.List(c.UserContext(), c.Query("search"), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateProveedor godoc
// @Summary      Actualizar proveedor
// @Tags         proveedores
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "ID"
// @Param        body  body  dto.ProveedorRequest  true  "Datos"
// @Success      200   {object}  dto.ProveedorResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/proveedores/{id} [put]
func (h *CatalogHandler) UpdateProveedor(c *fiber.Ctx) error {
	var in dto.ProveedorRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.proveedores.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "proveedor")
	}
	return c.JSON(out)
}

// DeleteProveedor godoc
// @Summary      Dar de baja proveedor
// @Tags         proveedores
// @Security     Bearer
// @Param        id   path  string  true  "ID"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/proveedores/{id} [delete]
func (h *CatalogHandler) DeleteProveedor(c *fiber.Ctx) error {
	if err := h.proveedores.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
