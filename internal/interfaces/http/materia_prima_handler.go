package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/printing"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
)

// MateriaPrimaHandler maneja el catálogo de materia prima (protegido).
type MateriaPrimaHandler struct {
	uc    *usecase.MateriaPrimaUseCase
	print *printing.PrintUseCase
}

// NewMateriaPrimaHandler construye el handler.
func NewMateriaPrimaHandler(uc *usecase.MateriaPrimaUseCase, print *printing.PrintUseCase) *MateriaPrimaHandler {
	return &MateriaPrimaHandler{uc: uc, print: print}
}

// Create godoc
// @Summary      Crear materia prima
// @Tags         materiaPrima
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMateriaPrimaRequest  true  "Datos del material; stock_inicial genera una entrada"
// @Success      201   {object}  dto.MateriaPrimaResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/materiaPrima [post]
func (h *MateriaPrimaHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateMateriaPrimaRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.CodigoBarras == "" || in.Nombre == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "codigo_barras y nombre son requeridos"})
	}
	out, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener materia prima por ID
// @Tags         materiaPrima
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del material"
// @Success      200  {object}  dto.MateriaPrimaResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/materiaPrima/{id} [get]
func (h *MateriaPrimaHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "material")
	}
	return c.JSON(out)
}

// GetByCodigo godoc
// @Summary      Buscar materia prima por código de barras (lector)
// @Tags         materiaPrima
// @Security     Bearer
// @Produce      json
// @Param        codigo  path  string  true  "Código de barras"
// @Success      200     {object}  dto.MateriaPrimaResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/materiaPrima/codigo/{codigo} [get]
func (h *MateriaPrimaHandler) GetByCodigo(c *fiber.Ctx) error {
	out, err := h.uc.GetByCodigoBarras(c.UserContext(), c.Params("codigo"))
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "material")
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar materia prima
// @Tags         materiaPrima
// @Security     Bearer
// @Produce      json
// @Param        search             query  string  false  "Nombre, código o marca"
// @Param        categoria_id       query  string  false  "Categoría"
// @Param        proveedor_id       query  string  false  "Proveedor"
// @Param        bajo_stock         query  bool    false  "Solo en o bajo el mínimo"
// @Param        incluir_inactivos  query  bool    false  "Incluir dados de baja"
// @Param        limit              query  int     false  "Límite"  default(20)
// @Param        offset             query  int     false  "Offset"  default(0)
// @Success      200                {object}  dto.MateriaPrimaListResponse
// @Router       /api/materiaPrima [get]
func (h *MateriaPrimaHandler) List(c *fiber.Ctx) error {
	in := dto.MateriaPrimaFilterRequest{
		Search:           c.Query("search"),
		CategoriaID:      c.Query("categoria_id"),
		ProveedorID:      c.Query("proveedor_id"),
		BajoStock:        c.QueryBool("bajo_stock", false),
		IncluirInactivos: c.QueryBool("incluir_inactivos", false),
		PageRequest:      pageFrom(c),
	}
	out, err := h.uc.List(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar materia prima
// @Tags         materiaPrima
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                         true  "ID del material"
// @Param        body  body  dto.UpdateMateriaPrimaRequest  true  "Campos a actualizar (stock y costo van por movimientos)"
// @Success      200   {object}  dto.MateriaPrimaResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/materiaPrima/{id} [put]
func (h *MateriaPrimaHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateMateriaPrimaRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "material")
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Dar de baja materia prima
// @Tags         materiaPrima
// @Security     Bearer
// @Param        id   path  string  true  "ID del material"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/materiaPrima/{id} [delete]
func (h *MateriaPrimaHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// PrintLabel godoc
// @Summary      Encolar etiqueta del material
// @Tags         materiaPrima
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true   "ID del material"
// @Param        body  body  dto.PrintLabelRequest  false  "Impresora, copias, idempotency_key"
// @Success      202   {object}  dto.PrintJobEnqueuedResponse
// @Success      200   {object}  dto.PrintJobEnqueuedResponse  "Trabajo ya existente para la idempotency_key"
// @Failure      400   {object}  dto.PrintJobEnqueuedResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/materiaPrima/{id}/etiqueta [post]
func (h *MateriaPrimaHandler) PrintLabel(c *fiber.Ctx) error {
	var in dto.PrintLabelRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.PrintJobEnqueuedResponse{ResultResponse: dto.ResultResponse{Error: "cuerpo inválido"}})
		}
	}
	if key := c.Get("Idempotency-Key"); in.IdempotencyKey == "" && key != "" {
		in.IdempotencyKey = key
	}
	job, created, err := h.print.EnqueueMaterialLabel(c.UserContext(), GetUserID(c), c.Params("id"), in)
	return enqueued(c, job, created, err)
}
