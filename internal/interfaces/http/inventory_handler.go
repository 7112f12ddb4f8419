package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
)

// InventoryHandler maneja movimientos, kardex, bajo stock y aprobaciones (protegido).
type InventoryHandler struct {
	uc        *inventory.RegisterMovementUseCase
	approvals *inventory.ApprovalUseCase
	lowStock  *inventory.LowStockUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.RegisterMovementUseCase, approvals *inventory.ApprovalUseCase, lowStock *inventory.LowStockUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc, approvals: approvals, lowStock: lowStock}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de stock
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovimientoRequest  true  "materia_prima_id, tipo, cantidad, costo_unitario (entradas)"
// @Success      201   {object}  dto.MovimientoResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/movimientos [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovimientoRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.RegisterMovementFromRequest(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Kardex godoc
// @Summary      Kardex de un material
// @Tags         materiaPrima
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del material"
// @Param        desde   query  string  false  "Fecha inicial (YYYY-MM-DD)"
// @Param        hasta   query  string  false  "Fecha final inclusive (YYYY-MM-DD)"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.MovimientoListResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/materiaPrima/{id}/movimientos [get]
func (h *InventoryHandler) Kardex(c *fiber.Ctx) error {
	from, err := parseDate(c.Query("desde"), false)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "desde: use YYYY-MM-DD"})
	}
	to, err := parseDate(c.Query("hasta"), true)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "hasta: use YYYY-MM-DD"})
	}
	page := pageFrom(c)
	out, err := h.uc.Kardex(c.UserContext(), c.Params("id"), from, to, page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// parseDate acepta YYYY-MM-DD o RFC3339. Con endOfDay una fecha simple se vuelve el inicio del día siguiente.
func parseDate(s string, endOfDay bool) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1)
	}
	return &t, nil
}

// LowStock godoc
// @Summary      Materiales en o bajo su stock mínimo
// @Tags         materiaPrima
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.BajoStockItemDTO
// @Router       /api/materiaPrima/bajo-stock [get]
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	out, err := h.lowStock.Report(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RequestApproval godoc
// @Summary      Solicitar un movimiento sujeto a aprobación
// @Tags         aprobaciones
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovimientoRequest  true  "Movimiento propuesto"
// @Success      201   {object}  dto.AprobacionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/aprobaciones [post]
func (h *InventoryHandler) RequestApproval(c *fiber.Ctx) error {
	var in dto.RegisterMovimientoRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.approvals.Request(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListApprovals godoc
// @Summary      Listar solicitudes
// @Tags         aprobaciones
// @Security     Bearer
// @Produce      json
// @Param        estado  query  string  false  "pendiente, aprobada o rechazada"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {array}  dto.AprobacionResponse
// @Router       /api/aprobaciones [get]
func (h *InventoryHandler) ListApprovals(c *fiber.Ctx) error {
	page := pageFrom(c)
	out, err := h.approvals.List(c.UserContext(), c.Query("estado"), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetApproval godoc
// @Summary      Obtener solicitud
// @Tags         aprobaciones
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.AprobacionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/aprobaciones/{id} [get]
func (h *InventoryHandler) GetApproval(c *fiber.Ctx) error {
	out, err := h.approvals.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "solicitud")
	}
	return c.JSON(out)
}

// Approve godoc
// @Summary      Aprobar solicitud (aplica el movimiento)
// @Tags         aprobaciones
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                        true   "ID de la solicitud"
// @Param        body  body  dto.ResolveAprobacionRequest  false  "Comentario"
// @Success      200   {object}  dto.AprobacionResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/aprobaciones/{id}/aprobar [post]
func (h *InventoryHandler) Approve(c *fiber.Ctx) error {
	var in dto.ResolveAprobacionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	out, err := h.approvals.Approve(c.UserContext(), c.Params("id"), GetUserID(c), in.Comentario)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Reject godoc
// @Summary      Rechazar solicitud
// @Tags         aprobaciones
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                        true   "ID de la solicitud"
// @Param        body  body  dto.ResolveAprobacionRequest  false  "Comentario"
// @Success      200   {object}  dto.AprobacionResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/aprobaciones/{id}/rechazar [post]
func (h *InventoryHandler) Reject(c *fiber.Ctx) error {
	var in dto.ResolveAprobacionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	out, err := h.approvals.Reject(c.UserContext(), c.Params("id"), GetUserID(c), in.Comentario)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
