package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/printing"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// PrintHandler expone códigos de barras, impresoras y la cola de impresión.
// Los canales barcode:* y printer:* responden con la forma {success, error}.
type PrintHandler struct {
	uc *printing.PrintUseCase
}

// NewPrintHandler construye el handler.
func NewPrintHandler(uc *printing.PrintUseCase) *PrintHandler {
	return &PrintHandler{uc: uc}
}

func resultError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		status = fiber.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		status = fiber.StatusConflict
	case errors.Is(err, domain.ErrNoPrinter):
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(dto.ResultResponse{Success: false, Error: err.Error()})
}

// enqueued responde 202 con el trabajo nuevo o 200 si la idempotency_key ya existía.
func enqueued(c *fiber.Ctx, job *dto.PrintJobResponse, created bool, err error) error {
	if err != nil {
		return resultError(c, err)
	}
	status := fiber.StatusAccepted
	if !created {
		status = fiber.StatusOK
	}
	return c.Status(status).JSON(dto.PrintJobEnqueuedResponse{ResultResponse: dto.ResultResponse{Success: true}, Job: job})
}

// GenerateBarcode godoc
// @Summary      Generar código de barras (PNG base64)
// @Tags         barcode
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.GenerateBarcodeRequest  true  "value y options (format CODE128, EAN13, CODE39 o QR)"
// @Success      200   {object}  dto.GenerateBarcodeResponse
// @Failure      400   {object}  dto.ResultResponse
// @Router       /api/barcode/generate [post]
func (h *PrintHandler) GenerateBarcode(c *fiber.Ctx) error {
	in := dto.GenerateBarcodeRequest{Options: entity.DefaultBarcodeOptions()}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ResultResponse{Error: "cuerpo inválido"})
	}
	out, err := h.uc.GenerateBarcode(c.UserContext(), in)
	if err != nil {
		return resultError(c, err)
	}
	return c.JSON(out)
}

// PrintBarcode godoc
// @Summary      Encolar impresión de un código de barras
// @Tags         barcode
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string                   false  "Clave para no duplicar el trabajo"
// @Param        body             body    dto.PrintBarcodeRequest  true   "value, options, printer, copies, priority"
// @Success      202              {object}  dto.PrintJobEnqueuedResponse
// @Success      200              {object}  dto.PrintJobEnqueuedResponse  "Trabajo ya existente para la idempotency_key"
// @Failure      400              {object}  dto.ResultResponse
// @Router       /api/barcode/print [post]
func (h *PrintHandler) PrintBarcode(c *fiber.Ctx) error {
	in := dto.PrintBarcodeRequest{Options: entity.DefaultBarcodeOptions()}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ResultResponse{Error: "cuerpo inválido"})
	}
	if key := c.Get("Idempotency-Key"); in.IdempotencyKey == "" && key != "" {
		in.IdempotencyKey = key
	}
	job, created, err := h.uc.Enqueue(c.UserContext(), GetUserID(c), in)
	return enqueued(c, job, created, err)
}

// Printers godoc
// @Summary      Descubrir impresoras instaladas
// @Tags         printers
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.PrinterListResponse
// @Failure      500  {object}  dto.ResultResponse
// @Router       /api/printers [get]
func (h *PrintHandler) Printers(c *fiber.Ctx) error {
	list, err := h.uc.Printers(c.UserContext())
	if err != nil {
		return resultError(c, err)
	}
	if list == nil {
		list = []entity.Printer{}
	}
	return c.JSON(dto.PrinterListResponse{ResultResponse: dto.ResultResponse{Success: true}, Printers: list})
}

// DefaultPrinter godoc
// @Summary      Impresora por defecto
// @Tags         printers
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  entity.Printer
// @Failure      503  {object}  dto.ResultResponse
// @Router       /api/printers/default [get]
func (h *PrintHandler) DefaultPrinter(c *fiber.Ctx) error {
	p, err := h.uc.DefaultPrinter(c.UserContext())
	if err != nil {
		return resultError(c, err)
	}
	return c.JSON(p)
}

// ListJobs godoc
// @Summary      Listar trabajos de impresión
// @Tags         print-jobs
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "pending, printing, completed, error o cancelled"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.PrintJobListResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/print-jobs [get]
func (h *PrintHandler) ListJobs(c *fiber.Ctx) error {
	out, err := h.uc.ListJobs(c.UserContext(), c.Query("status"), pageFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetJob godoc
// @Summary      Obtener trabajo de impresión
// @Tags         print-jobs
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del trabajo"
// @Success      200  {object}  dto.PrintJobResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/print-jobs/{id} [get]
func (h *PrintHandler) GetJob(c *fiber.Ctx) error {
	out, err := h.uc.GetJob(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "trabajo")
	}
	return c.JSON(out)
}

// CancelJob godoc
// @Summary      Cancelar trabajo pendiente
// @Tags         print-jobs
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del trabajo"
// @Success      200  {object}  dto.PrintJobResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/print-jobs/{id}/cancel [post]
func (h *PrintHandler) CancelJob(c *fiber.Ctx) error {
	out, err := h.uc.CancelJob(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RetryJob godoc
// @Summary      Reintentar trabajo en error
// @Tags         print-jobs
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del trabajo"
// @Success      200  {object}  dto.PrintJobResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/print-jobs/{id}/retry [post]
func (h *PrintHandler) RetryJob(c *fiber.Ctx) error {
	out, err := h.uc.RetryJob(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
