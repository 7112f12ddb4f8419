package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/auth"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/application/printing"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC           *auth.AuthUseCase
	MateriaPrimaUC   *usecase.MateriaPrimaUseCase
	CategoriaUC      *usecase.CategoriaUseCase
	PresentacionUC   *usecase.PresentacionUseCase
	ProveedorUC      *usecase.ProveedorUseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	Approvals        *inventory.ApprovalUseCase
	LowStock         *inventory.LowStockUseCase
	PrintUC          *printing.PrintUseCase
	JWTSecret        string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	admin := RequireRole(entity.RoleAdmin)
	writers := RequireRole(entity.RoleAdmin, entity.RoleAlmacenista)
	readers := RequireRole(entity.RoleAdmin, entity.RoleAlmacenista, entity.RoleConsulta)

	// Auth
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Get("/auth/me", authHandler.Me)
	protected.Post("/auth/register", admin, authHandler.Register)

	printHandler := NewPrintHandler(deps.PrintUC)
	inventoryHandler := NewInventoryHandler(deps.RegisterMovement, deps.Approvals, deps.LowStock)

	// Materia prima
	mpHandler := NewMateriaPrimaHandler(deps.MateriaPrimaUC, deps.PrintUC)
	mp := protected.Group("/materiaPrima")
	mp.Get("/", readers, mpHandler.List)
	mp.Post("/", writers, mpHandler.Create)
	mp.Get("/bajo-stock", readers, inventoryHandler.LowStock)
	mp.Get("/codigo/:codigo", readers, mpHandler.GetByCodigo)
	mp.Get("/:id", readers, mpHandler.GetByID)
	mp.Put("/:id", writers, mpHandler.Update)
	mp.Delete("/:id", admin, mpHandler.Delete)
	mp.Get("/:id/movimientos", readers, inventoryHandler.Kardex)
	mp.Post("/:id/etiqueta", writers, mpHandler.PrintLabel)

	// Catálogos
	catalog := NewCatalogHandler(deps.CategoriaUC, deps.PresentacionUC, deps.ProveedorUC)
	cat := protected.Group("/categorias")
	cat.Get("/", readers, catalog.ListCategorias)
	cat.Post("/", writers, catalog.CreateCategoria)
	cat.Get("/:id", readers, catalog.GetCategoria)
	cat.Put("/:id", writers, catalog.UpdateCategoria)
	cat.Delete("/:id", admin, catalog.DeleteCategoria)

	pres := protected.Group("/presentaciones")
	pres.Get("/", readers, catalog.ListPresentaciones)
	pres.Post("/", writers, catalog.CreatePresentacion)
	pres.Get("/:id", readers, catalog.GetPresentacion)
	pres.Put("/:id", writers, catalog.UpdatePresentacion)
	pres.Delete("/:id", admin, catalog.DeletePresentacion)

	prov := protected.Group("/proveedores")
	prov.Get("/", readers, catalog.ListProveedores)
	prov.Post("/", writers, catalog.CreateProveedor)
	prov.Get("/:id", readers, catalog.GetProveedor)
	prov.Put("/:id", writers, catalog.UpdateProveedor)
	prov.Delete("/:id", admin, catalog.DeleteProveedor)

	// Stock y aprobaciones
	protected.Post("/stock/movimientos", writers, inventoryHandler.RegisterMovement)

	apr := protected.Group("/aprobaciones")
	apr.Get("/", readers, inventoryHandler.ListApprovals)
	apr.Post("/", writers, inventoryHandler.RequestApproval)
	apr.Get("/:id", readers, inventoryHandler.GetApproval)
	apr.Post("/:id/aprobar", admin, inventoryHandler.Approve)
	apr.Post("/:id/rechazar", admin, inventoryHandler.Reject)

	// Códigos de barras, impresoras y cola
	protected.Post("/barcode/generate", readers, printHandler.GenerateBarcode)
	protected.Post("/barcode/print", writers, printHandler.PrintBarcode)
	protected.Get("/printers", readers, printHandler.Printers)
	protected.Get("/printers/default", readers, printHandler.DefaultPrinter)

	jobs := protected.Group("/print-jobs")
	jobs.Get("/", readers, printHandler.ListJobs)
	jobs.Get("/:id", readers, printHandler.GetJob)
	jobs.Post("/:id/cancel", writers, printHandler.CancelJob)
	jobs.Post("/:id/retry", writers, printHandler.RetryJob)
}
