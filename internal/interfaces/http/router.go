package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/celutaller-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ReturnUC    returnService
	SupplierUC  *usecase.SupplierUseCase
	ClientUC    *usecase.ClientUseCase
	InventoryUC *usecase.InventoryItemUseCase
	Auth        AdminAuth
	Tokens      TokenConfig
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.Auth, deps.Tokens)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (API key o token de sesión)
	protected := api.Group("/", RequireAdmin(deps.Auth))

	// Devoluciones
	returns := protected.Group("/returns")
	returnHandler := NewReturnHandler(deps.ReturnUC)
	returns.Get("/", returnHandler.List)
	returns.Post("/", returnHandler.Create)
	returns.Get("/report/export", returnHandler.Export)
	returns.Get("/:id", returnHandler.GetByID)
	returns.Patch("/:id", returnHandler.Update)
	returns.Post("/:id/movimientos", returnHandler.AddMovement)
	returns.Post("/:id/historial", returnHandler.AddHistory)
	returns.Post("/:id/estado", returnHandler.Transition)
	returns.Post("/:id/adjuntos", returnHandler.AddAttachment)
	returns.Post("/:id/cerrar", returnHandler.Close)
	returns.Get("/:id/pdf", returnHandler.PDF)

	// Proveedores
	providers := protected.Group("/providers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	providers.Get("/", supplierHandler.List)
	providers.Post("/", supplierHandler.Create)

	// Clientes
	clients := protected.Group("/clients")
	clientHandler := NewClientHandler(deps.ClientUC)
	clients.Get("/", clientHandler.List)
	clients.Post("/", clientHandler.Create)
	clients.Get("/:id", clientHandler.GetByID)

	// Inventario
	inv := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.InventoryUC)
	inv.Get("/", inventoryHandler.List)
	inv.Post("/", inventoryHandler.Create)
	inv.Get("/alerts", inventoryHandler.Alerts)
	inv.Patch("/:id", inventoryHandler.Update)
	inv.Delete("/:id", inventoryHandler.Delete)
}
