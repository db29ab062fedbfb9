package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/estoque-api/internal/application/auth"
	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	ProductUC *usecase.ProductUseCase
	StockUC   *inventory.StockControlUseCase
	AuditUC   *usecase.AuditUseCase
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)

	// /stock/movements antes de /stock/:product_id
	stock := protected.Group("/stock")
	inventoryHandler := NewInventoryHandler(deps.StockUC)
	stock.Post("/movements", inventoryHandler.ApplyMovement)
	stock.Get("/movements", inventoryHandler.ListMovements)
	stock.Get("/movements/in", inventoryHandler.ListEntries)
	stock.Get("/movements/out", inventoryHandler.ListExits)
	stock.Post("/", inventoryHandler.InitiateStock)
	stock.Get("/", inventoryHandler.ListPositions)
	stock.Get("/:product_id", inventoryHandler.GetPosition)

	auditHandler := NewAuditHandler(deps.AuditUC)
	protected.Get("/audit", auditHandler.List)
}
