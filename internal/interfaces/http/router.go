package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/backoffice-api/internal/application/auth"
	"github.com/tu-usuario/backoffice-api/internal/application/catalog"
	"github.com/tu-usuario/backoffice-api/internal/application/inventory"
	"github.com/tu-usuario/backoffice-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	VariantUC   *catalog.VariantUseCase
	AdjustStock *inventory.AdjustStockUseCase
	InventoryQ  *inventory.QueryUseCase
	AuthUC      *auth.AuthUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Variants (protegido)
	variants := protected.Group("/variants")
	variantHandler := NewVariantHandler(deps.VariantUC, deps.InventoryQ)
	inventoryHandler := NewInventoryHandler(deps.AdjustStock, deps.InventoryQ)
	variants.Post("/", RequireRole(entity.RoleAdmin, entity.RoleBodeguero), variantHandler.Create)
	variants.Get("/", variantHandler.List)
	variants.Get("/:id", variantHandler.GetByID)
	variants.Put("/:id", RequireRole(entity.RoleAdmin, entity.RoleBodeguero), variantHandler.Update)
	variants.Delete("/:id", RequireRole(entity.RoleAdmin), variantHandler.Deactivate)
	variants.Get("/:id/stock", variantHandler.GetStock)
	variants.Get("/:id/movements", inventoryHandler.GetHistory)
	variants.Get("/:id/movements/latest", inventoryHandler.GetLatest)

	// Inventory: ajustes y libro de movimientos (protegido)
	invGroup := protected.Group("/inventory")
	invGroup.Post("/adjustments", RequireRole(entity.RoleAdmin, entity.RoleBodeguero), inventoryHandler.AdjustStock)
	invGroup.Get("/movements", inventoryHandler.ListFeed)
	invGroup.Get("/movements/:id", inventoryHandler.GetMovementDetail)
	invGroup.Get("/low-stock", inventoryHandler.ListLowStock)
	invGroup.Get("/low-stock/pdf", inventoryHandler.LowStockPDF)
}
