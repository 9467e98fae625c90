package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/clinic-inventory-api/internal/application/analytics"
	"github.com/jhoicas/clinic-inventory-api/internal/application/audit"
	"github.com/jhoicas/clinic-inventory-api/internal/application/auth"
	"github.com/jhoicas/clinic-inventory-api/internal/application/inventory"
	"github.com/jhoicas/clinic-inventory-api/internal/application/prediction"
	"github.com/jhoicas/clinic-inventory-api/internal/application/usecase"
	"github.com/jhoicas/clinic-inventory-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	UserUC       *usecase.UserUseCase
	ProductUC    *usecase.ProductUseCase
	BranchUC     *usecase.BranchUseCase
	SupplierUC   *usecase.SupplierUseCase
	StockUC      *inventory.StockUseCase
	ReorderUC    *inventory.ReorderUseCase
	DashboardUC  *analytics.DashboardUseCase
	PredictionUC *prediction.UseCase
	AuditQueryUC *audit.QueryUseCase
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token y un usuario vigente)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret), LoadUser(deps.UserUC))
	adminOnly := RequireRole(entity.RoleAdmin)

	protected.Post("/auth/logout", authHandler.Logout)
	protected.Get("/auth/me", authHandler.Me)

	// Inventory
	inventoryHandler := NewInventoryHandler(deps.StockUC, deps.DashboardUC)
	inv := protected.Group("/inventory")
	inv.Get("/items", inventoryHandler.Items)
	inv.Get("/expiring", inventoryHandler.Expiring)
	inv.Post("/receive", inventoryHandler.Receive)
	inv.Post("/consume", inventoryHandler.Consume)
	inv.Post("/adjust", inventoryHandler.Adjust)
	inv.Post("/transfer", inventoryHandler.Transfer)

	// Products (lectura para todos; escritura solo Admin)
	productHandler := NewProductHandler(deps.ProductUC)
	products := protected.Group("/products")
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", adminOnly, productHandler.Create)
	products.Put("/:id", adminOnly, productHandler.Update)
	products.Delete("/:id", adminOnly, productHandler.Delete)

	// Branches
	branchHandler := NewBranchHandler(deps.BranchUC, deps.DashboardUC)
	branches := protected.Group("/branches")
	branches.Get("/", branchHandler.List)
	branches.Get("/performance", adminOnly, branchHandler.Performance)
	branches.Post("/", adminOnly, branchHandler.Create)
	branches.Put("/:id", adminOnly, branchHandler.Rename)
	branches.Delete("/:id", adminOnly, branchHandler.Delete)

	// Suppliers
	supplierHandler := NewSupplierHandler(deps.SupplierUC, deps.PredictionUC)
	suppliers := protected.Group("/suppliers")
	suppliers.Get("/", supplierHandler.List)
	suppliers.Post("/price-trend", supplierHandler.PriceTrendAll)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Post("/:id/price-trend", supplierHandler.PriceTrend)
	suppliers.Post("/", adminOnly, supplierHandler.Create)
	suppliers.Put("/:id", adminOnly, supplierHandler.Update)
	suppliers.Patch("/:id/quick-reorder", adminOnly, supplierHandler.QuickReorder)
	suppliers.Delete("/:id", adminOnly, supplierHandler.Delete)

	// Users (solo Admin)
	userHandler := NewUserHandler(deps.UserUC)
	users := protected.Group("/users", adminOnly)
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Get("/:id", userHandler.GetByID)
	users.Delete("/:id", userHandler.Delete)

	// Audit
	auditHandler := NewAuditHandler(deps.AuditQueryUC)
	protected.Get("/audit", adminOnly, auditHandler.List)
	protected.Get("/audit/products/:id", auditHandler.ProductHistory)

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard/summary", dashboardHandler.GetSummary)

	// Predictions
	predictionHandler := NewPredictionHandler(deps.PredictionUC, deps.DashboardUC)
	preds := protected.Group("/predictions")
	preds.Post("/run", predictionHandler.Run)
	preds.Get("/latest", predictionHandler.Latest)
	preds.Get("/alerts", predictionHandler.Alerts)
	preds.Get("/suggestions", predictionHandler.Suggestions)
	preds.Post("/alerts/:productId/ack", predictionHandler.Acknowledge)

	// Reorders (solo Admin, devuelve PDF)
	reorderHandler := NewReorderHandler(deps.ReorderUC)
	protected.Post("/reorders", adminOnly, reorderHandler.Prepare)
}
