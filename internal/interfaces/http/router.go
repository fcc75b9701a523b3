package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Pedidos-api/internal/application/orders"
	"github.com/jhoicas/Pedidos-api/internal/application/stock"
	"github.com/jhoicas/Pedidos-api/internal/application/usecase"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC      *usecase.ProductUseCase
	UserUC         *usecase.UserUseCase
	StockLedger    *stock.LedgerUseCase
	StockQuery     *stock.QueryUseCase
	OrderLifecycle *orders.LifecycleUseCase
	OrderQuery     *orders.QueryUseCase
	OrderReceipt   *orders.ReceiptUseCase
}

// Router registra las rutas de la API. Todas las rutas de /api requieren los
// headers de identidad; los permisos por rol se aplican por grupo.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", RequireIdentity())

	// Products: lectura para todos, escritura solo ops_manager
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", RequireRole(entity.RoleOpsManager), productHandler.Create)
	products.Put("/:id", RequireRole(entity.RoleOpsManager), productHandler.Update)
	products.Delete("/:id", RequireRole(entity.RoleOpsManager), productHandler.Deactivate)

	// Orders: las rutas fijas van antes que las de parámetro
	ordersGroup := api.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrderLifecycle, deps.OrderQuery, deps.OrderReceipt)
	ordersGroup.Get("/delivery-slots", orderHandler.DeliverySlots)
	ordersGroup.Get("/statistics", RequireStaff(), orderHandler.Statistics)
	ordersGroup.Get("/status/:status", RequireStaff(), orderHandler.ListByStatus)
	ordersGroup.Get("/number/:number", orderHandler.GetByNumber)
	ordersGroup.Get("/user/:userId", orderHandler.ListByUser)
	ordersGroup.Post("/", orderHandler.Create)
	ordersGroup.Get("/", RequireStaff(), orderHandler.ListAll)
	ordersGroup.Get("/:id", orderHandler.GetByID)
	ordersGroup.Put("/:id/status", RequireStaff(), orderHandler.UpdateStatus)
	ordersGroup.Put("/:id/cancel", orderHandler.Cancel)
	ordersGroup.Get("/:id/receipt", orderHandler.Receipt)

	// Stock: solo personal
	stockGroup := api.Group("/stock", RequireStaff())
	stockHandler := NewStockHandler(deps.StockLedger, deps.StockQuery)
	stockGroup.Post("/initialize", stockHandler.Initialize)
	stockGroup.Put("/update", stockHandler.Update)
	stockGroup.Put("/bulk-update", stockHandler.BulkUpdate)
	stockGroup.Post("/check-availability", stockHandler.CheckAvailability)
	stockGroup.Get("/statistics", stockHandler.Statistics)
	stockGroup.Get("/low-stock", stockHandler.LowStock)
	stockGroup.Get("/", stockHandler.List)
	stockGroup.Get("/product/:productId", stockHandler.GetByProduct)
	stockGroup.Get("/product/:productId/history", stockHandler.History)

	// Users: solo ops_manager
	users := api.Group("/users", RequireRole(entity.RoleOpsManager))
	userHandler := NewUserHandler(deps.UserUC)
	users.Post("/", userHandler.Create)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)
}
