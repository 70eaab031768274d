// Package router mounts the HTTP API and the websocket feed on a Fiber app.
package router

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"innoventory-ws/internal/handler"
	"innoventory-ws/internal/middleware"
	"innoventory-ws/internal/model"
	"innoventory-ws/internal/repository"
	"innoventory-ws/internal/service"
	"innoventory-ws/internal/ws"
	"innoventory-ws/pkg/jwt"
)

type Deps struct {
	Auth      service.AuthService
	Inventory service.InventoryService
	Ledger    service.LedgerService
	Settings  service.SettingsService
	Reference service.ReferenceService
	Dashboard service.DashboardService

	Tokens *jwt.Manager
	Users  repository.UserRepository
	Hub    *ws.Hub
}

func Setup(app *fiber.App, d Deps) {
	authHandler := handler.NewAuthHandler(d.Auth)
	invHandler := handler.NewInventoryHandler(d.Inventory)
	txHandler := handler.NewTransactionHandler(d.Ledger)
	settingsHandler := handler.NewSettingsHandler(d.Settings)
	refHandler := handler.NewReferenceHandler(d.Reference)
	dashHandler := handler.NewDashboardHandler(d.Dashboard)

	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/validate-token", authHandler.ValidateToken)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(d.Tokens, d.Users))
	priv := middleware.RequirePrivilege

	protected.Get("/dashboard/stats", priv(model.PrivDashboardView), dashHandler.GetDashboardStats)
	protected.Get("/dashboard/stock-movement", priv(model.PrivDashboardView), dashHandler.GetStockMovement)

	protected.Get("/products", priv(model.PrivProductView), invHandler.GetProducts)
	protected.Get("/products/low-stock", priv(model.PrivProductView), invHandler.GetLowStock)
	protected.Get("/products/:id", priv(model.PrivProductView), invHandler.GetProduct)
	protected.Post("/products", priv(model.PrivProductCreate), invHandler.CreateProduct)
	protected.Put("/products/:id", priv(model.PrivProductUpdate), invHandler.UpdateProduct)
	protected.Delete("/products/:id", priv(model.PrivProductDelete), invHandler.DeleteProduct)

	protected.Get("/transactions", priv(model.PrivTransactionView), txHandler.GetTransactions)
	protected.Get("/transactions/:id", priv(model.PrivTransactionView), txHandler.GetTransaction)
	protected.Post("/transactions", priv(model.PrivTransactionCreate), txHandler.CreateTransaction)
	protected.Delete("/transactions/:id", priv(model.PrivTransactionDelete), txHandler.DeleteTransaction)

	protected.Get("/settings", middleware.RequireAnyPrivilege(model.PrivProductView, model.PrivSettingsUpdate), settingsHandler.GetSettings)
	protected.Put("/settings", priv(model.PrivSettingsUpdate), settingsHandler.UpdateSettings)

	readReference := middleware.RequireAnyPrivilege(model.PrivProductView, model.PrivReferenceManage)
	protected.Get("/categories", readReference, refHandler.GetCategories)
	protected.Post("/categories", priv(model.PrivReferenceManage), refHandler.CreateCategory)
	protected.Delete("/categories/:id", priv(model.PrivReferenceManage), refHandler.DeleteCategory)
	protected.Get("/suppliers", readReference, refHandler.GetSuppliers)
	protected.Post("/suppliers", priv(model.PrivReferenceManage), refHandler.CreateSupplier)
	protected.Delete("/suppliers/:id", priv(model.PrivReferenceManage), refHandler.DeleteSupplier)

	// WebSocket feed of stock and settings events
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		d.Hub.Register <- c
		defer func() { d.Hub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))
}
