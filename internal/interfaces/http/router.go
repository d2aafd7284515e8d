package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/willowtrellis/farmstand-api/internal/application/analytics"
	"github.com/willowtrellis/farmstand-api/internal/application/auth"
	"github.com/willowtrellis/farmstand-api/internal/application/catalog"
	"github.com/willowtrellis/farmstand-api/internal/application/notification"
	"github.com/willowtrellis/farmstand-api/internal/application/order"
	"github.com/willowtrellis/farmstand-api/internal/domain/entity"
)

// RouterDeps dependencies of the API routes.
type RouterDeps struct {
	CatalogUC       *catalog.UseCase
	OrderUC         *order.UseCase
	AuthUC          *auth.AuthUseCase
	NotificationUC  *notification.UseCase
	DashboardUC     *appanalytics.DashboardUseCase
	JWTSecret       string
	RevalidateToken string
}

// Router registers the API routes.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	authn := AuthMiddleware(deps.JWTSecret)
	admin := RequireRole(entity.RoleAdmin)
	cacheGuard := AdminOrToken(deps.JWTSecret, deps.RevalidateToken)

	// Catalog (public reads)
	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	api.Get("/products", catalogHandler.Products)
	api.Get("/seeds", catalogHandler.Seeds)
	api.Post("/products/refresh", authn, admin, catalogHandler.RefreshProducts)
	api.Post("/seeds/refresh", authn, admin, catalogHandler.RefreshSeeds)
	api.Post("/revalidate", cacheGuard, catalogHandler.Revalidate)
	api.Post("/clear-cache", cacheGuard, catalogHandler.ClearCache)

	// Auth
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/signup", authHandler.Signup)
	authGroup.Post("/login", authHandler.Login)
	api.Get("/profile", authn, authHandler.Profile)

	// Orders
	orderHandler := NewOrderHandler(deps.OrderUC)
	orders := api.Group("/orders", authn)
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/:id", orderHandler.Get)
	orders.Get("/:id/receipt", orderHandler.Receipt)
	orders.Patch("/:id", admin, orderHandler.UpdateStatus)

	// Notifications (admin)
	notificationHandler := NewNotificationHandler(deps.NotificationUC)
	notifications := api.Group("/notifications", authn, admin)
	notifications.Post("/", notificationHandler.Send)
	notifications.Get("/", notificationHandler.Overview)

	// Dashboard (admin)
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	api.Get("/admin/dashboard", authn, admin, dashboardHandler.GetSummary)
}
