package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Taller-api/internal/application/auth"
	"github.com/jhoicas/Taller-api/internal/application/inventory"
	"github.com/jhoicas/Taller-api/internal/application/navigation"
	"github.com/jhoicas/Taller-api/internal/application/repair"
	"github.com/jhoicas/Taller-api/internal/application/usecase"
	"github.com/jhoicas/Taller-api/pkg/config"
	"github.com/jhoicas/Taller-api/pkg/logger"
)

// defaultRoleWait espera máxima por la resolución del rol antes de responder 409.
const defaultRoleWait = 3 * time.Second

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	Sessions    SessionTracker
	Navigation  NavigationState
	RepairUC    *repair.UseCase
	InventoryUC *inventory.UseCase
	UserUC      *usecase.UserUseCase
	SaleUC      *usecase.SaleUseCase
	SummaryUC   *usecase.SummaryUseCase
	Counter     Counter // nil = login sin límite
	RateLimit   config.RateLimitConfig
	RoleWait    time.Duration
	Log         *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	if deps.RoleWait <= 0 {
		deps.RoleWait = defaultRoleWait
	}
	requireAuth := AuthMiddleware(deps.AuthUC, deps.Sessions)
	optionalAuth := OptionalAuthMiddleware(deps.AuthUC, deps.Sessions)
	screen := func(appPath string) fiber.Handler {
		return RequireDestination(appPath, deps.Sessions, deps.RoleWait)
	}

	api := app.Group("/api")

	// Auth (público; logout requiere token)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	if deps.Counter != nil {
		authGroup.Post("/login", RateLimit(deps.Counter, "login", deps.RateLimit.Max, deps.RateLimit.Window, deps.Log), authHandler.Login)
	} else {
		authGroup.Post("/login", authHandler.Login)
	}
	authGroup.Post("/logout", requireAuth, authHandler.Logout)

	// Sesión y navegación (token opcional)
	sessionHandler := NewSessionHandler(deps.Sessions, deps.Navigation, deps.UserUC, deps.RoleWait)
	api.Get("/session", optionalAuth, sessionHandler.Session)
	api.Get("/navigation", optionalAuth, sessionHandler.Navigation)
	api.Get("/profile", requireAuth, screen(navigation.PathProfile), sessionHandler.Profile)

	// Reparaciones (pantalla de inicio, cualquier rol)
	repairs := api.Group("/repairs", requireAuth, screen(navigation.PathHome))
	repairHandler := NewRepairHandler(deps.RepairUC)
	repairs.Get("/", repairHandler.List)
	repairs.Get("/:id", repairHandler.GetByID)
	repairs.Patch("/:id/status", repairHandler.ChangeStatus)

	// Inventario (solo privilegiados)
	inv := api.Group("/inventory", requireAuth, screen(navigation.PathInventory))
	inventoryHandler := NewInventoryHandler(deps.InventoryUC)
	inv.Get("/", inventoryHandler.List)
	inv.Post("/", inventoryHandler.Create)
	inv.Get("/export", inventoryHandler.Export)
	inv.Post("/scan", inventoryHandler.Scan)
	inv.Get("/:id", inventoryHandler.GetByID)
	inv.Patch("/:id", inventoryHandler.Update)
	inv.Delete("/:id", inventoryHandler.Delete)

	// Administración (solo privilegiados)
	admin := api.Group("/admin", requireAuth, screen(navigation.PathAdmin))
	adminHandler := NewAdminHandler(deps.UserUC, deps.SaleUC, deps.SummaryUC)
	admin.Get("/employees", adminHandler.ListEmployees)
	admin.Post("/employees", adminHandler.CreateEmployee)
	admin.Get("/employees/:id", adminHandler.GetEmployee)
	admin.Patch("/employees/:id", adminHandler.UpdateEmployee)
	admin.Delete("/employees/:id", adminHandler.DeleteEmployee)
	admin.Get("/sales", adminHandler.ListSales)
	admin.Get("/sales/:id", adminHandler.GetSale)
	admin.Get("/sales/:id/receipt", adminHandler.SaleReceipt)
	admin.Get("/summary", adminHandler.Summary)
}
