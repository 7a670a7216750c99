package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/nutrition-program-api/internal/application/auth"
	"github.com/jhoicas/nutrition-program-api/internal/application/party"
	"github.com/jhoicas/nutrition-program-api/internal/application/voucher"
	"github.com/jhoicas/nutrition-program-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	Resolver   *auth.IdentityResolver
	RegistryUC *party.RegistryUseCase
	WorkflowUC *voucher.WorkflowUseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	var resolver identityResolver
	if deps.Resolver != nil {
		resolver = deps.Resolver
	}
	routes(app, deps.JWTSecret, resolver, deps.AuthUC, deps.RegistryUC, deps.WorkflowUC)
}

func routes(app *fiber.App, secret string, resolver identityResolver, authUC authService, registry contractorService, workflow voucherService) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(authUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(secret, resolver))

	// Users: /me antes de /:id para que no lo capture el parámetro
	users := protected.Group("/users")
	userHandler := NewUserHandler(authUC)
	users.Get("/me", userHandler.Me)
	users.Post("/", RequireRole(entity.RoleAdmin), userHandler.Create)
	users.Patch("/:id/status", RequireRole(entity.RoleAdmin), userHandler.SetStatus)

	// Contractors (DEO)
	contractors := protected.Group("/contractors", RequireRole(entity.RoleDEO))
	contractorHandler := NewContractorHandler(registry)
	contractors.Get("/", contractorHandler.List)
	contractors.Get("/active", contractorHandler.GetActive)
	contractors.Get("/:nic", contractorHandler.GetByNIC)
	contractors.Post("/", contractorHandler.Create)
	contractors.Put("/:nic", contractorHandler.Update)
	contractors.Delete("/:nic", contractorHandler.Delete)

	// Vouchers (DEO crea, VO verifica, ambos leen)
	vouchers := protected.Group("/vouchers", RequireRole(entity.RoleDEO, entity.RoleVO))
	voucherHandler := NewVoucherHandler(workflow)
	vouchers.Post("/", RequireRole(entity.RoleDEO), voucherHandler.Create)
	vouchers.Get("/", voucherHandler.List)
	vouchers.Get("/:id", voucherHandler.Get)
	vouchers.Put("/:id/verify", RequireRole(entity.RoleVO), voucherHandler.Verify)
}
