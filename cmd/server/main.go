package main

import (
	"strings"

	"bakehouse-backend/internal/admin"
	"bakehouse-backend/internal/ai"
	"bakehouse-backend/internal/auth"
	"bakehouse-backend/internal/config"
	"bakehouse-backend/internal/database"
	"bakehouse-backend/internal/inventory"
	"bakehouse-backend/internal/models"
	"bakehouse-backend/internal/production"
	"bakehouse-backend/internal/recipe"
	"bakehouse-backend/internal/settings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	inventoryService := inventory.NewService(inventory.NewGormRepository(database.DB))
	productionEngine := production.NewEngine(production.NewGormRepository(database.DB))
	suggester := ai.NewSuggester(ai.NewClient(cfg), inventoryService)

	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024, // recipe images arrive as data URIs
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Error().Err(err).Msg("unexpected error")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Unexpected server error",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register", auth.RegisterHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Inventory
	protected.Post("/inventory", inventory.CreateItemHandler(inventoryService))
	protected.Get("/inventory", inventory.ListItemsHandler(inventoryService))
	protected.Get("/inventory/export", inventory.ExportItemsHandler(inventoryService))
	protected.Get("/inventory/:id", inventory.GetItemHandler(inventoryService))
	protected.Patch("/inventory/:id", inventory.UpdateItemHandler(inventoryService))
	protected.Delete("/inventory/:id", inventory.DeleteItemHandler(inventoryService))
	protected.Post("/inventory/:id/stock", inventory.AddStockHandler(inventoryService))

	// Recipes
	protected.Post("/recipes", recipe.CreateRecipeHandler())
	protected.Get("/recipes", recipe.ListRecipesHandler())
	protected.Get("/recipes/:id", recipe.GetRecipeHandler())
	protected.Patch("/recipes/:id", recipe.UpdateRecipeHandler())
	protected.Put("/recipes/:id/items", recipe.UpdateRecipeWithItemsHandler())
	protected.Delete("/recipes/:id", recipe.DeleteRecipeHandler())

	// Production
	protected.Post("/production/batch", production.ExecuteBatchHandler(productionEngine))
	protected.Get("/production/recipes", production.RecipesHandler(productionEngine))
	protected.Get("/production/logs", production.ListLogsHandler(productionEngine))
	protected.Get("/production/logs/export", production.ExportLogsHandler(productionEngine))
	protected.Post("/production/logs/:id/undo", production.UndoHandler(productionEngine))

	// Settings
	protected.Get("/settings", settings.GetSettingsHandler())
	protected.Put("/settings", settings.UpdateSettingsHandler())

	// AI suggestions
	protected.Post("/ai/generate-recipe", ai.GenerateRecipeHandler(suggester))
	protected.Post("/ai/suggest-margin", ai.SuggestMarginHandler(suggester))

	// Admin
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin, models.RoleSuperAdmin))

	adminRoutes.Get("/users", admin.ListUsersHandler())
	adminRoutes.Patch("/users/:id", admin.UpdateUserHandler())
	adminRoutes.Post("/users/:id/ban", admin.BanUserHandler())
	adminRoutes.Post("/users/:id/unban", admin.UnbanUserHandler())
	adminRoutes.Delete("/users/:id", admin.DeleteUserHandler())
	adminRoutes.Get("/stats", admin.StatsHandler())

	// Superadmin only
	superRoutes := adminRoutes.Group("")
	superRoutes.Use(auth.RequireRole(models.RoleSuperAdmin))
	superRoutes.Post("/admins", admin.CreateAdminHandler())
	superRoutes.Post("/users/:id/role", admin.SetRoleHandler())

	log.Info().Str("port", cfg.HTTPPort).Msg("server listening")
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
