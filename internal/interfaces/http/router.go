package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/field-assets-api/internal/application/analytics"
	"github.com/jhoicas/field-assets-api/internal/domain/entity"
)

// Roles con acceso a la información financiera de la flota.
var fleetRoles = []string{entity.RoleAdmin, entity.RoleManager}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AssetUC     *analytics.AssetAnalyticsUseCase
	EquipmentUC *analytics.EquipmentCostUseCase
	DB          Pinger
	Cache       Pinger // nil si no hay Redis
	JWTSecret   string
	JWTIssuer   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	healthHandler := NewHealthHandler(deps.DB, deps.Cache)
	app.Get("/health", healthHandler.Check)

	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))

	// Herramientas y consumibles
	analyticsGroup := protected.Group("/analytics")
	analyticsHandler := NewAnalyticsHandler(deps.AssetUC)
	analyticsGroup.Get("/costs", analyticsHandler.GetCosts)
	analyticsGroup.Get("/usage", analyticsHandler.GetUsage)
	analyticsGroup.Get("/inventory", analyticsHandler.GetInventory)

	// Maquinaria pesada (solo admin/manager)
	equipment := protected.Group("/equipment", RequireRole(fleetRoles...))
	equipmentHandler := NewEquipmentHandler(deps.EquipmentUC)
	equipment.Get("/cost-report", equipmentHandler.GetFleetReport)
	equipment.Get("/operation-report", equipmentHandler.GetOperationReport)
	equipment.Get("/:id/cost-summary", equipmentHandler.GetCostSummary)
	equipment.Get("/:id/depreciation", equipmentHandler.GetDepreciation)
}
