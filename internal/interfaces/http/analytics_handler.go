package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/field-assets-api/internal/application/analytics"
	"github.com/jhoicas/field-assets-api/internal/application/dto"
)

// AnalyticsHandler maneja los reportes de costo, uso e inventario de herramientas y consumibles.
type AnalyticsHandler struct {
	uc *analytics.AssetAnalyticsUseCase
}

// NewAnalyticsHandler construye el handler.
func NewAnalyticsHandler(uc *analytics.AssetAnalyticsUseCase) *AnalyticsHandler {
	return &AnalyticsHandler{uc: uc}
}

// GetCosts godoc
// @Summary      Análisis de costos por herramienta y consumible
// @Description  Costo total por activo (compra, pedidos y mantenimiento del período), costo por
//               movimiento y puntuación de eficiencia relativa (0-100).
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        start_date  query  string  false  "Inicio del período (YYYY-MM-DD). Default: hace 12 meses."
// @Param        end_date    query  string  false  "Fin del período, inclusive (YYYY-MM-DD). Default: hoy."
// @Success      200  {object}  analytics.CostReport
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/analytics/costs [get]
func (h *AnalyticsHandler) GetCosts(c *fiber.Ctx) error {
	var req dto.PeriodRequest
	if !bindQuery(c, &req) {
		return nil
	}
	report, err := h.uc.GetCostReport(c.UserContext(), GetOrganizationID(c), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(report)
}

// GetUsage godoc
// @Summary      Análisis de uso por herramienta y consumible
// @Description  Frecuencia y recencia de movimientos, clasificación (active, inactive, rarely_used)
//               y puntuación de uso 0.6 recencia + 0.4 frecuencia.
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        start_date  query  string  false  "Inicio del período (YYYY-MM-DD). Default: hace 12 meses."
// @Param        end_date    query  string  false  "Fin del período, inclusive (YYYY-MM-DD). Default: hoy."
// @Success      200  {object}  analytics.UsageReport
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/analytics/usage [get]
func (h *AnalyticsHandler) GetUsage(c *fiber.Ctx) error {
	var req dto.PeriodRequest
	if !bindQuery(c, &req) {
		return nil
	}
	report, err := h.uc.GetUsageReport(c.UserContext(), GetOrganizationID(c), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(report)
}

// GetInventory godoc
// @Summary      Optimización de inventario de consumibles
// @Description  Tasa de consumo diaria, días de cobertura y stock mínimo recomendado. Solo se
//               listan los consumibles que requieren reponer o están sobredimensionados.
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        lookback_months  query  int  false  "Meses de consumo observados (default 6, max 36)."
// @Param        lead_time_days   query  int  false  "Plazo de reposición en días (default 14, max 365)."
// @Success      200  {object}  analytics.InventoryOptimizationReport
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/analytics/inventory [get]
func (h *AnalyticsHandler) GetInventory(c *fiber.Ctx) error {
	var req dto.InventoryRequest
	if !bindQuery(c, &req) {
		return nil
	}
	report, err := h.uc.GetInventoryOptimization(c.UserContext(), GetOrganizationID(c), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(report)
}
