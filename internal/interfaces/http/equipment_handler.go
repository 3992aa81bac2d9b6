package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/field-assets-api/internal/application/analytics"
	"github.com/jhoicas/field-assets-api/internal/application/dto"
)

// EquipmentHandler maneja los reportes de costo y operación de maquinaria pesada.
type EquipmentHandler struct {
	uc *analytics.EquipmentCostUseCase
}

// NewEquipmentHandler construye el handler.
func NewEquipmentHandler(uc *analytics.EquipmentCostUseCase) *EquipmentHandler {
	return &EquipmentHandler{uc: uc}
}

// GetFleetReport godoc
// @Summary      Reporte de costos de la flota
// @Description  Valor en libros de los equipos propios, cuotas de leasing y alquiler del período
//               y mantenimiento del período, con el detalle por equipo.
// @Tags         equipment
// @Security     Bearer
// @Produce      json
// @Param        start_date  query  string  false  "Inicio del período (YYYY-MM-DD). Default: hace 12 meses."
// @Param        end_date    query  string  false  "Fin del período, inclusive (YYYY-MM-DD). Default: hoy."
// @Success      200  {object}  analytics.FleetCostReport
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/equipment/cost-report [get]
func (h *EquipmentHandler) GetFleetReport(c *fiber.Ctx) error {
	var req dto.PeriodRequest
	if !bindQuery(c, &req) {
		return nil
	}
	report, err := h.uc.GetFleetReport(c.UserContext(), GetOrganizationID(c), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(report)
}

// GetOperationReport godoc
// @Summary      Tasa de operación de la flota
// @Description  Días con salida, tasa de operación, horómetro y costo por día de operación por equipo,
//               con promedios por modalidad de tenencia.
// @Tags         equipment
// @Security     Bearer
// @Produce      json
// @Param        start_date  query  string  false  "Inicio del período (YYYY-MM-DD). Default: hace 12 meses."
// @Param        end_date    query  string  false  "Fin del período, inclusive (YYYY-MM-DD). Default: hoy."
// @Success      200  {object}  analytics.FleetOperationReport
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/equipment/operation-report [get]
func (h *EquipmentHandler) GetOperationReport(c *fiber.Ctx) error {
	var req dto.PeriodRequest
	if !bindQuery(c, &req) {
		return nil
	}
	report, err := h.uc.GetOperationReport(c.UserContext(), GetOrganizationID(c), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(report)
}

// GetCostSummary godoc
// @Summary      Costo de tenencia de un equipo
// @Tags         equipment
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del equipo (UUID)"
// @Success      200  {object}  analytics.CostSummary
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/equipment/{id}/cost-summary [get]
func (h *EquipmentHandler) GetCostSummary(c *fiber.Ctx) error {
	path := dto.EquipmentPath{ID: c.Params("id")}
	if !validateStruct(c, &path) {
		return nil
	}
	summary, err := h.uc.GetCostSummary(c.UserContext(), GetOrganizationID(c), path.ID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(summary)
}

// GetDepreciation godoc
// @Summary      Depreciación lineal de un equipo propio
// @Description  Devuelve 404 NOT_OWNED si el equipo está en leasing o alquiler.
// @Tags         equipment
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del equipo (UUID)"
// @Success      200  {object}  analytics.DepreciationDetail
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/equipment/{id}/depreciation [get]
func (h *EquipmentHandler) GetDepreciation(c *fiber.Ctx) error {
	path := dto.EquipmentPath{ID: c.Params("id")}
	if !validateStruct(c, &path) {
		return nil
	}
	detail, err := h.uc.GetDepreciation(c.UserContext(), GetOrganizationID(c), path.ID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(detail)
}
