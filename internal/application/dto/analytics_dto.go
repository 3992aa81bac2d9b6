package dto

// ── Query parameters ──────────────────────────────────────────────────────────

// PeriodRequest parámetros de GET /api/analytics/costs, /usage y /api/equipment/cost-report.
// Ambas fechas son días de calendario inclusivos; vacías = últimos N meses hasta hoy.
type PeriodRequest struct {
	StartDate string `query:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `query:"end_date" validate:"omitempty,datetime=2006-01-02"`
}

// InventoryRequest parámetros de GET /api/analytics/inventory. Cero = valor configurado.
type InventoryRequest struct {
	LookbackMonths int `query:"lookback_months" validate:"omitempty,min=1,max=36"`
	LeadTimeDays   int `query:"lead_time_days" validate:"omitempty,min=1,max=365"`
}

// EquipmentPath parámetro de ruta de /api/equipment/:id/*.
type EquipmentPath struct {
	ID string `validate:"required,uuid"`
}
