package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/field-assets-api/internal/domain/entity"
)

// DefaultLeadTimeDays plazo de reposición por defecto (días).
const DefaultLeadTimeDays = 14

// Severity nivel de la recomendación de inventario.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Acciones recomendadas.
const (
	ActionReorderNow    = "reorder immediately"
	ActionReorderSoon   = "schedule reorder soon"
	ActionReduceMinimum = "reduce minimum stock / pause ordering"
)

const overstockFactor = 4 // stock > 4x el mínimo recomendado = sobrestock

var severityRank = map[Severity]int{SeverityCritical: 0, SeverityWarning: 1, SeverityInfo: 2}

// InventoryInput consumibles, existencias actuales y consumos del período de observación.
type InventoryInput struct {
	Consumables          []entity.Asset
	InventorySnapshots   []entity.InventorySnapshot
	ConsumptionMovements []entity.MovementRecord
	Window               Window // período de observación (típicamente 6 meses)
}

// OptimizerOption ajusta los parámetros del optimizador.
type OptimizerOption func(*optimizerConfig)

type optimizerConfig struct {
	leadTimeDays int
}

// WithLeadTimeDays fija el plazo de reposición; valores <= 0 se ignoran.
func WithLeadTimeDays(days int) OptimizerOption {
	return func(c *optimizerConfig) {
		if days > 0 {
			c.leadTimeDays = days
		}
	}
}

// OptimizationEntry recomendación para un consumible que requiere acción.
type OptimizationEntry struct {
	ToolID       string  `json:"tool_id"`
	ToolName     string  `json:"tool_name"`
	CategoryName *string `json:"category_name"`

	CurrentStock   int `json:"current_stock"`
	WarehouseStock int `json:"warehouse_stock"`
	SiteStock      int `json:"site_stock"`

	ConsumptionRatePerDay   decimal.Decimal     `json:"consumption_rate_per_day"`
	DaysOfStockRemaining    decimal.NullDecimal `json:"days_of_stock_remaining"` // null = sin datos de consumo
	RecommendedMinimumStock int                 `json:"recommended_minimum_stock"`

	RecommendedAction string   `json:"recommended_action"`
	Severity          Severity `json:"severity"`
}

// InventoryOptimizationReport consumibles analizados y solo los que requieren acción.
type InventoryOptimizationReport struct {
	PeriodStart  time.Time `json:"period_start"`
	PeriodEnd    time.Time `json:"period_end"`
	LeadTimeDays int       `json:"lead_time_days"`

	TotalConsumables   int `json:"total_consumables"` // incluye los sanos
	CriticalCount      int `json:"critical_count"`
	WarningCount       int `json:"warning_count"`
	OverstockCount     int `json:"overstock_count"`
	HealthyCount       int `json:"healthy_count"`
	NoConsumptionCount int `json:"no_consumption_count"`

	Optimizations []OptimizationEntry `json:"optimizations"`
	SkippedCount  int                 `json:"skipped_count"`
}

// AnalyzeInventoryOptimization estima la tasa de consumo diaria de cada consumible, su cobertura
// en días y el stock mínimo recomendado (tasa × plazo de reposición), y marca los que requieren
// reponer o están sobredimensionados.
func AnalyzeInventoryOptimization(in InventoryInput, opts ...OptimizerOption) (*InventoryOptimizationReport, error) {
	if err := in.Window.Validate(); err != nil {
		return nil, err
	}
	cfg := optimizerConfig{leadTimeDays: DefaultLeadTimeDays}
	for _, opt := range opts {
		opt(&cfg)
	}
	leadTime := decimal.NewFromInt(int64(cfg.leadTimeDays))
	warningLimit := leadTime.Mul(decimal.NewFromInt(2))

	consumables := make(map[string]entity.Asset, len(in.Consumables))
	for _, a := range in.Consumables {
		if a.IsConsumable {
			consumables[a.ID] = a
		}
	}

	skipped := 0
	warehouse := make(map[string]int)
	site := make(map[string]int)
	stock := make(map[string]int)
	for _, s := range in.InventorySnapshots {
		if _, ok := consumables[s.AssetID]; !ok {
			skipped++
			continue
		}
		stock[s.AssetID] += s.Quantity
		switch s.LocationType {
		case entity.LocationWarehouse:
			warehouse[s.AssetID] += s.Quantity
		case entity.LocationSite:
			site[s.AssetID] += s.Quantity
		}
	}

	consumed := make(map[string]int64)
	for _, m := range in.ConsumptionMovements {
		if _, ok := consumables[m.AssetID]; !ok {
			skipped++
			continue
		}
		if m.Type != entity.MovementConsumption || !in.Window.Contains(m.OccurredAt) {
			continue
		}
		q := int64(m.Quantity)
		if q < 0 {
			q = -q
		}
		consumed[m.AssetID] += q
	}

	report := &InventoryOptimizationReport{
		PeriodStart:   in.Window.Start,
		PeriodEnd:     in.Window.End,
		LeadTimeDays:  cfg.leadTimeDays,
		Optimizations: []OptimizationEntry{},
	}
	days := in.Window.Days()

	for _, a := range in.Consumables {
		if !a.IsConsumable {
			continue
		}
		report.TotalConsumables++

		total := consumed[a.ID]
		if total == 0 || !days.IsPositive() {
			report.NoConsumptionCount++
			continue
		}

		current := decimal.NewFromInt(int64(stock[a.ID]))
		rate := decimal.NewFromInt(total).Div(days)
		remaining := current.Div(rate)
		if remaining.IsNegative() {
			remaining = zero
		}
		minStock := rate.Mul(leadTime).Ceil()

		var severity Severity
		var action string
		switch {
		case remaining.LessThan(leadTime):
			severity, action = SeverityCritical, ActionReorderNow
			report.CriticalCount++
		case remaining.LessThan(warningLimit):
			severity, action = SeverityWarning, ActionReorderSoon
			report.WarningCount++
		case current.GreaterThan(minStock.Mul(decimal.NewFromInt(overstockFactor))):
			severity, action = SeverityInfo, ActionReduceMinimum
			report.OverstockCount++
		default:
			report.HealthyCount++
			continue
		}

		report.Optimizations = append(report.Optimizations, OptimizationEntry{
			ToolID:                  a.ID,
			ToolName:                a.Name,
			CategoryName:            a.CategoryName,
			CurrentStock:            stock[a.ID],
			WarehouseStock:          warehouse[a.ID],
			SiteStock:               site[a.ID],
			ConsumptionRatePerDay:   rate.Round(2),
			DaysOfStockRemaining:    nullDecimal(remaining.Round(1)),
			RecommendedMinimumStock: int(minStock.IntPart()),
			RecommendedAction:       action,
			Severity:                severity,
		})
	}

	sort.SliceStable(report.Optimizations, func(i, j int) bool {
		a, b := report.Optimizations[i], report.Optimizations[j]
		if a.Severity != b.Severity {
			return severityRank[a.Severity] < severityRank[b.Severity]
		}
		return a.DaysOfStockRemaining.Decimal.LessThan(b.DaysOfStockRemaining.Decimal)
	})
	report.SkippedCount = skipped
	return report, nil
}
