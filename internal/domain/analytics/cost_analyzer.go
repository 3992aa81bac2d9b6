package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/field-assets-api/internal/domain/entity"
)

// UncategorizedLabel agrupa en cost_by_category los activos sin categoría.
const UncategorizedLabel = "uncategorized"

// CostInput registros crudos para el análisis de costos de un período.
type CostInput struct {
	Assets              []entity.Asset
	ToolMovements       []entity.MovementRecord
	ConsumableMovements []entity.MovementRecord
	Orders              []entity.OrderRecord
	MaintenanceRecords  []entity.MaintenanceRecord
	InventorySnapshots  []entity.InventorySnapshot
	Window              Window
}

// ToolCostAnalysis costo y eficiencia de un activo en el período.
type ToolCostAnalysis struct {
	ToolID        string              `json:"tool_id"`
	ToolName      string              `json:"tool_name"`
	CategoryName  *string             `json:"category_name"`
	IsConsumable  bool                `json:"is_consumable"`
	PurchasePrice decimal.NullDecimal `json:"purchase_price"`
	PurchaseDate  *time.Time          `json:"purchase_date"`
	TotalItems    int                 `json:"total_items"` // unidades individuales registradas

	TotalOrderCost       decimal.Decimal     `json:"total_order_cost"`       // solo consumibles
	TotalOrderedQuantity int                 `json:"total_ordered_quantity"` // solo consumibles
	AverageUnitPrice     decimal.NullDecimal `json:"average_unit_price"`     // TotalOrderCost / TotalOrderedQuantity
	TotalMaintenanceCost decimal.Decimal     `json:"total_maintenance_cost"`
	TotalCost            decimal.Decimal     `json:"total_cost"` // compra (si se adquirió en el período) + pedidos + mantenimiento

	CurrentInventory int                 `json:"current_inventory"` // existencias actuales (consumibles)
	MovementCount    int                 `json:"movement_count"`
	CostPerMovement  decimal.NullDecimal `json:"cost_per_movement"` // null si no hubo movimientos

	CostEfficiencyScore decimal.Decimal `json:"cost_efficiency_score"` // 0-100 relativo a la población
	MissingCostData     bool            `json:"missing_cost_data"`
}

// CategoryCost costo agregado por categoría.
type CategoryCost struct {
	CategoryName string          `json:"category_name"`
	TotalCost    decimal.Decimal `json:"total_cost"`
	ToolCount    int             `json:"tool_count"`
}

// CostReport resultado del análisis de costos.
type CostReport struct {
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`

	TotalTools       int             `json:"total_tools"`       // herramientas con movimientos en el período
	TotalConsumables int             `json:"total_consumables"` // consumibles con movimientos en el período
	TotalCost        decimal.Decimal `json:"total_cost"`
	ToolCost         decimal.Decimal `json:"tool_cost"`
	ConsumableCost   decimal.Decimal `json:"consumable_cost"`

	CostByCategory   []CategoryCost     `json:"cost_by_category"`
	ToolAnalyses     []ToolCostAnalysis `json:"tool_analyses"`
	SkippedCount     int                `json:"skipped_count"`
	DataQualityNotes []DataQualityNote  `json:"data_quality_notes"`
}

// AnalyzeCosts calcula el costo por activo, la puntuación de eficiencia de costo y los totales
// de la organización para la ventana indicada.
//
// La puntuación es relativa: los activos con cost_per_movement definido se ordenan de menor a
// mayor; el más barato por uso obtiene 100 y el más caro ~0. Sin movimientos, la puntuación es 0.
func AnalyzeCosts(in CostInput) (*CostReport, error) {
	if err := in.Window.Validate(); err != nil {
		return nil, err
	}

	known := indexAssets(in.Assets)
	notes := newNoteBook()
	skipped := 0

	// 1) Movimientos del período (herramientas + consumibles)
	movementCount := make(map[string]int)
	for _, list := range [][]entity.MovementRecord{in.ToolMovements, in.ConsumableMovements} {
		for _, m := range list {
			if _, ok := known[m.AssetID]; !ok {
				skipped++
				continue
			}
			if in.Window.Contains(m.OccurredAt) {
				movementCount[m.AssetID]++
			}
		}
	}

	// 2) Pedidos de consumibles del período
	orderCost := make(map[string]decimal.Decimal)
	orderQty := make(map[string]int)
	for _, o := range in.Orders {
		a, ok := known[o.AssetID]
		if !ok {
			skipped++
			continue
		}
		if !a.IsConsumable || !in.Window.Contains(o.OrderedAt) {
			continue
		}
		orderCost[o.AssetID] = orderCost[o.AssetID].Add(notes.amount(o.AssetID, o.Cost, "pedido"))
		orderQty[o.AssetID] += o.Quantity
	}

	// 3) Mantenimiento del período
	maintenanceCost := make(map[string]decimal.Decimal)
	for _, r := range in.MaintenanceRecords {
		if _, ok := known[r.AssetID]; !ok {
			skipped++
			continue
		}
		if !in.Window.Contains(r.PerformedAt) {
			continue
		}
		maintenanceCost[r.AssetID] = maintenanceCost[r.AssetID].Add(notes.amount(r.AssetID, r.Cost, "mantenimiento"))
	}

	// 4) Existencias actuales (no dependen de la ventana)
	inventory := make(map[string]int)
	for _, s := range in.InventorySnapshots {
		if _, ok := known[s.AssetID]; !ok {
			skipped++
			continue
		}
		inventory[s.AssetID] += s.Quantity
	}

	analyses := make([]ToolCostAnalysis, 0, len(in.Assets))
	for _, a := range in.Assets {
		purchase := purchaseCostInWindow(a, in.Window, notes)
		totalCost := purchase.Add(orderCost[a.ID]).Add(maintenanceCost[a.ID])
		count := movementCount[a.ID]

		var perMovement decimal.NullDecimal
		if count > 0 {
			perMovement = nullDecimal(totalCost.Div(decimal.NewFromInt(int64(count))))
		}

		var avgUnit decimal.NullDecimal
		if qty := orderQty[a.ID]; qty > 0 {
			avgUnit = nullDecimal(orderCost[a.ID].Div(decimal.NewFromInt(int64(qty))).Round(2))
		}

		current := 0
		if a.IsConsumable {
			current = inventory[a.ID]
		}

		analyses = append(analyses, ToolCostAnalysis{
			ToolID:               a.ID,
			ToolName:             a.Name,
			CategoryName:         a.CategoryName,
			IsConsumable:         a.IsConsumable,
			PurchasePrice:        a.PurchasePrice,
			PurchaseDate:         a.PurchaseDate,
			TotalItems:           a.TotalItems,
			TotalOrderCost:       orderCost[a.ID].Round(2),
			TotalOrderedQuantity: orderQty[a.ID],
			AverageUnitPrice:     avgUnit,
			TotalMaintenanceCost: maintenanceCost[a.ID].Round(2),
			TotalCost:            totalCost.Round(2),
			CurrentInventory:     current,
			MovementCount:        count,
			CostPerMovement:      perMovement,
			CostEfficiencyScore:  zero,
		})
	}

	// 5) Puntuación relativa: solo activos con cost_per_movement definido
	var scored []int
	var values []decimal.Decimal
	for i, an := range analyses {
		if an.CostPerMovement.Valid {
			scored = append(scored, i)
			values = append(values, an.CostPerMovement.Decimal)
		}
	}
	for k, score := range rankScores(values, false) {
		analyses[scored[k]].CostEfficiencyScore = clampScore(score)
	}
	for i := range analyses {
		if analyses[i].CostPerMovement.Valid {
			analyses[i].CostPerMovement = nullDecimal(analyses[i].CostPerMovement.Decimal.Round(2))
		}
		analyses[i].MissingCostData = notes.flagged[analyses[i].ToolID]
	}

	report := &CostReport{
		PeriodStart:      in.Window.Start,
		PeriodEnd:        in.Window.End,
		TotalCost:        zero,
		ToolCost:         zero,
		ConsumableCost:   zero,
		CostByCategory:   costByCategory(analyses),
		ToolAnalyses:     analyses,
		SkippedCount:     skipped,
		DataQualityNotes: notes.notes,
	}
	for _, an := range analyses {
		if an.IsConsumable {
			report.ConsumableCost = report.ConsumableCost.Add(an.TotalCost)
			if an.MovementCount > 0 {
				report.TotalConsumables++
			}
		} else {
			report.ToolCost = report.ToolCost.Add(an.TotalCost)
			if an.MovementCount > 0 {
				report.TotalTools++
			}
		}
	}
	report.TotalCost = report.ToolCost.Add(report.ConsumableCost)
	return report, nil
}

// purchaseCostInWindow el precio de compra cuenta una sola vez: en el período que contiene la
// fecha de adquisición. Así ventanas solapadas no lo duplican.
func purchaseCostInWindow(a entity.Asset, w Window, notes *noteBook) decimal.Decimal {
	if !a.PurchasePrice.Valid {
		if !a.IsConsumable {
			notes.add(a.ID, NoteMissingCost, "herramienta sin precio de compra")
		}
		return zero
	}
	if a.PurchasePrice.Decimal.IsNegative() {
		notes.add(a.ID, NoteNegativeCost, fmt.Sprintf("precio de compra negativo (%s); se toma 0", a.PurchasePrice.Decimal.String()))
		return zero
	}
	if a.PurchaseDate == nil {
		notes.add(a.ID, NoteMissingPurchaseDate, "precio de compra sin fecha de adquisición; no se imputa al período")
		return zero
	}
	if !w.Contains(*a.PurchaseDate) {
		return zero
	}
	return a.PurchasePrice.Decimal
}

// costByCategory agrega por categoría; orden: mayor costo primero, luego nombre.
func costByCategory(analyses []ToolCostAnalysis) []CategoryCost {
	byName := make(map[string]*CategoryCost)
	for _, an := range analyses {
		name := UncategorizedLabel
		if an.CategoryName != nil && *an.CategoryName != "" {
			name = *an.CategoryName
		}
		c, ok := byName[name]
		if !ok {
			c = &CategoryCost{CategoryName: name, TotalCost: zero}
			byName[name] = c
		}
		c.TotalCost = c.TotalCost.Add(an.TotalCost)
		c.ToolCount++
	}

	out := make([]CategoryCost, 0, len(byName))
	for _, c := range byName {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].TotalCost.Equal(out[j].TotalCost) {
			return out[i].TotalCost.GreaterThan(out[j].TotalCost)
		}
		return out[i].CategoryName < out[j].CategoryName
	})
	return out
}
