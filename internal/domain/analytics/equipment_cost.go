package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/field-assets-api/internal/domain/entity"
)

// DefaultUsefulLifeYears vida útil cuando la categoría no tiene valor propio.
const DefaultUsefulLifeYears = 7

// MethodStraightLine depreciación lineal (cuotas anuales iguales).
const MethodStraightLine = "straight_line"

// UsefulLifeTable vida útil (años) por código de categoría de maquinaria.
type UsefulLifeTable struct {
	Default    int
	ByCategory map[string]int
}

// DefaultUsefulLifeTable valores legales habituales para maquinaria de construcción.
func DefaultUsefulLifeTable() UsefulLifeTable {
	return UsefulLifeTable{
		Default: DefaultUsefulLifeYears,
		ByCategory: map[string]int{
			"backhoe":     6,
			"dump_truck":  4,
			"crane":       7,
			"bulldozer":   6,
			"roller":      6,
			"excavator":   6,
			"forklift":    4,
			"mixer_truck": 4,
		},
	}
}

// YearsFor vida útil de la categoría; cae al valor por defecto (y a 7 si este no es válido).
func (t UsefulLifeTable) YearsFor(categoryCode string) int {
	if y, ok := t.ByCategory[categoryCode]; ok && y > 0 {
		return y
	}
	if t.Default > 0 {
		return t.Default
	}
	return DefaultUsefulLifeYears
}

// DepreciationDetail depreciación lineal de un equipo propio.
type DepreciationDetail struct {
	EquipmentID             string          `json:"equipment_id"`
	Method                  string          `json:"depreciation_method"`
	PurchasePrice           decimal.Decimal `json:"purchase_price"`
	PurchaseDate            *time.Time      `json:"purchase_date"`
	UsefulLifeYears         int             `json:"useful_life_years"`
	YearsElapsed            decimal.Decimal `json:"years_elapsed"`
	AnnualDepreciation      decimal.Decimal `json:"annual_depreciation"`
	AccumulatedDepreciation decimal.Decimal `json:"accumulated_depreciation"`
	BookValue               decimal.Decimal `json:"book_value"`
	DepreciationRate        decimal.Decimal `json:"depreciation_rate"` // acumulada / precio de compra
	DepreciationComplete    bool            `json:"depreciation_complete"`
	MissingPurchaseDate     bool            `json:"missing_purchase_date"` // sin fecha no hay depreciación que calcular
}

// CalculateDepreciation depreciación lineal a la fecha now. Devuelve nil si el equipo no es propio.
//
// Sin precio de compra (nulo o 0) el equipo se considera totalmente depreciado y sin datos:
// depreciación y tasa 0, sin dividir por cero. Sin fecha de compra el detalle sale marcado con
// MissingPurchaseDate, sin años transcurridos ni depreciación acumulada.
func CalculateDepreciation(eq entity.EquipmentAsset, now time.Time, table UsefulLifeTable) *DepreciationDetail {
	if eq.OwnershipType != entity.OwnershipOwned {
		return nil
	}

	price := safeAmount(eq.PurchasePrice)
	life := table.YearsFor(eq.CategoryCode)
	lifeDec := decimal.NewFromInt(int64(life))

	elapsed := zero
	if eq.PurchaseDate != nil {
		elapsed = YearsBetween(*eq.PurchaseDate, now)
	}

	annual := price.Div(lifeDec)
	accumulated := decimal.Min(price, annual.Mul(elapsed))
	rate := zero
	if price.IsPositive() {
		rate = accumulated.Div(price).Round(4)
	}

	return &DepreciationDetail{
		EquipmentID:             eq.ID,
		Method:                  MethodStraightLine,
		PurchasePrice:           price,
		PurchaseDate:            eq.PurchaseDate,
		UsefulLifeYears:         life,
		YearsElapsed:            elapsed.Round(2),
		AnnualDepreciation:      annual.Round(2),
		AccumulatedDepreciation: accumulated.Round(2),
		BookValue:               price.Sub(accumulated).Round(2),
		DepreciationRate:        rate,
		DepreciationComplete:    !price.IsPositive() || elapsed.GreaterThanOrEqual(lifeDec),
		MissingPurchaseDate:     eq.PurchaseDate == nil,
	}
}

// CostSummary costo total de tenencia de un equipo a la fecha now.
type CostSummary struct {
	EquipmentID   string               `json:"equipment_id"`
	EquipmentCode string               `json:"equipment_code"`
	EquipmentName string               `json:"equipment_name"`
	OwnershipType entity.OwnershipType `json:"ownership_type"`

	// Propios
	BookValue        decimal.NullDecimal `json:"book_value"`
	Depreciation     decimal.NullDecimal `json:"depreciation"`
	DepreciationRate decimal.Decimal     `json:"depreciation_rate"`

	// Leasing / alquiler
	MonthlyCost     decimal.NullDecimal `json:"monthly_cost"`
	MonthsRemaining *int                `json:"months_remaining"`
	TotalLeaseCost  decimal.Decimal     `json:"total_lease_cost"`

	MaintenanceCostThisMonth decimal.Decimal `json:"maintenance_cost_this_month"`
	MaintenanceCostThisYear  decimal.Decimal `json:"maintenance_cost_this_year"`
	MaintenanceCostTotal     decimal.Decimal `json:"maintenance_cost_total"`

	TotalCostThisMonth decimal.Decimal `json:"total_cost_this_month"`
	TotalCostThisYear  decimal.Decimal `json:"total_cost_this_year"`

	SkippedCount     int               `json:"skipped_count"`
	DataQualityNotes []DataQualityNote `json:"data_quality_notes"`
}

// GenerateEquipmentCostSummary combina depreciación (propios) o cuota de contrato
// (leasing/alquiler) con el mantenimiento del mes, del año calendario y total.
func GenerateEquipmentCostSummary(
	eq entity.EquipmentAsset,
	records []entity.MaintenanceRecord,
	now time.Time,
	table UsefulLifeTable,
) CostSummary {
	summary := CostSummary{
		EquipmentID:      eq.ID,
		EquipmentCode:    eq.Code,
		EquipmentName:    eq.Name,
		OwnershipType:    eq.OwnershipType,
		MonthlyCost:      eq.MonthlyCost,
		DepreciationRate: zero,
		TotalLeaseCost:   zero,
		DataQualityNotes: []DataQualityNote{},
	}

	month, year, total, skipped := maintenanceTotals(eq.ID, records, now)
	summary.MaintenanceCostThisMonth = month.Round(2)
	summary.MaintenanceCostThisYear = year.Round(2)
	summary.MaintenanceCostTotal = total.Round(2)
	summary.SkippedCount = skipped

	monthlyCharge, annualCharge := zero, zero
	switch {
	case eq.OwnershipType == entity.OwnershipOwned:
		d := CalculateDepreciation(eq, now, table)
		if d.MissingPurchaseDate {
			summary.DataQualityNotes = append(summary.DataQualityNotes, DataQualityNote{
				AssetID: eq.ID,
				Kind:    NoteMissingPurchaseDate,
				Message: "equipo propio sin fecha de compra; valor en libros desconocido",
			})
			break
		}
		summary.BookValue = nullDecimal(d.BookValue)
		summary.Depreciation = nullDecimal(d.AccumulatedDepreciation)
		summary.DepreciationRate = d.DepreciationRate
		annualCharge = d.AnnualDepreciation
		monthlyCharge = d.AnnualDepreciation.Div(twelve)
	case eq.OwnershipType.IsContract():
		monthly := safeAmount(eq.MonthlyCost)
		if eq.ContractEndDate != nil {
			remaining := max(CalendarMonthsBetween(now, *eq.ContractEndDate), 0)
			summary.MonthsRemaining = &remaining
		}
		if eq.ContractStartDate != nil && eq.ContractEndDate != nil {
			term := max(CalendarMonthsBetween(*eq.ContractStartDate, *eq.ContractEndDate), 0)
			summary.TotalLeaseCost = monthly.Mul(decimal.NewFromInt(int64(term))).Round(2)
		}
		monthlyCharge = monthly
		annualCharge = monthly.Mul(twelve)
	}

	summary.TotalCostThisMonth = monthlyCharge.Add(month).Round(2)
	summary.TotalCostThisYear = annualCharge.Add(year).Round(2)
	return summary
}

// maintenanceTotals suma el mantenimiento del equipo en el mes y año calendario de now y el total.
// Registros de otros equipos se descartan y se cuentan como omitidos.
func maintenanceTotals(equipmentID string, records []entity.MaintenanceRecord, now time.Time) (month, year, total decimal.Decimal, skipped int) {
	month, year, total = zero, zero, zero
	for _, r := range records {
		if r.AssetID != equipmentID {
			skipped++
			continue
		}
		cost := safeAmount(r.Cost)
		total = total.Add(cost)

		at := r.PerformedAt.In(now.Location())
		if at.Year() == now.Year() {
			year = year.Add(cost)
			if at.Month() == now.Month() {
				month = month.Add(cost)
			}
		}
	}
	return month, year, total, skipped
}
