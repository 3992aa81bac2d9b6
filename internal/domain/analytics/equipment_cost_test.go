package analytics_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/field-assets-api/internal/domain/analytics"
	"github.com/jhoicas/field-assets-api/internal/domain/entity"
)

var equipmentNow = day(2025, time.October, 15)

func customLife() analytics.UsefulLifeTable {
	table := analytics.DefaultUsefulLifeTable()
	table.ByCategory["custom"] = 5
	return table
}

func ownedExcavator() entity.EquipmentAsset {
	return entity.EquipmentAsset{
		ID:            "e1",
		Code:          "EXC-01",
		Name:          "Excavadora 320",
		CategoryCode:  "custom",
		OwnershipType: entity.OwnershipOwned,
		PurchaseDate:  ptr(day(2022, time.October, 15)),
		PurchasePrice: money(1000000),
	}
}

func leasedCrane() entity.EquipmentAsset {
	return entity.EquipmentAsset{
		ID:                "e2",
		Code:              "GRU-02",
		Name:              "Grúa torre",
		CategoryCode:      "crane",
		OwnershipType:     entity.OwnershipLeased,
		MonthlyCost:       money(100000),
		ContractStartDate: ptr(day(2025, time.January, 1)),
		ContractEndDate:   ptr(day(2026, time.January, 1)),
	}
}

func maintenanceFor(id string) []entity.MaintenanceRecord {
	return []entity.MaintenanceRecord{
		{AssetID: id, Cost: money(5000), PerformedAt: day(2025, time.October, 3)},
		{AssetID: id, Cost: money(20000), PerformedAt: day(2025, time.March, 10)},
		{AssetID: id, Cost: money(7000), PerformedAt: day(2024, time.December, 20)},
		{AssetID: id, PerformedAt: day(2025, time.June, 1)},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Depreciación
// ──────────────────────────────────────────────────────────────────────────────

func TestCalculateDepreciation_TresDeCincoAnios(t *testing.T) {
	d := analytics.CalculateDepreciation(ownedExcavator(), equipmentNow, customLife())
	require.NotNil(t, d)

	assert.Equal(t, analytics.MethodStraightLine, d.Method)
	assert.Equal(t, 5, d.UsefulLifeYears)
	assert.Equal(t, "3", d.YearsElapsed.String())
	assert.Equal(t, "200000", d.AnnualDepreciation.String())
	assert.Equal(t, "600000", d.AccumulatedDepreciation.String())
	assert.Equal(t, "400000", d.BookValue.String())
	assert.Equal(t, "0.6", d.DepreciationRate.String())
	assert.False(t, d.DepreciationComplete)
	assert.False(t, d.MissingPurchaseDate)
}

func TestCalculateDepreciation_VidaUtilAgotada(t *testing.T) {
	eq := ownedExcavator()
	eq.CategoryCode = "backhoe"
	eq.PurchaseDate = ptr(day(2010, time.January, 1))

	d := analytics.CalculateDepreciation(eq, equipmentNow, analytics.DefaultUsefulLifeTable())
	require.NotNil(t, d)

	assert.Equal(t, 6, d.UsefulLifeYears)
	assert.Equal(t, "1000000", d.AccumulatedDepreciation.String(), "nunca supera el precio")
	assert.True(t, d.BookValue.IsZero())
	assert.Equal(t, "1", d.DepreciationRate.String())
	assert.True(t, d.DepreciationComplete)
}

func TestCalculateDepreciation_SinPrecio_TasaCero(t *testing.T) {
	eq := ownedExcavator()
	eq.PurchasePrice = decimal.NullDecimal{}

	d := analytics.CalculateDepreciation(eq, equipmentNow, customLife())
	require.NotNil(t, d)
	assert.True(t, d.DepreciationRate.IsZero())
	assert.True(t, d.BookValue.IsZero())
	assert.True(t, d.DepreciationComplete)
}

func TestCalculateDepreciation_SinFechaDeCompra_Marcado(t *testing.T) {
	eq := ownedExcavator()
	eq.PurchaseDate = nil

	d := analytics.CalculateDepreciation(eq, equipmentNow, customLife())
	require.NotNil(t, d, "sigue siendo un equipo propio")
	assert.True(t, d.MissingPurchaseDate)
	assert.True(t, d.YearsElapsed.IsZero())
	assert.True(t, d.AccumulatedDepreciation.IsZero())
	assert.False(t, d.DepreciationComplete)
}

func TestCalculateDepreciation_NoPropio_Nil(t *testing.T) {
	assert.Nil(t, analytics.CalculateDepreciation(leasedCrane(), equipmentNow, customLife()))
}

func TestUsefulLifeTable_YearsFor(t *testing.T) {
	table := analytics.DefaultUsefulLifeTable()
	assert.Equal(t, 4, table.YearsFor("dump_truck"))
	assert.Equal(t, analytics.DefaultUsefulLifeYears, table.YearsFor("desconocida"))
	assert.Equal(t, analytics.DefaultUsefulLifeYears, analytics.UsefulLifeTable{}.YearsFor("crane"),
		"tabla vacía cae al valor por defecto")
}

func TestCalculateDepreciation_CotasEnTodaLaVida(t *testing.T) {
	eq := ownedExcavator()
	price := eq.PurchasePrice.Decimal
	for months := -3; months <= 90; months++ {
		now := eq.PurchaseDate.AddDate(0, months, 0)
		d := analytics.CalculateDepreciation(eq, now, customLife())
		require.NotNil(t, d)

		assert.False(t, d.AccumulatedDepreciation.IsNegative(), "mes %d", months)
		assert.True(t, d.AccumulatedDepreciation.LessThanOrEqual(price), "mes %d", months)
		assert.True(t, d.BookValue.Equal(price.Sub(d.AccumulatedDepreciation)), "mes %d", months)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Resumen de costo por equipo
// ──────────────────────────────────────────────────────────────────────────────

func TestGenerateEquipmentCostSummary_Propio(t *testing.T) {
	s := analytics.GenerateEquipmentCostSummary(ownedExcavator(), maintenanceFor("e1"), equipmentNow, customLife())

	require.True(t, s.BookValue.Valid)
	assert.Equal(t, "400000", s.BookValue.Decimal.String())
	require.True(t, s.Depreciation.Valid)
	assert.Equal(t, "600000", s.Depreciation.Decimal.String())
	assert.Nil(t, s.MonthsRemaining)

	assert.Equal(t, "5000", s.MaintenanceCostThisMonth.String())
	assert.Equal(t, "25000", s.MaintenanceCostThisYear.String())
	assert.Equal(t, "32000", s.MaintenanceCostTotal.String())

	assert.Equal(t, "21666.67", s.TotalCostThisMonth.String(), "anual/12 + mantenimiento del mes")
	assert.Empty(t, s.DataQualityNotes)
	assert.Equal(t, "225000", s.TotalCostThisYear.String())
}

func TestGenerateEquipmentCostSummary_PropioSinFechaDeCompra(t *testing.T) {
	eq := ownedExcavator()
	eq.PurchaseDate = nil

	s := analytics.GenerateEquipmentCostSummary(eq, maintenanceFor("e1"), equipmentNow, customLife())

	assert.False(t, s.BookValue.Valid, "valor en libros desconocido, no el precio completo")
	assert.False(t, s.Depreciation.Valid)
	assert.True(t, s.DepreciationRate.IsZero())
	require.Len(t, s.DataQualityNotes, 1)
	assert.Equal(t, analytics.NoteMissingPurchaseDate, s.DataQualityNotes[0].Kind)
	assert.Equal(t, "e1", s.DataQualityNotes[0].AssetID)
	assert.Equal(t, "5000", s.TotalCostThisMonth.String(), "solo mantenimiento")
	assert.Equal(t, "25000", s.TotalCostThisYear.String())
}

func TestGenerateEquipmentCostSummary_Leasing(t *testing.T) {
	records := append(maintenanceFor("e2"), entity.MaintenanceRecord{
		AssetID: "otro", Cost: money(999), PerformedAt: day(2025, time.October, 1),
	})

	s := analytics.GenerateEquipmentCostSummary(leasedCrane(), records, equipmentNow, customLife())

	assert.False(t, s.BookValue.Valid)
	assert.False(t, s.Depreciation.Valid)
	require.NotNil(t, s.MonthsRemaining)
	assert.Equal(t, 3, *s.MonthsRemaining)
	assert.Equal(t, "1200000", s.TotalLeaseCost.String())
	assert.Equal(t, "105000", s.TotalCostThisMonth.String())
	assert.Equal(t, "1225000", s.TotalCostThisYear.String())
	assert.Equal(t, 1, s.SkippedCount, "registro de otro equipo")
}

func TestGenerateEquipmentCostSummary_ContratoVencido(t *testing.T) {
	eq := leasedCrane()
	eq.OwnershipType = entity.OwnershipRented
	eq.ContractEndDate = ptr(day(2025, time.March, 1))

	s := analytics.GenerateEquipmentCostSummary(eq, nil, equipmentNow, customLife())

	require.NotNil(t, s.MonthsRemaining)
	assert.Equal(t, 0, *s.MonthsRemaining, "nunca negativo")
	assert.Equal(t, "200000", s.TotalLeaseCost.String())
	assert.True(t, s.MaintenanceCostTotal.IsZero())
}

// ──────────────────────────────────────────────────────────────────────────────
// Reporte de flota
// ──────────────────────────────────────────────────────────────────────────────

func TestGenerateFleetCostReport_AgrupaPorTenencia(t *testing.T) {
	rented := entity.EquipmentAsset{
		ID: "e3", Code: "VOL-03", Name: "Volqueta", CategoryCode: "dump_truck",
		OwnershipType: entity.OwnershipRented, MonthlyCost: money(50000),
	}

	report, err := analytics.GenerateFleetCostReport(analytics.FleetInput{
		Equipment: []entity.EquipmentAsset{ownedExcavator(), leasedCrane(), rented},
		MaintenanceRecords: []entity.MaintenanceRecord{
			{AssetID: "e1", Cost: money(10000), PerformedAt: day(2025, time.February, 1)},
			{AssetID: "e2", Cost: money(3000), PerformedAt: day(2025, time.August, 1)},
			{AssetID: "fantasma", Cost: money(1), PerformedAt: day(2025, time.February, 1)},
		},
		Window:     mustWindow(t, day(2025, time.January, 1), day(2025, time.June, 30)),
		Now:        equipmentNow,
		UsefulLife: customLife(),
	})
	require.NoError(t, err)

	assert.Equal(t, 6, report.PeriodMonths)
	assert.Equal(t, 1, report.OwnedCount)
	assert.Equal(t, 1, report.LeasedCount)
	assert.Equal(t, 1, report.RentedCount)
	assert.Equal(t, 3, report.TotalEquipmentCount)
	assert.Equal(t, "400000", report.OwnedBookValue.String())
	assert.Equal(t, "10000", report.OwnedMaintenanceCost.String())
	assert.Equal(t, "600000", report.LeasedPeriodCost.String())
	assert.Equal(t, "300000", report.RentedPeriodCost.String())
	assert.Equal(t, "150000", report.TotalMonthlyCost.String())
	assert.Equal(t, "900000", report.TotalPeriodCost.String())
	assert.Equal(t, "10000", report.TotalMaintenanceCost.String(), "mantenimiento fuera del período no cuenta")
	assert.Equal(t, "910000", report.GrandTotalCost.String())
	assert.Equal(t, 1, report.SkippedCount)
	require.Len(t, report.EquipmentDetails, 3)
	assert.Equal(t, "3000", report.EquipmentDetails[1].MaintenanceCostTotal.String())
}
