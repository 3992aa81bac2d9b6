package analytics_test

import (
	"encoding/json"
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/field-assets-api/internal/domain"
	"github.com/jhoicas/field-assets-api/internal/domain/analytics"
	"github.com/jhoicas/field-assets-api/internal/domain/entity"
)

func year2025(t *testing.T) analytics.Window {
	return mustWindow(t, day(2025, time.January, 1), day(2026, time.January, 1))
}

func findCost(t *testing.T, r *analytics.CostReport, id string) analytics.ToolCostAnalysis {
	t.Helper()
	for _, an := range r.ToolAnalyses {
		if an.ToolID == id {
			return an
		}
	}
	require.FailNow(t, "activo no encontrado en el reporte", id)
	return analytics.ToolCostAnalysis{}
}

// ──────────────────────────────────────────────────────────────────────────────
// Costo por activo
// ──────────────────────────────────────────────────────────────────────────────

func TestAnalyzeCosts_ConsumibleCompraPedidoYMantenimiento(t *testing.T) {
	c1 := consumable("c1", "Brocas 10mm")
	c1.PurchasePrice = money(100000)
	c1.PurchaseDate = ptr(day(2025, time.March, 1))

	report, err := analytics.AnalyzeCosts(analytics.CostInput{
		Assets:              []entity.Asset{c1},
		ConsumableMovements: movesN("c1", 10, day(2025, time.June, 1)),
		Orders: []entity.OrderRecord{
			{AssetID: "c1", Cost: money(5000), Quantity: 10, OrderedAt: day(2025, time.April, 1)},
		},
		MaintenanceRecords: []entity.MaintenanceRecord{
			{AssetID: "c1", Cost: money(2000), PerformedAt: day(2025, time.May, 1)},
		},
		InventorySnapshots: []entity.InventorySnapshot{
			{AssetID: "c1", Location: "w1", LocationType: entity.LocationWarehouse, Quantity: 7},
		},
		Window: year2025(t),
	})
	require.NoError(t, err)
	require.Len(t, report.ToolAnalyses, 1)

	an := report.ToolAnalyses[0]
	assert.Equal(t, "107000", an.TotalCost.String(), "compra + pedidos + mantenimiento")
	require.True(t, an.CostPerMovement.Valid)
	assert.Equal(t, "10700", an.CostPerMovement.Decimal.String())
	assert.Equal(t, "5000", an.TotalOrderCost.String())
	assert.Equal(t, 10, an.TotalOrderedQuantity)
	require.True(t, an.AverageUnitPrice.Valid)
	assert.Equal(t, "500", an.AverageUnitPrice.Decimal.String())
	assert.Equal(t, "2000", an.TotalMaintenanceCost.String())
	assert.Equal(t, 7, an.CurrentInventory)
	assert.Equal(t, 10, an.MovementCount)
	assert.Equal(t, "100", an.CostEfficiencyScore.String(), "único activo con movimientos")
	assert.False(t, an.MissingCostData)

	assert.Equal(t, 1, report.TotalConsumables)
	assert.Equal(t, 0, report.TotalTools)
	assert.Equal(t, "107000", report.ConsumableCost.String())
	assert.True(t, report.ToolCost.IsZero())
	assert.Equal(t, "107000", report.TotalCost.String())
	assert.Empty(t, report.DataQualityNotes)
}

func TestAnalyzeCosts_SinMovimientos_PuntuacionCeroYCostoPorMovimientoNulo(t *testing.T) {
	report, err := analytics.AnalyzeCosts(analytics.CostInput{
		Assets: []entity.Asset{tool("t1", "Martillo", 50000, day(2025, time.February, 1))},
		Window: year2025(t),
	})
	require.NoError(t, err)

	an := findCost(t, report, "t1")
	assert.False(t, an.CostPerMovement.Valid, "sin movimientos no hay costo por movimiento")
	assert.True(t, an.CostEfficiencyScore.IsZero())
	assert.Equal(t, "50000", an.TotalCost.String())
	assert.Equal(t, 0, report.TotalTools, "solo cuentan activos con movimientos")
	assert.Equal(t, "50000", report.ToolCost.String(), "el costo sí se incluye en el total")
}

func TestAnalyzeCosts_TotalItemsDeLaHerramienta(t *testing.T) {
	t1 := tool("t1", "Martillo", 50000, day(2025, time.February, 1))
	t1.TotalItems = 4

	report, err := analytics.AnalyzeCosts(analytics.CostInput{
		Assets: []entity.Asset{t1, consumable("c1", "Guantes")},
		Window: year2025(t),
	})
	require.NoError(t, err)

	assert.Equal(t, 4, findCost(t, report, "t1").TotalItems)
	assert.Zero(t, findCost(t, report, "c1").TotalItems)

	raw, err := json.Marshal(findCost(t, report, "t1"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"total_items":4`)
}

func TestAnalyzeCosts_PuntuacionRelativaALaPoblacion(t *testing.T) {
	taladros := "Taladros"
	a := tool("a", "Taladro A", 1000, day(2025, time.February, 1))
	a.CategoryName = &taladros
	b := tool("b", "Taladro B", 2000, day(2025, time.February, 1))
	b.CategoryName = &taladros
	c := tool("c", "Sierra", 3000, day(2025, time.February, 1))
	d := tool("d", "Andamio", 500, day(2020, time.February, 1))

	var moves []entity.MovementRecord
	moves = append(moves, movesN("a", 10, day(2025, time.March, 1))...)
	moves = append(moves, movesN("b", 10, day(2025, time.March, 1))...)
	moves = append(moves, movesN("c", 10, day(2025, time.March, 1))...)

	report, err := analytics.AnalyzeCosts(analytics.CostInput{
		Assets:        []entity.Asset{a, b, c, d},
		ToolMovements: moves,
		Window:        year2025(t),
	})
	require.NoError(t, err)

	assert.Equal(t, "100", findCost(t, report, "a").CostEfficiencyScore.String(), "el más barato por uso")
	assert.Equal(t, "50", findCost(t, report, "b").CostEfficiencyScore.String())
	assert.Equal(t, "0", findCost(t, report, "c").CostEfficiencyScore.String(), "el más caro por uso")
	assert.True(t, findCost(t, report, "d").CostEfficiencyScore.IsZero())
	assert.True(t, findCost(t, report, "d").TotalCost.IsZero(), "compra fuera del período no se imputa")

	assert.Equal(t, 3, report.TotalTools)
	assert.Equal(t, "6000", report.ToolCost.String())

	require.Len(t, report.CostByCategory, 2)
	assert.Equal(t, "Taladros", report.CostByCategory[0].CategoryName)
	assert.Equal(t, 2, report.CostByCategory[0].ToolCount)
	assert.Equal(t, analytics.UncategorizedLabel, report.CostByCategory[1].CategoryName)
	assert.Equal(t, "3000", report.CostByCategory[1].TotalCost.String())
}

// ──────────────────────────────────────────────────────────────────────────────
// Calidad de datos y registros huérfanos
// ──────────────────────────────────────────────────────────────────────────────

func TestAnalyzeCosts_DatosFaltantesSeTomanComoCeroYSeInforman(t *testing.T) {
	sinPrecio := entity.Asset{ID: "t1", Name: "Nivel"}
	sinFecha := entity.Asset{ID: "t2", Name: "Pulidora", PurchasePrice: money(9000)}
	conMant := tool("t3", "Generador", 1000, day(2025, time.January, 10))
	insumo := consumable("c1", "Cinta")

	report, err := analytics.AnalyzeCosts(analytics.CostInput{
		Assets: []entity.Asset{sinPrecio, sinFecha, conMant, insumo},
		Orders: []entity.OrderRecord{
			{AssetID: "c1", Cost: money(-300), Quantity: 3, OrderedAt: day(2025, time.May, 1)},
		},
		MaintenanceRecords: []entity.MaintenanceRecord{
			{AssetID: "t3", PerformedAt: day(2025, time.June, 1)},
		},
		Window: year2025(t),
	})
	require.NoError(t, err)

	kinds := make(map[string]string)
	for _, n := range report.DataQualityNotes {
		kinds[n.AssetID] = n.Kind
	}
	assert.Equal(t, analytics.NoteMissingCost, kinds["t1"])
	assert.Equal(t, analytics.NoteMissingPurchaseDate, kinds["t2"])
	assert.Equal(t, analytics.NoteMissingCost, kinds["t3"])
	assert.Equal(t, analytics.NoteNegativeCost, kinds["c1"])

	assert.True(t, findCost(t, report, "t1").MissingCostData)
	assert.True(t, findCost(t, report, "t2").TotalCost.IsZero(), "sin fecha no se imputa la compra")
	assert.Equal(t, "1000", findCost(t, report, "t3").TotalCost.String(), "mantenimiento nulo suma 0")
	assert.True(t, findCost(t, report, "c1").TotalCost.IsZero(), "costo negativo suma 0")
}

func TestAnalyzeCosts_RegistrosDeActivosDesconocidosSeOmiten(t *testing.T) {
	report, err := analytics.AnalyzeCosts(analytics.CostInput{
		Assets:        []entity.Asset{tool("t1", "Martillo", 100, day(2025, time.February, 1))},
		ToolMovements: []entity.MovementRecord{move("fantasma", entity.MovementCheckout, day(2025, time.March, 1))},
		Orders:        []entity.OrderRecord{{AssetID: "fantasma", Cost: money(10), Quantity: 1, OrderedAt: day(2025, time.March, 1)}},
		MaintenanceRecords: []entity.MaintenanceRecord{
			{AssetID: "fantasma", Cost: money(10), PerformedAt: day(2025, time.March, 1)},
		},
		InventorySnapshots: []entity.InventorySnapshot{{AssetID: "fantasma", Quantity: 3}},
		Window:             year2025(t),
	})
	require.NoError(t, err)

	assert.Equal(t, 4, report.SkippedCount)
	assert.Len(t, report.ToolAnalyses, 1)
	assert.Equal(t, "100", report.TotalCost.String())
}

func TestAnalyzeCosts_VentanaVacia_ValidationError(t *testing.T) {
	start := day(2025, time.January, 1)
	_, err := analytics.AnalyzeCosts(analytics.CostInput{
		Assets: []entity.Asset{tool("t1", "Martillo", 100, start)},
		Window: analytics.Window{Start: start, End: start},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Propiedades
// ──────────────────────────────────────────────────────────────────────────────

func randomCostInput(t *testing.T, seed int64) analytics.CostInput {
	rng := rand.New(rand.NewSource(seed))
	in := analytics.CostInput{Window: year2025(t)}
	for i := 0; i < 30; i++ {
		id := string(rune('a'+i%26)) + string(rune('0'+i/26))
		var a entity.Asset
		if i%3 == 0 {
			a = consumable(id, "Insumo "+id)
			in.Orders = append(in.Orders, entity.OrderRecord{
				AssetID: id, Cost: money(rng.Int63n(5000)), Quantity: 1 + rng.Intn(20),
				OrderedAt: day(2025, time.Month(1+rng.Intn(12)), 1+rng.Intn(28)),
			})
			in.ConsumableMovements = append(in.ConsumableMovements, movesN(id, rng.Intn(15), day(2025, time.April, 1))...)
		} else {
			a = tool(id, "Herramienta "+id, rng.Int63n(100000), day(2025, time.Month(1+rng.Intn(12)), 1+rng.Intn(28)))
			in.ToolMovements = append(in.ToolMovements, movesN(id, rng.Intn(15), day(2025, time.April, 1))...)
		}
		in.Assets = append(in.Assets, a)
	}
	return in
}

func TestAnalyzeCosts_Propiedades(t *testing.T) {
	hundred := decimal.NewFromInt(100)
	for seed := int64(1); seed <= 5; seed++ {
		report, err := analytics.AnalyzeCosts(randomCostInput(t, seed))
		require.NoError(t, err)

		assert.True(t, report.TotalCost.Equal(report.ToolCost.Add(report.ConsumableCost)),
			"total = herramientas + consumibles")

		for _, a := range report.ToolAnalyses {
			assert.False(t, a.CostEfficiencyScore.IsNegative(), "score >= 0")
			assert.True(t, a.CostEfficiencyScore.LessThanOrEqual(hundred), "score <= 100")
			if a.MovementCount == 0 {
				assert.True(t, a.CostEfficiencyScore.IsZero())
			}
			for _, b := range report.ToolAnalyses {
				if !a.CostPerMovement.Valid || !b.CostPerMovement.Valid {
					continue
				}
				if a.CostPerMovement.Decimal.LessThan(b.CostPerMovement.Decimal) {
					assert.True(t, a.CostEfficiencyScore.GreaterThanOrEqual(b.CostEfficiencyScore),
						"menor costo por movimiento nunca puntúa menos (%s vs %s)", a.ToolID, b.ToolID)
				}
			}
		}
	}
}

func TestAnalyzeCosts_Idempotente(t *testing.T) {
	in := randomCostInput(t, 42)

	first, err := analytics.AnalyzeCosts(in)
	require.NoError(t, err)
	second, err := analytics.AnalyzeCosts(in)
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b), "mismas entradas, mismo reporte byte a byte")
}
