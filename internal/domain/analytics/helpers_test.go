package analytics_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/field-assets-api/internal/domain/analytics"
	"github.com/jhoicas/field-assets-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T { return &v }

func money(v int64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromInt(v))
}

func mustWindow(t *testing.T, start, end time.Time) analytics.Window {
	t.Helper()
	w, err := analytics.NewWindow(start, end)
	require.NoError(t, err, "la ventana de test debe ser válida")
	return w
}

func tool(id, name string, price int64, purchased time.Time) entity.Asset {
	return entity.Asset{
		ID:            id,
		Name:          name,
		PurchasePrice: money(price),
		PurchaseDate:  ptr(purchased),
		Unit:          "unidad",
	}
}

func consumable(id, name string) entity.Asset {
	return entity.Asset{ID: id, Name: name, IsConsumable: true, Unit: "caja"}
}

func move(assetID string, typ entity.MovementType, at time.Time) entity.MovementRecord {
	return entity.MovementRecord{AssetID: assetID, Type: typ, Quantity: 1, OccurredAt: at}
}

// movesN genera n movimientos diarios consecutivos desde start.
func movesN(assetID string, n int, start time.Time) []entity.MovementRecord {
	out := make([]entity.MovementRecord, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, move(assetID, entity.MovementCheckout, start.AddDate(0, 0, i)))
	}
	return out
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}
