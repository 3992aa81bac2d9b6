package analytics

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/field-assets-api/internal/domain/entity"
)

// noteBook acumula notas de calidad de datos y las marca por activo.
type noteBook struct {
	notes   []DataQualityNote
	flagged map[string]bool
}

func newNoteBook() *noteBook {
	return &noteBook{notes: []DataQualityNote{}, flagged: make(map[string]bool)}
}

func (b *noteBook) add(assetID, kind, msg string) {
	b.notes = append(b.notes, DataQualityNote{AssetID: assetID, Kind: kind, Message: msg})
	b.flagged[assetID] = true
}

// amount devuelve el importe utilizable de un costo opcional.
// Nulo o negativo cuenta como cero y deja una nota.
func (b *noteBook) amount(assetID string, v decimal.NullDecimal, what string) decimal.Decimal {
	if !v.Valid {
		b.add(assetID, NoteMissingCost, fmt.Sprintf("%s sin costo registrado; se toma 0", what))
		return zero
	}
	if v.Decimal.IsNegative() {
		b.add(assetID, NoteNegativeCost, fmt.Sprintf("%s con costo negativo (%s); se toma 0", what, v.Decimal.String()))
		return zero
	}
	return v.Decimal
}

// safeAmount igual que amount pero sin registrar notas (rutas que no informan calidad de datos).
func safeAmount(v decimal.NullDecimal) decimal.Decimal {
	if !v.Valid || v.Decimal.IsNegative() {
		return zero
	}
	return v.Decimal
}

func indexAssets(assets []entity.Asset) map[string]entity.Asset {
	idx := make(map[string]entity.Asset, len(assets))
	for _, a := range assets {
		idx[a.ID] = a
	}
	return idx
}

func nullDecimal(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}
