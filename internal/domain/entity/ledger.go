package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderRecord pedido de reposición de un consumible.
type OrderRecord struct {
	AssetID   string
	Cost      decimal.NullDecimal // importe total del pedido
	Quantity  int
	OrderedAt time.Time
}

// MaintenanceRecord inspección o reparación de un activo o equipo.
type MaintenanceRecord struct {
	AssetID     string
	Cost        decimal.NullDecimal
	PerformedAt time.Time
}

// Tipos de ubicación de inventario.
const (
	LocationWarehouse = "warehouse"
	LocationSite      = "site"
)

// InventorySnapshot existencias actuales de un consumible en una ubicación.
// Es estado presente, no histórico: nunca se filtra por ventana de tiempo.
type InventorySnapshot struct {
	AssetID      string
	Location     string
	LocationType string // warehouse | site
	Quantity     int
}
