package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OwnershipType modalidad de tenencia de maquinaria pesada.
type OwnershipType string

const (
	OwnershipOwned  OwnershipType = "owned"
	OwnershipLeased OwnershipType = "leased"
	OwnershipRented OwnershipType = "rented"
)

// IsContract es true para arrendamiento (leasing) y alquiler.
func (o OwnershipType) IsContract() bool {
	return o == OwnershipLeased || o == OwnershipRented
}

// EquipmentAsset maquinaria pesada con datos de compra o de contrato.
type EquipmentAsset struct {
	ID                string
	Code              string
	Name              string
	CategoryCode      string // backhoe, crane, ... (define la vida útil)
	OwnershipType     OwnershipType
	PurchaseDate      *time.Time
	PurchasePrice     decimal.NullDecimal
	MonthlyCost       decimal.NullDecimal // cuota mensual de leasing/alquiler
	ContractStartDate *time.Time
	ContractEndDate   *time.Time
	EnableHourMeter   bool // el equipo registra lecturas de horómetro
}

// EquipmentAction acción registrada sobre un equipo.
type EquipmentAction string

const (
	EquipmentCheckout EquipmentAction = "checkout"
	EquipmentCheckin  EquipmentAction = "checkin"
	EquipmentTransfer EquipmentAction = "transfer"
)

// EquipmentUsageRecord salida, devolución o traslado de un equipo, con lectura opcional del horómetro.
type EquipmentUsageRecord struct {
	EquipmentID      string
	UserID           string
	ActionType       EquipmentAction
	HourMeterReading decimal.NullDecimal
	ActionAt         time.Time
}
