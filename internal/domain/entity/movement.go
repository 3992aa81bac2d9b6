package entity

import "time"

// MovementType tipo de movimiento registrado para un activo.
type MovementType string

// Tipos de movimiento (log append-only; las correcciones son movimientos nuevos).
const (
	MovementCheckout     MovementType = "checkout"      // salida hacia obra
	MovementCheckin      MovementType = "checkin"       // devolución
	MovementTransfer     MovementType = "transfer"      // traslado entre ubicaciones
	MovementAdjustment   MovementType = "adjustment"    // ajuste de inventario
	MovementConsumption  MovementType = "consumption"   // consumo de material
	MovementBulkTransfer MovementType = "bulk_transfer" // traslado masivo de consumibles
)

// Valid informa si el tipo es uno de los conocidos.
func (t MovementType) Valid() bool {
	switch t {
	case MovementCheckout, MovementCheckin, MovementTransfer,
		MovementAdjustment, MovementConsumption, MovementBulkTransfer:
		return true
	}
	return false
}

// MovementRecord movimiento inmutable de un activo.
type MovementRecord struct {
	AssetID      string
	Type         MovementType
	Quantity     int
	OccurredAt   time.Time
	FromLocation *string
	ToLocation   *string
	PerformedBy  *string
}
