package postgres

import (
	"time"

	"github.com/jhoicas/field-assets-api/internal/domain/entity"
	"github.com/jhoicas/field-assets-api/internal/domain/repository"
)

// periodArgs convierte los límites del período en parámetros SQL; cero se envía como NULL.
func periodArgs(p repository.Period) (from, to *time.Time) {
	if !p.From.IsZero() {
		f := p.From
		from = &f
	}
	if !p.To.IsZero() {
		t := p.To
		to = &t
	}
	return from, to
}

// storedMovementTypes valores que la aplicación guarda en movement_type.
// tool_movements usa check_out/check_in; consumable_movements usa etiquetas en japonés.
var storedMovementTypes = map[string]entity.MovementType{
	"check_out": entity.MovementCheckout,
	"check_in":  entity.MovementCheckin,
	"transfer":  entity.MovementTransfer,
	"消費":        entity.MovementConsumption,
	"出庫":        entity.MovementConsumption,
	"調整":        entity.MovementAdjustment,
	"移動":        entity.MovementTransfer,
	"一括移動":      entity.MovementBulkTransfer,
}

// normalizeMovementType traduce el valor guardado al vocabulario del motor.
// Una salida de bodega a obra es consumo aunque se haya registrado como traslado.
// Valores desconocidos se conservan tal cual y el motor los informa como nota de calidad.
func normalizeMovementType(raw, fromLocationType, toLocationType string) entity.MovementType {
	t, ok := storedMovementTypes[raw]
	if !ok {
		t = entity.MovementType(raw)
	}
	if t.Valid() && t != entity.MovementConsumption &&
		fromLocationType == entity.LocationWarehouse && toLocationType == entity.LocationSite {
		return entity.MovementConsumption
	}
	return t
}
