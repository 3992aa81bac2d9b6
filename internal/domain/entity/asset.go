package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Asset representa un activo de campo: herramienta (seguimiento individual) o consumible
// (seguimiento a granel). Nunca ambos.
type Asset struct {
	ID            string
	Name          string
	CategoryName  *string // nil = sin categoría
	IsConsumable  bool
	PurchasePrice decimal.NullDecimal // precio de compra único (herramientas); puede faltar
	PurchaseDate  *time.Time          // momento de adquisición; decide si el precio entra en la ventana
	MinimumStock  int
	Unit          string
	TotalItems    int // unidades individuales registradas (herramientas)
}

