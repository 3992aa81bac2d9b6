package analytics

import (
	"fmt"

	"github.com/jhoicas/field-assets-api/internal/domain"
)

// ValidationError violación de contrato por parte del llamador (p.ej. ventana vacía o invertida).
// No es recuperable dentro del motor: se devuelve antes de calcular nada.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("analytics: %s: %s", e.Field, e.Reason)
}

// Unwrap permite errors.Is(err, domain.ErrInvalidInput).
func (e *ValidationError) Unwrap() error { return domain.ErrInvalidInput }

// Tipos de nota de calidad de datos.
const (
	NoteMissingCost         = "missing_cost"
	NoteNegativeCost        = "negative_cost"
	NoteMissingPurchaseDate = "missing_purchase_date"
	NoteUnknownMovementType = "unknown_movement_type"
)

// DataQualityNote anomalía de datos tratada como cero en la aritmética pero informada al llamador.
type DataQualityNote struct {
	AssetID string `json:"asset_id"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}
