// Package analytics orquesta la carga de datos por organización y la ejecución del motor
// de analítica de activos (costos, uso, inventario y maquinaria).
package analytics

import (
	"context"
	"time"
)

// ReportCache caché opcional de reportes ya serializados. Un fallo de caché nunca es fatal:
// el reporte se recalcula.
type ReportCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Clock fuente del instante "now"; el motor nunca lee el reloj por su cuenta.
type Clock func() time.Time
