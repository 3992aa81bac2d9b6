package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jhoicas/field-assets-api/internal/domain"
	engine "github.com/jhoicas/field-assets-api/internal/domain/analytics"
	"github.com/jhoicas/field-assets-api/pkg/logger"
)

const dateLayout = "2006-01-02"

// Settings parámetros por defecto de los reportes (vienen de config.AnalyticsConfig).
type Settings struct {
	LeadTimeDays           int
	LookbackMonths         int
	DefaultPeriodMonths    int
	DefaultUsefulLifeYears int
	CacheTTL               time.Duration
}

// Option ajusta dependencias opcionales de los casos de uso.
type Option func(*runtime)

// WithCache activa la caché de reportes.
func WithCache(c ReportCache) Option {
	return func(r *runtime) { r.cache = c }
}

// WithClock reemplaza time.Now (tests).
func WithClock(c Clock) Option {
	return func(r *runtime) { r.now = c }
}

// runtime dependencias compartidas por los casos de uso.
type runtime struct {
	cache ReportCache
	now   Clock
	ttl   time.Duration
	log   *logger.Logger
}

func newRuntime(log *logger.Logger, ttl time.Duration, opts []Option) runtime {
	if log == nil {
		log = logger.Nop()
	}
	r := runtime{now: time.Now, ttl: ttl, log: log}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// result resultado de una consulta lanzada en paralelo.
type result[T any] struct {
	val T
	err error
}

// async ejecuta fn en una goroutine; el canal tiene buffer 1 para que nunca quede bloqueada.
func async[T any](fn func() (T, error)) <-chan result[T] {
	ch := make(chan result[T], 1)
	go func() {
		v, err := fn()
		ch <- result[T]{val: v, err: err}
	}()
	return ch
}

// cached devuelve el reporte en caché o lo construye y lo guarda.
func cached[T any](ctx context.Context, rt runtime, key string, build func() (*T, error)) (*T, error) {
	if rt.cache != nil {
		raw, ok, err := rt.cache.Get(ctx, key)
		switch {
		case err != nil:
			rt.log.Warn().Err(err).Str("key", key).Msg("caché de reportes no disponible")
		case ok:
			var report T
			if err := json.Unmarshal(raw, &report); err == nil {
				rt.log.Debug().Str("key", key).Msg("reporte servido desde caché")
				return &report, nil
			}
			rt.log.Warn().Str("key", key).Msg("entrada de caché corrupta; se recalcula")
		}
	}

	report, err := build()
	if err != nil {
		return nil, err
	}

	if rt.cache != nil {
		raw, err := json.Marshal(report)
		if err == nil {
			err = rt.cache.Set(ctx, key, raw, rt.ttl)
		}
		if err != nil {
			rt.log.Warn().Err(err).Str("key", key).Msg("no se pudo guardar el reporte en caché")
		}
	}
	return report, nil
}

// requireOrganization todas las consultas van acotadas a una organización.
func requireOrganization(organizationID string) error {
	if organizationID == "" {
		return fmt.Errorf("%w: falta la organización", domain.ErrUnauthorized)
	}
	return nil
}

func cacheKey(organizationID, kind string, w engine.Window, extra ...any) string {
	key := fmt.Sprintf("reports:%s:%s:%d:%d", organizationID, kind, w.Start.Unix(), w.End.Unix())
	for _, e := range extra {
		key += fmt.Sprintf(":%v", e)
	}
	return key
}

// parsePeriod convierte start_date/end_date (YYYY-MM-DD, inclusivos) en la ventana [start, end).
// Sin end_date el período incluye el día de now completo, así la clave de caché no cambia
// dentro del mismo día; sin start_date empieza defaultMonths meses antes del fin.
func parsePeriod(startStr, endStr string, now time.Time, defaultMonths int) (engine.Window, error) {
	loc := now.Location()

	y, mo, dd := now.Date()
	end := time.Date(y, mo, dd, 0, 0, 0, 0, loc).AddDate(0, 0, 1)
	if endStr != "" {
		d, err := time.ParseInLocation(dateLayout, endStr, loc)
		if err != nil {
			return engine.Window{}, &engine.ValidationError{Field: "end_date", Reason: "formato esperado YYYY-MM-DD"}
		}
		end = d.AddDate(0, 0, 1) // inclusivo hasta el final del día
	}

	start := end.AddDate(0, -defaultMonths, 0)
	if startStr != "" {
		d, err := time.ParseInLocation(dateLayout, startStr, loc)
		if err != nil {
			return engine.Window{}, &engine.ValidationError{Field: "start_date", Reason: "formato esperado YYYY-MM-DD"}
		}
		start = d
	}

	return engine.NewWindow(start, end)
}

// fetchCheck error de una de las consultas paralelas, con el nombre de la colección.
type fetchCheck struct {
	what string
	err  error
}

// firstFetchError devuelve el primer error en el orden indicado, envuelto con contexto.
func firstFetchError(op string, checks ...fetchCheck) error {
	for _, c := range checks {
		if c.err != nil {
			return fmt.Errorf("%s: %s: %w", op, c.what, c.err)
		}
	}
	return nil
}
